// Package state — сохранение состояния бота между перезапусками: список
// исключённых игроков и id опубликованной сводки.
//
// Хранилищ два: JSON-файл (по умолчанию) и SQLite. Оба хранят одну запись
// с постоянным ключом RecordID.
package state

import (
	"context"
	"fmt"
)

// RecordID — ключ единственной записи состояния.
const RecordID = "1"

// State — сохраняемая запись.
type State struct {
	ID              string   `json:"id"`
	ExcludedPlayers []string `json:"excluded_players"`
	StatusMessageID string   `json:"status_message_id,omitempty"` // "" — сводки нет
}

// Store — загрузка/сохранение состояния.
// Load на пустом хранилище возвращает пустое State без ошибки.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, st State) error
	Close() error
}

// Open открывает хранилище по имени бэкенда ("file" или "sqlite").
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(path), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}
