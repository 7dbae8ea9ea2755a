package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore хранит состояние в SQLite: строка в bot_state и таблица
// excluded_players.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bot_state (
			id TEXT PRIMARY KEY,
			status_message_id TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS excluded_players (
			name TEXT PRIMARY KEY
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (State, error) {
	st := State{ID: RecordID}

	var msgID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT status_message_id FROM bot_state WHERE id = ?`, RecordID).Scan(&msgID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return st, fmt.Errorf("load bot_state: %w", err)
	default:
		st.StatusMessageID = msgID.String
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM excluded_players ORDER BY name`)
	if err != nil {
		return st, fmt.Errorf("load excluded_players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return st, err
		}
		st.ExcludedPlayers = append(st.ExcludedPlayers, name)
	}
	return st, rows.Err()
}

// Save перезаписывает состояние целиком в одной транзакции.
func (s *SQLiteStore) Save(ctx context.Context, st State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var msgID sql.NullString
	if st.StatusMessageID != "" {
		msgID = sql.NullString{String: st.StatusMessageID, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bot_state (id, status_message_id) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET status_message_id = excluded.status_message_id`,
		RecordID, msgID); err != nil {
		return fmt.Errorf("save bot_state: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM excluded_players`); err != nil {
		return fmt.Errorf("clear excluded_players: %w", err)
	}
	for _, name := range st.ExcludedPlayers {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO excluded_players (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("save excluded player %q: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
