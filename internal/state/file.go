package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore хранит состояние в JSON-файле.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Load(_ context.Context) (State, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	st := State{ID: RecordID}
	b, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil // первый запуск
		}
		return st, err
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return State{ID: RecordID}, err
	}
	st.ID = RecordID
	return st, nil
}

// Save пишет файл атомарно: во временный, затем rename.
func (fs *FileStore) Save(_ context.Context, st State) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	st.ID = RecordID
	if st.ExcludedPlayers == nil {
		st.ExcludedPlayers = []string{}
	}
	b, err := json.MarshalIndent(&st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return err
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path)
}

func (fs *FileStore) Close() error { return nil }
