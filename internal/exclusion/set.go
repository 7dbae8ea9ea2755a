// Package exclusion — список игроков, исключённых из сводки.
//
// Проверка прав здесь не делается: её выполняет вызывающий код (роль в
// гильдии). Сохранение тоже на вызывающем — после каждого изменения.
package exclusion

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound — имя отсутствует в списке исключений.
var ErrNotFound = errors.New("player is not excluded")

// Set — множество имён, сравнение точное (с учётом регистра).
type Set struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

func New(names ...string) *Set {
	s := &Set{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Exclude добавляет имя. Повторный вызов ничего не меняет.
func (s *Set) Exclude(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[name] = struct{}{}
}

// Include убирает имя из списка; если его там нет — ErrNotFound.
func (s *Set) Include(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(s.names, name)
	return nil
}

func (s *Set) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[name]
	return ok
}

// Names — отсортированная копия списка.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Replace заменяет содержимое целиком (загрузка состояния при старте).
func (s *Set) Replace(names []string) {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	s.mu.Lock()
	s.names = m
	s.mu.Unlock()
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}
