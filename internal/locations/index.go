// Package locations хранит места, где видели игроков, по сообщениям из
// канала репортов ("!ks > Name > location").
package locations

import (
	"strings"
	"sync"
)

// DefaultHistoryCap — сколько различных локаций на игрока держим в памяти.
const DefaultHistoryCap = 20

// Index — история локаций по имени игрока. Безопасен для конкурентного
// использования: мьютекс держится только на время изменения карты.
type Index struct {
	mu      sync.RWMutex
	histCap int
	players map[string][]string // имя -> различные локации, от старой к новой
}

// New создаёт индекс. historyCap <= 0 — DefaultHistoryCap.
func New(historyCap int) *Index {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Index{
		histCap: historyCap,
		players: make(map[string][]string),
	}
}

// Record добавляет наблюдение. Повтор уже известной локации переносит её
// в конец (самая свежая), дубликаты не хранятся.
func (ix *Index) Record(name, location string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	hist := ix.players[name]
	for i, l := range hist {
		if l == location {
			hist = append(hist[:i], hist[i+1:]...)
			break
		}
	}
	hist = append(hist, location)
	if len(hist) > ix.histCap {
		hist = hist[len(hist)-ix.histCap:]
	}
	ix.players[name] = hist
}

// Recent возвращает до limit последних различных локаций (от старой к новой).
func (ix *Index) Recent(name string, limit int) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hist := ix.players[name]
	if limit > 0 && len(hist) > limit {
		hist = hist[len(hist)-limit:]
	}
	if len(hist) == 0 {
		return nil
	}
	out := make([]string, len(hist))
	copy(out, hist)
	return out
}

// Players — сколько игроков в индексе.
func (ix *Index) Players() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.players)
}

// ParseReport разбирает строку "<что угодно> > Name > location".
// Нужно ровно два разделителя '>', имя и локация непустые.
// prefix (если задан) должен стоять в начале строки.
func ParseReport(line, prefix string) (name, location string, ok bool) {
	if prefix != "" && !strings.HasPrefix(line, prefix) {
		return "", "", false
	}
	parts := strings.Split(line, ">")
	if len(parts) != 3 {
		return "", "", false
	}
	name = strings.TrimSpace(parts[1])
	location = strings.TrimSpace(parts[2])
	if name == "" || location == "" {
		return "", "", false
	}
	return name, location, true
}

// Ingest прогоняет строки в хронологическом порядке (старые первыми)
// и возвращает число учтённых репортов.
func (ix *Index) Ingest(lines []string, prefix string) int {
	n := 0
	for _, line := range lines {
		name, loc, ok := ParseReport(line, prefix)
		if !ok {
			continue
		}
		ix.Record(name, loc)
		n++
	}
	return n
}
