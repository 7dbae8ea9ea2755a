package presence

// DefaultLocationLimit — сколько последних локаций показывать по игроку.
const DefaultLocationLimit = 5

// LocationSource отдаёт последние известные локации игрока.
type LocationSource interface {
	Recent(name string, limit int) []string
}

// Membership — проверка имени на исключение.
type Membership interface {
	Contains(name string) bool
}

// Reconcile собирает записи для сводки из строк последнего статус-сообщения.
// Порядок строк источника сохраняется.
func Reconcile(lines []string, locs LocationSource, excluded Membership, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLocationLimit
	}
	var out []Entry
	for _, line := range lines {
		if !HasTierMarker(line) {
			continue
		}
		rec, ok := ParseLine(line)
		if !ok {
			continue
		}
		if excluded != nil && excluded.Contains(rec.Name) {
			continue
		}
		var recent []string
		if locs != nil {
			recent = locs.Recent(rec.Name, limit)
		}
		out = append(out, Entry{Record: rec, Locations: recent})
	}
	return out
}
