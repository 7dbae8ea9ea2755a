package presence

import "strings"

// маркеры, по которым строка считается строкой присутствия
var tierMarkers = []string{
	":d_whiteskull:",
	":d_redskull:",
	":d_blackskull:",
	":d_greenskull:",
}

// HasTierMarker — есть ли в строке один из четырёх маркеров уровня угрозы.
func HasTierMarker(line string) bool {
	for _, m := range tierMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// ParseLine разбирает строку вида ":d_redskull: :knight: Name, 250".
//
// Поле 0 (до первой запятой) режется по ':'; подполе 1 — тег уровня,
// подполе 3 — профессия, последнее подполе — имя. Поле 1 — уровень.
// Если имя извлечь не удалось, возвращает false. Никогда не паникует.
func ParseLine(line string) (Record, bool) {
	parts := strings.Split(line, ",")
	sub := strings.Split(parts[0], ":")

	name := strings.TrimSpace(sub[len(sub)-1])
	if name == "" {
		return Record{}, false
	}

	rec := Record{Name: name}
	if len(sub) > 1 {
		rec.Tag = optional(sub[1])
	}
	if len(sub) > 3 {
		rec.Vocation = optional(sub[3])
	}
	if len(parts) > 1 {
		rec.Level = optional(parts[1])
	}
	if rec.Tag.Valid {
		rec.Tier = TierFromTag(rec.Tag.Value)
	}
	return rec, true
}

// StatusLines вырезает тело из сообщения «Online»: всё после первой строки,
// начинающейся с '_', без последней (служебной) строки. Если разделителя
// нет — формат неизвестен, строк нет.
func StatusLines(content string) []string {
	lines := strings.Split(content, "\n")
	start := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "_") {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return nil
	}
	body := lines[start : len(lines)-1]
	if len(body) == 0 {
		return nil
	}
	return body
}
