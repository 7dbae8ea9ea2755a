package presence

import "strings"

// ThreatTier — класс угрозы игрока (только для отображения).
type ThreatTier int

const (
	Unknown ThreatTier = iota
	Green
	White
	Red
	Black
)

func (t ThreatTier) String() string {
	switch t {
	case Black:
		return "black"
	case Red:
		return "red"
	case White:
		return "white"
	case Green:
		return "green"
	default:
		return "unknown"
	}
}

// Tag — каноничное имя эмодзи для уровня (используется, если в строке тега не было).
func (t ThreatTier) Tag() string {
	switch t {
	case Black:
		return "d_blackskull"
	case Red:
		return "d_redskull"
	case White:
		return "d_whiteskull"
	case Green:
		return "d_greenskull"
	default:
		return "grey_question"
	}
}

// TierFromTag определяет уровень по тегу вида "d_redskull".
func TierFromTag(tag string) ThreatTier {
	t := strings.ToLower(tag)
	switch {
	case strings.Contains(t, "black"):
		return Black
	case strings.Contains(t, "red"):
		return Red
	case strings.Contains(t, "white"):
		return White
	case strings.Contains(t, "green"):
		return Green
	default:
		return Unknown
	}
}

// Field — необязательное строковое поле. Valid=false значит «нет значения»,
// а не пустую строку.
type Field struct {
	Value string
	Valid bool
}

func Some(v string) Field { return Field{Value: v, Valid: true} }

// optional превращает пустую (после trim) строку в отсутствующее поле.
func optional(s string) Field {
	s = strings.TrimSpace(s)
	if s == "" {
		return Field{}
	}
	return Some(s)
}

// Record — одна запись о присутствии игрока, полученная из строки статуса.
type Record struct {
	Tier     ThreatTier
	Tag      Field
	Vocation Field
	Name     string
	Level    Field
}

// Entry — запись, готовая к выводу: игрок + последние известные локации.
type Entry struct {
	Record
	Locations []string
}
