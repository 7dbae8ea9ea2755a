package presence

import (
	"fmt"
	"strings"
)

// EmptyBody — тело сводки, когда в сети никого нет.
const EmptyBody = "No current online players."

var header = []string{
	"This is the online ks list:\n",
	"Each person on this list is to be treated as persona non grata.",
	":d_blackskull: is a top priority enemy. Do not play with them and please report if you see them around.",
	":d_redskull: is an average priority enemy. Do not play with them.",
	":d_whiteskull: is a low priority enemy. Do not play with them.",
	":d_greenskull: is for people that did not yet settle deals with the dominando. You can play with them, but be cautious.\n",
}

const footer = "\nPowered by Ten Jack Ryan"

// Line форматирует одну запись сводки.
func Line(e Entry) string {
	var b strings.Builder
	tag := e.Tier.Tag()
	if e.Tag.Valid {
		tag = e.Tag.Value
	}
	fmt.Fprintf(&b, ":%s: ", tag)
	if e.Vocation.Valid {
		fmt.Fprintf(&b, ":%s: ", e.Vocation.Value)
	}
	b.WriteString(e.Name)
	if e.Level.Valid {
		b.WriteString(", ")
		b.WriteString(e.Level.Value)
	}
	b.WriteString(" was last seen at: ")
	b.WriteString(strings.Join(e.Locations, ", "))
	return b.String()
}

// Body — тело сводки без шапки и подвала.
func Body(entries []Entry) string {
	if len(entries) == 0 {
		return EmptyBody
	}
	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Line(e))
	}
	return strings.Join(rows, "\n")
}

// Render — полный текст сводки: шапка, тело, подвал.
func Render(entries []Entry) string {
	return frame(Body(entries))
}

// Fit рендерит сводку не длиннее limit символов: лишние записи с конца
// отбрасываются и заменяются строкой «…and N more.». limit <= 0 — без ограничения.
func Fit(entries []Entry, limit int) string {
	full := Render(entries)
	if limit <= 0 || len([]rune(full)) <= limit {
		return full
	}
	for n := len(entries) - 1; n >= 0; n-- {
		more := fmt.Sprintf("…and %d more.", len(entries)-n)
		body := more
		if n > 0 {
			body = Body(entries[:n]) + "\n" + more
		}
		out := frame(body)
		if len([]rune(out)) <= limit {
			return out
		}
	}
	// даже шапка не влезает — режем как есть
	return string([]rune(full)[:limit])
}

func frame(body string) string {
	lines := make([]string, 0, len(header)+2)
	lines = append(lines, header...)
	lines = append(lines, body, footer)
	return strings.Join(lines, "\n")
}
