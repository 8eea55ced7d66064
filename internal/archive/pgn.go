package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/chessduel/internal/domain"
)

// BuildPGN renders a result as a PGN game with the seven-tag roster plus Termination.
func BuildPGN(r domain.GameResult) string {
	date := r.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	result := strings.TrimSpace(r.Result)
	if result == "" {
		result = "*"
	}

	var b strings.Builder
	writeTag(&b, "Event", "Chat duel")
	writeTag(&b, "Site", r.Room)
	writeTag(&b, "Date", fmt.Sprintf("%04d.%02d.%02d", date.Year(), int(date.Month()), date.Day()))
	writeTag(&b, "Round", "-")
	writeTag(&b, "White", nameOr(r.WhiteName, r.WhiteID))
	writeTag(&b, "Black", nameOr(r.BlackName, r.BlackID))
	writeTag(&b, "Result", result)
	if t := strings.TrimSpace(r.Termination); t != "" {
		writeTag(&b, "Termination", strings.ReplaceAll(t, "_", " "))
	}
	b.WriteString("\n")

	for i := 0; i < len(r.MovesSAN); i += 2 {
		fmt.Fprintf(&b, "%d. %s ", i/2+1, strings.TrimSpace(r.MovesSAN[i]))
		if i+1 < len(r.MovesSAN) {
			b.WriteString(strings.TrimSpace(r.MovesSAN[i+1]))
			b.WriteString(" ")
		}
	}
	b.WriteString(result)
	return b.String()
}

func writeTag(b *strings.Builder, key, value string) {
	v := sanitizePGN(value)
	if v == "" {
		v = "?"
	}
	fmt.Fprintf(b, "[%s \"%s\"]\n", key, v)
}

func nameOr(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return id
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
