package bot

import (
	"strconv"
	"strings"

	"github.com/park285/chessduel/internal/irisfast"
	"github.com/park285/chessduel/internal/pvpchess"
)

// Command is a parsed chat command.
type Command struct {
	Name string
	Args []string
	Raw  string // text after the command name, untouched
}

// ParseCommand splits a chat line. ok is false when the line does not start with prefix.
func ParseCommand(prefix, text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return Command{}, false
	}
	body := strings.TrimSpace(strings.TrimPrefix(text, prefix))
	if body == "" {
		return Command{}, false
	}
	name, rest, _ := strings.Cut(body, " ")
	cmd := Command{Name: strings.ToLower(name), Raw: strings.TrimSpace(rest)}
	if cmd.Raw != "" {
		cmd.Args = strings.Fields(cmd.Raw)
	}
	return cmd, true
}

// startTarget picks the opponent of a start command. Structured mentions win; without
// them "@name" tokens count. Exactly one mention of another human is accepted.
func startTarget(msg *irisfast.Message, args []string) (pvpchess.Participant, bool) {
	self := msg.UserID()
	var found []pvpchess.Participant
	if ms := msg.Mentions(); len(ms) > 0 {
		for _, m := range ms {
			if m.Bot {
				return pvpchess.Participant{}, false
			}
			found = append(found, pvpchess.Participant{ID: strings.TrimSpace(m.UserID), Name: strings.TrimSpace(m.Name)})
		}
	} else {
		for _, a := range args {
			if id := sanitizeUserArg(a); id != "" {
				found = append(found, pvpchess.Participant{ID: id, Name: id})
			}
		}
	}
	if len(found) != 1 || found[0].ID == "" || found[0].ID == self {
		return pvpchess.Participant{}, false
	}
	return found[0], true
}

func sanitizeUserArg(a string) string {
	if !strings.HasPrefix(a, "@") {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(a, "@"), " ,.!?<>")
}

// startPreference reads "as white|black|random" or a bare colour word.
func startPreference(args []string) pvpchess.ColorPreference {
	for i, a := range args {
		word := strings.ToLower(a)
		if word == "as" && i+1 < len(args) {
			return pvpchess.ParseColorPreference(args[i+1])
		}
		switch word {
		case "white", "black", "random":
			return pvpchess.ParseColorPreference(word)
		}
	}
	return pvpchess.PreferWhite
}

// historyLimit parses an optional count, clamped to [1, max].
func historyLimit(args []string, max int) int {
	n := max
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
			n = v
		}
	}
	if n > max {
		n = max
	}
	if n < 1 {
		n = 1
	}
	return n
}
