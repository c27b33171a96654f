package calc

// MaxHistory is the number of evaluated expressions kept in State.History.
const MaxHistory = 5

// ErrorText is the display text after a failed Calculate.
const ErrorText = "Error"

// Mode is the coarse state of the expression buffer.
type Mode uint8

const (
	// ModeEmpty means nothing has been entered; the display shows "0".
	ModeEmpty Mode = iota
	// ModeEditing means the expression holds user input or a result.
	ModeEditing
	// ModeError means the last Calculate failed and the expression is ErrorText.
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeEditing:
		return "editing"
	case ModeError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the calculator.
//
// History is most-recent-first. Values returned by Machine.Apply never share a History backing
// array with a different State, so callers may keep old snapshots around.
type State struct {
	Expression string   `json:"expression"`
	History    []string `json:"history"`
}

// Mode reports whether the buffer is empty, being edited, or showing the error text.
func (s State) Mode() Mode {
	switch s.Expression {
	case "":
		return ModeEmpty
	case ErrorText:
		return ModeError
	default:
		return ModeEditing
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Expression: s.Expression}
	if len(s.History) > 0 {
		out.History = append([]string(nil), s.History...)
	}
	return out
}

// Display returns the text shown in the main display line.
func (s State) Display() string {
	if s.Expression == "" {
		return "0"
	}
	return s.Expression
}

func (s State) withExpression(expr string) State {
	return State{Expression: expr, History: s.History}
}

// pushHistory returns a new slice with entry in front, trimmed to MaxHistory.
func pushHistory(h []string, entry string) []string {
	n := len(h) + 1
	if n > MaxHistory {
		n = MaxHistory
	}
	out := make([]string, 0, n)
	out = append(out, entry)
	for _, e := range h {
		if len(out) == n {
			break
		}
		out = append(out, e)
	}
	return out
}
