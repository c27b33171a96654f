package calc

import "fmt"

// ActionKind identifies a keypad action.
type ActionKind uint8

const (
	ActionDigit ActionKind = iota + 1
	ActionOperator
	ActionDecimal
	ActionParenthesis
	ActionClear
	ActionDelete
	ActionCalculate
)

func (k ActionKind) String() string {
	switch k {
	case ActionDigit:
		return "digit"
	case ActionOperator:
		return "operator"
	case ActionDecimal:
		return "decimal"
	case ActionParenthesis:
		return "parenthesis"
	case ActionClear:
		return "clear"
	case ActionDelete:
		return "delete"
	case ActionCalculate:
		return "calculate"
	default:
		return "unknown"
	}
}

// Action is one user input. Digit is set for ActionDigit, Op for ActionOperator.
type Action struct {
	Kind  ActionKind
	Digit int
	Op    byte
}

// Digit enters d, which must be 0..9.
func Digit(d int) Action { return Action{Kind: ActionDigit, Digit: d} }

// Operator enters one of + - * / %.
func Operator(op byte) Action { return Action{Kind: ActionOperator, Op: op} }

// Decimal starts or continues the fractional part of the current number.
func Decimal() Action { return Action{Kind: ActionDecimal} }

// Parenthesis toggles between an opening and a closing parenthesis.
func Parenthesis() Action { return Action{Kind: ActionParenthesis} }

// Clear resets expression and history.
func Clear() Action { return Action{Kind: ActionClear} }

// Delete drops the last character of the expression.
func Delete() Action { return Action{Kind: ActionDelete} }

// Calculate evaluates the expression and records it in history on success.
func Calculate() Action { return Action{Kind: ActionCalculate} }

func (a Action) String() string {
	switch a.Kind {
	case ActionDigit:
		return fmt.Sprintf("digit(%d)", a.Digit)
	case ActionOperator:
		return fmt.Sprintf("operator(%c)", a.Op)
	default:
		return a.Kind.String()
	}
}

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
