package calc

import "strings"

// Machine applies actions to states. It is stateless apart from its evaluator and safe for
// concurrent use when the evaluator is.
type Machine struct {
	eval Evaluator
}

// NewMachine returns a Machine that evaluates with ev. A nil ev selects GovaluateEvaluator.
func NewMachine(ev Evaluator) *Machine {
	if ev == nil {
		ev = GovaluateEvaluator{}
	}
	return &Machine{eval: ev}
}

// Apply returns the state that results from applying a to s. s is not modified.
func (m *Machine) Apply(s State, a Action) State {
	switch a.Kind {
	case ActionDigit:
		return enterDigit(s, a.Digit)
	case ActionOperator:
		return enterOperator(s, a.Op)
	case ActionDecimal:
		return enterDecimal(s)
	case ActionParenthesis:
		return enterParenthesis(s)
	case ActionClear:
		return State{}
	case ActionDelete:
		return deleteLast(s)
	case ActionCalculate:
		return m.calculate(s)
	default:
		return s
	}
}

// ApplyAll folds actions over s in order.
func (m *Machine) ApplyAll(s State, actions []Action) State {
	for _, a := range actions {
		s = m.Apply(s, a)
	}
	return s
}

func enterDigit(s State, d int) State {
	if d < 0 || d > 9 {
		return s
	}
	return s.withExpression(s.Expression + string(rune('0'+d)))
}

func enterOperator(s State, op byte) State {
	if !isOperator(op) {
		return s
	}
	expr := s.Expression
	if expr == "" {
		// Only a leading minus can start an expression.
		if op == '-' {
			return s.withExpression("-")
		}
		return s
	}
	if isOperator(expr[len(expr)-1]) {
		return s.withExpression(expr[:len(expr)-1] + string(op))
	}
	return s.withExpression(expr + string(op))
}

func enterDecimal(s State) State {
	expr := s.Expression
	if expr == "" {
		return s.withExpression("0.")
	}
	i := len(expr)
	for i > 0 && (isDigit(expr[i-1]) || expr[i-1] == '.') {
		i--
	}
	if strings.IndexByte(expr[i:], '.') >= 0 {
		return s
	}
	return s.withExpression(expr + ".")
}

// enterParenthesis guesses between "(" and ")" from the trailing character and the overall
// balance. It does not track grammar state: "(1)(" followed by a digit and another press closes
// the second group, but "(1)" followed by a press opens a new one.
func enterParenthesis(s State) State {
	expr := s.Expression
	if expr == "" {
		return s.withExpression("(")
	}
	last := expr[len(expr)-1]
	if isOperator(last) || last == '(' {
		return s.withExpression(expr + "(")
	}
	open := strings.Count(expr, "(")
	closed := strings.Count(expr, ")")
	if open > closed {
		return s.withExpression(expr + ")")
	}
	return s.withExpression(expr + "(")
}

func deleteLast(s State) State {
	if s.Expression == "" {
		return s
	}
	return s.withExpression(s.Expression[:len(s.Expression)-1])
}

func (m *Machine) calculate(s State) State {
	if s.Expression == "" {
		return s
	}
	v, err := m.eval.Evaluate(s.Expression)
	if err != nil {
		return s.withExpression(ErrorText)
	}
	out := FormatResult(v)
	return State{
		Expression: out,
		History:    pushHistory(s.History, s.Expression+" = "+out),
	}
}

// Evaluate computes expr and formats the result the way Calculate does, without touching any state.
func (m *Machine) Evaluate(expr string) (string, error) {
	v, err := m.eval.Evaluate(expr)
	if err != nil {
		return "", err
	}
	return FormatResult(v), nil
}
