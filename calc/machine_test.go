package calc

import (
	"fmt"
	"reflect"
	"testing"
)

func apply(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	return NewMachine(nil).ApplyAll(s, actions)
}

func exprState(expr string) State { return State{Expression: expr} }

func TestEnterDigitsConcatenate(t *testing.T) {
	s := apply(t, State{}, Digit(1), Digit(0), Digit(0), Digit(7))
	if s.Expression != "1007" {
		t.Fatalf("Expression = %q, want %q", s.Expression, "1007")
	}
}

func TestEnterDigitOutOfRangeIsNoop(t *testing.T) {
	s := apply(t, exprState("1"), Digit(10), Digit(-1))
	if s.Expression != "1" {
		t.Fatalf("Expression = %q, want %q", s.Expression, "1")
	}
}

func TestEnterOperator(t *testing.T) {
	tests := []struct {
		in   string
		op   byte
		want string
	}{
		{in: "", op: '-', want: "-"},
		{in: "", op: '+', want: ""},
		{in: "", op: '*', want: ""},
		{in: "", op: '/', want: ""},
		{in: "", op: '%', want: ""},
		{in: "2", op: '+', want: "2+"},
		{in: "2+", op: '*', want: "2*"},
		{in: "2*", op: '-', want: "2-"},
		{in: "-", op: '+', want: "+"},
		{in: "(1)", op: '%', want: "(1)%"},
		{in: "3", op: '^', want: "3"},
	}
	for _, tt := range tests {
		got := apply(t, exprState(tt.in), Operator(tt.op)).Expression
		if got != tt.want {
			t.Fatalf("Operator(%q) on %q = %q, want %q", tt.op, tt.in, got, tt.want)
		}
	}
}

func TestOperatorSubstitution(t *testing.T) {
	ops := []byte{'+', '-', '*', '/', '%'}
	for _, base := range []string{"7", "1.5", "(2)"} {
		for _, op1 := range ops {
			for _, op2 := range ops {
				got := apply(t, exprState(base), Operator(op1), Operator(op2)).Expression
				want := base + string(op2)
				if got != want {
					t.Fatalf("%q then %q on %q = %q, want %q", op1, op2, base, got, want)
				}
			}
		}
	}
}

func TestEnterDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "0."},
		{in: "1", want: "1."},
		{in: "1.", want: "1."},
		{in: "1.2", want: "1.2"},
		{in: "1.2+3", want: "1.2+3."},
		{in: "1+", want: "1+."},
		{in: "(4", want: "(4."},
	}
	for _, tt := range tests {
		got := apply(t, exprState(tt.in), Decimal()).Expression
		if got != tt.want {
			t.Fatalf("Decimal() on %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnterDecimalIdempotent(t *testing.T) {
	for _, in := range []string{"", "1", "12+3", "0.5", "(7"} {
		once := apply(t, exprState(in), Decimal())
		twice := apply(t, exprState(in), Decimal(), Decimal())
		if once.Expression != twice.Expression {
			t.Fatalf("Decimal() twice on %q = %q, once = %q", in, twice.Expression, once.Expression)
		}
	}
}

func TestEnterParenthesis(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "("},
		{in: "(", want: "(("},
		{in: "2+", want: "2+("},
		{in: "2%", want: "2%("},
		{in: "(2", want: "(2)"},
		{in: "((2)", want: "((2))"},
		{in: "(2)", want: "(2)("},
		{in: "2", want: "2("},
		{in: "(1)(3", want: "(1)(3)"},
	}
	for _, tt := range tests {
		got := apply(t, exprState(tt.in), Parenthesis()).Expression
		if got != tt.want {
			t.Fatalf("Parenthesis() on %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDelete(t *testing.T) {
	if got := apply(t, exprState("12+"), Delete()).Expression; got != "12" {
		t.Fatalf("Delete() = %q, want %q", got, "12")
	}
	empty := apply(t, State{}, Delete())
	if empty.Expression != "" || len(empty.History) != 0 {
		t.Fatalf("Delete() on empty = %+v, want empty", empty)
	}
}

func TestClearResetsExpressionAndHistory(t *testing.T) {
	s := State{Expression: "9", History: []string{"4+5 = 9"}}
	got := apply(t, s, Clear())
	if got.Expression != "" || len(got.History) != 0 {
		t.Fatalf("Clear() = %+v, want empty state", got)
	}
	if got.Mode() != ModeEmpty {
		t.Fatalf("Mode() = %v, want %v", got.Mode(), ModeEmpty)
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2+2", want: "4"},
		{in: "2+3*4", want: "14"},
		{in: "(2+3)*4", want: "20"},
		{in: "7/2", want: "3.5"},
		{in: "1/3", want: "0.3333333333"},
		{in: "2/3", want: "0.6666666667"},
		{in: "10%4", want: "2"},
		{in: "-5+2", want: "-3"},
		{in: "0.1+0.2", want: "0.3"},
		{in: "-0*5", want: "0"},
	}
	for _, tt := range tests {
		got := apply(t, exprState(tt.in), Calculate())
		if got.Expression != tt.want {
			t.Fatalf("Calculate() on %q = %q, want %q", tt.in, got.Expression, tt.want)
		}
		wantHead := tt.in + " = " + tt.want
		if len(got.History) != 1 || got.History[0] != wantHead {
			t.Fatalf("Calculate() on %q history = %q, want [%q]", tt.in, got.History, wantHead)
		}
	}
}

func TestCalculateKeySequences(t *testing.T) {
	tests := []struct {
		keys     []Action
		wantExpr string
		wantHead string
	}{
		{
			keys:     []Action{Digit(3), Operator('+'), Decimal(), Digit(5), Calculate()},
			wantExpr: "3.5",
			wantHead: "3+.5 = 3.5",
		},
		{
			keys:     []Action{Decimal(), Digit(2), Digit(5), Operator('*'), Digit(4), Calculate()},
			wantExpr: "1",
			wantHead: "0.25*4 = 1",
		},
		{
			keys:     []Action{Digit(2), Operator('/'), Decimal(), Digit(5), Calculate()},
			wantExpr: "4",
			wantHead: "2/.5 = 4",
		},
		{
			keys: []Action{
				Parenthesis(), Digit(2), Parenthesis(),
				Parenthesis(), Digit(3), Parenthesis(), Calculate(),
			},
			wantExpr: "6",
			wantHead: "(2)(3) = 6",
		},
		{
			keys: []Action{
				Parenthesis(), Digit(4), Parenthesis(),
				Parenthesis(), Digit(5), Parenthesis(), Operator('+'), Digit(1), Calculate(),
			},
			wantExpr: "21",
			wantHead: "(4)(5)+1 = 21",
		},
		{
			keys:     []Action{Digit(5), Parenthesis(), Digit(3), Parenthesis(), Calculate()},
			wantExpr: "15",
			wantHead: "5(3) = 15",
		},
		{
			keys:     []Action{Parenthesis(), Digit(3), Parenthesis(), Digit(5), Calculate()},
			wantExpr: "15",
			wantHead: "(3)5 = 15",
		},
	}
	for _, tt := range tests {
		got := apply(t, State{}, tt.keys...)
		if got.Expression != tt.wantExpr {
			t.Fatalf("ApplyAll(%v) = %q, want %q", tt.keys, got.Expression, tt.wantExpr)
		}
		if len(got.History) != 1 || got.History[0] != tt.wantHead {
			t.Fatalf("ApplyAll(%v) history = %q, want [%q]", tt.keys, got.History, tt.wantHead)
		}
	}
}

func TestCalculateErrorsLeaveHistory(t *testing.T) {
	prev := []string{"1+1 = 2"}
	for _, in := range []string{"5/0", "0/0", "5%0", "2+", "(2", "2)", "-", "1+.", "Error"} {
		got := apply(t, State{Expression: in, History: prev}, Calculate())
		if got.Expression != ErrorText {
			t.Fatalf("Calculate() on %q = %q, want %q", in, got.Expression, ErrorText)
		}
		if !reflect.DeepEqual(got.History, prev) {
			t.Fatalf("Calculate() on %q history = %q, want %q", in, got.History, prev)
		}
		if got.Mode() != ModeError {
			t.Fatalf("Mode() = %v, want %v", got.Mode(), ModeError)
		}
	}
}

func TestCalculateEmptyIsNoop(t *testing.T) {
	got := apply(t, State{}, Calculate())
	if got.Expression != "" || got.History != nil {
		t.Fatalf("Calculate() on empty = %+v, want zero state", got)
	}
}

func TestErrorDisplayAppends(t *testing.T) {
	got := apply(t, exprState("5/0"), Calculate(), Digit(3))
	if got.Expression != "Error3" {
		t.Fatalf("Expression = %q, want %q", got.Expression, "Error3")
	}
	got = apply(t, got, Delete(), Delete())
	if got.Expression != "Err" {
		t.Fatalf("Expression = %q, want %q", got.Expression, "Err")
	}
}

func TestHistoryBounded(t *testing.T) {
	m := NewMachine(nil)
	var s State
	for i := 1; i <= 6; i++ {
		s = m.ApplyAll(State{History: s.History}, []Action{Digit(i), Operator('+'), Digit(0), Calculate()})
	}
	want := []string{
		"6+0 = 6",
		"5+0 = 5",
		"4+0 = 4",
		"3+0 = 3",
		"2+0 = 2",
	}
	if !reflect.DeepEqual(s.History, want) {
		t.Fatalf("History = %q, want %q", s.History, want)
	}
	for i := 0; i < 20; i++ {
		s = m.ApplyAll(s, []Action{Operator('+'), Digit(1), Calculate()})
		if len(s.History) > MaxHistory {
			t.Fatalf("len(History) = %d, want <= %d", len(s.History), MaxHistory)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	hist := make([]string, 0, 8)
	hist = append(hist, "a", "b")
	in := State{Expression: "1+1", History: hist}
	out := apply(t, in, Calculate())

	if in.Expression != "1+1" {
		t.Fatalf("input Expression = %q, want %q", in.Expression, "1+1")
	}
	if !reflect.DeepEqual(in.History, []string{"a", "b"}) {
		t.Fatalf("input History = %q, want [a b]", in.History)
	}
	out.History[0] = "changed"
	if hist[:cap(hist)][2] == "changed" {
		t.Fatalf("output History shares backing array with input")
	}
}

func TestResultRoundTrip(t *testing.T) {
	m := NewMachine(nil)
	for _, in := range []string{"2+2", "1/8", "9*9*9", "22/7"} {
		s := m.Apply(exprState(in), Calculate())
		for i := 0; i < len(s.Expression); i++ {
			c := s.Expression[i]
			if !isDigit(c) && c != '.' {
				t.Fatalf("result %q contains %q", s.Expression, c)
			}
		}
		next := m.ApplyAll(s, []Action{Operator('*'), Digit(2), Calculate()})
		if next.Mode() != ModeEditing {
			t.Fatalf("chained calculation on %q failed: %q", s.Expression, next.Expression)
		}
	}
}

func TestCustomEvaluator(t *testing.T) {
	var seen string
	m := NewMachine(EvaluatorFunc(func(expr string) (float64, error) {
		seen = expr
		if expr == "1" {
			return 0, fmt.Errorf("boom: %w", ErrMath)
		}
		return 42, nil
	}))
	if got := m.Apply(exprState("6*7"), Calculate()); got.Expression != "42" {
		t.Fatalf("Expression = %q, want %q", got.Expression, "42")
	}
	if seen != "6*7" {
		t.Fatalf("evaluator saw %q, want %q", seen, "6*7")
	}
	if got := m.Apply(exprState("1"), Calculate()); got.Expression != ErrorText {
		t.Fatalf("Expression = %q, want %q", got.Expression, ErrorText)
	}
}
