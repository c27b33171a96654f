package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"
)

var (
	// ErrSyntax reports an expression that does not parse as arithmetic.
	ErrSyntax = errors.New("syntax error")
	// ErrMath reports an expression that parses but has no finite value.
	ErrMath = errors.New("math error")
)

// Evaluator computes the value of an infix arithmetic expression.
//
// Implementations return errors wrapping ErrSyntax or ErrMath.
type Evaluator interface {
	Evaluate(expr string) (float64, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(expr string) (float64, error)

func (f EvaluatorFunc) Evaluate(expr string) (float64, error) { return f(expr) }

// GovaluateEvaluator evaluates expressions with govaluate.
//
// Only the keypad alphabet is accepted: digits, '.', '+', '-', '*', '/', '%', '(' and ')'.
// '%' is the floating-point remainder (math.Mod). Division by zero yields ErrMath.
// A number may start with '.', and a group next to a number or another group multiplies:
// "(2)(3)" and "5(3)" are both products.
type GovaluateEvaluator struct{}

func (GovaluateEvaluator) Evaluate(expr string) (float64, error) {
	if expr == "" {
		return 0, fmt.Errorf("evaluate: empty expression: %w", ErrSyntax)
	}
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == '.' && !isDigit(byteAt(expr, i-1)) && !isDigit(byteAt(expr, i+1)) {
			return 0, fmt.Errorf("evaluate %q: number without digits at %d: %w", expr, i, ErrSyntax)
		}
		if isDigit(c) || isOperator(c) || c == '.' || c == '(' || c == ')' {
			continue
		}
		return 0, fmt.Errorf("evaluate %q: unexpected %q at %d: %w", expr, c, i, ErrSyntax)
	}
	// govaluate reads "**" as exponentiation.
	if i := strings.Index(expr, "**"); i >= 0 {
		return 0, fmt.Errorf("evaluate %q: unexpected '*' at %d: %w", expr, i+1, ErrSyntax)
	}

	parsed, err := govaluate.NewEvaluableExpression(normalize(expr))
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %v: %w", expr, err, ErrSyntax)
	}
	res, err := parsed.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %v: %w", expr, err, ErrSyntax)
	}
	v, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("evaluate %q: result %T is not a number: %w", expr, res, ErrSyntax)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("evaluate %q: %v: %w", expr, v, ErrMath)
	}
	return v, nil
}

// normalize rewrites keypad text into something govaluate parses in full. govaluate rejects
// ".5" after an operator and stops reading at a value directly followed by another value, so a
// leading '.' gets a zero and juxtaposed operands get an explicit '*'.
func normalize(expr string) string {
	var sb strings.Builder
	sb.Grow(len(expr) + 4)
	var prev byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '.' && !isDigit(prev):
			if prev == ')' {
				sb.WriteByte('*')
			}
			sb.WriteByte('0')
		case c == '(' && (isDigit(prev) || prev == '.' || prev == ')'):
			sb.WriteByte('*')
		case isDigit(c) && prev == ')':
			sb.WriteByte('*')
		}
		sb.WriteByte(c)
		prev = c
	}
	return sb.String()
}

func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}
