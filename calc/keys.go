package calc

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrUnknownKey is returned by ParseKeys for a rune with no keypad action.
var ErrUnknownKey = errors.New("unknown key")

// Button labels that are not plain characters.
const (
	LabelClear       = "AC"
	LabelParenthesis = "( )"
	LabelDelete      = "⌫"
	LabelCalculate   = "="
)

// Keypad is the button grid, top row first.
var Keypad = [][]string{
	{LabelClear, LabelParenthesis, "%", "/"},
	{"7", "8", "9", "*"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"0", ".", LabelDelete, LabelCalculate},
}

// ActionForLabel returns the action bound to a keypad button label.
func ActionForLabel(label string) (Action, bool) {
	switch label {
	case LabelClear:
		return Clear(), true
	case LabelParenthesis:
		return Parenthesis(), true
	case LabelDelete:
		return Delete(), true
	case LabelCalculate:
		return Calculate(), true
	}
	rs := []rune(label)
	if len(rs) != 1 {
		return Action{}, false
	}
	return ActionForRune(rs[0])
}

// ActionForRune maps a typed character to an action.
//
// Both '(' and ')' press the parenthesis toggle; 'c' clears; backspace, DEL and '<' delete.
func ActionForRune(r rune) (Action, bool) {
	switch {
	case r >= '0' && r <= '9':
		return Digit(int(r - '0')), true
	case r < 0x80 && isOperator(byte(r)):
		return Operator(byte(r)), true
	}
	switch r {
	case '.':
		return Decimal(), true
	case '(', ')':
		return Parenthesis(), true
	case '=', '\r', '\n':
		return Calculate(), true
	case 'c', 'C':
		return Clear(), true
	case '<', '\b', 0x7f:
		return Delete(), true
	}
	return Action{}, false
}

// ParseKeys converts a key script such as "12+3=" into actions. Spaces and tabs are ignored.
func ParseKeys(script string) ([]Action, error) {
	var out []Action
	for i, r := range script {
		if r == ' ' || r == '\t' {
			continue
		}
		a, ok := ActionForRune(r)
		if !ok {
			if unicode.IsPrint(r) {
				return nil, fmt.Errorf("key %q at %d: %w", r, i, ErrUnknownKey)
			}
			return nil, fmt.Errorf("key %U at %d: %w", r, i, ErrUnknownKey)
		}
		out = append(out, a)
	}
	return out, nil
}
