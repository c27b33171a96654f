package calc

import (
	"errors"
	"testing"
)

func TestGovaluateEvaluator(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr error
	}{
		{in: "1+2*3", want: 7},
		{in: "(1+2)*3", want: 9},
		{in: "8/4", want: 2},
		{in: "7%3", want: 1},
		{in: "-2*3", want: -6},
		{in: "1.5+1.25", want: 2.75},
		{in: "1/0", wantErr: ErrMath},
		{in: "0/0", wantErr: ErrMath},
		{in: "", wantErr: ErrSyntax},
		{in: "1+", wantErr: ErrSyntax},
		{in: "((1)", wantErr: ErrSyntax},
		{in: "Error", wantErr: ErrSyntax},
		{in: "1 == 1", wantErr: ErrSyntax},
		{in: "x+1", wantErr: ErrSyntax},
		{in: "2**3", wantErr: ErrSyntax},
		{in: ".5", want: 0.5},
		{in: "3+.5", want: 3.5},
		{in: "2*.5", want: 1},
		{in: "2-.5", want: 1.5},
		{in: "2/.5", want: 4},
		{in: "7%.5", want: 0},
		{in: "(2)(3)", want: 6},
		{in: "(4)(5)+1", want: 21},
		{in: "5(3)", want: 15},
		{in: "(3)5", want: 15},
		{in: "2.(3)", want: 6},
		{in: "(2)(3)(4)", want: 24},
		{in: "(1+1)(.5)", want: 1},
		{in: "(2).5", want: 1},
		{in: ".", wantErr: ErrSyntax},
		{in: "1+.", wantErr: ErrSyntax},
		{in: "(.)", wantErr: ErrSyntax},
	}
	var ev GovaluateEvaluator
	for _, tt := range tests {
		got, err := ev.Evaluate(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Evaluate(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Evaluate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1+2", want: "1+2"},
		{in: ".5", want: "0.5"},
		{in: "3+.5", want: "3+0.5"},
		{in: "(.5)", want: "(0.5)"},
		{in: "(2)(3)", want: "(2)*(3)"},
		{in: "5(3)", want: "5*(3)"},
		{in: "2.(3)", want: "2.*(3)"},
		{in: "(3)5", want: "(3)*5"},
		{in: "(2).5", want: "(2)*0.5"},
		{in: "2*(3)", want: "2*(3)"},
		{in: "((1))", want: "((1))"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Fatalf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 4, want: "4"},
		{in: -3, want: "-3"},
		{in: 3.5, want: "3.5"},
		{in: 0.1 + 0.2, want: "0.3"},
		{in: 1.0 / 3.0, want: "0.3333333333"},
		{in: 0.00000000001, want: "0"},
		{in: 123456789012, want: "123456789012"},
		{in: 1e-10, want: "0.0000000001"},
	}
	for _, tt := range tests {
		if got := FormatResult(tt.in); got != tt.want {
			t.Fatalf("FormatResult(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMachineEvaluate(t *testing.T) {
	m := NewMachine(nil)
	got, err := m.Evaluate("10/4")
	if err != nil || got != "2.5" {
		t.Fatalf("Evaluate(%q) = %q, %v, want %q, nil", "10/4", got, err, "2.5")
	}
	if _, err := m.Evaluate("5%0"); !errors.Is(err, ErrMath) {
		t.Fatalf("Evaluate(%q) error = %v, want ErrMath", "5%0", err)
	}
}
