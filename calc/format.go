package calc

import (
	"strconv"
	"strings"
)

// resultDigits is the maximum number of fractional digits shown for a result.
const resultDigits = 10

// FormatResult renders v in fixed-point notation with at most 10 fractional digits.
// Trailing zeros and a trailing decimal point are removed, so integers have no point.
func FormatResult(v float64) string {
	s := strconv.FormatFloat(v, 'f', resultDigits, 64)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
