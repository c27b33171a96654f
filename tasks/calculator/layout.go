package calculator

import "procalc/calc"

const (
	margin = 4
	gap    = 4
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout splits the screen into the history panel, the expression line and the keypad grid.
type layout struct {
	history rect
	display rect
	keypad  rect

	btnW int
	btnH int
}

func newLayout(w, h int) layout {
	rows := len(calc.Keypad)
	cols := len(calc.Keypad[0])

	var lo layout
	keypadH := h * 11 / 20
	lo.keypad = rect{x: margin, y: h - keypadH - margin, w: w - 2*margin, h: keypadH}
	lo.btnW = (lo.keypad.w - (cols-1)*gap) / cols
	lo.btnH = (lo.keypad.h - (rows-1)*gap) / rows

	displayH := 40
	lo.display = rect{x: margin, y: lo.keypad.y - gap - displayH, w: w - 2*margin, h: displayH}
	lo.history = rect{x: margin, y: margin, w: w - 2*margin, h: lo.display.y - 2*margin}
	return lo
}

func (lo layout) button(row, col int) rect {
	return rect{
		x: lo.keypad.x + col*(lo.btnW+gap),
		y: lo.keypad.y + row*(lo.btnH+gap),
		w: lo.btnW,
		h: lo.btnH,
	}
}

// hit returns the keypad button under (x, y). Gaps between buttons do not hit.
func (lo layout) hit(x, y int) (row, col int, ok bool) {
	if lo.btnW <= 0 || lo.btnH <= 0 || !lo.keypad.contains(x, y) {
		return 0, 0, false
	}
	col = (x - lo.keypad.x) / (lo.btnW + gap)
	row = (y - lo.keypad.y) / (lo.btnH + gap)
	if row >= len(calc.Keypad) || col >= len(calc.Keypad[row]) {
		return 0, 0, false
	}
	if !lo.button(row, col).contains(x, y) {
		return 0, 0, false
	}
	return row, col, true
}
