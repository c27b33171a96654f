package calculator

import (
	"image/color"

	"procalc/calc"
	"procalc/hal"
	"procalc/kernel"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

var (
	colorBG        = color.RGBA{R: 0x12, G: 0x12, B: 0x14, A: 0xFF}
	colorFG        = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	colorDim       = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
	colorError     = color.RGBA{R: 0xFF, G: 0x6E, B: 0x6E, A: 0xFF}
	colorPrimary   = color.RGBA{R: 0xD0, G: 0x7A, B: 0x1E, A: 0xFF}
	colorSecondary = color.RGBA{R: 0x5A, G: 0x5F, B: 0x6B, A: 0xFF}
	colorSurface   = color.RGBA{R: 0x2A, G: 0x2C, B: 0x31, A: 0xFF}
	colorFocus     = color.RGBA{R: 0x4A, G: 0xD1, B: 0xFF, A: 0xFF}
	colorHelpBG    = color.RGBA{R: 0x08, G: 0x08, B: 0x08, A: 0xFF}
)

var (
	fontHistory = &freemono.Regular9pt7b
	fontLabel   = &freemono.Bold12pt7b
	fontLarge   = &freemono.Bold18pt7b
	fontMedium  = &freemono.Bold12pt7b
)

var _ drivers.Displayer = (*fbDisplay)(nil)

type fbDisplay struct {
	fb hal.Framebuffer
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()
	h := d.fb.Height()

	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (t *Task) fillRect(r rect, c color.RGBA) {
	_ = t.d.FillRectangle(int16(r.x), int16(r.y), int16(r.w), int16(r.h), c)
}

// inPanicMode reports whether a panic screen owns the framebuffer.
var inPanicMode = kernel.InPanicMode

func (t *Task) render() {
	if t.fb == nil || t.d == nil || inPanicMode() {
		return
	}
	w := int16(t.fb.Width())
	h := int16(t.fb.Height())
	if w <= 0 || h <= 0 {
		return
	}

	_ = t.d.FillRectangle(0, 0, w, h, colorBG)
	t.renderHistory()
	t.renderExpression()
	t.renderKeypad()
	if t.showHelp {
		t.renderHelp()
	}

	_ = t.d.Display()
}

// renderHistory draws the newest entry closest to the expression line.
func (t *Task) renderHistory() {
	area := t.lo.history
	step := int(fontHistory.GetYAdvance())
	if step <= 0 {
		return
	}
	baseline := area.y + area.h - 4
	for _, entry := range t.state.History {
		if baseline-step < area.y-step/2 {
			break
		}
		t.drawRight(fontHistory, area, baseline, entry, colorDim)
		baseline -= step
	}
}

func (t *Task) renderExpression() {
	area := t.lo.display
	text := t.state.Display()
	fg := colorFG
	if t.state.Mode() == calc.ModeError {
		fg = colorError
	}

	font := tinyfont.Fonter(fontLarge)
	if textWidth(font, text) > area.w {
		font = fontMedium
	}
	// Keep the tail visible: that is where editing happens.
	for len(text) > 1 && textWidth(font, text) > area.w {
		text = text[1:]
	}
	baseline := area.y + area.h - 8
	t.drawRight(font, area, baseline, text, fg)
}

func (t *Task) renderKeypad() {
	for row, labels := range calc.Keypad {
		for col, label := range labels {
			r := t.lo.button(row, col)
			if t.showFocus && row == t.focusRow && col == t.focusCol {
				t.fillRect(rect{x: r.x - 2, y: r.y - 2, w: r.w + 4, h: r.h + 4}, colorFocus)
			}
			t.fillRect(r, buttonColor(label))

			text := displayLabel(label)
			tw := textWidth(fontLabel, text)
			x := r.x + (r.w-tw)/2
			baseline := r.y + r.h/2 + 6
			tinyfont.WriteLine(t.d, fontLabel, int16(x), int16(baseline), text, colorFG)
		}
	}
}

func (t *Task) renderHelp() {
	lines := []string{
		"Keys",
		"0-9 . + - * / %",
		"( ) toggle paren",
		"Enter/= calculate",
		"Bksp delete",
		"Esc/Del/c clear",
		"Arrows+Enter pad",
		"any key: close",
	}
	step := int(fontHistory.GetYAdvance())
	box := rect{x: 20, y: 20, w: t.fb.Width() - 40, h: step*len(lines) + 16}
	t.fillRect(box, colorSecondary)
	t.fillRect(rect{x: box.x + 2, y: box.y + 2, w: box.w - 4, h: box.h - 4}, colorHelpBG)
	baseline := box.y + step
	for i, line := range lines {
		fg := colorFG
		if i == 0 {
			fg = colorFocus
		}
		tinyfont.WriteLine(t.d, fontHistory, int16(box.x+8), int16(baseline), line, fg)
		baseline += step
	}
}

func (t *Task) drawRight(font tinyfont.Fonter, area rect, baseline int, s string, c color.RGBA) {
	x := area.x + area.w - textWidth(font, s)
	if x < area.x {
		x = area.x
	}
	tinyfont.WriteLine(t.d, font, int16(x), int16(baseline), s, c)
}

func textWidth(font tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(font, s)
	return int(outbox)
}

func displayLabel(label string) string {
	if label == calc.LabelDelete {
		return "DEL"
	}
	return label
}

func buttonColor(label string) color.RGBA {
	switch label {
	case calc.LabelClear, calc.LabelDelete:
		return colorSecondary
	case calc.LabelCalculate, "+", "-", "*", "/":
		return colorPrimary
	default:
		return colorSurface
	}
}
