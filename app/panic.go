package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"procalc/hal"
	"procalc/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

var panicFont = &freemono.Regular9pt7b

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		logPanic(h.Logger(), info)

		disp := h.Display()
		if disp == nil {
			select {}
		}
		fb := disp.Framebuffer()
		if fb == nil {
			select {}
		}
		drawPanic(fb, info)
		_ = fb.Present()
		select {}
	})
}

func logPanic(l hal.Logger, info kernel.PanicInfo) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf("ProCalc panic: %s", info))
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		l.WriteLineString(line)
	}
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"ProCalc panic:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

func drawPanic(fb hal.Framebuffer, info kernel.PanicInfo) {
	fb.ClearRGB(255, 255, 255)

	fontHeight := int16(panicFont.GetYAdvance())
	_, outboxWidth := tinyfont.LineWidth(panicFont, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 || fontHeight <= 0 {
		return
	}
	// Baseline offset of the first line.
	fontOffset := fontHeight * 3 / 4

	d := panicDisplay{fb: fb}
	fg := color.RGBA{R: 0, G: 0, B: 0, A: 255}

	maxH := int16(fb.Height())
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range panicLines(info) {
		for len(line) > 0 {
			if y+fontHeight > maxH {
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, fontWidth, 0, y+fontOffset, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func drawTextLine(d panicDisplay, fontWidth, x0, baseline int16, s string, fg color.RGBA) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, panicFont, x, baseline, r, fg)
		x += fontWidth
	}
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}

	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
