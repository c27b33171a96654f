package calculator

import (
	"time"

	"procalc/calc"
	logclient "procalc/client/logger"
	"procalc/hal"
	"procalc/kernel"
	"procalc/proto"
)

// Task is the framebuffer calculator.
type Task struct {
	disp   hal.Display
	sound  hal.Sound
	inCap  kernel.Capability
	logCap kernel.Capability

	m     *calc.Machine
	state calc.State

	fb hal.Framebuffer
	d  *fbDisplay
	lo layout

	focusRow  int
	focusCol  int
	showFocus bool
	showHelp  bool
}

// New returns a calculator task reading input from inCap and logging results to logCap.
// logCap may be the zero Capability to disable logging.
func New(disp hal.Display, m *calc.Machine, inCap, logCap kernel.Capability) *Task {
	if m == nil {
		m = calc.NewMachine(nil)
	}
	return &Task{
		disp:     disp,
		inCap:    inCap,
		logCap:   logCap,
		m:        m,
		focusRow: len(calc.Keypad) - 1,
		focusCol: len(calc.Keypad[0]) - 1,
	}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.inCap)
	if !ok {
		return
	}
	if t.disp != nil {
		if fb := t.disp.Framebuffer(); fb != nil {
			t.fb = fb
			t.d = newFBDisplay(fb)
			t.lo = newLayout(fb.Width(), fb.Height())
		}
	}

	t.render()
	for msg := range ch {
		dirty := t.handle(ctx, msg)
		// Drain a burst of queued input before drawing once.
		for {
			next, ok := ctx.TryRecv(t.inCap)
			if !ok {
				break
			}
			if t.handle(ctx, next) {
				dirty = true
			}
		}
		if dirty {
			t.render()
		}
	}
}

// handle processes one input message and reports whether the screen needs a redraw.
func (t *Task) handle(ctx *kernel.Context, msg kernel.Message) bool {
	switch proto.Kind(msg.Kind) {
	case proto.MsgKey:
		code, press, r, ok := proto.DecodeKeyPayload(msg.Payload())
		if !ok || !press {
			return false
		}
		t.handleKey(ctx, hal.KeyCode(code), r)
		return true
	case proto.MsgTap:
		x, y, ok := proto.DecodeTapPayload(msg.Payload())
		if !ok {
			return false
		}
		t.handleTap(ctx, x, y)
		return true
	default:
		return false
	}
}

// SetSound enables key and result tones. A nil s disables them.
func (t *Task) SetSound(s hal.Sound) { t.sound = s }

// State returns the current calculator state.
func (t *Task) State() calc.State { return t.state }

func (t *Task) handleKey(ctx *kernel.Context, code hal.KeyCode, r rune) {
	if t.showHelp {
		t.showHelp = false
		return
	}

	switch code {
	case hal.KeyF1:
		t.showHelp = true
		return
	case hal.KeyUp:
		t.moveFocus(-1, 0)
		return
	case hal.KeyDown:
		t.moveFocus(1, 0)
		return
	case hal.KeyLeft:
		t.moveFocus(0, -1)
		return
	case hal.KeyRight:
		t.moveFocus(0, 1)
		return
	case hal.KeyEnter:
		if t.showFocus {
			t.pressLabel(ctx, calc.Keypad[t.focusRow][t.focusCol])
			return
		}
		t.apply(ctx, calc.Calculate())
		return
	case hal.KeyBackspace:
		t.apply(ctx, calc.Delete())
		return
	case hal.KeyEscape, hal.KeyDelete:
		t.apply(ctx, calc.Clear())
		return
	}

	if r == 0 {
		return
	}
	if r == ' ' && t.showFocus {
		t.pressLabel(ctx, calc.Keypad[t.focusRow][t.focusCol])
		return
	}
	if r == '?' {
		t.showHelp = true
		return
	}
	a, ok := calc.ActionForRune(r)
	if !ok {
		return
	}
	t.showFocus = false
	t.apply(ctx, a)
}

func (t *Task) handleTap(ctx *kernel.Context, x, y int) {
	if t.showHelp {
		t.showHelp = false
		return
	}
	row, col, ok := t.lo.hit(x, y)
	if !ok {
		return
	}
	t.focusRow, t.focusCol = row, col
	t.showFocus = false
	t.pressLabel(ctx, calc.Keypad[row][col])
}

func (t *Task) moveFocus(dr, dc int) {
	if !t.showFocus {
		t.showFocus = true
		return
	}
	rows := len(calc.Keypad)
	cols := len(calc.Keypad[0])
	t.focusRow = (t.focusRow + dr + rows) % rows
	t.focusCol = (t.focusCol + dc + cols) % cols
}

func (t *Task) pressLabel(ctx *kernel.Context, label string) {
	a, ok := calc.ActionForLabel(label)
	if !ok {
		return
	}
	t.apply(ctx, a)
}

func (t *Task) apply(ctx *kernel.Context, a calc.Action) {
	prev := t.state
	t.state = t.m.Apply(prev, a)
	t.feedback(a)

	if a.Kind != calc.ActionCalculate || prev.Expression == "" || !t.logCap.Valid() {
		return
	}
	if t.state.Mode() == calc.ModeError {
		logclient.Logf(ctx, t.logCap, resultLogWait, "calc: %s = %s", prev.Expression, calc.ErrorText)
		return
	}
	if len(t.state.History) > 0 {
		logclient.Logf(ctx, t.logCap, resultLogWait, "calc: %s", t.state.History[0])
	}
}

// resultLogWait is how many ticks a result line may wait for a full logger queue.
const resultLogWait = 16

const (
	toneKeyHz    = 1200
	toneKeyDur   = 12 * time.Millisecond
	toneOKHz     = 880
	toneOKDur    = 60 * time.Millisecond
	toneErrorHz  = 220
	toneErrorDur = 150 * time.Millisecond
)

func (t *Task) feedback(a calc.Action) {
	if t.sound == nil {
		return
	}
	switch {
	case a.Kind != calc.ActionCalculate:
		t.sound.Tone(toneKeyHz, toneKeyDur)
	case t.state.Mode() == calc.ModeError:
		t.sound.Tone(toneErrorHz, toneErrorDur)
	default:
		t.sound.Tone(toneOKHz, toneOKDur)
	}
}
