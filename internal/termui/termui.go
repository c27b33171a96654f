// Package termui drives a calculator session from terminal key bytes and draws it with ANSI escapes.
package termui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"procalc/calc"
)

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x7f
	keyEscape    = 0x1b
)

// UI renders one session to a terminal.
type UI struct {
	sess  *calc.Session
	out   io.Writer
	width int

	esc  escState
	quit bool
}

type escState uint8

const (
	escNone escState = iota
	// ESC seen; only '[' or 'O' start a sequence.
	escStart
	// inside a CSI or SS3 sequence
	escSeq
)

// New returns a UI writing to out. width is the terminal width in columns; 0 disables clipping.
func New(sess *calc.Session, out io.Writer, width int) *UI {
	return &UI{sess: sess, out: out, width: width}
}

// Done reports whether the user asked to quit.
func (u *UI) Done() bool { return u.quit }

// HandleByte processes one byte of raw terminal input and reports whether the state changed.
//
// Arrow keys and other escape sequences are ignored. A lone Escape is ignored too and the byte
// after it is handled normally.
func (u *UI) HandleByte(b byte) bool {
	switch u.esc {
	case escStart:
		if b == '[' || b == 'O' {
			u.esc = escSeq
			return false
		}
		u.esc = escNone
	case escSeq:
		// Sequences end with a byte in 0x40..0x7e.
		if b >= 0x40 && b <= 0x7e {
			u.esc = escNone
		}
		return false
	}

	switch b {
	case keyCtrlC, keyCtrlD, 'q':
		u.quit = true
		return false
	case keyEscape:
		u.esc = escStart
		return false
	case keyBackspace:
		u.sess.Dispatch(calc.Delete())
		return true
	}

	a, ok := calc.ActionForRune(rune(b))
	if !ok {
		return false
	}
	u.sess.Dispatch(a)
	return true
}

// Render redraws the whole screen.
func (u *UI) Render() error {
	st := u.sess.Snapshot()

	var sb strings.Builder
	sb.WriteString("\x1b[H\x1b[2J")
	for i := len(st.History) - 1; i >= 0; i-- {
		sb.WriteString("\x1b[2m")
		sb.WriteString(u.fit(st.History[i]))
		sb.WriteString("\x1b[0m\r\n")
	}
	if len(st.History) > 0 {
		sb.WriteString("\r\n")
	}
	if st.Mode() == calc.ModeError {
		sb.WriteString("\x1b[31m")
	}
	sb.WriteString("\x1b[1m> ")
	sb.WriteString(u.fit(st.Display()))
	sb.WriteString("\x1b[0m\r\n\r\n")
	sb.WriteString("\x1b[2m0-9 . + - * / % ( )  = or Enter  Backspace  c clear  q quit\x1b[0m\r\n")

	_, err := io.WriteString(u.out, sb.String())
	return err
}

// fit keeps the tail of s when it is wider than the terminal.
func (u *UI) fit(s string) string {
	limit := u.width - 2
	if u.width <= 0 || limit <= 0 || len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}

// RunScript evaluates each line of r as a key script and writes the resulting display, one line
// per input line. The session carries over from line to line.
func RunScript(sess *calc.Session, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		actions, err := calc.ParseKeys(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		st := sess.DispatchAll(actions)
		if _, err := fmt.Fprintln(w, st.Display()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}
