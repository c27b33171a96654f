package app

import (
	"strings"
	"testing"
	"time"

	"procalc/hal"
	"procalc/kernel"
)

type testHAL struct {
	lines chan string
	keys  chan hal.KeyEvent
	taps  chan hal.Tap
	ticks chan uint64
}

func newTestHAL() *testHAL {
	return &testHAL{
		lines: make(chan string, 64),
		keys:  make(chan hal.KeyEvent, 64),
		taps:  make(chan hal.Tap, 8),
		ticks: make(chan uint64, 8),
	}
}

func (h *testHAL) Logger() hal.Logger   { return h }
func (h *testHAL) Display() hal.Display { return nil }
func (h *testHAL) Input() hal.Input     { return h }
func (h *testHAL) Time() hal.Time       { return h }
func (h *testHAL) Sound() hal.Sound     { return nil }

func (h *testHAL) WriteLineString(s string) { h.lines <- s }
func (h *testHAL) WriteLineBytes(b []byte)  { h.lines <- string(b) }

func (h *testHAL) Keyboard() hal.Keyboard { return h }
func (h *testHAL) Pointer() hal.Pointer   { return h }

func (h *testHAL) Events() <-chan hal.KeyEvent { return h.keys }
func (h *testHAL) Taps() <-chan hal.Tap        { return h.taps }
func (h *testHAL) Ticks() <-chan uint64        { return h.ticks }

func waitLine(t *testing.T, lines <-chan string, prefix string) string {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case line := <-lines:
			if strings.HasPrefix(line, prefix) {
				return line
			}
		case <-timeout:
			t.Fatalf("timed out waiting for log line %q", prefix)
			return ""
		}
	}
}

func TestSystemEvaluatesTypedKeys(t *testing.T) {
	h := newTestHAL()
	defer kernel.SetPanicHandler(nil)

	step := New(h)
	if err := step(); err != nil {
		t.Fatalf("step() error: %v", err)
	}
	waitLine(t, h.lines, "procalc ")

	for _, r := range "12+3*4" {
		h.keys <- hal.KeyEvent{Press: true, Rune: r}
	}
	h.keys <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}

	if got, want := waitLine(t, h.lines, "calc: "), "calc: 12+3*4 = 24"; got != want {
		t.Fatalf("log line = %q, want %q", got, want)
	}
}

func TestQuietSystemDoesNotLogResults(t *testing.T) {
	h := newTestHAL()
	defer kernel.SetPanicHandler(nil)

	NewWithConfig(h, Config{Quiet: true})
	waitLine(t, h.lines, "procalc ")

	for _, r := range "1+1=" {
		h.keys <- hal.KeyEvent{Press: true, Rune: r}
	}
	select {
	case line := <-h.lines:
		t.Fatalf("unexpected log line %q", line)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPanicLines(t *testing.T) {
	lines := panicLines(kernel.PanicInfo{TaskID: 3, Value: "boom"})
	want := []string{"ProCalc panic:", "task: 3", "panic: boom", "stack: unavailable"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("panicLines() = %q, want %q", lines, want)
	}
}

func TestTakeRunes(t *testing.T) {
	tests := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"abcdef", 4, "abcd", "ef"},
		{"abc", 4, "abc", ""},
		{"äöü", 2, "äö", "ü"},
		{"", 3, "", ""},
	}
	for _, tt := range tests {
		head, tail := takeRunes(tt.s, tt.n)
		if head != tt.head || tail != tt.tail {
			t.Fatalf("takeRunes(%q, %d) = %q, %q, want %q, %q", tt.s, tt.n, head, tail, tt.head, tt.tail)
		}
	}
}
