package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) emit(ev KeyEvent) bool {
	select {
	case k.ch <- ev:
		return true
	default:
		return false
	}
}

// typeRune emits a press for r, mapping control characters to key codes.
func (k *hostKeyboard) typeRune(r rune) bool {
	switch r {
	case '\r', '\n':
		return k.emit(KeyEvent{Code: KeyEnter, Press: true})
	case '\b', 0x7f:
		return k.emit(KeyEvent{Code: KeyBackspace, Press: true})
	case 0x1b:
		return k.emit(KeyEvent{Code: KeyEscape, Press: true})
	}
	return k.emit(KeyEvent{Press: true, Rune: r})
}

type hostPointer struct {
	ch chan Tap
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan Tap, 16)}
}

func (p *hostPointer) Taps() <-chan Tap { return p.ch }

func (p *hostPointer) emit(tap Tap) {
	select {
	case p.ch <- tap:
	default:
	}
}
