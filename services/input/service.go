package input

import (
	"procalc/hal"
	"procalc/kernel"
	"procalc/proto"
)

const (
	// Ticks are 1ms on host.
	repeatDelayTicks = 350
	repeatRateTicks  = 60

	maxPending = 64
)

type outMsg struct {
	kind    proto.Kind
	payload []byte
}

// Service forwards keyboard and pointer events to a consumer endpoint as MsgKey and MsgTap.
// Held navigation and delete keys auto-repeat.
type Service struct {
	in     hal.Input
	outCap kernel.Capability

	pending []outMsg

	heldCode hal.KeyCode
	held     bool

	nextRepeatTick uint64
}

func New(in hal.Input, outCap kernel.Capability) *Service {
	return &Service{in: in, outCap: outCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.in == nil {
		return
	}

	var keys <-chan hal.KeyEvent
	if kbd := s.in.Keyboard(); kbd != nil {
		keys = kbd.Events()
	}
	var taps <-chan hal.Tap
	if ptr := s.in.Pointer(); ptr != nil {
		taps = ptr.Taps()
	}
	if keys == nil && taps == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			select {
			case <-done:
				return
			default:
			}
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case ev, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			s.handleKeyEvent(ctx.NowTick(), ev)
			s.flush(ctx)
		case tap, ok := <-taps:
			if !ok {
				taps = nil
				continue
			}
			s.queue(proto.MsgTap, proto.TapPayload(tap.X, tap.Y))
			s.flush(ctx)
		case tick := <-tickCh:
			s.handleRepeat(tick)
			s.flush(ctx)
		}
	}
}

func (s *Service) handleKeyEvent(now uint64, ev hal.KeyEvent) {
	if !ev.Press {
		if s.held && ev.Code == s.heldCode {
			s.held = false
			s.nextRepeatTick = 0
		}
		return
	}

	s.queue(proto.MsgKey, proto.KeyPayload(uint16(ev.Code), true, ev.Rune))
	if !repeatableKey(ev.Code) {
		return
	}
	s.held = true
	s.heldCode = ev.Code
	s.nextRepeatTick = now + repeatDelayTicks
}

func (s *Service) handleRepeat(tick uint64) {
	if !s.held || tick < s.nextRepeatTick {
		return
	}
	s.queue(proto.MsgKey, proto.KeyPayload(uint16(s.heldCode), true, 0))
	s.nextRepeatTick = tick + repeatRateTicks
}

func (s *Service) queue(kind proto.Kind, payload []byte) {
	if len(s.pending) >= maxPending {
		return
	}
	s.pending = append(s.pending, outMsg{kind: kind, payload: payload})
}

func (s *Service) flush(ctx *kernel.Context) {
	if !s.outCap.Valid() {
		s.pending = nil
		return
	}
	for len(s.pending) > 0 {
		m := s.pending[0]
		switch ctx.SendToResult(s.outCap, uint16(m.kind), m.payload) {
		case kernel.SendOK:
			s.pending = s.pending[1:]
		case kernel.SendErrQueueFull:
			return
		default:
			s.pending = nil
			return
		}
	}
	s.pending = nil
}

func repeatableKey(code hal.KeyCode) bool {
	switch code {
	case hal.KeyBackspace, hal.KeyUp, hal.KeyDown, hal.KeyLeft, hal.KeyRight:
		return true
	default:
		return false
	}
}
