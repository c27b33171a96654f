//go:build cgo

package hal

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	hostSampleRate = 44100
	hostToneVolume = 0.25
)

type toneKey struct {
	freq int
	d    time.Duration
}

// hostSound plays UI tones through Ebiten's audio package. Rendered tones are cached per
// frequency and duration.
type hostSound struct {
	mu      sync.Mutex
	ctx     *audio.Context
	players map[toneKey]*audio.Player
}

func newHostSound() *hostSound {
	return &hostSound{players: make(map[toneKey]*audio.Player)}
}

func (s *hostSound) Tone(freqHz int, d time.Duration) {
	if freqHz <= 0 || d <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil {
		s.ctx = audio.CurrentContext()
		if s.ctx == nil {
			s.ctx = audio.NewContext(hostSampleRate)
		}
	}

	k := toneKey{freq: freqHz, d: d}
	p := s.players[k]
	if p == nil {
		p = s.ctx.NewPlayerFromBytes(tonePCM(s.ctx.SampleRate(), freqHz, d, hostToneVolume))
		s.players[k] = p
	}
	if err := p.Rewind(); err != nil {
		return
	}
	p.Play()
}
