package hal

import (
	"math"
	"time"
)

// tonePCM renders a sine tone as 16-bit little-endian stereo, fading out linearly to avoid a click
// at the end.
func tonePCM(sampleRate, freqHz int, d time.Duration, vol float64) []byte {
	if sampleRate <= 0 || freqHz <= 0 || d <= 0 {
		return nil
	}
	vol = math.Max(0, math.Min(vol, 1))

	n := int(int64(sampleRate) * int64(d) / int64(time.Second))
	out := make([]byte, n*4)
	step := 2 * math.Pi * float64(freqHz) / float64(sampleRate)
	for i := 0; i < n; i++ {
		env := 1 - float64(i)/float64(n)
		s := int16(math.Sin(step*float64(i)) * env * vol * math.MaxInt16)
		out[i*4+0] = byte(s)
		out[i*4+1] = byte(s >> 8)
		out[i*4+2] = byte(s)
		out[i*4+3] = byte(s >> 8)
	}
	return out
}
