package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int

	// Keys is typed into the keyboard, one rune per tick, once the app is up.
	Keys string
	// Snapshot, when set, receives a PNG of the framebuffer when the run ends.
	Snapshot string
}

// settleTicks is how long a scripted run keeps going after the last key.
const settleTicks = 30

// RunHeadless runs the calculator without opening a window.
//
// With Ticks == 0 and no Keys it runs until ctx is done. With Keys and Ticks == 0 it stops shortly
// after the last key has been typed.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}

	h := New().(*hostHAL)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	keys := []rune(cfg.Keys)
	limit := cfg.Ticks
	if limit == 0 && len(keys) > 0 {
		limit = uint64(len(keys)) + settleTicks
	}

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			if len(keys) > 0 && h.fb.presentCount() > 0 {
				if h.kbd.typeRune(keys[0]) {
					keys = keys[1:]
				}
			}
			for i := 0; i < cfg.StepBudget && step != nil; i++ {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if limit > 0 && tick >= limit {
				return writeSnapshot(h.fb, cfg.Snapshot)
			}
		}
	}
}

func writeSnapshot(fb Framebuffer, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, RGBA(fb)); err != nil {
		f.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
