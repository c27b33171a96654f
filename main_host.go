package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"procalc/app"
	"procalc/hal"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var scale int
	var sound bool
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever, or until -keys are typed).")
	flag.StringVar(&cfg.Keys, "keys", "", "Key script typed in headless mode, e.g. \"12+3*4=\".")
	flag.StringVar(&cfg.Snapshot, "snapshot", "", "Write a PNG of the screen here when a headless run ends.")
	flag.BoolVar(&appCfg.Quiet, "quiet", false, "Do not log evaluated expressions.")
	flag.IntVar(&scale, "scale", 2, "Window scale factor.")
	flag.BoolVar(&sound, "sound", false, "Play key tones in window mode.")
	flag.Parse()

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, scale, sound); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
