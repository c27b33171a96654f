package app

import (
	"procalc/calc"
	"procalc/hal"
	"procalc/internal/buildinfo"
	"procalc/kernel"
	"procalc/services/input"
	"procalc/services/logger"
	"procalc/tasks/calculator"
)

type system struct {
	k    *kernel.Kernel
	calc *calculator.Task
}

type Config struct {
	// Quiet stops the calculator from logging evaluated expressions.
	Quiet bool
	// Evaluator overrides the default govaluate evaluator.
	Evaluator calc.Evaluator
}

// New initializes and starts the calculator with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// Run starts the calculator and blocks forever.
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	_ = newSystem(h, cfg)
	return func() error { return nil }
}

func newSystem(h hal.HAL, cfg Config) *system {
	installPanicHandler(h)

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))

	logCap := logEP.Restrict(kernel.RightSend)
	if cfg.Quiet {
		logCap = kernel.Capability{}
	}
	if l := h.Logger(); l != nil {
		l.WriteLineString("procalc " + buildinfo.Short())
	}

	task := calculator.New(h.Display(), calc.NewMachine(cfg.Evaluator), calcEP.Restrict(kernel.RightRecv), logCap)
	task.SetSound(h.Sound())
	k.AddTask(task)
	if in := h.Input(); in != nil {
		k.AddTask(input.New(in, calcEP.Restrict(kernel.RightSend)))
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return &system{k: k, calc: task}
}
