// Command procalc-term runs the calculator in a terminal.
//
// On a terminal it switches to raw mode and reacts to single key presses. Otherwise it reads key
// scripts from stdin, one per line, and prints the display after each.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"procalc/calc"
	"procalc/internal/buildinfo"
	"procalc/internal/termui"

	"golang.org/x/term"
)

func main() {
	versionFlag := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println("procalc-term " + buildinfo.Full())
		return
	}

	sess := calc.NewSession(calc.NewMachine(nil))

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		if err := termui.RunScript(sess, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := runInteractive(fd, sess); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInteractive(fd int, sess *calc.Session) error {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 0
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, old)

	ui := termui.New(sess, os.Stdout, width)
	if err := ui.Render(); err != nil {
		return err
	}

	buf := make([]byte, 16)
	for !ui.Done() {
		n, err := os.Stdin.Read(buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		changed := false
		for _, b := range buf[:n] {
			if ui.HandleByte(b) {
				changed = true
			}
			if ui.Done() {
				break
			}
		}
		if changed {
			if err := ui.Render(); err != nil {
				return err
			}
		}
	}
	return nil
}
