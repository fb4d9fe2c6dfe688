package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type colorMode int

const (
	colorAuto colorMode = iota
	colorAlways
	colorNever
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func parseColorMode(v string) (colorMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return colorAuto, nil
	case "always":
		return colorAlways, nil
	case "never":
		return colorNever, nil
	}

	return colorAuto, fmt.Errorf("unknown color mode: %s", v)
}

// colorEnabled resolves mode for output written to w. In auto mode colors
// are used only when w is a terminal and neither NO_COLOR nor TERM=dumb is
// set in env.
func colorEnabled(mode colorMode, w io.Writer, env []string) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	case colorAuto:
	}

	for _, entry := range env {
		key, value, _ := strings.Cut(entry, "=")
		if key == "NO_COLOR" && value != "" {
			return false
		}

		if key == "TERM" && value == "dumb" {
			return false
		}
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}
