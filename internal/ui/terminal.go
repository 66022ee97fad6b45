package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether ANSI colors should be used on stdout.
// NO_COLOR and TERM=dumb disable color, CLICOLOR_FORCE=1 forces it even
// without a TTY, CLICOLOR=0 disables it, and otherwise color is on when
// stdout is a terminal.
func ShouldUseColor() bool {
	// https://no-color.org — any non-empty value wins.
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
