package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue, channel names
	colorAuthor  = 114 // green, message authors
	colorCmd     = 250 // light gray
	colorMuted   = 245 // medium gray, timestamps and ids
	colorPrivate = 178 // amber, private channel marker
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderChannel returns a channel name styled for terminal lists.
func RenderChannel(name string) string {
	return RenderAccent("#" + name)
}

// RenderAuthor returns an author id in the author (green) color.
func RenderAuthor(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAuthor, s)
}

// RenderPrivate returns the private channel marker.
func RenderPrivate() string {
	if noColor {
		return "[private]"
	}
	return fmt.Sprintf("\x1b[38;5;%dm[private]\x1b[0m", colorPrivate)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorCmd, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
