// Package ui holds the terminal styling helpers shared by the tk CLI:
// ANSI256 rendering for help text, board views, and priority badges.
package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
	colorMuted   = 245 // medium gray
	colorHigh    = 203 // red
	colorMedium  = 215 // orange
	colorLow     = 109 // desaturated teal
	colorDone    = 114 // green
	colorBlocked = 167 // dark red
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(colorCmd, s) }

// RenderDone returns s styled for completed cards (green).
func RenderDone(s string) string { return render(colorDone, s) }

// RenderBlocked returns s styled for blocked cards (dark red).
func RenderBlocked(s string) string { return render(colorBlocked, s) }

// RenderPriority returns s styled for the given priority level
// ("high", "medium", "low"). Unknown levels render unstyled.
func RenderPriority(level, s string) string {
	switch level {
	case "high":
		return render(colorHigh, s)
	case "medium":
		return render(colorMedium, s)
	case "low":
		return render(colorLow, s)
	}
	return s
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
