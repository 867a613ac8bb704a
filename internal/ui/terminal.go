package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether ANSI colors should be used on stdout.
// Precedence: NO_COLOR, then CLICOLOR_FORCE, then CLICOLOR, then TTY
// detection. The tk --json flag bypasses this entirely; JSON output is
// never styled.
func ShouldUseColor() bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		// https://no-color.org — any non-empty value disables color.
		return false
	case strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1":
		return true
	case strings.TrimSpace(os.Getenv("CLICOLOR")) == "0":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
