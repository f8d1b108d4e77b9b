package tui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Verdict renders an acceptance result, colored when the profile allows it.
func Verdict(p termenv.Profile, accepted bool) string {
	if accepted {
		return p.String("ACCEPT").Foreground(p.Color("#22c55e")).Bold().String()
	}
	return p.String("REJECT").Foreground(p.Color("#ef4444")).Bold().String()
}

// Warn renders a warning line.
func Warn(p termenv.Profile, msg string) string {
	return p.String("warning: " + msg).Foreground(p.Color("#f59e0b")).String()
}
