package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"            _                _   ", "#818cf8"},
		{"  ___ _   _| |__  ___  ___| |_ ", "#a78bfa"},
		{" / __| | | | '_ \\/ __|/ _ \\ __|", "#c084fc"},
		{" \\__ \\ |_| | |_) \\__ \\  __/ |_ ", "#e879f9"},
		{" |___/\\__,_|_.__/|___/\\___|\\__|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String(" NFA -> DFA  v"+version).Faint())
	fmt.Fprintln(w)
}
