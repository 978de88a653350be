package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the arbor banner to w, colored for the terminal profile.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 _               ", "#86efac"},
		{"   __ _ _ __ ___| |__   ___  _ __", "#4ade80"},
		{"  / _` | '__/ __| '_ \\ / _ \\| '__|", "#22c55e"},
		{" | (_| | | | (__| |_) | (_) | |   ", "#16a34a"},
		{"  \\__,_|_|  \\___|_.__/ \\___/|_|   ", "#15803d"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  tree editor "+version).Faint())
	fmt.Fprintln(w)
}
