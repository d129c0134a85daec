package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the inet banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  _            _   `, "#818cf8"},
		{` (_)_ __   ___| |_ `, "#a78bfa"},
		{` | | '_ \ / _ \ __|`, "#c084fc"},
		{` | | | | |  __/ |_ `, "#e879f9"},
		{` |_|_| |_|\___|\__|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
