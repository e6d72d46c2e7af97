package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  ___                   _      ___         _`, "#34d399"},
	{` | __|_ ___ __  ___ _ _| |_   / __|_  _ __| |_ ___ _ __`, "#2dd4bf"},
	{` | _|\ \ / '_ \/ -_) '_|  _|  \__ \ || (_-<  _/ -_) '  \`, "#22d3ee"},
	{` |___/_\_\ .__/\___|_|  \__|  |___/\_, /__/\__\___|_|_|_|`, "#38bdf8"},
	{`          |_|                      |__/`, "#60a5fa"},
}

// PrintBanner writes the ASCII art banner, coloured when w is a colour terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
