package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the travelsir banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// S, I, R palette
	lines := []termenv.Style{
		termenv.String(" _                        _     _      ").Foreground(p.Color("#60a5fa")),
		termenv.String("| |_ _ __ __ ___   _____| |___(_)_ __ ").Foreground(p.Color("#818cf8")),
		termenv.String("| __| '__/ _` \\ \\ / / _ \\ / __| | '__|").Foreground(p.Color("#f472b6")),
		termenv.String("| |_| | | (_| |\\ V /  __/ \\__ \\ | |   ").Foreground(p.Color("#fb7185")),
		termenv.String(" \\__|_|  \\__,_| \\_/ \\___|_|___/_|_|   ").Foreground(p.Color("#34d399")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w)
}

// Status formats a one-line status message, green when ok and red otherwise.
func Status(ok bool, format string, args ...any) string {
	p := termenv.ColorProfile()
	mark, color := "✔", "#34d399"
	if !ok {
		mark, color = "✘", "#f87171"
	}
	return termenv.String(mark+" "+fmt.Sprintf(format, args...)).Foreground(p.Color(color)).String()
}
