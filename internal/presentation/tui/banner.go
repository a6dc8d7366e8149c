package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the NameCardAI banner in the cyan to purple brand colours.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _   _                       ____              _    _    ___ ", "#00f5ff"},
		{"| \\ | | __ _ _ __ ___   ___ / ___|__ _ _ __ __| |  / \\  |_ _|", "#22d3ee"},
		{"|  \\| |/ _` | '_ ` _ \\ / _ \\ |   / _` | '__/ _` | / _ \\  | | ", "#60a5fa"},
		{"| |\\  | (_| | | | | | |  __/ |__| (_| | | | (_| |/ ___ \\ | | ", "#818cf8"},
		{"|_| \\_|\\__,_|_| |_| |_|\\___|\\____\\__,_|_|  \\__,_/_/   \\_\\___|", "#8b5cf6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
