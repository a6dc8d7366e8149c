package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// Width returns the column count of f, or DefaultWidth when f is not a terminal.
func Width(f *os.File) int {
	if !term.IsTerminal(int(f.Fd())) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// NewRenderer returns a function that renders markdown using glamour.
// styled selects automatic light/dark styling; otherwise plain text is produced.
func NewRenderer(width int, styled bool) (func(string) (string, error), error) {
	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// NewRendererFor configures a renderer for f: styled and wrapped to its width
// when f is a terminal.
func NewRendererFor(f *os.File) (func(string) (string, error), error) {
	return NewRenderer(Width(f), term.IsTerminal(int(f.Fd())))
}
