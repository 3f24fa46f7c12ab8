package export

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the word-wrap width of terminal rendering.
const DefaultWrap = 80

// RenderTerminal renders Markdown for display in a terminal. style is a
// glamour style name ("dark", "light", "notty", ...); empty picks one from
// the terminal background.
func RenderTerminal(markdown string, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return out, nil
}
