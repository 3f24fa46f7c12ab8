package render

import (
	"io"
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/calvinalkan/flowmap/internal/flow"
)

// Palette.
var (
	colorConfirmed = lipgloss.Color("#22c55e")
	colorPending   = lipgloss.Color("#eab308")
	colorQuestion  = lipgloss.Color("#ef4444")
	colorAcronym   = lipgloss.Color("#2563eb")
	colorMuted     = lipgloss.Color("#6b7280")
	colorAmber     = lipgloss.Color("#f59e0b")
)

// Styles are bound to one output so color support is detected per writer.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Group    lipgloss.Style
	Stage    lipgloss.Style
	Label    lipgloss.Style
	Owner    lipgloss.Style
	Muted    lipgloss.Style
	Acronym  lipgloss.Style
	Question lipgloss.Style
	Status   map[flow.NodeStatus]lipgloss.Style
}

// NewStyles returns the styles for output written to w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)

	return Styles{
		Title:    r.NewStyle().Bold(true).Underline(true),
		Subtitle: r.NewStyle().Foreground(colorMuted).Italic(true),
		Group:    r.NewStyle().Bold(true).Foreground(colorMuted),
		Stage:    r.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
		Label:    r.NewStyle().Bold(true),
		Owner:    r.NewStyle().Foreground(colorMuted),
		Muted:    r.NewStyle().Foreground(colorMuted),
		Acronym:  r.NewStyle().Foreground(colorAcronym).Bold(true),
		Question: r.NewStyle().Foreground(colorAmber).Bold(true),
		Status: map[flow.NodeStatus]lipgloss.Style{
			flow.StatusConfirmed:    r.NewStyle().Foreground(colorConfirmed),
			flow.StatusPending:      r.NewStyle().Foreground(colorPending),
			flow.StatusOpenQuestion: r.NewStyle().Foreground(colorQuestion),
		},
	}
}

var acronymPattern = regexp.MustCompile(`\b[A-Z]{2,}\b`)

// HighlightAcronyms styles every run of two or more capital letters that
// stands as a word of its own.
func HighlightAcronyms(text string, style lipgloss.Style) string {
	return acronymPattern.ReplaceAllStringFunc(text, func(m string) string {
		return style.Render(m)
	})
}

// Acronyms returns the acronyms in text in order of appearance.
func Acronyms(text string) []string {
	return acronymPattern.FindAllString(text, -1)
}
