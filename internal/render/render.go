// Package render draws assembled diagrams, node details and the glossary as
// terminal text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/calvinalkan/flowmap/internal/assemble"
	"github.com/calvinalkan/flowmap/internal/flow"
	"github.com/calvinalkan/flowmap/internal/glossary"
)

// NodeRenderer renders one node as one or more lines.
type NodeRenderer func(n assemble.Node) []string

// Renderer turns diagrams into text. Node kinds are rendered through a single
// dispatch table.
type Renderer struct {
	styles Styles
	kinds  map[flow.Kind]NodeRenderer
}

// New returns a renderer for output written to w.
func New(w io.Writer) *Renderer {
	r := &Renderer{styles: NewStyles(w)}

	r.kinds = map[flow.Kind]NodeRenderer{
		flow.KindGroup:    r.group,
		flow.KindStage:    r.stage,
		flow.KindJunction: r.junction,
		flow.KindLabel:    r.label,
		flow.KindContent:  r.content,
	}

	return r
}

// Options control [Renderer.Diagram].
type Options struct {
	Edges  bool
	Routes bool
}

// Diagram renders every node of d in render order, optionally followed by
// its edges.
func (r *Renderer) Diagram(d assemble.Diagram, opts Options) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(d.Variant.Title()) + "\n")
	b.WriteString(r.styles.Subtitle.Render(d.Variant.Indicator()) + "\n\n")

	for _, n := range d.Nodes {
		for _, line := range r.Node(n) {
			b.WriteString(line + "\n")
		}
	}

	if opts.Edges || opts.Routes {
		b.WriteString("\n" + r.styles.Label.Render("Edges") + "\n")
		b.WriteString(r.Edges(d, opts.Routes))
	}

	return b.String()
}

// Node renders n through the dispatch table.
func (r *Renderer) Node(n assemble.Node) []string {
	fn, ok := r.kinds[n.Kind()]
	if !ok {
		return []string{n.ID}
	}

	return fn(n)
}

func (r *Renderer) group(n assemble.Node) []string {
	g, _ := n.Data.(flow.Group)

	return []string{r.styles.Group.Render("[ "+g.Label+" ]") + " " + r.styles.Muted.Render(n.ID)}
}

func (r *Renderer) stage(n assemble.Node) []string {
	s, _ := n.Data.(flow.Stage)

	line := r.styles.Stage.Render(s.Label)
	if s.Subtitle != "" {
		line += " " + r.styles.Subtitle.Render(s.Subtitle)
	}

	return []string{"", line + " " + r.styles.Muted.Render(n.ID)}
}

func (r *Renderer) junction(n assemble.Node) []string {
	return []string{"  " + r.styles.Muted.Render("+ "+n.ID)}
}

func (r *Renderer) label(n assemble.Node) []string {
	l, _ := n.Data.(flow.Label)

	line := "  > " + r.acronyms(l.Label)
	if l.Owner != "" {
		line += " " + r.styles.Owner.Render("("+l.Owner+")")
	}

	return []string{line + " " + r.styles.Muted.Render(n.ID)}
}

func (r *Renderer) content(n assemble.Node) []string {
	c, _ := n.Content()

	head := "  " + r.badge(c.Status) + " " + r.styles.Label.Render(r.acronyms(c.Label))
	if c.Owner != "" {
		head += " " + r.styles.Owner.Render("- ") + r.acronyms(c.Owner)
	}

	if len(n.Notes) > 0 {
		head += " " + r.styles.Muted.Render(fmt.Sprintf("[%d]", len(n.Notes)))
	}

	head += " " + r.styles.Muted.Render(n.ID)

	lines := []string{head}
	lines = append(lines, r.description(c, "      ")...)

	return lines
}

func (r *Renderer) description(c flow.Content, indent string) []string {
	if c.Description == "" {
		return nil
	}

	context, question, ok := flow.SplitQuestion(c.Description)
	if !ok || c.Status != flow.StatusOpenQuestion {
		return []string{indent + r.styles.Muted.Render(r.acronyms(c.Description))}
	}

	var lines []string
	if context != "" {
		lines = append(lines, indent+r.styles.Muted.Render(r.acronyms(context)))
	}

	return append(lines, indent+r.styles.Question.Render("? ")+r.acronyms(question))
}

func (r *Renderer) badge(s flow.NodeStatus) string {
	style, ok := r.styles.Status[s]
	if !ok {
		return s.Glyph()
	}

	return style.Render(s.Glyph())
}

func (r *Renderer) acronyms(text string) string {
	return HighlightAcronyms(text, r.styles.Acronym)
}

// StatusLabel renders a status with its glyph and label.
func (r *Renderer) StatusLabel(s flow.NodeStatus) string {
	return r.badge(s) + " " + s.Label()
}

// NodeDetail renders a single node with every note, numbered from 1.
func (r *Renderer) NodeDetail(n assemble.Node) string {
	var b strings.Builder

	c, isContent := n.Content()
	if !isContent {
		for _, line := range r.Node(n) {
			b.WriteString(strings.TrimLeft(line, " ") + "\n")
		}

		fmt.Fprintf(&b, "kind: %s\nposition: %g, %g\n", n.Kind(), n.Position.X, n.Position.Y)

		return b.String()
	}

	b.WriteString(r.styles.Title.Render(r.acronyms(c.Label)) + " " + r.styles.Muted.Render(n.ID) + "\n")

	if c.Owner != "" {
		b.WriteString("owner:    " + r.acronyms(c.Owner) + "\n")
	}

	b.WriteString("status:   " + r.StatusLabel(c.Status) + "\n")

	moved := ""
	if n.Moved {
		moved = " (moved)"
	}

	fmt.Fprintf(&b, "position: %g, %g%s\n", n.Position.X, n.Position.Y, moved)

	for _, line := range r.description(c, "") {
		b.WriteString("\n" + line)
	}

	if c.Description != "" {
		b.WriteString("\n")
	}

	b.WriteString("\n" + r.Notes(n.Notes))

	return b.String()
}

// Notes renders a numbered note list.
func (r *Renderer) Notes(notes []flow.NodeNote) string {
	if len(notes) == 0 {
		return r.styles.Muted.Render("no notes") + "\n"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "notes (%d):\n", len(notes))

	for i, note := range notes {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, note.Content)

		meta := note.ID
		if !note.CreatedAt.IsZero() {
			meta += " " + note.CreatedAt.Local().Format("2006-01-02 15:04")
		}

		if len(note.Tags) > 0 {
			tags := make([]string, len(note.Tags))
			for j, t := range note.Tags {
				tags[j] = "@" + t
			}

			meta += " " + strings.Join(tags, " ")
		}

		b.WriteString("     " + r.styles.Muted.Render(meta) + "\n")
	}

	return b.String()
}

// Edges renders one line per edge, with waypoints when routes is set.
func (r *Renderer) Edges(d assemble.Diagram, routes bool) string {
	var b strings.Builder

	var points map[string][]flow.Position
	if routes {
		points = make(map[string][]flow.Position, len(d.Edges))
		for _, rt := range d.Routes() {
			points[rt.Edge.ID] = rt.Points
		}
	}

	for _, e := range d.Edges {
		line := fmt.Sprintf("  %s -> %s", e.Source, e.Target)

		if e.Label != "" {
			line += " " + r.styles.Label.Render("["+e.Label+"]")
		}

		if e.Routing != flow.RoutingDirect {
			line += " " + r.styles.Muted.Render("("+string(e.Routing)+")")
		}

		b.WriteString(line + "\n")

		if pts, ok := points[e.ID]; ok {
			parts := make([]string, len(pts))
			for i, p := range pts {
				parts[i] = fmt.Sprintf("(%g,%g)", p.X, p.Y)
			}

			b.WriteString("      " + r.styles.Muted.Render(strings.Join(parts, " ")) + "\n")
		}
	}

	return b.String()
}

// Glossary renders grouped glossary sections.
func (r *Renderer) Glossary(sections []glossary.Section) string {
	if len(sections) == 0 {
		return "No matching terms found\n"
	}

	var b strings.Builder

	entry := func(e glossary.Entry, indent string) {
		b.WriteString(indent + r.styles.Acronym.Render(e.Term) + "\n")
		b.WriteString(indent + "  " + e.Definition + "\n")
	}

	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(r.styles.Title.Render(strings.ToUpper(s.Category.Label())) + "\n")

		for _, e := range s.Entries {
			entry(e, "  ")
		}

		for _, g := range s.SubGroups {
			b.WriteString("  " + r.styles.Label.Render(g.Name) + "\n")

			for _, e := range g.Entries {
				entry(e, "    ")
			}
		}
	}

	return b.String()
}
