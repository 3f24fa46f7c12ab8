// Package export turns the active diagram and its annotations into shareable
// documents (JSON, Markdown and YAML) and reads them back for import.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/dataset"
	"github.com/calvinalkan/flowmap/internal/flow"
)

// Version is the export document format version.
const Version = "1.0.0"

// Format is an export document format.
type Format string

// Formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatYAML     Format = "yaml"
)

// ErrUnknownFormat is returned by [ParseFormat].
var ErrUnknownFormat = errors.New("unknown export format (must be json|md|yaml)")

// ParseFormat accepts a format name. "markdown" and "yml" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FileName is the default download name of an export taken at.
func FileName(v flow.Variant, f Format, at time.Time) string {
	return fmt.Sprintf("hubspot-flow-%s-%s.%s", v, at.UTC().Format(time.DateOnly), f)
}

// NodeData is the data block of an exported node.
type NodeData struct {
	Label       string          `json:"label" yaml:"label"`
	Owner       string          `json:"owner,omitempty" yaml:"owner,omitempty"`
	Status      flow.NodeStatus `json:"status" yaml:"status"`
	Notes       []flow.NodeNote `json:"notes" yaml:"notes"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// Node is an exported content node. Status is the static initial status;
// overrides are listed in [Document.Statuses].
type Node struct {
	ID       string        `json:"id" yaml:"id"`
	Type     string        `json:"type" yaml:"type"`
	Position flow.Position `json:"position" yaml:"position"`
	Data     NodeData      `json:"data" yaml:"data"`
}

// Edge is an exported edge.
type Edge struct {
	ID         string           `json:"id" yaml:"id"`
	Source     string           `json:"source" yaml:"source"`
	Target     string           `json:"target" yaml:"target"`
	Type       string           `json:"type,omitempty" yaml:"type,omitempty"`
	Style      *flow.EdgeStyle  `json:"style,omitempty" yaml:"style,omitempty"`
	Label      string           `json:"label,omitempty" yaml:"label,omitempty"`
	LabelStyle *flow.LabelStyle `json:"labelStyle,omitempty" yaml:"labelStyle,omitempty"`
	Animated   bool             `json:"animated,omitempty" yaml:"animated,omitempty"`
}

// Document is a snapshot of one variant's static content nodes and edges plus
// the current annotations.
type Document struct {
	Version    string                     `json:"version" yaml:"version"`
	ExportedAt time.Time                  `json:"exportedAt" yaml:"exportedAt"`
	ViewMode   flow.Variant               `json:"viewMode" yaml:"viewMode"`
	Nodes      []Node                     `json:"nodes" yaml:"nodes"`
	Edges      []Edge                     `json:"edges" yaml:"edges"`
	Notes      map[string][]flow.NodeNote `json:"notes" yaml:"notes"`
	Statuses   map[string]flow.NodeStatus `json:"statuses" yaml:"statuses"`
}

// Build assembles the export document of ds.
func Build(ds dataset.Dataset, state annotation.State, at time.Time) Document {
	state = state.Clone()

	doc := Document{
		Version:    Version,
		ExportedAt: at.UTC(),
		ViewMode:   ds.Variant,
		Nodes:      make([]Node, 0, len(ds.Nodes)),
		Edges:      make([]Edge, 0, len(ds.Edges)),
		Notes:      state.Notes,
		Statuses:   state.Statuses,
	}

	for _, n := range ds.ContentNodes() {
		c, _ := n.Content()

		doc.Nodes = append(doc.Nodes, Node{
			ID:       n.ID,
			Type:     "custom",
			Position: n.Position,
			Data: NodeData{
				Label:       c.Label,
				Owner:       c.Owner,
				Status:      c.Status,
				Notes:       []flow.NodeNote{},
				Description: c.Description,
			},
		})
	}

	for _, e := range ds.Edges {
		doc.Edges = append(doc.Edges, Edge{
			ID:         e.ID,
			Source:     e.Source,
			Target:     e.Target,
			Type:       edgeType(e.Routing),
			Style:      e.Style,
			Label:      e.Label,
			LabelStyle: e.LabelStyle,
			Animated:   e.Animated,
		})
	}

	return doc
}

// edgeType names the routing the way the document format does.
func edgeType(r flow.Routing) string {
	switch r {
	case flow.RoutingTree:
		return "tree"
	case flow.RoutingDetour:
		return "bts"
	default:
		return ""
	}
}

// Status returns the effective status of an exported node.
func (d Document) Status(n Node) flow.NodeStatus {
	if st, ok := d.Statuses[n.ID]; ok && st.Valid() {
		return st
	}

	return n.Data.Status
}

// Encode renders doc in format f.
func Encode(doc Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(doc)
	case FormatYAML:
		return YAML(doc)
	case FormatMarkdown:
		return []byte(Markdown(doc)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
