package flow

import "strings"

// Position is a point in layout units.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Kind tags the payload carried by a [Node].
type Kind string

// Node kinds.
const (
	KindContent  Kind = "content"
	KindStage    Kind = "stage"
	KindGroup    Kind = "group"
	KindJunction Kind = "junction"
	KindLabel    Kind = "label"
)

// Payload is the kind-specific data of a node. The set of implementations is
// closed: [Content], [Stage], [Group], [Junction] and [Label].
type Payload interface {
	Kind() Kind
	sealed()
}

// Content is a process step. Only content nodes carry a status and notes.
type Content struct {
	Label       string
	Owner       string
	Description string
	Status      NodeStatus
}

// Stage is a column header.
type Stage struct {
	Label    string
	Subtitle string
	Color    string
}

// Group is a background container box.
type Group struct {
	Label  string
	Width  float64
	Height float64
	Color  string
}

// Junction is a spine point where edges converge.
type Junction struct {
	Color string
}

// Label is a compact pill-shaped node.
type Label struct {
	Label string
	Owner string
	Color string
}

func (Content) Kind() Kind  { return KindContent }
func (Stage) Kind() Kind    { return KindStage }
func (Group) Kind() Kind    { return KindGroup }
func (Junction) Kind() Kind { return KindJunction }
func (Label) Kind() Kind    { return KindLabel }

func (Content) sealed()  {}
func (Stage) sealed()    {}
func (Group) sealed()    {}
func (Junction) sealed() {}
func (Label) sealed()    {}

// Node is a static diagram node.
type Node struct {
	ID       string
	Position Position
	Data     Payload
}

// Kind returns the tag of the node's payload.
func (n Node) Kind() Kind {
	if n.Data == nil {
		return ""
	}

	return n.Data.Kind()
}

// Content returns the content payload and true for content nodes.
func (n Node) Content() (Content, bool) {
	c, ok := n.Data.(Content)
	return c, ok
}

// Title returns the node's label, or its ID for junctions.
func (n Node) Title() string {
	switch d := n.Data.(type) {
	case Content:
		return d.Label
	case Stage:
		return d.Label
	case Group:
		return d.Label
	case Label:
		return d.Label
	default:
		return n.ID
	}
}

const questionMarker = "QUESTION:"

// SplitQuestion splits a description of the form "context. QUESTION: text"
// into its context and question parts. ok is false if there is no marker.
func SplitQuestion(description string) (context, question string, ok bool) {
	before, after, found := strings.Cut(description, questionMarker)
	if !found {
		return description, "", false
	}

	return strings.TrimSpace(before), strings.TrimSpace(after), true
}
