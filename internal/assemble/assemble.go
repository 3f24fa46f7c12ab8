// Package assemble merges a variant's static dataset with the user's
// annotations into the diagram that gets rendered and exported.
package assemble

import (
	"slices"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/dataset"
	"github.com/calvinalkan/flowmap/internal/flow"
)

// Node is a static node with annotations applied.
type Node struct {
	flow.Node

	// Notes is non-nil for content nodes and nil for every other kind.
	Notes []flow.NodeNote

	// Moved reports whether Position comes from a user override.
	Moved bool
}

// Status returns the effective status of a content node.
func (n Node) Status() (flow.NodeStatus, bool) {
	c, ok := n.Content()
	if !ok {
		return "", false
	}

	return c.Status, true
}

// Diagram is the renderable node and edge set of one variant.
type Diagram struct {
	Variant flow.Variant
	Nodes   []Node
	Edges   []flow.Edge
}

// Node returns the assembled node with the given id.
func (d Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return Node{}, false
}

// Assemble builds the diagram of variant from collection and state. It does
// not modify its inputs and returns the same output for the same inputs.
//
// Content nodes take their position and status override when one exists and
// carry their notes. Other kinds only take a position override. Nodes are
// ordered back to front: groups, stages, then everything else in dataset
// order.
func Assemble(variant flow.Variant, collection dataset.Collection, state annotation.State) (Diagram, error) {
	ds, err := collection.For(variant)
	if err != nil {
		return Diagram{}, err
	}

	nodes := make([]Node, 0, len(ds.Nodes))

	for _, sn := range ds.Nodes {
		n := Node{Node: sn}

		if pos, ok := state.Positions[sn.ID]; ok {
			n.Position = pos
			n.Moved = true
		}

		if c, ok := sn.Content(); ok {
			if status, ok := state.Statuses[sn.ID]; ok && status.Valid() {
				c.Status = status
			}

			n.Data = c
			n.Notes = make([]flow.NodeNote, 0, len(state.Notes[sn.ID]))

			for _, note := range state.Notes[sn.ID] {
				n.Notes = append(n.Notes, note.Clone())
			}
		}

		nodes = append(nodes, n)
	}

	slices.SortStableFunc(nodes, func(a, b Node) int {
		return layer(a.Kind()) - layer(b.Kind())
	})

	return Diagram{
		Variant: variant,
		Nodes:   nodes,
		Edges:   slices.Clone(ds.Edges),
	}, nil
}

// layer is the back-to-front render layer of a kind.
func layer(k flow.Kind) int {
	switch k {
	case flow.KindGroup:
		return 0
	case flow.KindStage:
		return 1
	default:
		return 2
	}
}
