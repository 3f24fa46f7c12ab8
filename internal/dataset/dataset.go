// Package dataset holds the static diagrams of both process variants.
//
// Static nodes and edges are values built once per call; callers may keep or
// modify the returned slices without affecting other callers.
package dataset

import (
	"fmt"

	"github.com/calvinalkan/flowmap/internal/flow"
)

// LayoutVersion is bumped whenever node coordinates in this package change.
// Stored position overrides from an older version are discarded on load.
const LayoutVersion = 2

// Dataset is the static node and edge collection of one variant.
type Dataset struct {
	Variant flow.Variant
	Nodes   []flow.Node
	Edges   []flow.Edge
}

// Node returns the node with the given id.
func (d Dataset) Node(id string) (flow.Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return flow.Node{}, false
}

// ContentNodes returns the content nodes in dataset order.
func (d Dataset) ContentNodes() []flow.Node {
	var out []flow.Node

	for _, n := range d.Nodes {
		if n.Kind() == flow.KindContent {
			out = append(out, n)
		}
	}

	return out
}

// Collection maps each variant to its dataset.
type Collection map[flow.Variant]Dataset

// Default returns both built-in datasets.
func Default() Collection {
	return Collection{
		flow.VariantVanillaSoft: VanillaSoft(),
		flow.VariantHubSpot:     HubSpot(),
	}
}

// For returns the dataset of v.
func (c Collection) For(v flow.Variant) (Dataset, error) {
	ds, ok := c[v]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %q", flow.ErrUnknownVariant, v)
	}

	return ds, nil
}

// Catalog answers which node ids exist across all variants of a collection.
type Catalog struct {
	positionable map[string]bool
	annotatable  map[string]bool
}

// Catalog builds the node catalog of c.
func (c Collection) Catalog() Catalog {
	cat := Catalog{
		positionable: make(map[string]bool),
		annotatable:  make(map[string]bool),
	}

	for _, ds := range c {
		for _, n := range ds.Nodes {
			cat.positionable[n.ID] = true

			if n.Kind() == flow.KindContent {
				cat.annotatable[n.ID] = true
			}
		}
	}

	return cat
}

// Positionable reports whether id names a node of any kind.
func (c Catalog) Positionable(id string) bool { return c.positionable[id] }

// Annotatable reports whether id names a content node, the only kind that
// takes notes and a status.
func (c Catalog) Annotatable(id string) bool { return c.annotatable[id] }
