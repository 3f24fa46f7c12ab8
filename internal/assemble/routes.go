package assemble

import "github.com/calvinalkan/flowmap/internal/flow"

// Route is the polyline of one edge.
type Route struct {
	Edge   flow.Edge
	Points []flow.Position
}

// Routes computes the waypoints of every edge from the assembled node
// positions. Edges whose endpoints are missing are skipped.
func (d Diagram) Routes() []Route {
	pos := make(map[string]flow.Position, len(d.Nodes))
	for _, n := range d.Nodes {
		pos[n.ID] = n.Position
	}

	routes := make([]Route, 0, len(d.Edges))

	for _, e := range d.Edges {
		src, okSrc := pos[e.Source]
		dst, okDst := pos[e.Target]

		if !okSrc || !okDst {
			continue
		}

		routes = append(routes, Route{Edge: e, Points: flow.Route(e.Routing, src, dst)})
	}

	return routes
}
