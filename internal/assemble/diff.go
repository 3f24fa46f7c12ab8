package assemble

import "fmt"

// Change is one visible difference of a node between two diagrams.
type Change struct {
	NodeID string
	Field  string // "status", "notes" or "position"
	From   string
	To     string
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s: %s -> %s", c.NodeID, c.Field, c.From, c.To)
}

// Diff lists how the nodes of next differ from prev, in next's render order.
// Nodes that exist in only one of the diagrams are ignored.
func Diff(prev, next Diagram) []Change {
	var changes []Change

	for _, n := range next.Nodes {
		old, ok := prev.Node(n.ID)
		if !ok {
			continue
		}

		oldStatus, _ := old.Status()
		newStatus, _ := n.Status()

		if oldStatus != newStatus {
			changes = append(changes, Change{NodeID: n.ID, Field: "status", From: string(oldStatus), To: string(newStatus)})
		}

		if len(old.Notes) != len(n.Notes) {
			changes = append(changes, Change{
				NodeID: n.ID,
				Field:  "notes",
				From:   fmt.Sprint(len(old.Notes)),
				To:     fmt.Sprint(len(n.Notes)),
			})
		}

		if old.Position != n.Position {
			changes = append(changes, Change{
				NodeID: n.ID,
				Field:  "position",
				From:   fmt.Sprintf("%g,%g", old.Position.X, old.Position.Y),
				To:     fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
			})
		}
	}

	return changes
}
