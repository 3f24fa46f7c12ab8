// Package flow defines the diagram vocabulary shared by the datasets, the
// annotation store, the assembler and the exporters.
package flow

import (
	"errors"
	"fmt"
	"strings"
)

// NodeStatus is the review status of a content node.
type NodeStatus string

// Status constants.
const (
	StatusConfirmed    NodeStatus = "confirmed"
	StatusPending      NodeStatus = "pending"
	StatusOpenQuestion NodeStatus = "open-question"
)

// ErrInvalidStatus is returned by [ParseStatus] for anything outside the three statuses.
var ErrInvalidStatus = errors.New("invalid status (must be confirmed|pending|open-question)")

// Statuses lists all statuses in selector order.
func Statuses() []NodeStatus {
	return []NodeStatus{StatusConfirmed, StatusPending, StatusOpenQuestion}
}

// ParseStatus validates s and returns the matching status.
func ParseStatus(s string) (NodeStatus, error) {
	status := NodeStatus(strings.TrimSpace(s))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}

	return status, nil
}

// Valid reports whether s is one of the three statuses.
func (s NodeStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusOpenQuestion:
		return true
	default:
		return false
	}
}

// Label returns the human readable name shown in selectors.
func (s NodeStatus) Label() string {
	switch s {
	case StatusConfirmed:
		return "Confirmed"
	case StatusPending:
		return "Pending"
	case StatusOpenQuestion:
		return "Open Question"
	default:
		return string(s)
	}
}

// Glyph returns the emoji used for the status in Markdown exports.
func (s NodeStatus) Glyph() string {
	switch s {
	case StatusConfirmed:
		return "✅"
	case StatusPending:
		return "🟡"
	default:
		return "❓"
	}
}
