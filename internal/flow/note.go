package flow

import (
	"slices"
	"time"
)

// NodeNote is a user-authored note attached to a node.
type NodeNote struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Tags      []string  `json:"tags" yaml:"tags"`
}

// Clone returns a copy that shares no slices with n.
func (n NodeNote) Clone() NodeNote {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}

	return n
}

// SuggestedTags is the fixed tag vocabulary offered by the note composer.
// Notes may carry tags outside of it.
func SuggestedTags() []string {
	return []string{"Chuck", "Chase", "Margie", "BDC Team", "RVP Team", "Admin"}
}
