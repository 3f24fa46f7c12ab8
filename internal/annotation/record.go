package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/flowmap/internal/flow"
)

var errMalformedRecord = errors.New("malformed annotation record")

// record is the durable JSON shape.
type record struct {
	NodeNotes     map[string][]flow.NodeNote `json:"nodeNotes"`
	NodeStatuses  map[string]flow.NodeStatus `json:"nodeStatuses"`
	NodePositions map[string]flow.Position   `json:"nodePositions"`
	LayoutVersion int                        `json:"layoutVersion"`
	LastUpdated   string                     `json:"lastUpdated"`
}

// Encode serialises s in the durable record format.
func Encode(s State) ([]byte, error) {
	s = s.Clone()

	data, err := json.MarshalIndent(record{
		NodeNotes:     s.Notes,
		NodeStatuses:  s.Statuses,
		NodePositions: s.Positions,
		LayoutVersion: s.LayoutVersion,
		LastUpdated:   s.LastUpdated.UTC().Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding annotation record: %w", err)
	}

	return data, nil
}

// rawRecord decodes every field loosely so one bad entry does not discard the
// whole record.
type rawRecord struct {
	NodeNotes     map[string]json.RawMessage `json:"nodeNotes"`
	NodeStatuses  map[string]json.RawMessage `json:"nodeStatuses"`
	NodePositions map[string]json.RawMessage `json:"nodePositions"`
	LayoutVersion json.RawMessage            `json:"layoutVersion"`
	LastUpdated   json.RawMessage            `json:"lastUpdated"`
}

type rawNote struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	Tags      []string `json:"tags"`
}

type rawPosition struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Decode parses a durable record. Missing fields take their zero value (a
// missing layoutVersion reads as 0). Entries that cannot be understood are
// skipped and described in dropped; only a record that is not a JSON object
// at all is an error.
func Decode(data []byte) (s State, dropped []string, err error) {
	var raw rawRecord

	err = json.Unmarshal(data, &raw)
	if err != nil {
		return State{}, nil, fmt.Errorf("%w: %w", errMalformedRecord, err)
	}

	s = NewState(0, time.Time{})

	for id, msg := range raw.NodeNotes {
		var items []json.RawMessage

		if json.Unmarshal(msg, &items) != nil {
			dropped = append(dropped, "notes of "+id)

			continue
		}

		notes := make([]flow.NodeNote, 0, len(items))

		for i, item := range items {
			note, ok := decodeNote(item)
			if !ok {
				dropped = append(dropped, fmt.Sprintf("note %d of %s", i, id))

				continue
			}

			notes = append(notes, note)
		}

		if len(notes) > 0 {
			s.Notes[id] = notes
		}
	}

	for id, msg := range raw.NodeStatuses {
		var str string

		if json.Unmarshal(msg, &str) != nil {
			dropped = append(dropped, "status of "+id)

			continue
		}

		status, parseErr := flow.ParseStatus(str)
		if parseErr != nil {
			dropped = append(dropped, fmt.Sprintf("status of %s (%q)", id, str))

			continue
		}

		s.Statuses[id] = status
	}

	for id, msg := range raw.NodePositions {
		var p rawPosition

		if json.Unmarshal(msg, &p) != nil || p.X == nil || p.Y == nil {
			dropped = append(dropped, "position of "+id)

			continue
		}

		s.Positions[id] = flow.Position{X: *p.X, Y: *p.Y}
	}

	if len(raw.LayoutVersion) > 0 && string(raw.LayoutVersion) != "null" {
		if json.Unmarshal(raw.LayoutVersion, &s.LayoutVersion) != nil {
			dropped = append(dropped, "layoutVersion")
			s.LayoutVersion = 0
		}
	}

	var updated string
	if len(raw.LastUpdated) > 0 && json.Unmarshal(raw.LastUpdated, &updated) == nil {
		if t, parseErr := time.Parse(time.RFC3339Nano, updated); parseErr == nil {
			s.LastUpdated = t
		}
	}

	return s, dropped, nil
}

func decodeNote(msg json.RawMessage) (flow.NodeNote, bool) {
	var n rawNote

	if json.Unmarshal(msg, &n) != nil || strings.TrimSpace(n.ID) == "" {
		return flow.NodeNote{}, false
	}

	note := flow.NodeNote{ID: n.ID, Content: n.Content, Tags: n.Tags}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	if t, err := time.Parse(time.RFC3339Nano, n.CreatedAt); err == nil {
		note.CreatedAt = t
	}

	return note, true
}
