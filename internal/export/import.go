package export

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/calvinalkan/flowmap/internal/annotation"
)

// Source tells what kind of file an import was read from.
type Source int

// Import sources.
const (
	SourceRecord   Source = iota + 1 // a raw annotation record
	SourceDocument                   // a JSON export document
)

// ErrUnrecognizedImport is returned when data is neither an annotation record
// nor a JSON export document.
var ErrUnrecognizedImport = errors.New("not an annotation record or export document")

// Parse reads annotations from a raw annotation record or a JSON export
// document. A document carries no positions and no layout version, so the
// returned state has neither; layoutVersion is stamped on it so the positions
// the caller keeps are not discarded. Malformed entries are skipped and listed
// in dropped.
func Parse(data []byte, layoutVersion int) (st annotation.State, src Source, dropped []string, err error) {
	var probe map[string]json.RawMessage

	err = json.Unmarshal(data, &probe)
	if err != nil {
		return annotation.State{}, 0, nil, fmt.Errorf("%w: %w", ErrUnrecognizedImport, err)
	}

	_, hasNotes := probe["nodeNotes"]
	_, hasStatuses := probe["nodeStatuses"]

	if hasNotes || hasStatuses {
		st, dropped, err = annotation.Decode(data)
		if err != nil {
			return annotation.State{}, 0, nil, err
		}

		return st, SourceRecord, dropped, nil
	}

	_, hasVersion := probe["version"]
	_, hasDocNotes := probe["notes"]
	_, hasDocStatuses := probe["statuses"]

	if !hasVersion || (!hasDocNotes && !hasDocStatuses) {
		return annotation.State{}, 0, nil, ErrUnrecognizedImport
	}

	// Re-shape into a record so both paths share the same lenient decoding.
	record, err := json.Marshal(map[string]any{
		"nodeNotes":     probe["notes"],
		"nodeStatuses":  probe["statuses"],
		"layoutVersion": layoutVersion,
	})
	if err != nil {
		return annotation.State{}, 0, nil, fmt.Errorf("reshaping export document: %w", err)
	}

	st, dropped, err = annotation.Decode(record)
	if err != nil {
		return annotation.State{}, 0, nil, err
	}

	return st, SourceDocument, dropped, nil
}
