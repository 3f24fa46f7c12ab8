package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// JSON renders doc as indented JSON.
func JSON(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json export: %w", err)
	}

	return append(data, '\n'), nil
}

// YAML renders doc as YAML with the same field names as the JSON form.
func YAML(doc Document) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err := enc.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml export: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("encoding yaml export: %w", err)
	}

	return buf.Bytes(), nil
}

// markdownTime mirrors a browser's en-US locale timestamp.
const markdownTime = "1/2/2006, 3:04:05 PM"

// Markdown renders doc as a review document: one section per node with its
// effective status, owner, description and notes. The export time is shown in
// local time; the JSON and YAML documents keep it in UTC.
func Markdown(doc Document) string {
	return MarkdownIn(doc, time.Local)
}

// MarkdownIn is [Markdown] with the export time shown in loc.
func MarkdownIn(doc Document, loc *time.Location) string {
	var b strings.Builder

	b.WriteString("# HubSpot Migration Flow - " + doc.ViewMode.Title() + "\n")
	b.WriteString("\n")
	b.WriteString("*Exported: " + doc.ExportedAt.In(loc).Format(markdownTime) + "*\n")
	b.WriteString("\n")
	b.WriteString("## Nodes\n")
	b.WriteString("\n")

	for _, n := range doc.Nodes {
		status := doc.Status(n)

		fmt.Fprintf(&b, "### %s %s\n\n", status.Glyph(), n.Data.Label)

		if n.Data.Owner != "" {
			fmt.Fprintf(&b, "**Owner:** %s\n", n.Data.Owner)
		}

		fmt.Fprintf(&b, "**Status:** %s\n", status)

		if n.Data.Description != "" {
			fmt.Fprintf(&b, "\n> %s\n", n.Data.Description)
		}

		b.WriteString("\n")

		notes := doc.Notes[n.ID]
		if len(notes) == 0 {
			continue
		}

		b.WriteString("**Notes:**\n")

		for _, note := range notes {
			fmt.Fprintf(&b, "- %s\n", note.Content)

			if len(note.Tags) > 0 {
				tags := make([]string, len(note.Tags))
				for i, t := range note.Tags {
					tags[i] = "@" + t
				}

				fmt.Fprintf(&b, "  - *Tags: %s*\n", strings.Join(tags, ", "))
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}
