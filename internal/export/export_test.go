package export_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/dataset"
	"github.com/calvinalkan/flowmap/internal/export"
	"github.com/calvinalkan/flowmap/internal/flow"
)

var exportedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func smallDataset() dataset.Dataset {
	return dataset.Dataset{
		Variant: flow.VariantHubSpot,
		Nodes: []flow.Node{
			{ID: "a", Position: flow.Position{X: 1, Y: 2}, Data: flow.Content{
				Label: "Contact Created", Owner: "System", Status: flow.StatusPending,
				Description: "New contact lands in HubSpot",
			}},
			{ID: "stage", Data: flow.Stage{Label: "Intake"}},
			{ID: "b", Data: flow.Content{Label: "Deal Won", Status: flow.StatusConfirmed}},
		},
		Edges: []flow.Edge{
			{ID: "e1", Source: "a", Target: "b", Routing: flow.RoutingDetour, Style: &flow.EdgeStyle{Dash: "5,5"}, Animated: true},
		},
	}
}

func annotated() annotation.State {
	st := annotation.NewState(dataset.LayoutVersion, exportedAt)
	st.Statuses["a"] = flow.StatusOpenQuestion
	st.Notes["a"] = []flow.NodeNote{
		{ID: "n1", Content: "Check with BDC team", CreatedAt: exportedAt, Tags: []string{"BDC Team", "Chuck"}},
		{ID: "n2", Content: "No tags here", CreatedAt: exportedAt, Tags: []string{}},
	}

	return st
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	got := export.MarkdownIn(export.Build(smallDataset(), annotated(), exportedAt), time.UTC)

	want := strings.Join([]string{
		"# HubSpot Migration Flow - HubSpot (Target State)",
		"",
		"*Exported: 3/14/2026, 9:30:00 AM*",
		"",
		"## Nodes",
		"",
		"### ❓ Contact Created",
		"",
		"**Owner:** System",
		"**Status:** open-question",
		"",
		"> New contact lands in HubSpot",
		"",
		"**Notes:**",
		"- Check with BDC team",
		"  - *Tags: @BDC Team, @Chuck*",
		"- No tags here",
		"",
		"### ✅ Deal Won",
		"",
		"**Status:** confirmed",
		"",
		"",
	}, "\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Markdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_OnlyContentNodesWithStaticStatus(t *testing.T) {
	t.Parallel()

	doc := export.Build(smallDataset(), annotated(), exportedAt)

	if doc.Version != "1.0.0" || doc.ViewMode != flow.VariantHubSpot || !doc.ExportedAt.Equal(exportedAt) {
		t.Errorf("header = %q %q %v", doc.Version, doc.ViewMode, doc.ExportedAt)
	}

	require.Len(t, doc.Nodes, 2)

	if doc.Nodes[0].Data.Status != flow.StatusPending {
		t.Errorf("node status = %q, want static pending", doc.Nodes[0].Data.Status)
	}

	if doc.Status(doc.Nodes[0]) != flow.StatusOpenQuestion {
		t.Errorf("effective status = %q", doc.Status(doc.Nodes[0]))
	}

	if doc.Edges[0].Type != "bts" {
		t.Errorf("edge type = %q, want bts", doc.Edges[0].Type)
	}
}

func TestJSON_WireShape(t *testing.T) {
	t.Parallel()

	data, err := export.JSON(export.Build(smallDataset(), annotated(), exportedAt))
	require.NoError(t, err)

	var got map[string]any

	require.NoError(t, json.Unmarshal(data, &got))

	for _, key := range []string{"version", "exportedAt", "viewMode", "nodes", "edges", "notes", "statuses"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	node := got["nodes"].([]any)[0].(map[string]any)
	wantNode := map[string]any{
		"id":       "a",
		"type":     "custom",
		"position": map[string]any{"x": 1.0, "y": 2.0},
		"data": map[string]any{
			"label":       "Contact Created",
			"owner":       "System",
			"status":      "pending",
			"notes":       []any{},
			"description": "New contact lands in HubSpot",
		},
	}

	if diff := cmp.Diff(wantNode, node); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}

	edge := got["edges"].([]any)[0].(map[string]any)
	wantEdge := map[string]any{
		"id": "e1", "source": "a", "target": "b", "type": "bts",
		"style": map[string]any{"strokeDasharray": "5,5"}, "animated": true,
	}

	if diff := cmp.Diff(wantEdge, edge); diff != "" {
		t.Errorf("edge mismatch (-want +got):\n%s", diff)
	}

	if got["exportedAt"] != "2026-03-14T09:30:00Z" {
		t.Errorf("exportedAt = %v", got["exportedAt"])
	}
}

func TestYAML_UsesDocumentFieldNames(t *testing.T) {
	t.Parallel()

	data, err := export.YAML(export.Build(smallDataset(), annotated(), exportedAt))
	require.NoError(t, err)

	var got struct {
		Version  string                      `yaml:"version"`
		ViewMode string                      `yaml:"viewMode"`
		Statuses map[string]string           `yaml:"statuses"`
		Notes    map[string][]map[string]any `yaml:"notes"`
	}

	require.NoError(t, yaml.Unmarshal(data, &got))

	if got.Version != "1.0.0" || got.ViewMode != "hubspot" || got.Statuses["a"] != "open-question" {
		t.Errorf("decoded = %+v", got)
	}

	if len(got.Notes["a"]) != 2 || got.Notes["a"][0]["content"] != "Check with BDC team" {
		t.Errorf("notes = %+v", got.Notes["a"])
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	got := export.FileName(flow.VariantVanillaSoft, export.FormatMarkdown, exportedAt)
	if got != "hubspot-flow-vanillasoft-2026-03-14.md" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]export.Format{
		"json": export.FormatJSON, "": export.FormatJSON,
		"md": export.FormatMarkdown, "Markdown": export.FormatMarkdown,
		"yaml": export.FormatYAML, "yml": export.FormatYAML,
	} {
		got, err := export.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}

	if _, err := export.ParseFormat("pdf"); !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("ParseFormat(pdf) err = %v", err)
	}
}

func TestParse_ExportDocumentRoundTripsAnnotations(t *testing.T) {
	t.Parallel()

	data, err := export.JSON(export.Build(smallDataset(), annotated(), exportedAt))
	require.NoError(t, err)

	st, src, dropped, err := export.Parse(data, dataset.LayoutVersion)
	require.NoError(t, err)
	require.Empty(t, dropped)

	if src != export.SourceDocument {
		t.Errorf("source = %v, want document", src)
	}

	want := annotated()
	if diff := cmp.Diff(want.Notes, st.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(want.Statuses, st.Statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}

	if st.LayoutVersion != dataset.LayoutVersion {
		t.Errorf("LayoutVersion = %d", st.LayoutVersion)
	}
}

func TestParse_RawRecord(t *testing.T) {
	t.Parallel()

	data, err := annotation.Encode(annotated())
	require.NoError(t, err)

	_, src, _, err := export.Parse(data, dataset.LayoutVersion)
	require.NoError(t, err)

	if src != export.SourceRecord {
		t.Errorf("source = %v, want record", src)
	}
}

func TestParse_RejectsUnrelatedJSON(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`{"hello": "world"}`, `[1,2]`, `not json`} {
		_, _, _, err := export.Parse([]byte(in), dataset.LayoutVersion)
		if !errors.Is(err, export.ErrUnrecognizedImport) {
			t.Errorf("Parse(%s) err = %v", in, err)
		}
	}
}

func TestRenderTerminal_PlainStyleKeepsContent(t *testing.T) {
	t.Parallel()

	md := export.Markdown(export.Build(smallDataset(), annotated(), exportedAt))

	out, err := export.RenderTerminal(md, "notty", 100)
	require.NoError(t, err)

	for _, want := range []string{"HubSpot Migration Flow", "Contact Created", "Check with BDC team"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdown_ShowsExportTimeInLocalZoneButJSONKeepsUTC(t *testing.T) {
	t.Parallel()

	doc := export.Build(smallDataset(), annotated(), exportedAt.In(time.FixedZone("EST", -5*60*60)))

	md := export.MarkdownIn(doc, time.FixedZone("EST", -5*60*60))
	if !strings.Contains(md, "*Exported: 3/14/2026, 4:30:00 AM*") {
		t.Errorf("markdown header not in the given zone:\n%s", md)
	}

	data, err := export.JSON(doc)
	require.NoError(t, err)

	if !strings.Contains(string(data), `"exportedAt": "2026-03-14T09:30:00Z"`) {
		t.Errorf("json exportedAt not UTC:\n%s", data)
	}
}
