package cli_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/flowmap/internal/cli"
)

type storedRecord struct {
	NodeNotes map[string][]struct {
		ID      string   `json:"id"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	} `json:"nodeNotes"`
	NodeStatuses  map[string]string `json:"nodeStatuses"`
	NodePositions map[string]struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"nodePositions"`
	LayoutVersion int `json:"layoutVersion"`
}

func readRecord(t *testing.T, c *cli.CLI) storedRecord {
	t.Helper()

	var rec storedRecord

	err := json.Unmarshal([]byte(c.ReadRecord()), &rec)
	if err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}

	return rec
}

func Test_Status_Persists_Across_Invocations_When_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("status", "vs-queue", "confirmed")

	cli.AssertContains(t, stdout, "vs-queue: ✅ Confirmed")

	if got := readRecord(t, c).NodeStatuses["vs-queue"]; got != "confirmed" {
		t.Errorf("stored status = %q, want confirmed", got)
	}

	detail := c.MustRun("node", "vs-queue")
	cli.AssertContains(t, detail, "status:   ✅ Confirmed")
}

func Test_Status_Rejects_Invalid_Value_When_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("status", "vs-queue", "done")

	cli.AssertContains(t, stderr, "invalid status")
}

func Test_Status_Warns_But_Succeeds_When_Node_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("status", "vs-nope", "pending")

	if exitCode != 0 {
		t.Errorf("exitCode=%d, want=0", exitCode)
	}

	if stdout != "" {
		t.Errorf("stdout=%q, want empty", stdout)
	}

	cli.AssertContains(t, stderr, "warning: unknown node vs-nope")
}

func Test_Status_Warns_When_Node_Is_Not_Content(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, exitCode := c.Run("status", "stage-queue", "pending")

	if exitCode != 0 {
		t.Errorf("exitCode=%d, want=0", exitCode)
	}

	cli.AssertContains(t, stderr, "status ignored for stage node stage-queue")
}

func Test_Move_Stores_Override_For_Any_Node_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("move", "stage-queue", "12.5", "-40")
	c.MustRun("move", "vs-queue", "100", "200")

	positions := readRecord(t, c).NodePositions
	if got := positions["stage-queue"]; got.X != 12.5 || got.Y != -40 {
		t.Errorf("stage-queue position = %+v", got)
	}

	detail := c.MustRun("node", "vs-queue")
	cli.AssertContains(t, detail, "position: 100, 200 (moved)")
}

func Test_Move_Rejects_Bad_Coordinates_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("move", "vs-queue", "left", "3")
	cli.AssertContains(t, stderr, `invalid coordinate: "left"`)

	stderr = c.MustFail("move", "vs-queue", "3")
	cli.AssertContains(t, stderr, "x and y coordinates are required")
}

func Test_Reset_Discards_Annotations_When_Confirmed(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("status", "vs-queue", "confirmed")
	c.MustRun("note", "add", "vs-queue", "first")

	stdout, _, exitCode := c.RunWithInput("y\n", "reset")
	if exitCode != 0 {
		t.Fatalf("exitCode=%d", exitCode)
	}

	cli.AssertContains(t, stdout, "annotations reset")

	rec := readRecord(t, c)
	if len(rec.NodeNotes) != 0 || len(rec.NodeStatuses) != 0 {
		t.Errorf("record after reset = %+v", rec)
	}
}

func Test_Reset_Keeps_Annotations_When_Declined(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("status", "vs-queue", "confirmed")

	stdout, _, exitCode := c.RunWithInput("n\n", "reset")
	if exitCode != 0 {
		t.Fatalf("exitCode=%d", exitCode)
	}

	cli.AssertContains(t, stdout, "reset cancelled")

	if got := readRecord(t, c).NodeStatuses["vs-queue"]; got != "confirmed" {
		t.Errorf("status after declined reset = %q", got)
	}
}

func Test_Reset_Requires_Yes_When_No_Input(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("reset")
	cli.AssertContains(t, stderr, "reset needs confirmation")

	stdout := c.MustRun("reset", "--yes")
	cli.AssertContains(t, stdout, "annotations reset")
}

func Test_Note_Lifecycle_When_Managed_By_Number(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("note", "add", "vs-queue", "Check", "with", "BDC", "team", "--tag", "BDC Team")
	c.MustRun("note", "add", "vs-queue", "second note", "-t", "Chuck", "-t", "Chase")

	rec := readRecord(t, c)
	notes := rec.NodeNotes["vs-queue"]

	if len(notes) != 2 {
		t.Fatalf("len(notes)=%d, want 2", len(notes))
	}

	if notes[0].Content != "Check with BDC team" || !cmp.Equal(notes[0].Tags, []string{"BDC Team"}) {
		t.Errorf("first note = %+v", notes[0])
	}

	if notes[0].ID == notes[1].ID {
		t.Errorf("note ids collide: %s", notes[0].ID)
	}

	c.MustRun("note", "edit", "vs-queue", "2", "second", "note", "edited")
	c.MustRun("note", "edit", "vs-queue", notes[0].ID, "--clear-tags")

	detail := c.MustRun("node", "vs-queue")
	cli.AssertContains(t, detail, "notes (2):")
	cli.AssertContains(t, detail, "1. Check with BDC team")
	cli.AssertContains(t, detail, "2. second note edited")
	cli.AssertContains(t, detail, "@Chuck @Chase")
	cli.AssertNotContains(t, detail, "@BDC Team")

	c.MustRun("note", "rm", "vs-queue", "1")

	rec = readRecord(t, c)
	if got := rec.NodeNotes["vs-queue"]; len(got) != 1 || got[0].Content != "second note edited" {
		t.Errorf("notes after rm = %+v", got)
	}
}

func Test_Note_Add_Warns_When_Text_Blank(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("note", "add", "vs-queue", "   ")

	if exitCode != 0 || stdout != "" {
		t.Errorf("exitCode=%d stdout=%q", exitCode, stdout)
	}

	cli.AssertContains(t, stderr, "empty note ignored")
}

func Test_Note_Add_Warns_When_Node_Is_A_Stage(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, exitCode := c.Run("note", "add", "stage-queue", "hello")

	if exitCode != 0 {
		t.Errorf("exitCode=%d, want 0", exitCode)
	}

	cli.AssertContains(t, stderr, "note ignored for stage node stage-queue")
}

func Test_Note_Edit_Warns_When_Note_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, exitCode := c.Run("note", "edit", "vs-queue", "3", "text")

	if exitCode != 0 {
		t.Errorf("exitCode=%d, want 0", exitCode)
	}

	cli.AssertContains(t, stderr, "no note 3 on vs-queue")
}

func Test_Note_Edit_Keeps_Note_When_Text_Blank(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("note", "add", "vs-queue", "keep me")

	_, stderr, _ := c.Run("note", "edit", "vs-queue", "1", " ")
	cli.AssertContains(t, stderr, "note text cannot be blank")

	if got := readRecord(t, c).NodeNotes["vs-queue"][0].Content; got != "keep me" {
		t.Errorf("content = %q", got)
	}
}

func Test_Note_Requires_Known_Subcommand_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("note", "list", "vs-queue")

	cli.AssertContains(t, stderr, "unknown subcommand")
	cli.AssertContains(t, stderr, "list")
}

func Test_Note_Edit_Opens_Editor_When_No_Text_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	script := c.WriteFile("bin/fake-editor", "#!/bin/sh\nprintf 'rewritten in editor\\n' > \"$1\"\n")
	makeExecutable(t, script)

	c.Env["EDITOR"] = script

	c.MustRun("note", "add", "vs-queue", "draft")
	c.MustRun("note", "edit", "vs-queue", "1")

	if got := readRecord(t, c).NodeNotes["vs-queue"][0].Content; got != "rewritten in editor" {
		t.Errorf("content = %q, want trimmed editor output", got)
	}
}

func Test_Scenario_VS_Queue_When_Annotated_End_To_End(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.Backend = backend

			c.MustRun("note", "add", "vs-queue", "Check with BDC team", "--tag", "BDC Team")
			c.MustRun("status", "vs-queue", "confirmed")

			show := c.MustRun("show")
			line := lineWith(show, "vs-queue")

			for _, want := range []string{"✅", "General Queue", "[1]"} {
				if !strings.Contains(line, want) {
					t.Errorf("show line %q should contain %q", line, want)
				}
			}

			detail := c.MustRun("node", "vs-queue")
			cli.AssertContains(t, detail, "Check with BDC team")
			cli.AssertContains(t, detail, "@BDC Team")

			rec := readRecord(t, c)
			if rec.NodeStatuses["vs-queue"] != "confirmed" || len(rec.NodeNotes["vs-queue"]) != 1 {
				t.Errorf("%s record = %+v", backend, rec)
			}
		})
	}
}

func lineWith(text, substr string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}

	return ""
}
