package cli_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/flowmap/internal/cli"
)

func Test_Edit_Annotates_Node_When_Driven_From_Input(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	script := strings.Join([]string{
		"status 1",
		"tag bdc team",
		"tag Margie",
		"tag margie",
		"tags",
		"add Check with BDC team",
		"add second",
		"edit 2 second, edited",
		"tag Chuck",
		"retag 2",
		"add   ",
		"rm 1",
		"bogus",
		"show",
		"quit",
		"status pending",
	}, "\n")

	stdout, stderr, exitCode := c.RunWithInput(script, "edit", "vs-queue")
	if exitCode != 0 {
		t.Fatalf("exitCode=%d stderr=%s", exitCode, stderr)
	}

	cli.AssertContains(t, stdout, "General Queue")
	cli.AssertContains(t, stdout, "status: ✅ Confirmed")
	cli.AssertContains(t, stdout, "tag on: BDC Team")
	cli.AssertContains(t, stdout, "tag off: Margie")
	cli.AssertContains(t, stdout, "  [x] BDC Team")
	cli.AssertContains(t, stdout, "  [ ] Margie")
	cli.AssertContains(t, stdout, "added note 1")
	cli.AssertContains(t, stdout, "nothing to add: note text is empty")
	cli.AssertContains(t, stdout, "Unknown command: bogus")

	rec := readRecord(t, c)

	// "status pending" comes after quit and must not run.
	if got := rec.NodeStatuses["vs-queue"]; got != "confirmed" {
		t.Errorf("status = %q, want confirmed", got)
	}

	notes := rec.NodeNotes["vs-queue"]
	if len(notes) != 1 {
		t.Fatalf("notes = %+v, want one left after rm", notes)
	}

	if notes[0].Content != "second, edited" {
		t.Errorf("content = %q", notes[0].Content)
	}

	if diff := cmp.Diff([]string{"Chuck"}, notes[0].Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func Test_Edit_Stops_At_End_Of_Input(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, _, exitCode := c.RunWithInput("move 10 20\n", "edit", "vs-queue")

	if exitCode != 0 {
		t.Fatalf("exitCode=%d", exitCode)
	}

	cli.AssertContains(t, stdout, "moved to 10, 20")

	if got := readRecord(t, c).NodePositions["vs-queue"]; got.X != 10 || got.Y != 20 {
		t.Errorf("position = %+v", got)
	}
}

func Test_Edit_Offers_Configured_Tags_When_Listing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".flowmap.json", `{"tags": ["Ops", "chuck"]}`)

	stdout := c.MustRun("edit", "vs-queue")
	assertIntroOnly(t, stdout)

	stdout, _, _ = c.RunWithInput("tags\n", "edit", "vs-queue")
	cli.AssertContains(t, stdout, "  [ ] Ops")

	if strings.Count(stdout, "Chuck")+strings.Count(stdout, "chuck") != 1 {
		t.Errorf("configured tag duplicating a suggestion should be listed once:\n%s", stdout)
	}
}

func Test_Edit_Warns_When_Node_Not_Annotatable(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.RunWithInput("quit\n", "edit", "stage-queue")

	if exitCode != 0 || stdout != "" {
		t.Errorf("exitCode=%d stdout=%q", exitCode, stdout)
	}

	cli.AssertContains(t, stderr, "edit ignored for stage node stage-queue")
}

func assertIntroOnly(t *testing.T, stdout string) {
	t.Helper()

	cli.AssertContains(t, stdout, "Type 'help' for available commands.")
	cli.AssertNotContains(t, stdout, "Unknown command")
}
