package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/flowmap/internal/cli"
)

func makeExecutable(t *testing.T, path string) {
	t.Helper()

	err := os.Chmod(path, 0o755)
	if err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
}

func Test_Show_Renders_Selected_Variant_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	vs := c.MustRun("show")
	cli.AssertContains(t, vs, "VanillaSoft (Current State)")
	cli.AssertContains(t, vs, "vs-queue")
	cli.AssertNotContains(t, vs, "hs-contact")

	hs := c.MustRun("--variant", "hubspot", "show")
	cli.AssertContains(t, hs, "HubSpot (Target State)")
	cli.AssertContains(t, hs, "hs-contact")
	cli.AssertNotContains(t, hs, "vs-queue")
}

func Test_Show_Orders_Stages_Before_Content_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("show")

	stage := strings.Index(stdout, "stage-outcomes")
	content := strings.Index(stdout, "vs-queue")

	if stage < 0 || content < 0 || stage > content {
		t.Errorf("stage-outcomes at %d, vs-queue at %d; stages must come first", stage, content)
	}
}

func Test_Show_Lists_Edges_When_Requested(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	plain := c.MustRun("show")
	cli.AssertNotContains(t, plain, "Edges")

	stdout := c.MustRun("show", "--edges")
	cli.AssertContains(t, stdout, "Edges")
	cli.AssertContains(t, stdout, "stage-sources -> stage-queue")
	cli.AssertContains(t, stdout, "group-retry -> vs-bdc-call [RETRY]")
}

func Test_Show_Uses_Variant_From_Project_Config_When_Present(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".flowmap.json", `{
		// the target state is under review
		"variant": "hubspot",
	}`)

	stdout := c.MustRun("show")
	cli.AssertContains(t, stdout, "hs-contact")
}

func Test_Node_Shows_Question_When_Status_Open(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("node", "vs-queue")

	cli.AssertContains(t, stdout, "General Queue")
	cli.AssertContains(t, stdout, "owner:    Nobody")
	cli.AssertContains(t, stdout, `? Is "queue" the right term?`)
	cli.AssertContains(t, stdout, "no notes")
}

func Test_Node_Warns_When_It_Belongs_To_Other_Variant(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("node", "hs-contact")

	if exitCode != 0 {
		t.Errorf("exitCode=%d, want 0", exitCode)
	}

	cli.AssertContains(t, stderr, "node hs-contact belongs to the hubspot diagram")
	cli.AssertContains(t, stdout, "Contact Record")
}

func Test_Node_Warns_When_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("node", "nope")

	if exitCode != 0 || stdout != "" {
		t.Errorf("exitCode=%d stdout=%q", exitCode, stdout)
	}

	cli.AssertContains(t, stderr, "warning: unknown node nope")

	stderr = c.MustFail("node")
	cli.AssertContains(t, stderr, "node ID is required")
}

func Test_Glossary_Filters_By_Search_And_Category_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("glossary", "dm", "--category", "role")

	cli.AssertContains(t, stdout, "ROLES")

	for _, term := range []string{"DM", "NDM", "Admin"} {
		if lineWith(stdout, term) == "" {
			t.Errorf("glossary output should list %s\n%s", term, stdout)
		}
	}

	cli.AssertNotContains(t, stdout, "RESULT CODES")
}

func Test_Glossary_Reports_No_Match_When_Nothing_Matches(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	cli.AssertContains(t, c.MustRun("glossary", "zzzz"), "No matching terms found")

	stderr := c.MustFail("glossary", "--category", "colors")
	cli.AssertContains(t, stderr, "unknown category")
}

func Test_Print_Config_Shows_Defaults_When_No_Files(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "effective_cwd="+c.Dir)
	cli.AssertContains(t, stdout, "state_dir="+filepath.Join(c.Dir, ".flowmap"))
	cli.AssertContains(t, stdout, "backend=file")
	cli.AssertContains(t, stdout, "variant=vanillasoft")
	cli.AssertContains(t, stdout, "(defaults only)")
}

func Test_Print_Config_Shows_Sources_And_Overrides_When_Configured(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["XDG_CONFIG_HOME"] = filepath.Join(c.Dir, "xdg")
	global := c.WriteFile("xdg/flowmap/config.json", `{"tags": ["Ops"], "editor": "nano"}`)
	project := c.WriteFile(".flowmap.json", `{"backend": "sqlite"}`)

	stdout := c.MustRun("--state-dir", "annotations", "print-config")

	cli.AssertContains(t, stdout, "state_dir="+filepath.Join(c.Dir, "annotations"))
	cli.AssertContains(t, stdout, "backend=sqlite")
	cli.AssertContains(t, stdout, "editor=nano")
	cli.AssertContains(t, stdout, "tags=Ops")
	cli.AssertContains(t, stdout, "global_config="+global)
	cli.AssertContains(t, stdout, "project_config="+project)
}

func Test_Print_Config_Emits_Config_File_When_JSON_Requested(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("--variant", "hubspot", "print-config", "--json")

	cli.AssertContains(t, stdout, `"state_dir": ".flowmap"`)
	cli.AssertContains(t, stdout, `"variant": "hubspot"`)
	cli.AssertNotContains(t, stdout, c.Dir)
}
