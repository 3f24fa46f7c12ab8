package cli_test

import (
	"os"
	"strings"
	"testing"

	"github.com/calvinalkan/flowmap/internal/cli"
)

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "show")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")

	// Should show valid global options
	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--config")
	cli.AssertContains(t, stderr, "--state-dir")
	cli.AssertContains(t, stderr, "--backend")
	cli.AssertContains(t, stderr, "--variant")
}

func Test_Empty_State_Dir_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--state-dir=", "show")

	cli.AssertContains(t, stderr, "state_dir cannot be empty")
	cli.AssertContains(t, stderr, "Global flags:")
}

func Test_Value_Flag_Without_Argument_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--backend")

	cli.AssertContains(t, stderr, "flag requires an argument: --backend")
}

func Test_Invalid_Backend_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--backend", "redis", "show")

	cli.AssertContains(t, stderr, `backend must be one of: file|sqlite (got "redis")`)
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("frobnicate")

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Usage_Lists_Commands_When_No_Command_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun()

	for _, name := range []string{"show", "node", "note", "status", "move", "edit", "reset", "export", "import", "watch", "glossary", "print-config"} {
		cli.AssertContains(t, stdout, "  "+name)
	}

	showAt := strings.Index(lineWith(stdout, "Show the annotated diagram"), "Show the annotated diagram")
	configAt := strings.Index(lineWith(stdout, "Show resolved configuration"), "Show resolved configuration")

	if showAt < 0 || showAt != configAt {
		t.Errorf("command summaries are not aligned (%d vs %d):\n%s", showAt, configAt, stdout)
	}
}

func Test_Global_Help_When_Flag_Given_Before_Command(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("--help", "show")

	cli.AssertContains(t, stdout, "Usage: flowmap [flags] <command> [args]")
}

func Test_Command_Help_When_Help_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("export", "--help")

	cli.AssertContains(t, stdout, "Usage: flowmap export")
	cli.AssertContains(t, stdout, "--format")
	cli.AssertContains(t, stdout, "--auto-name")
	cli.AssertContains(t, stdout, "Examples:")
	cli.AssertContains(t, stdout, "  flowmap export --format md --render")
}

func Test_Unknown_Command_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("show", "--bogus")

	cli.AssertContains(t, stderr, "error: unknown flag: --bogus")
	cli.AssertContains(t, stderr, "Usage: flowmap show")
}

func Test_Read_Only_Commands_Do_Not_Create_State_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.Backend = backend

			for _, args := range [][]string{
				{"show"},
				{"node", "vs-queue"},
				{"glossary"},
				{"export"},
				{"print-config"},
			} {
				_, stderr, exitCode := c.Run(args...)
				if exitCode != 0 {
					t.Fatalf("%v: exitCode=%d stderr=%s", args, exitCode, stderr)
				}
			}

			if _, err := os.Stat(c.StateDir()); err == nil {
				t.Errorf("state dir %s was created by read-only commands", c.StateDir())
			}

			c.MustRun("status", "vs-queue", "confirmed")

			if _, err := os.Stat(c.StateDir()); err != nil {
				t.Errorf("state dir missing after a write: %v", err)
			}
		})
	}
}
