package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/storage"
)

// CLI runs flowmap in-process against a temp project directory. Tests drive
// it the way a user would and inspect the annotation record it leaves.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string

	// Backend, when set, is passed as --backend to every invocation and
	// used by ReadRecord.
	Backend string
}

// NewCLI creates a test CLI on a fresh temp directory. The environment is
// empty, so no global config or $EDITOR leaks in.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// argv prefixes args with the program name, the project directory and the
// backend.
func (r *CLI) argv(args []string) []string {
	full := []string{"flowmap", "--cwd", r.Dir}
	if r.Backend != "" {
		full = append(full, "--backend", r.Backend)
	}

	return append(full, args...)
}

// Run executes flowmap with args and no stdin, returning stdout, stderr and
// the exit code.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.run(nil, args)
}

// RunWithInput executes flowmap with stdin fed from input, for reset
// confirmations and edit sessions.
func (r *CLI) RunWithInput(input string, args ...string) (string, string, int) {
	return r.run(strings.NewReader(input), args)
}

func (r *CLI) run(in io.Reader, args []string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	code := Run(in, &outBuf, &errBuf, r.argv(args), r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun fails the test unless the command exits 0. Returns trimmed stdout.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("flowmap %s: exit code %d\nstderr: %s", strings.Join(args, " "), code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail fails the test unless the command exits non-zero with nothing on
// stdout. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("flowmap %s: succeeded, want failure\nstdout: %s", strings.Join(args, " "), stdout)
	}

	if stdout != "" {
		r.t.Fatalf("flowmap %s: failed but wrote stdout\nstdout: %s", strings.Join(args, " "), stdout)
	}

	return strings.TrimSpace(stderr)
}

// Process is a long-running flowmap invocation such as watch.
type Process struct {
	t      *testing.T
	out    *lockedBuffer
	errOut *lockedBuffer
	sigCh  chan os.Signal
	done   chan int
}

// Start runs flowmap with args in the background. Stop it with Interrupt.
func (r *CLI) Start(args ...string) *Process {
	r.t.Helper()

	p := &Process{
		t:      r.t,
		out:    &lockedBuffer{},
		errOut: &lockedBuffer{},
		sigCh:  make(chan os.Signal, 1),
		done:   make(chan int, 1),
	}

	argv := r.argv(args)

	go func() {
		p.done <- Run(nil, p.out, p.errOut, argv, r.Env, p.sigCh)
	}()

	return p
}

// WaitForOutput blocks until stdout contains substr, failing the test after
// five seconds.
func (p *Process) WaitForOutput(substr string) {
	p.t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(p.out.String(), substr) {
			return
		}

		time.Sleep(20 * time.Millisecond)
	}

	p.t.Fatalf("timed out waiting for %q\nstdout:\n%s\nstderr:\n%s", substr, p.out.String(), p.errOut.String())
}

// Interrupt delivers SIGINT and returns the exit code, failing the test if
// the process does not stop within five seconds.
func (p *Process) Interrupt() int {
	p.t.Helper()

	p.sigCh <- os.Interrupt

	select {
	case code := <-p.done:
		return code
	case <-time.After(5 * time.Second):
		p.t.Fatalf("flowmap did not stop after interrupt\nstdout:\n%s", p.out.String())

		return -1
	}
}

// Stderr returns what the process wrote to stderr so far.
func (p *Process) Stderr() string {
	return p.errOut.String()
}

// lockedBuffer is a bytes.Buffer written by the process and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// StateDir returns the default state directory of the project.
func (r *CLI) StateDir() string {
	return filepath.Join(r.Dir, ".flowmap")
}

// ReadRecord returns the raw annotation record from the state directory,
// through whichever backend the CLI uses.
func (r *CLI) ReadRecord() string {
	r.t.Helper()

	kind := storage.KindFile
	if r.Backend != "" {
		kind = storage.Kind(r.Backend)
	}

	ctx := context.Background()

	backend, err := storage.Open(ctx, kind, r.StateDir(), nil)
	if err != nil {
		r.t.Fatalf("opening %s storage: %v", kind, err)
	}

	defer func() { _ = backend.Close() }()

	data, err := backend.Get(ctx, annotation.StorageKey)
	if err != nil {
		r.t.Fatalf("reading annotation record: %v", err)
	}

	return string(data)
}

// WriteFile writes content to name under the project directory, creating
// parent directories. Returns the absolute path.
func (r *CLI) WriteFile(name, content string) string {
	r.t.Helper()

	path := filepath.Join(r.Dir, name)

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		r.t.Fatalf("creating dir for %s: %v", name, err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}

	return path
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
