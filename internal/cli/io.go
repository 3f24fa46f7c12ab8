package cli

import (
	"fmt"
	"io"
)

// IO handles command output. Warnings are collected while a command runs
// and printed to stderr at both the start and the end of its output.
type IO struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool
}

// NewIO creates a new IO instance.
func NewIO(in io.Reader, out, errOut io.Writer) *IO {
	return &IO{in: in, out: out, errOut: errOut}
}

// Warn records a warning about an ignored request.
//
// Parameters:
//   - issue: what was ignored
//   - hint: what to do instead
//
// Warnings are printed to stderr at both the START and END of output so
// they survive truncation (head/tail). They do not change the exit code:
// an unknown node id is a no-op, not a failure.
func (o *IO) Warn(issue string, hint string) {
	o.warnings = append(o.warnings, fmt.Sprintf("%s: %s", issue, hint))
}

// Warnings returns the warnings recorded so far.
func (o *IO) Warnings() []string {
	return o.warnings
}

// In returns the command input. Nil when none was provided.
func (o *IO) In() io.Reader {
	return o.in
}

// Out returns the stdout writer, for renderers that detect terminal
// capabilities.
func (o *IO) Out() io.Writer {
	return o.out
}

// ErrOut returns the stderr writer.
func (o *IO) ErrOut() io.Writer {
	return o.errOut
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish prints warnings to stderr and returns the exit code, which is
// always 0: failures are reported as errors, not warnings.
func (o *IO) Finish() int {
	// Without stdout output the start and end positions coincide.
	o.printWarnings()
	o.warnings = nil

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		o.printWarnings()
	}

	o.started = true
}

func (o *IO) printWarnings() {
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}
}
