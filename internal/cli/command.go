package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one flowmap subcommand. Help output is generated from its
// fields, so every command documents itself the same way.
type Command struct {
	// Flags holds the command's own flags. Global flags are parsed by Run
	// before the command is selected and never reach this set.
	Flags *flag.FlagSet

	// Usage follows "flowmap" in help; its first word is the command name.
	// Examples: "node <id>", "status <node> <status>".
	Usage string

	// Short is the one-line summary in the command listing.
	Short string

	// Long is the command help text. Short is used when empty.
	Long string

	// Examples are full invocations shown under the help text, without the
	// leading "flowmap".
	Examples []string

	// Exec runs the command with the positional args left after flag parsing.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the command's row in the listing, with Usage padded to
// width so the summaries line up.
func (c *Command) HelpLine(width int) string {
	return fmt.Sprintf("  %-*s  %s", width, c.Usage, c.Short)
}

// usageWidth is the widest Usage among commands.
func usageWidth(commands []*Command) int {
	width := 0
	for _, c := range commands {
		width = max(width, len(c.Usage))
	}

	return width
}

// PrintHelp writes the help of "flowmap <cmd> --help" to w.
func (c *Command) PrintHelp(w io.Writer) {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	fprintln(w, "Usage: flowmap", c.Usage)
	fprintln(w)
	fprintln(w, desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		var buf strings.Builder

		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()

		fprintln(w)
		fprintln(w, "Flags:")
		_, _ = io.WriteString(w, buf.String())
	}

	if len(c.Examples) > 0 {
		fprintln(w)
		fprintln(w, "Examples:")

		for _, ex := range c.Examples {
			fprintln(w, "  flowmap", ex)
		}
	}
}

// Run parses flags and executes the command, returning the exit code.
// Help goes to stdout when asked for and to stderr after a usage error, so
// a failing command never writes to stdout.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(io.Discard)

	err := c.Flags.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		c.PrintHelp(o.Out())

		return o.Finish()
	case err != nil:
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o.ErrOut())

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}
