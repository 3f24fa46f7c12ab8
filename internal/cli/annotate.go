package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinalkan/flowmap/internal/flow"

	flag "github.com/spf13/pflag"
)

// statusCmd returns the status command.
func statusCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("status", flag.ContinueOnError),
		Usage: "status <node> <status>",
		Short: "Set a node's review status",
		Examples: []string{
			"status vs-queue confirmed",
			"status vs-bdc-call open-question",
		},
		Long: `Override the review status of a content node.

Statuses: confirmed, pending, open-question.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execStatus(ctx, io, a, args)
		},
	}
}

func execStatus(ctx context.Context, io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrNodeIDRequired
	}

	if len(args) < 2 {
		return ErrStatusRequired
	}

	status, err := flow.ParseStatus(args[1])
	if err != nil {
		return err
	}

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	if !store.SetStatus(ctx, args[0], status) {
		a.explainIgnored(io, args[0], "status")

		return nil
	}

	io.Printf("%s: %s %s\n", args[0], status.Glyph(), status.Label())

	return nil
}

// moveCmd returns the move command.
func moveCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("move", flag.ContinueOnError),
		Usage: "move <node> <x> <y>",
		Short: "Override a node's position",
		Examples: []string{
			"move vs-queue 420 180",
		},
		Long: `Store a position override for any node. Overrides are discarded when
the built-in layout changes.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execMove(ctx, io, a, args)
		},
	}
}

func execMove(ctx context.Context, io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrNodeIDRequired
	}

	if len(args) < 3 {
		return ErrCoordinatesRequired
	}

	var coords [2]float64

	for i, raw := range args[1:3] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCoordinate, raw)
		}

		coords[i] = v
	}

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	pos := flow.Position{X: coords[0], Y: coords[1]}
	if !store.SetPosition(ctx, args[0], pos) {
		io.Warn("unknown node "+args[0], "run 'flowmap show' to list node ids")

		return nil
	}

	io.Printf("moved %s to %g, %g\n", args[0], pos.X, pos.Y)

	return nil
}

// resetCmd returns the reset command.
func resetCmd(a *app) *Command {
	flags := flag.NewFlagSet("reset", flag.ContinueOnError)
	flagYes := flags.BoolP("yes", "y", false, "Do not ask for confirmation")

	return &Command{
		Flags: flags,
		Usage: "reset [--yes]",
		Short: "Discard all annotations",
		Examples: []string{
			"reset --yes",
		},
		Long: `Discard every note, status override and position override. Asks for
confirmation on stdin unless --yes is given.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execReset(ctx, io, a, *flagYes)
		},
	}
}

func execReset(ctx context.Context, io *IO, a *app, yes bool) error {
	if !yes {
		if io.In() == nil {
			return ErrConfirmationRequired
		}

		io.Printf("Discard all notes, statuses and positions? [y/N] ")

		answer, _ := bufio.NewReader(io.In()).ReadString('\n')

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			io.Println("reset cancelled")

			return nil
		}
	}

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	store.Reset(ctx)
	io.Println("annotations reset")

	return nil
}
