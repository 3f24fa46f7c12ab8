package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/flowmap/internal/render"

	flag "github.com/spf13/pflag"
)

// showCmd returns the show command.
func showCmd(a *app) *Command {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	flagEdges := flags.BoolP("edges", "e", false, "List edges after the nodes")
	flagRoutes := flags.Bool("routes", false, "List edges with their route waypoints")

	return &Command{
		Flags: flags,
		Usage: "show [--edges] [--routes]",
		Short: "Show the annotated diagram",
		Examples: []string{
			"show",
			"--variant hubspot show --edges",
		},
		Long: `Print every node of the selected variant with its status, owner and
note count. Groups come first, then stages, then the remaining nodes.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execShow(ctx, io, a, render.Options{Edges: *flagEdges, Routes: *flagRoutes})
		},
	}
}

func execShow(ctx context.Context, io *IO, a *app, opts render.Options) error {
	_, session, err := a.session(ctx, a.variant())
	if err != nil {
		return err
	}
	defer session.Close()

	io.Printf("%s", render.New(io.Out()).Diagram(session.Diagram(), opts))

	return nil
}

// nodeCmd returns the node command.
func nodeCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("node", flag.ContinueOnError),
		Usage: "node <id>",
		Short: "Show one node with its notes",
		Examples: []string{
			"node vs-queue",
		},
		Long:  "Display a node's owner, status, position, description and numbered notes.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execNode(ctx, io, a, args)
		},
	}
}

func execNode(ctx context.Context, io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrNodeIDRequired
	}

	id := args[0]

	v, _, ok := a.variantOf(id)
	if !ok {
		io.Warn("unknown node "+id, "run 'flowmap show' to list node ids")

		return nil
	}

	if v != a.variant() {
		io.Warn(fmt.Sprintf("node %s belongs to the %s diagram", id, v), "showing it from there")
	}

	_, session, err := a.session(ctx, v)
	if err != nil {
		return err
	}
	defer session.Close()

	n, _ := session.Diagram().Node(id)
	io.Printf("%s", render.New(io.Out()).NodeDetail(n))

	return nil
}
