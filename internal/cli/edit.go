package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/assemble"
	"github.com/calvinalkan/flowmap/internal/flow"
	"github.com/calvinalkan/flowmap/internal/render"

	flag "github.com/spf13/pflag"
)

// historyFileName is the editor's line history, kept in the state directory.
const historyFileName = "history"

const editHelp = `Commands:
  show                 Show the node and its notes
  status <status|1-3>  Set status (1 confirmed, 2 pending, 3 open-question)
  tags                 List tags, marking those selected for the next note
  tag <name>           Toggle a tag for the next note
  add <text>           Add a note with the selected tags
  edit <n> <text>      Replace the text of note n
  retag <n>            Replace the tags of note n with the selected tags
  rm <n>               Delete note n
  move <x> <y>         Override the node position
  help                 Show this help
  quit                 Leave the editor`

// editCmd returns the interactive edit command.
func editCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("edit", flag.ContinueOnError),
		Usage: "edit <node>",
		Short: "Annotate a node interactively",
		Examples: []string{
			"edit vs-queue",
		},
		Long: `Open an interactive editor for one content node: pick a status, list,
edit and delete notes, and compose new notes with tags.

` + editHelp,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execEdit(ctx, io, a, args)
		},
	}
}

func execEdit(ctx context.Context, io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrNodeIDRequired
	}

	node := args[0]

	v, _, ok := a.variantOf(node)
	if !ok || !a.collection.Catalog().Annotatable(node) {
		a.explainIgnored(io, node, "edit")

		return nil
	}

	store, session, err := a.session(ctx, v)
	if err != nil {
		return err
	}
	defer session.Close()

	ed := &annotator{
		io:       io,
		store:    store,
		session:  session,
		node:     node,
		vocab:    tagVocabulary(a.cfg.Tags),
		renderer: render.New(io.Out()),
	}

	p := newPrompter(io.In(), filepath.Join(a.cfg.StateDirAbs, historyFileName), ed.complete)

	defer func() {
		if closeErr := p.Close(); closeErr != nil {
			a.log.Warn("failed to close prompt", zap.Error(closeErr))
		}
	}()

	return ed.run(ctx, p)
}

// tagVocabulary is the fixed suggestion list followed by configured extras.
func tagVocabulary(extra []string) []string {
	vocab := flow.SuggestedTags()

	for _, t := range extra {
		if !slices.ContainsFunc(vocab, func(v string) bool { return strings.EqualFold(v, t) }) {
			vocab = append(vocab, t)
		}
	}

	return vocab
}

// annotator is the state of one interactive editing session.
type annotator struct {
	io       *IO
	store    *annotation.Store
	session  *assemble.Session
	node     string
	vocab    []string
	selected []string
	renderer *render.Renderer
}

func (e *annotator) run(ctx context.Context, p prompter) error {
	e.show()
	e.io.Println("Type 'help' for available commands.")

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := p.Prompt(e.node + "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p.AppendHistory(line)

		if e.handle(ctx, line) {
			return nil
		}
	}
}

// handle executes one command line. Returns true when the user quits.
func (e *annotator) handle(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		e.io.Println(editHelp)
	case "show", "list", "ls":
		e.show()
	case "status":
		e.setStatus(ctx, rest)
	case "tags":
		e.listTags()
	case "tag":
		e.toggleTag(rest)
	case "add":
		e.addNote(ctx, rest)
	case "edit":
		e.editNote(ctx, rest)
	case "retag":
		e.retagNote(ctx, rest)
	case "rm", "delete":
		e.deleteNote(ctx, rest)
	case "move":
		e.move(ctx, rest)
	default:
		e.io.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return false
}

func (e *annotator) show() {
	n, ok := e.session.Diagram().Node(e.node)
	if !ok {
		return
	}

	e.io.Printf("%s", e.renderer.NodeDetail(n))
}

func (e *annotator) setStatus(ctx context.Context, arg string) {
	status, err := flow.ParseStatus(arg)
	if err != nil {
		idx, convErr := strconv.Atoi(arg)
		if convErr != nil || idx < 1 || idx > len(flow.Statuses()) {
			e.io.Println(flow.ErrInvalidStatus.Error())

			return
		}

		status = flow.Statuses()[idx-1]
	}

	e.store.SetStatus(ctx, e.node, status)
	e.io.Println("status:", e.renderer.StatusLabel(status))
}

func (e *annotator) listTags() {
	for _, t := range e.vocab {
		mark := " "
		if slices.Contains(e.selected, t) {
			mark = "x"
		}

		e.io.Printf("  [%s] %s\n", mark, t)
	}
}

func (e *annotator) toggleTag(name string) {
	if name == "" {
		e.io.Println("usage: tag <name>")

		return
	}

	if i := slices.IndexFunc(e.vocab, func(v string) bool { return strings.EqualFold(v, name) }); i >= 0 {
		name = e.vocab[i]
	}

	if i := slices.Index(e.selected, name); i >= 0 {
		e.selected = slices.Delete(e.selected, i, i+1)
		e.io.Println("tag off:", name)

		return
	}

	e.selected = append(e.selected, name)
	e.io.Println("tag on:", name)
}

func (e *annotator) addNote(ctx context.Context, text string) {
	note, ok := e.store.AddNote(ctx, e.node, text, e.selected)
	if !ok {
		e.io.Println("nothing to add: note text is empty")

		return
	}

	e.selected = nil
	e.io.Printf("added note %d (%s)\n", len(e.store.Notes(e.node)), note.ID)
}

// noteArg splits "<n> rest" and resolves n among the node's notes.
func (e *annotator) noteArg(arg string) (flow.NodeNote, string, bool) {
	ref, rest, _ := strings.Cut(arg, " ")
	if ref == "" {
		e.io.Println("usage: a note number or ID is required")

		return flow.NodeNote{}, "", false
	}

	note, ok := resolveNote(e.store.Notes(e.node), ref)
	if !ok {
		e.io.Println("no note", ref)

		return flow.NodeNote{}, "", false
	}

	return note, strings.TrimSpace(rest), true
}

func (e *annotator) editNote(ctx context.Context, arg string) {
	note, text, ok := e.noteArg(arg)
	if !ok {
		return
	}

	if !e.store.UpdateNote(ctx, e.node, note.ID, annotation.NoteUpdate{Content: &text}) {
		e.io.Println("note unchanged: text cannot be blank")

		return
	}

	e.io.Println("updated note", note.ID)
}

func (e *annotator) retagNote(ctx context.Context, arg string) {
	note, _, ok := e.noteArg(arg)
	if !ok {
		return
	}

	e.store.UpdateNote(ctx, e.node, note.ID, annotation.NoteUpdate{Tags: e.selected, TagsSet: true})
	e.selected = nil
	e.io.Println("retagged note", note.ID)
}

func (e *annotator) deleteNote(ctx context.Context, arg string) {
	note, _, ok := e.noteArg(arg)
	if !ok {
		return
	}

	e.store.DeleteNote(ctx, e.node, note.ID)
	e.io.Println("deleted note", note.ID)
}

func (e *annotator) move(ctx context.Context, arg string) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		e.io.Println("usage: move <x> <y>")

		return
	}

	x, errX := strconv.ParseFloat(fields[0], 64)
	y, errY := strconv.ParseFloat(fields[1], 64)

	if errX != nil || errY != nil {
		e.io.Println("invalid coordinates:", arg)

		return
	}

	e.store.SetPosition(ctx, e.node, flow.Position{X: x, Y: y})
	e.io.Printf("moved to %g, %g\n", x, y)
}

// complete offers command names, then statuses or tags for their commands.
func (e *annotator) complete(line string) []string {
	commands := []string{"show", "status", "tags", "tag", "add", "edit", "retag", "rm", "move", "help", "quit"}

	cmd, rest, hasArg := strings.Cut(line, " ")
	if !hasArg {
		return prefixed(commands, "", line)
	}

	switch cmd {
	case "status":
		statuses := make([]string, 0, len(flow.Statuses()))
		for _, s := range flow.Statuses() {
			statuses = append(statuses, string(s))
		}

		return prefixed(statuses, cmd+" ", rest)
	case "tag":
		return prefixed(e.vocab, cmd+" ", rest)
	default:
		return nil
	}
}

func prefixed(candidates []string, lead, partial string) []string {
	var out []string

	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(partial)) {
			out = append(out, lead+c)
		}
	}

	return out
}
