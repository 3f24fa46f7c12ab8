package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/calvinalkan/flowmap/internal/annotation"
	"github.com/calvinalkan/flowmap/internal/flow"

	flag "github.com/spf13/pflag"
)

// noteCmd returns the note command.
func noteCmd(a *app) *Command {
	flags := flag.NewFlagSet("note", flag.ContinueOnError)
	flagTags := flags.StringArrayP("tag", "t", nil, "Tag the note (repeatable)")
	flagClearTags := flags.Bool("clear-tags", false, "Remove every tag (edit only)")

	return &Command{
		Flags: flags,
		Usage: "note <add|edit|rm> <node> ...",
		Short: "Add, edit or delete a node note",
		Examples: []string{
			`note add vs-queue "Check with BDC team" --tag "BDC Team"`,
			"note edit vs-queue 1 --clear-tags",
			"note rm vs-queue 1",
		},
		Long: `Manage the notes of a content node.

  note add <node> <text> [--tag T]...     Append a note
  note edit <node> <note> [text]          Replace the text of a note
  note rm <node> <note>                   Delete a note

<note> is a note ID or its number as listed by 'flowmap node <id>'.
Editing without text or tag flags opens the note in $EDITOR.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return ErrUnknownSubcommand
			}

			switch args[0] {
			case "add":
				return execNoteAdd(ctx, io, a, args[1:], *flagTags)
			case "edit":
				update := annotation.NoteUpdate{}
				if flags.Changed("tag") {
					update.Tags, update.TagsSet = *flagTags, true
				}

				if *flagClearTags {
					update.Tags, update.TagsSet = nil, true
				}

				return execNoteEdit(ctx, io, a, args[1:], update)
			case "rm", "delete":
				return execNoteRm(ctx, io, a, args[1:])
			default:
				return fmt.Errorf("%w: %s", ErrUnknownSubcommand, args[0])
			}
		},
	}
}

func execNoteAdd(ctx context.Context, io *IO, a *app, args []string, tags []string) error {
	if len(args) == 0 {
		return ErrNodeIDRequired
	}

	if len(args) < 2 {
		return ErrNoteTextRequired
	}

	node, text := args[0], strings.Join(args[1:], " ")

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		io.Warn("empty note ignored", "provide some note text")

		return nil
	}

	note, ok := store.AddNote(ctx, node, text, tags)
	if !ok {
		a.explainIgnored(io, node, "note")

		return nil
	}

	io.Printf("added note %s to %s\n", note.ID, node)

	return nil
}

func execNoteEdit(ctx context.Context, io *IO, a *app, args []string, update annotation.NoteUpdate) error {
	if len(args) == 0 {
		return ErrNodeIDRequired
	}

	if len(args) < 2 {
		return ErrNoteRequired
	}

	node, ref := args[0], args[1]

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	note, ok := lookupNote(io, a, store, node, ref)
	if !ok {
		return nil
	}

	if len(args) > 2 {
		text := strings.Join(args[2:], " ")
		update.Content = &text
	}

	if update.Content == nil && !update.TagsSet {
		text, editErr := editText(ctx, a.cfg, a.env, note.Content)
		if editErr != nil {
			return editErr
		}

		update.Content = &text
	}

	if !store.UpdateNote(ctx, node, note.ID, update) {
		io.Warn("note "+note.ID+" unchanged", "note text cannot be blank")

		return nil
	}

	io.Printf("updated note %s on %s\n", note.ID, node)

	return nil
}

func execNoteRm(ctx context.Context, io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrNodeIDRequired
	}

	if len(args) < 2 {
		return ErrNoteRequired
	}

	node, ref := args[0], args[1]

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	note, ok := lookupNote(io, a, store, node, ref)
	if !ok {
		return nil
	}

	store.DeleteNote(ctx, node, note.ID)
	io.Printf("deleted note %s from %s\n", note.ID, node)

	return nil
}

// lookupNote resolves ref among the notes of node, warning when either is
// unknown.
func lookupNote(io *IO, a *app, store *annotation.Store, node, ref string) (flow.NodeNote, bool) {
	if !a.collection.Catalog().Annotatable(node) {
		a.explainIgnored(io, node, "note")

		return flow.NodeNote{}, false
	}

	note, ok := resolveNote(store.Notes(node), ref)
	if !ok {
		io.Warn("no note "+ref+" on "+node, "run 'flowmap node "+node+"' to list its notes")

		return flow.NodeNote{}, false
	}

	return note, true
}
