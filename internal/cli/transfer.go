package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/flowmap/internal/dataset"
	"github.com/calvinalkan/flowmap/internal/export"

	flag "github.com/spf13/pflag"
)

// exportCmd returns the export command.
func exportCmd(a *app) *Command {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flagFormat := flags.StringP("format", "f", "json", "Output format (json|md|yaml)")
	flagOutput := flags.StringP("output", "o", "", "Write to `file` instead of stdout")
	flagAutoName := flags.Bool("auto-name", false, "Write to hubspot-flow-<variant>-<date>.<ext> in the working directory")
	flagRender := flags.Bool("render", false, "Render markdown for the terminal")
	flagWidth := flags.Int("width", export.DefaultWrap, "Word-wrap width for --render")

	return &Command{
		Flags: flags,
		Usage: "export [--format F] [-o file|--auto-name]",
		Short: "Export the annotated diagram",
		Examples: []string{
			"export --format md --render",
			"export -f yaml --auto-name",
		},
		Long: `Export the selected variant's content nodes together with all notes and
status overrides as JSON, Markdown or YAML.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execExport(ctx, io, a, exportOptions{
				format:   *flagFormat,
				output:   *flagOutput,
				autoName: *flagAutoName,
				render:   *flagRender,
				width:    *flagWidth,
			})
		},
	}
}

type exportOptions struct {
	format   string
	output   string
	autoName bool
	render   bool
	width    int
}

func execExport(ctx context.Context, io *IO, a *app, opts exportOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	if opts.output != "" && opts.autoName {
		return ErrOutputModesExclusive
	}

	toFile := opts.output != "" || opts.autoName
	if opts.render && (format != export.FormatMarkdown || toFile) {
		return ErrRenderNeedsMarkdown
	}

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	v := a.variant()

	ds, err := a.collection.For(v)
	if err != nil {
		return err
	}

	at := a.now()

	data, err := export.Encode(export.Build(ds, store.Snapshot(), at), format)
	if err != nil {
		return err
	}

	if !toFile {
		if !opts.render {
			io.Printf("%s", data)

			return nil
		}

		out, renderErr := export.RenderTerminal(string(data), "", opts.width)
		if renderErr != nil {
			return renderErr
		}

		io.Printf("%s", out)

		return nil
	}

	path := opts.output
	if opts.autoName {
		path = export.FileName(v, format, at)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.EffectiveCwd, path)
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	io.Printf("exported %s to %s\n", v, path)

	return nil
}

// importCmd returns the import command.
func importCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("import", flag.ContinueOnError),
		Usage: "import <file>",
		Short: "Replace annotations from a file",
		Examples: []string{
			"import hubspot-flow-vanillasoft-2026-03-14.json",
		},
		Long: `Replace all notes and status overrides with those in <file>, which is
either a JSON export or a raw annotation record. Position overrides are
taken from a raw record and kept as they are for an export.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execImport(ctx, io, a, args)
		},
	}
}

func execImport(ctx context.Context, io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrImportFileRequired
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.EffectiveCwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	st, src, dropped, err := export.Parse(data, dataset.LayoutVersion)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if len(dropped) > 0 {
		io.Warn(fmt.Sprintf("skipped %d malformed entries (%s)", len(dropped), strings.Join(dropped, ", ")), "fix them in the file and import again")
	}

	store, err := a.open(ctx)
	if err != nil {
		return err
	}

	if src == export.SourceDocument {
		st.Positions = store.Snapshot().Positions
	}

	st = store.Import(ctx, st)

	io.Printf("imported %d notes and %d statuses from %s\n", st.NoteCount(), len(st.Statuses), args[0])

	return nil
}
