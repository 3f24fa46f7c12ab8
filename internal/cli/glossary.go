package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/flowmap/internal/glossary"
	"github.com/calvinalkan/flowmap/internal/render"

	flag "github.com/spf13/pflag"
)

// glossaryCmd returns the glossary command.
func glossaryCmd(_ *app) *Command {
	flags := flag.NewFlagSet("glossary", flag.ContinueOnError)
	flagCategory := flags.String("category", "all", "Limit to one category (role|meeting-type|result-code|lead-type|other)")

	return &Command{
		Flags: flags,
		Usage: "glossary [search] [--category C]",
		Short: "Look up acronyms and terms",
		Examples: []string{
			"glossary dm --category role",
			"glossary sit",
		},
		Long: `List glossary terms grouped by category. The search text matches terms
and definitions case-insensitively.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			category, err := glossary.ParseCategory(*flagCategory)
			if err != nil {
				return err
			}

			entries := glossary.Filter(glossary.Entries(), strings.Join(args, " "), category)
			io.Printf("%s", render.New(io.Out()).Glossary(glossary.Group(entries)))

			return nil
		},
	}
}
