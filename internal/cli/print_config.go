package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/flowmap/internal/config"

	flag "github.com/spf13/pflag"
)

// printConfigCmd returns the print-config command.
func printConfigCmd(a *app) *Command {
	fs := flag.NewFlagSet("print-config", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print the merged settings as a config file")

	return &Command{
		Flags: fs,
		Usage: "print-config [--json]",
		Short: "Show resolved configuration",
		Long: `Display the effective configuration and which files it was loaded from.
With --json, print the merged settings in the form a .flowmap.json accepts.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			if *asJSON {
				out, err := config.Format(a.cfg)
				if err != nil {
					return err
				}

				io.Println(out)

				return nil
			}

			execPrintConfig(io, a.cfg)

			return nil
		},
	}
}

func execPrintConfig(io *IO, cfg config.Config) {
	settings := []struct{ key, value string }{
		{"effective_cwd", cfg.EffectiveCwd},
		{"state_dir", cfg.StateDirAbs},
		{"backend", cfg.Backend},
		{"variant", cfg.Variant},
		{"log_level", cfg.LogLevel},
		{"editor", cfg.Editor},
		{"tags", strings.Join(cfg.Tags, ",")},
	}

	for _, s := range settings {
		if s.value != "" {
			io.Println(s.key + "=" + s.value)
		}
	}

	io.Println("")
	io.Println("# sources")

	switch {
	case cfg.Sources.Global == "" && cfg.Sources.Project == "":
		io.Println("(defaults only)")
	default:
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}
}
