package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/flowmap/internal/config"
	"github.com/calvinalkan/flowmap/internal/logging"
)

const (
	consumedNone = 0
	consumedOne  = 1
	consumedTwo  = 2
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. When it delivers a signal the running command's context
// is cancelled, which is how long-running commands (watch) stop.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) == 0 {
		args = []string{"flowmap"}
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printGlobalFlags(errOut)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		Overrides:       flags.overrides,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	log, err := logging.New(errOut, cfg.LogLevel, flags.verbose)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = log.Sync() }()

	a := newApp(cfg, env, log)
	defer a.close()

	commands := a.commands()

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(out, commands)

		return 0
	}

	name := flags.remaining[0]

	var cmd *Command

	for _, c := range commands {
		if c.Name() == name {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		fprintln(errOut)
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(in, out, errOut), flags.remaining[1:])
}

// commands lists every command in help order.
func (a *app) commands() []*Command {
	return []*Command{
		showCmd(a),
		nodeCmd(a),
		noteCmd(a),
		statusCmd(a),
		moveCmd(a),
		editCmd(a),
		resetCmd(a),
		exportCmd(a),
		importCmd(a),
		watchCmd(a),
		glossaryCmd(a),
		printConfigCmd(a),
	}
}

type globalFlags struct {
	workDir    string
	configPath string
	verbose    bool
	overrides  config.Config
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// valueFlags are the global flags that take a value, mapped to where the
// value goes.
func valueFlags(flags *globalFlags) map[string]*string {
	return map[string]*string{
		"--config":    &flags.configPath,
		"--state-dir": &flags.overrides.StateDir,
		"--backend":   &flags.overrides.Backend,
		"--variant":   &flags.overrides.Variant,
	}
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok && after != "" {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if arg == "-v" || arg == "--verbose" {
		flags.verbose = true

		return consumedOne, nil
	}

	if arg == "-c" {
		arg = "--config"
	}

	for name, dst := range valueFlags(flags) {
		if arg == name {
			if idx+1 >= len(args) {
				return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
			}

			return consumedTwo, setValueFlag(name, args[idx+1], dst)
		}

		if after, ok := strings.CutPrefix(arg, name+"="); ok {
			return consumedOne, setValueFlag(name, after, dst)
		}
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func setValueFlag(name, value string, dst *string) error {
	if value == "" {
		if name == "--state-dir" {
			return config.ErrStateDirEmpty
		}

		return fmt.Errorf("%w: %s", ErrFlagRequiresArg, name)
	}

	*dst = value

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printGlobalFlags(w io.Writer) {
	fprintln(w, `Global flags:
  -C, --cwd <dir>            Run as if started in <dir>
  -c, --config <file>        Use specified config file
      --state-dir <dir>      Directory holding the annotation record
      --backend <kind>       Storage backend (file|sqlite)
      --variant <name>       Diagram variant (vanillasoft|hubspot)
  -v, --verbose              Log debug output to stderr
  -h, --help                 Show help`)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, `flowmap - annotate the VanillaSoft and HubSpot sales-process diagrams

Usage: flowmap [flags] <command> [args]`)
	fprintln(w)
	printGlobalFlags(w)
	fprintln(w)
	fprintln(w, "Commands:")

	width := usageWidth(commands)

	for _, c := range commands {
		fprintln(w, c.HelpLine(width))
	}
}
