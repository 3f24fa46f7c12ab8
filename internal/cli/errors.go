package cli

import "errors"

// Usage errors. Each one makes the command exit with code 1.
var (
	ErrFlagRequiresArg      = errors.New("flag requires an argument")
	ErrUnknownFlag          = errors.New("unknown flag")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrNodeIDRequired       = errors.New("node ID is required")
	ErrNoteRequired         = errors.New("note ID or number is required")
	ErrNoteTextRequired     = errors.New("note text is required")
	ErrStatusRequired       = errors.New("status is required (confirmed|pending|open-question)")
	ErrCoordinatesRequired  = errors.New("x and y coordinates are required")
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrUnknownSubcommand    = errors.New("unknown subcommand (must be add|edit|rm)")
	ErrImportFileRequired   = errors.New("import file is required")
	ErrConfirmationRequired = errors.New("reset needs confirmation (pass --yes)")
	ErrOutputModesExclusive = errors.New("--output and --auto-name are mutually exclusive")
	ErrRenderNeedsMarkdown  = errors.New("--render only applies to markdown written to stdout")
	ErrNoEditorFound        = errors.New("no editor found (set config.editor, $EDITOR, or install vi/nano)")
	ErrEditorFailed         = errors.New("editor failed")
)
