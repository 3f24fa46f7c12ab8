package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/calvinalkan/flowmap/internal/config"
)

// resolveEditor checks for an available editor using the env map.
// Priority: config.Editor -> $EDITOR -> zed -> vi -> nano -> error.
func resolveEditor(cfg config.Config, env map[string]string) (string, error) {
	// 1. Check config.Editor
	if cfg.Editor != "" {
		_, lookErr := exec.LookPath(cfg.Editor)
		if lookErr == nil {
			return cfg.Editor, nil
		}
	}

	// 2. Check $EDITOR from env map
	if editor := env["EDITOR"]; editor != "" {
		_, lookErr := exec.LookPath(editor)
		if lookErr == nil {
			return editor, nil
		}
	}

	// 3. Fall back to whatever is installed
	for _, candidate := range []string{"zed", "vi", "nano"} {
		_, lookErr := exec.LookPath(candidate)
		if lookErr == nil {
			return candidate, nil
		}
	}

	return "", ErrNoEditorFound
}

func runEditor(ctx context.Context, editor, path string) error {
	// zed needs -n to open a new window and block until it closes
	var cmd *exec.Cmd

	if filepath.Base(editor) == "zed" {
		cmd = exec.CommandContext(ctx, editor, "-n", path)
	} else {
		cmd = exec.CommandContext(ctx, editor, path)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", ErrEditorFailed, editor, exitErr.ExitCode())
		}

		return fmt.Errorf("%w: %w", ErrEditorFailed, runErr)
	}

	return nil
}

// editText opens text in the user's editor and returns what was saved.
func editText(ctx context.Context, cfg config.Config, env map[string]string, text string) (string, error) {
	editor, err := resolveEditor(cfg, env)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "flowmap-note-*.md")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	_, err = f.WriteString(text)

	closeErr := f.Close()
	if err = errors.Join(err, closeErr); err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	err = runEditor(ctx, editor, path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited note: %w", err)
	}

	return string(data), nil
}
