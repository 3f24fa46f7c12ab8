package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// prompter reads one command line at a time. Prompt returns io.EOF when
// input ends or the user aborts.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// newPrompter returns a readline-style prompter when in is a terminal and a
// plain line reader otherwise (pipes, tests).
func newPrompter(in io.Reader, historyPath string, complete func(string) []string) prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return newLinerPrompter(historyPath, complete)
	}

	if in == nil {
		in = eofReader{}
	}

	return &scanPrompter{scanner: bufio.NewScanner(in)}
}

type linerPrompter struct {
	state       *liner.State
	historyPath string
}

func newLinerPrompter(historyPath string, complete func(string) []string) *linerPrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(complete)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linerPrompter{state: state, historyPath: historyPath}
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	return line, err
}

func (p *linerPrompter) AppendHistory(line string) {
	p.state.AppendHistory(line)
}

// Close saves the history and restores the terminal.
func (p *linerPrompter) Close() error {
	var saveErr error

	if p.historyPath != "" {
		saveErr = p.saveHistory()
	}

	return errors.Join(saveErr, p.state.Close())
}

func (p *linerPrompter) saveHistory() error {
	err := os.MkdirAll(filepath.Dir(p.historyPath), 0o750)
	if err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	f, err := os.Create(p.historyPath)
	if err != nil {
		return fmt.Errorf("saving history: %w", err)
	}

	_, err = p.state.WriteHistory(f)

	return errors.Join(err, f.Close())
}

type scanPrompter struct {
	scanner *bufio.Scanner
}

func (p *scanPrompter) Prompt(string) (string, error) {
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}

	if err := p.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*scanPrompter) AppendHistory(string) {}

func (*scanPrompter) Close() error { return nil }

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
