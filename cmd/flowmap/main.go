// Command flowmap annotates the VanillaSoft and HubSpot sales-process
// diagrams from the terminal. See "flowmap --help".
package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calvinalkan/flowmap/internal/cli"
)

func main() {
	os.Exit(run())
}

// run is main without os.Exit, so the signal handler is released before the
// process ends.
func run() int {
	// Interrupts cancel the running command; watch relies on this to stop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	defer signal.Stop(sigCh)

	return cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, environ(), sigCh)
}

// environ returns the process environment as a map; config lookups
// ($XDG_CONFIG_HOME, $HOME, $EDITOR) read it instead of os.Getenv.
func environ() map[string]string {
	env := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}
