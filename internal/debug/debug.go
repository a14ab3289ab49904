// Package debug provides process-wide diagnostic logging that can be silenced
// when a transport (stdio MCP, a daemon socket) needs a clean byte stream.
package debug

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	output io.Writer // nil means discard
	silent bool
)

// SetOutput redirects debug output. Pass nil to discard.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetSilent suppresses all debug output regardless of the configured writer.
// The mcp command in cmd/tldrs calls this before wiring up the MCP server
// so that diagnostic prints never interleave with protocol frames.
func SetSilent(s bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = s
}

// Printf writes a timestamped debug line if output is configured and not silenced.
func Printf(format string, args ...any) {
	mu.Lock()
	w, s := output, silent
	mu.Unlock()
	if w == nil || s {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]any{ts}, args...)...)
}
