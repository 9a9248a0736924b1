// ABOUTME: Entry point for the memos-mcp server and operator CLI.
// ABOUTME: Initializes and executes the root command.

package main

import (
	"fmt"
	"os"

	"github.com/harper/memos-mcp/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
