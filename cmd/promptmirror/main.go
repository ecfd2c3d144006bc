// Prompt Mirror: a prompt clarity analyzer.
//
// It scores a prompt written for a language model against an
// eight-section rubric, flags ambiguous phrasing and proposes a
// restructured rewrite.
//
// Usage:
//
//	promptmirror analyze "write something good"   # Report on a prompt
//	promptmirror rewrite < prompt.txt              # Rewrite only
//	promptmirror serve                             # MCP server (stdio)
//	promptmirror http                              # HTTP API
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}
