// ABOUTME: Usage text for the automatizer CLI with grouped flags, examples, and environment status.
// ABOUTME: Lists the export formats from the viewer and reports env and graphviz status.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2389-research/automatizer/viewer"
)

// printHelp writes the usage message to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "automatizer %s: view, check, and export finite automata written as DOT\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  automatizer <machine.dot>                 Open the live terminal viewer")
	fmt.Fprintln(w, "  automatizer -check <machine.dot>          Lint and parse, exit 1 on errors")
	fmt.Fprintln(w, "  automatizer -format svg <machine.dot>     Export once and exit")
	fmt.Fprintln(w, "  automatizer -serve [-port 2390]           Start the HTTP viewer API")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "View Flags:")
	fmt.Fprintln(w, "  -minimize             Show the minimized DFA instead of the NFA")
	fmt.Fprintln(w, "  -streaming            Build in streaming mode")
	fmt.Fprintln(w, "  -show-regexp          Show the equivalent regular expression")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Export Flags:")
	fmt.Fprintf(w, "  -format <fmt>         %s\n", strings.Join(viewer.ExportFormats(), ", "))
	fmt.Fprintln(w, "  -o <file>             Write the export to file instead of stdout")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -serve                Start HTTP server mode")
	fmt.Fprintf(w, "  -port <port>          Server port (default: %d)\n", defaultPort)
	fmt.Fprintln(w, "  -cache-ttl <dur>      Image render cache lifetime (default: 10m)")
	fmt.Fprintln(w, "  -session-ttl <dur>    Idle session lifetime (default: 1h)")
	fmt.Fprintln(w, "  -max-sessions <n>     Sessions kept before evicting the oldest (default: 100)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -config <file>        YAML config (default: $XDG_CONFIG_HOME/automatizer/config.yaml)")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  automatizer examples/identifier.dot")
	fmt.Fprintln(w, "  automatizer -format png -o identifier.png examples/identifier.dot")
	fmt.Fprintln(w, "  automatizer -serve -port 8080")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %-21s %s\n", envPort, envStatus(envPort))
	fmt.Fprintf(w, "  %-21s %s\n", envCacheTTL, envStatus(envCacheTTL))
	fmt.Fprintf(w, "  %-21s %s\n", "graphviz (dot)", graphvizStatus())
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
