// ABOUTME: CLI entrypoint for automatizer with live terminal viewer, one-shot export, check, and server modes.
// ABOUTME: Wires the viewer session, render cache, metrics, and signal handling together.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/codec"
	"github.com/2389-research/automatizer/dot/validator"
	"github.com/2389-research/automatizer/render"
	"github.com/2389-research/automatizer/tui"
	"github.com/2389-research/automatizer/viewer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

var version = "dev"

// Defaults applied before the config file and environment.
const (
	defaultPort        = 2390
	defaultCacheTTL    = 10 * time.Minute
	defaultSessionTTL  = time.Hour
	defaultMaxSessions = 100
	cleanupInterval    = time.Minute
)

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	serveMode   bool
	port        int
	check       bool
	format      string
	output      string
	configPath  string
	cacheTTL    time.Duration
	sessionTTL  time.Duration
	maxSessions int
	opts        viewer.Options
	showVersion bool
	sourceFile  string

	// setFlags records which flags appeared on the command line.
	setFlags map[string]bool
}

func main() {
	loadDotEnv(".env")

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("automatizer %s\n", version)
		os.Exit(0)
	}

	cfg, err = resolveConfig(cfg, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line arguments into a config.
func parseFlags(args []string) (config, error) {
	cfg := config{setFlags: map[string]bool{}}

	fs := flag.NewFlagSet("automatizer", flag.ContinueOnError)
	fs.BoolVar(&cfg.serveMode, "serve", false, "Start HTTP server mode")
	fs.IntVar(&cfg.port, "port", defaultPort, "Server port")
	fs.BoolVar(&cfg.check, "check", false, "Lint and parse the file, then exit")
	fs.StringVar(&cfg.format, "format", "", "Export format; exports once and exits")
	fs.StringVar(&cfg.output, "o", "", "Export output file (default: stdout)")
	fs.StringVar(&cfg.configPath, "config", "", "YAML config file")
	fs.DurationVar(&cfg.cacheTTL, "cache-ttl", defaultCacheTTL, "Image render cache lifetime")
	fs.DurationVar(&cfg.sessionTTL, "session-ttl", defaultSessionTTL, "Idle session lifetime")
	fs.IntVar(&cfg.maxSessions, "max-sessions", defaultMaxSessions, "Maximum live sessions")
	fs.BoolVar(&cfg.opts.Minimize, "minimize", false, "Show the minimized DFA")
	fs.BoolVar(&cfg.opts.Streaming, "streaming", false, "Build in streaming mode")
	fs.BoolVar(&cfg.opts.ShowRegexp, "show-regexp", false, "Show the equivalent regular expression")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.setFlags[f.Name] = true })

	if fs.NArg() > 0 {
		cfg.sourceFile = fs.Arg(0)
	}
	return cfg, nil
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure, 2 for bad usage.
func run(cfg config) int {
	if cfg.serveMode {
		return runServer(cfg)
	}

	if cfg.sourceFile == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	if cfg.check {
		return runCheck(cfg, os.Stdout)
	}

	if cfg.format != "" {
		ctx, cancel := signalContext()
		defer cancel()
		return runExport(ctx, cfg, render.Graphviz{}, os.Stdout)
	}

	return runTUI(cfg)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// runCheck lints the source file and confirms it builds. Diagnostics go to w.
func runCheck(cfg config, w io.Writer) int {
	source, err := os.ReadFile(cfg.sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	diags := validator.LintSource(string(source))
	for _, d := range diags {
		loc := ""
		switch {
		case d.NodeID != "":
			loc = " node=" + d.NodeID
		case d.EdgeID != "":
			loc = " edge=" + d.EdgeID
		}
		fmt.Fprintf(w, "%s: %s [%s]%s %s\n", cfg.sourceFile, d.Severity, d.Rule, loc, d.Message)
	}
	if validator.HasErrors(diags) {
		return 1
	}

	snap, err := viewer.Build(viewer.Passthrough{}, string(source), cfg.opts)
	if err != nil {
		fmt.Fprintf(w, "%s: error: %v\n", cfg.sourceFile, err)
		return 1
	}
	if err := checkRoundTrip(snap); err != nil {
		fmt.Fprintf(w, "%s: error: %v\n", cfg.sourceFile, err)
		return 1
	}
	fmt.Fprintf(w, "%s: ok, %d states, %d edges\n", cfg.sourceFile, len(snap.Model.Nodes), len(snap.Model.Edges))
	return 0
}

// checkRoundTrip serializes the built automaton and parses it back,
// failing when the two are not equivalent.
func checkRoundTrip(snap *viewer.Snapshot) error {
	res, err := codec.Parse(codec.SerializeWithEpsilons(snap.Automaton, snap.Epsilons))
	if err != nil {
		return fmt.Errorf("round trip: %w", err)
	}
	if !automaton.Equivalent(snap.Automaton, res.Automaton) {
		return errors.New("round trip: serialized automaton is not equivalent")
	}
	return nil
}

// runExport builds the source file once and writes it in cfg.format to
// cfg.output, or to w when no output file is given.
func runExport(ctx context.Context, cfg config, exporter render.ImageExporter, w io.Writer) int {
	if _, ok := viewer.ExportContentTypes[cfg.format]; !ok {
		fmt.Fprintf(os.Stderr, "error: unsupported format %q (supported: %v)\n", cfg.format, viewer.ExportFormats())
		return 2
	}

	source, err := os.ReadFile(cfg.sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	snap, err := viewer.Build(viewer.Passthrough{}, string(source), cfg.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	data, err := viewer.Export(ctx, exporter, snap, cfg.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.output == "" {
		if _, err := w.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(cfg.output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", cfg.output)
	return 0
}

// runTUI opens the live viewer on the source file.
func runTUI(cfg config) int {
	ctx, cancel := signalContext()
	defer cancel()

	// Log lines would tear the alternate screen.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	session := viewer.NewSession(uuid.NewString(), nil, cfg.opts)
	model := tui.NewAppModel(ctx, session, cfg.sourceFile, render.Graphviz{})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// serverDeps bundles what buildServer wires up so callers can stop the
// background loops.
type serverDeps struct {
	server *viewer.Server
	store  *viewer.Store
	cache  *render.RenderCache
	stop   func()
}

// buildServer wires the session store, render cache, and metrics into a
// viewer server and starts the cleanup loops.
func buildServer(cfg config, exporter render.ImageExporter) serverDeps {
	store := viewer.NewStore(cfg.maxSessions, cfg.sessionTTL, nil)
	metrics := viewer.NewMetrics(store)

	cache := render.NewRenderCache(exporter, cfg.cacheTTL)
	cache.OnLookup = metrics.ObserveCacheLookup

	stopSessions := store.StartCleanup(cleanupInterval)
	ticker := time.NewTicker(cleanupInterval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if n := cache.Prune(); n > 0 {
					log.Printf("component=cli action=prune_cache removed=%d", n)
				}
			case <-done:
				return
			}
		}
	}()

	return serverDeps{
		server: viewer.NewServer(store, viewer.WithExporter(cache), viewer.WithMetrics(metrics)),
		store:  store,
		cache:  cache,
		stop: func() {
			ticker.Stop()
			close(done)
			stopSessions()
		},
	}
}

// runServer starts the HTTP viewer API and blocks until interrupted.
func runServer(cfg config) int {
	deps := buildServer(cfg, render.Graphviz{})
	defer deps.stop()

	if !render.GraphvizAvailable() {
		fmt.Fprintln(os.Stderr, "warning: graphviz dot not found, svg and png exports will fail")
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.port)

	ctx, cancel := signalContext()
	defer cancel()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           deps.server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("component=cli action=listen addr=%s cache_ttl=%s session_ttl=%s", addr, cfg.cacheTTL, cfg.sessionTTL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// graphvizStatus reports whether the dot command is installed.
func graphvizStatus() string {
	if render.GraphvizAvailable() {
		return "[found]"
	}
	return "[not found]"
}
