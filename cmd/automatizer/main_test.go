// ABOUTME: Tests for the automatizer CLI covering flag parsing, check mode, one-shot export, and server wiring.
// ABOUTME: Uses temp DOT files, a stub image exporter, and httptest against the wired server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// writeTempDOT creates a DOT file in a test temp dir and returns its path.
func writeTempDOT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.dot")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validDOT = `digraph Automaton {
  initial -> 0;
  0 -> 1 [label="a-z"];
  1 -> 1 [label="0-9"];
  1 [shape=doublecircle];
}`

const invalidDOT = `digraph Automaton {
  initial -> 0;
  initial -> 1;
  0 -> 1 [label="a"];
}`

type countingExporter struct {
	calls atomic.Int32
	err   error
}

func (c *countingExporter) Export(ctx context.Context, dotText, format string) ([]byte, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return []byte("<svg>" + format + "</svg>"), nil
}

// --- parseFlags tests ---

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags([]string{"machine.dot"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.serveMode || cfg.check || cfg.format != "" {
		t.Error("expected viewer mode by default")
	}
	if cfg.port != defaultPort {
		t.Errorf("expected default port=%d, got %d", defaultPort, cfg.port)
	}
	if cfg.cacheTTL != defaultCacheTTL || cfg.sessionTTL != defaultSessionTTL {
		t.Errorf("unexpected default TTLs %s %s", cfg.cacheTTL, cfg.sessionTTL)
	}
	if cfg.sourceFile != "machine.dot" {
		t.Errorf("expected sourceFile=machine.dot, got %q", cfg.sourceFile)
	}
	if len(cfg.setFlags) != 0 {
		t.Errorf("expected no explicit flags, got %v", cfg.setFlags)
	}
}

func TestParseFlagsAll(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-serve", "-port", "9000", "-cache-ttl", "30s", "-max-sessions", "5",
		"-minimize", "-show-regexp", "-format", "yaml", "-o", "out.yaml", "m.dot",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.serveMode || cfg.port != 9000 || cfg.cacheTTL != 30*time.Second || cfg.maxSessions != 5 {
		t.Errorf("unexpected server config %+v", cfg)
	}
	if !cfg.opts.Minimize || cfg.opts.Streaming || !cfg.opts.ShowRegexp {
		t.Errorf("unexpected options %+v", cfg.opts)
	}
	if cfg.format != "yaml" || cfg.output != "out.yaml" || cfg.sourceFile != "m.dot" {
		t.Errorf("unexpected export config %+v", cfg)
	}
	for _, name := range []string{"serve", "port", "cache-ttl", "minimize"} {
		if !cfg.setFlags[name] {
			t.Errorf("expected %s recorded as set", name)
		}
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	if _, err := parseFlags([]string{"-bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

// --- check mode ---

func TestRunCheckValid(t *testing.T) {
	cfg := config{sourceFile: writeTempDOT(t, validDOT)}
	var out bytes.Buffer
	if code := runCheck(cfg, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "ok, 2 states, 2 edges") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunCheckErrors(t *testing.T) {
	cfg := config{sourceFile: writeTempDOT(t, invalidDOT)}
	var out bytes.Buffer
	if code := runCheck(cfg, &out); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "error [initial_edge]") {
		t.Errorf("expected initial_edge diagnostic:\n%s", out.String())
	}
}

func TestRunCheckMissingFile(t *testing.T) {
	cfg := config{sourceFile: filepath.Join(t.TempDir(), "missing.dot")}
	if code := runCheck(cfg, io.Discard); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
}

// --- export mode ---

func TestRunExportToWriter(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"dot", "initial -> 0"},
		{"styled", "fillcolor"},
		{"yaml", "transitions:"},
		{"md", "| State | Initial | Accept |"},
		{"svg", "<svg>svg</svg>"},
		{"html", "<figure><svg>svg</svg></figure>"},
	}
	path := writeTempDOT(t, validDOT)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			cfg := config{sourceFile: path, format: tt.format}
			if code := runExport(context.Background(), cfg, &countingExporter{}, &out); code != 0 {
				t.Fatalf("expected exit 0, got %d", code)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestRunExportToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.dot")
	cfg := config{sourceFile: writeTempDOT(t, validDOT), format: "dot", output: dest}
	if code := runExport(context.Background(), cfg, &countingExporter{}, io.Discard); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph Automaton") {
		t.Errorf("unexpected file content:\n%s", data)
	}
}

func TestRunExportFailures(t *testing.T) {
	good := writeTempDOT(t, validDOT)
	tests := []struct {
		name     string
		cfg      config
		exporter *countingExporter
		want     int
	}{
		{"unknown format", config{sourceFile: good, format: "gif"}, &countingExporter{}, 2},
		{"bad source", config{sourceFile: writeTempDOT(t, `digraph A { 0 -> 1; }`), format: "dot"}, &countingExporter{}, 1},
		{"exporter fails", config{sourceFile: good, format: "png"}, &countingExporter{err: errors.New("no dot")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := runExport(context.Background(), tt.cfg, tt.exporter, io.Discard); code != tt.want {
				t.Errorf("expected exit %d, got %d", tt.want, code)
			}
		})
	}
}

func TestRunNoSourcePrintsHelp(t *testing.T) {
	if code := run(config{}); code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
}

// --- server wiring ---

func TestBuildServerCachesImages(t *testing.T) {
	exp := &countingExporter{}
	deps := buildServer(config{maxSessions: 10, sessionTTL: time.Hour, cacheTTL: time.Hour}, exp)
	defer deps.stop()

	ts := httptest.NewServer(deps.server)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/sessions", "text/vnd.graphviz", strings.NewReader(validDOT))
	if err != nil {
		t.Fatal(err)
	}
	var created struct {
		ID string `json:"id"`
	}
	err = json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d, err %v", resp.StatusCode, err)
	}
	if deps.store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", deps.store.Len())
	}

	for i := 0; i < 2; i++ {
		r, err := http.Get(ts.URL + "/sessions/" + created.ID + "/export?format=svg")
		if err != nil {
			t.Fatal(err)
		}
		r.Body.Close()
		if r.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", r.StatusCode)
		}
	}
	if exp.calls.Load() != 1 {
		t.Errorf("expected one render behind the cache, got %d", exp.calls.Load())
	}
	if deps.cache.Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", deps.cache.Len())
	}

	r, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(r.Body)
	r.Body.Close()
	if !strings.Contains(string(body), `automatizer_render_cache_lookups_total{result="hit"} 1`) {
		t.Errorf("expected cache hit metric:\n%s", body)
	}
}
