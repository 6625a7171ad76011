// ABOUTME: Tests for the render cache covering hits, TTL expiry, pruning, and concurrent access.
// ABOUTME: A counting fake exporter stands in for graphviz.
package render

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeExporter counts invocations and returns fixed output.
type fakeExporter struct {
	calls  atomic.Int64
	output []byte
	err    error
}

func (f *fakeExporter) Export(ctx context.Context, dotText string, format string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func TestRenderCache_ReturnsCachedResult(t *testing.T) {
	exp := &fakeExporter{output: []byte("<svg/>")}
	cache := NewRenderCache(exp, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := cache.Export(ctx, "digraph A { a -> b }", "svg")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if string(data) != "<svg/>" {
			t.Errorf("call %d: got %q", i, data)
		}
	}
	if exp.calls.Load() != 1 {
		t.Errorf("expected 1 exporter call, got %d", exp.calls.Load())
	}
}

func TestRenderCache_CallersCannotCorruptEntries(t *testing.T) {
	exp := &fakeExporter{output: []byte("<svg/>")}
	cache := NewRenderCache(exp, time.Minute)
	ctx := context.Background()

	first, _ := cache.Export(ctx, "digraph A {}", "svg")
	first[0] = 'X'
	hit, _ := cache.Export(ctx, "digraph A {}", "svg")
	hit[1] = 'Y'

	again, err := cache.Export(ctx, "digraph A {}", "svg")
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != "<svg/>" {
		t.Errorf("cached entry was modified through a returned slice: %q", again)
	}
	if exp.calls.Load() != 1 {
		t.Errorf("expected 1 exporter call, got %d", exp.calls.Load())
	}
}

func TestRenderCache_KeyIncludesFormatAndText(t *testing.T) {
	exp := &fakeExporter{output: []byte("x")}
	cache := NewRenderCache(exp, time.Minute)
	ctx := context.Background()

	cache.Export(ctx, "digraph A {}", "svg")
	cache.Export(ctx, "digraph A {}", "png")
	cache.Export(ctx, "digraph B {}", "svg")

	if exp.calls.Load() != 3 {
		t.Errorf("expected 3 exporter calls, got %d", exp.calls.Load())
	}
	if cache.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", cache.Len())
	}
}

func TestRenderCache_Expiry(t *testing.T) {
	exp := &fakeExporter{output: []byte("x")}
	cache := NewRenderCache(exp, 10*time.Millisecond)
	ctx := context.Background()

	cache.Export(ctx, "digraph A {}", "svg")
	time.Sleep(20 * time.Millisecond)
	cache.Export(ctx, "digraph A {}", "svg")

	if exp.calls.Load() != 2 {
		t.Errorf("expected re-render after TTL, got %d calls", exp.calls.Load())
	}
}

func TestRenderCache_Prune(t *testing.T) {
	cache := NewRenderCache(&fakeExporter{output: []byte("x")}, 10*time.Millisecond)
	cache.Export(context.Background(), "digraph A {}", "svg")
	time.Sleep(20 * time.Millisecond)

	if n := cache.Prune(); n != 1 {
		t.Errorf("expected 1 pruned entry, got %d", n)
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d", cache.Len())
	}
}

func TestRenderCache_ErrorsNotCached(t *testing.T) {
	exp := &fakeExporter{err: errors.New("boom")}
	cache := NewRenderCache(exp, time.Minute)

	if _, err := cache.Export(context.Background(), "digraph A {}", "svg"); err == nil {
		t.Fatal("expected error")
	}
	if cache.Len() != 0 {
		t.Errorf("errors must not be cached, got %d entries", cache.Len())
	}
}

func TestRenderCache_Clear(t *testing.T) {
	cache := NewRenderCache(&fakeExporter{output: []byte("x")}, time.Minute)
	cache.Export(context.Background(), "digraph A {}", "svg")
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", cache.Len())
	}
}

func TestRenderCache_OnLookup(t *testing.T) {
	cache := NewRenderCache(&fakeExporter{output: []byte("x")}, time.Minute)
	var hits, misses int
	cache.OnLookup = func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	}
	cache.Export(context.Background(), "digraph A {}", "svg")
	cache.Export(context.Background(), "digraph A {}", "svg")
	if hits != 1 || misses != 1 {
		t.Errorf("hits=%d misses=%d, want 1/1", hits, misses)
	}
}

func TestRenderCache_RenderFuncAdapter(t *testing.T) {
	var fn RenderFunc = func(ctx context.Context, dotText, format string) ([]byte, error) {
		return []byte(format), nil
	}
	data, err := NewRenderCache(fn, time.Minute).Export(context.Background(), "digraph A {}", "png")
	if err != nil || string(data) != "png" {
		t.Errorf("got %q, %v", data, err)
	}
}

func TestRenderCache_Concurrent(t *testing.T) {
	exp := &fakeExporter{output: []byte("x")}
	cache := NewRenderCache(exp, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			format := "svg"
			if i%2 == 0 {
				format = "png"
			}
			if _, err := cache.Export(context.Background(), "digraph A {}", format); err != nil {
				t.Errorf("export: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cache.Len())
	}
}
