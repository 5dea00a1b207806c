package diagram

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/cache"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewRenderer(store, nil)
}

func TestRendererCachesFigures(t *testing.T) {
	ctx := context.Background()
	r := newTestRenderer(t)

	f, err := ByName("pipeline")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}

	data, err := r.Render(ctx, f, FormatDOT)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(data) != f.DOT {
		t.Error("first render should return the figure source")
	}

	key := r.Keyer.FigureKey(f.Name, string(FormatDOT))
	if _, hit, err := r.Cache.Get(ctx, key); err != nil || !hit {
		t.Fatalf("rendered figure was not cached: hit=%v err=%v", hit, err)
	}

	// Poison the cache entry so a hit is observable.
	if err := r.Cache.Set(ctx, key, []byte("cached"), cache.ArtifactTTL); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, err = r.Render(ctx, f, FormatDOT)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(data) != "cached" {
		t.Error("second render should come from the cache")
	}
}

func TestRendererRefreshSkipsCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRenderer(t)
	r.Refresh = true

	f, err := ByName("graph")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}

	key := r.Keyer.FigureKey(f.Name, string(FormatDOT))
	if err := r.Cache.Set(ctx, key, []byte("stale"), cache.ArtifactTTL); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := r.Render(ctx, f, FormatDOT)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(data) != f.DOT {
		t.Error("refresh should ignore the cached entry")
	}

	// The fresh render replaces the stale entry.
	if got, hit, err := r.Cache.Get(ctx, key); err != nil || !hit || string(got) != f.DOT {
		t.Errorf("refresh did not write back: hit=%v err=%v", hit, err)
	}
}

func TestRendererNilDependencies(t *testing.T) {
	r := NewRenderer(nil, nil)

	f, err := ByName("model")
	if err != nil {
		t.Fatalf("ByName failed: %v", err)
	}
	data, err := r.Render(context.Background(), f, FormatDOT)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(data) != f.DOT {
		t.Error("renderer without a cache should still render")
	}
}

func TestRendererRenderAll(t *testing.T) {
	r := newTestRenderer(t)
	dir := t.TempDir()

	paths, err := r.RenderAll(context.Background(), dir, FormatDOT)
	if err != nil {
		t.Fatalf("RenderAll failed: %v", err)
	}
	if len(paths) != len(Figures()) {
		t.Fatalf("wrote %d files, want %d", len(paths), len(Figures()))
	}

	first := filepath.Join(dir, "1_architecture.dot")
	if paths[0] != first {
		t.Errorf("first path = %s, want %s", paths[0], first)
	}
	if _, err := os.Stat(first); err != nil {
		t.Errorf("first figure not written: %v", err)
	}
}
