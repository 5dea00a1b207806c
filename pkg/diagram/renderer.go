package diagram

import (
	"context"
	"os"
	"path/filepath"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/cache"
	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/observability"
)

// Renderer renders figures with artifact caching. Figure sources are
// static, so a cached render stays valid until its TTL expires.
type Renderer struct {
	Cache cache.Cache
	Keyer cache.Keyer

	// Refresh skips cache reads and re-renders, still writing the fresh
	// result back.
	Refresh bool
}

// NewRenderer creates a renderer. A nil keyer falls back to the default
// keyer, a nil cache disables caching.
func NewRenderer(c cache.Cache, keyer cache.Keyer) *Renderer {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Renderer{Cache: c, Keyer: keyer}
}

// Render returns the figure in the given format, from cache when possible.
func (r *Renderer) Render(ctx context.Context, f Figure, format Format) ([]byte, error) {
	key := r.Keyer.FigureKey(f.Name, string(format))

	if !r.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "figure")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "figure")
	}

	data, err := Render(ctx, f, format)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "figure", len(data))
	}
	return data, nil
}

// RenderAll renders every figure to dir as "<n>_<name>.<format>" files,
// numbered in publication order, and returns the written paths.
func (r *Renderer) RenderAll(ctx context.Context, dir string, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to create figure directory")
	}

	figures := Figures()
	paths := make([]string, 0, len(figures))
	for i, f := range figures {
		data, err := r.Render(ctx, f, format)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, figureFileName(i, f, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "failed to write figure %s", f.Name)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
