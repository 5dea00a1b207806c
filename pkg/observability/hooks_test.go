package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingPipelineHooks struct {
	NoopPipelineHooks
	stages int
}

func (h *countingPipelineHooks) OnStageStart(context.Context, string) {
	h.stages++
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.hits++
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	var p NoopPipelineHooks
	p.OnStageStart(ctx, "load")
	p.OnStageComplete(ctx, "load", time.Second, errors.New("boom"))
	p.OnFlightsLoaded(ctx, "flights.csv.gz", 42)
	p.OnDocumentBuilt(ctx, 10, 20, true)

	var c NoopCacheHooks
	c.OnCacheHit(ctx, "routes")
	c.OnCacheMiss(ctx, "export")
	c.OnCacheSet(ctx, "figure", 128)
}

func TestHooksRegistryDefaults(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("default pipeline hooks = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("default cache hooks = %T, want NoopCacheHooks", Cache())
	}
}

func TestSetAndResetHooks(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	p := &countingPipelineHooks{}
	c := &countingCacheHooks{}
	SetPipelineHooks(p)
	SetCacheHooks(c)

	Pipeline().OnStageStart(ctx, "export")
	Pipeline().OnStageStart(ctx, "load")
	Cache().OnCacheHit(ctx, "export")

	if p.stages != 2 {
		t.Errorf("stage starts = %d, want 2", p.stages)
	}
	if c.hits != 1 {
		t.Errorf("cache hits = %d, want 1", c.hits)
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore the noop pipeline hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore the noop cache hooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	t.Cleanup(Reset)

	p := &countingPipelineHooks{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)
	if Pipeline() != p {
		t.Error("nil pipeline hooks should not replace the registered ones")
	}

	c := &countingCacheHooks{}
	SetCacheHooks(c)
	SetCacheHooks(nil)
	if Cache() != c {
		t.Error("nil cache hooks should not replace the registered ones")
	}
}
