package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingStoreHooks struct {
	loads, saves int
	lastErr      error
}

func (h *recordingStoreHooks) OnLoad(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.loads++
	h.lastErr = err
}

func (h *recordingStoreHooks) OnSave(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.saves++
	h.lastErr = err
}

type recordingHTTPHooks struct {
	routes []string
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, _, route string, _ int, _ time.Duration) {
	h.routes = append(h.routes, route)
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	NoopStoreHooks{}.OnLoad(ctx, "gridLayoutState", 3, time.Millisecond, nil)
	NoopStoreHooks{}.OnSave(ctx, "gridLayoutState", 120, time.Millisecond, errors.New("quota"))
	NoopHTTPHooks{}.OnRequest(ctx, "GET", "/api/v1/items/{id}", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	store := &recordingStoreHooks{}
	web := &recordingHTTPHooks{}
	SetStoreHooks(store)
	SetHTTPHooks(web)

	ctx := context.Background()
	boom := errors.New("boom")
	Store().OnSave(ctx, "k", 10, time.Millisecond, nil)
	Store().OnLoad(ctx, "k", 0, time.Millisecond, boom)
	HTTP().OnRequest(ctx, "POST", "/api/v1/items", 201, time.Millisecond)

	if store.saves != 1 || store.loads != 1 || store.lastErr != boom {
		t.Errorf("store hooks = %+v", store)
	}
	if len(web.routes) != 1 || web.routes[0] != "/api/v1/items" {
		t.Errorf("http routes = %v", web.routes)
	}

	SetStoreHooks(nil)
	if Store() != StoreHooks(store) {
		t.Error("SetStoreHooks(nil) should keep the registered hooks")
	}

	Reset()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}
