//go:build integration

package kv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Run with:
//
//	PLOTGRID_TEST_REDIS_URL=redis://localhost:6379/0 \
//	PLOTGRID_TEST_MONGO_URI=mongodb://localhost:27017 \
//	go test -tags integration ./pkg/kv/...

func TestRedisStoreIntegration(t *testing.T) {
	url := os.Getenv("PLOTGRID_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PLOTGRID_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, url, "plotgrid-test:"+uuid.NewString()+":")
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	testStoreContract(t, s)
}

func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("PLOTGRID_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PLOTGRID_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, uri, "plotgrid_test", "kv_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	}()
	testStoreContract(t, s)
}
