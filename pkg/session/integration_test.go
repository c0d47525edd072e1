//go:build integration

package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stepwise/pkg/cache"
)

// Run with: go test -tags integration ./pkg/session/...
// STEPWISE_TEST_REDIS (host:port) and STEPWISE_TEST_MONGO (URI) select the
// servers; a backend whose variable is unset is skipped.

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("STEPWISE_TEST_REDIS")
	if addr == "" {
		t.Skip("STEPWISE_TEST_REDIS not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := cache.DialRedis(ctx, cache.RedisOptions{Addr: addr})
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	store := NewRedisStore(client, "stepwise-test:"+uuid.NewString()[:8]+":")
	defer store.Close()

	testStore(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("STEPWISE_TEST_MONGO")
	if uri == "" {
		t.Skip("STEPWISE_TEST_MONGO not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "stepwise_test",
		Collection: "sessions_" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = store.coll.Drop(context.Background())
		_ = store.Close()
	}()

	testStore(t, store)

	expired := newSession(-time.Minute)
	if err := store.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if got, err := store.Get(ctx, expired.ID); got != nil || err != nil {
		t.Errorf("Get after Cleanup = %v, %v", got, err)
	}
}
