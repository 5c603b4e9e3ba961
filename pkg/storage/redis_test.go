package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTodoCacheTest creates a miniredis instance and a cache over it
func setupTodoCacheTest(t *testing.T) (*TodoCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewTodoCache(client, time.Hour, nil)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestTodoCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTodoCacheTest(t)

	todos, err := cache.GetUserTodos(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if todos != nil {
		t.Fatal("Expected cache miss to return nil")
	}

	want := []*Todo{
		{ID: 1, Title: "one", UserID: 1},
		{ID: 2, Title: "two", UserID: 1, Completed: true},
	}
	if err := cache.SetUserTodos(ctx, 1, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.GetUserTodos(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 cached todos, got %d", len(got))
	}
	if got[0].Title != "one" || got[1].Title != "two" {
		t.Errorf("Cached todos do not round-trip: %+v", got)
	}
}

func TestTodoCache_KeysAreUserScoped(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTodoCacheTest(t)

	if err := cache.SetUserTodos(ctx, 1, []*Todo{{ID: 1, UserID: 1}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	todos, err := cache.GetUserTodos(ctx, 2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if todos != nil {
		t.Error("Expected another user's listing to miss")
	}
}

func TestTodoCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTodoCacheTest(t)

	if err := cache.SetUserTodos(ctx, 1, []*Todo{{ID: 1, UserID: 1}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.InvalidateUserTodos(ctx, 1); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	todos, err := cache.GetUserTodos(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if todos != nil {
		t.Error("Expected invalidated listing to miss")
	}
}

func TestTodoCache_CorruptEntryDeleted(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTodoCacheTest(t)

	mr.Set("todos:user:1", "{not-json")

	_, err := cache.GetUserTodos(ctx, 1)
	if err == nil {
		t.Fatal("Expected error for corrupt cached payload")
	}

	// Corrupt data is dropped so the next read is a clean miss
	if mr.Exists("todos:user:1") {
		t.Error("Expected corrupt key to be deleted")
	}
}

func TestTodoCache_TTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTodoCacheTest(t)

	if err := cache.SetUserTodos(ctx, 1, []*Todo{{ID: 1, UserID: 1}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	todos, err := cache.GetUserTodos(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if todos != nil {
		t.Error("Expected entry to expire after TTL")
	}
}
