package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache(&Options{
		DefaultTTL: 1 * time.Minute,
		MaxEntries: 100,
	})
	defer cache.Close()

	ctx := context.Background()
	key := "plan:abc:def"
	value := []byte(`{"flow_value":80}`)

	err := cache.Set(ctx, key, value, 0)
	if err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	got, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}

	if string(got) != string(value) {
		t.Errorf("expected %s, got %s", value, got)
	}
}

func TestMemoryCache_GetNotFound(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	_, err := cache.Get(ctx, "nonexistent")
	if err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	key := "test-key"

	cache.Set(ctx, key, []byte("value"), 0)

	err := cache.Delete(ctx, key)
	if err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	_, err = cache.Get(ctx, key)
	if err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(&Options{
		DefaultTTL:      10 * time.Millisecond,
		MaxEntries:      100,
		CleanupInterval: time.Hour, // без фоновой очистки, проверяем ленивое истечение
	})
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "short-lived", []byte("v"), 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, err := cache.Get(ctx, "short-lived")
	if err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after expiry, got %v", err)
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	cache := NewMemoryCache(&Options{
		DefaultTTL: time.Minute,
		MaxEntries: 2,
	})
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "a", []byte("1"), 0)
	cache.Set(ctx, "b", []byte("2"), 0)
	cache.Set(ctx, "c", []byte("3"), 0)

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.TotalKeys > 2 {
		t.Errorf("expected at most 2 keys after eviction, got %d", stats.TotalKeys)
	}
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "plan:g1:s1", []byte("1"), 0)
	cache.Set(ctx, "plan:g1:s2", []byte("2"), 0)
	cache.Set(ctx, "plan:g2:s1", []byte("3"), 0)

	count, err := cache.DeleteByPattern(ctx, "plan:g1:*")
	if err != nil {
		t.Fatalf("failed to delete by pattern: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 deleted, got %d", count)
	}

	exists, _ := cache.Exists(ctx, "plan:g2:s1")
	if !exists {
		t.Error("expected plan:g2:s1 to survive")
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	cache := NewMemoryCache(nil)
	cache.Close()

	ctx := context.Background()
	if err := cache.Set(ctx, "k", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if _, err := cache.Get(ctx, "k"); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"*", "anything", true},
		{"plan:*", "plan:abc", true},
		{"plan:*", "report:abc", false},
		{"*:abc", "plan:abc", true},
		{"plan:*:x", "plan:123:x", true},
		{"plan:*:x", "plan:123:y", false},
		{"exact", "exact", true},
		{"exact", "exact2", false},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.key); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.key, got, tt.want)
		}
	}
}
