package cache_test

import (
	"testing"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("sess-1:categories", "a")
	c.Set("sess-1:wallets", "b")
	c.Set("sess-2:categories", "c")

	c.DeletePrefix("sess-1:")

	if _, ok := c.Get("sess-1:categories"); ok {
		t.Error("expected sess-1:categories to be gone")
	}
	if _, ok := c.Get("sess-1:wallets"); ok {
		t.Error("expected sess-1:wallets to be gone")
	}
	if _, ok := c.Get("sess-2:categories"); !ok {
		t.Error("expected sess-2:categories to survive")
	}
}
