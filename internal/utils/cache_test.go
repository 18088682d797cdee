package utils

import (
	"testing"
	"time"
)

func TestTTLCache(t *testing.T) {
	c, err := NewTTLCache[int](2, time.Hour)
	if err != nil {
		t.Fatalf("NewTTLCache failed: %v", err)
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Expected a=1, got %d %v", v, ok)
	}

	// a was just used, so b is the one evicted
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("Expected b to be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", c.Len())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Expected a to be deleted")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c, _ := NewTTLCache[string](10, time.Millisecond)
	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, got %d", c.Len())
	}
}

func TestNewTTLCacheRejectsZeroSize(t *testing.T) {
	if _, err := NewTTLCache[int](0, time.Minute); err == nil {
		t.Error("Expected an error for size 0")
	}
}
