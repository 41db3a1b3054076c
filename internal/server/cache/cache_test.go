package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute, 2*time.Minute)

	c.Set("products", []string{"a", "b"})
	val, found := c.Get("products")
	if !found {
		t.Fatal("expected cache hit")
	}
	if items := val.([]string); len(items) != 2 {
		t.Errorf("cached value = %v", items)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Minute)

	c.Set("hero-section", "v")
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("hero-section"); found {
		t.Error("expected miss after TTL")
	}
}

func TestCache_FlushDropsEverything(t *testing.T) {
	c := New(time.Minute, 2*time.Minute)
	c.Set("products", 1)
	c.Set("brands", 2)

	c.Flush()
	if c.ItemCount() != 0 {
		t.Errorf("item count = %d after flush", c.ItemCount())
	}
	if _, found := c.Get("products"); found {
		t.Error("expected miss after flush")
	}
}
