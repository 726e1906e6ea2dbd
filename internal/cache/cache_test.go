package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey_StableAndPrefixed(t *testing.T) {
	a := Key("some content")
	b := Key("some content")
	c := Key("other content")

	if a != b {
		t.Error("Same content must produce the same key")
	}
	if a == c {
		t.Error("Different content must produce different keys")
	}
	if !strings.HasPrefix(a, "datacheck:v1:") {
		t.Errorf("Key missing version prefix: %s", a)
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Missing key should not be found")
	}
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Expected v, got %q (found=%v)", val, found)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Deleted key should not be found")
	}
}

func TestDiskCache_PersistsAndExpires(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(Key("sample"), []byte("grade"), time.Minute); err != nil {
		t.Fatal(err)
	}
	// A fresh instance over the same directory sees the entry
	c2 := NewDiskCache(dir, time.Minute)
	val, found := c2.Get(Key("sample"))
	if !found || string(val) != "grade" {
		t.Errorf("Expected persisted grade, got %q (found=%v)", val, found)
	}

	// Expired entries are treated as misses
	if err := c.Set(Key("stale"), []byte("old"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get(Key("stale")); found {
		t.Error("Expired entry should not be found")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := first.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}

	// A new layered cache has an empty memory layer but shares the disk dir
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	val, found := second.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("Expected disk hit, got %q (found=%v)", val, found)
	}
	// After promotion the memory layer serves it directly
	if val, found := second.memory.Get("k"); !found || string(val) != "v" {
		t.Error("Disk hit was not promoted to memory")
	}
}
