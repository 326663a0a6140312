package network

import (
	"net/http"
	"testing"
	"time"
)

func responseWithHeaders(kv ...string) *Response {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return &Response{StatusCode: 200, Headers: h, Body: []byte("x")}
}

func TestCacheSetAndGet(t *testing.T) {
	cache := NewCache(10)
	if !cache.Set("http://a/1", responseWithHeaders("Cache-Control", "public, max-age=60", "ETag", `"v1"`)) {
		t.Fatal("expected response to be cached")
	}

	entry, ok := cache.Get("http://a/1")
	if !ok {
		t.Fatal("expected entry")
	}
	if !entry.HasMaxAge || entry.MaxAge != 60*time.Second {
		t.Errorf("MaxAge = %v (%v), want 60s", entry.MaxAge, entry.HasMaxAge)
	}
	if entry.ETag != `"v1"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if _, ok := cache.Fresh("http://a/1"); !ok {
		t.Error("expected fresh entry")
	}
}

func TestCacheNoStore(t *testing.T) {
	cache := NewCache(10)
	if cache.Set("http://a/1", responseWithHeaders("Cache-Control", "no-store")) {
		t.Error("expected no-store response not to be cached")
	}
	if cache.Size() != 0 {
		t.Errorf("Size = %d, want 0", cache.Size())
	}
}

func TestCacheMaxAgeZero(t *testing.T) {
	cache := NewCache(10)
	cache.Set("http://a/1", responseWithHeaders("Cache-Control", "max-age=0"))
	if _, ok := cache.Fresh("http://a/1"); ok {
		t.Error("expected max-age=0 entry to be stale")
	}
	cache.Cleanup()
	if cache.Size() != 0 {
		t.Errorf("expected Cleanup to drop stale entry, size %d", cache.Size())
	}
}

func TestCacheExpires(t *testing.T) {
	cache := NewCache(10)
	past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
	cache.Set("http://a/1", responseWithHeaders("Expires", past))
	if _, ok := cache.Fresh("http://a/1"); ok {
		t.Error("expected entry with past Expires to be stale")
	}

	cache.Set("http://a/2", responseWithHeaders())
	if _, ok := cache.Fresh("http://a/2"); !ok {
		t.Error("expected entry without freshness info to use the default lifetime")
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(2)
	cache.Set("http://a/1", responseWithHeaders())
	time.Sleep(time.Millisecond)
	cache.Set("http://a/2", responseWithHeaders())
	time.Sleep(time.Millisecond)
	cache.Set("http://a/3", responseWithHeaders())

	if cache.Size() != 2 {
		t.Fatalf("Size = %d, want 2", cache.Size())
	}
	if _, ok := cache.Get("http://a/1"); ok {
		t.Error("expected oldest entry to be evicted")
	}

	cache.Set("http://a/3", responseWithHeaders())
	if cache.Size() != 2 {
		t.Errorf("replacing an entry must not evict, size %d", cache.Size())
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	cache := NewCache(0)
	cache.Set("http://a/1", responseWithHeaders())
	cache.Set("http://a/2", responseWithHeaders())

	cache.Delete("http://a/1")
	if cache.Size() != 1 {
		t.Errorf("Size = %d after Delete, want 1", cache.Size())
	}
	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size = %d after Clear, want 0", cache.Size())
	}
}
