package network

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.timeout != 30*time.Second {
		t.Errorf("default timeout = %v, want %v", client.timeout, 30*time.Second)
	}
	if client.maxRedirects != 10 {
		t.Errorf("default maxRedirects = %v, want %v", client.maxRedirects, 10)
	}
	if client.userAgent != DefaultUserAgent {
		t.Errorf("default userAgent = %q, want %q", client.userAgent, DefaultUserAgent)
	}
}

func TestClientOptions(t *testing.T) {
	client, err := NewClient(
		WithTimeout(60*time.Second),
		WithMaxRedirects(5),
		WithUserAgent("TestAgent/1.0"),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.timeout != 60*time.Second {
		t.Errorf("timeout = %v, want %v", client.timeout, 60*time.Second)
	}
	if client.maxRedirects != 5 {
		t.Errorf("maxRedirects = %v, want %v", client.maxRedirects, 5)
	}
	if client.userAgent != "TestAgent/1.0" {
		t.Errorf("userAgent = %v, want %v", client.userAgent, "TestAgent/1.0")
	}
}

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); ua != "Story/2" {
			t.Errorf("User-Agent = %q, want %q", ua, "Story/2")
		}
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(WithUserAgent("Story/2"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !resp.OK() {
		t.Errorf("StatusCode = %v, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"data":[]}` {
		t.Errorf("Body = %q", string(resp.Body))
	}
	if !IsJSONContentType(resp.ContentType) {
		t.Errorf("ContentType = %q, want JSON", resp.ContentType)
	}
}

func TestClientGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("compressed"))
		gz.Close()
	}))
	defer server.Close()

	client, _ := NewClient()
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(resp.Body) != "compressed" {
		t.Errorf("Body = %q, want %q", resp.Body, "compressed")
	}
}

func TestClientRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("moved"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := NewClient()
	resp, err := client.Get(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.URL.Path != "/new" || string(resp.Body) != "moved" {
		t.Errorf("expected redirect to /new, got %s %q", resp.URL.Path, resp.Body)
	}

	noFollow, _ := NewClient(WithMaxRedirects(0))
	resp, err = noFollow.Get(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusFound)
	}
}

func TestClientContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, _ := NewClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Get(ctx, server.URL); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		input     string
		mediaType string
		charset   string
	}{
		{"", "application/octet-stream", ""},
		{"text/html", "text/html", ""},
		{"Text/HTML; charset=UTF-8", "text/html", "utf-8"},
		{`application/json; charset="utf-8"`, "application/json", "utf-8"},
	}
	for _, tt := range tests {
		mediaType, charset := ParseContentType(tt.input)
		if mediaType != tt.mediaType || charset != tt.charset {
			t.Errorf("ParseContentType(%q) = %q, %q; want %q, %q",
				tt.input, mediaType, charset, tt.mediaType, tt.charset)
		}
	}
	if !IsHTMLContentType("application/xhtml+xml") {
		t.Error("expected xhtml to be HTML")
	}
	if !IsJSONContentType("application/ld+json") {
		t.Error("expected +json suffix to be JSON")
	}
}
