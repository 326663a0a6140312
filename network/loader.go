package network

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resource represents a loaded resource.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
	Charset     string
	StatusCode  int
	Cached      bool
}

// OK returns true if the resource was served with a 2xx status.
func (r *Resource) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AsString returns the resource content as a string.
func (r *Resource) AsString() string {
	return string(r.Content)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLocalPath sets a directory to load resources from before trying HTTP.
// A URL's path is looked up relative to this directory.
func WithLocalPath(path string) LoaderOption {
	return func(l *Loader) {
		l.localPath = path
	}
}

// WithCache enables response caching. Loaders have no cache by default.
func WithCache(cache *Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithBaseURL sets the URL relative references are resolved against.
func WithBaseURL(baseURL string) LoaderOption {
	return func(l *Loader) {
		l.baseURL = baseURL
	}
}

// Loader loads resources over HTTP, from data: and file: URLs, or from a
// local directory. It is safe for concurrent use.
type Loader struct {
	client    *Client
	cache     *Cache
	localPath string
	baseURL   string

	mu sync.RWMutex
}

// NewLoader creates a new resource loader.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{client: client}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetBaseURL sets the base URL for resolving relative URLs.
func (l *Loader) SetBaseURL(baseURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.baseURL = baseURL
}

// BaseURL returns the current base URL.
func (l *Loader) BaseURL() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.baseURL
}

// Resolve resolves urlStr against the base URL.
func (l *Loader) Resolve(urlStr string) (string, error) {
	return ResolveURL(l.BaseURL(), urlStr)
}

// Load loads the resource at urlStr. A non-2xx HTTP status is not an error
// here; callers check Resource.OK.
func (l *Loader) Load(ctx context.Context, urlStr string) (*Resource, error) {
	if IsDataURL(urlStr) {
		return l.loadDataURL(urlStr)
	}

	resolved, err := l.Resolve(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve URL %q: %w", urlStr, err)
	}

	if l.cache != nil {
		if resp, ok := l.cache.Fresh(resolved); ok {
			tracer().Debugf("cache hit for %s", resolved)
			return resourceFromResponse(resolved, resp, true), nil
		}
	}

	l.mu.RLock()
	localPath := l.localPath
	l.mu.RUnlock()

	if IsFileURL(resolved) {
		return l.loadFile(resolved, localPath)
	}
	if localPath != "" {
		if res, err := l.loadFromLocal(resolved, localPath); err == nil {
			return res, nil
		}
	}
	if !IsAbsoluteURL(resolved) {
		return nil, fmt.Errorf("cannot load relative URL %q without a base URL", resolved)
	}
	return l.loadFromHTTP(ctx, resolved)
}

func (l *Loader) loadDataURL(urlStr string) (*Resource, error) {
	dataURL, err := ParseDataURL(urlStr)
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:         urlStr,
		Content:     dataURL.Data,
		ContentType: dataURL.MediaType,
		Charset:     strings.ToLower(dataURL.Charset),
		StatusCode:  200,
	}, nil
}

// loadFile reads a file: URL, falling back to the same path below
// localPath.
func (l *Loader) loadFile(urlStr, localPath string) (*Resource, error) {
	path := ExtractPath(urlStr)
	content, err := os.ReadFile(path)
	if err != nil && localPath != "" {
		content, err = os.ReadFile(filepath.Join(localPath, filepath.FromSlash(path)))
	}
	if err != nil {
		return nil, err
	}
	return &Resource{
		URL:         urlStr,
		Content:     content,
		ContentType: GuessContentType(urlStr),
		StatusCode:  200,
	}, nil
}

// loadFromLocal attempts to load a resource from the local directory.
func (l *Loader) loadFromLocal(urlStr, basePath string) (*Resource, error) {
	path := ExtractPath(urlStr)
	if path == "" || strings.HasSuffix(path, "/") {
		return nil, fmt.Errorf("no file name in %q", urlStr)
	}
	content, err := os.ReadFile(filepath.Join(basePath, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	tracer().Debugf("loaded %s from %s", urlStr, basePath)
	return &Resource{
		URL:         urlStr,
		Content:     content,
		ContentType: GuessContentType(urlStr),
		StatusCode:  200,
	}, nil
}

func (l *Loader) loadFromHTTP(ctx context.Context, urlStr string) (*Resource, error) {
	resp, err := l.client.Get(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	if l.cache != nil && resp.OK() {
		l.cache.Set(urlStr, resp)
	}
	return resourceFromResponse(urlStr, resp, false), nil
}

func resourceFromResponse(urlStr string, resp *Response, cached bool) *Resource {
	mediaType, charset := ParseContentType(resp.ContentType)
	return &Resource{
		URL:         urlStr,
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     charset,
		StatusCode:  resp.StatusCode,
		Cached:      cached,
	}
}

// ClearCache clears the loader's cache, if it has one.
func (l *Loader) ClearCache() {
	if l.cache != nil {
		l.cache.Clear()
	}
}
