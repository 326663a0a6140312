package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyPage = `<!DOCTYPE html>
<html><head>
<style>.story { color: red }</style>
<link rel="stylesheet" href="site.css">
<link rel="icon" href="favicon.ico">
<link rel="stylesheet" href="gone.css">
</head><body>
<div id="videoStory"></div>
<script>var a = 1;</script>
<script src="app.js"></script>
<script type="application/json">{"skip": true}</script>
</body></html>`

func TestDocumentLoader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "videostory.network")
	defer teardown()

	mux := http.NewServeMux()
	mux.HandleFunc("/stories/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(storyPage))
	})
	mux.HandleFunc("/stories/site.css", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("body { margin: 0 } h1 { font-size: 2em }"))
	})
	mux.HandleFunc("/stories/app.js", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("var b = 2;"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	loader := newTestLoader(t)
	dl := NewDocumentLoader(loader)
	loaded, err := dl.Load(context.Background(), server.URL+"/stories/index.html")
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/stories/index.html", loaded.BaseURL)
	assert.Equal(t, server.URL+"/stories/index.html", loader.BaseURL())
	require.NotNil(t, loaded.Document.GetElementById("videoStory"))

	require.Len(t, loaded.Stylesheets, 3)
	assert.True(t, loaded.Stylesheets[0].Inline)
	assert.Equal(t, 1, loaded.Stylesheets[0].Sheet.Length())
	assert.Equal(t, "site.css", loaded.Stylesheets[1].URL)
	assert.Equal(t, 2, loaded.Stylesheets[1].Sheet.Length())
	assert.Error(t, loaded.Stylesheets[2].Error)
	assert.Len(t, loaded.StyleSheets(), 2)

	require.Len(t, loaded.Scripts, 2)
	assert.True(t, loaded.Scripts[0].Inline)
	assert.Equal(t, "var a = 1;", loaded.Scripts[0].Content)
	assert.Equal(t, "app.js", loaded.Scripts[1].URL)
	assert.Equal(t, "var b = 2;", loaded.Scripts[1].Content)
	assert.Len(t, loaded.RunnableScripts(), 2)

	assert.Len(t, loaded.Errors, 1)
}

func TestDocumentLoaderPageError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "videostory.network")
	defer teardown()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewDocumentLoader(newTestLoader(t)).Load(context.Background(), server.URL+"/index.html")
	require.Error(t, err)
	var statusErr *StatusError
	assert.ErrorAs(t, err, &statusErr)
}
