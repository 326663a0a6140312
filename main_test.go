package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html><head><title>Stories</title></head>
<body>
<div id="scripted"></div>
<div class="manifest-story"></div>
<script>
var pendingVideoStory = [{
	elm: document.getElementById('scripted'),
	spreadSheetPaths: { properties: 'props.json' }
}];
</script>
</body></html>`

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":   testPage,
		"props.json":   `{"data":[{"name":"title","value":"Hello"}]}`,
		"rows.json":    `{"data":[{"id":1}]}`,
		"stories.yaml": "stories:\n  - selector: \".manifest-story\"\n    spreadsheet_paths: { rows: rows.json }\n",
		"broken.yaml":  "stories:\n  - selector: \"#nowhere\"\n",
		"missing.yaml": "stories:\n  - selector: \".manifest-story\"\n    spreadsheet_paths: { rows: gone.json }\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func TestRunMountsScriptedAndManifestStories(t *testing.T) {
	dir := writeSite(t)

	var out bytes.Buffer
	err := run(context.Background(), &out, filepath.Join(dir, "index.html"), options{
		manifestPath: filepath.Join(dir, "stories.yaml"),
	})
	require.NoError(t, err)

	html := out.String()
	assert.NotContains(t, html, `id="scripted"`)
	assert.NotContains(t, html, `class="manifest-story"`)
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte(`data-story-state="ready"`)))
	assert.Contains(t, html, `id="videoStory`)
}

func TestRunWithoutScripts(t *testing.T) {
	dir := writeSite(t)

	var out bytes.Buffer
	err := run(context.Background(), &out, filepath.Join(dir, "index.html"), options{noScripts: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `id="scripted"`)
	assert.NotContains(t, out.String(), "data-story-state")
}

func TestRunTree(t *testing.T) {
	dir := writeSite(t)

	var out bytes.Buffer
	err := run(context.Background(), &out, filepath.Join(dir, "index.html"), options{tree: true, noScripts: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `div id="scripted"`)
	assert.NotContains(t, out.String(), "<html")
}

func TestRunReportsUnmountedStories(t *testing.T) {
	dir := writeSite(t)

	var out bytes.Buffer
	err := run(context.Background(), &out, filepath.Join(dir, "index.html"), options{
		manifestPath: filepath.Join(dir, "broken.yaml"),
	})
	require.Error(t, err)
	assert.Equal(t, "1 stories could not be mounted", err.Error())
	assert.NotEmpty(t, out.String(), "the page is printed even when stories fail")
	assert.Equal(t, 1, strings.Count(out.String(), `data-story-state="ready"`))
}

func TestRunReportsFailedStories(t *testing.T) {
	dir := writeSite(t)

	var out bytes.Buffer
	err := run(context.Background(), &out, filepath.Join(dir, "index.html"), options{
		manifestPath: filepath.Join(dir, "missing.yaml"),
	})
	require.Error(t, err)
	assert.Equal(t, "1 of 2 stories failed", err.Error())
	assert.Contains(t, out.String(), `data-story-state="error"`)
}

func TestNewTraceSelectsCommandTrace(t *testing.T) {
	defer tracing.SetTraceSelector(nil)

	trace := newTrace("debug")
	assert.Equal(t, tracing.LevelDebug, trace.GetTraceLevel())
	assert.Same(t, trace, tracing.Select("videostory.story"))

	assert.Equal(t, tracing.LevelError, newTrace("error").GetTraceLevel())
}

func TestRunMissingPage(t *testing.T) {
	dir := writeSite(t)
	err := run(context.Background(), &bytes.Buffer{}, filepath.Join(dir, "nope.html"), options{})
	assert.Error(t, err)
}
