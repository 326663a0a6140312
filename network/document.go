package network

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/chrisuehlinger/videostory/css"
	"github.com/chrisuehlinger/videostory/dom"
)

// DocumentLoader loads a page and the resources it references.
type DocumentLoader struct {
	loader *Loader
}

// NewDocumentLoader creates a new document loader.
func NewDocumentLoader(loader *Loader) *DocumentLoader {
	return &DocumentLoader{
		loader: loader,
	}
}

// LoadedDocument is a parsed page with its stylesheets and scripts.
type LoadedDocument struct {
	Document    *dom.Document
	BaseURL     string
	Stylesheets []*LoadedStylesheet
	Scripts     []*LoadedScript
	Errors      []error
}

// LoadedStylesheet is an inline <style> or a linked stylesheet.
type LoadedStylesheet struct {
	URL    string // empty for inline styles
	Sheet  *css.CSSStyleSheet
	Inline bool
	Error  error
}

// LoadedScript is a classic script, inline or external.
type LoadedScript struct {
	URL      string // empty for inline scripts
	Content  string
	Inline   bool
	Position int // position in document order
	Error    error
}

// Load fetches urlStr, parses it as HTML and loads its resources. If the
// loader has no base URL yet, the page URL becomes the base URL.
func (dl *DocumentLoader) Load(ctx context.Context, urlStr string) (*LoadedDocument, error) {
	res, err := dl.loader.Load(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("loading page: %w", err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("loading page: %w", &StatusError{URL: res.URL, StatusCode: res.StatusCode})
	}
	doc, err := dom.ParseHTML(bytes.NewReader(res.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", res.URL, err)
	}
	doc.SetURL(res.URL)
	if dl.loader.BaseURL() == "" {
		dl.loader.SetBaseURL(res.URL)
	}
	return dl.LoadResources(ctx, doc), nil
}

// LoadResources collects the stylesheets and scripts of an already parsed
// document. Failures are recorded per resource and in Errors.
func (dl *DocumentLoader) LoadResources(ctx context.Context, doc *dom.Document) *LoadedDocument {
	result := &LoadedDocument{
		Document: doc,
		BaseURL:  dl.loader.BaseURL(),
	}
	dl.loadStylesheets(ctx, doc, result)
	dl.loadScripts(ctx, doc, result)
	return result
}

func (dl *DocumentLoader) loadStylesheets(ctx context.Context, doc *dom.Document, result *LoadedDocument) {
	for _, el := range doc.QuerySelectorAll("style, link") {
		loaded := &LoadedStylesheet{}
		var text string
		if el.LocalName() == "style" {
			loaded.Inline = true
			text = el.TextContent()
		} else {
			href := el.GetAttribute("href")
			if !strings.EqualFold(el.GetAttribute("rel"), "stylesheet") || href == "" {
				continue
			}
			loaded.URL = href
			text, loaded.Error = dl.fetchText(ctx, href)
		}
		if loaded.Error == nil {
			loaded.Sheet, loaded.Error = css.NewCSSStyleSheet(text, el)
		}
		if loaded.Error != nil {
			result.Errors = append(result.Errors, loaded.Error)
		}
		result.Stylesheets = append(result.Stylesheets, loaded)
	}
}

func (dl *DocumentLoader) loadScripts(ctx context.Context, doc *dom.Document, result *LoadedDocument) {
	for i, el := range doc.GetElementsByTagName("script") {
		scriptType := strings.ToLower(el.GetAttribute("type"))
		if scriptType != "" && scriptType != "text/javascript" && scriptType != "application/javascript" {
			continue
		}
		src := el.GetAttribute("src")
		if src == "" {
			result.Scripts = append(result.Scripts, &LoadedScript{
				Content:  el.TextContent(),
				Inline:   true,
				Position: i,
			})
			continue
		}
		loaded := &LoadedScript{URL: src, Position: i}
		loaded.Content, loaded.Error = dl.fetchText(ctx, src)
		if loaded.Error != nil {
			result.Errors = append(result.Errors, loaded.Error)
		}
		result.Scripts = append(result.Scripts, loaded)
	}
}

func (dl *DocumentLoader) fetchText(ctx context.Context, urlStr string) (string, error) {
	res, err := dl.loader.Load(ctx, urlStr)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", urlStr, err)
	}
	if !res.OK() {
		return "", &StatusError{URL: res.URL, StatusCode: res.StatusCode}
	}
	return res.AsString(), nil
}

// RunnableScripts returns the scripts that loaded, in document order.
func (ld *LoadedDocument) RunnableScripts() []*LoadedScript {
	var result []*LoadedScript
	for _, s := range ld.Scripts {
		if s.Error == nil {
			result = append(result, s)
		}
	}
	return result
}

// StyleSheets returns the stylesheets that parsed.
func (ld *LoadedDocument) StyleSheets() []*css.CSSStyleSheet {
	var result []*css.CSSStyleSheet
	for _, s := range ld.Stylesheets {
		if s.Error == nil {
			result = append(result, s.Sheet)
		}
	}
	return result
}
