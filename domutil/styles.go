package domutil

import (
	"regexp"
	"strings"

	"github.com/chrisuehlinger/videostory/css"
	"github.com/chrisuehlinger/videostory/dom"
)

// dynamicSheetKey caches the dynamic <style> element on <head>.
type dynamicSheetKey struct{}

var styleSeparatorSpace = regexp.MustCompile(`\s*([:;])\s*`)

// SetStyles applies a flat "prop: value; prop: value" list to el's inline
// style. Whitespace around ':' and ';' is ignored. Property names are
// kebab-case and converted with CSSPropNameToJSPropName. A clause that does
// not split into exactly one name and one value is skipped.
func SetStyles(el *dom.Element, styles string) {
	if el == nil {
		return
	}
	styles = strings.TrimSpace(styleSeparatorSpace.ReplaceAllString(styles, "$1"))
	style := el.Style()
	for _, clause := range strings.Split(styles, ";") {
		parts := strings.Split(strings.TrimSpace(clause), ":")
		if len(parts) != 2 {
			if clause != "" {
				tracer().Debugf("setStyles: skipping clause %q", clause)
			}
			continue
		}
		style.Set(CSSPropNameToJSPropName(parts[0]), parts[1])
	}
}

// CSSPropNameToJSPropName converts a kebab-case CSS property name to its
// camelCase scripting name: "background-color" -> "backgroundColor".
func CSSPropNameToJSPropName(propName string) string {
	parts := strings.Split(propName, "-")
	for i := 1; i < len(parts); i++ {
		if p := parts[i]; p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

// DynamicStyleSheet returns the document's shared <style> element for
// injected CSS, creating it in <head> on first use.
func DynamicStyleSheet(doc *dom.Document) *dom.Element {
	head := doc.EnsureHead()
	if sheet, ok := head.AsNode().UserData(dynamicSheetKey{}).(*dom.Element); ok {
		return sheet
	}
	sheet := NewElm(doc, "style", nil).Element()
	head.AppendChild(sheet.AsNode())
	head.AsNode().SetUserData(dynamicSheetKey{}, sheet)
	tracer().Debugf("created dynamic stylesheet")
	return sheet
}

// DynamicRules parses the current content of the dynamic stylesheet.
func DynamicRules(doc *dom.Document) (*css.CSSStyleSheet, error) {
	sheet := DynamicStyleSheet(doc)
	return css.NewCSSStyleSheet(sheet.TextContent(), sheet)
}

// SetCss puts cssText into the dynamic stylesheet on behalf of el,
// replacing the text el set before. An element owns at most one text node
// in the stylesheet; ClearCss releases it.
func SetCss(el *dom.Element, cssText string) {
	if el == nil {
		return
	}
	doc := el.OwnerDocument()
	if doc == nil {
		return
	}
	e := stateOf(el)
	ClearCss(el)
	e.css = AddCss(doc, cssText)
}

// ClearCss removes the CSS text node el owns, if any.
func ClearCss(el *dom.Element) {
	e := lookup(el)
	if e == nil || e.css == nil {
		return
	}
	if parent := e.css.ParentNode(); parent != nil {
		parent.RemoveChild(e.css)
	}
	e.css = nil
}

// AddCss appends cssText to the dynamic stylesheet without an owning
// element and returns the text node, which the caller removes when done.
func AddCss(doc *dom.Document, cssText string) *dom.Node {
	text := doc.CreateTextNode(cssText)
	DynamicStyleSheet(doc).AppendChild(text)
	return text
}
