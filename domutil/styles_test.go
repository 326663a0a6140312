package domutil

import (
	"testing"

	"github.com/chrisuehlinger/videostory/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStyles(t *testing.T) {
	doc := dom.NewHTMLDocument("")
	el := doc.CreateElement("div")

	SetStyles(el, "color:red;  background : blue ")
	assert.Equal(t, "red", el.Style().Get("color"))
	assert.Equal(t, "blue", el.Style().Get("background"))
}

func TestSetStylesSkipsMalformedClauses(t *testing.T) {
	doc := dom.NewHTMLDocument("")
	el := doc.CreateElement("div")

	SetStyles(el, "margin; font-size: 12px;a:b:c; padding-left :3px;")
	style := el.Style()
	assert.Equal(t, "12px", style.Get("fontSize"))
	assert.Equal(t, "3px", style.Get("paddingLeft"))
	assert.Equal(t, "", style.Get("margin"))
	assert.Equal(t, 2, style.Length())
}

func TestCSSPropNameToJSPropName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"color", "color"},
		{"background-color", "backgroundColor"},
		{"border-top-left-radius", "borderTopLeftRadius"},
		{"-webkit-transform", "WebkitTransform"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CSSPropNameToJSPropName(tt.in), tt.in)
	}
}

func TestSetCssReplacesPreviousText(t *testing.T) {
	doc := dom.NewHTMLDocument("")
	el := doc.CreateElement("div")

	SetCss(el, ".a { color: red }")
	SetCss(el, ".a { color: blue }")

	sheet := DynamicStyleSheet(doc)
	nodes := sheet.AsNode().ChildNodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, ".a { color: blue }", nodes[0].NodeValue())
	assert.Same(t, doc.Head(), sheet.AsNode().ParentElement())
}

func TestSetCssPerElement(t *testing.T) {
	doc := dom.NewHTMLDocument("")
	a := NewElm(doc, "div", nil).WithCss(".a { color: red }")
	NewElm(doc, "div", nil).WithCss(".b { color: green }")

	sheet := DynamicStyleSheet(doc)
	assert.Len(t, sheet.AsNode().ChildNodes(), 2)

	a.ClearCss()
	assert.Equal(t, ".b { color: green }", sheet.TextContent())
}

func TestClearCssWithoutCss(t *testing.T) {
	doc := dom.NewHTMLDocument("")
	el := doc.CreateElement("div")

	assert.NotPanics(t, func() {
		ClearCss(el)
		ClearCss(nil)
		Extend(el).ClearCss()
	})
}

func TestDynamicStyleSheetIsShared(t *testing.T) {
	doc := dom.NewDocument()
	first := DynamicStyleSheet(doc)
	second := DynamicStyleSheet(doc)

	assert.Same(t, first, second)
	assert.Len(t, doc.GetElementsByTagName("style"), 1)
}

func TestDynamicRules(t *testing.T) {
	doc := dom.NewHTMLDocument("")
	SetCss(doc.Body(), "#videoStory1 { width: 100%; }")
	text := AddCss(doc, ".title { font-weight: bold !important; }")

	rules, err := DynamicRules(doc)
	require.NoError(t, err)
	require.Equal(t, 2, rules.Length())
	assert.Equal(t, "#videoStory1", rules.CSSRules()[0].Selector())
	assert.True(t, rules.CSSRules()[1].IsImportant("font-weight"))

	text.Remove()
	rules, err = DynamicRules(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, rules.Length())
}
