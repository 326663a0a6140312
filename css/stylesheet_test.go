package css

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSSStyleSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "videostory.css")
	defer teardown()

	sheet, err := NewCSSStyleSheet(`
		#videoStory1 .title { color: red; margin-top: 4px !important; }
		.container, .frame { width: 100px; }
	`, nil)
	require.NoError(t, err)
	require.Equal(t, 2, sheet.Length())

	title := sheet.CSSRules()[0]
	assert.False(t, title.IsAtRule())
	assert.Equal(t, "#videoStory1 .title", title.Selector())
	assert.Equal(t, []string{"color", "margin-top"}, title.Properties())
	assert.Equal(t, "red", title.Value("color"))
	assert.True(t, title.IsImportant("margin-top"))
	assert.False(t, title.IsImportant("color"))
	assert.Equal(t, "", title.Value("padding"))

	assert.Equal(t, []string{".container", ".frame"}, sheet.CSSRules()[1].Selectors())
}

func TestEmptyStyleSheet(t *testing.T) {
	sheet, err := NewCSSStyleSheet("  \n", nil)
	require.NoError(t, err)
	assert.True(t, sheet.Empty())
	assert.Equal(t, "", sheet.CSSText())
}

func TestRulesForFindsNestedRules(t *testing.T) {
	sheet, err := NewCSSStyleSheet(`
		.a { color: blue }
		@media (max-width: 600px) { .a { color: green } }
		.b { color: black }
	`, "owner")
	require.NoError(t, err)
	assert.Equal(t, "owner", sheet.OwnerNode())

	media := sheet.CSSRules()[1]
	require.True(t, media.IsAtRule())
	assert.Equal(t, "@media", media.Name())
	require.Len(t, media.Rules(), 1)

	found := sheet.RulesFor(".a")
	require.Len(t, found, 2)
	assert.Equal(t, "blue", found[0].Value("color"))
	assert.Equal(t, "green", found[1].Value("color"))
}

func TestInsertAndDeleteRule(t *testing.T) {
	sheet, err := NewCSSStyleSheet(".a { color: blue }", nil)
	require.NoError(t, err)

	idx, err := sheet.InsertRule(".z { opacity: 0 }", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, ".z", sheet.CSSRules()[0].Selector())
	assert.Equal(t, ".a", sheet.CSSRules()[1].Selector())

	_, err = sheet.InsertRule(".q {}", 5)
	assert.Error(t, err)
	_, err = sheet.InsertRule(".q {} .r {}", 0)
	assert.Error(t, err)

	require.NoError(t, sheet.DeleteRule(0))
	assert.Equal(t, 1, sheet.Length())
	assert.Error(t, sheet.DeleteRule(3))
}

func TestAppendRules(t *testing.T) {
	a, err := NewCSSStyleSheet(".a { color: blue }", nil)
	require.NoError(t, err)
	b, err := NewCSSStyleSheet(".b { color: red } .c { color: white }", nil)
	require.NoError(t, err)

	a.AppendRules(b)
	a.AppendRules(nil)
	assert.Equal(t, 3, a.Length())
	tracer().Debugf("appended: %s", a.CSSText())
}
