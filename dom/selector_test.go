package dom

import (
	"errors"
	"testing"
)

const selectorFixture = `<html><body>
<div id="main" class="page">
  <ul class="list"><li class="item first" data-kind="a">1</li><li class="item">2</li></ul>
  <section><p class="item" data-kind="b">3</p></section>
</div>
<div class="story-holder" data-story="s1"></div>
</body></html>`

func TestQuerySelector(t *testing.T) {
	doc, err := ParseHTMLString(selectorFixture)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	tests := []struct {
		selector string
		count    int
	}{
		{"li", 2},
		{".item", 3},
		{"#main .item", 3},
		{"#main > .item", 0},
		{"ul > li.item", 2},
		{"li.item.first", 1},
		{"[data-kind]", 2},
		{"[data-kind=b]", 1},
		{`[data-story="s1"]`, 1},
		{"div, li", 4},
		{"*", 10},
		{"section p", 1},
		{"ul p", 0},
	}
	for _, tt := range tests {
		if got := len(doc.QuerySelectorAll(tt.selector)); got != tt.count {
			t.Errorf("QuerySelectorAll(%q) matched %d, want %d", tt.selector, got, tt.count)
		}
	}

	if el := doc.QuerySelector(".item"); el == nil || el.TextContent() != "1" {
		t.Error("Expected QuerySelector to return the first match in tree order")
	}
}

func TestQuerySelector_Scoped(t *testing.T) {
	doc, err := ParseHTMLString(selectorFixture)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	section := doc.QuerySelector("section")
	if got := len(section.QuerySelectorAll(".item")); got != 1 {
		t.Errorf("Expected 1 scoped match, got %d", got)
	}
	if section.QuerySelector("section") != nil {
		t.Error("Expected the scope element itself not to match")
	}
}

func TestMatchesAndClosest(t *testing.T) {
	doc, err := ParseHTMLString(selectorFixture)
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	li := doc.QuerySelector("li.first")
	if !li.Matches("ul .item") {
		t.Error("Expected li to match 'ul .item'")
	}
	if c := li.Closest(".page"); c == nil || c.Id() != "main" {
		t.Error("Expected Closest to find #main")
	}
	if li.Closest("section") != nil {
		t.Error("Expected no section ancestor")
	}
}

func TestParseSelector_Errors(t *testing.T) {
	for _, sel := range []string{"", "div >", "#", "a,,b", "[x", "div ~ p"} {
		if _, err := parseSelector(sel); !errors.Is(err, ErrSyntax("")) {
			t.Errorf("parseSelector(%q) error = %v, want SyntaxError", sel, err)
		}
	}
}
