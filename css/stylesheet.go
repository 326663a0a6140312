// Package css provides CSSStyleSheet and rule accessors for style text
// injected into a document at runtime.
//
// Parsing is done by github.com/aymerick/douceur; this package wraps the
// result so callers can inspect selectors and declarations without
// depending on the parser's types.
package css

import (
	"fmt"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to key 'videostory.css'.
func tracer() tracing.Trace {
	return tracing.Select("videostory.css")
}

// CSSStyleSheet represents a parsed stylesheet.
// Reference: https://drafts.csswg.org/cssom/#cssstylesheet
type CSSStyleSheet struct {
	// ownerNode is the DOM node that owns this stylesheet, usually a <style>
	ownerNode any

	rules []*CSSRule
}

// NewCSSStyleSheet parses cssText into a stylesheet.
func NewCSSStyleSheet(cssText string, ownerNode any) (*CSSStyleSheet, error) {
	sheet := &CSSStyleSheet{ownerNode: ownerNode}
	if strings.TrimSpace(cssText) == "" {
		return sheet, nil
	}
	parsed, err := parser.Parse(cssText)
	if err != nil {
		return nil, fmt.Errorf("css: %w", err)
	}
	sheet.rules = wrapRules(parsed.Rules)
	tracer().Debugf("parsed stylesheet with %d rules", len(sheet.rules))
	return sheet, nil
}

func wrapRules(rules []*dcss.Rule) []*CSSRule {
	out := make([]*CSSRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, &CSSRule{rule: r})
	}
	return out
}

// OwnerNode returns the node that owns the stylesheet, or nil.
func (s *CSSStyleSheet) OwnerNode() any {
	return s.ownerNode
}

// CSSRules returns the top level rules in source order.
func (s *CSSStyleSheet) CSSRules() []*CSSRule {
	return s.rules
}

// Length returns the number of top level rules.
func (s *CSSStyleSheet) Length() int {
	return len(s.rules)
}

// Empty checks if this stylesheet contains any rules.
func (s *CSSStyleSheet) Empty() bool {
	return len(s.rules) == 0
}

// AppendRules appends the rules of another stylesheet.
func (s *CSSStyleSheet) AppendRules(other *CSSStyleSheet) {
	if other == nil {
		return
	}
	s.rules = append(s.rules, other.rules...)
}

// InsertRule parses a single rule and inserts it at index.
func (s *CSSStyleSheet) InsertRule(ruleText string, index int) (int, error) {
	if index < 0 || index > len(s.rules) {
		return -1, fmt.Errorf("css: index %d out of range [0,%d]", index, len(s.rules))
	}
	parsed, err := parser.Parse(ruleText)
	if err != nil {
		return -1, fmt.Errorf("css: %w", err)
	}
	if len(parsed.Rules) != 1 {
		return -1, fmt.Errorf("css: expected exactly one rule, got %d", len(parsed.Rules))
	}
	s.rules = append(s.rules, nil)
	copy(s.rules[index+1:], s.rules[index:])
	s.rules[index] = &CSSRule{rule: parsed.Rules[0]}
	return index, nil
}

// DeleteRule removes the rule at index.
func (s *CSSStyleSheet) DeleteRule(index int) error {
	if index < 0 || index >= len(s.rules) {
		return fmt.Errorf("css: index %d out of range [0,%d)", index, len(s.rules))
	}
	s.rules = append(s.rules[:index], s.rules[index+1:]...)
	return nil
}

// RulesFor returns the style rules, including those nested in at-rules,
// whose selector list contains selector verbatim.
func (s *CSSStyleSheet) RulesFor(selector string) []*CSSRule {
	var found []*CSSRule
	var visit func([]*CSSRule)
	visit = func(rules []*CSSRule) {
		for _, r := range rules {
			if r.IsAtRule() {
				visit(r.Rules())
				continue
			}
			for _, sel := range r.Selectors() {
				if sel == selector {
					found = append(found, r)
					break
				}
			}
		}
	}
	visit(s.rules)
	return found
}

// CSSText serializes the stylesheet.
func (s *CSSStyleSheet) CSSText() string {
	parts := make([]string, 0, len(s.rules))
	for _, r := range s.rules {
		parts = append(parts, r.CSSText())
	}
	return strings.Join(parts, "\n")
}
