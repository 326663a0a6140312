package css

import (
	"strings"

	dcss "github.com/aymerick/douceur/css"
)

// CSSRule is a qualified (style) rule or an at-rule.
type CSSRule struct {
	rule *dcss.Rule
}

// IsAtRule returns true for @media, @keyframes and the like.
func (r *CSSRule) IsAtRule() bool {
	return r.rule.Kind == dcss.AtRule
}

// Name returns the at-rule name including the '@', or "" for style rules.
func (r *CSSRule) Name() string {
	return r.rule.Name
}

// Selector returns the prelude of the rule, e.g. "div.a, p".
func (r *CSSRule) Selector() string {
	return strings.TrimSpace(r.rule.Prelude)
}

// Selectors returns the individual selectors of a style rule.
func (r *CSSRule) Selectors() []string {
	return r.rule.Selectors
}

// Properties returns the property keys of a rule, e.g. "margin-top",
// in declaration order.
func (r *CSSRule) Properties() []string {
	props := make([]string, 0, len(r.rule.Declarations))
	for _, d := range r.rule.Declarations {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the value of the last declaration for key, e.g. "15px".
func (r *CSSRule) Value(key string) string {
	if d := r.lookup(key); d != nil {
		return d.Value
	}
	return ""
}

// IsImportant returns true if a style key is marked as important ("!").
func (r *CSSRule) IsImportant(key string) bool {
	if d := r.lookup(key); d != nil {
		return d.Important
	}
	return false
}

func (r *CSSRule) lookup(key string) *dcss.Declaration {
	decl := r.rule.Declarations
	for i := len(decl) - 1; i >= 0; i-- {
		if decl[i].Property == key {
			return decl[i]
		}
	}
	return nil
}

// Rules returns the rules nested in an at-rule block.
func (r *CSSRule) Rules() []*CSSRule {
	return wrapRules(r.rule.Rules)
}

// CSSText serializes the rule.
func (r *CSSRule) CSSText() string {
	return r.rule.String()
}
