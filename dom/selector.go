package dom

import (
	"strings"
)

// Selectors supported here are the subset page scripts use for lookups:
// type, universal, #id, .class, [attr], [attr=value] compounds joined by
// descendant or child combinators, in comma separated lists.

type selectorList []complexSelector

type complexSelector struct {
	parts       []compoundSelector
	combinators []byte // combinators[i] joins parts[i] and parts[i+1]: ' ' or '>'
}

type compoundSelector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrSelector
}

type attrSelector struct {
	name     string
	value    string
	hasValue bool
}

func (l selectorList) match(el *Element) bool {
	for _, cs := range l {
		if cs.matchAt(el, len(cs.parts)-1) {
			return true
		}
	}
	return false
}

func (cs complexSelector) matchAt(el *Element, idx int) bool {
	if !cs.parts[idx].match(el) {
		return false
	}
	if idx == 0 {
		return true
	}
	parent := el.AsNode().ParentElement()
	if cs.combinators[idx-1] == '>' {
		return parent != nil && cs.matchAt(parent, idx-1)
	}
	for p := parent; p != nil; p = p.AsNode().ParentElement() {
		if cs.matchAt(p, idx-1) {
			return true
		}
	}
	return false
}

func (c compoundSelector) match(el *Element) bool {
	if c.tag != "" && c.tag != "*" && c.tag != el.LocalName() {
		return false
	}
	if c.id != "" && el.Id() != c.id {
		return false
	}
	for _, class := range c.classes {
		if !el.HasClass(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		if !el.HasAttribute(a.name) {
			return false
		}
		if a.hasValue && el.GetAttribute(a.name) != a.value {
			return false
		}
	}
	return true
}

func querySelector(root *Node, selector string) (*Element, error) {
	list, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	var found *Element
	for c := root.firstChild; c != nil && found == nil; c = c.nextSibling {
		c.walk(func(n *Node) bool {
			if n.nodeType == ElementNode && list.match((*Element)(n)) {
				found = (*Element)(n)
				return false
			}
			return true
		})
	}
	return found, nil
}

func querySelectorAll(root *Node, selector string) ([]*Element, error) {
	list, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	var result []*Element
	for c := root.firstChild; c != nil; c = c.nextSibling {
		c.walk(func(n *Node) bool {
			if n.nodeType == ElementNode && list.match((*Element)(n)) {
				result = append(result, (*Element)(n))
			}
			return true
		})
	}
	return result, nil
}

// parseSelector parses a comma separated selector list.
func parseSelector(selector string) (selectorList, error) {
	var list selectorList
	for _, part := range splitSelectorList(selector) {
		cs, err := parseComplexSelector(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		list = append(list, cs)
	}
	if len(list) == 0 {
		return nil, ErrSyntax("'" + selector + "' is not a valid selector.")
	}
	return list, nil
}

// splitSelectorList splits on commas outside of attribute brackets.
func splitSelectorList(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func parseComplexSelector(s string) (complexSelector, error) {
	var cs complexSelector
	if s == "" {
		return cs, ErrSyntax("empty selector")
	}
	i := 0
	for {
		c, next, err := parseCompoundSelector(s, i)
		if err != nil {
			return cs, err
		}
		cs.parts = append(cs.parts, c)
		i = next

		sawSpace := false
		for i < len(s) && s[i] == ' ' {
			sawSpace = true
			i++
		}
		if i >= len(s) {
			return cs, nil
		}
		switch {
		case s[i] == '>':
			cs.combinators = append(cs.combinators, '>')
			i++
			for i < len(s) && s[i] == ' ' {
				i++
			}
		case sawSpace:
			cs.combinators = append(cs.combinators, ' ')
		default:
			return cs, ErrSyntax("unexpected '" + string(s[i]) + "' in selector '" + s + "'")
		}
	}
}

func parseCompoundSelector(s string, i int) (compoundSelector, int, error) {
	var c compoundSelector
	start := i
	if i < len(s) && s[i] == '*' {
		c.tag = "*"
		i++
	} else if name, next := readIdent(s, i); name != "" {
		c.tag = strings.ToLower(name)
		i = next
	}

	for i < len(s) {
		switch s[i] {
		case '#', '.':
			name, next := readIdent(s, i+1)
			if name == "" {
				return c, i, ErrSyntax("missing name after '" + string(s[i]) + "' in selector '" + s + "'")
			}
			if s[i] == '#' {
				c.id = name
			} else {
				c.classes = append(c.classes, name)
			}
			i = next
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, i, ErrSyntax("unterminated attribute selector in '" + s + "'")
			}
			c.attrs = append(c.attrs, parseAttrSelector(s[i+1:i+end]))
			i += end + 1
		default:
			if i == start {
				return c, i, ErrSyntax("unexpected '" + string(s[i]) + "' in selector '" + s + "'")
			}
			return c, i, nil
		}
	}
	if i == start {
		return c, i, ErrSyntax("empty compound in selector '" + s + "'")
	}
	return c, i, nil
}

func parseAttrSelector(body string) attrSelector {
	name, value, ok := strings.Cut(body, "=")
	a := attrSelector{name: strings.ToLower(strings.TrimSpace(name))}
	if ok {
		a.hasValue = true
		a.value = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return a
}

func readIdent(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		ch := s[i]
		if ch == '-' || ch == '_' || ch >= 0x80 ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			i++
			continue
		}
		break
	}
	return s[start:i], i
}
