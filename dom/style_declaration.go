package dom

import (
	"strings"
	"unicode"
)

// CSSStyleDeclaration represents an element's inline style. It stays in sync
// with the element's style attribute.
type CSSStyleDeclaration struct {
	element *Element

	// property name (kebab-case) -> declaration
	declarations map[string]*styleProperty

	// order in which properties were first set, for cssText serialization
	propertyOrder []string
}

// styleProperty holds a single CSS property's value and priority.
type styleProperty struct {
	value    string
	priority string // "important" or ""
}

// NewCSSStyleDeclaration creates a declaration bound to element, parsing
// its current style attribute.
func NewCSSStyleDeclaration(element *Element) *CSSStyleDeclaration {
	sd := &CSSStyleDeclaration{
		element:      element,
		declarations: make(map[string]*styleProperty),
	}
	if element != nil && element.HasAttribute("style") {
		sd.parse(element.GetAttribute("style"))
	}
	return sd
}

// CSSText returns the textual representation of the declaration block.
func (sd *CSSStyleDeclaration) CSSText() string {
	parts := make([]string, 0, len(sd.propertyOrder))
	for _, prop := range sd.propertyOrder {
		sp := sd.declarations[prop]
		part := prop + ": " + sp.value
		if sp.priority == "important" {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

// SetCSSText replaces all properties with those parsed from cssText.
func (sd *CSSStyleDeclaration) SetCSSText(cssText string) {
	sd.reset()
	sd.parse(cssText)
	sd.syncToAttribute()
}

// Length returns the number of properties set.
func (sd *CSSStyleDeclaration) Length() int {
	return len(sd.propertyOrder)
}

// PropertyNames returns all property names in declaration order.
func (sd *CSSStyleDeclaration) PropertyNames() []string {
	return append([]string(nil), sd.propertyOrder...)
}

// GetPropertyValue returns the value of a CSS property, given in either
// kebab-case or camelCase.
func (sd *CSSStyleDeclaration) GetPropertyValue(property string) string {
	if sp, ok := sd.declarations[normalizeCSSPropertyName(property)]; ok {
		return sp.value
	}
	return ""
}

// GetPropertyPriority returns "important" or "".
func (sd *CSSStyleDeclaration) GetPropertyPriority(property string) string {
	if sp, ok := sd.declarations[normalizeCSSPropertyName(property)]; ok {
		return sp.priority
	}
	return ""
}

// Get reads a property by its scripting (camelCase) name, as `style[name]`.
func (sd *CSSStyleDeclaration) Get(name string) string {
	return sd.GetPropertyValue(name)
}

// Set assigns a property by its scripting (camelCase) name, as
// `style[name] = value`. An empty value removes the property.
func (sd *CSSStyleDeclaration) Set(name, value string) {
	sd.SetProperty(name, value)
}

// SetProperty sets a CSS property with an optional priority.
// An empty value removes the property.
func (sd *CSSStyleDeclaration) SetProperty(property, value string, priority ...string) {
	property = normalizeCSSPropertyName(property)
	if property == "" {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		sd.RemoveProperty(property)
		return
	}
	pri := ""
	if len(priority) > 0 && strings.EqualFold(priority[0], "important") {
		pri = "important"
	}
	sd.put(property, value, pri)
	sd.syncToAttribute()
}

// RemoveProperty removes a CSS property and returns its old value.
func (sd *CSSStyleDeclaration) RemoveProperty(property string) string {
	property = normalizeCSSPropertyName(property)
	sp, ok := sd.declarations[property]
	if !ok {
		return ""
	}
	delete(sd.declarations, property)
	for i, p := range sd.propertyOrder {
		if p == property {
			sd.propertyOrder = append(sd.propertyOrder[:i], sd.propertyOrder[i+1:]...)
			break
		}
	}
	sd.syncToAttribute()
	return sp.value
}

// RefreshFromAttribute reloads declarations from the element's style
// attribute after it was changed directly.
func (sd *CSSStyleDeclaration) RefreshFromAttribute() {
	sd.reset()
	if sd.element != nil {
		sd.parse(sd.element.GetAttribute("style"))
	}
}

func (sd *CSSStyleDeclaration) reset() {
	sd.declarations = make(map[string]*styleProperty)
	sd.propertyOrder = nil
}

func (sd *CSSStyleDeclaration) put(property, value, priority string) {
	if _, exists := sd.declarations[property]; !exists {
		sd.propertyOrder = append(sd.propertyOrder, property)
	}
	sd.declarations[property] = &styleProperty{value: value, priority: priority}
}

// parse reads a `prop: value; prop: value` list. Clauses without a colon or
// with an empty name or value are ignored.
func (sd *CSSStyleDeclaration) parse(text string) {
	for _, part := range strings.Split(text, ";") {
		colon := strings.Index(part, ":")
		if colon == -1 {
			continue
		}
		property := normalizeCSSPropertyName(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		if property == "" || value == "" {
			continue
		}
		priority := ""
		if bang := strings.LastIndex(value, "!"); bang >= 0 &&
			strings.EqualFold(strings.TrimSpace(value[bang+1:]), "important") {
			priority = "important"
			value = strings.TrimSpace(value[:bang])
		}
		sd.put(property, value, priority)
	}
}

// syncToAttribute writes the declarations back to the style attribute.
func (sd *CSSStyleDeclaration) syncToAttribute() {
	if sd.element == nil {
		return
	}
	if len(sd.propertyOrder) == 0 {
		sd.element.RemoveAttribute("style")
		return
	}
	sd.element.setAttributeRaw("style", sd.CSSText())
}

// normalizeCSSPropertyName converts camelCase to kebab-case and lowercases.
// "backgroundColor" -> "background-color", "WebkitTransform" -> "-webkit-transform".
// Custom properties ("--x") are kept as written.
func normalizeCSSPropertyName(name string) string {
	if name == "" || strings.HasPrefix(name, "--") {
		return name
	}
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var result strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			result.WriteByte('-')
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
