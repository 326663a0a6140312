package domutil

import "github.com/chrisuehlinger/videostory/dom"

// Settings configures NewElm. Fields are applied in declaration order.
type Settings struct {
	Props   map[string]any    // scripting properties, as elm[name] = value
	Attribs map[string]string // attributes
	Styles  map[string]string // inline style, camelCase names
	HTML    string            // inner markup, replaces children
	Text    string            // appended as a single text node
}

// NewElm creates an extended element named tag in doc.
func NewElm(doc *dom.Document, tag string, settings *Settings) *Elm {
	el := doc.CreateElement(tag)
	if settings == nil {
		return Extend(el)
	}
	for _, name := range sortedKeys(settings.Props) {
		el.SetProperty(name, settings.Props[name])
	}
	for _, name := range sortedKeys(settings.Attribs) {
		el.SetAttribute(name, settings.Attribs[name])
	}
	for _, name := range sortedKeys(settings.Styles) {
		el.Style().Set(name, settings.Styles[name])
	}
	if settings.HTML != "" {
		if err := el.SetInnerHTML(settings.HTML); err != nil {
			tracer().Errorf("newElm <%s>: %v", tag, err)
		}
	}
	if settings.Text != "" {
		el.AppendChild(doc.CreateTextNode(settings.Text))
	}
	return Extend(el)
}

// GetElm returns the extended first element matching selector, or nil.
func GetElm(doc *dom.Document, selector string) *Elm {
	return Extend(doc.QuerySelector(selector))
}

// GetElms returns all elements matching selector, extended.
func GetElms(doc *dom.Document, selector string) []*Elm {
	els := doc.QuerySelectorAll(selector)
	out := make([]*Elm, len(els))
	for i, el := range els {
		out[i] = Extend(el)
	}
	return out
}
