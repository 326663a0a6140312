package domutil

import (
	"sort"

	"github.com/chrisuehlinger/videostory/dom"
)

// elmKey is the user-data key under which an element's wrapper is stored.
type elmKey struct{}

// Elm is an extended element: a *dom.Element plus builder methods and the
// per-element state of the extension layer.
type Elm struct {
	el *dom.Element

	extended bool
	oneShot  bool

	// css is the text node this element owns in the dynamic stylesheet.
	css *dom.Node

	click    dom.ListenerID
	hasClick bool
}

// stateOf returns the wrapper stored on el, creating an unmarked one if
// needed.
func stateOf(el *dom.Element) *Elm {
	if e := lookup(el); e != nil {
		return e
	}
	e := &Elm{el: el}
	el.AsNode().SetUserData(elmKey{}, e)
	return e
}

func lookup(el *dom.Element) *Elm {
	if el == nil {
		return nil
	}
	e, _ := el.AsNode().UserData(elmKey{}).(*Elm)
	return e
}

// Extend marks el as extended and returns its wrapper. Extending an element
// again returns the same wrapper unchanged. Extend(nil) returns nil.
func Extend(el *dom.Element) *Elm {
	if el == nil {
		return nil
	}
	e := stateOf(el)
	if e.extended {
		return e
	}
	AddOneShotCapabilities(el)
	e.extended = true
	return e
}

// IsExtended reports whether Extend has been called on el.
func IsExtended(el *dom.Element) bool {
	e := lookup(el)
	return e != nil && e.extended
}

// Element returns the wrapped element.
func (e *Elm) Element() *dom.Element {
	return e.el
}

// Node returns the wrapped element as a node.
func (e *Elm) Node() *dom.Node {
	return e.el.AsNode()
}

// document returns the document that owns the element.
func (e *Elm) document() *dom.Document {
	return e.el.OwnerDocument()
}

// --- Builders --------------------------------------------------------------

// WithID sets the element's id.
func (e *Elm) WithID(id string) *Elm {
	e.el.SetId(id)
	return e
}

// WithClassName replaces the element's class attribute.
func (e *Elm) WithClassName(className string) *Elm {
	e.el.SetClassName(className)
	return e
}

// WithType sets the type attribute.
func (e *Elm) WithType(typ string) *Elm {
	e.el.SetAttribute("type", typ)
	return e
}

// WithSrc sets the src attribute.
func (e *Elm) WithSrc(src string) *Elm {
	e.el.SetAttribute("src", src)
	return e
}

// WithAlt sets the alt attribute.
func (e *Elm) WithAlt(alt string) *Elm {
	e.el.SetAttribute("alt", alt)
	return e
}

// WithTitle sets the title attribute.
func (e *Elm) WithTitle(title string) *Elm {
	e.el.SetAttribute("title", title)
	return e
}

// WithValue sets the value attribute.
func (e *Elm) WithValue(value string) *Elm {
	e.el.SetAttribute("value", value)
	return e
}

// WithProps assigns each entry as a scripting property.
func (e *Elm) WithProps(props map[string]any) *Elm {
	for _, name := range sortedKeys(props) {
		e.el.SetProperty(name, props[name])
	}
	return e
}

// WithHTML replaces all children with the parsed markup. Listeners and
// scoped CSS of the discarded children are not released.
func (e *Elm) WithHTML(markup string) *Elm {
	if err := e.el.SetInnerHTML(markup); err != nil {
		tracer().Errorf("withHTML on <%s>: %v", e.el.LocalName(), err)
	}
	return e
}

// WithText appends a text node.
func (e *Elm) WithText(text string) *Elm {
	if doc := e.document(); doc != nil {
		e.el.AppendChild(doc.CreateTextNode(text))
	}
	return e
}

// WithStyles applies a flat "prop: value; prop: value" list to the inline
// style. See SetStyles.
func (e *Elm) WithStyles(styles string) *Elm {
	SetStyles(e.el, styles)
	return e
}

// WithCss sets the element's scoped CSS. See SetCss.
func (e *Elm) WithCss(cssText string) *Elm {
	SetCss(e.el, cssText)
	return e
}

// WithBackgroundImage sets the inline background-image to url.
func (e *Elm) WithBackgroundImage(url string) *Elm {
	e.el.Style().Set("backgroundImage", `url("`+url+`")`)
	return e
}

// WithClickHandler binds handler to clicks on the element. There is one
// handler slot per element; binding again replaces the previous handler.
func (e *Elm) WithClickHandler(handler func()) *Elm {
	if e.hasClick {
		e.el.RemoveEventListener("click", e.click)
		e.hasClick = false
	}
	if handler == nil {
		return e
	}
	e.click = e.el.AddEventListener("click", func(*dom.Event) {
		handler()
	}, dom.ListenerOptions{})
	e.hasClick = true
	return e
}

// --- Tree helpers ----------------------------------------------------------

// ReplaceWith puts other into the element's slot in its parent and detaches
// the element. It does nothing if the element has no parent. It returns
// other.
func (e *Elm) ReplaceWith(other *Elm) *Elm {
	parent := e.Node().ParentNode()
	if parent == nil || other == nil {
		return other
	}
	parent.InsertBefore(other.Node(), e.Node())
	parent.RemoveChild(e.Node())
	return other
}

// Append appends child and returns it.
func (e *Elm) Append(child *Elm) *Elm {
	if child == nil {
		return nil
	}
	e.el.AppendChild(child.Node())
	return child
}

// AppendNew creates an element like NewElm, appends it and returns it.
func (e *Elm) AppendNew(tag string, settings *Settings) *Elm {
	return e.Append(NewElm(e.document(), tag, settings))
}

// ClearChildren removes all children of the element.
func (e *Elm) ClearChildren() {
	n := e.Node()
	for c := n.FirstChild(); c != nil; c = n.FirstChild() {
		n.RemoveChild(c)
	}
}

// SetStyles is the method form of SetStyles.
func (e *Elm) SetStyles(styles string) *Elm {
	return e.WithStyles(styles)
}

// SetCss is the method form of SetCss.
func (e *Elm) SetCss(cssText string) *Elm {
	return e.WithCss(cssText)
}

// ClearCss is the method form of ClearCss.
func (e *Elm) ClearCss() {
	ClearCss(e.el)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
