package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element represents an element in the DOM tree.
// Element inherits from Node and provides element-specific properties and methods.
type Element Node

// Attr is a single name/value attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName string
	attrs     []Attr
	style     *CSSStyleDeclaration
	geometry  *ElementGeometry

	// expando properties set from scripts or property bags
	props map[string]any
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeName returns the tag name.
func (e *Element) NodeName() string {
	return e.TagName()
}

// TagName returns the uppercase tag name, e.g. "DIV".
func (e *Element) TagName() string {
	return e.nodeName
}

// LocalName returns the lowercase local name, e.g. "div".
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// OwnerDocument returns the document the element belongs to.
func (e *Element) OwnerDocument() *Document {
	return e.ownerDoc
}

// Id returns the element's id attribute.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the element's id attribute.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the element's class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the element's class attribute.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// HasClass reports whether the class attribute contains the given token.
func (e *Element) HasClass(name string) bool {
	for _, c := range strings.Fields(e.ClassName()) {
		if c == name {
			return true
		}
	}
	return false
}

// Attributes returns a copy of the element's attributes in document order.
func (e *Element) Attributes() []Attr {
	return append([]Attr(nil), e.elementData.attrs...)
}

// GetAttribute returns the value of the named attribute, or "" if not present.
func (e *Element) GetAttribute(name string) string {
	if i := e.attrIndex(name); i >= 0 {
		return e.elementData.attrs[i].Value
	}
	return ""
}

// HasAttribute returns true if the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	return e.attrIndex(name) >= 0
}

// SetAttribute sets the value of the named attribute.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	if i := e.attrIndex(name); i >= 0 {
		e.elementData.attrs[i].Value = value
	} else {
		e.elementData.attrs = append(e.elementData.attrs, Attr{Name: name, Value: value})
	}
	if name == "style" && e.elementData.style != nil {
		e.elementData.style.RefreshFromAttribute()
	}
}

// RemoveAttribute removes the named attribute.
func (e *Element) RemoveAttribute(name string) {
	i := e.attrIndex(name)
	if i < 0 {
		return
	}
	attrs := e.elementData.attrs
	e.elementData.attrs = append(attrs[:i], attrs[i+1:]...)
	if strings.EqualFold(name, "style") && e.elementData.style != nil {
		e.elementData.style.RefreshFromAttribute()
	}
}

// setAttributeRaw sets an attribute without re-parsing the style declaration.
func (e *Element) setAttributeRaw(name, value string) {
	if i := e.attrIndex(name); i >= 0 {
		e.elementData.attrs[i].Value = value
		return
	}
	e.elementData.attrs = append(e.elementData.attrs, Attr{Name: name, Value: value})
}

func (e *Element) attrIndex(name string) int {
	name = strings.ToLower(name)
	for i, a := range e.elementData.attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Style returns the element's inline style declaration.
func (e *Element) Style() *CSSStyleDeclaration {
	if e.elementData.style == nil {
		e.elementData.style = NewCSSStyleDeclaration(e)
	}
	return e.elementData.style
}

// reflectedAttributes are properties that read and write an attribute of the
// same name.
var reflectedAttributes = map[string]string{
	"id":          "id",
	"className":   "class",
	"title":       "title",
	"src":         "src",
	"alt":         "alt",
	"type":        "type",
	"href":        "href",
	"name":        "name",
	"value":       "value",
	"lang":        "lang",
	"dir":         "dir",
	"rel":         "rel",
	"target":      "target",
	"placeholder": "placeholder",
}

// Property returns a scripting property of the element. Reflected attributes,
// textContent, innerHTML and hidden are computed; anything else is an expando
// previously stored with SetProperty.
func (e *Element) Property(name string) (any, bool) {
	if attr, ok := reflectedAttributes[name]; ok {
		return e.GetAttribute(attr), true
	}
	switch name {
	case "textContent":
		return e.TextContent(), true
	case "innerHTML":
		return e.InnerHTML(), true
	case "hidden":
		return e.HasAttribute("hidden"), true
	case "tagName":
		return e.TagName(), true
	}
	v, ok := e.elementData.props[name]
	return v, ok
}

// SetProperty assigns a scripting property, the way `elm[name] = value`
// would in a page script.
func (e *Element) SetProperty(name string, value any) {
	if attr, ok := reflectedAttributes[name]; ok {
		e.SetAttribute(attr, stringify(value))
		return
	}
	switch name {
	case "textContent":
		e.SetTextContent(stringify(value))
		return
	case "innerHTML":
		if err := e.SetInnerHTML(stringify(value)); err != nil {
			tracer().Errorf("innerHTML on <%s>: %v", e.LocalName(), err)
		}
		return
	case "hidden":
		if b, _ := value.(bool); b {
			e.SetAttribute("hidden", "")
		} else {
			e.RemoveAttribute("hidden")
		}
		return
	}
	if e.elementData.props == nil {
		e.elementData.props = make(map[string]any)
	}
	e.elementData.props[name] = value
}

// Children returns the element children of the element.
func (e *Element) Children() []*Element {
	var result []*Element
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			result = append(result, (*Element)(c))
		}
	}
	return result
}

// ChildElementCount returns the number of child elements.
func (e *Element) ChildElementCount() int {
	return len(e.Children())
}

// FirstElementChild returns the first child element, or nil.
func (e *Element) FirstElementChild() *Element {
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// AppendChild appends a node and returns it.
func (e *Element) AppendChild(child *Node) *Node {
	return e.AsNode().AppendChild(child)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	e.AsNode().Remove()
}

// GetElementsByTagName returns descendant elements with the given tag name,
// or all descendant elements for "*".
func (e *Element) GetElementsByTagName(tagName string) []*Element {
	return collectByTagName(e.AsNode(), tagName)
}

func collectByTagName(root *Node, tagName string) []*Element {
	tagName = strings.ToLower(tagName)
	var result []*Element
	for c := root.firstChild; c != nil; c = c.nextSibling {
		c.walk(func(n *Node) bool {
			if n.nodeType == ElementNode {
				el := (*Element)(n)
				if tagName == "*" || el.LocalName() == tagName {
					result = append(result, el)
				}
			}
			return true
		})
	}
	return result
}

// QuerySelector returns the first descendant matching selector, or nil.
// An invalid selector matches nothing.
func (e *Element) QuerySelector(selector string) *Element {
	el, err := querySelector(e.AsNode(), selector)
	if err != nil {
		tracer().Debugf("querySelector(%q): %v", selector, err)
	}
	return el
}

// QuerySelectorAll returns all descendants matching selector in tree order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	els, err := querySelectorAll(e.AsNode(), selector)
	if err != nil {
		tracer().Debugf("querySelectorAll(%q): %v", selector, err)
	}
	return els
}

// Matches returns true if the element matches selector.
func (e *Element) Matches(selector string) bool {
	groups, err := parseSelector(selector)
	if err != nil {
		return false
	}
	return groups.match(e)
}

// Closest returns the nearest inclusive ancestor matching selector.
func (e *Element) Closest(selector string) *Element {
	groups, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	for cur := e; cur != nil; cur = cur.AsNode().ParentElement() {
		if groups.match(cur) {
			return cur
		}
	}
	return nil
}

// InnerHTML returns the HTML serialization of the element's children.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for child := e.firstChild; child != nil; child = child.nextSibling {
		serializeNode(child, &sb)
	}
	return sb.String()
}

// SetInnerHTML replaces all children with the parsed HTML fragment.
func (e *Element) SetInnerHTML(htmlContent string) error {
	e.AsNode().removeAllChildren()
	if htmlContent == "" || e.ownerDoc == nil {
		return nil
	}

	nodes, err := parseHTMLFragment(htmlContent, e)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		e.AsNode().insertBeforeInternal(node, nil)
	}
	return nil
}

// OuterHTML returns the HTML of the element including the element itself.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	serializeNode(e.AsNode(), &sb)
	return sb.String()
}

// TextContent returns the text content of the element.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent sets the text content of the element.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// parseHTMLFragment parses an HTML fragment in the context of an element.
func parseHTMLFragment(htmlContent string, context *Element) ([]*Node, error) {
	tagName := context.LocalName()
	contextNode := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tagName)),
		Data:     tagName,
	}

	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), contextNode)
	if err != nil {
		return nil, err
	}

	result := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if node := convertHTMLNode(n, context.ownerDoc); node != nil {
			result = append(result, node)
		}
	}
	return result, nil
}

// convertHTMLNode converts an html.Node subtree to dom nodes owned by doc.
func convertHTMLNode(n *html.Node, doc *Document) *Node {
	var node *Node

	switch n.Type {
	case html.TextNode:
		node = doc.CreateTextNode(n.Data)
	case html.ElementNode:
		el := doc.CreateElement(n.Data)
		for _, attr := range n.Attr {
			el.setAttributeRaw(strings.ToLower(attr.Key), attr.Val)
		}
		node = el.AsNode()
	case html.CommentNode:
		node = doc.CreateComment(n.Data)
	case html.DoctypeNode:
		node = newNode(DocumentTypeNode, n.Data, doc)
	default:
		return nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertHTMLNode(c, doc); child != nil {
			node.insertBeforeInternal(child, nil)
		}
	}
	return node
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return fmt.Sprint(v)
}
