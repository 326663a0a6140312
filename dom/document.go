package dom

import (
	"io"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Document represents the entire HTML document.
type Document Node

// documentData holds data specific to Document nodes.
type documentData struct {
	url       string
	frames    []frameRequest
	nextFrame int
	origin    time.Time
}

// NewDocument creates a new empty HTML Document.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{
		url:    "about:blank",
		origin: time.Now(),
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// NewHTMLDocument creates a document with the html, head, title and body
// skeleton, like DOMImplementation.createHTMLDocument.
func NewHTMLDocument(title string) *Document {
	doc := NewDocument()
	doc.AsNode().insertBeforeInternal(newNode(DocumentTypeNode, "html", doc), nil)
	root := doc.CreateElement("html")
	head := doc.CreateElement("head")
	if title != "" {
		t := doc.CreateElement("title")
		t.SetTextContent(title)
		head.AppendChild(t.AsNode())
	}
	root.AppendChild(head.AsNode())
	root.AppendChild(doc.CreateElement("body").AsNode())
	doc.AsNode().AppendChild(root.AsNode())
	return doc
}

// ParseHTML parses a complete HTML document.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if node := convertHTMLNode(c, doc); node != nil {
			doc.AsNode().insertBeforeInternal(node, nil)
		}
	}
	return doc, nil
}

// ParseHTMLString parses a complete HTML document from a string.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// URL returns the document's URL.
func (d *Document) URL() string {
	return d.documentData.url
}

// SetURL sets the document's URL.
func (d *Document) SetURL(url string) {
	d.documentData.url = url
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	for child := d.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

func (d *Document) rootChild(localName string) *Element {
	docEl := d.DocumentElement()
	if docEl == nil {
		return nil
	}
	for child := docEl.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode && (*Element)(child).LocalName() == localName {
			return (*Element)(child)
		}
	}
	return nil
}

// EnsureHead returns the <head> element, creating the html and head
// elements as needed.
func (d *Document) EnsureHead() *Element {
	if head := d.Head(); head != nil {
		return head
	}
	docEl := d.DocumentElement()
	if docEl == nil {
		docEl = d.CreateElement("html")
		d.AsNode().AppendChild(docEl.AsNode())
	}
	head := d.CreateElement("head")
	docEl.AsNode().InsertBefore(head.AsNode(), docEl.firstChild)
	return head
}

// Title returns the text of the document's <title>.
func (d *Document) Title() string {
	head := d.Head()
	if head == nil {
		return ""
	}
	for _, el := range head.Children() {
		if el.LocalName() == "title" {
			return strings.TrimSpace(el.TextContent())
		}
	}
	return ""
}

// CreateElement creates a new HTML element with the given tag name.
func (d *Document) CreateElement(tagName string) *Element {
	localName := strings.ToLower(tagName)
	node := newNode(ElementNode, strings.ToUpper(localName), d)
	node.elementData = &elementData{localName: localName}
	return (*Element)(node)
}

// CreateTextNode creates a new Text node.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.nodeValue = data
	return node
}

// CreateComment creates a new Comment node.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.nodeValue = data
	return node
}

// CreateDocumentFragment creates an empty DocumentFragment.
func (d *Document) CreateDocumentFragment() *Node {
	return newNode(DocumentFragmentNode, "#document-fragment", d)
}

// GetElementById returns the first element in tree order with the given id.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.AsNode().walk(func(n *Node) bool {
		if n.nodeType == ElementNode && (*Element)(n).Id() == id {
			found = (*Element)(n)
			return false
		}
		return true
	})
	return found
}

// GetElementsByTagName returns all elements with the given tag name.
func (d *Document) GetElementsByTagName(tagName string) []*Element {
	return collectByTagName(d.AsNode(), tagName)
}

// QuerySelector returns the first element matching selector, or nil.
func (d *Document) QuerySelector(selector string) *Element {
	el, err := querySelector(d.AsNode(), selector)
	if err != nil {
		tracer().Debugf("querySelector(%q): %v", selector, err)
	}
	return el
}

// QuerySelectorAll returns all elements matching selector in tree order.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	els, err := querySelectorAll(d.AsNode(), selector)
	if err != nil {
		tracer().Debugf("querySelectorAll(%q): %v", selector, err)
	}
	return els
}

// Serialize returns the HTML serialization of the whole document.
func (d *Document) Serialize() string {
	var sb strings.Builder
	for child := d.firstChild; child != nil; child = child.nextSibling {
		serializeNode(child, &sb)
	}
	return sb.String()
}

// Now returns the time elapsed since the document was created, the
// equivalent of performance.now().
func (d *Document) Now() time.Duration {
	return time.Since(d.documentData.origin)
}
