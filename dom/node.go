package dom

import (
	"strings"
)

// Node represents a node in the DOM tree. Document, Element and Text are
// defined on top of it and can be converted back with AsNode.
type Node struct {
	nodeType   NodeType
	nodeName   string
	nodeValue  string
	ownerDoc   *Document
	parentNode *Node

	// First/last child and sibling pointers for traversal
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Type-specific data (only one will be non-nil based on nodeType)
	elementData  *elementData
	documentData *documentData

	listeners *listenerRegistry
	userData  map[any]any
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text".
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the value of text and comment nodes, "" otherwise.
func (n *Node) NodeValue() string {
	return n.nodeValue
}

// SetNodeValue sets the value of the node.
// This only has an effect on text and comment nodes.
func (n *Node) SetNodeValue(value string) {
	switch n.nodeType {
	case TextNode, CommentNode:
		n.nodeValue = value
	}
}

// OwnerDocument returns the Document that owns this node.
// For Document nodes, this returns nil.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent Element, or nil if the parent is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes returns a snapshot of the node's children.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return children
}

// GetRootNode returns the topmost ancestor of the node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// IsConnected returns true if the node's root is a document.
func (n *Node) IsConnected() bool {
	return n.GetRootNode().nodeType == DocumentNode
}

// Contains returns true if other is this node or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parentNode {
		if c == n {
			return true
		}
	}
	return false
}

// UserData returns the value stored under key with SetUserData, or nil.
func (n *Node) UserData(key any) any {
	if n.userData == nil {
		return nil
	}
	return n.userData[key]
}

// SetUserData attaches a value to the node under key. The value lives as long
// as the node does. A nil value removes the key.
func (n *Node) SetUserData(key, value any) {
	if value == nil {
		delete(n.userData, key)
		return
	}
	if n.userData == nil {
		n.userData = make(map[any]any)
	}
	n.userData[key] = value
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return ""
	case TextNode, CommentNode:
		return n.nodeValue
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.nodeValue)
		case ElementNode, DocumentFragmentNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements and fragments, this replaces all children with a single text node.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return
	case TextNode, CommentNode:
		n.SetNodeValue(value)
	default:
		n.removeAllChildren()
		if value != "" && n.ownerDoc != nil {
			n.AppendChild(n.ownerDoc.CreateTextNode(value))
		}
	}
}

func (n *Node) removeAllChildren() {
	for n.firstChild != nil {
		n.removeChildInternal(n.firstChild)
	}
}

// AppendChild adds a node to the end of the list of children of this node.
// For error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of the list of children of this node.
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		tracer().Debugf("insert rejected in %s: %v", n.nodeName, err)
		return nil, err
	}
	return n.insertBefore(newChild, refChild), nil
}

// validatePreInsertion implements the pre-insertion validity checks.
// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (n *Node) validatePreInsertion(node, child *Node) error {
	if node == nil {
		return ErrHierarchyRequest("The node to be inserted is null.")
	}
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
	default:
		return ErrHierarchyRequest("The operation would yield an incorrect node tree.")
	}
	if node.Contains(n) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && child.parentNode != n {
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	if node.nodeType == DocumentNode {
		return ErrHierarchyRequest("A document cannot be inserted.")
	}
	if n.nodeType == DocumentNode {
		if node.nodeType == TextNode {
			return ErrHierarchyRequest("Cannot insert Text node as a direct child of Document.")
		}
		if node.nodeType == ElementNode && n.hasElementChild() {
			return ErrHierarchyRequest("Document already has a document element.")
		}
	} else if node.nodeType == DocumentTypeNode {
		return ErrHierarchyRequest("DocumentType nodes can only be children of Document.")
	}
	return nil
}

func (n *Node) hasElementChild() bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return true
		}
	}
	return false
}

func (n *Node) insertBefore(newChild, refChild *Node) *Node {
	// A fragment moves its children, not itself
	if newChild.nodeType == DocumentFragmentNode {
		for _, child := range newChild.ChildNodes() {
			newChild.removeChildInternal(child)
			n.insertBeforeInternal(child, refChild)
		}
		return newChild
	}

	if newChild == refChild {
		return newChild
	}
	if newChild.parentNode != nil {
		newChild.parentNode.removeChildInternal(newChild)
	}
	n.insertBeforeInternal(newChild, refChild)
	return newChild
}

// insertBeforeInternal links newChild before refChild without validation.
// If refChild is nil, appends to the end.
func (n *Node) insertBeforeInternal(newChild, refChild *Node) {
	newChild.parentNode = n

	doc := n.ownerDoc
	if n.nodeType == DocumentNode {
		doc = (*Document)(n)
	}
	if doc != nil && newChild.ownerDoc != doc {
		adoptNode(newChild, doc)
	}

	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
		return
	}

	newChild.prevSibling = refChild.prevSibling
	newChild.nextSibling = refChild
	if refChild.prevSibling != nil {
		refChild.prevSibling.nextSibling = newChild
	} else {
		n.firstChild = newChild
	}
	refChild.prevSibling = newChild
}

// adoptNode recursively sets the ownerDocument for a node and its descendants.
func adoptNode(node *Node, doc *Document) {
	node.ownerDoc = doc
	for child := node.firstChild; child != nil; child = child.nextSibling {
		adoptNode(child, doc)
	}
}

// RemoveChild removes a child node from this node.
// For error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node from this node.
// Returns an error if the child is not a child of this node.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrNotFound("The node to be removed is null.")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.removeChildInternal(child)
	return child, nil
}

// removeChildInternal unlinks child without checking that it is a child.
func (n *Node) removeChildInternal(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// ReplaceChild replaces oldChild with newChild and returns oldChild.
// For error-returning version, use ReplaceChildWithError.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	result, _ := n.ReplaceChildWithError(newChild, oldChild)
	return result
}

// ReplaceChildWithError replaces oldChild with newChild and returns oldChild.
func (n *Node) ReplaceChildWithError(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil || oldChild.parentNode != n {
		return nil, ErrNotFound("The node to be replaced is not a child of this node.")
	}
	if newChild == oldChild {
		return oldChild, nil
	}
	ref := oldChild.nextSibling
	if ref == newChild {
		ref = newChild.nextSibling
	}
	n.removeChildInternal(oldChild)
	if _, err := n.InsertBeforeWithError(newChild, ref); err != nil {
		// put the old child back where it was
		n.insertBeforeInternal(oldChild, ref)
		return nil, err
	}
	return oldChild, nil
}

// Remove detaches the node from its parent, if any.
func (n *Node) Remove() {
	if n.parentNode != nil {
		n.parentNode.removeChildInternal(n)
	}
}

// CloneNode returns a copy of the node. With deep set, descendants are copied
// too. Event listeners and user data are not copied.
func (n *Node) CloneNode(deep bool) *Node {
	clone := newNode(n.nodeType, n.nodeName, n.ownerDoc)
	clone.nodeValue = n.nodeValue
	if n.elementData != nil {
		ed := *n.elementData
		ed.attrs = append([]Attr(nil), n.elementData.attrs...)
		ed.style = nil
		ed.geometry = nil
		clone.elementData = &ed
	}
	if deep {
		for c := n.firstChild; c != nil; c = c.nextSibling {
			clone.insertBeforeInternal(c.CloneNode(true), nil)
		}
	}
	return clone
}

// walk visits n and its descendants in tree order until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
