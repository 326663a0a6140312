package dom

import (
	"html"
	"strings"
)

// serializeNode serializes a node to HTML.
func serializeNode(n *Node, sb *strings.Builder) {
	switch n.nodeType {
	case TextNode:
		if p := n.ParentElement(); p != nil && isRawTextElement(p.LocalName()) {
			sb.WriteString(n.nodeValue)
			return
		}
		sb.WriteString(html.EscapeString(n.nodeValue))
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.nodeValue)
		sb.WriteString("-->")
	case DocumentTypeNode:
		sb.WriteString("<!DOCTYPE ")
		sb.WriteString(n.nodeName)
		sb.WriteString(">")
	case ElementNode:
		el := (*Element)(n)
		tagName := el.LocalName()
		sb.WriteString("<")
		sb.WriteString(tagName)
		for _, attr := range el.elementData.attrs {
			sb.WriteString(" ")
			sb.WriteString(attr.Name)
			sb.WriteString("=\"")
			sb.WriteString(html.EscapeString(attr.Value))
			sb.WriteString("\"")
		}
		sb.WriteString(">")
		if isVoidElement(tagName) {
			return
		}
		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}
		sb.WriteString("</")
		sb.WriteString(tagName)
		sb.WriteString(">")
	case DocumentFragmentNode, DocumentNode:
		for child := n.firstChild; child != nil; child = child.nextSibling {
			serializeNode(child, sb)
		}
	}
}

// isVoidElement returns true if the element has no end tag.
func isVoidElement(tagName string) bool {
	switch tagName {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// isRawTextElement returns true for elements whose text is not escaped.
func isRawTextElement(tagName string) bool {
	switch tagName {
	case "script", "style", "xmp", "iframe", "noembed", "noframes":
		return true
	}
	return false
}
