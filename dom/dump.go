package dom

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump renders the subtree rooted at n as an indented tree, one line per
// node. Whitespace-only text nodes are left out.
func Dump(n *Node) string {
	tree := treeprint.NewWithRoot(describeNode(n))
	dumpChildren(n, tree)
	return tree.String()
}

func dumpChildren(n *Node, branch treeprint.Tree) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == TextNode && strings.TrimSpace(c.nodeValue) == "" {
			continue
		}
		if c.firstChild == nil {
			branch.AddNode(describeNode(c))
			continue
		}
		dumpChildren(c, branch.AddBranch(describeNode(c)))
	}
}

func describeNode(n *Node) string {
	switch n.nodeType {
	case ElementNode:
		el := (*Element)(n)
		var sb strings.Builder
		sb.WriteString(el.LocalName())
		for _, a := range el.elementData.attrs {
			fmt.Fprintf(&sb, " %s=%q", a.Name, a.Value)
		}
		return sb.String()
	case TextNode:
		return fmt.Sprintf("#text %q", abbreviate(strings.TrimSpace(n.nodeValue), 40))
	case CommentNode:
		return fmt.Sprintf("#comment %q", abbreviate(n.nodeValue, 40))
	case DocumentTypeNode:
		return "!DOCTYPE " + n.nodeName
	}
	return n.nodeName
}

func abbreviate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
