// Package dom provides the live document tree that the event core overlays
// with gesture semantics. It is a reduced DOM: nodes, elements with
// attributes, class lists and layout rectangles, documents with hit testing,
// focus and pointer capture, and native event dispatch.
package dom

// NodeType represents the type of a Node as defined by the DOM standard.
type NodeType uint16

const (
	// ElementNode represents an Element node.
	ElementNode NodeType = 1
	// TextNode represents a Text node.
	TextNode NodeType = 3
	// CommentNode represents a Comment node.
	CommentNode NodeType = 8
	// DocumentNode represents a Document node.
	DocumentNode NodeType = 9
	// DocumentFragmentNode represents a DocumentFragment node.
	DocumentFragmentNode NodeType = 11
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	case CommentNode:
		return "COMMENT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	case DocumentFragmentNode:
		return "DOCUMENT_FRAGMENT_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}
