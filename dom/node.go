package dom

import "strings"

// Node represents a node in the DOM tree. Element and Document share its
// memory layout and convert to and from it with AsNode.
type Node struct {
	nodeType NodeType
	nodeName string
	ownerDoc *Document

	parentNode  *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Character data for Text and Comment nodes.
	data string

	// Type-specific data (only one will be non-nil based on nodeType)
	elementData  *elementData
	documentData *documentData

	listeners *listenerTable
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

// OwnerDocument returns the Document that owns this node.
// For Document nodes, this returns nil.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// document returns the owning document, or the node itself for documents.
func (n *Node) document() *Document {
	if n.nodeType == DocumentNode {
		return (*Document)(n)
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

// AsElement returns the node as an Element if it is one.
func (n *Node) AsElement() (*Element, bool) {
	if n == nil || n.nodeType != ElementNode {
		return nil, false
	}
	return (*Element)(n), true
}

// ChildNodes returns a snapshot of the node's children.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node, or nil if this is the first child.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node, or nil if this is the last child.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parentNode {
		if cur == n {
			return true
		}
	}
	return false
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

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode:
		return ""
	case TextNode, CommentNode:
		return n.data
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
			sb.WriteString(child.data)
		case ElementNode, DocumentFragmentNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements, this replaces all children with a single text node.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode:
		return
	case TextNode, CommentNode:
		n.data = value
	default:
		for n.firstChild != nil {
			n.removeChild(n.firstChild)
		}
		if value != "" {
			n.insertBefore(n.ownerDoc.CreateTextNode(value), nil)
		}
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
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	if newChild == refChild {
		refChild = refChild.nextSibling
	}
	return n.insertBefore(newChild, refChild), nil
}

func (n *Node) validatePreInsertion(node, child *Node) error {
	if node == nil {
		return ErrHierarchyRequest("The node to insert is nil.")
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
		return ErrHierarchyRequest("Documents cannot be inserted.")
	}
	if n.nodeType == DocumentNode {
		if node.nodeType == TextNode {
			return ErrHierarchyRequest("Cannot insert Text node as a direct child of Document.")
		}
		if node.nodeType == ElementNode && n.hasElementChild() && node.parentNode != n {
			return ErrHierarchyRequest("Document can have only one element child.")
		}
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

// insertBefore links newChild into the child list without validation.
// Fragments are flattened into their children.
func (n *Node) insertBefore(newChild, refChild *Node) *Node {
	if newChild.nodeType == DocumentFragmentNode {
		for _, c := range newChild.ChildNodes() {
			n.insertBefore(c, refChild)
		}
		return newChild
	}
	if newChild.parentNode != nil {
		newChild.parentNode.removeChild(newChild)
	}
	newChild.parentNode = n
	if doc := n.document(); doc != nil {
		newChild.adopt(doc)
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
		return newChild
	}
	newChild.nextSibling = refChild
	newChild.prevSibling = refChild.prevSibling
	if refChild.prevSibling != nil {
		refChild.prevSibling.nextSibling = newChild
	} else {
		n.firstChild = newChild
	}
	refChild.prevSibling = newChild
	return newChild
}

func (n *Node) adopt(doc *Document) {
	if n.ownerDoc == doc {
		return
	}
	n.ownerDoc = doc
	for c := n.firstChild; c != nil; c = c.nextSibling {
		c.adopt(doc)
	}
}

// RemoveChild removes a child node from this node.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node and returns an error if child
// is not a child of this node.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil || child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	return n.removeChild(child), nil
}

func (n *Node) removeChild(child *Node) *Node {
	if doc := n.document(); doc != nil {
		doc.detach(child)
	}
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
	return child
}

// Remove detaches the node from its parent, if any.
func (n *Node) Remove() {
	if n.parentNode != nil {
		n.parentNode.removeChild(n)
	}
}

// SetUserData attaches value to the node under key. Passing a nil value
// deletes the entry. The data lives as long as the node does.
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

// UserData returns the value stored under key, or nil.
func (n *Node) UserData(key any) any {
	return n.userData[key]
}

// Ancestors returns the node followed by its ancestors, deepest first.
func (n *Node) Ancestors() []*Node {
	var path []*Node
	for cur := n; cur != nil; cur = cur.parentNode {
		path = append(path, cur)
	}
	return path
}

// walk visits n and its descendants in tree order.
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
