package dom

import (
	"strconv"
	"strings"

	"github.com/chrisuehlinger/turbo/geom"
)

// Element represents an element in the DOM tree.
type Element Node

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName string
	tagName   string
	attrs     []Attr
	classList *DOMTokenList

	// Layout rectangle in client coordinates, set by whoever lays the tree out.
	bounds    geom.Rect
	hasBounds bool
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode.
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// NodeName returns the uppercase tag name.
func (e *Element) NodeName() string {
	return e.nodeName
}

// TagName returns the tag name of the element in uppercase.
func (e *Element) TagName() string {
	return e.elementData.tagName
}

// LocalName returns the lowercase local name of the element.
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// OwnerDocument returns the document the element belongs to.
func (e *Element) OwnerDocument() *Document {
	return e.ownerDoc
}

// ParentElement returns the parent element, or nil.
func (e *Element) ParentElement() *Element {
	return e.AsNode().ParentElement()
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

// ClassList returns the live token list backed by the class attribute.
func (e *Element) ClassList() *DOMTokenList {
	if e.elementData.classList == nil {
		e.elementData.classList = newDOMTokenList(e, "class")
	}
	return e.elementData.classList
}

// Attributes returns a copy of the element's attributes in order.
func (e *Element) Attributes() []Attr {
	return append([]Attr(nil), e.elementData.attrs...)
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

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	if i := e.attrIndex(name); i >= 0 {
		return e.elementData.attrs[i].Value
	}
	return ""
}

// HasAttribute reports whether the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	return e.attrIndex(name) >= 0
}

// SetAttribute sets the value of an attribute.
// Invalid names are silently ignored; use SetAttributeWithError to observe them.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError sets the value of an attribute and returns an
// InvalidCharacterError for names that are not valid attribute names.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !isValidName(name) {
		return ErrInvalidCharacter("The string contains invalid characters.")
	}
	if i := e.attrIndex(name); i >= 0 {
		e.elementData.attrs[i].Value = value
		return nil
	}
	e.elementData.attrs = append(e.elementData.attrs, Attr{Name: strings.ToLower(name), Value: value})
	return nil
}

// RemoveAttribute removes the named attribute.
func (e *Element) RemoveAttribute(name string) {
	if i := e.attrIndex(name); i >= 0 {
		e.elementData.attrs = append(e.elementData.attrs[:i], e.elementData.attrs[i+1:]...)
	}
}

// ToggleAttribute toggles a boolean attribute and reports whether it is now present.
func (e *Element) ToggleAttribute(name string, force ...bool) bool {
	has := e.HasAttribute(name)
	want := !has
	if len(force) > 0 {
		want = force[0]
	}
	switch {
	case want && !has:
		e.SetAttribute(name, "")
	case !want && has:
		e.RemoveAttribute(name)
	}
	return want
}

// isValidName reports whether name is usable as an element or attribute name.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '/', '>', '<', '"', '\'', '=':
			return false
		}
	}
	return true
}

// Children returns the element children of the element.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			out = append(out, (*Element)(c))
		}
	}
	return out
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	return len(e.Children())
}

// FirstElementChild returns the first element child, or nil.
func (e *Element) FirstElementChild() *Element {
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// Append appends each node or string (as a Text node) to the element.
func (e *Element) Append(nodes ...any) {
	_ = e.AppendWithError(nodes...)
}

// AppendWithError appends nodes and returns the first hierarchy error.
func (e *Element) AppendWithError(nodes ...any) error {
	for _, item := range nodes {
		var n *Node
		switch v := item.(type) {
		case *Node:
			n = v
		case *Element:
			n = v.AsNode()
		case string:
			n = e.ownerDoc.CreateTextNode(v)
		default:
			return ErrHierarchyRequest("Unsupported node value.")
		}
		if _, err := e.AsNode().AppendChildWithError(n); err != nil {
			return err
		}
	}
	return nil
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	e.AsNode().Remove()
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Node) bool {
	return e.AsNode().Contains(other)
}

// TextContent returns the concatenated text of the element's descendants.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// SetBoundingRect records the element's layout rectangle in client
// coordinates. Hit testing only considers elements with a rectangle.
func (e *Element) SetBoundingRect(r geom.Rect) {
	e.elementData.bounds = r.Canon()
	e.elementData.hasBounds = true
}

// ClearBoundingRect forgets the element's layout rectangle.
func (e *Element) ClearBoundingRect() {
	e.elementData.bounds = geom.Rect{}
	e.elementData.hasBounds = false
}

// BoundingRect returns the element's layout rectangle. Elements that were
// never laid out fall back to a "data-bounds" attribute of the form
// "x,y,width,height".
func (e *Element) BoundingRect() (geom.Rect, bool) {
	if e.elementData.hasBounds {
		return e.elementData.bounds, true
	}
	return parseBounds(e.GetAttribute("data-bounds"))
}

func parseBounds(v string) (geom.Rect, bool) {
	if v == "" {
		return geom.Rect{}, false
	}
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 4 {
		return geom.Rect{}, false
	}
	var f [4]float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return geom.Rect{}, false
		}
		f[i] = n
	}
	return geom.RectXYWH(f[0], f[1], f[2], f[3]).Canon(), true
}

// Focus makes the element the document's active element.
func (e *Element) Focus() {
	if doc := e.ownerDoc; doc != nil {
		doc.AsNode().documentData.activeElement = e
	}
}

// Blur removes focus from the element if it has it.
func (e *Element) Blur() {
	if doc := e.ownerDoc; doc != nil && doc.AsNode().documentData.activeElement == e {
		doc.AsNode().documentData.activeElement = nil
	}
}

// SetPointerCapture retargets subsequent events for pointerID to e.
func (e *Element) SetPointerCapture(pointerID int) error {
	if !e.AsNode().IsConnected() {
		return ErrInvalidState("The element is not connected to a document.")
	}
	e.ownerDoc.AsNode().documentData.capture[pointerID] = e
	return nil
}

// ReleasePointerCapture releases a capture held by e.
func (e *Element) ReleasePointerCapture(pointerID int) {
	if doc := e.ownerDoc; doc != nil && doc.AsNode().documentData.capture[pointerID] == e {
		delete(doc.AsNode().documentData.capture, pointerID)
	}
}

// HasPointerCapture reports whether e holds the capture for pointerID.
func (e *Element) HasPointerCapture(pointerID int) bool {
	doc := e.ownerDoc
	return doc != nil && doc.AsNode().documentData.capture[pointerID] == e
}

// AddEventListener registers a listener on the element.
func (e *Element) AddEventListener(eventType string, fn EventListener, opts ListenerOptions) ListenerID {
	return e.AsNode().AddEventListener(eventType, fn, opts)
}

// RemoveEventListener unregisters a listener from the element.
func (e *Element) RemoveEventListener(eventType string, id ListenerID) bool {
	return e.AsNode().RemoveEventListener(eventType, id)
}

// DispatchEvent dispatches ev with e as its target.
func (e *Element) DispatchEvent(ev Event) bool {
	return e.AsNode().DispatchEvent(ev)
}
