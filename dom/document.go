package dom

import (
	"log/slog"
	"strings"

	"github.com/chrisuehlinger/turbo/geom"
)

// Document represents the entire document tree.
type Document Node

// documentData holds data specific to Document nodes.
type documentData struct {
	activeElement *Element
	capture       map[int]*Element
	onError       func(error)
}

// NewDocument creates a new empty Document.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{capture: make(map[int]*Element)}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// NewHTMLDocument creates a Document with html, head and body elements.
func NewHTMLDocument() *Document {
	doc := NewDocument()
	htmlEl := doc.CreateElement("html")
	htmlEl.Append(doc.CreateElement("head"), doc.CreateElement("body"))
	doc.AsNode().AppendChild(htmlEl.AsNode())
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode.
func (d *Document) NodeType() NodeType {
	return DocumentNode
}

// NodeName returns "#document".
func (d *Document) NodeName() string {
	return d.nodeName
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	for c := d.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

func (d *Document) rootChild(localName string) *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for _, c := range root.Children() {
		if c.LocalName() == localName {
			return c
		}
	}
	return nil
}

// Head returns the head element, or nil.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

// CreateElement creates a new element with the given tag name.
// Invalid names yield nil; use CreateElementWithError to observe the error.
func (d *Document) CreateElement(tagName string) *Element {
	el, _ := d.CreateElementWithError(tagName)
	return el
}

// CreateElementWithError creates a new element and returns an
// InvalidCharacterError when tagName is not a valid name.
func (d *Document) CreateElementWithError(tagName string) (*Element, error) {
	if !isValidName(tagName) {
		return nil, ErrInvalidCharacter("The tag name provided ('" + tagName + "') is not a valid name.")
	}
	localName := strings.ToLower(tagName)
	node := newNode(ElementNode, strings.ToUpper(localName), d)
	node.elementData = &elementData{
		localName: localName,
		tagName:   strings.ToUpper(localName),
	}
	return (*Element)(node), nil
}

// CreateTextNode creates a new Text node.
func (d *Document) CreateTextNode(data string) *Node {
	n := newNode(TextNode, "#text", d)
	n.data = data
	return n
}

// CreateComment creates a new Comment node.
func (d *Document) CreateComment(data string) *Node {
	n := newNode(CommentNode, "#comment", d)
	n.data = data
	return n
}

// CreateDocumentFragment creates an empty DocumentFragment node.
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
		if el, ok := n.AsElement(); ok && el.Id() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// QuerySelector returns the first element matching selector.
func (d *Document) QuerySelector(selector string) *Element {
	return querySelector(d.AsNode(), selector)
}

// QuerySelectorAll returns all elements matching selector in tree order.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	return querySelectorAll(d.AsNode(), selector, false)
}

// ActiveElement returns the focused element, falling back to the body.
func (d *Document) ActiveElement() *Element {
	if el := d.documentData.activeElement; el != nil {
		return el
	}
	return d.Body()
}

// Blur clears focus from whatever element holds it.
func (d *Document) Blur() {
	d.documentData.activeElement = nil
}

// PointerCaptureElement returns the element capturing pointerID, or nil.
func (d *Document) PointerCaptureElement(pointerID int) *Element {
	return d.documentData.capture[pointerID]
}

// ElementFromPoint returns the topmost element whose bounding rectangle
// contains p. Later elements in tree order paint above earlier ones, so
// descendants win over their ancestors. Points outside every rectangle
// resolve to the body, or the root element when there is no body.
func (d *Document) ElementFromPoint(p geom.Point) *Element {
	if hits := d.ElementsFromPoint(p); len(hits) > 0 {
		return hits[0]
	}
	if body := d.Body(); body != nil {
		return body
	}
	return d.DocumentElement()
}

// ElementsFromPoint returns every element containing p, topmost first.
func (d *Document) ElementsFromPoint(p geom.Point) []*Element {
	var hits []*Element
	d.AsNode().walk(func(n *Node) bool {
		if el, ok := n.AsElement(); ok {
			if r, ok := el.BoundingRect(); ok && r.Contains(p) {
				hits = append(hits, el)
			}
		}
		return true
	})
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return hits
}

// SetErrorHandler installs the callback that receives errors raised by
// event listeners during dispatch. The default logs them.
func (d *Document) SetErrorHandler(fn func(error)) {
	d.documentData.onError = fn
}

func (d *Document) reportError(err error) {
	if fn := d.documentData.onError; fn != nil {
		fn(err)
		return
	}
	slog.Error("dom: uncaught listener error", "err", err)
}

// detach drops focus and pointer captures held inside a subtree that is
// leaving the document.
func (d *Document) detach(subtree *Node) {
	data := d.documentData
	if data == nil {
		return
	}
	if el := data.activeElement; el != nil && subtree.Contains(el.AsNode()) {
		data.activeElement = nil
	}
	for id, el := range data.capture {
		if subtree.Contains(el.AsNode()) {
			delete(data.capture, id)
		}
	}
}

// AddEventListener registers a listener on the document.
func (d *Document) AddEventListener(eventType string, fn EventListener, opts ListenerOptions) ListenerID {
	return d.AsNode().AddEventListener(eventType, fn, opts)
}

// RemoveEventListener unregisters a listener from the document.
func (d *Document) RemoveEventListener(eventType string, id ListenerID) bool {
	return d.AsNode().RemoveEventListener(eventType, id)
}

// DispatchEvent dispatches ev with the document as its target.
func (d *Document) DispatchEvent(ev Event) bool {
	return d.AsNode().DispatchEvent(ev)
}
