package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses an HTML string and returns a Document.
func ParseHTML(htmlContent string) (*Document, error) {
	doc := NewDocument()

	netDoc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	convertHTMLTree(netDoc, doc.AsNode(), doc)
	return doc, nil
}

// SetInnerHTML replaces the element's children with the parsed fragment.
func (e *Element) SetInnerHTML(htmlContent string) error {
	nodes, err := parseHTMLFragment(htmlContent, e)
	if err != nil {
		return err
	}
	n := e.AsNode()
	for n.firstChild != nil {
		n.removeChild(n.firstChild)
	}
	for _, child := range nodes {
		n.insertBefore(child, nil)
	}
	return nil
}

// CreateFragment parses htmlContent in the context of a body element and
// returns a DocumentFragment holding the result.
func (d *Document) CreateFragment(htmlContent string) (*Node, error) {
	context := d.Body()
	if context == nil {
		context = d.CreateElement("body")
	}
	nodes, err := parseHTMLFragment(htmlContent, context)
	if err != nil {
		return nil, err
	}
	frag := d.CreateDocumentFragment()
	for _, n := range nodes {
		frag.insertBefore(n, nil)
	}
	return frag, nil
}

func parseHTMLFragment(htmlContent string, context *Element) ([]*Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     context.LocalName(),
		DataAtom: atom.Lookup([]byte(context.LocalName())),
	}
	parsed, err := html.ParseFragment(strings.NewReader(htmlContent), ctx)
	if err != nil {
		return nil, err
	}
	doc := context.ownerDoc
	var out []*Node
	for _, p := range parsed {
		if n := convertHTMLNode(p, doc); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// convertHTMLTree converts the children of an html.Node into children of parent.
func convertHTMLTree(src *html.Node, parent *Node, doc *Document) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DocumentNode {
			convertHTMLTree(c, parent, doc)
			continue
		}
		if n := convertHTMLNode(c, doc); n != nil {
			parent.insertBefore(n, nil)
		}
	}
}

func convertHTMLNode(c *html.Node, doc *Document) *Node {
	switch c.Type {
	case html.TextNode:
		return doc.CreateTextNode(c.Data)
	case html.CommentNode:
		return doc.CreateComment(c.Data)
	case html.ElementNode:
		el := doc.CreateElement(c.Data)
		if el == nil {
			return nil
		}
		for _, attr := range c.Attr {
			el.SetAttribute(attr.Key, attr.Val)
		}
		convertHTMLTree(c, el.AsNode(), doc)
		return el.AsNode()
	default:
		return nil
	}
}
