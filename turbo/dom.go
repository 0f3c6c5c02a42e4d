package turbo

import (
	"strings"

	"github.com/chrisuehlinger/turbo/dom"
)

func toNode(doc *dom.Document, v any) (*dom.Node, error) {
	switch c := v.(type) {
	case *dom.Node:
		return c, nil
	case *dom.Element:
		return c.AsNode(), nil
	case *Selector:
		if c.node == nil {
			return nil, dom.ErrNotFound("The selector does not wrap a node.")
		}
		return c.node, nil
	case string:
		if doc == nil {
			return nil, dom.ErrHierarchyRequest("Cannot create text outside a document.")
		}
		return doc.CreateTextNode(c), nil
	default:
		return nil, dom.ErrHierarchyRequest("Unsupported child value.")
	}
}

// AddChild appends each child: a *Selector, *dom.Element, *dom.Node or a
// string for a text node.
func (s *Selector) AddChild(children ...any) *Selector {
	return s.logged("add child", s.AddChildWithError(children...))
}

// AddChildWithError is AddChild returning the first failure.
func (s *Selector) AddChildWithError(children ...any) error {
	if s.node == nil {
		return errNoElement
	}
	for _, c := range children {
		n, err := toNode(s.node.OwnerDocument(), c)
		if err != nil {
			return err
		}
		if _, err := s.node.AppendChildWithError(n); err != nil {
			return err
		}
	}
	return nil
}

// AddChildBefore inserts child before ref, or appends when ref is nil.
func (s *Selector) AddChildBefore(child, ref any) *Selector {
	return s.logged("add child", s.AddChildBeforeWithError(child, ref))
}

// AddChildBeforeWithError is AddChildBefore returning the failure.
func (s *Selector) AddChildBeforeWithError(child, ref any) error {
	if s.node == nil {
		return errNoElement
	}
	n, err := toNode(s.node.OwnerDocument(), child)
	if err != nil {
		return err
	}
	var r *dom.Node
	if ref != nil {
		if r, err = toNode(nil, ref); err != nil {
			return err
		}
	}
	_, err = s.node.InsertBeforeWithError(n, r)
	return err
}

// RemoveChild detaches child from the wrapped node.
func (s *Selector) RemoveChild(child any) *Selector {
	return s.logged("remove child", s.RemoveChildWithError(child))
}

// RemoveChildWithError is RemoveChild returning the failure.
func (s *Selector) RemoveChildWithError(child any) error {
	if s.node == nil {
		return errNoElement
	}
	n, err := toNode(nil, child)
	if err != nil {
		return err
	}
	_, err = s.node.RemoveChildWithError(n)
	return err
}

// Remove detaches the wrapped node from its parent.
func (s *Selector) Remove() *Selector {
	if s.node != nil {
		s.node.Remove()
	}
	return s
}

// Parent returns the parent, or an invalid selector.
func (s *Selector) Parent() *Selector {
	if s.node == nil {
		return s.wrap(nil)
	}
	return s.wrap(s.node.ParentNode())
}

// Children returns the element children.
func (s *Selector) Children() []*Selector {
	el := s.Element()
	if el == nil {
		return nil
	}
	var out []*Selector
	for _, c := range el.Children() {
		out = append(out, s.wrap(c.AsNode()))
	}
	return out
}

// Find returns the first descendant matching the selector, or an invalid
// selector.
func (s *Selector) Find(selector string) *Selector {
	el := s.Element()
	if el == nil {
		return s.wrap(nil)
	}
	if found := el.QuerySelector(selector); found != nil {
		return s.wrap(found.AsNode())
	}
	return s.wrap(nil)
}

// FindAll returns every descendant matching the selector.
func (s *Selector) FindAll(selector string) []*Selector {
	el := s.Element()
	if el == nil {
		return nil
	}
	var out []*Selector
	for _, found := range el.QuerySelectorAll(selector) {
		out = append(out, s.wrap(found.AsNode()))
	}
	return out
}

// Closest returns the nearest inclusive ancestor matching the selector.
func (s *Selector) Closest(selector string) *Selector {
	el := s.Element()
	if el == nil {
		return s.wrap(nil)
	}
	if found := el.Closest(selector); found != nil {
		return s.wrap(found.AsNode())
	}
	return s.wrap(nil)
}

// AddClass adds class names. Space-separated names are split.
func (s *Selector) AddClass(names ...string) *Selector {
	return s.logged("add class", s.AddClassWithError(names...))
}

// AddClassWithError is AddClass returning the failure.
func (s *Selector) AddClassWithError(names ...string) error {
	el, err := s.element()
	if err != nil {
		return err
	}
	return el.ClassList().Add(splitClasses(names)...)
}

// RemoveClass removes class names.
func (s *Selector) RemoveClass(names ...string) *Selector {
	return s.logged("remove class", s.RemoveClassWithError(names...))
}

// RemoveClassWithError is RemoveClass returning the failure.
func (s *Selector) RemoveClassWithError(names ...string) error {
	el, err := s.element()
	if err != nil {
		return err
	}
	return el.ClassList().Remove(splitClasses(names)...)
}

// ToggleClass toggles a class, or sets it to force when given.
func (s *Selector) ToggleClass(name string, force ...bool) *Selector {
	_, err := s.ToggleClassWithError(name, force...)
	return s.logged("toggle class", err)
}

// ToggleClassWithError is ToggleClass returning whether the class is now
// present.
func (s *Selector) ToggleClassWithError(name string, force ...bool) (bool, error) {
	el, err := s.element()
	if err != nil {
		return false, err
	}
	return el.ClassList().Toggle(name, force...)
}

// HasClass reports whether the wrapped element has the class.
func (s *Selector) HasClass(name string) bool {
	el := s.Element()
	return el != nil && el.ClassList().Contains(name)
}

func splitClasses(names []string) []string {
	var out []string
	for _, n := range names {
		out = append(out, strings.Fields(n)...)
	}
	return out
}

// SetAttribute sets an attribute.
func (s *Selector) SetAttribute(name, value string) *Selector {
	return s.logged("set attribute", s.SetAttributeWithError(name, value))
}

// SetAttributeWithError is SetAttribute returning the failure.
func (s *Selector) SetAttributeWithError(name, value string) error {
	el, err := s.element()
	if err != nil {
		return err
	}
	return el.SetAttributeWithError(name, value)
}

// Attribute returns an attribute value.
func (s *Selector) Attribute(name string) string {
	if el := s.Element(); el != nil {
		return el.GetAttribute(name)
	}
	return ""
}

// RemoveAttribute removes an attribute.
func (s *Selector) RemoveAttribute(name string) *Selector {
	if el := s.Element(); el != nil {
		el.RemoveAttribute(name)
	}
	return s
}

// SetText replaces the children with a text node.
func (s *Selector) SetText(text string) *Selector {
	if s.node != nil {
		s.node.SetTextContent(text)
	}
	return s
}

// Text returns the text content.
func (s *Selector) Text() string {
	if s.node == nil {
		return ""
	}
	return s.node.TextContent()
}

// SetHTML replaces the children with parsed markup.
func (s *Selector) SetHTML(markup string) *Selector {
	return s.logged("set html", s.SetHTMLWithError(markup))
}

// SetHTMLWithError is SetHTML returning the failure.
func (s *Selector) SetHTMLWithError(markup string) error {
	el, err := s.element()
	if err != nil {
		return err
	}
	return el.SetInnerHTML(markup)
}

// SetStyle sets one declaration of the style attribute. An empty value
// removes the property.
func (s *Selector) SetStyle(property, value string) *Selector {
	el := s.Element()
	if el == nil {
		return s.logged("set style", errNoElement)
	}
	decls := parseStyle(el.GetAttribute("style"))
	property = strings.ToLower(strings.TrimSpace(property))
	i := indexDecl(decls, property)
	switch {
	case value == "" && i >= 0:
		decls = append(decls[:i], decls[i+1:]...)
	case value == "":
	case i >= 0:
		decls[i][1] = value
	default:
		decls = append(decls, [2]string{property, value})
	}
	if len(decls) == 0 {
		el.RemoveAttribute("style")
		return s
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d[0] + ": " + d[1]
	}
	el.SetAttribute("style", strings.Join(parts, "; "))
	return s
}

// Style returns one declaration of the style attribute.
func (s *Selector) Style(property string) string {
	el := s.Element()
	if el == nil {
		return ""
	}
	decls := parseStyle(el.GetAttribute("style"))
	if i := indexDecl(decls, strings.ToLower(property)); i >= 0 {
		return decls[i][1]
	}
	return ""
}

func parseStyle(v string) [][2]string {
	var out [][2]string
	for _, decl := range strings.Split(v, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out = append(out, [2]string{name, strings.TrimSpace(value)})
	}
	return out
}

func indexDecl(decls [][2]string, name string) int {
	for i, d := range decls {
		if d[0] == name {
			return i
		}
	}
	return -1
}
