package dom

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// The selector engine understands comma-separated lists of compound
// selectors joined by descendant (whitespace) or child (">") combinators.
// A compound selector is any mix of a type selector or "*", "#id",
// ".class", "[attr]" and "[attr=value]".

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	name   string
	value  string
	exists bool
}

type complexSelector struct {
	parts       []compound
	combinators []byte // combinators[i] joins parts[i] and parts[i+1]: ' ' or '>'
}

// selectorCache holds parsed selector lists. Callers tend to reuse a few
// selectors for every query and match.
var selectorCache *lru.Cache

func init() {
	c, err := lru.New(256)
	if err != nil {
		panic(err)
	}
	selectorCache = c
}

func parseSelectorList(selector string) []complexSelector {
	if v, ok := selectorCache.Get(selector); ok {
		return v.([]complexSelector)
	}
	out := parseSelectorUncached(selector)
	selectorCache.Add(selector, out)
	return out
}

func parseSelectorUncached(selector string) []complexSelector {
	var out []complexSelector
	for _, item := range strings.Split(selector, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if cs, ok := parseComplex(item); ok {
			out = append(out, cs)
		}
	}
	return out
}

func parseComplex(s string) (complexSelector, bool) {
	s = strings.ReplaceAll(s, ">", " > ")
	var cs complexSelector
	pending := byte(' ')
	for _, tok := range strings.Fields(s) {
		if tok == ">" {
			pending = '>'
			continue
		}
		c, ok := parseCompound(tok)
		if !ok {
			return cs, false
		}
		if len(cs.parts) > 0 {
			cs.combinators = append(cs.combinators, pending)
		}
		cs.parts = append(cs.parts, c)
		pending = ' '
	}
	return cs, len(cs.parts) > 0
}

func parseCompound(tok string) (compound, bool) {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(tok) && !strings.ContainsRune("#.[", rune(tok[i])) {
			i++
		}
		return tok[start:i]
	}
	if i < len(tok) && tok[i] != '#' && tok[i] != '.' && tok[i] != '[' {
		c.tag = strings.ToLower(readIdent())
		if c.tag == "*" {
			c.tag = ""
		}
	}
	for i < len(tok) {
		switch tok[i] {
		case '#':
			i++
			c.id = readIdent()
		case '.':
			i++
			c.classes = append(c.classes, readIdent())
		case '[':
			end := strings.IndexByte(tok[i:], ']')
			if end < 0 {
				return c, false
			}
			body := tok[i+1 : i+end]
			i += end + 1
			name, value, hasValue := strings.Cut(body, "=")
			c.attrs = append(c.attrs, attrMatch{
				name:   strings.ToLower(strings.TrimSpace(name)),
				value:  strings.Trim(strings.TrimSpace(value), `"'`),
				exists: !hasValue,
			})
		default:
			return c, false
		}
	}
	return c, true
}

func (c compound) matches(e *Element) bool {
	if c.tag != "" && e.LocalName() != c.tag {
		return false
	}
	if c.id != "" && e.Id() != c.id {
		return false
	}
	for _, cls := range c.classes {
		if !e.ClassList().Contains(cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		if !e.HasAttribute(a.name) {
			return false
		}
		if !a.exists && e.GetAttribute(a.name) != a.value {
			return false
		}
	}
	return true
}

// matchesAt reports whether the selector matches e, with parts[idx] being
// matched against e.
func (cs complexSelector) matchesAt(e *Element, idx int) bool {
	if !cs.parts[idx].matches(e) {
		return false
	}
	if idx == 0 {
		return true
	}
	switch cs.combinators[idx-1] {
	case '>':
		parent := e.ParentElement()
		return parent != nil && cs.matchesAt(parent, idx-1)
	default:
		for anc := e.ParentElement(); anc != nil; anc = anc.ParentElement() {
			if cs.matchesAt(anc, idx-1) {
				return true
			}
		}
		return false
	}
}

func matchesList(list []complexSelector, e *Element) bool {
	for _, cs := range list {
		if cs.matchesAt(e, len(cs.parts)-1) {
			return true
		}
	}
	return false
}

// Matches reports whether the element matches selector.
func (e *Element) Matches(selector string) bool {
	return matchesList(parseSelectorList(selector), e)
}

// Closest returns the nearest inclusive ancestor matching selector.
func (e *Element) Closest(selector string) *Element {
	list := parseSelectorList(selector)
	for cur := e; cur != nil; cur = cur.ParentElement() {
		if matchesList(list, cur) {
			return cur
		}
	}
	return nil
}

// QuerySelector returns the first descendant matching selector.
func (e *Element) QuerySelector(selector string) *Element {
	return querySelector(e.AsNode(), selector)
}

// QuerySelectorAll returns all descendants matching selector in tree order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	return querySelectorAll(e.AsNode(), selector, false)
}

func querySelector(root *Node, selector string) *Element {
	if found := querySelectorAll(root, selector, true); len(found) > 0 {
		return found[0]
	}
	return nil
}

func querySelectorAll(root *Node, selector string, firstOnly bool) []*Element {
	list := parseSelectorList(selector)
	if len(list) == 0 {
		return nil
	}
	var results []*Element
	root.walk(func(n *Node) bool {
		if n == root {
			return true
		}
		if el, ok := n.AsElement(); ok && matchesList(list, el) {
			results = append(results, el)
			if firstOnly {
				return false
			}
		}
		return true
	})
	return results
}
