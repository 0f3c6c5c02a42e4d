package dom

import (
	"fmt"
	"slices"
	"strings"
)

// validateToken checks if a token is valid for a DOMTokenList.
// Empty tokens are a SyntaxError, tokens with whitespace an InvalidCharacterError.
func validateToken(token string) error {
	if token == "" {
		return ErrSyntax("The token provided must not be empty.")
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return ErrInvalidCharacter(fmt.Sprintf("The token provided ('%s') contains HTML space characters, which are not valid in tokens.", token))
	}
	return nil
}

// DOMTokenList represents a set of space-separated tokens backed by an
// attribute. It is used for Element.ClassList.
type DOMTokenList struct {
	element  *Element
	attrName string
}

func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{element: element, attrName: attrName}
}

// tokens returns the current list of tokens (deduplicated, preserving order).
func (dtl *DOMTokenList) tokens() []string {
	var result []string
	for _, token := range strings.Fields(dtl.element.GetAttribute(dtl.attrName)) {
		if !slices.Contains(result, token) {
			result = append(result, token)
		}
	}
	return result
}

// setTokens writes the tokens back to the attribute. An absent attribute
// stays absent when there is nothing to write.
func (dtl *DOMTokenList) setTokens(tokens []string) {
	if len(tokens) > 0 || dtl.element.HasAttribute(dtl.attrName) {
		dtl.element.SetAttribute(dtl.attrName, strings.Join(tokens, " "))
	}
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at the given index, or empty string if out of bounds.
func (dtl *DOMTokenList) Item(index int) string {
	tokens := dtl.tokens()
	if index < 0 || index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

// Contains returns true if the given token is in the list.
func (dtl *DOMTokenList) Contains(token string) bool {
	if validateToken(token) != nil {
		return false
	}
	return slices.Contains(dtl.tokens(), token)
}

// Add adds one or more tokens to the list.
func (dtl *DOMTokenList) Add(tokens ...string) error {
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	for _, token := range tokens {
		if !slices.Contains(current, token) {
			current = append(current, token)
		}
	}
	dtl.setTokens(current)
	return nil
}

// Remove removes one or more tokens from the list.
func (dtl *DOMTokenList) Remove(tokens ...string) error {
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	current := slices.DeleteFunc(dtl.tokens(), func(t string) bool {
		return slices.Contains(tokens, t)
	})
	dtl.setTokens(current)
	return nil
}

// Toggle toggles the presence of a token. If force is provided, it forces
// add (true) or remove (false). It reports whether the token is present
// after the operation.
func (dtl *DOMTokenList) Toggle(token string, force ...bool) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	want := !dtl.Contains(token)
	if len(force) > 0 {
		want = force[0]
	}
	if want {
		return true, dtl.Add(token)
	}
	return false, dtl.Remove(token)
}

// Replace replaces oldToken with newToken in place and reports whether
// oldToken was present.
func (dtl *DOMTokenList) Replace(oldToken, newToken string) (bool, error) {
	if oldToken == "" || newToken == "" {
		return false, ErrSyntax("The token provided must not be empty.")
	}
	if err := validateToken(oldToken); err != nil {
		return false, err
	}
	if err := validateToken(newToken); err != nil {
		return false, err
	}
	current := dtl.tokens()
	idx := slices.Index(current, oldToken)
	if idx < 0 {
		return false, nil
	}
	result := make([]string, 0, len(current))
	for i, t := range current {
		switch {
		case i == idx:
			if !slices.Contains(result, newToken) {
				result = append(result, newToken)
			}
		case t == newToken:
			if !slices.Contains(result, newToken) {
				result = append(result, t)
			}
		default:
			result = append(result, t)
		}
	}
	dtl.setTokens(result)
	return true, nil
}

// Value returns the underlying string value.
func (dtl *DOMTokenList) Value() string {
	return dtl.element.GetAttribute(dtl.attrName)
}

// Values returns the tokens in order.
func (dtl *DOMTokenList) Values() []string {
	return dtl.tokens()
}

// String returns the string representation (same as Value).
func (dtl *DOMTokenList) String() string {
	return dtl.Value()
}
