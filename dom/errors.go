package dom

import "fmt"

// DOMError represents a DOM exception with a name and message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is lets errors.Is match DOM errors by name.
func (e *DOMError) Is(target error) bool {
	t, ok := target.(*DOMError)
	return ok && t.Name == e.Name && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is comparisons. Only the Name is compared.
var (
	HierarchyRequestError = &DOMError{Name: "HierarchyRequestError"}
	NotFoundError         = &DOMError{Name: "NotFoundError"}
	InvalidCharacterError = &DOMError{Name: "InvalidCharacterError"}
	SyntaxError           = &DOMError{Name: "SyntaxError"}
	InvalidStateError     = &DOMError{Name: "InvalidStateError"}
)

// ErrHierarchyRequest creates a HierarchyRequestError.
func ErrHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: "HierarchyRequestError", Message: message}
}

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: "NotFoundError", Message: message}
}

// ErrInvalidCharacter creates an InvalidCharacterError.
func ErrInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: "InvalidCharacterError", Message: message}
}

// ErrSyntax creates a SyntaxError.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: "SyntaxError", Message: message}
}

// ErrInvalidState creates an InvalidStateError.
func ErrInvalidState(message string) *DOMError {
	return &DOMError{Name: "InvalidStateError", Message: message}
}
