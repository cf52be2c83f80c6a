package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a nucdeck error code.
type ErrorCode string

const (
	ErrAmbiguousAddressing ErrorCode = "AMBIGUOUS_ADDRESSING" // 400
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrNameAlreadyExists   ErrorCode = "NAME_ALREADY_EXISTS"  // 409
	ErrConflict            ErrorCode = "CONFLICT"             // 409
	ErrInvalidNuclide      ErrorCode = "INVALID_NUCLIDE"      // 422
	ErrInvalidQuantity     ErrorCode = "INVALID_QUANTITY"     // 422
	ErrUnsupportedNuclide  ErrorCode = "UNSUPPORTED_NUCLIDE"  // 422
	ErrEmptyComposition    ErrorCode = "EMPTY_COMPOSITION"    // 422
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// DeckError represents a structured error with code, status, and details.
type DeckError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DeckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAmbiguousAddressing creates a 400 error for when both ID and name are provided.
func NewAmbiguousAddressing() *DeckError {
	return &DeckError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and name; use one addressing mode",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DeckError {
	return &DeckError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a material cannot be found.
func NewNotFound(identifier string) *DeckError {
	return &DeckError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("material not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *DeckError {
	return &DeckError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNameAlreadyExists creates a 409 error for name collisions.
func NewNameAlreadyExists(name string) *DeckError {
	return &DeckError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("material with name %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewConflict creates a 409 error for concurrent modification conflicts.
func NewConflict(msg string) *DeckError {
	return &DeckError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewInvalidNuclide creates a 422 error for an identifier that does not decode
// to a valid (Z, A, state) triple.
func NewInvalidNuclide(identifier, reason string) *DeckError {
	return &DeckError{
		Code:    ErrInvalidNuclide,
		Status:  422,
		Message: fmt.Sprintf("invalid nuclide %q: %s", identifier, reason),
		Details: map[string]any{"identifier": identifier, "reason": reason},
	}
}

// NewInvalidQuantity creates a 422 error for a non-physical fraction value
// (negative, NaN, or infinite).
func NewInvalidQuantity(nuclide string, value float64) *DeckError {
	return &DeckError{
		Code:    ErrInvalidQuantity,
		Status:  422,
		Message: fmt.Sprintf("invalid quantity %v for nuclide %s: must be finite and non-negative", value, nuclide),
		Details: map[string]any{"nuclide": nuclide, "value": value},
	}
}

// NewUnsupportedNuclide creates a 422 error for a valid identifier that has no
// entry in the target nuclide library.
func NewUnsupportedNuclide(nuclide string) *DeckError {
	return &DeckError{
		Code:    ErrUnsupportedNuclide,
		Status:  422,
		Message: fmt.Sprintf("nuclide %s has no data in the target library", nuclide),
		Details: map[string]any{"nuclide": nuclide},
	}
}

// NewEmptyComposition creates a 422 error for operations that require at least
// one composition entry.
func NewEmptyComposition() *DeckError {
	return &DeckError{
		Code:    ErrEmptyComposition,
		Status:  422,
		Message: "composition has no entries",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DeckError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DeckError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a DeckError with the given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DeckError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
