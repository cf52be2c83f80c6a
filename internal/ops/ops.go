package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"nucdeck/internal/errors"
	"nucdeck/internal/material"
	"nucdeck/internal/nuclide"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Address represents a validated material address.
type Address struct {
	ByID bool
	ID   string
	Name string // normalized
}

// ValidateAddress validates addressing parameters and returns a normalized Address.
// Rules:
// - Must specify exactly one addressing mode: id OR name
// - If both provided -> ErrAmbiguousAddressing
// - If neither provided -> ErrInvalidRequest
func ValidateAddress(id, name string) (*Address, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	hasID := id != ""
	hasName := name != ""

	if hasID && hasName {
		return nil, errors.NewAmbiguousAddressing()
	}
	if !hasID && !hasName {
		return nil, errors.NewInvalidRequest("must specify either id or name")
	}

	if hasID {
		return &Address{ByID: true, ID: id}, nil
	}

	nameNorm := material.NormalizeName(name)
	if nameNorm == "" {
		return nil, errors.NewInvalidRequest("name must not be empty")
	}
	return &Address{ByID: false, Name: nameNorm}, nil
}

// parseComp converts a caller-supplied identifier -> quantity mapping into a
// validated composition. Identifiers may use any form nuclide.Parse accepts.
func parseComp(raw map[string]float64) (map[nuclide.Nuclide]float64, error) {
	comp := make(map[nuclide.Nuclide]float64, len(raw))
	for ident, qty := range raw {
		n, err := nuclide.Parse(ident)
		if err != nil {
			return nil, err
		}
		comp[n] = qty
	}
	return comp, nil
}

// cleanOptionalString trims an optional string and nils it out when empty.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
