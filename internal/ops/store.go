package ops

import (
	"database/sql"
	"strings"
	"time"

	"nucdeck/internal/db"
	"nucdeck/internal/errors"
	"nucdeck/internal/material"
)

// StoreMode controls collision behavior.
type StoreMode string

const (
	StoreModeError   StoreMode = "error"   // default: fail on name collision
	StoreModeReplace StoreMode = "replace" // overwrite existing
)

// StoreInput contains parameters for the Store operation.
type StoreInput struct {
	Name    *string            // optional
	Comp    map[string]float64 // required; identifiers in any supported form
	Basis   string             // default: "mass"
	Density *float64           // g/cc, optional
	Mass    *float64           // total mass, optional
	Notes   *string            // markdown, optional
	Tags    []string
	Source  *string
	Mode    StoreMode // default: StoreModeError
}

// StoreOutput contains the result of the Store operation.
type StoreOutput struct {
	ID           string  `json:"id"`
	Name         *string `json:"name,omitempty"`
	NuclideCount int     `json:"nuclide_count"`
}

// Store creates or replaces a material record. The composition is validated
// entry by entry; quantities need not sum to 1 (totals are tracked separately
// and normalization happens at card-emission time, on request).
func Store(database *sql.DB, input StoreInput) (*StoreOutput, error) {
	if len(input.Comp) == 0 {
		return nil, errors.NewInvalidRequest("comp is required and must not be empty")
	}

	if input.Mode == "" {
		input.Mode = StoreModeError
	}
	if input.Mode != StoreModeError && input.Mode != StoreModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	basis := material.Basis(input.Basis)
	if basis == "" {
		basis = material.BasisMass
	}
	if !material.ValidBasis(basis) {
		return nil, errors.NewInvalidRequest("basis must be one of: mass, atom")
	}

	comp, err := parseComp(input.Comp)
	if err != nil {
		return nil, err
	}
	// Validates quantities (finite, non-negative).
	if _, err := material.FromNuclides(comp, basis); err != nil {
		return nil, err
	}

	if input.Density != nil && *input.Density <= 0 {
		return nil, errors.NewInvalidRequest("density must be positive")
	}
	if input.Mass != nil && *input.Mass <= 0 {
		return nil, errors.NewInvalidRequest("mass must be positive")
	}

	// Normalize name if provided
	var nameRaw, nameNorm *string
	if input.Name != nil {
		normalized := material.NormalizeName(*input.Name)
		if normalized == "" {
			return nil, errors.NewInvalidRequest("name must not be empty (omit it for unnamed materials)")
		}
		nameRaw = input.Name
		nameNorm = &normalized
	}

	now := time.Now().Unix()
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	r := &material.Record{
		ID:        id,
		NameRaw:   nameRaw,
		NameNorm:  nameNorm,
		Notes:     cleanOptionalString(input.Notes),
		Basis:     basis,
		Density:   input.Density,
		Mass:      input.Mass,
		Comp:      comp,
		Tags:      input.Tags,
		Source:    cleanOptionalString(input.Source),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Mode == StoreModeReplace {
		// Atomic UPSERT: a live record with the same name keeps its ID and
		// receives the new composition and metadata.
		resultID, err := db.Upsert(database, r)
		if err != nil {
			return nil, err
		}
		return &StoreOutput{ID: resultID, Name: nameRaw, NuclideCount: len(comp)}, nil
	}

	// mode:error - Insert and fail on conflict
	if err := db.Insert(database, r); err != nil {
		if err == db.ErrUniqueConstraint && nameRaw != nil {
			return nil, errors.NewNameAlreadyExists(strings.TrimSpace(*nameRaw))
		}
		return nil, err
	}

	return &StoreOutput{ID: id, Name: nameRaw, NuclideCount: len(comp)}, nil
}
