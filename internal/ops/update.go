package ops

import (
	"database/sql"

	"nucdeck/internal/db"
	"nucdeck/internal/errors"
	"nucdeck/internal/material"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	// Addressing
	ID   string
	Name string

	// Editable metadata (nil = don't change). Compositions are immutable once
	// stored; replacing one means storing a new material (mode:replace).
	NewName *string
	Notes   *string
	Density *float64
	Mass    *float64
	Tags    *[]string
	Source  *string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID   string  `json:"id"`
	Name *string `json:"name,omitempty"`
}

// Update modifies metadata on an existing material.
func Update(database *sql.DB, input UpdateInput) (*UpdateOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	if input.NewName == nil && input.Notes == nil && input.Density == nil &&
		input.Mass == nil && input.Tags == nil && input.Source == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	var r *material.Record
	if addr.ByID {
		r, err = db.GetByID(database, addr.ID, false)
	} else {
		r, err = db.GetByName(database, addr.Name, false)
	}
	if err != nil {
		return nil, err
	}

	if input.NewName != nil {
		normalized := material.NormalizeName(*input.NewName)
		if normalized == "" {
			return nil, errors.NewInvalidRequest("new name must not be empty")
		}
		// Renaming onto a different live record is a collision.
		if r.NameNorm == nil || *r.NameNorm != normalized {
			exists, err := db.CheckNameExists(database, normalized)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, errors.NewNameAlreadyExists(*input.NewName)
			}
		}
		r.NameRaw = input.NewName
		r.NameNorm = &normalized
	}

	if input.Notes != nil {
		r.Notes = cleanOptionalString(input.Notes)
	}
	if input.Density != nil {
		if *input.Density <= 0 {
			return nil, errors.NewInvalidRequest("density must be positive")
		}
		r.Density = input.Density
	}
	if input.Mass != nil {
		if *input.Mass <= 0 {
			return nil, errors.NewInvalidRequest("mass must be positive")
		}
		r.Mass = input.Mass
	}
	if input.Tags != nil {
		r.Tags = *input.Tags
	}
	if input.Source != nil {
		r.Source = cleanOptionalString(input.Source)
	}

	if err := db.UpdateByID(database, r); err != nil {
		if err == db.ErrUniqueConstraint && input.NewName != nil {
			return nil, errors.NewNameAlreadyExists(*input.NewName)
		}
		return nil, err
	}

	return &UpdateOutput{ID: r.ID, Name: r.NameRaw}, nil
}
