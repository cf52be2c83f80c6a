package ops

import (
	"database/sql"

	"nucdeck/internal/db"
	"nucdeck/internal/material"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	Name           string
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	ID        string             `json:"id"`
	Name      *string            `json:"name"`
	Notes     *string            `json:"notes,omitempty"`
	Basis     material.Basis     `json:"basis"`
	Density   *float64           `json:"density,omitempty"`
	Mass      *float64           `json:"mass,omitempty"`
	Comp      map[string]float64 `json:"comp"`
	Tags      []string           `json:"tags,omitempty"`
	Source    *string            `json:"source,omitempty"`
	CreatedAt int64              `json:"created_at"`
	UpdatedAt int64              `json:"updated_at"`
	DeletedAt *int64             `json:"deleted_at,omitempty"`
}

// Fetch retrieves a material by ID or name.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	var r *material.Record
	if addr.ByID {
		r, err = db.GetByID(database, addr.ID, input.IncludeDeleted)
	} else {
		r, err = db.GetByName(database, addr.Name, input.IncludeDeleted)
	}
	if err != nil {
		return nil, err
	}

	return recordToFetchOutput(r), nil
}

// recordToFetchOutput projects a record into the wire shape, with symbolic
// nuclide names as composition keys.
func recordToFetchOutput(r *material.Record) *FetchOutput {
	comp := make(map[string]float64, len(r.Comp))
	for n, qty := range r.Comp {
		comp[n.String()] = qty
	}
	return &FetchOutput{
		ID:        r.ID,
		Name:      r.NameRaw,
		Notes:     r.Notes,
		Basis:     r.Basis,
		Density:   r.Density,
		Mass:      r.Mass,
		Comp:      comp,
		Tags:      r.Tags,
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		DeletedAt: r.DeletedAt,
	}
}
