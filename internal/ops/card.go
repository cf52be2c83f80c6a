package ops

import (
	"database/sql"

	"nucdeck/internal/config"
	"nucdeck/internal/db"
	"nucdeck/internal/deck"
	"nucdeck/internal/errors"
	"nucdeck/internal/material"
	"nucdeck/internal/nucdata"
)

// CardInput contains parameters for the Card operation.
type CardInput struct {
	// Addressing (stored material). Mutually exclusive with Comp.
	ID   string
	Name string

	// Comp is an inline composition, bypassing the store.
	Comp  map[string]float64
	Basis string // for inline comp; default "mass"

	// Formatting. Zero values fall back to config, then package defaults.
	Number    int
	Suffix    string
	Precision int
	Normalize bool
}

// CardOutput contains the result of the Card operation.
type CardOutput struct {
	ID     string `json:"id,omitempty"`
	Number int    `json:"number"`
	Card   string `json:"card"`
}

// Card renders an MCNP material card from a stored material or an inline
// composition.
func Card(database *sql.DB, cfg *config.Config, lib nucdata.Library, input CardInput) (*CardOutput, error) {
	inline := len(input.Comp) > 0
	addressed := input.ID != "" || input.Name != ""

	if inline && addressed {
		return nil, errors.NewInvalidRequest("specify either a stored material (id or name) or an inline comp, not both")
	}
	if !inline && !addressed {
		return nil, errors.NewInvalidRequest("must specify a stored material (id or name) or an inline comp")
	}

	opts := deck.CardOptions{
		Number:    input.Number,
		Suffix:    input.Suffix,
		Precision: input.Precision,
		Normalize: input.Normalize,
	}
	if cfg != nil {
		if opts.Suffix == "" {
			opts.Suffix = cfg.XSSuffix
		}
		if opts.Precision <= 0 {
			opts.Precision = cfg.CardPrecision
		}
		if opts.Number <= 0 {
			opts.Number = cfg.MatNumberStart
		}
	}

	var m material.Material
	id := ""
	if inline {
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
		m, err = material.FromNuclides(comp, basis)
		if err != nil {
			return nil, err
		}
	} else {
		addr, err := ValidateAddress(input.ID, input.Name)
		if err != nil {
			return nil, err
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
		m = r.Material()
		id = r.ID
		if r.NameRaw != nil {
			opts.Name = *r.NameRaw
		}
		if r.Density != nil {
			opts.Density = *r.Density
		}
	}

	card, err := deck.MCNPCard(m, lib, opts)
	if err != nil {
		return nil, err
	}

	number := opts.Number
	if number <= 0 {
		number = deck.DefaultNumber
	}

	return &CardOutput{ID: id, Number: number, Card: card}, nil
}
