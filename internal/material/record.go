package material

import "nucdeck/internal/nuclide"

// Record is a stored material: a composition plus addressing and audit
// metadata. Compositions are immutable once stored; metadata fields may be
// updated in place.
type Record struct {
	// ID is a ULID that uniquely identifies this record
	ID string

	// NameRaw is the original name as provided by the user (nullable)
	NameRaw *string

	// NameNorm is the normalized name used for unique addressing (nullable)
	NameNorm *string

	// Notes is optional markdown documentation for the material
	Notes *string

	// Basis records whether fractions are mass or atom based
	Basis Basis

	// Density is the bulk density in g/cc (nullable)
	Density *float64

	// Mass is the total mass attribute, tracked separately from fractions (nullable)
	Mass *float64

	// Comp is the nuclide -> quantity mapping
	Comp map[nuclide.Nuclide]float64

	// Tags is a list of tags for categorization (stored as JSON in DB)
	Tags []string

	// Source indicates where the record originated (e.g., "cli", "import")
	Source *string

	// CreatedAt is the Unix timestamp when the record was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the record was last updated
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// Material builds the domain value for this record.
func (r *Record) Material() Material {
	m := Material{Comp: r.Comp, Basis: r.Basis, Mass: -1, Density: -1}
	if r.Mass != nil {
		m.Mass = *r.Mass
	}
	if r.Density != nil {
		m.Density = *r.Density
	}
	return m
}

// Summary is the listing projection of a record.
type Summary struct {
	ID           string   `json:"id"`
	Name         *string  `json:"name"`
	Basis        Basis    `json:"basis"`
	NuclideCount int      `json:"nuclide_count"`
	Tags         []string `json:"tags,omitempty"`
	UpdatedAt    int64    `json:"updated_at"`
}
