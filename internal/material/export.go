package material

import (
	"encoding/json"
	"fmt"
	"strconv"

	"nucdeck/internal/errors"
	"nucdeck/internal/nuclide"
)

// EncodeComp serializes a composition to JSON with canonical integer
// identifiers as keys. Key order is stable (encoding/json sorts map keys).
func EncodeComp(comp map[nuclide.Nuclide]float64) (string, error) {
	out := make(map[string]float64, len(comp))
	for n, qty := range comp {
		out[strconv.FormatInt(int64(n), 10)] = qty
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeComp parses a composition from its JSON form, validating every
// identifier and quantity.
func DecodeComp(data string) (map[nuclide.Nuclide]float64, error) {
	var raw map[string]float64
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, err
	}
	comp := make(map[nuclide.Nuclide]float64, len(raw))
	for key, qty := range raw {
		n, err := nuclide.Parse(key)
		if err != nil {
			return nil, err
		}
		if err := checkQuantity(n, qty); err != nil {
			return nil, err
		}
		comp[n] = qty
	}
	return comp, nil
}

// ExportRecord represents a material record in JSONL export format.
// It is also used for parsing export files during import.
type ExportRecord struct {
	// Header detection field - true only for header line
	NucdeckExport bool `json:"_nucdeck_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Record fields
	ID        string             `json:"id"`
	NameRaw   *string            `json:"name_raw"`
	NameNorm  *string            `json:"name_norm"` // IGNORED on import, recomputed
	Notes     *string            `json:"notes"`
	Basis     string             `json:"basis"`
	Density   *float64           `json:"density"`
	Mass      *float64           `json:"mass"`
	Comp      map[string]float64 `json:"comp"`
	Tags      []string           `json:"tags"`
	Source    *string            `json:"source"`
	CreatedAt int64              `json:"created_at"`
	UpdatedAt int64              `json:"updated_at"`
	DeletedAt *int64             `json:"deleted_at"`
}

// ToRecord converts an ExportRecord to a Record, recomputing derived fields
// and re-validating the composition.
func (e *ExportRecord) ToRecord() (*Record, error) {
	basis := Basis(e.Basis)
	if basis == "" {
		basis = BasisMass
	}
	if !ValidBasis(basis) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid basis %q", e.Basis))
	}

	comp := make(map[nuclide.Nuclide]float64, len(e.Comp))
	for key, qty := range e.Comp {
		n, err := nuclide.Parse(key)
		if err != nil {
			return nil, err
		}
		if err := checkQuantity(n, qty); err != nil {
			return nil, err
		}
		comp[n] = qty
	}

	r := &Record{
		ID:        e.ID,
		NameRaw:   e.NameRaw,
		Notes:     e.Notes,
		Basis:     basis,
		Density:   e.Density,
		Mass:      e.Mass,
		Comp:      comp,
		Tags:      e.Tags,
		Source:    e.Source,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		DeletedAt: e.DeletedAt,
	}

	// Recompute name_norm from name_raw
	if e.NameRaw != nil {
		norm := NormalizeName(*e.NameRaw)
		r.NameNorm = &norm
	}

	return r, nil
}

// RecordToExportRecord converts a Record to an ExportRecord for export.
func RecordToExportRecord(r *Record) *ExportRecord {
	comp := make(map[string]float64, len(r.Comp))
	for n, qty := range r.Comp {
		comp[strconv.FormatInt(int64(n), 10)] = qty
	}
	return &ExportRecord{
		ID:        r.ID,
		NameRaw:   r.NameRaw,
		NameNorm:  r.NameNorm,
		Notes:     r.Notes,
		Basis:     string(r.Basis),
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
