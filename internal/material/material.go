// Package material provides the composition container: a mapping from
// nuclide identifiers to non-negative fractional quantities, with
// renormalization and basis conversions. Serialization to transport-code
// input lives in internal/deck.
package material

import (
	"math"
	"sort"

	"nucdeck/internal/errors"
	"nucdeck/internal/nucdata"
	"nucdeck/internal/nuclide"
)

// Basis identifies the convention the fractions are expressed in.
type Basis string

const (
	BasisMass Basis = "mass"
	BasisAtom Basis = "atom"
)

// ValidBasis reports whether b is a known basis.
func ValidBasis(b Basis) bool {
	return b == BasisMass || b == BasisAtom
}

// Material owns a set of composition entries. Quantities are relative
// abundances on the given basis and need not sum to 1; Mass and Density are
// recorded separately from the fractions (-1 means unset, matching the
// convention of leaving totals to the caller). Materials are value-like:
// constructors copy their input and methods return new materials.
type Material struct {
	Comp    map[nuclide.Nuclide]float64
	Basis   Basis
	Mass    float64 // total mass, -1 when unset
	Density float64 // g/cc, -1 when unset
}

// New constructs a mass-basis material from a mapping of raw integer
// identifiers to quantities. Every identifier must decode to a valid
// (Z, A, state) triple and every quantity must be finite and non-negative.
// An empty mapping yields a valid empty material.
func New(comp map[int64]float64) (Material, error) {
	entries := make(map[nuclide.Nuclide]float64, len(comp))
	for ident, qty := range comp {
		n, err := nuclide.FromInt(ident)
		if err != nil {
			return Material{}, err
		}
		if err := checkQuantity(n, qty); err != nil {
			return Material{}, err
		}
		entries[n] = qty
	}
	return Material{Comp: entries, Basis: BasisMass, Mass: -1, Density: -1}, nil
}

// FromNuclides constructs a material from already-parsed nuclides on the
// given basis. Quantities are validated; identifiers are re-validated so a
// hand-built Nuclide cannot smuggle in an invalid triple.
func FromNuclides(comp map[nuclide.Nuclide]float64, basis Basis) (Material, error) {
	if !ValidBasis(basis) {
		return Material{}, errors.NewInvalidRequest("basis must be one of: mass, atom")
	}
	entries := make(map[nuclide.Nuclide]float64, len(comp))
	for n, qty := range comp {
		if err := n.Validate(); err != nil {
			return Material{}, err
		}
		if err := checkQuantity(n, qty); err != nil {
			return Material{}, err
		}
		entries[n] = qty
	}
	return Material{Comp: entries, Basis: basis, Mass: -1, Density: -1}, nil
}

// checkQuantity rejects negative, NaN, and infinite quantities.
func checkQuantity(n nuclide.Nuclide, qty float64) error {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		return errors.NewInvalidQuantity(n.String(), qty)
	}
	return nil
}

// Nuclides returns the identifiers in ascending canonical order. Serialization
// iterates this slice so output is deterministic regardless of map order.
func (m Material) Nuclides() []nuclide.Nuclide {
	nucs := make([]nuclide.Nuclide, 0, len(m.Comp))
	for n := range m.Comp {
		nucs = append(nucs, n)
	}
	sort.Slice(nucs, func(i, j int) bool { return nucs[i] < nucs[j] })
	return nucs
}

// Sum returns the total of all quantities.
func (m Material) Sum() float64 {
	var total float64
	for _, qty := range m.Comp {
		total += qty
	}
	return total
}

// Normalize returns a copy whose fractions sum to 1.0, preserving relative
// ratios. An empty or all-zero material is returned unchanged.
func (m Material) Normalize() Material {
	total := m.Sum()
	out := m.clone()
	if total == 0 {
		return out
	}
	for n, qty := range out.Comp {
		out.Comp[n] = qty / total
	}
	return out
}

// MolecularMass returns the mean molecular mass in amu computed from the
// library's atomic masses. Mass basis uses the harmonic mean
// 1/M = sum(w_i / M_i); atom basis uses the weighted mean M = sum(x_i * M_i).
func (m Material) MolecularMass(lib nucdata.Library) (float64, error) {
	if len(m.Comp) == 0 {
		return 0, errors.NewEmptyComposition()
	}
	norm := m.Normalize()

	if m.Basis == BasisAtom {
		var mean float64
		for n, x := range norm.Comp {
			mass, err := lib.AtomicMass(n)
			if err != nil {
				return 0, err
			}
			mean += x * mass
		}
		return mean, nil
	}

	var inv float64
	for n, w := range norm.Comp {
		mass, err := lib.AtomicMass(n)
		if err != nil {
			return 0, err
		}
		inv += w / mass
	}
	if inv == 0 {
		return 0, errors.NewEmptyComposition()
	}
	return 1 / inv, nil
}

// ToAtomBasis converts a mass-basis material to normalized atom fractions:
// x_i = (w_i / M_i) / sum(w_j / M_j). Atom-basis input is returned normalized.
func (m Material) ToAtomBasis(lib nucdata.Library) (Material, error) {
	if m.Basis == BasisAtom {
		return m.Normalize(), nil
	}
	out := m.clone()
	out.Basis = BasisAtom

	var total float64
	for n, w := range m.Comp {
		mass, err := lib.AtomicMass(n)
		if err != nil {
			return Material{}, err
		}
		out.Comp[n] = w / mass
		total += out.Comp[n]
	}
	if total == 0 {
		return out, nil
	}
	for n := range out.Comp {
		out.Comp[n] /= total
	}
	return out, nil
}

// ToMassBasis converts an atom-basis material to normalized mass fractions:
// w_i = (x_i * M_i) / sum(x_j * M_j). Mass-basis input is returned normalized.
func (m Material) ToMassBasis(lib nucdata.Library) (Material, error) {
	if m.Basis == BasisMass {
		return m.Normalize(), nil
	}
	out := m.clone()
	out.Basis = BasisMass

	var total float64
	for n, x := range m.Comp {
		mass, err := lib.AtomicMass(n)
		if err != nil {
			return Material{}, err
		}
		out.Comp[n] = x * mass
		total += out.Comp[n]
	}
	if total == 0 {
		return out, nil
	}
	for n := range out.Comp {
		out.Comp[n] /= total
	}
	return out, nil
}

// clone copies the material including its composition map.
func (m Material) clone() Material {
	comp := make(map[nuclide.Nuclide]float64, len(m.Comp))
	for n, qty := range m.Comp {
		comp[n] = qty
	}
	return Material{Comp: comp, Basis: m.Basis, Mass: m.Mass, Density: m.Density}
}
