// Package deck serializes material compositions into transport-code input
// fragments. Card emission is pure: it returns text and performs no I/O.
package deck

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"nucdeck/internal/errors"
	"nucdeck/internal/material"
	"nucdeck/internal/nucdata"
	"nucdeck/internal/nuclide"
)

// Card formatting defaults.
const (
	DefaultNumber    = 1
	DefaultSuffix    = "80c"
	DefaultPrecision = 4
	maxPrecision     = 20
)

// CardOptions controls MCNP material-card formatting.
type CardOptions struct {
	// Number is the material number for the m-card header (default 1).
	Number int

	// Suffix is the cross-section library suffix appended to each ZAID
	// (default "80c").
	Suffix string

	// Precision is the number of digits after the decimal point in the
	// scientific-notation fractions (default 4).
	Precision int

	// Normalize rescales fractions so they sum to 1.0. Off by default:
	// fractions are never silently rescaled.
	Normalize bool

	// Name, when non-empty, is emitted as a "c name:" comment line.
	Name string

	// Density, when positive, is emitted as a "c density =" comment line
	// in g/cc. Non-positive means unset.
	Density float64
}

// withDefaults fills unset options.
func (o CardOptions) withDefaults() CardOptions {
	if o.Number <= 0 {
		o.Number = DefaultNumber
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.Precision <= 0 {
		o.Precision = DefaultPrecision
	}
	if o.Precision > maxPrecision {
		o.Precision = maxPrecision
	}
	return o
}

// MCNPCard renders a material as an MCNP material card. One line per
// composition entry, in ascending canonical identifier order, each carrying
// the ZAID.suffix token and the fraction in scientific notation. Mass-basis
// fractions are emitted negative and atom-basis fractions positive, per the
// MCNP sign convention. Every nuclide must be present in the library.
//
// An empty composition yields a header-only card (no error): whether the
// target code accepts a zero-entry card is left to the caller's policy.
func MCNPCard(m material.Material, lib nucdata.Library, opts CardOptions) (string, error) {
	opts = opts.withDefaults()

	nucs := m.Nuclides()
	for _, n := range nucs {
		if !lib.Contains(n) {
			return "", errors.NewUnsupportedNuclide(n.String())
		}
	}

	comp := m.Comp
	if opts.Normalize {
		norm := m.Normalize()
		comp = norm.Comp
		if norm.Sum() > 0 {
			comp = quantizeNormalized(nucs, comp, opts.Precision)
		}
	}

	var b strings.Builder
	if opts.Name != "" {
		fmt.Fprintf(&b, "c name: %s\n", opts.Name)
	}
	if opts.Density > 0 {
		fmt.Fprintf(&b, "c density = %.4f g/cc\n", opts.Density)
	}
	fmt.Fprintf(&b, "m%d\n", opts.Number)

	for _, n := range nucs {
		qty := comp[n]
		if m.Basis == material.BasisMass && qty > 0 {
			qty = -qty
		}
		fmt.Fprintf(&b, "     %s.%s %.*E\n", n.MCNP(), opts.Suffix, opts.Precision, qty)
	}

	return b.String(), nil
}

// quantizeNormalized rounds each fraction to the value its rendering prints
// and folds the accumulated rounding residual back into the entries, largest
// first. Without this the printed fractions drift from 1.0 by up to one
// format quantum per entry (nine 1/9 entries at precision 4 print as a 0.99999
// total).
func quantizeNormalized(nucs []nuclide.Nuclide, comp map[nuclide.Nuclide]float64, precision int) map[nuclide.Nuclide]float64 {
	out := make(map[nuclide.Nuclide]float64, len(nucs))
	var sum float64
	for _, n := range nucs {
		out[n] = roundTo(comp[n], precision)
		sum += out[n]
	}
	residual := 1.0 - sum

	order := make([]nuclide.Nuclide, len(nucs))
	copy(order, nucs)
	sort.Slice(order, func(i, j int) bool { return out[order[i]] > out[order[j]] })

	// Each fold absorbs what the entry's format grid can represent; entries
	// with smaller magnitudes sit on finer grids and soak up what remains.
	for _, n := range order {
		if math.Abs(residual) < 1e-12 {
			break
		}
		adjusted := roundTo(comp[n]+residual, precision)
		residual -= adjusted - out[n]
		out[n] = adjusted
	}
	return out
}

// roundTo rounds v to the value its scientific-notation rendering prints.
func roundTo(v float64, precision int) float64 {
	r, err := strconv.ParseFloat(fmt.Sprintf("%.*E", precision, v), 64)
	if err != nil {
		return v
	}
	return r
}
