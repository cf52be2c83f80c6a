package deck

import (
	"fmt"
	"strconv"
	"strings"

	"nucdeck/internal/errors"
	"nucdeck/internal/material"
	"nucdeck/internal/nuclide"
)

// ParseMCNPCard parses a card previously produced by MCNPCard back into a
// material and the options needed to re-serialize it byte-identically.
// Only ground-state ZAID tokens are accepted: the MCNP metastable offset is
// not reversible without isotope heuristics, so metastable cards do not
// round-trip through this parser.
func ParseMCNPCard(card string) (material.Material, CardOptions, error) {
	opts := CardOptions{Precision: -1}
	comp := make(map[nuclide.Nuclide]float64)
	basis := material.BasisAtom
	sawHeader := false

	for lineNum, line := range strings.Split(card, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "c name: "):
			opts.Name = strings.TrimPrefix(trimmed, "c name: ")
			continue
		case strings.HasPrefix(trimmed, "c density = "):
			field := strings.TrimSuffix(strings.TrimPrefix(trimmed, "c density = "), " g/cc")
			density, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return material.Material{}, opts, parseErr(lineNum, "unparseable density comment")
			}
			opts.Density = density
			continue
		case strings.HasPrefix(trimmed, "c"):
			// Other comments carry no state.
			continue
		}

		if !sawHeader {
			if !strings.HasPrefix(trimmed, "m") {
				return material.Material{}, opts, parseErr(lineNum, "expected m-card header")
			}
			number, err := strconv.Atoi(trimmed[1:])
			if err != nil || number <= 0 {
				return material.Material{}, opts, parseErr(lineNum, "unparseable material number")
			}
			opts.Number = number
			sawHeader = true
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) != 2 {
			return material.Material{}, opts, parseErr(lineNum, "entry must be ZAID.suffix and fraction")
		}

		zaid, suffix, ok := strings.Cut(fields[0], ".")
		if !ok {
			return material.Material{}, opts, parseErr(lineNum, "entry token missing library suffix")
		}
		if opts.Suffix == "" {
			opts.Suffix = suffix
		} else if suffix != opts.Suffix {
			return material.Material{}, opts, parseErr(lineNum, "mixed library suffixes in one card")
		}

		v, err := strconv.ParseInt(zaid, 10, 64)
		if err != nil {
			return material.Material{}, opts, parseErr(lineNum, "unparseable ZAID token")
		}
		n, err := nuclide.FromInt(v)
		if err != nil {
			return material.Material{}, opts, err
		}

		frac, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return material.Material{}, opts, parseErr(lineNum, "unparseable fraction")
		}
		if frac < 0 {
			basis = material.BasisMass
			frac = -frac
		}
		comp[n] = frac

		if p := fractionPrecision(fields[1]); opts.Precision < 0 || p < opts.Precision {
			opts.Precision = p
		}
	}

	if !sawHeader {
		return material.Material{}, opts, errors.NewInvalidRequest("card has no m-card header")
	}
	if opts.Precision < 0 {
		opts.Precision = DefaultPrecision
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if len(comp) == 0 {
		basis = material.BasisMass
	}

	m, err := material.FromNuclides(comp, basis)
	if err != nil {
		return material.Material{}, opts, err
	}
	return m, opts, nil
}

// fractionPrecision counts the digits between the decimal point and the
// exponent marker of a scientific-notation token.
func fractionPrecision(token string) int {
	dot := strings.IndexByte(token, '.')
	exp := strings.IndexAny(token, "Ee")
	if dot < 0 || exp < 0 || exp < dot {
		return DefaultPrecision
	}
	return exp - dot - 1
}

func parseErr(lineNum int, msg string) *errors.DeckError {
	return errors.NewInvalidRequest(fmt.Sprintf("line %d: %s", lineNum+1, msg))
}
