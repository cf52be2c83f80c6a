// Package nuclide provides the canonical nuclide identifier type and the
// conversions between identifier conventions (canonical ZZZAAASSSS integers,
// ZAID-style integers, and symbolic names like "U-235" or "Am-242m").
package nuclide

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nucdeck/internal/errors"
)

// Nuclide is the canonical integer encoding of a specific isotope:
// Z*10_000_000 + A*10_000 + S, where S is the metastable state index.
// For example 922350000 is U-235 in its ground state and 952420001 is Am-242m.
type Nuclide int64

// Encoding constants for the ZZZAAASSSS layout.
const (
	aFactor = 10_000
	zFactor = 10_000_000

	// MaxA is the highest mass number accepted as physically plausible.
	MaxA = 300

	// MaxState is the highest metastable state index accepted.
	MaxState = 4
)

// Z returns the proton number.
func (n Nuclide) Z() int { return int(n / zFactor) }

// A returns the mass number.
func (n Nuclide) A() int { return int(n/aFactor) % 1000 }

// State returns the metastable state index (0 = ground state).
func (n Nuclide) State() int { return int(n % aFactor) }

// New builds a Nuclide from an explicit (Z, A, state) triple.
func New(z, a, state int) (Nuclide, error) {
	n := Nuclide(int64(z)*zFactor + int64(a)*aFactor + int64(state))
	if err := n.Validate(); err != nil {
		return 0, err
	}
	return n, nil
}

// Validate checks that the identifier decodes to a chemically and physically
// valid (Z, A, state) triple.
func (n Nuclide) Validate() error {
	ident := strconv.FormatInt(int64(n), 10)
	z, a, state := n.Z(), n.A(), n.State()
	switch {
	case n <= 0:
		return errors.NewInvalidNuclide(ident, "identifier must be positive")
	case z < 1 || z > MaxZ:
		return errors.NewInvalidNuclide(ident, fmt.Sprintf("element Z=%d is unknown", z))
	case a == 0:
		return errors.NewInvalidNuclide(ident, "mass number is zero (elemental forms are not concrete isotopes)")
	case a < z:
		return errors.NewInvalidNuclide(ident, fmt.Sprintf("mass number A=%d is below Z=%d", a, z))
	case a > MaxA:
		return errors.NewInvalidNuclide(ident, fmt.Sprintf("mass number A=%d exceeds %d", a, MaxA))
	case state > MaxState:
		return errors.NewInvalidNuclide(ident, fmt.Sprintf("metastable state %d exceeds %d", state, MaxState))
	}
	return nil
}

// String renders the symbolic name: "U-235", "Am-242m", "Am-242m2".
func (n Nuclide) String() string {
	sym := Symbol(n.Z())
	if sym == "" {
		return strconv.FormatInt(int64(n), 10)
	}
	s := fmt.Sprintf("%s-%d", sym, n.A())
	switch state := n.State(); {
	case state == 1:
		s += "m"
	case state > 1:
		s += fmt.Sprintf("m%d", state)
	}
	return s
}

// MCNP renders the MCNP ZAID token: Z*1000 + A, with the metastable state
// folded into the mass number as A + 300 + 100*S per the MCNP convention
// (Am-242m -> 95642).
func (n Nuclide) MCNP() string {
	a := n.A()
	if s := n.State(); s > 0 {
		a += 300 + 100*s
	}
	return strconv.Itoa(n.Z()*1000 + a)
}

// symbolicForm matches "U-235", "u235", "Am-242m", "Am-242m2".
var symbolicForm = regexp.MustCompile(`^([A-Za-z]{1,3})-?([0-9]{1,3})([mM][0-9]?)?$`)

// Parse converts an identifier in any supported convention to a validated
// Nuclide. Accepted forms:
//   - canonical integers: "922350000"
//   - ZAID-style integers: "92235" (ground states only; metastables must use
//     the symbolic or canonical form, since the ZAID metastable offset is not
//     reversible without isotope mass heuristics)
//   - symbolic names: "U-235", "u235", "Am-242m", "Am-242m2"
func Parse(s string) (Nuclide, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewInvalidNuclide(s, "identifier is empty")
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromInt(v)
	}

	m := symbolicForm.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.NewInvalidNuclide(s, "unrecognized identifier form")
	}

	z, ok := ZForSymbol(m[1])
	if !ok {
		return 0, errors.NewInvalidNuclide(s, fmt.Sprintf("unknown element symbol %q", m[1]))
	}
	a, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, errors.NewInvalidNuclide(s, "unparseable mass number")
	}

	state := 0
	if m[3] != "" {
		state = 1
		if digits := m[3][1:]; digits != "" {
			state, _ = strconv.Atoi(digits)
		}
	}

	return New(z, a, state)
}

// FromInt converts a bare integer identifier (canonical or ZAID-style) to a
// validated Nuclide.
func FromInt(v int64) (Nuclide, error) {
	if v <= 0 {
		return 0, errors.NewInvalidNuclide(strconv.FormatInt(v, 10), "identifier must be positive")
	}

	// ZAID-style: ZZAAA, at most 6 digits (Z <= 118).
	if v < zFactor {
		z := int(v / 1000)
		a := int(v % 1000)
		if a > MaxA {
			return 0, errors.NewInvalidNuclide(strconv.FormatInt(v, 10),
				"ZAID metastable forms are ambiguous; use the canonical or symbolic form")
		}
		return New(z, a, 0)
	}

	n := Nuclide(v)
	if err := n.Validate(); err != nil {
		return 0, err
	}
	return n, nil
}
