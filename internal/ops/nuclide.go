package ops

import (
	"nucdeck/internal/errors"
	"nucdeck/internal/nucdata"
	"nucdeck/internal/nuclide"
)

// NuclideInfoInput contains parameters for the NuclideInfo operation.
type NuclideInfoInput struct {
	Identifier string // any supported form: "U-235", "92235", "922350000"
}

// NuclideInfoOutput describes a single nuclide.
type NuclideInfoOutput struct {
	Canonical int64    `json:"canonical"`
	Name      string   `json:"name"`
	Z         int      `json:"z"`
	A         int      `json:"a"`
	State     int      `json:"state"`
	Symbol    string   `json:"symbol"`
	MCNP      string   `json:"mcnp"`
	Mass      *float64 `json:"mass,omitempty"` // u; nil when absent from the library
}

// NuclideInfo parses an identifier and reports the decoded nuclide, with its
// atomic mass when the default library has data for it.
func NuclideInfo(lib nucdata.Library, input NuclideInfoInput) (*NuclideInfoOutput, error) {
	if input.Identifier == "" {
		return nil, errors.NewInvalidRequest("identifier is required")
	}

	n, err := nuclide.Parse(input.Identifier)
	if err != nil {
		return nil, err
	}

	out := &NuclideInfoOutput{
		Canonical: int64(n),
		Name:      n.String(),
		Z:         n.Z(),
		A:         n.A(),
		State:     n.State(),
		Symbol:    nuclide.Symbol(n.Z()),
		MCNP:      n.MCNP(),
	}

	if lib != nil && lib.Contains(n) {
		mass, err := lib.AtomicMass(n)
		if err != nil {
			return nil, err
		}
		out.Mass = &mass
	}

	return out, nil
}
