package nuclide

import (
	"testing"

	"nucdeck/internal/errors"
)

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Nuclide
	}{
		{"canonical integer", "922350000", 922350000},
		{"zaid integer", "92235", 922350000},
		{"symbolic with dash", "U-235", 922350000},
		{"symbolic lowercase", "u235", 922350000},
		{"hydrogen", "H-1", 10010000},
		{"metastable", "Am-242m", 952420001},
		{"metastable explicit index", "Am-242m2", 952420002},
		{"symbol containing m", "Sm-152", 621520000},
		{"thulium", "Tm-169", 691690000},
		{"whitespace trimmed", "  Pu-239  ", 942390000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-a-nuclide"},
		{"unknown symbol", "Xx-100"},
		{"zero", "0"},
		{"negative", "-922350000"},
		{"z too large", "1990010000"},
		{"a below z", "920010000"},
		{"elemental form", "920000000"},
		{"state too large", "922350009"},
		{"zaid metastable", "95642"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) should have failed", tt.input)
			}
			if !errors.Is(err, errors.ErrInvalidNuclide) {
				t.Errorf("Parse(%q) error code = %v, want INVALID_NUCLIDE", tt.input, err)
			}
		})
	}
}

func TestNuclide_Accessors(t *testing.T) {
	n := Nuclide(952420001)
	if n.Z() != 95 {
		t.Errorf("Z() = %d, want 95", n.Z())
	}
	if n.A() != 242 {
		t.Errorf("A() = %d, want 242", n.A())
	}
	if n.State() != 1 {
		t.Errorf("State() = %d, want 1", n.State())
	}
}

func TestNuclide_String(t *testing.T) {
	tests := []struct {
		n    Nuclide
		want string
	}{
		{10010000, "H-1"},
		{922350000, "U-235"},
		{952420001, "Am-242m"},
		{952420002, "Am-242m2"},
	}
	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestNuclide_MCNP(t *testing.T) {
	tests := []struct {
		n    Nuclide
		want string
	}{
		{10010000, "1001"},
		{80160000, "8016"},
		{922350000, "92235"},
		{962440000, "96244"},
		// Metastable states fold into the mass number: A + 300 + 100*S.
		{952420001, "95642"},
	}
	for _, tt := range tests {
		if got := tt.n.MCNP(); got != tt.want {
			t.Errorf("MCNP(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestSymbolTables(t *testing.T) {
	if got := Symbol(92); got != "U" {
		t.Errorf("Symbol(92) = %q, want U", got)
	}
	if got := Symbol(118); got != "Og" {
		t.Errorf("Symbol(118) = %q, want Og", got)
	}
	if got := Symbol(0); got != "" {
		t.Errorf("Symbol(0) = %q, want empty", got)
	}
	if z, ok := ZForSymbol("pu"); !ok || z != 94 {
		t.Errorf("ZForSymbol(pu) = %d, %v; want 94, true", z, ok)
	}
	if _, ok := ZForSymbol("zz"); ok {
		t.Error("ZForSymbol(zz) should not resolve")
	}
}
