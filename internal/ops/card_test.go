package ops

import (
	"strings"
	"testing"

	"nucdeck/internal/config"
	"nucdeck/internal/errors"
	"nucdeck/internal/nucdata"
)

func TestCard_StoredMaterial(t *testing.T) {
	database := setupOpsDB(t)
	cfg := config.DefaultConfig()

	stored, err := Store(database, StoreInput{
		Name:    stringPtr("LEU Fuel"),
		Comp:    leuComp,
		Density: floatPtr(10.2),
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	out, err := Card(database, cfg, nucdata.Default(), CardInput{ID: stored.ID, Number: 7})
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	if out.ID != stored.ID {
		t.Errorf("ID = %q, want %q", out.ID, stored.ID)
	}
	if out.Number != 7 {
		t.Errorf("Number = %d, want 7", out.Number)
	}
	if !strings.Contains(out.Card, "c name: LEU Fuel") {
		t.Errorf("card missing name comment:\n%s", out.Card)
	}
	if !strings.Contains(out.Card, "c density = 10.2000 g/cc") {
		t.Errorf("card missing density comment:\n%s", out.Card)
	}
	if !strings.Contains(out.Card, "m7\n") {
		t.Errorf("card missing header:\n%s", out.Card)
	}
	// Mass basis: negative fractions
	if !strings.Contains(out.Card, "92235.80c -5.0000E-02") {
		t.Errorf("card missing U-235 entry:\n%s", out.Card)
	}
}

func TestCard_InlineComp(t *testing.T) {
	database := setupOpsDB(t)
	cfg := config.DefaultConfig()

	out, err := Card(database, cfg, nucdata.Default(), CardInput{
		Comp:  map[string]float64{"H-1": 2.0, "O-16": 1.0},
		Basis: "atom",
	})
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	if out.ID != "" {
		t.Errorf("ID = %q, want empty for inline comp", out.ID)
	}
	// Atom basis: positive fractions
	if !strings.Contains(out.Card, "1001.80c 2.0000E+00") {
		t.Errorf("card missing H-1 entry:\n%s", out.Card)
	}
	if !strings.Contains(out.Card, "8016.80c 1.0000E+00") {
		t.Errorf("card missing O-16 entry:\n%s", out.Card)
	}
}

func TestCard_ConfigDefaults(t *testing.T) {
	database := setupOpsDB(t)
	cfg := &config.Config{CardPrecision: 2, XSSuffix: "70c", MatNumberStart: 5}

	out, err := Card(database, cfg, nucdata.Default(), CardInput{
		Comp: map[string]float64{"U-235": 1.0},
	})
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	if out.Number != 5 {
		t.Errorf("Number = %d, want 5", out.Number)
	}
	if !strings.Contains(out.Card, "m5\n") {
		t.Errorf("card missing m5 header:\n%s", out.Card)
	}
	if !strings.Contains(out.Card, "92235.70c -1.00E+00") {
		t.Errorf("card not using config suffix/precision:\n%s", out.Card)
	}
}

func TestCard_Normalize(t *testing.T) {
	database := setupOpsDB(t)
	cfg := config.DefaultConfig()

	out, err := Card(database, cfg, nucdata.Default(), CardInput{
		Comp:      map[string]float64{"U-235": 1.0, "U-238": 3.0},
		Normalize: true,
	})
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	if !strings.Contains(out.Card, "-2.5000E-01") {
		t.Errorf("card not normalized:\n%s", out.Card)
	}
	if !strings.Contains(out.Card, "-7.5000E-01") {
		t.Errorf("card not normalized:\n%s", out.Card)
	}
}

func TestCard_BothAddressAndInline(t *testing.T) {
	database := setupOpsDB(t)
	cfg := config.DefaultConfig()

	_, err := Card(database, cfg, nucdata.Default(), CardInput{
		ID:   "01A",
		Comp: map[string]float64{"U-235": 1.0},
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestCard_Neither(t *testing.T) {
	database := setupOpsDB(t)
	cfg := config.DefaultConfig()

	_, err := Card(database, cfg, nucdata.Default(), CardInput{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestCard_UnsupportedNuclide(t *testing.T) {
	database := setupOpsDB(t)
	cfg := config.DefaultConfig()

	// Library with no entries at all
	empty := nucdata.FromTable(nil)
	_, err := Card(database, cfg, empty, CardInput{
		Comp: map[string]float64{"U-235": 1.0},
	})
	if !errors.Is(err, errors.ErrUnsupportedNuclide) {
		t.Errorf("error = %v, want UNSUPPORTED_NUCLIDE", err)
	}
}

func TestCard_NotFound(t *testing.T) {
	database := setupOpsDB(t)
	cfg := config.DefaultConfig()

	_, err := Card(database, cfg, nucdata.Default(), CardInput{Name: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}
