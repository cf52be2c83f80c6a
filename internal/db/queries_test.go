package db

import (
	"database/sql"
	"testing"
	"time"

	"nucdeck/internal/errors"
	"nucdeck/internal/material"
	"nucdeck/internal/nuclide"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testRecord(id, name string) *material.Record {
	now := time.Now().Unix()
	norm := material.NormalizeName(name)
	density := 10.2
	return &material.Record{
		ID:        id,
		NameRaw:   &name,
		NameNorm:  &norm,
		Basis:     material.BasisMass,
		Density:   &density,
		Comp: map[nuclide.Nuclide]float64{
			922350000: 0.05,
			922380000: 0.95,
		},
		Tags:      []string{"fuel"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	database := setupDB(t)

	r := testRecord("01A", "LEU Fuel")
	if err := Insert(database, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByID(database, "01A", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.NameRaw == nil || *got.NameRaw != "LEU Fuel" {
		t.Errorf("NameRaw = %v, want LEU Fuel", got.NameRaw)
	}
	if got.Basis != material.BasisMass {
		t.Errorf("Basis = %q, want mass", got.Basis)
	}
	if got.Comp[922350000] != 0.05 {
		t.Errorf("Comp[U-235] = %v, want 0.05", got.Comp[922350000])
	}
	if got.Density == nil || *got.Density != 10.2 {
		t.Errorf("Density = %v, want 10.2", got.Density)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "fuel" {
		t.Errorf("Tags = %v, want [fuel]", got.Tags)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	database := setupDB(t)
	_, err := GetByID(database, "missing", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestGetByName(t *testing.T) {
	database := setupDB(t)
	if err := Insert(database, testRecord("01A", "Borated Water")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByName(database, "borated water", false)
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.ID != "01A" {
		t.Errorf("ID = %q, want 01A", got.ID)
	}
}

func TestInsert_DuplicateName(t *testing.T) {
	database := setupDB(t)
	if err := Insert(database, testRecord("01A", "Fuel")); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := Insert(database, testRecord("01B", "fuel"))
	if err != ErrUniqueConstraint {
		t.Errorf("error = %v, want ErrUniqueConstraint", err)
	}
}

func TestUpsert_ReplacesByName(t *testing.T) {
	database := setupDB(t)
	if err := Insert(database, testRecord("01A", "Fuel")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	replacement := testRecord("01B", "Fuel")
	replacement.Comp = map[nuclide.Nuclide]float64{942390000: 1.0}

	id, err := Upsert(database, replacement)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	// Existing row keeps its ID; the new composition lands on it.
	if id != "01A" {
		t.Errorf("Upsert id = %q, want 01A", id)
	}

	got, err := GetByID(database, "01A", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Comp[942390000] != 1.0 {
		t.Errorf("Comp not replaced: %v", got.Comp)
	}
}

func TestUpsert_InsertsWhenAbsent(t *testing.T) {
	database := setupDB(t)
	id, err := Upsert(database, testRecord("01C", "Fresh"))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if id != "01C" {
		t.Errorf("Upsert id = %q, want 01C", id)
	}
}

func TestUpdateByID(t *testing.T) {
	database := setupDB(t)
	r := testRecord("01A", "Fuel")
	if err := Insert(database, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	notes := "updated notes"
	r.Notes = &notes
	if err := UpdateByID(database, r); err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	got, err := GetByID(database, "01A", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Notes == nil || *got.Notes != "updated notes" {
		t.Errorf("Notes = %v, want updated notes", got.Notes)
	}

	missing := testRecord("zzz", "Ghost")
	if err := UpdateByID(database, missing); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateByID missing error = %v, want NOT_FOUND", err)
	}
}

func TestSoftDeleteAndPurge(t *testing.T) {
	database := setupDB(t)
	if err := Insert(database, testRecord("01A", "Fuel")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := SoftDelete(database, "01A"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	// Excluded from live reads
	if _, err := GetByID(database, "01A", false); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("live read error = %v, want NOT_FOUND", err)
	}

	// Visible with includeDeleted
	got, err := GetByID(database, "01A", true)
	if err != nil {
		t.Fatalf("GetByID includeDeleted failed: %v", err)
	}
	if got.DeletedAt == nil {
		t.Error("DeletedAt should be set")
	}

	// Second delete is a not-found
	if err := SoftDelete(database, "01A"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second SoftDelete error = %v, want NOT_FOUND", err)
	}

	// Name is reusable after soft delete
	if err := Insert(database, testRecord("01B", "Fuel")); err != nil {
		t.Errorf("Insert after soft delete failed: %v", err)
	}

	purged, err := PurgeDeleted(database, nil)
	if err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if _, err := GetByID(database, "01A", true); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("purged row still readable: %v", err)
	}
}

func TestPurgeDeleted_Cutoff(t *testing.T) {
	database := setupDB(t)
	if err := Insert(database, testRecord("01A", "Fuel")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := SoftDelete(database, "01A"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	days := 7
	purged, err := PurgeDeleted(database, &days)
	if err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	if purged != 0 {
		t.Errorf("purged = %d, want 0 (deleted just now)", purged)
	}
}

func TestList(t *testing.T) {
	database := setupDB(t)
	for _, spec := range []struct{ id, name string }{
		{"01A", "Fuel"}, {"01B", "Clad"}, {"01C", "Coolant"},
	} {
		r := testRecord(spec.id, spec.name)
		if err := Insert(database, r); err != nil {
			t.Fatalf("Insert %s failed: %v", spec.id, err)
		}
	}

	summaries, total, err := List(database, 2, 0, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(summaries) != 2 {
		t.Errorf("len(summaries) = %d, want 2", len(summaries))
	}
	for _, s := range summaries {
		if s.NuclideCount != 2 {
			t.Errorf("NuclideCount = %d, want 2", s.NuclideCount)
		}
	}
}

func TestListAll(t *testing.T) {
	database := setupDB(t)
	if err := Insert(database, testRecord("01A", "Fuel")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := Insert(database, testRecord("01B", "Clad")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := SoftDelete(database, "01B"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	live, err := ListAll(database, false)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(live) != 1 {
		t.Errorf("live records = %d, want 1", len(live))
	}

	all, err := ListAll(database, true)
	if err != nil {
		t.Fatalf("ListAll includeDeleted failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all records = %d, want 2", len(all))
	}
}

func TestCheckNameExists(t *testing.T) {
	database := setupDB(t)
	if err := Insert(database, testRecord("01A", "Fuel")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	exists, err := CheckNameExists(database, "fuel")
	if err != nil {
		t.Fatalf("CheckNameExists failed: %v", err)
	}
	if !exists {
		t.Error("CheckNameExists(fuel) = false, want true")
	}

	exists, err = CheckNameExists(database, "missing")
	if err != nil {
		t.Fatalf("CheckNameExists failed: %v", err)
	}
	if exists {
		t.Error("CheckNameExists(missing) = true, want false")
	}
}
