package ops

import (
	"fmt"
	"testing"
)

func TestList_Empty(t *testing.T) {
	database := setupOpsDB(t)

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Materials) != 0 {
		t.Errorf("Materials = %v, want empty", out.Materials)
	}
	if out.Pagination.Total != 0 {
		t.Errorf("Total = %d, want 0", out.Pagination.Total)
	}
	if out.Pagination.HasMore {
		t.Error("HasMore = true, want false")
	}
}

func TestList_Pagination(t *testing.T) {
	database := setupOpsDB(t)

	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("material %d", i)
		if _, err := Store(database, StoreInput{Name: &name, Comp: leuComp}); err != nil {
			t.Fatalf("Store %d failed: %v", i, err)
		}
	}

	out, err := List(database, ListInput{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Materials) != 2 {
		t.Errorf("len(Materials) = %d, want 2", len(out.Materials))
	}
	if out.Pagination.Total != 5 {
		t.Errorf("Total = %d, want 5", out.Pagination.Total)
	}
	if !out.Pagination.HasMore {
		t.Error("HasMore = false, want true")
	}

	out, err = List(database, ListInput{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Materials) != 1 {
		t.Errorf("len(Materials) = %d, want 1", len(out.Materials))
	}
	if out.Pagination.HasMore {
		t.Error("HasMore = true, want false")
	}
}

func TestList_LimitClamping(t *testing.T) {
	database := setupOpsDB(t)

	out, err := List(database, ListInput{Limit: 9999})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want %d", out.Pagination.Limit, MaxListLimit)
	}

	out, err = List(database, ListInput{Limit: -1, Offset: -10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != DefaultListLimit {
		t.Errorf("Limit = %d, want %d", out.Pagination.Limit, DefaultListLimit)
	}
	if out.Pagination.Offset != 0 {
		t.Errorf("Offset = %d, want 0", out.Pagination.Offset)
	}
}

func TestList_NuclideCount(t *testing.T) {
	database := setupOpsDB(t)

	if _, err := Store(database, StoreInput{Name: stringPtr("fuel"), Comp: leuComp}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Materials) != 1 {
		t.Fatalf("len(Materials) = %d, want 1", len(out.Materials))
	}
	if out.Materials[0].NuclideCount != 2 {
		t.Errorf("NuclideCount = %d, want 2", out.Materials[0].NuclideCount)
	}
}
