package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"nucdeck/internal/config"
	"nucdeck/internal/db"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	return database, cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// leuArgs is a valid material_store argument set.
func leuArgs(name string) map[string]any {
	return map[string]any{
		"name":    name,
		"comp":    map[string]any{"U-235": 0.05, "U-238": 0.95},
		"density": 10.2,
	}
}

func TestHandleStore(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:      "store valid material",
			args:      leuArgs("leu fuel"),
			wantError: false,
		},
		{
			name:      "store without comp",
			args:      map[string]any{"name": "empty"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "store invalid nuclide",
			args: map[string]any{
				"comp": map[string]any{"Xx-1": 1.0},
			},
			wantError: true,
			errorCode: "INVALID_NUCLIDE",
		},
		{
			name: "store negative quantity",
			args: map[string]any{
				"comp": map[string]any{"U-235": -1.0},
			},
			wantError: true,
			errorCode: "INVALID_QUANTITY",
		},
		{
			name:      "store duplicate name with mode:error",
			args:      leuArgs("leu fuel"), // already exists from first test
			wantError: true,
			errorCode: "NAME_ALREADY_EXISTS",
		},
		{
			name: "store duplicate name with mode:replace",
			args: func() map[string]any {
				args := leuArgs("leu fuel")
				args["mode"] = "replace"
				return args
			}(),
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleStore(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleFetch(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	storeResult, _ := h.HandleStore(ctx, makeRequest(leuArgs("fetch test")))
	if storeResult.IsError {
		t.Fatalf("setup store failed: %v", extractErrorMessage(storeResult))
	}
	id := resultField(t, storeResult, "id").(string)

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{"fetch by name", map[string]any{"name": "fetch test"}, false, ""},
		{"fetch by id", map[string]any{"id": id}, false, ""},
		{"fetch non-existent", map[string]any{"name": "missing"}, true, "NOT_FOUND"},
		{"fetch with both", map[string]any{"id": id, "name": "fetch test"}, true, "AMBIGUOUS_ADDRESSING"},
		{"fetch with neither", map[string]any{}, true, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleFetch(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleCard(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	storeResult, _ := h.HandleStore(ctx, makeRequest(leuArgs("card test")))
	if storeResult.IsError {
		t.Fatalf("setup store failed: %v", extractErrorMessage(storeResult))
	}

	result, err := h.HandleCard(ctx, makeRequest(map[string]any{"name": "card test", "number": 3}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	card := resultField(t, result, "card").(string)
	if !strings.Contains(card, "m3\n") {
		t.Errorf("card missing m3 header:\n%s", card)
	}
	if !strings.Contains(card, "92235.80c") {
		t.Errorf("card missing U-235 token:\n%s", card)
	}

	// Inline comp without touching the store
	result, err = h.HandleCard(ctx, makeRequest(map[string]any{
		"comp":  map[string]any{"H-1": 2.0, "O-16": 1.0},
		"basis": "atom",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
}

func TestHandleNuclideInfo(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	result, err := h.HandleNuclideInfo(ctx, makeRequest(map[string]any{"identifier": "Am-242m"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	if mcnp := resultField(t, result, "mcnp").(string); mcnp != "95642" {
		t.Errorf("mcnp = %q, want 95642", mcnp)
	}

	result, err = h.HandleNuclideInfo(ctx, makeRequest(map[string]any{"identifier": "junk"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for invalid identifier")
	}
	assertErrorCode(t, result, "INVALID_NUCLIDE")
}

func TestHandleDeleteAndList(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	storeResult, _ := h.HandleStore(ctx, makeRequest(leuArgs("doomed")))
	if storeResult.IsError {
		t.Fatalf("setup store failed: %v", extractErrorMessage(storeResult))
	}

	deleteResult, err := h.HandleDelete(ctx, makeRequest(map[string]any{"name": "doomed"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if deleteResult.IsError {
		t.Fatalf("delete failed: %v", extractErrorMessage(deleteResult))
	}

	listResult, err := h.HandleList(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var listOutput map[string]any
	if err := json.Unmarshal([]byte(listResult.Content[0].(mcp.TextContent).Text), &listOutput); err != nil {
		t.Fatalf("failed to unmarshal list result: %v", err)
	}
	pagination := listOutput["pagination"].(map[string]any)
	if total := pagination["total"].(float64); total != 0 {
		t.Errorf("total = %v, want 0", total)
	}
}

func TestNewServer_DisabledTools(t *testing.T) {
	database, cfg := testSetup(t)
	cfg.DisabledTools = []string{"material_purge"}

	s := NewServer(database, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"material_store", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("len(names) = %d, want %d", len(names), len(toolRegistry))
	}
}

// resultField unmarshals a success result and returns one field.
func resultField(t *testing.T, result *mcp.CallToolResult, field string) any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	return payload[field]
}

// assertErrorCode checks that an error result carries the expected code.
func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

// extractErrorMessage returns the raw text of a result for diagnostics.
func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
