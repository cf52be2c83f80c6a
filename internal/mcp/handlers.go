package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"nucdeck/internal/config"
	"nucdeck/internal/errors"
	"nucdeck/internal/nucdata"
	"nucdeck/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
	lib nucdata.Library
}

// NewHandlers creates a new Handlers instance backed by the embedded
// nuclide library.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg, lib: nucdata.Default()}
}

// Request types for each tool

// StoreRequest represents the arguments for material_store.
type StoreRequest struct {
	Name    *string            `json:"name,omitempty"`
	Comp    map[string]float64 `json:"comp"`
	Basis   string             `json:"basis,omitempty"`
	Density *float64           `json:"density,omitempty"`
	Mass    *float64           `json:"mass,omitempty"`
	Notes   *string            `json:"notes,omitempty"`
	Tags    []string           `json:"tags,omitempty"`
	Source  *string            `json:"source,omitempty"`
	Mode    string             `json:"mode,omitempty"`
}

// FetchRequest represents the arguments for material_fetch.
type FetchRequest struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ListRequest represents the arguments for material_list.
type ListRequest struct {
	Limit          int  `json:"limit,omitempty"`
	Offset         int  `json:"offset,omitempty"`
	IncludeDeleted bool `json:"include_deleted,omitempty"`
}

// UpdateRequest represents the arguments for material_update.
type UpdateRequest struct {
	ID      string    `json:"id,omitempty"`
	Name    string    `json:"name,omitempty"`
	NewName *string   `json:"new_name,omitempty"`
	Notes   *string   `json:"notes,omitempty"`
	Density *float64  `json:"density,omitempty"`
	Mass    *float64  `json:"mass,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Source  *string   `json:"source,omitempty"`
}

// DeleteRequest represents the arguments for material_delete.
type DeleteRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// CardRequest represents the arguments for material_card.
type CardRequest struct {
	ID        string             `json:"id,omitempty"`
	Name      string             `json:"name,omitempty"`
	Comp      map[string]float64 `json:"comp,omitempty"`
	Basis     string             `json:"basis,omitempty"`
	Number    int                `json:"number,omitempty"`
	Suffix    string             `json:"suffix,omitempty"`
	Precision int                `json:"precision,omitempty"`
	Normalize bool               `json:"normalize,omitempty"`
}

// ExportRequest represents the arguments for material_export.
type ExportRequest struct {
	Path           string `json:"path,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ImportRequest represents the arguments for material_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// PurgeRequest represents the arguments for material_purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// NuclideInfoRequest represents the arguments for nuclide_info.
type NuclideInfoRequest struct {
	Identifier string `json:"identifier"`
}

// Handler implementations

// HandleStore handles the material_store tool call.
func (h *Handlers) HandleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	mode := ops.StoreModeError
	if input.Mode == "replace" {
		mode = ops.StoreModeReplace
	}

	result, err := ops.Store(h.db, ops.StoreInput{
		Name:    input.Name,
		Comp:    input.Comp,
		Basis:   input.Basis,
		Density: input.Density,
		Mass:    input.Mass,
		Notes:   input.Notes,
		Tags:    input.Tags,
		Source:  input.Source,
		Mode:    mode,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the material_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             input.ID,
		Name:           input.Name,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the material_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the material_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(h.db, ops.UpdateInput{
		ID:      input.ID,
		Name:    input.Name,
		NewName: input.NewName,
		Notes:   input.Notes,
		Density: input.Density,
		Mass:    input.Mass,
		Tags:    input.Tags,
		Source:  input.Source,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the material_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{
		ID:   input.ID,
		Name: input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCard handles the material_card tool call.
func (h *Handlers) HandleCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CardRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Card(h.db, h.cfg, h.lib, ops.CardInput{
		ID:        input.ID,
		Name:      input.Name,
		Comp:      input.Comp,
		Basis:     input.Basis,
		Number:    input.Number,
		Suffix:    input.Suffix,
		Precision: input.Precision,
		Normalize: input.Normalize,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the material_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(h.db, h.cfg, ops.ExportInput{
		Path:           input.Path,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the material_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	mode := ops.ImportModeError
	if input.Mode == "replace" {
		mode = ops.ImportModeReplace
	}

	result, err := ops.Import(h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: mode,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the material_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(h.db, ops.PurgeInput{
		OlderThanDays: input.OlderThanDays,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNuclideInfo handles the nuclide_info tool call.
func (h *Handlers) HandleNuclideInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NuclideInfoRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NuclideInfo(h.lib, ops.NuclideInfoInput{
		Identifier: input.Identifier,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to avoid leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if deckErr, ok := err.(*errors.DeckError); ok {
		errorObj := map[string]any{
			"code":    deckErr.Code,
			"message": deckErr.Message,
			"status":  deckErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// file paths or SQL errors
		if deckErr.Code != errors.ErrInternal && deckErr.Details != nil {
			errorObj["details"] = deckErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
