package web

import (
	"database/sql"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"nucdeck/internal/config"
	"nucdeck/internal/errors"
	"nucdeck/internal/nucdata"
	"nucdeck/internal/nuclide"
	"nucdeck/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /materials — list stored materials.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	rows := make([]materialRow, len(result.Materials))
	for i, s := range result.Materials {
		rows[i] = materialRow{
			ID:           s.ID,
			DisplayName:  displayName(s.Name, s.ID),
			Basis:        string(s.Basis),
			NuclideCount: s.NuclideCount,
			Tags:         s.Tags,
			UpdatedAt:    s.UpdatedAt,
		}
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Materials",
			Version: h.renderer.version,
		},
		Materials:  rows,
		Pagination: result.Pagination,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleDetail handles GET /materials/{id} — view a single material with its
// composition table and a rendered card preview.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("material ID is required"))
		return
	}

	input := ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	m, err := ops.Fetch(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// Card preview is best-effort: a composition with nuclides missing from
	// the embedded library still gets a detail page.
	cardText := ""
	if m.DeletedAt == nil {
		if cardOut, err := ops.Card(h.db, h.cfg, nucdata.Default(), ops.CardInput{ID: id}); err == nil {
			cardText = cardOut.Card
		}
	}

	notesHTML := renderMarkdown("")
	if m.Notes != nil {
		notesHTML = renderMarkdown(*m.Notes)
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   displayName(m.Name, m.ID),
			Version: h.renderer.version,
		},
		Material:    m,
		CompRows:    compRows(m.Comp),
		CardText:    cardText,
		NotesHTML:   notesHTML,
		DisplayName: displayName(m.Name, m.ID),
	})
}

// HandleDelete handles DELETE /materials/{id} — soft-delete a material.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("material ID is required"))
		return
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/materials", http.StatusFound)
}

// compRows converts a symbolic composition map to sorted display rows.
func compRows(comp map[string]float64) []CompRow {
	type entry struct {
		n   nuclide.Nuclide
		qty float64
	}
	entries := make([]entry, 0, len(comp))
	for name, qty := range comp {
		n, err := nuclide.Parse(name)
		if err != nil {
			continue
		}
		entries = append(entries, entry{n, qty})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n < entries[j].n })

	rows := make([]CompRow, len(entries))
	for i, e := range entries {
		rows[i] = CompRow{
			Name:     e.n.String(),
			ZAID:     e.n.MCNP(),
			Quantity: e.qty,
		}
	}
	return rows
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// displayName returns the material name if present, or a truncated ID.
func displayName(name *string, id string) string {
	if name != nil && *name != "" {
		return *name
	}
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}
