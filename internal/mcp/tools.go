package mcp

import "github.com/mark3labs/mcp-go/mcp"

var storeToolDef = mcp.NewTool("material_store",
	mcp.WithDescription("Store a material composition. Compositions are immutable once stored; use mode:replace to overwrite a named material."),
	mcp.WithString("name", mcp.Description("Optional material name. Names are case-insensitive and unique among live materials.")),
	mcp.WithObject("comp", mcp.Required(), mcp.Description("Nuclide -> quantity map. Keys accept symbolic (U-235), ZAID (92235), or canonical (922350000) forms.")),
	mcp.WithString("basis", mcp.Description("Fraction basis: mass (default) or atom."), mcp.Enum("mass", "atom")),
	mcp.WithNumber("density", mcp.Description("Bulk density in g/cc.")),
	mcp.WithNumber("mass", mcp.Description("Total mass attribute, tracked separately from fractions.")),
	mcp.WithString("notes", mcp.Description("Markdown notes.")),
	mcp.WithArray("tags", mcp.Description("Tags for categorization.")),
	mcp.WithString("source", mcp.Description("Where the material came from.")),
	mcp.WithString("mode", mcp.Description("Name collision behavior: error (default) or replace."), mcp.Enum("error", "replace")),
)

var fetchToolDef = mcp.NewTool("material_fetch",
	mcp.WithDescription("Fetch a stored material by id or name (exactly one)."),
	mcp.WithString("id", mcp.Description("Material ULID.")),
	mcp.WithString("name", mcp.Description("Material name (case-insensitive).")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted materials.")),
)

var listToolDef = mcp.NewTool("material_list",
	mcp.WithDescription("List stored materials, most recently updated first."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Page offset.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted materials.")),
)

var updateToolDef = mcp.NewTool("material_update",
	mcp.WithDescription("Update material metadata (name, notes, density, mass, tags, source). Compositions cannot be edited; store a new material instead."),
	mcp.WithString("id", mcp.Description("Material ULID.")),
	mcp.WithString("name", mcp.Description("Material name (case-insensitive).")),
	mcp.WithString("new_name", mcp.Description("New name for the material.")),
	mcp.WithString("notes", mcp.Description("New markdown notes.")),
	mcp.WithNumber("density", mcp.Description("New density in g/cc.")),
	mcp.WithNumber("mass", mcp.Description("New total mass attribute.")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list.")),
	mcp.WithString("source", mcp.Description("New source.")),
)

var deleteToolDef = mcp.NewTool("material_delete",
	mcp.WithDescription("Soft-delete a material by id or name. The name becomes reusable; the row survives until purge."),
	mcp.WithString("id", mcp.Description("Material ULID.")),
	mcp.WithString("name", mcp.Description("Material name (case-insensitive).")),
)

var cardToolDef = mcp.NewTool("material_card",
	mcp.WithDescription("Render an MCNP material card from a stored material (id or name) or an inline comp."),
	mcp.WithString("id", mcp.Description("Material ULID.")),
	mcp.WithString("name", mcp.Description("Material name (case-insensitive).")),
	mcp.WithObject("comp", mcp.Description("Inline nuclide -> quantity map, bypassing the store.")),
	mcp.WithString("basis", mcp.Description("Basis for inline comp: mass (default) or atom."), mcp.Enum("mass", "atom")),
	mcp.WithNumber("number", mcp.Description("Material number for the m-card header.")),
	mcp.WithString("suffix", mcp.Description("Cross-section library suffix (default 80c).")),
	mcp.WithNumber("precision", mcp.Description("Digits after the decimal point in fractions (default 4).")),
	mcp.WithBoolean("normalize", mcp.Description("Rescale fractions to sum to 1.0. Off by default; fractions are never silently rescaled.")),
)

var exportToolDef = mcp.NewTool("material_export",
	mcp.WithDescription("Export all materials to a JSONL file."),
	mcp.WithString("path", mcp.Description("Destination path (.jsonl). Defaults to a timestamped file under ~/.nucdeck/exports.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted materials.")),
)

var importToolDef = mcp.NewTool("material_import",
	mcp.WithDescription("Import materials from a JSONL export file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source path (.jsonl).")),
	mcp.WithString("mode", mcp.Description("Collision behavior: error (default, atomic) or replace."), mcp.Enum("error", "replace")),
)

var purgeToolDef = mcp.NewTool("material_purge",
	mcp.WithDescription("Permanently remove soft-deleted materials."),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge materials deleted more than this many days ago. Omit to purge all soft-deleted materials.")),
)

var nuclideInfoToolDef = mcp.NewTool("nuclide_info",
	mcp.WithDescription("Parse a nuclide identifier and report Z, A, metastable state, MCNP ZAID token, and atomic mass."),
	mcp.WithString("identifier", mcp.Required(), mcp.Description("Symbolic (U-235, Am-242m), ZAID (92235), or canonical (922350000) form.")),
)
