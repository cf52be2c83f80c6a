package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"nucdeck/internal/config"
	"nucdeck/internal/errors"
	"nucdeck/internal/nucdata"
	"nucdeck/internal/ops"
	"nucdeck/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "nucdeck",
		Usage:   "Nuclide material store and MCNP card generator",
		Version: Version,
		Commands: []*cli.Command{
			storeCmd(db),
			fetchCmd(db),
			updateCmd(db),
			deleteCmd(db),
			listCmd(db),
			cardCmd(db, cfg),
			nuclideCmd(),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			purgeCmd(db),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// storeCmd creates the store command.
func storeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Store a material composition (--comp pairs or JSON object via stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Material name (optional)"},
			&cli.StringFlag{Name: "comp", Aliases: []string{"c"}, Usage: `Composition pairs, e.g. "U-235=0.05,U-238=0.95"`},
			&cli.StringFlag{Name: "basis", Aliases: []string{"b"}, Value: "mass", Usage: "Quantity basis: mass|atom"},
			&cli.Float64Flag{Name: "density", Aliases: []string{"d"}, Usage: "Density in g/cc"},
			&cli.Float64Flag{Name: "mass", Usage: "Total mass"},
			&cli.StringFlag{Name: "notes", Usage: "Markdown notes"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "source", Usage: "Provenance of the composition data"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Name collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			comp, err := compFromFlagOrStdin(c.String("comp"))
			if err != nil {
				return outputError(err)
			}

			input := ops.StoreInput{
				Comp:  comp,
				Basis: c.String("basis"),
				Mode:  ops.StoreMode(c.String("mode")),
			}

			if name := c.String("name"); name != "" {
				input.Name = &name
			}
			if c.IsSet("density") {
				density := c.Float64("density")
				input.Density = &density
			}
			if c.IsSet("mass") {
				mass := c.Float64("mass")
				input.Mass = &mass
			}
			if notes := c.String("notes"); notes != "" {
				input.Notes = &notes
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}
			if source := c.String("source"); source != "" {
				input.Source = &source
			}

			output, err := ops.Store(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a material by ID or name",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Material name"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted materials"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				IncludeDeleted: c.Bool("include-deleted"),
			}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			output, err := ops.Fetch(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update material metadata (compositions are immutable)",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Material name (addressing)"},
			&cli.StringFlag{Name: "new-name", Usage: "Rename the material"},
			&cli.StringFlag{Name: "notes", Usage: "New markdown notes"},
			&cli.Float64Flag{Name: "density", Aliases: []string{"d"}, Usage: "New density in g/cc"},
			&cli.Float64Flag{Name: "mass", Usage: "New total mass"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags"},
			&cli.StringFlag{Name: "source", Usage: "New source"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			if newName := c.String("new-name"); newName != "" {
				input.NewName = &newName
			}
			if c.IsSet("notes") {
				notes := c.String("notes")
				input.Notes = &notes
			}
			if c.IsSet("density") {
				density := c.Float64("density")
				input.Density = &density
			}
			if c.IsSet("mass") {
				mass := c.Float64("mass")
				input.Mass = &mass
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				input.Tags = &tags
			}
			if c.IsSet("source") {
				source := c.String("source")
				input.Source = &source
			}

			output, err := ops.Update(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a material",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Material name"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DeleteInput{}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			output, err := ops.Delete(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored materials",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted materials"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.List(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// cardCmd creates the card command.
func cardCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "card",
		Usage:     "Render an MCNP material card for a stored or inline composition",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Material name"},
			&cli.StringFlag{Name: "comp", Aliases: []string{"c"}, Usage: `Inline composition pairs, e.g. "1001=2,8016=1"`},
			&cli.StringFlag{Name: "basis", Aliases: []string{"b"}, Usage: "Basis for inline composition: mass|atom"},
			&cli.IntFlag{Name: "number", Usage: "Material number for the m-card header"},
			&cli.StringFlag{Name: "suffix", Usage: `Cross-section library suffix (e.g. "80c")`},
			&cli.IntFlag{Name: "precision", Aliases: []string{"p"}, Usage: "Significant digits for fractions"},
			&cli.BoolFlag{Name: "normalize", Usage: "Normalize fractions to sum to 1 before rendering"},
			&cli.BoolFlag{Name: "json", Usage: "Emit JSON instead of raw card text"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CardInput{
				Number:    c.Int("number"),
				Suffix:    c.String("suffix"),
				Precision: c.Int("precision"),
				Normalize: c.Bool("normalize"),
			}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Name = c.String("name")
			}

			if compStr := c.String("comp"); compStr != "" {
				comp, err := parseCompPairs(compStr)
				if err != nil {
					return outputError(err)
				}
				input.Comp = comp
				input.Basis = c.String("basis")
			}

			output, err := ops.Card(db, cfg, nucdata.Default(), input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			// Card text is the deliverable; emit it ready for deck inclusion.
			fmt.Print(output.Card)
			return nil
		},
	}
}

// nuclideCmd creates the nuclide command.
func nuclideCmd() *cli.Command {
	return &cli.Command{
		Name:      "nuclide",
		Usage:     "Show canonical forms and atomic mass for a nuclide identifier",
		ArgsUsage: "<identifier>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("nuclide identifier is required"))
			}

			output, err := ops.NuclideInfo(nucdata.Default(), ops.NuclideInfoInput{
				Identifier: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export materials to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.nucdeck/exports/materials-<timestamp>.jsonl)"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted materials"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:           c.String("path"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.Export(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import materials from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			}

			output, err := ops.Import(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted materials",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8641, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if deckErr, ok := err.(*errors.DeckError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", deckErr.Code, deckErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// compFromFlagOrStdin resolves a composition from the --comp flag, falling
// back to a JSON object piped via stdin ({"U-235": 0.05, ...}).
func compFromFlagOrStdin(flagValue string) (map[string]float64, error) {
	if flagValue != "" {
		return parseCompPairs(flagValue)
	}
	if !stdinHasData() {
		return nil, errors.NewInvalidRequest("composition is required: pass --comp or pipe a JSON object via stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	var comp map[string]float64
	if err := json.Unmarshal(data, &comp); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("stdin is not a JSON composition object: %v", err))
	}
	return comp, nil
}

// parseCompPairs parses "U-235=0.05,U-238=0.95" into a composition map.
func parseCompPairs(s string) (map[string]float64, error) {
	comp := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		ident, qtyStr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("composition pair %q must be NUCLIDE=QUANTITY", pair))
		}
		ident = strings.TrimSpace(ident)
		qty, err := strconv.ParseFloat(strings.TrimSpace(qtyStr), 64)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("composition pair %q has a non-numeric quantity", pair))
		}
		if _, dup := comp[ident]; dup {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("nuclide %q appears more than once", ident))
		}
		comp[ident] = qty
	}
	if len(comp) == 0 {
		return nil, errors.NewInvalidRequest("composition must not be empty")
	}
	return comp, nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
