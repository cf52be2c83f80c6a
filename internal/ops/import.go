package ops

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"nucdeck/internal/config"
	"nucdeck/internal/db"
	"nucdeck/internal/errors"
	"nucdeck/internal/material"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line,omitempty"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import loads materials from a JSONL export file. Derived fields
// (normalized names) are recomputed and compositions re-validated, so a
// hand-edited export cannot smuggle invalid state into the store.
func Import(database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.DeckError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors := parseExportFile(file)

	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	if input.Mode == ImportModeError {
		return importModeError(database, records)
	}
	return importModeReplace(database, records, parseErrors)
}

// parseExportFile parses a JSONL export file into validated records.
func parseExportFile(file *os.File) ([]*material.Record, []ImportError) {
	var records []*material.Record
	var parseErrors []ImportError

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		var export material.ExportRecord
		if err := json.Unmarshal(line, &export); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		// Header line
		if export.NucdeckExport {
			continue
		}

		if export.ID == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "missing id field",
			})
			continue
		}

		r, err := export.ToRecord()
		if err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      export.ID,
				Code:    "INVALID_RECORD",
				Message: err.Error(),
			})
			continue
		}

		records = append(records, r)
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, parseErrors
}

// importModeError imports all records in one transaction, aborting on the
// first collision.
func importModeError(database *sql.DB, records []*material.Record) (*ImportOutput, error) {
	tx, err := database.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	imported := 0
	for _, r := range records {
		existing, err := db.GetByID(database, r.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return &ImportOutput{
				Errors: []ImportError{{
					ID:      r.ID,
					Code:    "ID_COLLISION",
					Message: fmt.Sprintf("material with id %q already exists", r.ID),
				}},
			}, nil
		}

		if r.NameNorm != nil && r.DeletedAt == nil {
			exists, err := db.CheckNameExists(database, *r.NameNorm)
			if err != nil {
				return nil, err
			}
			if exists {
				name := ""
				if r.NameRaw != nil {
					name = *r.NameRaw
				}
				return &ImportOutput{
					Errors: []ImportError{{
						ID:      r.ID,
						Name:    name,
						Code:    "NAME_COLLISION",
						Message: fmt.Sprintf("material with name %q already exists", name),
					}},
				}, nil
			}
		}

		if err := insertWithTx(tx, r); err != nil {
			return nil, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ImportOutput{Imported: imported}, nil
}

// importModeReplace imports records, updating existing rows on collision.
func importModeReplace(database *sql.DB, records []*material.Record, parseErrors []ImportError) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError{}, parseErrors...)

	for _, r := range records {
		existingByID, err := db.GetByID(database, r.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}

		var existingByName *material.Record
		if r.NameNorm != nil && r.DeletedAt == nil {
			existingByName, err = db.GetByName(database, *r.NameNorm, false)
			if err != nil && !errors.Is(err, errors.ErrNotFound) {
				return nil, err
			}
		}

		// ID matches row A while name matches a different row B: no single
		// row can absorb the record.
		if existingByID != nil && existingByName != nil && existingByID.ID != existingByName.ID {
			name := ""
			if r.NameRaw != nil {
				name = *r.NameRaw
			}
			importErrors = append(importErrors, ImportError{
				ID:      r.ID,
				Name:    name,
				Code:    "AMBIGUOUS_COLLISION",
				Message: fmt.Sprintf("id %q matches existing material but name %q matches different material", r.ID, name),
			})
			skipped++
			continue
		}

		switch {
		case existingByID != nil:
			if err := db.UpdateByID(database, r); err != nil {
				return nil, err
			}
			imported++
		case existingByName != nil:
			r.ID = existingByName.ID
			if err := db.UpdateByID(database, r); err != nil {
				return nil, err
			}
			imported++
		default:
			if err := db.Insert(database, r); err != nil {
				return nil, err
			}
			imported++
		}
	}

	return &ImportOutput{Imported: imported, Skipped: skipped, Errors: importErrors}, nil
}

// insertWithTx inserts a record within a transaction.
func insertWithTx(tx *sql.Tx, r *material.Record) error {
	compJSON, err := material.EncodeComp(r.Comp)
	if err != nil {
		return errors.NewInternal(err)
	}

	var tagsJSON sql.NullString
	if len(r.Tags) > 0 {
		data, err := json.Marshal(r.Tags)
		if err != nil {
			return errors.NewInternal(err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO materials (
			id, name_raw, name_norm, notes, basis, density, mass,
			comp_json, tags_json, source, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		r.ID, toNullStr(r.NameRaw), toNullStr(r.NameNorm), toNullStr(r.Notes),
		string(r.Basis), toNullFl(r.Density), toNullFl(r.Mass),
		compJSON, tagsJSON, toNullStr(r.Source),
		r.CreatedAt, r.UpdatedAt, toNullI(r.DeletedAt),
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

func toNullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullFl(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func toNullI(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
