package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"nucdeck/internal/errors"
	"nucdeck/internal/material"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.DeckError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

const recordColumns = `id, name_raw, name_norm, notes, basis, density, mass,
		comp_json, tags_json, source, created_at, updated_at, deleted_at`

// Insert stores a new material record in the database.
func Insert(db *sql.DB, r *material.Record) error {
	compJSON, tagsJSON, err := encodeRecordJSON(r)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO materials (
			id, name_raw, name_norm, notes, basis, density, mass,
			comp_json, tags_json, source, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		r.ID, toNullString(r.NameRaw), toNullString(r.NameNorm), toNullString(r.Notes),
		string(r.Basis), toNullFloat(r.Density), toNullFloat(r.Mass),
		compJSON, tagsJSON, toNullString(r.Source),
		r.CreatedAt, r.UpdatedAt, toNullInt(r.DeletedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// Upsert inserts a record, or replaces the live record with the same
// normalized name if one exists. Returns the ID of the resulting row.
// Unnamed records always insert.
func Upsert(db *sql.DB, r *material.Record) (string, error) {
	if r.NameNorm == nil {
		if err := Insert(db, r); err != nil {
			return "", err
		}
		return r.ID, nil
	}

	compJSON, tagsJSON, err := encodeRecordJSON(r)
	if err != nil {
		return "", err
	}

	// Conflict target matches the partial unique index on live named rows.
	query := `
		INSERT INTO materials (
			id, name_raw, name_norm, notes, basis, density, mass,
			comp_json, tags_json, source, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT(name_norm) WHERE name_norm IS NOT NULL AND deleted_at IS NULL
		DO UPDATE SET
			name_raw = excluded.name_raw,
			notes = excluded.notes,
			basis = excluded.basis,
			density = excluded.density,
			mass = excluded.mass,
			comp_json = excluded.comp_json,
			tags_json = excluded.tags_json,
			source = excluded.source,
			updated_at = excluded.updated_at
		RETURNING id
	`

	var id string
	err = db.QueryRow(query,
		r.ID, toNullString(r.NameRaw), toNullString(r.NameNorm), toNullString(r.Notes),
		string(r.Basis), toNullFloat(r.Density), toNullFloat(r.Mass),
		compJSON, tagsJSON, toNullString(r.Source),
		r.CreatedAt, r.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	return id, nil
}

// GetByID retrieves a material record by its ULID.
// If includeDeleted is false, soft-deleted records are excluded.
func GetByID(db *sql.DB, id string, includeDeleted bool) (*material.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM materials WHERE id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	r, err := scanRecord(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	return r, err
}

// GetByName retrieves a live material record by its normalized name.
// If includeDeleted is true, falls back to the most recently deleted match.
func GetByName(db *sql.DB, nameNorm string, includeDeleted bool) (*material.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM materials WHERE name_norm = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	} else {
		query += ` ORDER BY deleted_at IS NULL DESC, updated_at DESC LIMIT 1`
	}

	r, err := scanRecord(db.QueryRow(query, nameNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(nameNorm)
	}
	return r, err
}

// CheckNameExists reports whether a live record with the normalized name exists.
func CheckNameExists(db *sql.DB, nameNorm string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM materials WHERE name_norm = ? AND deleted_at IS NULL`,
		nameNorm,
	).Scan(&count)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return count > 0, nil
}

// UpdateByID persists metadata changes to an existing record. The composition
// is written as well so import/replace can restore a full record.
func UpdateByID(db *sql.DB, r *material.Record) error {
	compJSON, tagsJSON, err := encodeRecordJSON(r)
	if err != nil {
		return err
	}

	query := `
		UPDATE materials SET
			name_raw = ?, name_norm = ?, notes = ?, basis = ?, density = ?, mass = ?,
			comp_json = ?, tags_json = ?, source = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query,
		toNullString(r.NameRaw), toNullString(r.NameNorm), toNullString(r.Notes),
		string(r.Basis), toNullFloat(r.Density), toNullFloat(r.Mass),
		compJSON, tagsJSON, toNullString(r.Source),
		time.Now().Unix(), r.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rows == 0 {
		return errors.NewNotFound(r.ID)
	}
	return nil
}

// List returns summaries ordered by updated_at descending, plus the total
// count for pagination.
func List(db *sql.DB, limit, offset int, includeDeleted bool) ([]material.Summary, int, error) {
	where := ""
	if !includeDeleted {
		where = " WHERE deleted_at IS NULL"
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM materials` + where).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(
		`SELECT id, name_raw, basis, comp_json, tags_json, updated_at FROM materials`+
			where+` ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []material.Summary
	for rows.Next() {
		var (
			s        material.Summary
			nameRaw  sql.NullString
			basis    string
			compJSON string
			tagsJSON sql.NullString
		)
		if err := rows.Scan(&s.ID, &nameRaw, &basis, &compJSON, &tagsJSON, &s.UpdatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.Name = fromNullString(nameRaw)
		s.Basis = material.Basis(basis)
		comp, err := material.DecodeComp(compJSON)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.NuclideCount = len(comp)
		if tagsJSON.Valid {
			if err := json.Unmarshal([]byte(tagsJSON.String), &s.Tags); err != nil {
				return nil, 0, errors.NewInternal(err)
			}
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// ListAll returns full records ordered by created_at ascending, for export.
func ListAll(db *sql.DB, includeDeleted bool) ([]*material.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM materials`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []*material.Record
	for rows.Next() {
		r, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// SoftDelete marks a record as deleted.
func SoftDelete(db *sql.DB, id string) error {
	result, err := db.Exec(
		`UPDATE materials SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().Unix(), time.Now().Unix(), id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rows == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// PurgeDeleted permanently removes soft-deleted records. When olderThanDays
// is non-nil, only records deleted before the cutoff are removed.
func PurgeDeleted(db *sql.DB, olderThanDays *int) (int, error) {
	query := `DELETE FROM materials WHERE deleted_at IS NOT NULL`
	args := []any{}
	if olderThanDays != nil {
		cutoff := time.Now().AddDate(0, 0, -*olderThanDays).Unix()
		query += ` AND deleted_at < ?`
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(rows), nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// rowScanner abstracts *sql.Row and *sql.Rows for record scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one record from a single-row query.
func scanRecord(row *sql.Row) (*material.Record, error) {
	return scanRecordRows(row)
}

func scanRecordRows(row rowScanner) (*material.Record, error) {
	var (
		r        material.Record
		nameRaw  sql.NullString
		nameNorm sql.NullString
		notes    sql.NullString
		basis    string
		density  sql.NullFloat64
		mass     sql.NullFloat64
		compJSON string
		tagsJSON sql.NullString
		source   sql.NullString
		deleted  sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &nameRaw, &nameNorm, &notes, &basis, &density, &mass,
		&compJSON, &tagsJSON, &source, &r.CreatedAt, &r.UpdatedAt, &deleted,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	r.NameRaw = fromNullString(nameRaw)
	r.NameNorm = fromNullString(nameNorm)
	r.Notes = fromNullString(notes)
	r.Basis = material.Basis(basis)
	r.Source = fromNullString(source)
	if density.Valid {
		r.Density = &density.Float64
	}
	if mass.Valid {
		r.Mass = &mass.Float64
	}
	if deleted.Valid {
		r.DeletedAt = &deleted.Int64
	}

	r.Comp, err = material.DecodeComp(compJSON)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if tagsJSON.Valid {
		if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	return &r, nil
}

// encodeRecordJSON serializes the composition and tags columns.
func encodeRecordJSON(r *material.Record) (string, sql.NullString, error) {
	compJSON, err := material.EncodeComp(r.Comp)
	if err != nil {
		return "", sql.NullString{}, errors.NewInternal(err)
	}

	var tagsJSON sql.NullString
	if len(r.Tags) > 0 {
		data, err := json.Marshal(r.Tags)
		if err != nil {
			return "", sql.NullString{}, errors.NewInternal(err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}

	return compJSON, tagsJSON, nil
}

// toNullString converts *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// toNullFloat converts *float64 to sql.NullFloat64.
func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// toNullInt converts *int64 to sql.NullInt64.
func toNullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
