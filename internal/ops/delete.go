package ops

import (
	"database/sql"

	"nucdeck/internal/db"
	"nucdeck/internal/material"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID   string
	Name string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Delete soft-deletes a material. The name becomes reusable immediately;
// the row survives until Purge.
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	id := addr.ID
	if !addr.ByID {
		var r *material.Record
		r, err = db.GetByName(database, addr.Name, false)
		if err != nil {
			return nil, err
		}
		id = r.ID
	}

	if err := db.SoftDelete(database, id); err != nil {
		return nil, err
	}

	return &DeleteOutput{ID: id, Deleted: true}, nil
}
