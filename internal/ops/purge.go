package ops

import (
	"database/sql"

	"nucdeck/internal/db"
	"nucdeck/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays *int // nil = purge all soft-deleted records
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged int `json:"purged"`
}

// Purge permanently removes soft-deleted materials.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if input.OlderThanDays != nil && *input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must be non-negative")
	}

	purged, err := db.PurgeDeleted(database, input.OlderThanDays)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{Purged: purged}, nil
}
