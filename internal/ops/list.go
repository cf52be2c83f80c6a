package ops

import (
	"database/sql"

	"nucdeck/internal/db"
	"nucdeck/internal/material"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit          int // default: DefaultListLimit, max: MaxListLimit
	Offset         int
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Materials  []material.Summary `json:"materials"`
	Pagination Pagination         `json:"pagination"`
}

// List returns material summaries, most recently updated first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	summaries, total, err := db.List(database, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []material.Summary{}
	}

	return &ListOutput{
		Materials: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
	}, nil
}
