package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/clinic-appointments/internal/model"
)

// SQLTreatmentRepo reads treatments from the `treatments` table.
type SQLTreatmentRepo struct {
	db *sql.DB
}

// NewSQLTreatmentRepo constructs a SQLTreatmentRepo with the provided DB handle.
func NewSQLTreatmentRepo(db *sql.DB) *SQLTreatmentRepo {
	return &SQLTreatmentRepo{db: db}
}

// List returns every treatment ordered by id.
func (r *SQLTreatmentRepo) List(ctx context.Context) ([]model.Document, error) {
	const q = "SELECT id, document FROM treatments ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query treatments: %w", err)
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("scan treatments: %w", err)
	}
	return docs, nil
}
