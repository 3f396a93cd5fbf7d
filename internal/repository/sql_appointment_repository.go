package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/clinic-appointments/internal/model"
)

// SQLAppointmentRepo stores appointments in the `appointments` table. The
// document column is the source of truth; the email and status columns are
// copies kept for filtering.
type SQLAppointmentRepo struct {
	db *sql.DB
}

// NewSQLAppointmentRepo constructs a SQLAppointmentRepo with the provided DB handle.
func NewSQLAppointmentRepo(db *sql.DB) *SQLAppointmentRepo {
	return &SQLAppointmentRepo{db: db}
}

// Create inserts doc and reports the auto-generated id.
func (r *SQLAppointmentRepo) Create(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	body, err := encodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("encode appointment: %w", err)
	}
	const q = "INSERT INTO appointments (email, status, document) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, nullString(doc, model.FieldEmail), nullString(doc, model.FieldStatus), body)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: uint64(id)}, nil
}

// List returns appointments ordered by id, restricted to email when it is
// non-nil.
func (r *SQLAppointmentRepo) List(ctx context.Context, email *string) ([]model.Document, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if email == nil {
		rows, err = r.db.QueryContext(ctx, "SELECT id, document FROM appointments ORDER BY id")
	} else {
		rows, err = r.db.QueryContext(ctx, "SELECT id, document FROM appointments WHERE email = ? ORDER BY id", *email)
	}
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("scan appointments: %w", err)
	}
	return docs, nil
}

// Delete removes one appointment by id.
func (r *SQLAppointmentRepo) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	n, err := parseSQLID(id)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = ?", n)
	if err != nil {
		return nil, fmt.Errorf("delete appointment %d: %w", n, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete appointment %d: %w", n, err)
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

// UpdateStatus reads the current document and rewrites it only when the
// status actually changes, so that a repeated update reports matched=1 and
// modified=0. Read and write share one transaction.
func (r *SQLAppointmentRepo) UpdateStatus(ctx context.Context, id string, status *string) (*model.UpdateResult, error) {
	n, err := parseSQLID(id)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update %d: %w", n, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var raw []byte
	err = tx.QueryRowContext(ctx, "SELECT document FROM appointments WHERE id = ?", n).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.UpdateResult{Acknowledged: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment %d: %w", n, err)
	}
	doc, err := decodeDocument(int64(n), raw)
	if err != nil {
		return nil, err
	}

	if cur, ok := doc[model.FieldStatus]; ok && sameStatus(cur, status) {
		return &model.UpdateResult{Acknowledged: true, MatchedCount: 1}, nil
	}

	var value any
	if status != nil {
		value = *status
	}
	doc[model.FieldStatus] = value
	body, err := encodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("encode appointment %d: %w", n, err)
	}
	const q = "UPDATE appointments SET status = ?, document = ? WHERE id = ?"
	if _, err := tx.ExecContext(ctx, q, nullString(doc, model.FieldStatus), body, n); err != nil {
		return nil, fmt.Errorf("update appointment %d: %w", n, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update %d: %w", n, err)
	}
	committed = true
	return &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func sameStatus(cur any, status *string) bool {
	if status == nil {
		return cur == nil
	}
	s, ok := cur.(string)
	return ok && s == *status
}
