package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iliyamo/clinic-appointments/internal/model"
)

// SQL tables keep each document as a JSON text column next to an
// auto-increment id. The id is not part of the stored JSON; it is added back
// under _id when a row is decoded.

// scanDocuments drains rows of (id, document) pairs. The result is never nil.
func scanDocuments(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()

	out := make([]model.Document, 0)
	for rows.Next() {
		var (
			id  int64
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeDocument(id int64, raw []byte) (model.Document, error) {
	doc := model.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document %d: %w", id, err)
		}
	}
	doc[model.FieldID] = uint64(id)
	return doc, nil
}

// encodeDocument serializes doc without its _id member. The string form is
// required by MySQL JSON columns, which reject binary-charset parameters.
func encodeDocument(doc model.Document) (string, error) {
	body := make(model.Document, len(doc))
	for k, v := range doc {
		if k == model.FieldID {
			continue
		}
		body[k] = v
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// nullString extracts a string member for an indexed column.
func nullString(doc model.Document, k string) sql.NullString {
	s, ok := doc[k].(string)
	return sql.NullString{String: s, Valid: ok}
}

// parseSQLID converts a path identifier into a row id. Zero is never issued
// by auto-increment columns, so it is rejected along with non-numbers.
func parseSQLID(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return n, nil
}
