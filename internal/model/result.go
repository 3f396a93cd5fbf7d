package model

// InsertResult acknowledges a single document insert. InsertedID carries the
// storage identifier (an ObjectID hex string for mongo, an integer for SQL).
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// DeleteResult acknowledges a single document delete. DeletedCount is zero
// when nothing matched the identifier.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UpdateResult acknowledges a single document update.
//
// Fields:
//  MatchedCount  – documents that matched the filter (0 or 1).
//  ModifiedCount – documents actually changed; 0 when the new value equals the old one.
//  UpsertedCount – always 0, updates never insert.
//  UpsertedID    – always null.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}
