package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/clinic-appointments/internal/model"
)

// TreatmentsCollection is the collection name holding the catalog.
const TreatmentsCollection = "treatments"

// MongoTreatmentRepo reads treatments from a mongo collection.
type MongoTreatmentRepo struct {
	coll *mongo.Collection
}

// NewMongoTreatmentRepo binds the repository to the treatments collection
// of db.
func NewMongoTreatmentRepo(db *mongo.Database) *MongoTreatmentRepo {
	return &MongoTreatmentRepo{coll: db.Collection(TreatmentsCollection)}
}

// List returns every treatment in natural collection order.
func (r *MongoTreatmentRepo) List(ctx context.Context) ([]model.Document, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find treatments: %w", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode treatments: %w", err)
	}
	return toDocuments(docs), nil
}

// toDocuments converts decoded bson maps into documents. The result is
// never nil so that an empty collection serializes as [].
func toDocuments(docs []bson.M) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.Document(d))
	}
	return out
}
