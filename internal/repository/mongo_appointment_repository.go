package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/clinic-appointments/internal/model"
)

// AppointmentsCollection is the collection name holding appointments.
const AppointmentsCollection = "appointments"

// MongoAppointmentRepo stores appointments as free-form mongo documents.
// Identifiers are ObjectIDs generated by the driver on insert.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo binds the repository to the appointments
// collection of db.
func NewMongoAppointmentRepo(db *mongo.Database) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{coll: db.Collection(AppointmentsCollection)}
}

func (r *MongoAppointmentRepo) Create(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	if doc == nil {
		doc = model.Document{}
	}
	res, err := r.coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (r *MongoAppointmentRepo) List(ctx context.Context, email *string) ([]model.Document, error) {
	filter := bson.M{}
	if email != nil {
		filter[model.FieldEmail] = *email
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return toDocuments(docs), nil
}

func (r *MongoAppointmentRepo) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{model.FieldID: oid})
	if err != nil {
		return nil, fmt.Errorf("delete appointment %s: %w", id, err)
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *MongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, status *string) (*model.UpdateResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var value any
	if status != nil {
		value = *status
	}
	update := bson.M{"$set": bson.M{model.FieldStatus: value}}
	res, err := r.coll.UpdateOne(ctx, bson.M{model.FieldID: oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update appointment %s: %w", id, err)
	}
	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
