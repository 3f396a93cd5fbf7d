package repository

import (
	"context"

	"github.com/iliyamo/clinic-appointments/internal/model"
)

// TreatmentStore reads the treatment catalog. The catalog is owned by the
// storage collaborator; this service never writes to it.
type TreatmentStore interface {
	List(ctx context.Context) ([]model.Document, error)
}

// AppointmentStore is the single-operation contract behind the appointment
// routes. Every method maps to exactly one logical storage call.
type AppointmentStore interface {
	// Create inserts doc as submitted.
	Create(ctx context.Context, doc model.Document) (*model.InsertResult, error)
	// List returns appointments whose email equals *email, or every
	// appointment when email is nil. A non-nil empty string matches
	// documents whose email is "".
	List(ctx context.Context, email *string) ([]model.Document, error)
	// Delete removes the appointment with the given identifier. A missing
	// appointment is not an error; DeletedCount is zero instead.
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
	// UpdateStatus sets the status member and nothing else. A nil status
	// stores null.
	UpdateStatus(ctx context.Context, id string, status *string) (*model.UpdateResult, error)
}
