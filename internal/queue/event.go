// Package queue defines the appointment event payload and the background
// consumer that writes those events to an audit log.
package queue

// AppointmentQueueName is the durable queue receiving AppointmentEvent messages.
const AppointmentQueueName = "appointment.events"

// Event types.
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentDeleted       = "appointment.deleted"
	EventAppointmentStatusUpdated = "appointment.status_updated"
)

// AppointmentEvent is published after an appointment is created, deleted or
// has its status changed. Email and Status are empty when the request did not
// carry them (a delete only knows the id).
type AppointmentEvent struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	AppointmentID string `json:"appointment_id"`
	Email         string `json:"email,omitempty"`
	Status        string `json:"status,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
