// Package repository defines the storage contracts used by the HTTP
// handlers together with mongo and SQL implementations. Sentinel errors
// declared here let handlers map failures onto HTTP responses without
// knowing which backend produced them.
package repository

import "errors"

// ErrInvalidID is returned when a path identifier cannot be parsed into the
// backend's identifier type (ObjectID hex for mongo, positive integer for
// SQL). Handlers translate it into a 400 response.
var ErrInvalidID = errors.New("invalid identifier")
