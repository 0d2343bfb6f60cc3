package storage

import "errors"

// Sentinel errors shared by repositories and services. Repositories return
// these (optionally wrapped) and handlers translate them into HTTP statuses:
//
//   - ErrNotFound:     entity absent (404)
//   - ErrInvalidState: lifecycle precondition violated (400)
//   - ErrConflict:     uniqueness or concurrent-decision violation (409)
//   - ErrUnavailable:  persistence layer timeout or outage (503)
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
)
