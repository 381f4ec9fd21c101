package store

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrIdempotencyConflict = errors.New("idempotency key conflict")
	ErrUnknownReference    = errors.New("unknown doctor or patient")
)
