package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHorizon = errors.New("forecast horizon must be positive")
	ErrInvalidRequest = errors.New("invalid prediction request")

	ErrNonFinitePrediction = errors.New("model produced a non-finite prediction")
)

// SchemaMismatchError means the expected feature columns are missing,
// empty or cannot be reconciled with the encoded request. A prediction is
// not possible until the schema artifact is fixed.
type SchemaMismatchError struct {
	Reason string
	Column string
	Index  int
}

func (e *SchemaMismatchError) Error() string {
	if e.Column == "" && e.Index == 0 {
		return "schema mismatch: " + e.Reason
	}
	return fmt.Sprintf("schema mismatch: %s (column %q at index %d)", e.Reason, e.Column, e.Index)
}
