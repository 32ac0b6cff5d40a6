package repository

import (
	"fmt"

	"github.com/ri4re/linebot/internal/domain"
)

// StoreError is a failure reported by, or on the way to, the document store.
type StoreError struct {
	Op         string
	Validation bool
	// Field is set when a validation message names a mapped property.
	Field    domain.Field
	Property string
	Message  string
	Err      error
}

func (e *StoreError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Property)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
