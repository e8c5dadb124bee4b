package service

import (
	"errors"
	"strings"
)

// ValidationError reports every violation found in an order payload.
// Never raised after a side effect.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid order payload: " + strings.Join(e.Violations, "; ")
}

// DuplicateOrderError signals that the duplicate guard matched a recent
// cash-on-delivery order for the same phone. The order was not stored.
type DuplicateOrderError struct {
	Phone      string
	ExistingID string
}

func (e *DuplicateOrderError) Error() string {
	return "duplicate cash order for phone " + e.Phone + " (existing order " + e.ExistingID + ")"
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsDuplicateOrder(err error) bool {
	var de *DuplicateOrderError
	return errors.As(err, &de)
}
