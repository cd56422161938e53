package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"chiyasathi/internal/client"
)

var (
	// ErrValidation is wrapped by every locally detected input problem.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyCart is returned when submitting a cart without lines.
	ErrEmptyCart = fmt.Errorf("%w: your cart is empty", ErrValidation)
	// ErrTableNotSet is returned when submitting before a table was chosen.
	ErrTableNotSet = fmt.Errorf("%w: please set your table first", ErrValidation)
	// ErrSubmitInProgress rejects a second submission while one is in flight.
	ErrSubmitInProgress = errors.New("an order is already being placed")
	// ErrNotDeletable is returned when deleting an order that is not served or cancelled.
	ErrNotDeletable = errors.New("only served or cancelled orders can be deleted")
	// ErrOwnerOnly is returned when a customer session calls an owner action.
	ErrOwnerOnly = errors.New("only the cafe owner can do this")
	// ErrUnauthorized is returned when no session is active.
	ErrUnauthorized = client.ErrUnauthorized
	// ErrUnavailable marks transport failures reaching the ordering API.
	ErrUnavailable = client.ErrUnavailable
)

// FieldErrors carries per-field validation messages.
type FieldErrors map[string]string

// Error lists the field messages sorted by field.
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports ErrValidation.
func (e FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
