// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrSessionNotFound = errors.New("dashboard session not found")

// ErrInvalidTransition is returned when a dialog action does not apply to its current state.
var ErrInvalidTransition = errors.New("invalid dialog transition")

// ErrInvalidDisplayMode is returned for a display mode other than card or list.
var ErrInvalidDisplayMode = errors.New("invalid display mode")
