// Package apperr defines the sentinel errors shared by the catalog, the log
// and the outer layers. Callers match them with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrComponentNotFound   = errors.New("component not found")
	ErrInvalidFood         = errors.New("invalid food")
	ErrInvalidServings     = errors.New("servings must be greater than zero")
	ErrInvalidDate         = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidRange        = errors.New("start date is after end date")
	ErrInvalidTarget       = errors.New("target must be a finite number >= 0")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrInconsistentState   = errors.New("inconsistent log state")
	ErrNoLogForDate        = errors.New("no log for date")
)
