package domain

import "errors"

// Errors returned by the Kanban engine. The delivery layer maps these to
// HTTP status codes with errors.Is.
var (
	// ErrNotFound is returned when a column or board entry does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned on a column name collision for one user
	ErrDuplicateName = errors.New("column name already exists")

	// ErrForbidden is returned when mutating a default column
	ErrForbidden = errors.New("operation not allowed on default column")

	// ErrInvalidArgument is returned on bad caller input, e.g. a snooze time
	// in the past
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidTransition is returned on a bare move into the Snoozed column
	ErrInvalidTransition = errors.New("invalid column transition")

	// ErrInvalidState is returned when an operation conflicts with the row's
	// current state, e.g. unsnoozing an email that is not snoozed
	ErrInvalidState = errors.New("invalid state")

	// ErrNoSuitableColumn is returned when neither Backlog nor Inbox exists
	ErrNoSuitableColumn = errors.New("no suitable column found")

	// ErrProviderUnavailable is returned when the mail provider is not
	// connected or a provider call failed
	ErrProviderUnavailable = errors.New("mail provider unavailable")

	// ErrSummaryUnavailable is returned when the summary generator produced
	// no result
	ErrSummaryUnavailable = errors.New("summary unavailable")

	// ErrEmbeddingUnavailable is returned when the embedding generator
	// produced no result
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)
