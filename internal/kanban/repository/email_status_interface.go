package repository

import (
	"errors"
	"time"

	"mailboard/internal/kanban/domain"
)

// ErrDuplicateEmailStatus is returned by Create when a row for the same
// (user, email) pair already exists. The unique index is the authoritative
// enforcement of the one-row-per-message invariant; callers' existence
// checks are an optimization only.
var ErrDuplicateEmailStatus = errors.New("email already on board")

// EmailStatusRepository defines keyed access to email board-placement
// records, scoped by owning user.
type EmailStatusRepository interface {
	// GetByUserID gets all board rows for a user
	GetByUserID(userID string) ([]*domain.EmailStatus, error)
	// GetByUserIDAndEmailID gets the row for one external message; nil, nil when absent
	GetByUserIDAndEmailID(userID, emailID string) (*domain.EmailStatus, error)
	// FindByUserIDAndEmailIDs gets the rows among the given external ids (batched dedup lookup)
	FindByUserIDAndEmailIDs(userID string, emailIDs []string) ([]*domain.EmailStatus, error)
	// FindByUserIDAndColumnID gets a column's rows ordered by position
	FindByUserIDAndColumnID(userID, columnID string) ([]*domain.EmailStatus, error)
	// CountByUserIDAndColumnID counts rows in a column
	CountByUserIDAndColumnID(userID, columnID string) (int64, error)
	// Create inserts a new row; ErrDuplicateEmailStatus on (user, email) conflict
	Create(status *domain.EmailStatus) error
	// Save persists changes to an existing row
	Save(status *domain.EmailStatus) error
	// DeleteByUserIDAndEmailID removes the row for one external message
	DeleteByUserIDAndEmailID(userID, emailID string) error
	// FindExpiredSnoozes gets all rows, across users, whose snooze has lapsed
	FindExpiredSnoozes(now time.Time) ([]*domain.EmailStatus, error)
}
