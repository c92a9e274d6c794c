package repository

import "mailboard/internal/kanban/domain"

// ColumnRepository defines keyed access to Kanban column records, scoped by
// owning user.
type ColumnRepository interface {
	// GetColumnsByUserID gets all columns for a user, ordered by display order
	GetColumnsByUserID(userID string) ([]*domain.Column, error)
	// GetColumnByID gets a column by id; returns nil, nil when not found
	GetColumnByID(userID, columnID string) (*domain.Column, error)
	// GetColumnByType gets the user's column of a given type; nil, nil when absent
	GetColumnByType(userID string, columnType domain.ColumnType) (*domain.Column, error)
	// ExistsByUserIDAndName reports whether a column with that name exists
	ExistsByUserIDAndName(userID, name string) (bool, error)
	// CountByUserID counts the user's columns
	CountByUserID(userID string) (int64, error)
	// CreateColumn creates a new column
	CreateColumn(column *domain.Column) error
	// CreateColumns creates multiple columns at once
	CreateColumns(columns []*domain.Column) error
	// UpdateColumn updates a column
	UpdateColumn(column *domain.Column) error
	// DeleteColumn deletes a column
	DeleteColumn(userID, columnID string) error
	// UpdateColumnOrders updates display order for multiple columns
	UpdateColumnOrders(userID string, orders map[string]int) error
}
