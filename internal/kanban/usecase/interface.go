package usecase

import (
	"context"
	"time"

	"mailboard/internal/kanban/domain"
)

// ColumnView is a column plus its current email count, for board rendering.
type ColumnView struct {
	*domain.Column
	EmailCount int64 `json:"email_count"`
}

// Board is the full Kanban view: the user's columns and the board rows
// bucketed per column, sorted by position.
type Board struct {
	Columns        []*ColumnView                    `json:"columns"`
	EmailsByColumn map[string][]*domain.EmailStatus `json:"emails_by_column"`
}

// SyncResult reports the outcome of one provider sync pass.
type SyncResult struct {
	Synced  int    `json:"synced"`
	Skipped int    `json:"skipped"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// SearchResult is one ranked fuzzy-search hit.
type SearchResult struct {
	ID             string    `json:"id"`
	EmailID        string    `json:"email_id"`
	ColumnID       string    `json:"column_id"`
	ColumnName     string    `json:"column_name"`
	Subject        string    `json:"subject"`
	FromEmail      string    `json:"from_email"`
	FromName       string    `json:"from_name"`
	Preview        string    `json:"preview"`
	Summary        string    `json:"summary,omitempty"`
	ReceivedAt     time.Time `json:"received_at"`
	IsRead         bool      `json:"is_read"`
	IsStarred      bool      `json:"is_starred"`
	HasAttachments bool      `json:"has_attachments"`
	Score          float64   `json:"score"`
	MatchedFields  []string  `json:"matched_fields"`
}

// CreateColumnParams carries the inputs for creating a custom column.
type CreateColumnParams struct {
	Name  string
	Color string
	Order *int
}

// UpdateColumnParams carries the optional updates for a column; nil fields
// are left unchanged.
type UpdateColumnParams struct {
	Name           *string
	Color          *string
	Order          *int
	GmailLabelID   *string
	GmailLabelName *string
	AddLabelIDs    []string
	RemoveLabelIDs []string
}

// ColumnUsecase owns column lifecycle: default bootstrap, custom CRUD,
// deletion with email migration.
type ColumnUsecase interface {
	EnsureDefaultColumns(userID string) ([]*domain.Column, error)
	ListColumns(userID string) ([]*ColumnView, error)
	CreateColumn(userID string, params CreateColumnParams) (*domain.Column, error)
	UpdateColumn(userID, columnID string, params UpdateColumnParams) (*domain.Column, error)
	DeleteColumn(userID, columnID string) error
	ReorderColumns(userID string, orders map[string]int) error
}

// BoardUsecase orchestrates board assembly, placement, snooze lifecycle, and
// provider sync.
type BoardUsecase interface {
	GetBoard(ctx context.Context, userID string, maxSync int, sync bool) (*Board, error)
	SyncFromProvider(ctx context.Context, userID string, maxMessages int) (*SyncResult, error)
	AddEmail(ctx context.Context, userID, emailID, columnID string, generateSummary bool) (*domain.EmailStatus, error)
	MoveEmail(ctx context.Context, userID, emailID, targetColumnID string, newOrder *int) (*domain.EmailStatus, error)
	SnoozeEmail(ctx context.Context, userID, emailID string, until time.Time) (*domain.EmailStatus, error)
	UnsnoozeEmail(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error)
	GenerateSummary(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error)
	GenerateEmbedding(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error)
	GetEmailStatus(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error)
	RemoveFromBoard(ctx context.Context, userID, emailID string) error
}

// SearchUsecase is the fuzzy relevance search over the user's cached board
// rows. Pure read path: no mutation, no provider calls.
type SearchUsecase interface {
	Search(userID, query string, limit int, includeBody bool) ([]*SearchResult, error)
}
