package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Vector is an embedding vector stored as a JSON text column
type Vector []float64

// Value implements driver.Valuer
func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner
func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	var bytes []byte
	switch val := value.(type) {
	case []byte:
		bytes = val
	case string:
		bytes = []byte(val)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*v = nil
		return nil
	}
	return json.Unmarshal(bytes, v)
}

// EmailStatus tracks the Kanban placement of one external email for one user,
// plus cached display metadata so the board renders without provider calls.
//
// Invariants: (UserID, EmailID) is unique; Snoozed implies SnoozeUntil and
// PreviousColumnID are set.
type EmailStatus struct {
	ID            string `json:"id" gorm:"primaryKey"`
	UserID        string `json:"user_id" gorm:"index:idx_user_email,unique;index:idx_user_status_column;not null"`
	EmailID       string `json:"email_id" gorm:"index:idx_user_email,unique;not null"`
	ColumnID      string `json:"column_id" gorm:"index:idx_user_status_column;not null"`
	OrderInColumn int    `json:"order_in_column" gorm:"not null;default:0"`

	// Snooze state
	Snoozed          bool       `json:"snoozed" gorm:"not null;default:false"`
	SnoozeUntil      *time.Time `json:"snooze_until,omitempty"`
	PreviousColumnID string     `json:"previous_column_id,omitempty"`

	// AI-generated content
	Summary              string     `json:"summary,omitempty" gorm:"type:text"`
	SummaryGeneratedAt   *time.Time `json:"summary_generated_at,omitempty"`
	Embedding            Vector     `json:"embedding,omitempty" gorm:"type:text"`
	EmbeddingGeneratedAt *time.Time `json:"embedding_generated_at,omitempty"`

	// Display metadata cached at insertion time from the source message.
	// Not refreshed afterwards.
	Subject        string    `json:"subject"`
	FromEmail      string    `json:"from_email"`
	FromName       string    `json:"from_name"`
	Preview        string    `json:"preview"`
	ReceivedAt     time.Time `json:"received_at"`
	IsRead         bool      `json:"is_read"`
	IsStarred      bool      `json:"is_starred"`
	HasAttachments bool      `json:"has_attachments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (EmailStatus) TableName() string {
	return "email_kanban_statuses"
}

// MaxPreviewLen caps the cached preview text.
const MaxPreviewLen = 200
