package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray is a custom type to handle JSON arrays in GORM text columns
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*a = []string{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// ColumnType classifies a Kanban column. Each user has exactly one column
// of each non-custom type; custom columns are unbounded.
type ColumnType string

const (
	ColumnTypeInbox      ColumnType = "inbox"
	ColumnTypeBacklog    ColumnType = "backlog"
	ColumnTypeTodo       ColumnType = "todo"
	ColumnTypeInProgress ColumnType = "in_progress"
	ColumnTypeDone       ColumnType = "done"
	ColumnTypeSnoozed    ColumnType = "snoozed"
	ColumnTypeCustom     ColumnType = "custom"
)

// Column represents one Kanban board column for a user.
type Column struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	UserID    string     `json:"user_id" gorm:"index:idx_user_column_order;not null"`
	Name      string     `json:"name" gorm:"not null"`
	Type      ColumnType `json:"type" gorm:"not null"`
	Order     int        `json:"order" gorm:"column:display_order;index:idx_user_column_order;not null;default:0"`
	Color     string     `json:"color,omitempty"`
	IsDefault bool       `json:"is_default" gorm:"not null;default:false"`

	// Gmail label mapping: labels applied/removed when an email enters this
	// column. Opaque to the engine, passed straight through to the provider.
	GmailLabelID   string      `json:"gmail_label_id,omitempty" gorm:"default:''"`
	GmailLabelName string      `json:"gmail_label_name,omitempty" gorm:"default:''"`
	AddLabelIDs    StringArray `json:"add_label_ids,omitempty" gorm:"type:text"`
	RemoveLabelIDs StringArray `json:"remove_label_ids,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Column) TableName() string {
	return "kanban_columns"
}

// MaxColumnNameLen bounds user-supplied column names.
const MaxColumnNameLen = 50

// DefaultColumns returns the fixed default column set for a new user, with
// deterministic display orders 0..5.
func DefaultColumns(userID string, now time.Time) []*Column {
	mk := func(name string, typ ColumnType, order int, color string) *Column {
		return &Column{
			UserID:    userID,
			Name:      name,
			Type:      typ,
			Order:     order,
			Color:     color,
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return []*Column{
		mk("Inbox", ColumnTypeInbox, 0, "#4285F4"),
		mk("Backlog", ColumnTypeBacklog, 1, "#9C27B0"),
		mk("To Do", ColumnTypeTodo, 2, "#FBBC04"),
		mk("In Progress", ColumnTypeInProgress, 3, "#FF6D01"),
		mk("Done", ColumnTypeDone, 4, "#34A853"),
		mk("Snoozed", ColumnTypeSnoozed, 5, "#9E9E9E"),
	}
}
