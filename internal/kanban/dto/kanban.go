package dto

import "time"

type CreateColumnRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Order *int   `json:"order"`
}

type UpdateColumnRequest struct {
	Name           *string  `json:"name"`
	Color          *string  `json:"color"`
	Order          *int     `json:"order"`
	GmailLabelID   *string  `json:"gmail_label_id"`
	GmailLabelName *string  `json:"gmail_label_name"`
	AddLabelIDs    []string `json:"add_label_ids"`
	RemoveLabelIDs []string `json:"remove_label_ids"`
}

type ReorderColumnsRequest struct {
	// Orders maps column id to its new display position.
	Orders map[string]int `json:"orders" binding:"required"`
}

type AddEmailRequest struct {
	EmailID         string `json:"email_id" binding:"required"`
	ColumnID        string `json:"column_id"`
	GenerateSummary bool   `json:"generate_summary"`
}

type MoveEmailRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
	Order    *int   `json:"order"`
}

type SnoozeEmailRequest struct {
	Until time.Time `json:"until" binding:"required"`
}
