package domain

import (
	"context"
	"time"
)

// MessageSummary is the lightweight view of an external message returned by
// inbox listing: enough to cache display metadata without a second fetch.
type MessageSummary struct {
	ID             string
	Subject        string
	From           string // raw From header, e.g. `Jane Doe <jane@example.com>`
	Snippet        string
	ReceivedAt     time.Time
	IsRead         bool
	IsStarred      bool
	HasAttachments bool
	LabelIDs       []string
}

// MessageDetail adds the full body and attachment list to a summary.
type MessageDetail struct {
	MessageSummary
	Body        string
	Attachments []AttachmentInfo
}

// AttachmentInfo describes one attachment of a message.
type AttachmentInfo struct {
	ID       string
	Filename string
	MimeType string
	Size     int64
}

// MailProvider is the external mail capability the engine depends on. The
// Gmail and IMAP adapters in pkg/ implement it; everything here treats it as
// potentially blocking I/O and calls it under a bounded context.
type MailProvider interface {
	// IsConnected reports whether the user has a usable provider connection.
	IsConnected(ctx context.Context, userID string) bool

	// ListInboxMessages returns up to max messages from the primary inbox
	// view. Single page; no deep pagination.
	ListInboxMessages(ctx context.Context, userID string, max int) ([]*MessageSummary, error)

	// GetMessage fetches one message including its body.
	GetMessage(ctx context.Context, userID, emailID string) (*MessageDetail, error)

	// ApplyLabels adds and removes provider labels on a message. Label ids
	// are opaque strings configured on columns.
	ApplyLabels(ctx context.Context, userID, emailID string, add, remove []string) error
}

// SummaryGenerator produces an AI summary of an email. An empty string with
// a nil error means the generator had no result, which is a valid outcome.
type SummaryGenerator interface {
	Summarize(ctx context.Context, subject, from, body string) (string, error)
}

// EmbeddingGenerator produces an embedding vector for an email. A nil vector
// with a nil error means no result.
type EmbeddingGenerator interface {
	Embed(ctx context.Context, subject, body string) ([]float64, error)
}
