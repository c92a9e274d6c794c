package domain

import "time"

// ProviderCredential stores one user's mail provider credentials: OAuth
// tokens for Gmail, username/password for IMAP. One row per user.
type ProviderCredential struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null"`

	AccessToken  string `json:"-" gorm:"type:text"`
	RefreshToken string `json:"-" gorm:"type:text"`

	IMAPUsername string `json:"imap_username,omitempty"`
	IMAPPassword string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ProviderCredential) TableName() string {
	return "provider_credentials"
}
