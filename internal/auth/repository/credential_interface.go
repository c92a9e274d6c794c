package repository

import (
	"mailboard/internal/auth/domain"
)

// CredentialRepository persists per-user mail provider credentials.
type CredentialRepository interface {
	// GetByUserID returns the user's credential row, nil when absent.
	GetByUserID(userID string) (*domain.ProviderCredential, error)
	// Save inserts or updates a credential row.
	Save(cred *domain.ProviderCredential) error
}
