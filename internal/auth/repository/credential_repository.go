package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mailboard/internal/auth/domain"
)

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetByUserID(userID string) (*domain.ProviderCredential, error) {
	var cred domain.ProviderCredential
	err := r.db.Where("user_id = ?", userID).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) Save(cred *domain.ProviderCredential) error {
	now := time.Now()
	if cred.ID == "" {
		cred.ID = uuid.New().String()
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	return r.db.Save(cred).Error
}
