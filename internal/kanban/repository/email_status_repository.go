package repository

import (
	"errors"
	"time"

	"mailboard/internal/kanban/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailStatusRepository implements EmailStatusRepository on GORM
type emailStatusRepository struct {
	db *gorm.DB
}

// NewEmailStatusRepository creates a new instance of emailStatusRepository
func NewEmailStatusRepository(db *gorm.DB) EmailStatusRepository {
	return &emailStatusRepository{db: db}
}

func (r *emailStatusRepository) GetByUserID(userID string) ([]*domain.EmailStatus, error) {
	var statuses []*domain.EmailStatus
	err := r.db.Where("user_id = ?", userID).Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *emailStatusRepository) GetByUserIDAndEmailID(userID, emailID string) (*domain.EmailStatus, error) {
	var status domain.EmailStatus
	err := r.db.Where("user_id = ? AND email_id = ?", userID, emailID).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (r *emailStatusRepository) FindByUserIDAndEmailIDs(userID string, emailIDs []string) ([]*domain.EmailStatus, error) {
	if len(emailIDs) == 0 {
		return []*domain.EmailStatus{}, nil
	}
	var statuses []*domain.EmailStatus
	err := r.db.Where("user_id = ? AND email_id IN ?", userID, emailIDs).Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *emailStatusRepository) FindByUserIDAndColumnID(userID, columnID string) ([]*domain.EmailStatus, error) {
	var statuses []*domain.EmailStatus
	err := r.db.Where("user_id = ? AND column_id = ?", userID, columnID).
		Order("order_in_column ASC").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *emailStatusRepository) CountByUserIDAndColumnID(userID, columnID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.EmailStatus{}).
		Where("user_id = ? AND column_id = ?", userID, columnID).
		Count(&count).Error
	return count, err
}

func (r *emailStatusRepository) Create(status *domain.EmailStatus) error {
	if status.ID == "" {
		status.ID = uuid.New().String()
	}
	now := time.Now()
	if status.CreatedAt.IsZero() {
		status.CreatedAt = now
	}
	status.UpdatedAt = now

	if err := r.db.Create(status).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmailStatus
		}
		return err
	}
	return nil
}

func (r *emailStatusRepository) Save(status *domain.EmailStatus) error {
	status.UpdatedAt = time.Now()
	return r.db.Save(status).Error
}

func (r *emailStatusRepository) DeleteByUserIDAndEmailID(userID, emailID string) error {
	return r.db.Where("user_id = ? AND email_id = ?", userID, emailID).
		Delete(&domain.EmailStatus{}).Error
}

func (r *emailStatusRepository) FindExpiredSnoozes(now time.Time) ([]*domain.EmailStatus, error) {
	var statuses []*domain.EmailStatus
	err := r.db.Where("snoozed = ? AND snooze_until <= ?", true, now).Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}
