package repository

import (
	"errors"
	"time"

	"mailboard/internal/kanban/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// columnRepository implements ColumnRepository on GORM
type columnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of columnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepository{db: db}
}

func (r *columnRepository) GetColumnsByUserID(userID string) ([]*domain.Column, error) {
	var columns []*domain.Column
	err := r.db.Where("user_id = ?", userID).Order("display_order ASC").Find(&columns).Error
	if err != nil {
		return nil, err
	}

	for _, col := range columns {
		if col.AddLabelIDs == nil {
			col.AddLabelIDs = domain.StringArray{}
		}
		if col.RemoveLabelIDs == nil {
			col.RemoveLabelIDs = domain.StringArray{}
		}
	}
	return columns, nil
}

func (r *columnRepository) GetColumnByID(userID, columnID string) (*domain.Column, error) {
	var column domain.Column
	err := r.db.Where("user_id = ? AND id = ?", userID, columnID).First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) GetColumnByType(userID string, columnType domain.ColumnType) (*domain.Column, error) {
	var column domain.Column
	err := r.db.Where("user_id = ? AND type = ?", userID, columnType).First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) ExistsByUserIDAndName(userID, name string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Column{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *columnRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Column{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *columnRepository) CreateColumn(column *domain.Column) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	now := time.Now()
	if column.CreatedAt.IsZero() {
		column.CreatedAt = now
	}
	column.UpdatedAt = now

	if column.AddLabelIDs == nil {
		column.AddLabelIDs = domain.StringArray{}
	}
	if column.RemoveLabelIDs == nil {
		column.RemoveLabelIDs = domain.StringArray{}
	}
	return r.db.Create(column).Error
}

func (r *columnRepository) CreateColumns(columns []*domain.Column) error {
	for _, column := range columns {
		if err := r.CreateColumn(column); err != nil {
			return err
		}
	}
	return nil
}

func (r *columnRepository) UpdateColumn(column *domain.Column) error {
	column.UpdatedAt = time.Now()
	if column.AddLabelIDs == nil {
		column.AddLabelIDs = domain.StringArray{}
	}
	if column.RemoveLabelIDs == nil {
		column.RemoveLabelIDs = domain.StringArray{}
	}
	return r.db.Save(column).Error
}

func (r *columnRepository) DeleteColumn(userID, columnID string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, columnID).Delete(&domain.Column{}).Error
}

func (r *columnRepository) UpdateColumnOrders(userID string, orders map[string]int) error {
	for columnID, orderVal := range orders {
		err := r.db.Model(&domain.Column{}).
			Where("user_id = ? AND id = ?", userID, columnID).
			Update("display_order", orderVal).Error
		if err != nil {
			return err
		}
	}
	return nil
}
