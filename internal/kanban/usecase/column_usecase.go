package usecase

import (
	"fmt"
	"strings"
	"time"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
)

type columnUsecase struct {
	columnRepo repository.ColumnRepository
	statusRepo repository.EmailStatusRepository
}

func NewColumnUsecase(columnRepo repository.ColumnRepository, statusRepo repository.EmailStatusRepository) ColumnUsecase {
	return &columnUsecase{
		columnRepo: columnRepo,
		statusRepo: statusRepo,
	}
}

// EnsureDefaultColumns bootstraps the default column set for a user that has
// none yet. Idempotent: a user with any columns is returned as-is.
func (u *columnUsecase) EnsureDefaultColumns(userID string) ([]*domain.Column, error) {
	columns, err := u.columnRepo.GetColumnsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	if len(columns) > 0 {
		return columns, nil
	}

	defaults := domain.DefaultColumns(userID, time.Now())
	if err := u.columnRepo.CreateColumns(defaults); err != nil {
		return nil, fmt.Errorf("failed to create default columns: %w", err)
	}
	return defaults, nil
}

func (u *columnUsecase) ListColumns(userID string) ([]*ColumnView, error) {
	columns, err := u.EnsureDefaultColumns(userID)
	if err != nil {
		return nil, err
	}

	views := make([]*ColumnView, 0, len(columns))
	for _, col := range columns {
		count, err := u.statusRepo.CountByUserIDAndColumnID(userID, col.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count emails in column %s: %w", col.ID, err)
		}
		views = append(views, &ColumnView{Column: col, EmailCount: count})
	}
	return views, nil
}

func (u *columnUsecase) CreateColumn(userID string, params CreateColumnParams) (*domain.Column, error) {
	name := strings.TrimSpace(params.Name)
	if err := validateColumnName(name); err != nil {
		return nil, err
	}

	exists, err := u.columnRepo.ExistsByUserIDAndName(userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check column name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("column %q: %w", name, domain.ErrDuplicateName)
	}

	order := 0
	if params.Order != nil {
		order = *params.Order
	} else {
		count, err := u.columnRepo.CountByUserID(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count columns: %w", err)
		}
		order = int(count)
	}

	column := &domain.Column{
		UserID:    userID,
		Name:      name,
		Type:      domain.ColumnTypeCustom,
		Order:     order,
		Color:     params.Color,
		IsDefault: false,
	}
	if err := u.columnRepo.CreateColumn(column); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return column, nil
}

func (u *columnUsecase) UpdateColumn(userID, columnID string, params UpdateColumnParams) (*domain.Column, error) {
	column, err := u.columnRepo.GetColumnByID(userID, columnID)
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}
	if column == nil {
		return nil, fmt.Errorf("column %s: %w", columnID, domain.ErrNotFound)
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if err := validateColumnName(name); err != nil {
			return nil, err
		}
		if name != column.Name {
			exists, err := u.columnRepo.ExistsByUserIDAndName(userID, name)
			if err != nil {
				return nil, fmt.Errorf("failed to check column name: %w", err)
			}
			if exists {
				return nil, fmt.Errorf("column %q: %w", name, domain.ErrDuplicateName)
			}
			column.Name = name
		}
	}
	if params.Color != nil {
		column.Color = *params.Color
	}
	if params.Order != nil {
		column.Order = *params.Order
	}
	if params.GmailLabelID != nil {
		column.GmailLabelID = *params.GmailLabelID
	}
	if params.GmailLabelName != nil {
		column.GmailLabelName = *params.GmailLabelName
	}
	if params.AddLabelIDs != nil {
		column.AddLabelIDs = params.AddLabelIDs
	}
	if params.RemoveLabelIDs != nil {
		column.RemoveLabelIDs = params.RemoveLabelIDs
	}

	if err := u.columnRepo.UpdateColumn(column); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}
	return column, nil
}

// DeleteColumn removes a custom column. Emails placed in it are migrated to
// the Backlog column (Inbox when Backlog is gone), appended at the end in
// their current relative order. Default columns cannot be deleted.
func (u *columnUsecase) DeleteColumn(userID, columnID string) error {
	column, err := u.columnRepo.GetColumnByID(userID, columnID)
	if err != nil {
		return fmt.Errorf("failed to get column: %w", err)
	}
	if column == nil {
		return fmt.Errorf("column %s: %w", columnID, domain.ErrNotFound)
	}
	if column.IsDefault {
		return fmt.Errorf("default column %q cannot be deleted: %w", column.Name, domain.ErrForbidden)
	}

	target, err := resolveFallbackColumn(u.columnRepo, userID)
	if err != nil {
		return err
	}

	statuses, err := u.statusRepo.FindByUserIDAndColumnID(userID, columnID)
	if err != nil {
		return fmt.Errorf("failed to list emails in column: %w", err)
	}
	startOrder, err := u.statusRepo.CountByUserIDAndColumnID(userID, target.ID)
	if err != nil {
		return fmt.Errorf("failed to count target column emails: %w", err)
	}
	for i, status := range statuses {
		status.ColumnID = target.ID
		status.OrderInColumn = int(startOrder) + i
		if err := u.statusRepo.Save(status); err != nil {
			return fmt.Errorf("failed to migrate email %s: %w", status.EmailID, err)
		}
	}

	if err := u.columnRepo.DeleteColumn(userID, columnID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	return nil
}

func (u *columnUsecase) ReorderColumns(userID string, orders map[string]int) error {
	if len(orders) == 0 {
		return fmt.Errorf("no column orders given: %w", domain.ErrInvalidArgument)
	}
	for columnID := range orders {
		column, err := u.columnRepo.GetColumnByID(userID, columnID)
		if err != nil {
			return fmt.Errorf("failed to get column: %w", err)
		}
		if column == nil {
			return fmt.Errorf("column %s: %w", columnID, domain.ErrNotFound)
		}
	}
	if err := u.columnRepo.UpdateColumnOrders(userID, orders); err != nil {
		return fmt.Errorf("failed to reorder columns: %w", err)
	}
	return nil
}

func validateColumnName(name string) error {
	if name == "" {
		return fmt.Errorf("column name is required: %w", domain.ErrInvalidArgument)
	}
	if len(name) > domain.MaxColumnNameLen {
		return fmt.Errorf("column name exceeds %d characters: %w", domain.MaxColumnNameLen, domain.ErrInvalidArgument)
	}
	return nil
}

// resolveFallbackColumn picks the landing column for emails that lose their
// home: Backlog first, Inbox when Backlog is gone.
func resolveFallbackColumn(columnRepo repository.ColumnRepository, userID string) (*domain.Column, error) {
	column, err := columnRepo.GetColumnByType(userID, domain.ColumnTypeBacklog)
	if err != nil {
		return nil, fmt.Errorf("failed to look up backlog column: %w", err)
	}
	if column != nil {
		return column, nil
	}
	column, err = columnRepo.GetColumnByType(userID, domain.ColumnTypeInbox)
	if err != nil {
		return nil, fmt.Errorf("failed to look up inbox column: %w", err)
	}
	if column != nil {
		return column, nil
	}
	return nil, domain.ErrNoSuitableColumn
}
