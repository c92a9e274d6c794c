package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
)

// In-memory fakes for the repository and provider interfaces.

type fakeColumnRepo struct {
	columns map[string]*domain.Column
}

func newFakeColumnRepo() *fakeColumnRepo {
	return &fakeColumnRepo{columns: make(map[string]*domain.Column)}
}

func (r *fakeColumnRepo) GetColumnsByUserID(userID string) ([]*domain.Column, error) {
	var out []*domain.Column
	for _, col := range r.columns {
		if col.UserID == userID {
			out = append(out, col)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeColumnRepo) GetColumnByID(userID, columnID string) (*domain.Column, error) {
	col, ok := r.columns[columnID]
	if !ok || col.UserID != userID {
		return nil, nil
	}
	return col, nil
}

func (r *fakeColumnRepo) GetColumnByType(userID string, columnType domain.ColumnType) (*domain.Column, error) {
	for _, col := range r.columns {
		if col.UserID == userID && col.Type == columnType {
			return col, nil
		}
	}
	return nil, nil
}

func (r *fakeColumnRepo) ExistsByUserIDAndName(userID, name string) (bool, error) {
	for _, col := range r.columns {
		if col.UserID == userID && col.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeColumnRepo) CountByUserID(userID string) (int64, error) {
	cols, _ := r.GetColumnsByUserID(userID)
	return int64(len(cols)), nil
}

func (r *fakeColumnRepo) CreateColumn(column *domain.Column) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	r.columns[column.ID] = column
	return nil
}

func (r *fakeColumnRepo) CreateColumns(columns []*domain.Column) error {
	for _, col := range columns {
		if err := r.CreateColumn(col); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeColumnRepo) UpdateColumn(column *domain.Column) error {
	r.columns[column.ID] = column
	return nil
}

func (r *fakeColumnRepo) DeleteColumn(userID, columnID string) error {
	delete(r.columns, columnID)
	return nil
}

func (r *fakeColumnRepo) UpdateColumnOrders(userID string, orders map[string]int) error {
	for columnID, order := range orders {
		if col, ok := r.columns[columnID]; ok {
			col.Order = order
		}
	}
	return nil
}

type fakeStatusRepo struct {
	statuses []*domain.EmailStatus
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{}
}

func (r *fakeStatusRepo) GetByUserID(userID string) ([]*domain.EmailStatus, error) {
	var out []*domain.EmailStatus
	for _, s := range r.statuses {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStatusRepo) GetByUserIDAndEmailID(userID, emailID string) (*domain.EmailStatus, error) {
	for _, s := range r.statuses {
		if s.UserID == userID && s.EmailID == emailID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStatusRepo) FindByUserIDAndEmailIDs(userID string, emailIDs []string) ([]*domain.EmailStatus, error) {
	wanted := make(map[string]bool, len(emailIDs))
	for _, id := range emailIDs {
		wanted[id] = true
	}
	var out []*domain.EmailStatus
	for _, s := range r.statuses {
		if s.UserID == userID && wanted[s.EmailID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStatusRepo) FindByUserIDAndColumnID(userID, columnID string) ([]*domain.EmailStatus, error) {
	var out []*domain.EmailStatus
	for _, s := range r.statuses {
		if s.UserID == userID && s.ColumnID == columnID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderInColumn < out[j].OrderInColumn })
	return out, nil
}

func (r *fakeStatusRepo) CountByUserIDAndColumnID(userID, columnID string) (int64, error) {
	out, _ := r.FindByUserIDAndColumnID(userID, columnID)
	return int64(len(out)), nil
}

func (r *fakeStatusRepo) Create(status *domain.EmailStatus) error {
	existing, _ := r.GetByUserIDAndEmailID(status.UserID, status.EmailID)
	if existing != nil {
		return repository.ErrDuplicateEmailStatus
	}
	if status.ID == "" {
		status.ID = uuid.New().String()
	}
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeStatusRepo) Save(status *domain.EmailStatus) error {
	for i, s := range r.statuses {
		if s.ID == status.ID {
			r.statuses[i] = status
			return nil
		}
	}
	return fmt.Errorf("status %s not found", status.ID)
}

func (r *fakeStatusRepo) DeleteByUserIDAndEmailID(userID, emailID string) error {
	for i, s := range r.statuses {
		if s.UserID == userID && s.EmailID == emailID {
			r.statuses = append(r.statuses[:i], r.statuses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeStatusRepo) FindExpiredSnoozes(now time.Time) ([]*domain.EmailStatus, error) {
	var out []*domain.EmailStatus
	for _, s := range r.statuses {
		if s.Snoozed && s.SnoozeUntil != nil && !s.SnoozeUntil.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

type labelCall struct {
	emailID string
	add     []string
	remove  []string
}

type fakeProvider struct {
	connected bool
	messages  []*domain.MessageSummary
	details   map[string]*domain.MessageDetail
	listErr   error
	getErr    error
	labels    []labelCall
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		connected: true,
		details:   make(map[string]*domain.MessageDetail),
	}
}

func (p *fakeProvider) IsConnected(ctx context.Context, userID string) bool {
	return p.connected
}

func (p *fakeProvider) ListInboxMessages(ctx context.Context, userID string, max int) ([]*domain.MessageSummary, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	if max > 0 && len(p.messages) > max {
		return p.messages[:max], nil
	}
	return p.messages, nil
}

func (p *fakeProvider) GetMessage(ctx context.Context, userID, emailID string) (*domain.MessageDetail, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	detail, ok := p.details[emailID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", emailID)
	}
	return detail, nil
}

func (p *fakeProvider) ApplyLabels(ctx context.Context, userID, emailID string, add, remove []string) error {
	p.labels = append(p.labels, labelCall{emailID: emailID, add: add, remove: remove})
	return nil
}

type fakeGenerator struct {
	summary    string
	summaryErr error
	vector     []float64
	vectorErr  error
}

func (g *fakeGenerator) Summarize(ctx context.Context, subject, from, body string) (string, error) {
	return g.summary, g.summaryErr
}

func (g *fakeGenerator) Embed(ctx context.Context, subject, body string) ([]float64, error) {
	return g.vector, g.vectorErr
}

// testEnv bundles a fully wired board usecase over fakes.
type testEnv struct {
	columnRepo *fakeColumnRepo
	statusRepo *fakeStatusRepo
	provider   *fakeProvider
	generator  *fakeGenerator
	columns    ColumnUsecase
	board      BoardUsecase
	search     SearchUsecase
}

func newTestEnv() *testEnv {
	columnRepo := newFakeColumnRepo()
	statusRepo := newFakeStatusRepo()
	provider := newFakeProvider()
	generator := &fakeGenerator{summary: "a summary", vector: []float64{0.1, 0.2}}

	columns := NewColumnUsecase(columnRepo, statusRepo)
	board := NewBoardUsecase(columnRepo, statusRepo, columns, provider, generator, generator, time.Second)
	search := NewSearchUsecase(statusRepo, columnRepo)

	return &testEnv{
		columnRepo: columnRepo,
		statusRepo: statusRepo,
		provider:   provider,
		generator:  generator,
		columns:    columns,
		board:      board,
		search:     search,
	}
}

// columnByType is a test helper; defaults must have been ensured first.
func (e *testEnv) columnByType(userID string, typ domain.ColumnType) *domain.Column {
	col, _ := e.columnRepo.GetColumnByType(userID, typ)
	return col
}

func msgSummary(id, subject, from, snippet string) *domain.MessageSummary {
	return &domain.MessageSummary{
		ID:         id,
		Subject:    subject,
		From:       from,
		Snippet:    snippet,
		ReceivedAt: time.Now(),
	}
}

func msgDetail(id, subject, from, body string) *domain.MessageDetail {
	return &domain.MessageDetail{
		MessageSummary: *msgSummary(id, subject, from, ""),
		Body:           body,
	}
}
