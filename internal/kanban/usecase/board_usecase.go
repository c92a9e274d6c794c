package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
)

const defaultProviderTimeout = 30 * time.Second

type boardUsecase struct {
	columnRepo      repository.ColumnRepository
	statusRepo      repository.EmailStatusRepository
	columns         ColumnUsecase
	provider        domain.MailProvider
	summarizer      domain.SummaryGenerator
	embedder        domain.EmbeddingGenerator
	providerTimeout time.Duration
}

func NewBoardUsecase(
	columnRepo repository.ColumnRepository,
	statusRepo repository.EmailStatusRepository,
	columns ColumnUsecase,
	provider domain.MailProvider,
	summarizer domain.SummaryGenerator,
	embedder domain.EmbeddingGenerator,
	providerTimeout time.Duration,
) BoardUsecase {
	if providerTimeout <= 0 {
		providerTimeout = defaultProviderTimeout
	}
	return &boardUsecase{
		columnRepo:      columnRepo,
		statusRepo:      statusRepo,
		columns:         columns,
		provider:        provider,
		summarizer:      summarizer,
		embedder:        embedder,
		providerTimeout: providerTimeout,
	}
}

func (u *boardUsecase) providerCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, u.providerTimeout)
}

// GetBoard assembles the full board: every column with all of its rows
// sorted by position. Rows pointing at a deleted column are shown in the
// fallback column rather than dropped. When sync is requested, or the board
// is empty and the provider is connected, a sync pass runs first; maxSync
// caps how many messages that pass pulls, never how many stored rows are
// returned.
func (u *boardUsecase) GetBoard(ctx context.Context, userID string, maxSync int, sync bool) (*Board, error) {
	columns, err := u.columns.EnsureDefaultColumns(userID)
	if err != nil {
		return nil, err
	}

	if sync {
		if _, err := u.SyncFromProvider(ctx, userID, maxSync); err != nil {
			log.Printf("[Board] sync before board fetch failed for user %s: %v", userID, err)
		}
	}

	statuses, err := u.statusRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board emails: %w", err)
	}
	if len(statuses) == 0 && !sync {
		pctx, cancel := u.providerCtx(ctx)
		connected := u.provider.IsConnected(pctx, userID)
		cancel()
		if connected {
			if _, err := u.SyncFromProvider(ctx, userID, maxSync); err != nil {
				log.Printf("[Board] initial sync failed for user %s: %v", userID, err)
			}
			statuses, err = u.statusRepo.GetByUserID(userID)
			if err != nil {
				return nil, fmt.Errorf("failed to load board emails: %w", err)
			}
		}
	}

	buckets := make(map[string][]*domain.EmailStatus, len(columns))
	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		buckets[col.ID] = []*domain.EmailStatus{}
		known[col.ID] = true
	}

	var fallbackID string
	for _, status := range statuses {
		columnID := status.ColumnID
		if !known[columnID] {
			if fallbackID == "" {
				fallback, err := resolveFallbackColumn(u.columnRepo, userID)
				if err != nil {
					return nil, err
				}
				fallbackID = fallback.ID
			}
			columnID = fallbackID
		}
		buckets[columnID] = append(buckets[columnID], status)
	}

	views := make([]*ColumnView, 0, len(columns))
	for _, col := range columns {
		bucket := buckets[col.ID]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].OrderInColumn < bucket[j].OrderInColumn
		})
		buckets[col.ID] = bucket
		views = append(views, &ColumnView{Column: col, EmailCount: int64(len(bucket))})
	}

	return &Board{Columns: views, EmailsByColumn: buckets}, nil
}

// SyncFromProvider pulls recent inbox messages and inserts board rows for the
// ones not placed yet. Idempotent: already-placed emails are skipped and
// never touched, so re-running a sync cannot move or duplicate anything.
func (u *boardUsecase) SyncFromProvider(ctx context.Context, userID string, maxMessages int) (*SyncResult, error) {
	pctx, cancel := u.providerCtx(ctx)
	defer cancel()

	if !u.provider.IsConnected(pctx, userID) {
		return &SyncResult{Message: "Mail provider not connected. Connect an account to sync emails."}, nil
	}

	if _, err := u.columns.EnsureDefaultColumns(userID); err != nil {
		return nil, err
	}
	target, err := resolveFallbackColumn(u.columnRepo, userID)
	if err != nil {
		return nil, err
	}

	messages, err := u.provider.ListInboxMessages(pctx, userID, maxMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox messages: %w", errors.Join(domain.ErrProviderUnavailable, err))
	}
	if len(messages) == 0 {
		return &SyncResult{Message: "No inbox messages to sync."}, nil
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	existing, err := u.statusRepo.FindByUserIDAndEmailIDs(userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing board rows: %w", err)
	}
	placed := make(map[string]bool, len(existing))
	for _, status := range existing {
		placed[status.EmailID] = true
	}

	count, err := u.statusRepo.CountByUserIDAndColumnID(userID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count target column emails: %w", err)
	}
	order := int(count)

	result := &SyncResult{Total: len(messages)}
	for _, msg := range messages {
		if placed[msg.ID] {
			result.Skipped++
			continue
		}
		status := newStatusFromSummary(userID, msg, target.ID, order)
		if err := u.statusRepo.Create(status); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmailStatus) {
				result.Skipped++
				continue
			}
			log.Printf("[Sync] failed to place email %s for user %s: %v", msg.ID, userID, err)
			result.Skipped++
			continue
		}
		order++
		result.Synced++
	}

	result.Message = fmt.Sprintf("Synced %d new emails into %s.", result.Synced, target.Name)
	return result, nil
}

// AddEmail places a single email on the board, in the given column or the
// fallback column when none is given. Fails when the email is already placed.
func (u *boardUsecase) AddEmail(ctx context.Context, userID, emailID, columnID string, generateSummary bool) (*domain.EmailStatus, error) {
	existing, err := u.statusRepo.GetByUserIDAndEmailID(userID, emailID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up board row: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is already on the board: %w", emailID, domain.ErrInvalidState)
	}

	if _, err := u.columns.EnsureDefaultColumns(userID); err != nil {
		return nil, err
	}

	var target *domain.Column
	if columnID != "" {
		target, err = u.columnRepo.GetColumnByID(userID, columnID)
		if err != nil {
			return nil, fmt.Errorf("failed to get column: %w", err)
		}
		if target == nil {
			return nil, fmt.Errorf("column %s: %w", columnID, domain.ErrNotFound)
		}
	} else {
		target, err = resolveFallbackColumn(u.columnRepo, userID)
		if err != nil {
			return nil, err
		}
	}

	pctx, cancel := u.providerCtx(ctx)
	detail, err := u.provider.GetMessage(pctx, userID, emailID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch email %s: %w", emailID, errors.Join(domain.ErrProviderUnavailable, err))
	}

	count, err := u.statusRepo.CountByUserIDAndColumnID(userID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count target column emails: %w", err)
	}
	status := newStatusFromDetail(userID, detail, target.ID, int(count))

	if generateSummary {
		sctx, cancel := u.providerCtx(ctx)
		summary, err := u.summarizer.Summarize(sctx, detail.Subject, detail.From, detail.Body)
		cancel()
		if err != nil || summary == "" {
			log.Printf("[Board] summary on add failed for email %s: %v", emailID, err)
		} else {
			now := time.Now()
			status.Summary = summary
			status.SummaryGeneratedAt = &now
		}
	}

	if err := u.statusRepo.Create(status); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmailStatus) {
			return nil, fmt.Errorf("email %s is already on the board: %w", emailID, domain.ErrInvalidState)
		}
		return nil, fmt.Errorf("failed to place email: %w", err)
	}
	return status, nil
}

// MoveEmail places an email into the target column at the given position
// (appended when none is given). Moving into the Snoozed column directly is
// rejected; moving a snoozed email anywhere else clears its snooze state.
// Emails not yet on the board are placed lazily from provider metadata.
func (u *boardUsecase) MoveEmail(ctx context.Context, userID, emailID, targetColumnID string, newOrder *int) (*domain.EmailStatus, error) {
	target, err := u.columnRepo.GetColumnByID(userID, targetColumnID)
	if err != nil {
		return nil, fmt.Errorf("failed to get column: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("column %s: %w", targetColumnID, domain.ErrNotFound)
	}

	status, created, err := u.getOrBuildStatus(ctx, userID, emailID, target.ID)
	if err != nil {
		return nil, err
	}

	if target.Type == domain.ColumnTypeSnoozed && !status.Snoozed {
		return nil, fmt.Errorf("emails enter the Snoozed column only via snooze: %w", domain.ErrInvalidTransition)
	}

	var source *domain.Column
	if !created && status.ColumnID != target.ID {
		source, err = u.columnRepo.GetColumnByID(userID, status.ColumnID)
		if err != nil {
			return nil, fmt.Errorf("failed to get source column: %w", err)
		}
	}

	order := 0
	if newOrder != nil {
		order = *newOrder
	} else {
		count, err := u.statusRepo.CountByUserIDAndColumnID(userID, target.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count target column emails: %w", err)
		}
		order = int(count)
	}

	status.ColumnID = target.ID
	status.OrderInColumn = order
	if status.Snoozed && target.Type != domain.ColumnTypeSnoozed {
		status.Snoozed = false
		status.SnoozeUntil = nil
		status.PreviousColumnID = ""
	}

	if created {
		err = u.statusRepo.Create(status)
	} else {
		err = u.statusRepo.Save(status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save board row: %w", err)
	}

	u.syncColumnLabels(ctx, userID, emailID, source, target)
	return status, nil
}

// syncColumnLabels mirrors a column move onto provider labels, best effort.
// Board state is authoritative; a label failure is logged, never rolled back.
func (u *boardUsecase) syncColumnLabels(ctx context.Context, userID, emailID string, source, target *domain.Column) {
	add := make([]string, 0, len(target.AddLabelIDs)+1)
	if target.GmailLabelID != "" {
		add = append(add, target.GmailLabelID)
	}
	add = append(add, target.AddLabelIDs...)

	adding := make(map[string]bool, len(add))
	for _, id := range add {
		adding[id] = true
	}

	var remove []string
	if source != nil && source.GmailLabelID != "" && !adding[source.GmailLabelID] {
		remove = append(remove, source.GmailLabelID)
	}
	for _, id := range target.RemoveLabelIDs {
		if !adding[id] {
			remove = append(remove, id)
		}
	}

	if len(add) == 0 && len(remove) == 0 {
		return
	}
	pctx, cancel := u.providerCtx(ctx)
	defer cancel()
	if err := u.provider.ApplyLabels(pctx, userID, emailID, add, remove); err != nil {
		log.Printf("[Board] label sync failed for email %s: %v", emailID, err)
	}
}

// SnoozeEmail hides an email until the given time: it moves to the Snoozed
// column and remembers where it came from. The wake time must be in the
// future.
func (u *boardUsecase) SnoozeEmail(ctx context.Context, userID, emailID string, until time.Time) (*domain.EmailStatus, error) {
	if !until.After(time.Now()) {
		return nil, fmt.Errorf("snooze time must be in the future: %w", domain.ErrInvalidArgument)
	}

	if _, err := u.columns.EnsureDefaultColumns(userID); err != nil {
		return nil, err
	}
	snoozedCol, err := u.columnRepo.GetColumnByType(userID, domain.ColumnTypeSnoozed)
	if err != nil {
		return nil, fmt.Errorf("failed to look up snoozed column: %w", err)
	}
	if snoozedCol == nil {
		return nil, fmt.Errorf("snoozed column missing: %w", domain.ErrNoSuitableColumn)
	}

	fallback, err := resolveFallbackColumn(u.columnRepo, userID)
	if err != nil {
		return nil, err
	}
	status, created, err := u.getOrBuildStatus(ctx, userID, emailID, fallback.ID)
	if err != nil {
		return nil, err
	}

	count, err := u.statusRepo.CountByUserIDAndColumnID(userID, snoozedCol.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count snoozed emails: %w", err)
	}

	status.PreviousColumnID = status.ColumnID
	status.ColumnID = snoozedCol.ID
	status.OrderInColumn = int(count)
	status.Snoozed = true
	status.SnoozeUntil = &until

	if created {
		err = u.statusRepo.Create(status)
	} else {
		err = u.statusRepo.Save(status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save board row: %w", err)
	}
	return status, nil
}

// UnsnoozeEmail wakes a snoozed email, restoring it to the column it was
// snoozed from, or the Inbox when that column no longer exists.
func (u *boardUsecase) UnsnoozeEmail(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error) {
	status, err := u.statusRepo.GetByUserIDAndEmailID(userID, emailID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up board row: %w", err)
	}
	if status == nil {
		return nil, fmt.Errorf("email %s: %w", emailID, domain.ErrNotFound)
	}
	if !status.Snoozed {
		return nil, fmt.Errorf("email %s is not snoozed: %w", emailID, domain.ErrInvalidState)
	}

	var target *domain.Column
	if status.PreviousColumnID != "" {
		target, err = u.columnRepo.GetColumnByID(userID, status.PreviousColumnID)
		if err != nil {
			return nil, fmt.Errorf("failed to get previous column: %w", err)
		}
	}
	if target == nil {
		target, err = u.columnRepo.GetColumnByType(userID, domain.ColumnTypeInbox)
		if err != nil {
			return nil, fmt.Errorf("failed to look up inbox column: %w", err)
		}
		if target == nil {
			return nil, fmt.Errorf("inbox column missing: %w", domain.ErrNoSuitableColumn)
		}
	}

	count, err := u.statusRepo.CountByUserIDAndColumnID(userID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count target column emails: %w", err)
	}

	status.ColumnID = target.ID
	status.OrderInColumn = int(count)
	status.Snoozed = false
	status.SnoozeUntil = nil
	status.PreviousColumnID = ""

	if err := u.statusRepo.Save(status); err != nil {
		return nil, fmt.Errorf("failed to save board row: %w", err)
	}
	return status, nil
}

// GenerateSummary produces and caches an AI summary for an email, fetching
// the body from the provider. The email is placed on the board first when it
// is not there yet.
func (u *boardUsecase) GenerateSummary(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error) {
	pctx, cancel := u.providerCtx(ctx)
	detail, err := u.provider.GetMessage(pctx, userID, emailID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch email %s: %w", emailID, errors.Join(domain.ErrProviderUnavailable, err))
	}

	status, err := u.placeIfAbsent(userID, detail)
	if err != nil {
		return nil, err
	}

	sctx, cancel := u.providerCtx(ctx)
	summary, err := u.summarizer.Summarize(sctx, detail.Subject, detail.From, detail.Body)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("summary generation failed: %w", errors.Join(domain.ErrSummaryUnavailable, err))
	}
	if summary == "" {
		return nil, fmt.Errorf("no summary produced for email %s: %w", emailID, domain.ErrSummaryUnavailable)
	}

	now := time.Now()
	status.Summary = summary
	status.SummaryGeneratedAt = &now
	if err := u.statusRepo.Save(status); err != nil {
		return nil, fmt.Errorf("failed to save board row: %w", err)
	}
	return status, nil
}

// GenerateEmbedding produces and caches an embedding vector for an email.
func (u *boardUsecase) GenerateEmbedding(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error) {
	pctx, cancel := u.providerCtx(ctx)
	detail, err := u.provider.GetMessage(pctx, userID, emailID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch email %s: %w", emailID, errors.Join(domain.ErrProviderUnavailable, err))
	}

	status, err := u.placeIfAbsent(userID, detail)
	if err != nil {
		return nil, err
	}

	ectx, cancel := u.providerCtx(ctx)
	vector, err := u.embedder.Embed(ectx, detail.Subject, detail.Body)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", errors.Join(domain.ErrEmbeddingUnavailable, err))
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("no embedding produced for email %s: %w", emailID, domain.ErrEmbeddingUnavailable)
	}

	now := time.Now()
	status.Embedding = vector
	status.EmbeddingGeneratedAt = &now
	if err := u.statusRepo.Save(status); err != nil {
		return nil, fmt.Errorf("failed to save board row: %w", err)
	}
	return status, nil
}

// GetEmailStatus returns the board placement of an email. An email the user
// can see at the provider but has not placed yet is returned as a transient,
// unsaved row in the fallback column.
func (u *boardUsecase) GetEmailStatus(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error) {
	status, err := u.statusRepo.GetByUserIDAndEmailID(userID, emailID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up board row: %w", err)
	}
	if status != nil {
		return status, nil
	}

	pctx, cancel := u.providerCtx(ctx)
	defer cancel()
	if !u.provider.IsConnected(pctx, userID) {
		return nil, fmt.Errorf("email %s: %w", emailID, domain.ErrNotFound)
	}
	detail, err := u.provider.GetMessage(pctx, userID, emailID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch email %s: %w", emailID, errors.Join(domain.ErrProviderUnavailable, err))
	}

	fallback, err := resolveFallbackColumn(u.columnRepo, userID)
	if err != nil {
		return nil, err
	}
	return newStatusFromDetail(userID, detail, fallback.ID, 0), nil
}

// RemoveFromBoard deletes an email's board row. The email itself is untouched
// at the provider.
func (u *boardUsecase) RemoveFromBoard(ctx context.Context, userID, emailID string) error {
	status, err := u.statusRepo.GetByUserIDAndEmailID(userID, emailID)
	if err != nil {
		return fmt.Errorf("failed to look up board row: %w", err)
	}
	if status == nil {
		return fmt.Errorf("email %s: %w", emailID, domain.ErrNotFound)
	}
	if err := u.statusRepo.DeleteByUserIDAndEmailID(userID, emailID); err != nil {
		return fmt.Errorf("failed to remove board row: %w", err)
	}
	return nil
}

// getOrBuildStatus loads an email's board row, or builds an unsaved one from
// provider metadata when the email is not placed yet. The caller persists it
// with Create when created is true.
func (u *boardUsecase) getOrBuildStatus(ctx context.Context, userID, emailID, initialColumnID string) (status *domain.EmailStatus, created bool, err error) {
	status, err = u.statusRepo.GetByUserIDAndEmailID(userID, emailID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up board row: %w", err)
	}
	if status != nil {
		return status, false, nil
	}

	pctx, cancel := u.providerCtx(ctx)
	detail, err := u.provider.GetMessage(pctx, userID, emailID)
	cancel()
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch email %s: %w", emailID, errors.Join(domain.ErrProviderUnavailable, err))
	}
	return newStatusFromDetail(userID, detail, initialColumnID, 0), true, nil
}

// placeIfAbsent returns the existing board row for a fetched message, or
// creates one in the fallback column.
func (u *boardUsecase) placeIfAbsent(userID string, detail *domain.MessageDetail) (*domain.EmailStatus, error) {
	status, err := u.statusRepo.GetByUserIDAndEmailID(userID, detail.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up board row: %w", err)
	}
	if status != nil {
		return status, nil
	}

	if _, err := u.columns.EnsureDefaultColumns(userID); err != nil {
		return nil, err
	}
	fallback, err := resolveFallbackColumn(u.columnRepo, userID)
	if err != nil {
		return nil, err
	}
	count, err := u.statusRepo.CountByUserIDAndColumnID(userID, fallback.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count fallback column emails: %w", err)
	}

	status = newStatusFromDetail(userID, detail, fallback.ID, int(count))
	if err := u.statusRepo.Create(status); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmailStatus) {
			return u.statusRepo.GetByUserIDAndEmailID(userID, detail.ID)
		}
		return nil, fmt.Errorf("failed to place email: %w", err)
	}
	return status, nil
}

func newStatusFromSummary(userID string, msg *domain.MessageSummary, columnID string, order int) *domain.EmailStatus {
	return &domain.EmailStatus{
		UserID:         userID,
		EmailID:        msg.ID,
		ColumnID:       columnID,
		OrderInColumn:  order,
		Subject:        msg.Subject,
		FromEmail:      extractEmail(msg.From),
		FromName:       extractName(msg.From),
		Preview:        truncatePreview(msg.Snippet),
		ReceivedAt:     msg.ReceivedAt,
		IsRead:         msg.IsRead,
		IsStarred:      msg.IsStarred,
		HasAttachments: msg.HasAttachments,
	}
}

func newStatusFromDetail(userID string, detail *domain.MessageDetail, columnID string, order int) *domain.EmailStatus {
	preview := detail.Snippet
	if preview == "" {
		preview = detail.Body
	}
	status := newStatusFromSummary(userID, &detail.MessageSummary, columnID, order)
	status.Preview = truncatePreview(preview)
	return status
}

// extractEmail pulls the address out of a From header like
// `Jane Doe <jane@example.com>`.
func extractEmail(from string) string {
	if start := strings.Index(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			return strings.TrimSpace(from[start+1 : start+end])
		}
	}
	return strings.TrimSpace(from)
}

// extractName pulls the display name out of a From header, falling back to
// the address when there is none.
func extractName(from string) string {
	if idx := strings.Index(from, "<"); idx > 0 {
		name := strings.TrimSpace(from[:idx])
		name = strings.Trim(name, `"`)
		if name != "" {
			return name
		}
	}
	return extractEmail(from)
}

func truncatePreview(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= domain.MaxPreviewLen {
		return text
	}
	return string(runes[:domain.MaxPreviewLen])
}
