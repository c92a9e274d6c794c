package usecase

import (
	"fmt"
	"sort"
	"strings"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
	"mailboard/pkg/fuzzy"
)

const (
	// MinScore is the relevance floor: a row is a hit only when its best
	// weighted field score reaches it, and a field is reported as matched
	// only when its own weighted score reaches it.
	MinScore = 0.5

	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Field weights: sender identity and subject dominate, body-derived text is
// discounted.
const (
	weightSubject   = 1.5
	weightFromName  = 1.3
	weightFromEmail = 1.2
	weightPreview   = 0.8
	weightSummary   = 0.9
)

type searchUsecase struct {
	statusRepo repository.EmailStatusRepository
	columnRepo repository.ColumnRepository
}

func NewSearchUsecase(statusRepo repository.EmailStatusRepository, columnRepo repository.ColumnRepository) SearchUsecase {
	return &searchUsecase{
		statusRepo: statusRepo,
		columnRepo: columnRepo,
	}
}

// Search ranks the user's board rows against the query with tiered fuzzy
// matching. Preview and summary join the scored fields only when includeBody
// is set. Results come back sorted by score, stable for ties, capped at
// limit.
func (u *searchUsecase) Search(userID, query string, limit int, includeBody bool) ([]*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	statuses, err := u.statusRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board emails: %w", err)
	}
	columns, err := u.columnRepo.GetColumnsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	columnNames := make(map[string]string, len(columns))
	for _, col := range columns {
		columnNames[col.ID] = col.Name
	}

	results := make([]*SearchResult, 0)
	for _, status := range statuses {
		score, matched := scoreEmail(status, query, includeBody)
		if score < MinScore {
			continue
		}
		results = append(results, &SearchResult{
			ID:             status.ID,
			EmailID:        status.EmailID,
			ColumnID:       status.ColumnID,
			ColumnName:     columnNames[status.ColumnID],
			Subject:        status.Subject,
			FromEmail:      status.FromEmail,
			FromName:       status.FromName,
			Preview:        status.Preview,
			Summary:        status.Summary,
			ReceivedAt:     status.ReceivedAt,
			IsRead:         status.IsRead,
			IsStarred:      status.IsStarred,
			HasAttachments: status.HasAttachments,
			Score:          score,
			MatchedFields:  matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type scoredField struct {
	name   string
	text   string
	weight float64
}

// scoreEmail returns the best weighted field score for a row and the list of
// fields that individually cleared the relevance floor.
func scoreEmail(status *domain.EmailStatus, query string, includeBody bool) (float64, []string) {
	fields := []scoredField{
		{"subject", status.Subject, weightSubject},
		{"fromName", status.FromName, weightFromName},
		{"fromEmail", status.FromEmail, weightFromEmail},
	}
	if includeBody {
		fields = append(fields,
			scoredField{"preview", status.Preview, weightPreview},
			scoredField{"summary", status.Summary, weightSummary},
		)
	}

	best := 0.0
	var matched []string
	for _, f := range fields {
		if f.text == "" {
			continue
		}
		weighted := fuzzy.Similarity(f.text, query) * f.weight
		if weighted >= MinScore {
			matched = append(matched, f.name)
		}
		if weighted > best {
			best = weighted
		}
	}
	return best, matched
}
