package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailboard/internal/kanban/domain"
)

func seedSearchRow(t *testing.T, env *testEnv, emailID, columnID, subject, fromName, fromEmail, preview, summary string) {
	t.Helper()
	require.NoError(t, env.statusRepo.Create(&domain.EmailStatus{
		UserID:    testUser,
		EmailID:   emailID,
		ColumnID:  columnID,
		Subject:   subject,
		FromName:  fromName,
		FromEmail: fromEmail,
		Preview:   preview,
		Summary:   summary,
	}))
}

func TestSearch_ExactSubjectMatchRanksFirst(t *testing.T) {
	env := newTestEnv()
	_, err := env.columns.EnsureDefaultColumns(testUser)
	require.NoError(t, err)
	backlog := env.columnByType(testUser, domain.ColumnTypeBacklog)

	seedSearchRow(t, env, "e1", backlog.ID, "Invoice", "", "billing@acme.com", "", "")
	seedSearchRow(t, env, "e2", backlog.ID, "Re: invoice question", "", "jane@example.com", "", "")
	seedSearchRow(t, env, "e3", backlog.ID, "Lunch tomorrow?", "", "bob@example.com", "", "")

	results, err := env.search.Search(testUser, "invoice", 0, false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "e1", results[0].EmailID, "exact match outranks substring match")
	assert.InDelta(t, 1.5, results[0].Score, 1e-9)
	assert.Equal(t, "e2", results[1].EmailID)
	assert.Equal(t, backlog.Name, results[0].ColumnName)
}

func TestSearch_ToleratesTypos(t *testing.T) {
	env := newTestEnv()
	_, err := env.columns.EnsureDefaultColumns(testUser)
	require.NoError(t, err)
	backlog := env.columnByType(testUser, domain.ColumnTypeBacklog)

	seedSearchRow(t, env, "e1", backlog.ID, "Invoice 42", "", "billing@acme.com", "", "")

	results, err := env.search.Search(testUser, "invioce", 0, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "e1", results[0].EmailID)
	assert.Contains(t, results[0].MatchedFields, "subject")
}

func TestSearch_MatchesSenderFields(t *testing.T) {
	env := newTestEnv()
	_, err := env.columns.EnsureDefaultColumns(testUser)
	require.NoError(t, err)
	backlog := env.columnByType(testUser, domain.ColumnTypeBacklog)

	seedSearchRow(t, env, "e1", backlog.ID, "Weekly digest", "Alice Chen", "alice@corp.com", "", "")

	results, err := env.search.Search(testUser, "alice", 0, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].MatchedFields, "fromName")
	assert.Contains(t, results[0].MatchedFields, "fromEmail")
}

func TestSearch_BodyFieldsGatedByFlag(t *testing.T) {
	env := newTestEnv()
	_, err := env.columns.EnsureDefaultColumns(testUser)
	require.NoError(t, err)
	backlog := env.columnByType(testUser, domain.ColumnTypeBacklog)

	seedSearchRow(t, env, "e1", backlog.ID, "FYI", "", "sue@corp.com", "quarterly report attached", "")

	results, err := env.search.Search(testUser, "quarterly", 0, false)
	require.NoError(t, err)
	assert.Empty(t, results, "preview is not searched without the flag")

	results, err = env.search.Search(testUser, "quarterly", 0, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"preview"}, results[0].MatchedFields)
	assert.InDelta(t, 0.9*weightPreview, results[0].Score, 1e-9)
}

func TestSearch_SummaryField(t *testing.T) {
	env := newTestEnv()
	_, err := env.columns.EnsureDefaultColumns(testUser)
	require.NoError(t, err)
	backlog := env.columnByType(testUser, domain.ColumnTypeBacklog)

	seedSearchRow(t, env, "e1", backlog.ID, "Notes", "", "a@b.c", "", "Budget approval needed by Friday")

	results, err := env.search.Search(testUser, "budget approval", 0, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].MatchedFields, "summary")
}

func TestSearch_LimitClamped(t *testing.T) {
	env := newTestEnv()
	_, err := env.columns.EnsureDefaultColumns(testUser)
	require.NoError(t, err)
	backlog := env.columnByType(testUser, domain.ColumnTypeBacklog)

	for i := 0; i < 5; i++ {
		seedSearchRow(t, env, string(rune('a'+i)), backlog.ID, "status update", "", "team@corp.com", "", "")
	}

	results, err := env.search.Search(testUser, "status update", 2, false)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_EmptyQuery(t *testing.T) {
	env := newTestEnv()
	results, err := env.search.Search(testUser, "   ", 0, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_NoMatchesBelowFloor(t *testing.T) {
	env := newTestEnv()
	_, err := env.columns.EnsureDefaultColumns(testUser)
	require.NoError(t, err)
	backlog := env.columnByType(testUser, domain.ColumnTypeBacklog)

	seedSearchRow(t, env, "e1", backlog.ID, "Lunch tomorrow?", "", "bob@example.com", "", "")

	results, err := env.search.Search(testUser, "kubernetes deployment", 0, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}
