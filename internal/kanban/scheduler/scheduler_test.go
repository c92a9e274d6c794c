package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
)

type stubStatusRepo struct {
	repository.EmailStatusRepository
	expired []*domain.EmailStatus
	err     error
}

func (r *stubStatusRepo) FindExpiredSnoozes(now time.Time) ([]*domain.EmailStatus, error) {
	return r.expired, r.err
}

type wakeCall struct {
	userID  string
	emailID string
}

type stubRestorer struct {
	calls  []wakeCall
	failOn string
}

func (b *stubRestorer) UnsnoozeEmail(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error) {
	b.calls = append(b.calls, wakeCall{userID: userID, emailID: emailID})
	if emailID == b.failOn {
		return nil, assert.AnError
	}
	return &domain.EmailStatus{UserID: userID, EmailID: emailID}, nil
}

func TestSweep_WakesExpiredSnoozes(t *testing.T) {
	repo := &stubStatusRepo{expired: []*domain.EmailStatus{
		{UserID: "u1", EmailID: "m1"},
		{UserID: "u2", EmailID: "m2"},
	}}
	restorer := &stubRestorer{}

	s := NewSnoozeScheduler(repo, restorer, time.Minute)
	s.sweep()

	assert.Equal(t, []wakeCall{
		{userID: "u1", emailID: "m1"},
		{userID: "u2", emailID: "m2"},
	}, restorer.calls)
}

func TestSweep_OneFailureDoesNotBlockOthers(t *testing.T) {
	repo := &stubStatusRepo{expired: []*domain.EmailStatus{
		{UserID: "u1", EmailID: "m1"},
		{UserID: "u1", EmailID: "m2"},
		{UserID: "u1", EmailID: "m3"},
	}}
	restorer := &stubRestorer{failOn: "m2"}

	s := NewSnoozeScheduler(repo, restorer, time.Minute)
	s.sweep()

	assert.Len(t, restorer.calls, 3)
}

func TestSweep_RepoErrorIsTolerated(t *testing.T) {
	repo := &stubStatusRepo{err: assert.AnError}
	restorer := &stubRestorer{}

	s := NewSnoozeScheduler(repo, restorer, time.Minute)
	s.sweep()

	assert.Empty(t, restorer.calls)
}

func TestNewSnoozeScheduler_DefaultInterval(t *testing.T) {
	s := NewSnoozeScheduler(&stubStatusRepo{}, &stubRestorer{}, 0)
	assert.Equal(t, time.Minute, s.interval)
}
