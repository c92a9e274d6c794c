package scheduler

import (
	"context"
	"log"
	"time"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
)

// BoardRestorer is the slice of the board usecase the scheduler needs: waking
// one snoozed email.
type BoardRestorer interface {
	UnsnoozeEmail(ctx context.Context, userID, emailID string) (*domain.EmailStatus, error)
}

// SnoozeScheduler periodically wakes emails whose snooze time has passed,
// restoring each to the column it was snoozed from.
type SnoozeScheduler struct {
	statusRepo repository.EmailStatusRepository
	board      BoardRestorer
	interval   time.Duration
	stopChan   chan struct{}
}

func NewSnoozeScheduler(statusRepo repository.EmailStatusRepository, board BoardRestorer, interval time.Duration) *SnoozeScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SnoozeScheduler{
		statusRepo: statusRepo,
		board:      board,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the periodic sweep in a background goroutine. The first sweep
// runs immediately so snoozes that expired while the process was down are
// restored without waiting a full interval.
func (s *SnoozeScheduler) Start() {
	log.Printf("[SnoozeScheduler] Starting with interval %v", s.interval)
	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				log.Println("[SnoozeScheduler] Stopped")
				return
			}
		}
	}()
}

// Stop signals the scheduler to stop.
func (s *SnoozeScheduler) Stop() {
	close(s.stopChan)
}

// sweep wakes every expired snooze. A failure on one row is logged and does
// not block the others.
func (s *SnoozeScheduler) sweep() {
	expired, err := s.statusRepo.FindExpiredSnoozes(time.Now())
	if err != nil {
		log.Printf("[SnoozeScheduler] Failed to find expired snoozes: %v", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	log.Printf("[SnoozeScheduler] Waking %d expired snoozes", len(expired))
	for _, status := range expired {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := s.board.UnsnoozeEmail(ctx, status.UserID, status.EmailID)
		cancel()
		if err != nil {
			log.Printf("[SnoozeScheduler] Failed to wake email %s for user %s: %v", status.EmailID, status.UserID, err)
		}
	}
}
