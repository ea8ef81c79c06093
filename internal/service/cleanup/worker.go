package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/dropfour/backend/internal/service/match"
)

// SessionCleaner trims long-expired auth sessions from storage.
type SessionCleaner interface {
	CleanupExpiredSessions(keepDays int) (int64, error)
}

const sessionKeepDays = 7

// Worker periodically drops stale match sessions and expired auth sessions.
type Worker struct {
	matches  *match.Manager
	sessions SessionCleaner
	interval time.Duration
}

func NewWorker(matches *match.Manager, sessions SessionCleaner, interval time.Duration) *Worker {
	return &Worker{matches: matches, sessions: sessions, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("[CLEANUP] worker started, sweeping every %s", w.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Worker) sweep() {
	w.matches.CleanupStale()

	if w.sessions == nil {
		return
	}
	removed, err := w.sessions.CleanupExpiredSessions(sessionKeepDays)
	if err != nil {
		log.Printf("[CLEANUP] auth session sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[CLEANUP] removed %d expired auth sessions", removed)
	}
}
