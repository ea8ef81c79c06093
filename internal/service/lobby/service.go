package lobby

import (
	"log"
	"sync"
	"time"

	"github.com/dropfour/backend/internal/service/match"
)

// waiting is a player sitting in the queue. The timer downgrades them to a
// bot match when nobody shows up in time.
type waiting struct {
	userID   int64
	username string
	joinedAt time.Time
	timer    *time.Timer
}

// Service pairs queued players into matches, oldest first. A player left
// alone past the fallback window gets a bot opponent instead.
type Service struct {
	mu          sync.Mutex
	queue       []*waiting
	matches     *match.Manager
	messenger   match.Messenger
	botFallback time.Duration
}

func NewService(matches *match.Manager, m match.Messenger, botFallback time.Duration) *Service {
	return &Service{
		matches:     matches,
		messenger:   m,
		botFallback: botFallback,
	}
}

// JoinQueue puts a player in the matchmaking queue. If an opponent is already
// waiting, the match starts immediately.
func (s *Service) JoinQueue(userID int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches.GetByUserID(userID); ok {
		s.messenger.Send(userID, match.Message{
			Type:    "error",
			Message: "already in a match",
		})
		return
	}
	for _, w := range s.queue {
		if w.userID == userID {
			return
		}
	}

	if len(s.queue) > 0 {
		opponent := s.queue[0]
		s.queue = s.queue[1:]
		opponent.timer.Stop()

		// First in queue plays red.
		yellowID := userID
		s.matches.Create(opponent.userID, opponent.username, &yellowID, username, "", s.messenger)
		log.Printf("[LOBBY] paired %s vs %s", opponent.username, username)
		return
	}

	w := &waiting{userID: userID, username: username, joinedAt: time.Now()}
	w.timer = time.AfterFunc(s.botFallback, func() { s.fallbackToBot(userID) })
	s.queue = append(s.queue, w)

	s.messenger.Send(userID, match.Message{
		Type:    "queued",
		Message: "waiting for an opponent",
	})
	log.Printf("[LOBBY] %s joined the queue", username)
}

// LeaveQueue removes a player, usually because they disconnected.
func (s *Service) LeaveQueue(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(userID)
}

func (s *Service) removeLocked(userID int64) *waiting {
	for i, w := range s.queue {
		if w.userID == userID {
			w.timer.Stop()
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return w
		}
	}
	return nil
}

// fallbackToBot starts a bot match for a player nobody paired with.
func (s *Service) fallbackToBot(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.removeLocked(userID)
	if w == nil {
		return
	}
	log.Printf("[LOBBY] no opponent for %s, starting bot match", w.username)
	s.matches.Create(w.userID, w.username, nil, match.BotUsername, "medium", s.messenger)
}

// PlayBot skips the queue entirely and starts a bot match at the requested
// difficulty.
func (s *Service) PlayBot(userID int64, username, difficulty string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches.GetByUserID(userID); ok {
		s.messenger.Send(userID, match.Message{
			Type:    "error",
			Message: "already in a match",
		})
		return
	}
	s.removeLocked(userID)
	s.matches.Create(userID, username, nil, match.BotUsername, difficulty, s.messenger)
}

// QueueLength reports how many players are waiting.
func (s *Service) QueueLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
