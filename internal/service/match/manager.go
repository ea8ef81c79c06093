package match

import (
	"log"
	"sync"
	"time"
)

// Manager tracks the live sessions and maps users to the match they are in.
type Manager struct {
	sessions    map[string]*Session
	userToMatch map[int64]string
	mu          sync.RWMutex
	repo        MatchRepository
}

func NewManager(repo MatchRepository) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		userToMatch: make(map[int64]string),
		repo:        repo,
	}
}

// Create starts a session and notifies both players. yellowID nil means the
// opponent is the bot at the given difficulty.
func (mgr *Manager) Create(redID int64, redUsername string, yellowID *int64, yellowUsername, botDifficulty string, m Messenger) *Session {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	s := newSession(redID, redUsername, yellowID, yellowUsername, botDifficulty, m, mgr.repo)
	mgr.sessions[s.MatchID] = s
	mgr.userToMatch[redID] = s.MatchID
	if yellowID != nil {
		mgr.userToMatch[*yellowID] = s.MatchID
	}

	log.Printf("[MATCH] created %s: %s vs %s", s.MatchID, redUsername, yellowUsername)
	return s
}

// GetByUserID returns the session the user is playing in, if any.
func (mgr *Manager) GetByUserID(userID int64) (*Session, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	matchID, ok := mgr.userToMatch[userID]
	if !ok {
		return nil, false
	}
	s, ok := mgr.sessions[matchID]
	return s, ok
}

// GetByMatchID returns a session by its identifier.
func (mgr *Manager) GetByMatchID(matchID string) (*Session, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	s, ok := mgr.sessions[matchID]
	return s, ok
}

// Remove drops a session and its user mappings.
func (mgr *Manager) Remove(matchID string) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.removeLocked(matchID)
}

func (mgr *Manager) removeLocked(matchID string) {
	s, ok := mgr.sessions[matchID]
	if !ok {
		return
	}
	delete(mgr.userToMatch, s.RedID)
	if s.YellowID != nil {
		delete(mgr.userToMatch, *s.YellowID)
	}
	delete(mgr.sessions, matchID)
}

// LiveSessions lists unfinished matches, for the spectator endpoint.
func (mgr *Manager) LiveSessions() []*Session {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	var live []*Session
	for _, s := range mgr.sessions {
		if !s.Finished() {
			live = append(live, s)
		}
	}
	return live
}

// CleanupStale removes finished sessions older than an hour and unfinished
// ones that have been sitting for a day.
func (mgr *Manager) CleanupStale() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	now := time.Now()
	removed := 0
	for matchID, s := range mgr.sessions {
		if s.stale(now) {
			mgr.removeLocked(matchID)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[MATCH] cleanup removed %d stale sessions", removed)
	}
}
