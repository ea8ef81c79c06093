// Package match runs live games between connected users, or between a user
// and an engine-backed bot, and persists finished matches.
package match

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dropfour/backend/internal/agent"
	"github.com/dropfour/backend/internal/game"
	"github.com/dropfour/backend/internal/repository/postgres"
	"github.com/dropfour/backend/pkg/uid"
)

// MatchRepository persists finished matches.
type MatchRepository interface {
	SaveMatch(rec postgres.MatchRecord) error
}

// Session is one live match. Red is always the user who entered the queue
// first; Yellow is either a second user or the bot (nil YellowID).
type Session struct {
	MatchID        string
	RedID          int64
	RedUsername    string
	YellowID       *int64
	YellowUsername string

	bot        agent.Agent // nil for user-vs-user matches
	state      game.State
	moveCount  int
	reason     string
	createdAt  time.Time
	finishedAt time.Time

	mu      sync.Mutex
	repo    MatchRepository
}

func newSession(redID int64, redUsername string, yellowID *int64, yellowUsername, botDifficulty string,
	m Messenger, repo MatchRepository) *Session {

	s := &Session{
		MatchID:        uid.NewMatchID(),
		RedID:          redID,
		RedUsername:    redUsername,
		YellowID:       yellowID,
		YellowUsername: yellowUsername,
		state:          game.NewState(),
		createdAt:      time.Now(),
		repo:           repo,
	}
	if yellowID == nil {
		s.bot = NewBotAgent(botDifficulty)
	}

	m.Send(redID, Message{
		Type:        "match_start",
		MatchID:     s.MatchID,
		Opponent:    yellowUsername,
		YourColor:   int(game.Red),
		NextTurn:    int(s.state.Turn()),
		Board:       s.state.Grid(),
	})
	if yellowID != nil {
		m.Send(*yellowID, Message{
			Type:        "match_start",
			MatchID:     s.MatchID,
			Opponent:    redUsername,
			YourColor:   int(game.Yellow),
			NextTurn:    int(s.state.Turn()),
			Board:       s.state.Grid(),
		})
	}
	return s
}

// IsBotMatch reports whether yellow is the built-in bot.
func (s *Session) IsBotMatch() bool {
	return s.YellowID == nil
}

// Finished reports whether the game reached a terminal state or was ended
// early by resignation or abandonment.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished()
}

func (s *Session) finished() bool {
	return s.state.IsTerminal() || s.reason != ""
}

// stale reports whether the manager's sweep should drop this session:
// finished games linger for an hour, abandoned-but-unfinished ones for a day.
func (s *Session) stale(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished() {
		return now.Sub(s.finishedAt) > time.Hour
	}
	return now.Sub(s.createdAt) > 24*time.Hour
}

func (s *Session) colorOf(userID int64) (game.Disc, bool) {
	if userID == s.RedID {
		return game.Red, true
	}
	if s.YellowID != nil && userID == *s.YellowID {
		return game.Yellow, true
	}
	return game.NoDisc, false
}

func (s *Session) usernameOf(d game.Disc) string {
	if d == game.Red {
		return s.RedUsername
	}
	return s.YellowUsername
}

func (s *Session) broadcast(m Messenger, msg Message) {
	m.Send(s.RedID, msg)
	if s.YellowID != nil {
		m.Send(*s.YellowID, msg)
	}
}

// HandleMove plays a user's move, pushes the update to both sides, and when
// the game is against the bot, schedules the engine's reply.
func (s *Session) HandleMove(userID int64, column int, m Messenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.colorOf(userID)
	if !ok {
		return fmt.Errorf("user %d is not in match %s", userID, s.MatchID)
	}
	if s.finished() {
		return fmt.Errorf("match %s is already over", s.MatchID)
	}
	if s.state.Turn() != color {
		return fmt.Errorf("not your turn")
	}

	if err := s.play(color, column, m); err != nil {
		return err
	}

	if !s.finished() && s.IsBotMatch() && s.state.Turn() == game.Yellow {
		go func() {
			// Small delay so the reply doesn't feel instantaneous.
			time.Sleep(500 * time.Millisecond)
			if err := s.HandleBotMove(m); err != nil {
				log.Printf("[BOT] match %s: %v", s.MatchID, err)
			}
		}()
	}
	return nil
}

// HandleBotMove asks the engine for yellow's move. Entry point for the reply
// goroutine, so it re-checks that the move is still expected.
func (s *Session) HandleBotMove(m Messenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.IsBotMatch() || s.finished() || s.state.Turn() != game.Yellow {
		return nil
	}

	column, err := s.bot.SelectMove(s.state)
	if err != nil {
		return fmt.Errorf("bot move: %w", err)
	}
	return s.play(game.Yellow, column, m)
}

// play applies one move and handles the resulting state. Caller holds s.mu.
func (s *Session) play(color game.Disc, column int, m Messenger) error {
	next, err := s.state.Apply(column)
	if err != nil {
		return err
	}

	// The disc landed in the lowest empty row of the column; recover it for
	// the clients by diffing against the previous state.
	row := -1
	for r := game.Rows - 1; r >= 0; r-- {
		if s.state.At(r, column) == game.NoDisc {
			row = r
			break
		}
	}

	s.state = next
	s.moveCount++

	moveMsg := Message{
		Type:     "move_made",
		Column:   column,
		Row:      row,
		Player:   int(color),
		Board:    s.state.Grid(),
		NextTurn: int(s.state.Turn()),
	}
	s.broadcast(m, moveMsg)

	switch s.state.Outcome() {
	case game.RedWin, game.YellowWin:
		s.reason = "connect_four"
		s.finish(m, s.state.Outcome().Winner())
	case game.Draw:
		s.reason = "draw"
		s.finish(m, game.NoDisc)
	}
	return nil
}

// Resign ends the match in the opponent's favour.
func (s *Session) Resign(userID int64, m Messenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.colorOf(userID)
	if !ok {
		return fmt.Errorf("user %d is not in match %s", userID, s.MatchID)
	}
	if s.finished() {
		return nil
	}
	s.reason = "resignation"
	s.finish(m, color.Other())
	return nil
}

// HandleDisconnect ends an unfinished match when a player drops.
func (s *Session) HandleDisconnect(userID int64, m Messenger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.colorOf(userID)
	if !ok || s.finished() {
		return
	}
	s.reason = "abandonment"
	s.finish(m, color.Other())
}

// finish broadcasts game_over and persists the result. Caller holds s.mu.
func (s *Session) finish(m Messenger, winner game.Disc) {
	s.finishedAt = time.Now()

	var winnerID *int64
	winnerUsername := ""
	if winner != game.NoDisc {
		winnerUsername = s.usernameOf(winner)
		if winner == game.Red {
			winnerID = &s.RedID
		} else if s.YellowID != nil {
			winnerID = s.YellowID
		}
	}

	s.broadcast(m, Message{
		Type:        "game_over",
		Winner:      winnerUsername,
		Reason:      s.reason,
		Board:       s.state.Grid(),
		WinningLine: s.state.WinningLine(),
	})

	rec := postgres.MatchRecord{
		MatchID:         s.MatchID,
		RedID:           s.RedID,
		RedUsername:     s.RedUsername,
		YellowID:        s.YellowID,
		YellowUsername:  s.YellowUsername,
		WinnerID:        winnerID,
		WinnerUsername:  winnerUsername,
		Reason:          s.reason,
		TotalMoves:      s.moveCount,
		DurationSeconds: int(s.finishedAt.Sub(s.createdAt).Seconds()),
		Board:           s.state.Grid(),
		CreatedAt:       s.createdAt,
		FinishedAt:      s.finishedAt,
	}

	// Persist in the background so game_over delivery never waits on the
	// database.
	go func() {
		if err := s.repo.SaveMatch(rec); err != nil {
			log.Printf("[MATCH] saving match %s failed: %v", s.MatchID, err)
		}
	}()
}
