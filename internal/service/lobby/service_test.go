package lobby

import (
	"sync"
	"testing"
	"time"

	"github.com/dropfour/backend/internal/repository/postgres"
	"github.com/dropfour/backend/internal/service/match"
)

type fakeMessenger struct {
	mu   sync.Mutex
	msgs map[int64][]match.Message
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{msgs: make(map[int64][]match.Message)}
}

func (f *fakeMessenger) Send(userID int64, msg match.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs[userID] = append(f.msgs[userID], msg)
	return nil
}

func (f *fakeMessenger) Disconnect(userID int64, reason string) {}

func (f *fakeMessenger) lastType(userID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.msgs[userID]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Type
}

type nopRepo struct{}

func (nopRepo) SaveMatch(postgres.MatchRecord) error { return nil }

func newLobby(fallback time.Duration) (*Service, *match.Manager, *fakeMessenger) {
	m := newFakeMessenger()
	mgr := match.NewManager(nopRepo{})
	return NewService(mgr, m, fallback), mgr, m
}

func TestTwoQueuedPlayersGetPaired(t *testing.T) {
	s, mgr, m := newLobby(time.Hour)

	s.JoinQueue(1, "alice")
	if m.lastType(1) != "queued" {
		t.Fatalf("first player got %q, want queued", m.lastType(1))
	}

	s.JoinQueue(2, "bob")
	if s.QueueLength() != 0 {
		t.Fatalf("queue length = %d after pairing", s.QueueLength())
	}
	sess, ok := mgr.GetByUserID(1)
	if !ok {
		t.Fatalf("no match for the first player")
	}
	if sess.RedUsername != "alice" || sess.YellowUsername != "bob" {
		t.Fatalf("pairing = %s vs %s", sess.RedUsername, sess.YellowUsername)
	}
	if m.lastType(2) != "match_start" {
		t.Fatalf("second player got %q, want match_start", m.lastType(2))
	}
}

func TestDuplicateJoinIsIgnored(t *testing.T) {
	s, _, _ := newLobby(time.Hour)

	s.JoinQueue(1, "alice")
	s.JoinQueue(1, "alice")
	if s.QueueLength() != 1 {
		t.Fatalf("queue length = %d, want 1", s.QueueLength())
	}
}

func TestQueuedPlayerFallsBackToBot(t *testing.T) {
	s, mgr, _ := newLobby(20 * time.Millisecond)

	s.JoinQueue(1, "alice")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if sess, ok := mgr.GetByUserID(1); ok {
			if !sess.IsBotMatch() {
				t.Fatalf("fallback match is not against the bot")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("bot fallback never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLeaveQueueCancelsFallback(t *testing.T) {
	s, mgr, _ := newLobby(20 * time.Millisecond)

	s.JoinQueue(1, "alice")
	s.LeaveQueue(1)

	time.Sleep(60 * time.Millisecond)
	if _, ok := mgr.GetByUserID(1); ok {
		t.Fatalf("bot match started after leaving the queue")
	}
	if s.QueueLength() != 0 {
		t.Fatalf("queue length = %d after leaving", s.QueueLength())
	}
}

func TestPlayBotStartsImmediately(t *testing.T) {
	s, mgr, _ := newLobby(time.Hour)

	s.PlayBot(1, "alice", "hard")
	sess, ok := mgr.GetByUserID(1)
	if !ok || !sess.IsBotMatch() {
		t.Fatalf("no bot match after PlayBot")
	}
}

func TestJoinQueueWhileInMatchIsRejected(t *testing.T) {
	s, _, m := newLobby(time.Hour)

	s.PlayBot(1, "alice", "medium")
	s.JoinQueue(1, "alice")
	if m.lastType(1) != "error" {
		t.Fatalf("got %q, want error", m.lastType(1))
	}
	if s.QueueLength() != 0 {
		t.Fatalf("player queued while in a match")
	}
}
