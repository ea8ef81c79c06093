package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropfour/backend/internal/config"
	"github.com/dropfour/backend/internal/repository/postgres"
)

func init() {
	config.AppConfig = &config.Config{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
	}
}

type memSessionRepo struct {
	sessions map[string]*postgres.AuthSession
	touched  int
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*postgres.AuthSession)}
}

func (r *memSessionRepo) CreateSession(userID int64, sessionID, deviceInfo, ipAddress string, expiresAt time.Time) error {
	r.sessions[sessionID] = &postgres.AuthSession{
		UserID:    userID,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		IsActive:  true,
	}
	return nil
}

func (r *memSessionRepo) GetSessionByID(sessionID string) (*postgres.AuthSession, error) {
	return r.sessions[sessionID], nil
}

func (r *memSessionRepo) DeactivateSession(sessionID string) error {
	if s, ok := r.sessions[sessionID]; ok {
		s.IsActive = false
	}
	return nil
}

func (r *memSessionRepo) TouchSession(sessionID string) error {
	r.touched++
	return nil
}

type memCache struct {
	values map[string]string
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = "1"
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func (c *memCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func TestStartAndValidateSession(t *testing.T) {
	repo := newMemSessionRepo()
	svc := NewService(repo, nil)

	token, err := svc.StartSession(7, "alice", "Firefox on Linux", "10.0.0.1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Fatalf("claims = %+v", claims)
	}
	if repo.touched != 1 {
		t.Fatalf("touched = %d, want 1", repo.touched)
	}
}

func TestValidateRejectsDeactivatedSession(t *testing.T) {
	repo := newMemSessionRepo()
	svc := NewService(repo, nil)

	token, err := svc.StartSession(7, "alice", "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	var sessionID string
	for id := range repo.sessions {
		sessionID = id
	}
	if err := svc.EndSession(sessionID); err != nil {
		t.Fatalf("end session: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("got %v, want ErrInvalidSession", err)
	}
}

func TestValidateRejectsExpiredSession(t *testing.T) {
	repo := newMemSessionRepo()
	svc := NewService(repo, nil)

	token, err := svc.StartSession(7, "alice", "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	for _, s := range repo.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("got %v, want ErrInvalidSession", err)
	}
}

func TestBlocklistCutsTokenOffImmediately(t *testing.T) {
	repo := newMemSessionRepo()
	cache := newMemCache()
	svc := NewService(repo, cache)

	token, err := svc.StartSession(7, "alice", "", "")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if err := svc.EndSession(claims.SessionID); err != nil {
		t.Fatalf("end session: %v", err)
	}
	// Even with the DB row untouched, the blocklist alone must reject it.
	repo.sessions[claims.SessionID].IsActive = true

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("got %v, want ErrInvalidSession", err)
	}
}

func TestGarbageTokenIsRejected(t *testing.T) {
	svc := NewService(newMemSessionRepo(), nil)
	if _, err := svc.ValidateToken("garbage"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}
