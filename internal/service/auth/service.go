// Package auth issues and validates login sessions: a postgres session row
// is the source of truth, a JWT access token carries it, and a redis
// blocklist lets logout take effect before the token expires.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dropfour/backend/internal/config"
	"github.com/dropfour/backend/internal/repository/postgres"
	"github.com/dropfour/backend/pkg/auth"
	"github.com/dropfour/backend/pkg/uid"
)

const (
	blockedSessionKeyPrefix = "blocked_session:"
	sessionTTL              = 30 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid or expired session")

type SessionRepository interface {
	CreateSession(userID int64, sessionID, deviceInfo, ipAddress string, expiresAt time.Time) error
	GetSessionByID(sessionID string) (*postgres.AuthSession, error)
	DeactivateSession(sessionID string) error
	TouchSession(sessionID string) error
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	repo  SessionRepository
	cache CacheRepository // optional, may be nil
}

func NewService(repo SessionRepository, cache CacheRepository) *Service {
	return &Service{repo: repo, cache: cache}
}

// StartSession creates a session row and returns its access token.
func (s *Service) StartSession(userID int64, username, deviceInfo, ipAddress string) (string, error) {
	sessionID, err := uid.NewSessionID()
	if err != nil {
		return "", err
	}
	if err := s.repo.CreateSession(userID, sessionID, deviceInfo, ipAddress, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return auth.GenerateAccessToken(userID, username, sessionID)
}

// ValidateToken checks the token signature, the blocklist, and the backing
// session row, and returns the claims when all pass.
func (s *Service) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := auth.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if s.isBlocked(claims.SessionID) {
		return nil, ErrInvalidSession
	}

	session, err := s.repo.GetSessionByID(claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive || time.Now().After(session.ExpiresAt) {
		return nil, ErrInvalidSession
	}

	// Activity tracking is best-effort; validation does not depend on it.
	_ = s.repo.TouchSession(claims.SessionID)
	return claims, nil
}

// EndSession deactivates the session row and blocklists the session ID so
// outstanding tokens die immediately.
func (s *Service) EndSession(sessionID string) error {
	if err := s.repo.DeactivateSession(sessionID); err != nil {
		return err
	}
	if s.cache != nil {
		ttl := time.Duration(config.AppConfig.AccessTokenTTLMinutes) * time.Minute
		_ = s.cache.Set(context.Background(), blockedSessionKeyPrefix+sessionID, "1", ttl)
	}
	return nil
}

func (s *Service) isBlocked(sessionID string) bool {
	if s.cache == nil {
		return false
	}
	val, err := s.cache.Get(context.Background(), blockedSessionKeyPrefix+sessionID)
	return err == nil && val != ""
}
