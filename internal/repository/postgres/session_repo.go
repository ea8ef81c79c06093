package postgres

import (
	"database/sql"
	"fmt"
	"time"
)

// AuthSession is a server-side login session backing an access token.
type AuthSession struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	SessionID    string    `json:"session_id"`
	DeviceInfo   string    `json:"device_info"`
	IPAddress    string    `json:"ip_address"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
}

type SessionRepo struct {
	DB *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

func (r *SessionRepo) CreateSession(userID int64, sessionID, deviceInfo, ipAddress string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
		INSERT INTO auth_sessions (user_id, session_id, device_info, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		userID, sessionID, deviceInfo, ipAddress, expiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetSessionByID(sessionID string) (*AuthSession, error) {
	var s AuthSession
	err := r.DB.QueryRow(`
		SELECT id, user_id, session_id, device_info, ip_address, created_at, expires_at, last_activity, is_active
		FROM auth_sessions WHERE session_id = $1`, sessionID).Scan(
		&s.ID, &s.UserID, &s.SessionID, &s.DeviceInfo, &s.IPAddress,
		&s.CreatedAt, &s.ExpiresAt, &s.LastActivity, &s.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) DeactivateSession(sessionID string) error {
	_, err := r.DB.Exec(`UPDATE auth_sessions SET is_active = false WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeactivateAllUserSessions(userID int64) error {
	_, err := r.DB.Exec(`UPDATE auth_sessions SET is_active = false WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deactivate user sessions: %w", err)
	}
	return nil
}

func (r *SessionRepo) TouchSession(sessionID string) error {
	_, err := r.DB.Exec(`UPDATE auth_sessions SET last_activity = now() WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions deletes sessions older than keepDays and returns how
// many rows were removed.
func (r *SessionRepo) CleanupExpiredSessions(keepDays int) (int64, error) {
	result, err := r.DB.Exec(`
		DELETE FROM auth_sessions
		WHERE expires_at < now() - ($1 || ' days')::interval`, keepDays)
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return result.RowsAffected()
}
