package postgres

import (
	"database/sql"
	"fmt"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	Rating       int       `json:"rating"`
	GamesPlayed  int       `json:"games_played"`
	GamesWon     int       `json:"games_won"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, username, email, password_hash, COALESCE(google_id, ''), rating, games_played, games_won, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GoogleID,
		&u.Rating, &u.GamesPlayed, &u.GamesWon, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new player and returns its ID. googleID may be empty
// for password accounts.
func (r *UserRepo) CreateUser(username, email, passwordHash, googleID string) (int64, error) {
	var gid sql.NullString
	if googleID != "" {
		gid = sql.NullString{String: googleID, Valid: true}
	}

	var id int64
	err := r.DB.QueryRow(
		`INSERT INTO players (username, email, password_hash, google_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, passwordHash, gid,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *UserRepo) GetByID(id int64) (*User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM players WHERE id = $1`, id))
}

func (r *UserRepo) GetByUsername(username string) (*User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM players WHERE username = $1`, username))
}

func (r *UserRepo) GetByEmail(email string) (*User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM players WHERE email = $1`, email))
}

func (r *UserRepo) GetByGoogleID(googleID string) (*User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM players WHERE google_id = $1`, googleID))
}

// LinkGoogleID attaches a Google account to an existing player, so password
// accounts can later sign in with Google.
func (r *UserRepo) LinkGoogleID(userID int64, googleID string) error {
	_, err := r.DB.Exec(`UPDATE players SET google_id = $1 WHERE id = $2`, googleID, userID)
	if err != nil {
		return fmt.Errorf("link google id: %w", err)
	}
	return nil
}

// Leaderboard returns the top players by rating.
func (r *UserRepo) Leaderboard(limit int) ([]User, error) {
	rows, err := r.DB.Query(
		`SELECT `+userColumns+` FROM players ORDER BY rating DESC, games_won DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GoogleID,
			&u.Rating, &u.GamesPlayed, &u.GamesWon, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
