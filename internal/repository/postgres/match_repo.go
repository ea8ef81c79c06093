package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dropfour/backend/internal/game"
)

// MatchRecord is a finished game as stored in the matches table.
type MatchRecord struct {
	MatchID         string     `json:"match_id"`
	RedID           int64      `json:"red_id"`
	RedUsername     string     `json:"red_username"`
	YellowID        *int64     `json:"yellow_id"` // nil when yellow was the bot
	YellowUsername  string     `json:"yellow_username"`
	WinnerID        *int64     `json:"winner_id"`
	WinnerUsername  string     `json:"winner_username"`
	Reason          string     `json:"reason"`
	TotalMoves      int        `json:"total_moves"`
	DurationSeconds int        `json:"duration_seconds"`
	Board           [][]int    `json:"board,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	FinishedAt      time.Time  `json:"finished_at"`
}

type MatchRepo struct {
	DB *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{DB: db}
}

// SaveMatch stores a finished match and updates both players' tallies and
// Elo ratings in one transaction. Bot opponents (nil yellowID) don't carry a
// rating, so only the human side's tally is touched then.
func (r *MatchRepo) SaveMatch(rec MatchRecord) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	redWon := rec.WinnerID != nil && *rec.WinnerID == rec.RedID
	if err := r.updateTallyTx(tx, rec.RedID, redWon); err != nil {
		return err
	}

	if rec.YellowID != nil {
		yellowWon := rec.WinnerID != nil && *rec.WinnerID == *rec.YellowID
		if err := r.updateTallyTx(tx, *rec.YellowID, yellowWon); err != nil {
			return err
		}
		if err := r.updateRatingsTx(tx, rec.RedID, *rec.YellowID, rec.WinnerID); err != nil {
			return err
		}
	}

	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO matches (match_id, red_id, red_username, yellow_id, yellow_username,
			winner_id, winner_username, reason, total_moves, duration_seconds, board, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (match_id) DO NOTHING`,
		rec.MatchID, rec.RedID, rec.RedUsername, rec.YellowID, rec.YellowUsername,
		rec.WinnerID, rec.WinnerUsername, rec.Reason, rec.TotalMoves, rec.DurationSeconds,
		boardJSON, rec.CreatedAt, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return tx.Commit()
}

func (r *MatchRepo) updateTallyTx(tx *sql.Tx, userID int64, won bool) error {
	_, err := tx.Exec(`
		UPDATE players
		SET games_played = games_played + 1,
		    games_won = games_won + CASE WHEN $2 THEN 1 ELSE 0 END
		WHERE id = $1`, userID, won)
	if err != nil {
		return fmt.Errorf("update tally: %w", err)
	}
	return nil
}

func (r *MatchRepo) updateRatingsTx(tx *sql.Tx, redID, yellowID int64, winnerID *int64) error {
	var redRating, yellowRating int
	if err := tx.QueryRow(`SELECT rating FROM players WHERE id = $1`, redID).Scan(&redRating); err != nil {
		return fmt.Errorf("load red rating: %w", err)
	}
	if err := tx.QueryRow(`SELECT rating FROM players WHERE id = $1`, yellowID).Scan(&yellowRating); err != nil {
		return fmt.Errorf("load yellow rating: %w", err)
	}

	redScore := 0.5
	if winnerID != nil {
		if *winnerID == redID {
			redScore = 1.0
		} else {
			redScore = 0.0
		}
	}

	newRed := game.UpdateElo(redRating, yellowRating, redScore)
	newYellow := game.UpdateElo(yellowRating, redRating, 1.0-redScore)

	if _, err := tx.Exec(`UPDATE players SET rating = $2 WHERE id = $1`, redID, newRed); err != nil {
		return fmt.Errorf("update red rating: %w", err)
	}
	if _, err := tx.Exec(`UPDATE players SET rating = $2 WHERE id = $1`, yellowID, newYellow); err != nil {
		return fmt.Errorf("update yellow rating: %w", err)
	}
	return nil
}

const matchColumns = `match_id, red_id, red_username, yellow_id, yellow_username,
	winner_id, COALESCE(winner_username, ''), reason, total_moves, duration_seconds, created_at, finished_at`

// GetMatchByID returns one match, including its final board, or nil when the
// ID is unknown.
func (r *MatchRepo) GetMatchByID(matchID string) (*MatchRecord, error) {
	var rec MatchRecord
	var yellowID, winnerID sql.NullInt64
	var boardJSON []byte

	err := r.DB.QueryRow(`SELECT `+matchColumns+`, board FROM matches WHERE match_id = $1`, matchID).Scan(
		&rec.MatchID, &rec.RedID, &rec.RedUsername, &yellowID, &rec.YellowUsername,
		&winnerID, &rec.WinnerUsername, &rec.Reason, &rec.TotalMoves, &rec.DurationSeconds,
		&rec.CreatedAt, &rec.FinishedAt, &boardJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}

	if yellowID.Valid {
		rec.YellowID = &yellowID.Int64
	}
	if winnerID.Valid {
		rec.WinnerID = &winnerID.Int64
	}
	if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	return &rec, nil
}

// GetUserMatchHistory lists a user's finished matches, newest first.
func (r *MatchRepo) GetUserMatchHistory(userID int64, limit int) ([]MatchRecord, error) {
	rows, err := r.DB.Query(`
		SELECT `+matchColumns+` FROM matches
		WHERE red_id = $1 OR yellow_id = $1
		ORDER BY finished_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("match history: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		var yellowID, winnerID sql.NullInt64
		if err := rows.Scan(&rec.MatchID, &rec.RedID, &rec.RedUsername, &yellowID, &rec.YellowUsername,
			&winnerID, &rec.WinnerUsername, &rec.Reason, &rec.TotalMoves, &rec.DurationSeconds,
			&rec.CreatedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("match history scan: %w", err)
		}
		if yellowID.Valid {
			rec.YellowID = &yellowID.Int64
		}
		if winnerID.Valid {
			rec.WinnerID = &winnerID.Int64
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
