package game

import "math"

const kFactor = 32.0

// UpdateElo returns the new rating for a player rated ratingA after a result
// against a player rated ratingB. score is 1 for a win, 0.5 for a draw and 0
// for a loss. Ratings never drop below zero.
func UpdateElo(ratingA, ratingB int, score float64) int {
	expected := 1.0 / (1.0 + math.Pow(10.0, float64(ratingB-ratingA)/400.0))
	rating := float64(ratingA) + kFactor*(score-expected)
	if rating < 0 {
		return 0
	}
	return int(rating)
}
