package model

import "time"

// LeaderboardEntry is the derived per-user summary across all of that
// user's attempts at one quiz. It is recomputed per query, never stored.
//
// CompletedAt is the timestamp of the user's best attempt: among attempts
// tied for the highest score, the most recently completed one.
type LeaderboardEntry struct {
	UserID        int       `json:"user_id"`
	Username      string    `json:"username"`
	HighestScore  float64   `json:"highest_score"`
	AttemptsCount int       `json:"attempts_count"`
	CompletedAt   time.Time `json:"completed_at"`
}
