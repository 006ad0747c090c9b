package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/metrics"
	"github.com/quizdeck/quizdeck-backend/internal/model"
	"github.com/rs/zerolog"
)

// ErrNoAttempts is returned when a quiz has no attempts to rank.
var ErrNoAttempts = errors.New("no attempts found for this quiz")

// LeaderboardService computes the ranked best-attempt-per-user view of a
// quiz's attempts. The leaderboard is derived on every query from one
// snapshot read of the attempt set; nothing is persisted.
type LeaderboardService struct {
	attempts AttemptStore
	log      zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(attempts AttemptStore, log zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		attempts: attempts,
		log:      log.With().Str("component", "leaderboard_service").Logger(),
	}
}

// userStanding accumulates one user's attempts during grouping.
type userStanding struct {
	userID        int
	username      string
	highestScore  float64
	attemptsCount int
	best          model.AttemptWithUser
}

// betterAttempt reports whether a should represent the user instead of b:
// higher score first, and among equal scores the more recent completion.
func betterAttempt(a, b model.AttemptWithUser) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.CompletedAt.After(b.CompletedAt)
}

// ComputeLeaderboard produces one entry per distinct user who attempted
// the quiz, ranked by highest score.
//
// Per user: highestScore is the maximum across all attempts,
// attemptsCount counts every attempt, and the exposed completedAt comes
// from the best attempt (score desc, then completedAt desc: the most
// recent of the top-scoring attempts).
//
// Globally entries sort by highestScore descending. Ties between users
// break on best-attempt completedAt ascending (whoever reached the score
// first ranks higher), then user ID, so the ordering is deterministic.
func (s *LeaderboardService) ComputeLeaderboard(ctx context.Context, quizID uuid.UUID) ([]model.LeaderboardEntry, error) {
	attempts, err := s.attempts.ListByQuizWithUser(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if len(attempts) == 0 {
		return nil, ErrNoAttempts
	}

	groups := make(map[int]*userStanding)
	for _, a := range attempts {
		g, ok := groups[a.UserID]
		if !ok {
			groups[a.UserID] = &userStanding{
				userID:        a.UserID,
				username:      a.Username,
				highestScore:  a.Score,
				attemptsCount: 1,
				best:          a,
			}
			continue
		}
		g.attemptsCount++
		if a.Score > g.highestScore {
			g.highestScore = a.Score
		}
		if betterAttempt(a, g.best) {
			g.best = a
		}
	}

	entries := make([]model.LeaderboardEntry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, model.LeaderboardEntry{
			UserID:        g.userID,
			Username:      g.username,
			HighestScore:  g.highestScore,
			AttemptsCount: g.attemptsCount,
			CompletedAt:   g.best.CompletedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].HighestScore != entries[j].HighestScore {
			return entries[i].HighestScore > entries[j].HighestScore
		}
		if !entries[i].CompletedAt.Equal(entries[j].CompletedAt) {
			return entries[i].CompletedAt.Before(entries[j].CompletedAt)
		}
		return entries[i].UserID < entries[j].UserID
	})

	metrics.LeaderboardQueries.Inc()
	s.log.Debug().
		Str("quiz_id", quizID.String()).
		Int("attempts", len(attempts)).
		Int("entries", len(entries)).
		Msg("leaderboard computed")

	return entries, nil
}
