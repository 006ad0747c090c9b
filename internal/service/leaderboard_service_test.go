package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/model"
	"github.com/quizdeck/quizdeck-backend/internal/service"
	"github.com/rs/zerolog"
)

func seedAttempt(store *fakeAttemptStore, quizID uuid.UUID, userID int, score float64, completedAt time.Time) {
	store.attempts = append(store.attempts, &model.Attempt{
		ID:          uuid.New(),
		QuizID:      quizID,
		UserID:      userID,
		Score:       score,
		CompletedAt: completedAt,
	})
}

func TestLeaderboardGroupsBestAttemptPerUser(t *testing.T) {
	ctx := context.Background()
	quizzes := newFakeQuizStore()
	attempts := newFakeAttemptStore(quizzes)
	attempts.usernames[1] = "alice"

	quizID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedAttempt(attempts, quizID, 1, 70, base)
	seedAttempt(attempts, quizID, 1, 90, base.Add(time.Hour))
	seedAttempt(attempts, quizID, 1, 80, base.Add(2*time.Hour))

	svc := service.NewLeaderboardService(attempts, zerolog.Nop())
	entries, err := svc.ComputeLeaderboard(ctx, quizID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Username != "alice" || e.HighestScore != 90 || e.AttemptsCount != 3 {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if !e.CompletedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected completedAt of the best attempt, got %v", e.CompletedAt)
	}
}

func TestLeaderboardEqualScoresExposeMostRecentCompletion(t *testing.T) {
	ctx := context.Background()
	quizzes := newFakeQuizStore()
	attempts := newFakeAttemptStore(quizzes)
	attempts.usernames[1] = "alice"

	quizID := uuid.New()
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	seedAttempt(attempts, quizID, 1, 90, t1)
	seedAttempt(attempts, quizID, 1, 90, t2)

	svc := service.NewLeaderboardService(attempts, zerolog.Nop())
	entries, err := svc.ComputeLeaderboard(ctx, quizID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if !entries[0].CompletedAt.Equal(t2) {
		t.Fatalf("expected the later of the tied attempts, got %v", entries[0].CompletedAt)
	}
}

func TestLeaderboardRanksByHighestScore(t *testing.T) {
	ctx := context.Background()
	quizzes := newFakeQuizStore()
	attempts := newFakeAttemptStore(quizzes)
	attempts.usernames[1] = "alice"
	attempts.usernames[2] = "bob"

	quizID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedAttempt(attempts, quizID, 2, 70, base)
	seedAttempt(attempts, quizID, 1, 90, base.Add(time.Minute))

	svc := service.NewLeaderboardService(attempts, zerolog.Nop())
	entries, err := svc.ComputeLeaderboard(ctx, quizID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if entries[0].Username != "alice" || entries[1].Username != "bob" {
		t.Fatalf("unexpected ranking: %+v", entries)
	}
}

func TestLeaderboardTieBreaksOnEarlierCompletionThenUserID(t *testing.T) {
	ctx := context.Background()
	quizzes := newFakeQuizStore()
	attempts := newFakeAttemptStore(quizzes)
	attempts.usernames[1] = "alice"
	attempts.usernames[2] = "bob"
	attempts.usernames[3] = "carol"

	quizID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedAttempt(attempts, quizID, 2, 80, base)                // reached 80 first
	seedAttempt(attempts, quizID, 1, 80, base.Add(time.Hour)) // same score, later
	seedAttempt(attempts, quizID, 3, 80, base.Add(time.Hour)) // same score and time as user 1

	svc := service.NewLeaderboardService(attempts, zerolog.Nop())
	entries, err := svc.ComputeLeaderboard(ctx, quizID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if entries[0].UserID != 2 {
		t.Fatalf("expected earlier completion to rank first, got %+v", entries)
	}
	if entries[1].UserID != 1 || entries[2].UserID != 3 {
		t.Fatalf("expected user ID tie-break, got %+v", entries)
	}
}

func TestLeaderboardEmptyQuiz(t *testing.T) {
	ctx := context.Background()
	quizzes := newFakeQuizStore()
	attempts := newFakeAttemptStore(quizzes)

	svc := service.NewLeaderboardService(attempts, zerolog.Nop())
	_, err := svc.ComputeLeaderboard(ctx, uuid.New())
	if !errors.Is(err, service.ErrNoAttempts) {
		t.Fatalf("expected ErrNoAttempts, got %v", err)
	}
}

func TestLeaderboardIgnoresOtherQuizzes(t *testing.T) {
	ctx := context.Background()
	quizzes := newFakeQuizStore()
	attempts := newFakeAttemptStore(quizzes)
	attempts.usernames[1] = "alice"

	quizID := uuid.New()
	otherQuiz := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedAttempt(attempts, quizID, 1, 50, base)
	seedAttempt(attempts, otherQuiz, 1, 100, base)

	svc := service.NewLeaderboardService(attempts, zerolog.Nop())
	entries, err := svc.ComputeLeaderboard(ctx, quizID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 1 || entries[0].HighestScore != 50 {
		t.Fatalf("attempts from other quizzes leaked in: %+v", entries)
	}
}
