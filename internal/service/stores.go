package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/model"
)

// The scoring and leaderboard services depend on these narrow store
// contracts rather than on the pgx repositories directly. The repository
// types satisfy them; tests substitute in-memory fakes.

// QuizReader resolves quiz documents by ID.
type QuizReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}

// AttemptStore persists and reads attempt records. Attempts are
// write-once; there is no update method.
type AttemptStore interface {
	Create(ctx context.Context, a *model.Attempt) error
	GetByIDAndUser(ctx context.Context, id uuid.UUID, userID int) (*model.Attempt, error)
	ListByQuizWithUser(ctx context.Context, quizID uuid.UUID) ([]model.AttemptWithUser, error)
	ListByUserWithQuiz(ctx context.Context, userID int) ([]model.AttemptHistoryItem, error)
}
