package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdeck/quizdeck-backend/internal/model"
)

// AttemptRepository handles attempt data access. Attempts are write-once:
// there is no update path, only Create and reads.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new attempt as a single atomic record and fills in its
// assigned ID and completion timestamp.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (quiz_id, user_id, answers, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, completed_at`,
		a.QuizID, a.UserID, answers, a.Score,
	).Scan(&a.ID, &a.CompletedAt)
}

// GetByIDAndUser retrieves an attempt owned by the given user. A missing
// attempt and an attempt owned by someone else both return ErrNotFound so
// existence is not leaked.
func (r *AttemptRepository) GetByIDAndUser(ctx context.Context, id uuid.UUID, userID int) (*model.Attempt, error) {
	a := &model.Attempt{}
	var answers []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, user_id, answers, score, completed_at
		 FROM attempts
		 WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&a.ID, &a.QuizID, &a.UserID, &answers, &a.Score, &a.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(answers, &a.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return a, nil
}

// ListByQuizWithUser retrieves every attempt for a quiz joined with the
// attempting user's username, for leaderboard aggregation.
func (r *AttemptRepository) ListByQuizWithUser(ctx context.Context, quizID uuid.UUID) ([]model.AttemptWithUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.quiz_id, a.user_id, a.answers, a.score, a.completed_at, u.username
		 FROM attempts a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.quiz_id = $1`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.AttemptWithUser
	for rows.Next() {
		var a model.AttemptWithUser
		var answers []byte
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &answers, &a.Score, &a.CompletedAt, &a.Username); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ListByUserWithQuiz retrieves a user's attempt history joined with quiz
// titles, newest first.
func (r *AttemptRepository) ListByUserWithQuiz(ctx context.Context, userID int) ([]model.AttemptHistoryItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.quiz_id, q.title, q.description, a.score, a.completed_at
		 FROM attempts a
		 JOIN quizzes q ON a.quiz_id = q.id
		 WHERE a.user_id = $1
		 ORDER BY a.completed_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.AttemptHistoryItem
	for rows.Next() {
		var it model.AttemptHistoryItem
		if err := rows.Scan(&it.AttemptID, &it.QuizID, &it.QuizTitle, &it.QuizDescription, &it.Score, &it.CompletedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
