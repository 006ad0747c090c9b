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

// QuizRepository handles quiz data access. Questions are stored embedded
// in the quiz row as a JSONB document, mirroring the aggregate boundary:
// a question never exists outside its quiz.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// Create inserts a new quiz and fills in its assigned ID and timestamps.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, time_limit_minutes, questions, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.Title, q.Description, q.TimeLimitMinutes, questions, q.OwnerID,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID retrieves a quiz by its UUID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	var questions []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, time_limit_minutes, questions, owner_id, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.TimeLimitMinutes, &questions, &q.OwnerID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return q, nil
}

// OwnerUsername returns the display name of a quiz's owner.
func (r *QuizRepository) OwnerUsername(ctx context.Context, quizID uuid.UUID) (string, error) {
	var username string
	err := r.pool.QueryRow(ctx,
		`SELECT u.username FROM quizzes q JOIN users u ON q.owner_id = u.id WHERE q.id = $1`,
		quizID,
	).Scan(&username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return username, nil
}

// ListByOwner retrieves all quizzes created by a user, newest first.
func (r *QuizRepository) ListByOwner(ctx context.Context, ownerID int) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, time_limit_minutes, questions, owner_id, created_at, updated_at
		 FROM quizzes
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		var questions []byte
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.TimeLimitMinutes, &questions, &q.OwnerID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &q.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// Update replaces a quiz's content, restricted to its owner. Returns
// ErrNotFound when the quiz does not exist or the caller does not own it;
// the two cases are deliberately indistinguishable.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	err = r.pool.QueryRow(ctx,
		`UPDATE quizzes
		 SET title = $1, description = $2, time_limit_minutes = $3, questions = $4, updated_at = NOW()
		 WHERE id = $5 AND owner_id = $6
		 RETURNING updated_at`,
		q.Title, q.Description, q.TimeLimitMinutes, questions, q.ID, q.OwnerID,
	).Scan(&q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes a quiz, restricted to its owner. Attempts cascade away
// with it (FK ON DELETE CASCADE).
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID, ownerID int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM quizzes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
