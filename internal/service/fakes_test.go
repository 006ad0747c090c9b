package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/model"
	"github.com/quizdeck/quizdeck-backend/internal/repository"
)

// fakeQuizStore is an in-memory QuizStore for service tests.
type fakeQuizStore struct {
	quizzes map[uuid.UUID]*model.Quiz
	owners  map[uuid.UUID]string
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{
		quizzes: make(map[uuid.UUID]*model.Quiz),
		owners:  make(map[uuid.UUID]string),
	}
}

func (f *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuizStore) Create(_ context.Context, q *model.Quiz) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizStore) Update(_ context.Context, q *model.Quiz) error {
	existing, ok := f.quizzes[q.ID]
	if !ok || existing.OwnerID != q.OwnerID {
		return repository.ErrNotFound
	}
	q.CreatedAt = existing.CreatedAt
	q.UpdatedAt = time.Now()
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizStore) Delete(_ context.Context, id uuid.UUID, ownerID int) error {
	existing, ok := f.quizzes[id]
	if !ok || existing.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.quizzes, id)
	return nil
}

func (f *fakeQuizStore) ListByOwner(_ context.Context, ownerID int) ([]model.Quiz, error) {
	var out []model.Quiz
	for _, q := range f.quizzes {
		if q.OwnerID == ownerID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuizStore) OwnerUsername(_ context.Context, quizID uuid.UUID) (string, error) {
	name, ok := f.owners[quizID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return name, nil
}

// fakeAttemptStore is an in-memory AttemptStore for service tests.
type fakeAttemptStore struct {
	attempts  []*model.Attempt
	usernames map[int]string
	quizzes   *fakeQuizStore
}

func newFakeAttemptStore(quizzes *fakeQuizStore) *fakeAttemptStore {
	return &fakeAttemptStore{
		usernames: make(map[int]string),
		quizzes:   quizzes,
	}
}

func (f *fakeAttemptStore) Create(_ context.Context, a *model.Attempt) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now()
	}
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeAttemptStore) GetByIDAndUser(_ context.Context, id uuid.UUID, userID int) (*model.Attempt, error) {
	for _, a := range f.attempts {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAttemptStore) ListByQuizWithUser(_ context.Context, quizID uuid.UUID) ([]model.AttemptWithUser, error) {
	var out []model.AttemptWithUser
	for _, a := range f.attempts {
		if a.QuizID == quizID {
			out = append(out, model.AttemptWithUser{
				Attempt:  *a,
				Username: f.usernames[a.UserID],
			})
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) ListByUserWithQuiz(_ context.Context, userID int) ([]model.AttemptHistoryItem, error) {
	var out []model.AttemptHistoryItem
	for _, a := range f.attempts {
		if a.UserID != userID {
			continue
		}
		item := model.AttemptHistoryItem{
			AttemptID:   a.ID,
			QuizID:      a.QuizID,
			Score:       a.Score,
			CompletedAt: a.CompletedAt,
		}
		if q, ok := f.quizzes.quizzes[a.QuizID]; ok {
			item.QuizTitle = q.Title
			item.QuizDescription = q.Description
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}
