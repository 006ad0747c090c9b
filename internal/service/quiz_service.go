package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/config"
	"github.com/quizdeck/quizdeck-backend/internal/model"
	"github.com/quizdeck/quizdeck-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors for quiz authoring.
var (
	ErrNotQuizOwner = errors.New("not the owner of this quiz")
	ErrQuizInvalid  = errors.New("invalid quiz content")
	ErrNoQuizzes    = errors.New("no quizzes found")
)

// quizPayloadTTL bounds staleness of the cached attempt payload; writes
// also invalidate eagerly.
const quizPayloadTTL = 10 * time.Minute

// QuizStore is the persistence contract the quiz service depends on.
type QuizStore interface {
	QuizReader
	Create(ctx context.Context, q *model.Quiz) error
	Update(ctx context.Context, q *model.Quiz) error
	Delete(ctx context.Context, id uuid.UUID, ownerID int) error
	ListByOwner(ctx context.Context, ownerID int) ([]model.Quiz, error)
	OwnerUsername(ctx context.Context, quizID uuid.UUID) (string, error)
}

// QuizService handles quiz authoring, ownership, and the sanitized
// attempt payload cache.
type QuizService struct {
	quizzes QuizStore
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes QuizStore, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes: quizzes,
		rdb:     rdb,
		log:     log.With().Str("component", "quiz_service").Logger(),
	}
}

// buildQuestions turns authoring inputs into embedded questions, checking
// the invariants every stored question must satisfy: a non-empty option
// list, a correct index within bounds, and marks >= 1 (defaulted to 1).
// Existing question IDs are preserved so stored attempt answers keep
// resolving across edits; new questions get fresh IDs.
func buildQuestions(inputs []model.QuestionInput) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(inputs))
	for i, in := range inputs {
		if len(in.Options) == 0 {
			return nil, fmt.Errorf("%w: question %d has no options", ErrQuizInvalid, i+1)
		}
		if in.CorrectOptionIndex < 0 || in.CorrectOptionIndex >= len(in.Options) {
			return nil, fmt.Errorf("%w: question %d correct option index %d out of range",
				ErrQuizInvalid, i+1, in.CorrectOptionIndex)
		}
		marks := in.Marks
		if marks <= 0 {
			marks = 1
		}
		id := uuid.New()
		if in.ID != nil && *in.ID != uuid.Nil {
			id = *in.ID
		}
		questions = append(questions, model.Question{
			ID:                 id,
			QuestionText:       in.QuestionText,
			Options:            in.Options,
			CorrectOptionIndex: in.CorrectOptionIndex,
			Marks:              marks,
			Explanation:        in.Explanation,
			QuestionImages:     in.QuestionImages,
			ExplanationImages:  in.ExplanationImages,
		})
	}
	return questions, nil
}

// Create validates and persists a new quiz owned by ownerID.
func (s *QuizService) Create(ctx context.Context, ownerID int, req *model.CreateQuizRequest) (*model.Quiz, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Questions:        questions,
		OwnerID:          ownerID,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("owner_id", ownerID).
		Int("questions", len(questions)).
		Msg("quiz created")

	return quiz, nil
}

// ListOwn returns the quizzes created by the given user, newest first.
func (s *QuizService) ListOwn(ctx context.Context, ownerID int) ([]model.Quiz, error) {
	quizzes, err := s.quizzes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, ErrNoQuizzes
	}
	return quizzes, nil
}

// GetForAttempt returns the sanitized quiz payload for an attempting
// user: the answer key, explanations, and explanation images are
// stripped. The payload is cached in Redis; cache failures fall through
// to PostgreSQL.
func (s *QuizService) GetForAttempt(ctx context.Context, quizID uuid.UUID) (*model.QuizForAttempt, error) {
	key := config.CacheKey.QuizPayloadKey(quizID.String())

	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var payload model.QuizForAttempt
		if err := json.Unmarshal([]byte(cached), &payload); err == nil {
			return &payload, nil
		}
		// Corrupt cache entry: drop it and rebuild below.
		_ = s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("quiz payload cache read failed")
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	owner, err := s.quizzes.OwnerUsername(ctx, quizID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get owner: %w", err)
	}

	payload := sanitize(quiz, owner)

	if raw, err := json.Marshal(payload); err == nil {
		if err := s.rdb.Set(ctx, key, raw, quizPayloadTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("quiz payload cache write failed")
		}
	}

	return payload, nil
}

// GetForEdit returns the full quiz document, restricted to its owner.
func (s *QuizService) GetForEdit(ctx context.Context, quizID uuid.UUID, userID int) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.OwnerID != userID {
		return nil, ErrNotQuizOwner
	}
	return quiz, nil
}

// Update replaces a quiz's content, restricted to its owner, and
// invalidates the cached attempt payload. Stored attempts are not
// rescored: their answers and scores were snapshotted at submission.
func (s *QuizService) Update(ctx context.Context, quizID uuid.UUID, userID int, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		ID:               quizID,
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Questions:        questions,
		OwnerID:          userID,
	}
	if err := s.quizzes.Update(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("update quiz: %w", err)
	}

	s.invalidatePayload(ctx, quizID)
	return quiz, nil
}

// Delete removes a quiz (owner only). Its attempts cascade away with it,
// and the cached payload is invalidated.
func (s *QuizService) Delete(ctx context.Context, quizID uuid.UUID, userID int) error {
	if err := s.quizzes.Delete(ctx, quizID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.invalidatePayload(ctx, quizID)
	return nil
}

func (s *QuizService) invalidatePayload(ctx context.Context, quizID uuid.UUID) {
	key := config.CacheKey.QuizPayloadKey(quizID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("payload cache invalidation failed")
	}
}

func sanitize(quiz *model.Quiz, ownerUsername string) *model.QuizForAttempt {
	questions := make([]model.QuestionForAttempt, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, model.QuestionForAttempt{
			ID:             q.ID,
			QuestionText:   q.QuestionText,
			Options:        q.Options,
			Marks:          q.Marks,
			QuestionImages: q.QuestionImages,
		})
	}
	return &model.QuizForAttempt{
		ID:               quiz.ID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		OwnerUsername:    ownerUsername,
		Questions:        questions,
	}
}
