package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/metrics"
	"github.com/quizdeck/quizdeck-backend/internal/model"
	"github.com/quizdeck/quizdeck-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Domain errors for attempt submission and review.
var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrUnknownQuestion = errors.New("answer references a question not in this quiz")
	ErrAttemptNotFound = errors.New("attempt not found")
)

// AttemptService scores submissions against a quiz's answer key and
// assembles per-question reviews of stored attempts.
type AttemptService struct {
	quizzes  QuizReader
	attempts AttemptStore
	log      zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(quizzes QuizReader, attempts AttemptStore, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		quizzes:  quizzes,
		attempts: attempts,
		log:      log.With().Str("component", "attempt_service").Logger(),
	}
}

// SubmitAttempt validates submitted answers against the quiz's answer key,
// computes the score, and persists exactly one immutable attempt record.
//
// Answers may cover a strict subset of the quiz's questions; unanswered
// questions contribute zero and are not recorded. An out-of-range selected
// index scores as incorrect rather than being rejected. An answer whose
// question ID does not belong to the quiz rejects the whole submission and
// nothing is stored.
//
// Each call creates a new attempt, even for identical input: retakes are
// expected. The quiz's time limit is not enforced here; no per-user start
// time exists server-side, so the limit remains a client concern.
func (s *AttemptService) SubmitAttempt(ctx context.Context, quizID uuid.UUID, userID int, submitted []model.SubmittedAnswer) (*model.AttemptSummary, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AttemptsSubmitted.WithLabelValues("not_found").Inc()
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	byID := make(map[uuid.UUID]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		byID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	var score float64
	correct := 0
	answers := make([]model.AnswerRecord, 0, len(submitted))
	for _, ans := range submitted {
		question, ok := byID[ans.QuestionID]
		if !ok {
			// Reject wholesale: no partial attempt is ever stored.
			metrics.AttemptsSubmitted.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, ans.QuestionID)
		}
		isCorrect := ans.SelectedOptionIndex == question.CorrectOptionIndex
		if isCorrect {
			score += question.Marks
			correct++
		}
		answers = append(answers, model.AnswerRecord{
			QuestionID:          ans.QuestionID,
			SelectedOptionIndex: ans.SelectedOptionIndex,
			IsCorrect:           isCorrect,
		})
	}

	attempt := &model.Attempt{
		QuizID:  quizID,
		UserID:  userID,
		Answers: answers,
		Score:   score,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	metrics.AttemptsSubmitted.WithLabelValues("accepted").Inc()
	s.log.Debug().
		Str("quiz_id", quizID.String()).
		Int("user_id", userID).
		Float64("score", score).
		Int("answered", len(answers)).
		Msg("attempt scored")

	return &model.AttemptSummary{
		AttemptID:      attempt.ID,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
	}, nil
}

// GetDetailedResults joins a stored attempt with its quiz to produce a
// per-question review in quiz order. Scores and correctness flags are
// returned verbatim from the stored attempt, never recomputed, so a
// later edit of the quiz's answer key does not rewrite past results.
//
// An attempt that does not exist and an attempt owned by another user
// both surface as ErrAttemptNotFound, hiding existence from non-owners.
func (s *AttemptService) GetDetailedResults(ctx context.Context, attemptID uuid.UUID, userID int) (*model.AttemptReview, error) {
	attempt, err := s.attempts.GetByIDAndUser(ctx, attemptID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	// The quiz can be gone if it was deleted after the attempt; surface
	// that as not-found rather than failing deeper.
	quiz, err := s.quizzes.GetByID(ctx, attempt.QuizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	answered := make(map[uuid.UUID]model.AnswerRecord, len(attempt.Answers))
	for _, a := range attempt.Answers {
		answered[a.QuestionID] = a
	}

	// Output order follows the quiz's question order, not the order in
	// which answers were submitted.
	results := make([]model.QuestionResult, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		res := model.QuestionResult{
			QuestionID:         q.ID,
			QuestionText:       q.QuestionText,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
			Explanation:        q.Explanation,
			QuestionImages:     q.QuestionImages,
			ExplanationImages:  q.ExplanationImages,
		}
		if a, ok := answered[q.ID]; ok {
			selected := a.SelectedOptionIndex
			res.UserSelectedOptionIndex = &selected
			res.IsCorrect = a.IsCorrect
		}
		results = append(results, res)
	}

	return &model.AttemptReview{
		QuizTitle:      quiz.Title,
		Score:          attempt.Score,
		TotalQuestions: len(quiz.Questions),
		Results:        results,
		AttemptedAt:    attempt.CompletedAt,
	}, nil
}

// ListHistory returns the user's attempts across all quizzes, newest first.
func (s *AttemptService) ListHistory(ctx context.Context, userID int) ([]model.AttemptHistoryItem, error) {
	items, err := s.attempts.ListByUserWithQuiz(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if items == nil {
		items = []model.AttemptHistoryItem{}
	}
	return items, nil
}
