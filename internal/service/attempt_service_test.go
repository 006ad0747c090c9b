package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/model"
	"github.com/quizdeck/quizdeck-backend/internal/service"
	"github.com/rs/zerolog"
)

func newScoringFixture() (*service.AttemptService, *fakeQuizStore, *fakeAttemptStore, *model.Quiz) {
	quizzes := newFakeQuizStore()
	attempts := newFakeAttemptStore(quizzes)

	quiz := &model.Quiz{
		ID:      uuid.New(),
		Title:   "Go Basics",
		OwnerID: 1,
		Questions: []model.Question{
			{
				ID:                 uuid.New(),
				QuestionText:       "What does the go keyword do?",
				Options:            []string{"Imports a package", "Starts a goroutine", "Declares a variable"},
				CorrectOptionIndex: 1,
				Marks:              2,
			},
			{
				ID:                 uuid.New(),
				QuestionText:       "Which type is a slice's backing storage?",
				Options:            []string{"array", "map", "channel"},
				CorrectOptionIndex: 0,
				Marks:              1,
			},
		},
	}
	quizzes.quizzes[quiz.ID] = quiz

	svc := service.NewAttemptService(quizzes, attempts, zerolog.Nop())
	return svc, quizzes, attempts, quiz
}

func TestSubmitAttemptScoresAgainstAnswerKey(t *testing.T) {
	ctx := context.Background()
	svc, _, attempts, quiz := newScoringFixture()

	summary, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 1}, // correct, 2 marks
		{QuestionID: quiz.Questions[1].ID, SelectedOptionIndex: 2}, // incorrect
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if summary.Score != 2 {
		t.Fatalf("expected score 2, got %v", summary.Score)
	}
	if summary.CorrectAnswers != 1 {
		t.Fatalf("expected 1 correct answer, got %d", summary.CorrectAnswers)
	}
	if summary.TotalQuestions != 2 {
		t.Fatalf("expected 2 total questions, got %d", summary.TotalQuestions)
	}

	if len(attempts.attempts) != 1 {
		t.Fatalf("expected 1 stored attempt, got %d", len(attempts.attempts))
	}
	stored := attempts.attempts[0]
	if !stored.Answers[0].IsCorrect || stored.Answers[1].IsCorrect {
		t.Fatalf("stored correctness flags wrong: %+v", stored.Answers)
	}
}

func TestSubmitAttemptUnknownQuestionRejectsWholeSubmission(t *testing.T) {
	ctx := context.Background()
	svc, _, attempts, quiz := newScoringFixture()

	_, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 1},
		{QuestionID: uuid.New(), SelectedOptionIndex: 0},
	})
	if !errors.Is(err, service.ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if len(attempts.attempts) != 0 {
		t.Fatalf("expected no attempt to be stored, got %d", len(attempts.attempts))
	}
}

func TestSubmitAttemptSubsetOfQuestions(t *testing.T) {
	ctx := context.Background()
	svc, _, attempts, quiz := newScoringFixture()

	summary, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[1].ID, SelectedOptionIndex: 0},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if summary.Score != 1 {
		t.Fatalf("expected score 1, got %v", summary.Score)
	}
	if got := len(attempts.attempts[0].Answers); got != 1 {
		t.Fatalf("expected 1 recorded answer, got %d", got)
	}
}

func TestSubmitAttemptOutOfRangeIndexScoresIncorrect(t *testing.T) {
	ctx := context.Background()
	svc, _, _, quiz := newScoringFixture()

	summary, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 99},
	})
	if err != nil {
		t.Fatalf("expected out-of-range index to score incorrect, got error: %v", err)
	}
	if summary.Score != 0 || summary.CorrectAnswers != 0 {
		t.Fatalf("expected zero score, got %+v", summary)
	}
}

func TestSubmitAttemptQuizNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newScoringFixture()

	_, err := svc.SubmitAttempt(ctx, uuid.New(), 7, nil)
	if !errors.Is(err, service.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestSubmitAttemptRetakesCreateNewAttempts(t *testing.T) {
	ctx := context.Background()
	svc, _, attempts, quiz := newScoringFixture()

	answers := []model.SubmittedAnswer{{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 1}}
	first, err := svc.SubmitAttempt(ctx, quiz.ID, 7, answers)
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	second, err := svc.SubmitAttempt(ctx, quiz.ID, 7, answers)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if first.AttemptID == second.AttemptID {
		t.Fatalf("expected distinct attempt IDs for retakes")
	}
	if len(attempts.attempts) != 2 {
		t.Fatalf("expected 2 stored attempts, got %d", len(attempts.attempts))
	}
}

func TestDetailedResultsFollowQuizOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _, quiz := newScoringFixture()

	// Submit answers in reverse quiz order, leaving nothing unanswered.
	summary, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[1].ID, SelectedOptionIndex: 0},
		{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 1},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	review, err := svc.GetDetailedResults(ctx, summary.AttemptID, 7)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if review.QuizTitle != "Go Basics" {
		t.Fatalf("unexpected quiz title %q", review.QuizTitle)
	}
	for i, q := range quiz.Questions {
		if review.Results[i].QuestionID != q.ID {
			t.Fatalf("result %d out of quiz order", i)
		}
	}
	if review.Results[0].UserSelectedOptionIndex == nil || *review.Results[0].UserSelectedOptionIndex != 1 {
		t.Fatalf("expected selected index 1 for first question, got %+v", review.Results[0])
	}
}

func TestDetailedResultsUnansweredQuestionIsNil(t *testing.T) {
	ctx := context.Background()
	svc, _, _, quiz := newScoringFixture()

	summary, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 1},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	review, err := svc.GetDetailedResults(ctx, summary.AttemptID, 7)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if len(review.Results) != 2 {
		t.Fatalf("expected review to cover all quiz questions, got %d", len(review.Results))
	}
	unanswered := review.Results[1]
	if unanswered.UserSelectedOptionIndex != nil {
		t.Fatalf("expected nil selection for unanswered question")
	}
	if unanswered.IsCorrect {
		t.Fatalf("unanswered question must not count as correct")
	}
}

func TestDetailedResultsSurviveAnswerKeyEdit(t *testing.T) {
	ctx := context.Background()
	svc, quizzes, _, quiz := newScoringFixture()

	summary, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 1},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// Flip the answer key after the fact. The stored attempt must keep
	// its original score and correctness flags.
	quizzes.quizzes[quiz.ID].Questions[0].CorrectOptionIndex = 0

	review, err := svc.GetDetailedResults(ctx, summary.AttemptID, 7)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if review.Score != 2 {
		t.Fatalf("expected stored score 2 after key edit, got %v", review.Score)
	}
	if !review.Results[0].IsCorrect {
		t.Fatalf("stored correctness flag must not be recomputed")
	}
}

func TestDetailedResultsHideOtherUsersAttempts(t *testing.T) {
	ctx := context.Background()
	svc, _, _, quiz := newScoringFixture()

	summary, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: 1},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = svc.GetDetailedResults(ctx, summary.AttemptID, 8)
	if !errors.Is(err, service.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound for non-owner, got %v", err)
	}
}

func TestListHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _, _, quiz := newScoringFixture()

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitAttempt(ctx, quiz.ID, 7, []model.SubmittedAnswer{
			{QuestionID: quiz.Questions[0].ID, SelectedOptionIndex: i},
		}); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}

	items, err := svc.ListHistory(ctx, 7)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 history items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CompletedAt.After(items[i-1].CompletedAt) {
			t.Fatalf("history not sorted newest first")
		}
	}
	if items[0].QuizTitle != "Go Basics" {
		t.Fatalf("expected quiz title on history item, got %q", items[0].QuizTitle)
	}
}
