package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is one scored answer inside an attempt. IsCorrect is
// computed at submission time and never re-derived, so a later edit of
// the quiz's answer key does not rewrite history.
type AnswerRecord struct {
	QuestionID          uuid.UUID `json:"question_id"`
	SelectedOptionIndex int       `json:"selected_option_index"`
	IsCorrect           bool      `json:"is_correct"`
}

// Attempt is one user's submission of answers to a quiz. Attempts are
// write-once: created by the scoring engine and never mutated.
type Attempt struct {
	ID          uuid.UUID      `json:"id"`
	QuizID      uuid.UUID      `json:"quiz_id"`
	UserID      int            `json:"user_id"`
	Answers     []AnswerRecord `json:"answers"`
	Score       float64        `json:"score"`
	CompletedAt time.Time      `json:"completed_at"`
}

// AttemptWithUser joins an attempt with its user's display name, as
// needed by the leaderboard aggregation.
type AttemptWithUser struct {
	Attempt
	Username string `json:"username"`
}

// SubmittedAnswer is one answer in a submission payload. The selected
// index is not bounds-checked: an out-of-range index can never match the
// correct index and simply scores as incorrect.
type SubmittedAnswer struct {
	QuestionID          uuid.UUID `json:"question_id" binding:"required"`
	SelectedOptionIndex int       `json:"selected_option_index"`
}

// SubmitAttemptRequest is the payload for submitting a quiz attempt.
// Answers may cover a strict subset of the quiz's questions.
type SubmitAttemptRequest struct {
	Answers []SubmittedAnswer `json:"answers" binding:"required,dive"`
}

// AttemptSummary is the result of a scored submission.
type AttemptSummary struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
}

// AttemptHistoryItem is one row of a user's attempt history.
type AttemptHistoryItem struct {
	AttemptID       uuid.UUID `json:"attempt_id"`
	QuizID          uuid.UUID `json:"quiz_id"`
	QuizTitle       string    `json:"quiz_title"`
	QuizDescription string    `json:"quiz_description,omitempty"`
	Score           float64   `json:"score"`
	CompletedAt     time.Time `json:"completed_at"`
}

// QuestionResult is the per-question review produced by the results
// assembler. UserSelectedOptionIndex is nil when the question was left
// unanswered, in which case IsCorrect is false.
type QuestionResult struct {
	QuestionID              uuid.UUID `json:"question_id"`
	QuestionText            string    `json:"question_text"`
	Options                 []string  `json:"options"`
	CorrectOptionIndex      int       `json:"correct_option_index"`
	Explanation             string    `json:"explanation,omitempty"`
	QuestionImages          []string  `json:"question_images,omitempty"`
	ExplanationImages       []string  `json:"explanation_images,omitempty"`
	UserSelectedOptionIndex *int      `json:"user_selected_option_index"`
	IsCorrect               bool      `json:"is_correct"`
}

// AttemptReview is the full detailed-results view for one attempt.
// Results follow the quiz's question order, not submission order.
type AttemptReview struct {
	QuizTitle      string           `json:"quiz_title"`
	Score          float64          `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Results        []QuestionResult `json:"results"`
	AttemptedAt    time.Time        `json:"attempted_at"`
}
