package model

import (
	"time"

	"github.com/google/uuid"
)

// Question is a single multiple-choice question embedded in a quiz.
// Its ID is assigned once at creation and stays stable across quiz edits
// so that stored attempt answers keep resolving.
type Question struct {
	ID                 uuid.UUID `json:"id"`
	QuestionText       string    `json:"question_text"`
	Options            []string  `json:"options"`
	CorrectOptionIndex int       `json:"correct_option_index"`
	Marks              float64   `json:"marks"`
	Explanation        string    `json:"explanation,omitempty"`
	QuestionImages     []string  `json:"question_images,omitempty"`
	ExplanationImages  []string  `json:"explanation_images,omitempty"`
}

// Quiz is the aggregate root for an authored quiz. Questions are embedded
// as a document, not normalized into their own table.
type Quiz struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	Questions        []Question `json:"questions"`
	OwnerID          int        `json:"owner_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// QuestionInput is the authoring payload for a single question. ID is set
// when editing an existing question and empty for new ones.
type QuestionInput struct {
	ID                 *uuid.UUID `json:"id" binding:"omitempty"`
	QuestionText       string     `json:"question_text" binding:"required,min=1,max=2000"`
	Options            []string   `json:"options" binding:"required,min=2,dive,required"`
	CorrectOptionIndex int        `json:"correct_option_index" binding:"min=0"`
	Marks              float64    `json:"marks" binding:"omitempty,gt=0"`
	Explanation        string     `json:"explanation" binding:"omitempty,max=5000"`
	QuestionImages     []string   `json:"question_images" binding:"omitempty"`
	ExplanationImages  []string   `json:"explanation_images" binding:"omitempty"`
}

// CreateQuizRequest is the payload for creating a quiz.
type CreateQuizRequest struct {
	Title            string          `json:"title" binding:"required,min=1,max=255"`
	Description      string          `json:"description" binding:"omitempty,max=2000"`
	TimeLimitMinutes int             `json:"time_limit_minutes" binding:"required,min=1,max=480"`
	Questions        []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// UpdateQuizRequest is the payload for replacing a quiz's content.
type UpdateQuizRequest struct {
	Title            string          `json:"title" binding:"required,min=1,max=255"`
	Description      string          `json:"description" binding:"omitempty,max=2000"`
	TimeLimitMinutes int             `json:"time_limit_minutes" binding:"required,min=1,max=480"`
	Questions        []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// GenerateQuizRequest asks the generator service to author a quiz.
type GenerateQuizRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=255"`
	Description  string `json:"description" binding:"required,max=2000"`
	Difficulty   string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	NumQuestions int    `json:"num_questions" binding:"required,min=1,max=50"`
}

// QuestionForAttempt is a question with the answer key and explanation
// stripped, safe to serve to an attempting user.
type QuestionForAttempt struct {
	ID             uuid.UUID `json:"id"`
	QuestionText   string    `json:"question_text"`
	Options        []string  `json:"options"`
	Marks          float64   `json:"marks"`
	QuestionImages []string  `json:"question_images,omitempty"`
}

// QuizForAttempt is the sanitized quiz payload served to attempters.
type QuizForAttempt struct {
	ID               uuid.UUID            `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description,omitempty"`
	TimeLimitMinutes int                  `json:"time_limit_minutes"`
	OwnerUsername    string               `json:"owner_username"`
	Questions        []QuestionForAttempt `json:"questions"`
}
