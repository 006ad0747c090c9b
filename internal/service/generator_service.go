package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/quizdeck/quizdeck-backend/internal/model"
	"github.com/rs/zerolog"
)

// Generator errors.
var (
	ErrGeneratorDisabled = errors.New("quiz generation is not configured")
	ErrGeneratorFailed   = errors.New("failed to generate quiz")
)

// jsonFence extracts a fenced ```json block from a model response.
var jsonFence = regexp.MustCompile("```json\\n([\\s\\S]*?)\\n```")

// GeneratorService authors quizzes by prompting an external
// text-generation endpoint and persisting the returned draft through the
// normal quiz creation path (same validation, same question identities).
type GeneratorService struct {
	endpoint string
	client   *http.Client
	quizzes  *QuizService
	log      zerolog.Logger
}

// NewGeneratorService creates a new GeneratorService. An empty endpoint
// disables generation.
func NewGeneratorService(endpoint string, quizzes *QuizService, log zerolog.Logger) *GeneratorService {
	return &GeneratorService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		quizzes:  quizzes,
		log:      log.With().Str("component", "generator_service").Logger(),
	}
}

// generatedQuiz is the JSON shape the endpoint is prompted to return.
type generatedQuiz struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit_minutes"`
	Questions   []struct {
		QuestionText       string   `json:"question_text"`
		Options            []string `json:"options"`
		CorrectOptionIndex int      `json:"correct_option_index"`
		Explanation        string   `json:"explanation"`
		Marks              float64  `json:"marks"`
	} `json:"questions"`
}

// Wire format of the generation endpoint.
type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Generate prompts the endpoint, parses the returned quiz draft, and
// persists it as a quiz owned by the caller.
func (s *GeneratorService) Generate(ctx context.Context, ownerID int, req *model.GenerateQuizRequest) (*model.Quiz, error) {
	if s.endpoint == "" {
		return nil, ErrGeneratorDisabled
	}

	prompt := buildPrompt(req)
	text, err := s.complete(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("generation request failed")
		return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
	}

	draft, err := parseGeneratedQuiz(text)
	if err != nil {
		s.log.Error().Err(err).Msg("generated payload unparseable")
		return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
	}

	create := &model.CreateQuizRequest{
		Title:            draft.Title,
		Description:      draft.Description,
		TimeLimitMinutes: draft.TimeLimit,
	}
	if create.TimeLimitMinutes < 1 {
		create.TimeLimitMinutes = req.NumQuestions // 1 minute per question fallback
	}
	for _, q := range draft.Questions {
		create.Questions = append(create.Questions, model.QuestionInput{
			QuestionText:       q.QuestionText,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
			Explanation:        q.Explanation,
			Marks:              q.Marks,
		})
	}

	quiz, err := s.quizzes.Create(ctx, ownerID, create)
	if err != nil {
		if errors.Is(err, ErrQuizInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
		}
		return nil, err
	}
	return quiz, nil
}

func buildPrompt(req *model.GenerateQuizRequest) string {
	return fmt.Sprintf(`Create a JSON quiz with the following details and a time limit in minutes:
Title: %q
Description: %q
Difficulty: %q
Number of Questions: %d
Return JSON only. Strict format:
{
  "title": "Sample Title",
  "description": "Sample Description",
  "time_limit_minutes": 30,
  "questions": [
    {
      "question_text": "What is 2 + 2?",
      "options": ["1", "2", "3", "4"],
      "correct_option_index": 3,
      "explanation": "2 + 2 equals 4.",
      "marks": 1
    }
  ]
}`, req.Title, req.Description, req.Difficulty, req.NumQuestions)
}

// complete posts the prompt and returns the first candidate's text.
func (s *GeneratorService) complete(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, raw)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty completion")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// parseGeneratedQuiz tolerates a fenced ```json block around the payload.
func parseGeneratedQuiz(text string) (*generatedQuiz, error) {
	cleaned := strings.TrimSpace(text)
	if m := jsonFence.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}

	var draft generatedQuiz
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("parse quiz JSON: %w", err)
	}
	if draft.Title == "" || len(draft.Questions) == 0 {
		return nil, errors.New("generated quiz is missing a title or questions")
	}
	return &draft, nil
}
