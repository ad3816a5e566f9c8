package exam

import (
	"encoding/json"
	"fmt"
	"strings"

	"study-rag/internal/models"
)

// parseSection turns the model's JSON response into a typed section,
// enforcing the requested question count. Anything unparseable or
// short-counted is a generation failure, never a partial result.
func parseSection(qt models.QuestionType, raw string, count int) (*models.ExamSection, error) {
	payload := stripFences(raw)
	section := &models.ExamSection{Type: qt}

	switch qt {
	case models.MultipleChoice:
		section.Title = "Multiple Choice Questions"
		section.Instructions = "Choose the best answer for each question."
		var questions []models.MultipleChoiceQuestion
		if err := json.Unmarshal([]byte(payload), &questions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		for i, q := range questions {
			if err := validateMultipleChoice(q); err != nil {
				return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedOutput, i+1, err)
			}
		}
		section.MultipleChoice = questions

	case models.TrueFalse:
		section.Title = "True/False Questions"
		section.Instructions = "Mark each statement as true or false."
		var questions []models.TrueFalseQuestion
		if err := json.Unmarshal([]byte(payload), &questions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		for i, q := range questions {
			if strings.TrimSpace(q.Statement) == "" {
				return nil, fmt.Errorf("%w: question %d: empty statement", ErrMalformedOutput, i+1)
			}
		}
		section.TrueFalse = questions

	case models.ShortAnswer:
		section.Title = "Short Answer Questions"
		section.Instructions = "Provide concise answers in 2-3 sentences."
		var questions []models.ShortAnswerQuestion
		if err := json.Unmarshal([]byte(payload), &questions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		for i, q := range questions {
			if strings.TrimSpace(q.Question) == "" {
				return nil, fmt.Errorf("%w: question %d: empty question", ErrMalformedOutput, i+1)
			}
		}
		section.ShortAnswer = questions

	case models.Essay:
		section.Title = "Essay Questions"
		section.Instructions = "Provide detailed, well-structured answers."
		var questions []models.EssayQuestion
		if err := json.Unmarshal([]byte(payload), &questions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		for i, q := range questions {
			if strings.TrimSpace(q.Question) == "" {
				return nil, fmt.Errorf("%w: question %d: empty question", ErrMalformedOutput, i+1)
			}
		}
		section.Essay = questions

	default:
		return nil, fmt.Errorf("unknown question type %q", qt)
	}

	if got := section.Questions(); got != count {
		return nil, fmt.Errorf("%w: requested %d questions, parsed %d", ErrMalformedOutput, count, got)
	}
	return section, nil
}

func validateMultipleChoice(q models.MultipleChoiceQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question")
	}
	if len(q.Choices) != 4 {
		return fmt.Errorf("expected 4 choices, got %d", len(q.Choices))
	}
	if _, ok := q.Choices[q.CorrectAnswer]; !ok {
		return fmt.Errorf("correct answer %q not among choices", q.CorrectAnswer)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence, which models
// add despite instructions to respond with bare JSON.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
