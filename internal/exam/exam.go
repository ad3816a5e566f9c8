// Package exam generates practice exams from retrieved document
// context and parses the model's structured output.
package exam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"study-rag/internal/config"
	"study-rag/internal/llm"
	"study-rag/internal/models"
	"study-rag/internal/retriever"
	"study-rag/internal/vectorstore"
)

var (
	// ErrMalformedOutput means the model's response could not be parsed
	// into the requested question records. Surfaced as a generation
	// failure; partial results are never returned.
	ErrMalformedOutput = errors.New("malformed model output")
	// ErrNoContext means no document content was available to build
	// questions from.
	ErrNoContext = errors.New("no document content available for exam generation")
	// ErrInvalidSpec means the requested exam spec itself is unusable:
	// unknown difficulty or zero questions.
	ErrInvalidSpec = errors.New("invalid exam spec")
)

// ContextRetriever is the retrieval surface exam generation needs;
// satisfied by *retriever.Retriever.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]vectorstore.Result, error)
	Overview(ctx context.Context) ([]vectorstore.Result, error)
}

// broadK is how many chunks topic-scoped retrieval pulls; exams need
// breadth beyond a single question's context.
const broadK = 12

// Generator builds complete exams, one completion call per section.
type Generator struct {
	retriever ContextRetriever
	completer llm.Completer
	defaults  config.ExamConfig
}

// New builds an exam generator. defaults fill an ExamSpec with no
// counts.
func New(r ContextRetriever, c llm.Completer, defaults config.ExamConfig) *Generator {
	return &Generator{retriever: r, completer: c, defaults: defaults}
}

// Generate retrieves a broad context set and generates each requested
// section. A malformed section aborts the whole exam.
func (g *Generator) Generate(ctx context.Context, spec models.ExamSpec) (*models.Exam, error) {
	spec = g.applyDefaults(spec)
	if !spec.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSpec, spec.Difficulty)
	}
	total := 0
	for _, n := range spec.Counts {
		if n > 0 {
			total += n
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no questions requested", ErrInvalidSpec)
	}

	contextText, err := g.buildContext(ctx, spec)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Practice Exam (%s difficulty)", capitalize(string(spec.Difficulty)))
	exam := &models.Exam{
		Title:        title,
		Instructions: fmt.Sprintf("Answer all questions to the best of your ability. This exam is set to %s difficulty level.", strings.ToUpper(string(spec.Difficulty))),
		Difficulty:   spec.Difficulty,
		GeneratedAt:  time.Now(),
	}

	for _, qt := range models.SectionOrder {
		count := spec.Counts[qt]
		if count <= 0 {
			continue
		}
		section, err := g.generateSection(ctx, qt, count, spec.Difficulty, contextText)
		if err != nil {
			return nil, err
		}
		exam.Sections = append(exam.Sections, *section)
		exam.TotalQuestions += section.Questions()
	}

	log.Info().Int("questions", exam.TotalQuestions).Str("difficulty", string(spec.Difficulty)).Msg("generated exam")
	return exam, nil
}

func (g *Generator) applyDefaults(spec models.ExamSpec) models.ExamSpec {
	if spec.Difficulty == "" {
		spec.Difficulty = models.Difficulty(g.defaults.Difficulty)
	}
	if len(spec.Counts) == 0 {
		spec.Counts = map[models.QuestionType]int{
			models.MultipleChoice: g.defaults.MultipleChoice,
			models.TrueFalse:      g.defaults.TrueFalse,
			models.ShortAnswer:    g.defaults.ShortAnswer,
			models.Essay:          g.defaults.Essay,
		}
	}
	return spec
}

func (g *Generator) buildContext(ctx context.Context, spec models.ExamSpec) (string, error) {
	var (
		hits []vectorstore.Result
		err  error
	)
	if spec.Topic != "" {
		hits, err = g.retriever.Retrieve(ctx, spec.Topic, broadK)
	} else {
		hits, err = g.retriever.Overview(ctx)
	}
	if err != nil {
		return "", err
	}
	contextText := retriever.BuildContext(hits, g.defaults.ContextChars)
	if contextText == "" {
		return "", ErrNoContext
	}
	return contextText, nil
}

func (g *Generator) generateSection(ctx context.Context, qt models.QuestionType, count int, difficulty models.Difficulty, contextText string) (*models.ExamSection, error) {
	prompt := sectionPrompt(qt, count, difficulty, contextText)
	raw, err := g.completer.Complete(ctx, models.ExamSystemPrompt, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("%s section: %w", qt, err)
	}
	section, err := parseSection(qt, raw, count)
	if err != nil {
		return nil, fmt.Errorf("%s section: %w", qt, err)
	}
	return section, nil
}

func sectionPrompt(qt models.QuestionType, count int, difficulty models.Difficulty, contextText string) string {
	var template string
	switch qt {
	case models.MultipleChoice:
		template = models.MultipleChoicePrompt
	case models.TrueFalse:
		template = models.TrueFalsePrompt
	case models.ShortAnswer:
		template = models.ShortAnswerPrompt
	case models.Essay:
		template = models.EssayPrompt
	}
	instructions := models.DifficultyInstructions[qt][difficulty]
	return fmt.Sprintf(template, count, contextText, strings.ToUpper(string(difficulty)), instructions)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
