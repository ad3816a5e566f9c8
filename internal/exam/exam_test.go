package exam

import (
	"context"
	"errors"
	"strings"
	"testing"

	"study-rag/internal/config"
	"study-rag/internal/models"
	"study-rag/internal/vectorstore"
)

const mcqJSON = `[
  {"question":"What powers the cell?","choices":{"A":"Mitochondria","B":"Ribosomes","C":"Vacuole","D":"Cell wall"},"correct_answer":"A","explanation":"Mitochondria produce ATP."},
  {"question":"What absorbs light?","choices":{"A":"DNA","B":"Chlorophyll","C":"ATP","D":"RNA"},"correct_answer":"B","explanation":"Chlorophyll absorbs light."}
]`

const tfJSON = `[
  {"statement":"Mitochondria produce ATP.","correct_answer":true,"explanation":"Yes."},
  {"statement":"Chlorophyll is found in animals.","correct_answer":false,"explanation":"Plants only."}
]`

type fakeRetriever struct {
	hits []vectorstore.Result
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, k int) ([]vectorstore.Result, error) {
	return f.hits, nil
}

func (f *fakeRetriever) Overview(ctx context.Context) ([]vectorstore.Result, error) {
	return f.hits, nil
}

type fakeCompleter struct {
	replies map[string]string // keyed by substring of the prompt
	err     error
	calls   int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, history []models.ConversationTurn) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	for substr, reply := range f.replies {
		if strings.Contains(user, substr) {
			return reply, nil
		}
	}
	return "", errors.New("no canned reply")
}

func defaults() config.ExamConfig {
	return config.ExamConfig{
		MultipleChoice: 5, TrueFalse: 5, ShortAnswer: 3, Essay: 2,
		Difficulty: "medium", ContextChars: 8000,
	}
}

func contextHits() []vectorstore.Result {
	return []vectorstore.Result{
		{ID: "c1", Filename: "bio.pdf", Content: "mitochondria produce ATP for the cell"},
	}
}

func TestGenerateExactCount(t *testing.T) {
	g := New(&fakeRetriever{hits: contextHits()},
		&fakeCompleter{replies: map[string]string{"multiple choice": mcqJSON}},
		defaults())

	exam, err := g.Generate(context.Background(), models.ExamSpec{
		Counts:     map[models.QuestionType]int{models.MultipleChoice: 2},
		Difficulty: models.Medium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exam.TotalQuestions != 2 {
		t.Errorf("total = %d, want 2", exam.TotalQuestions)
	}
	if len(exam.Sections) != 1 || len(exam.Sections[0].MultipleChoice) != 2 {
		t.Errorf("sections = %+v", exam.Sections)
	}
}

func TestGenerateWrongCountFails(t *testing.T) {
	g := New(&fakeRetriever{hits: contextHits()},
		&fakeCompleter{replies: map[string]string{"multiple choice": mcqJSON}},
		defaults())

	_, err := g.Generate(context.Background(), models.ExamSpec{
		Counts:     map[models.QuestionType]int{models.MultipleChoice: 5},
		Difficulty: models.Medium,
	})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateMalformedJSONFails(t *testing.T) {
	g := New(&fakeRetriever{hits: contextHits()},
		&fakeCompleter{replies: map[string]string{"multiple choice": "Sure! Here are your questions:"}},
		defaults())

	_, err := g.Generate(context.Background(), models.ExamSpec{
		Counts:     map[models.QuestionType]int{models.MultipleChoice: 2},
		Difficulty: models.Medium,
	})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateAcceptsFencedJSON(t *testing.T) {
	fenced := "```json\n" + tfJSON + "\n```"
	g := New(&fakeRetriever{hits: contextHits()},
		&fakeCompleter{replies: map[string]string{"true/false": fenced}},
		defaults())

	exam, err := g.Generate(context.Background(), models.ExamSpec{
		Counts:     map[models.QuestionType]int{models.TrueFalse: 2},
		Difficulty: models.Hard,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exam.Sections[0].TrueFalse[0].CorrectAnswer != true {
		t.Errorf("parsed wrong answer: %+v", exam.Sections[0].TrueFalse[0])
	}
}

func TestGenerateNoContext(t *testing.T) {
	g := New(&fakeRetriever{}, &fakeCompleter{}, defaults())
	_, err := g.Generate(context.Background(), models.ExamSpec{
		Counts:     map[models.QuestionType]int{models.MultipleChoice: 2},
		Difficulty: models.Medium,
	})
	if !errors.Is(err, ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
}

func TestGenerateUnknownDifficulty(t *testing.T) {
	g := New(&fakeRetriever{hits: contextHits()}, &fakeCompleter{}, defaults())
	_, err := g.Generate(context.Background(), models.ExamSpec{
		Counts:     map[models.QuestionType]int{models.MultipleChoice: 1},
		Difficulty: "impossible",
	})
	if !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestGenerateNoQuestionsRequested(t *testing.T) {
	completer := &fakeCompleter{}
	g := New(&fakeRetriever{hits: contextHits()}, completer, defaults())
	_, err := g.Generate(context.Background(), models.ExamSpec{
		Counts:     map[models.QuestionType]int{models.MultipleChoice: 0},
		Difficulty: models.Medium,
	})
	if !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
	if completer.calls != 0 {
		t.Errorf("completion called %d times for empty spec", completer.calls)
	}
}

func TestGenerateOneCallPerSection(t *testing.T) {
	completer := &fakeCompleter{replies: map[string]string{
		"multiple choice": mcqJSON,
		"true/false":      tfJSON,
	}}
	g := New(&fakeRetriever{hits: contextHits()}, completer, defaults())

	exam, err := g.Generate(context.Background(), models.ExamSpec{
		Counts: map[models.QuestionType]int{
			models.MultipleChoice: 2,
			models.TrueFalse:      2,
		},
		Difficulty: models.Easy,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completer.calls != 2 {
		t.Errorf("completion calls = %d, want 2", completer.calls)
	}
	if exam.TotalQuestions != 4 {
		t.Errorf("total = %d, want 4", exam.TotalQuestions)
	}
}

func TestValidateMultipleChoice(t *testing.T) {
	bad := `[{"question":"Q?","choices":{"A":"x","B":"y"},"correct_answer":"C","explanation":""}]`
	_, err := parseSection(models.MultipleChoice, bad, 1)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for bad choices, got %v", err)
	}
}

func TestFormatExamAndAnswerKey(t *testing.T) {
	section, err := parseSection(models.MultipleChoice, mcqJSON, 2)
	if err != nil {
		t.Fatalf("parseSection: %v", err)
	}
	exam := &models.Exam{
		Title:          "Practice Exam (Medium difficulty)",
		Instructions:   "Answer all questions.",
		Sections:       []models.ExamSection{*section},
		TotalQuestions: 2,
	}

	display := FormatExam(exam)
	if strings.Contains(display, "CORRECT") {
		t.Error("question sheet leaks answers")
	}
	if !strings.Contains(display, "**Question 1:**") || !strings.Contains(display, "**Question 2:**") {
		t.Errorf("questions not numbered:\n%s", display)
	}

	key := FormatAnswerKey(exam)
	if !strings.Contains(key, "CORRECT") {
		t.Error("answer key missing correct markers")
	}
	if !strings.Contains(key, "Mitochondria produce ATP.") {
		t.Error("answer key missing explanation")
	}
}
