package models

import "time"

// Document is an uploaded study material tracked by the session.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	Pages      int       `json:"pages"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chunk is a contiguous span of extracted text, the unit of embedding
// and retrieval. Immutable once embedded.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Index      int    `json:"index"`
	PageNumber int    `json:"page_number"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Content    string `json:"content"`
}

// ChunkEmbedding pairs a chunk with its computed embedding vector.
type ChunkEmbedding struct {
	Chunk
	Embedding []float32 `json:"-"`
}

// ConversationTurn is one question/answer exchange with the chunks
// that backed the answer, kept for citation.
type ConversationTurn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Sources  []string  `json:"sources"`
	ChunkIDs []string  `json:"chunk_ids"`
	AskedAt  time.Time `json:"asked_at"`
}

// Answer is the result of a RAG query.
type Answer struct {
	Text       string   `json:"answer"`
	Sources    []string `json:"sources"`
	ChunkIDs   []string `json:"chunk_ids"`
	HasContext bool     `json:"has_context"`
}

// QuestionType enumerates the exam question formats.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
)

// SectionOrder is the order sections appear in a generated exam.
var SectionOrder = []QuestionType{MultipleChoice, TrueFalse, ShortAnswer, Essay}

// Difficulty controls how demanding generated questions are.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard, Expert:
		return true
	}
	return false
}

// ExamSpec is a per-request description of the exam to generate.
type ExamSpec struct {
	Counts     map[QuestionType]int `json:"counts"`
	Difficulty Difficulty           `json:"difficulty"`
	Topic      string               `json:"topic,omitempty"`
}

// MultipleChoiceQuestion has four labeled choices and one correct key.
type MultipleChoiceQuestion struct {
	Question      string            `json:"question"`
	Choices       map[string]string `json:"choices"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

type TrueFalseQuestion struct {
	Statement     string `json:"statement"`
	CorrectAnswer bool   `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type ShortAnswerQuestion struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	KeyPoints string `json:"key_points"`
}

type EssayQuestion struct {
	Question  string `json:"question"`
	KeyPoints string `json:"key_points"`
	Guidance  string `json:"guidance"`
}

// ExamSection groups the questions of one type. Only the slice matching
// Type is populated.
type ExamSection struct {
	Type           QuestionType             `json:"type"`
	Title          string                   `json:"title"`
	Instructions   string                   `json:"instructions"`
	MultipleChoice []MultipleChoiceQuestion `json:"multiple_choice,omitempty"`
	TrueFalse      []TrueFalseQuestion      `json:"true_false,omitempty"`
	ShortAnswer    []ShortAnswerQuestion    `json:"short_answer,omitempty"`
	Essay          []EssayQuestion          `json:"essay,omitempty"`
}

// Questions returns the number of questions in the section.
func (s *ExamSection) Questions() int {
	switch s.Type {
	case MultipleChoice:
		return len(s.MultipleChoice)
	case TrueFalse:
		return len(s.TrueFalse)
	case ShortAnswer:
		return len(s.ShortAnswer)
	case Essay:
		return len(s.Essay)
	}
	return 0
}

// Exam is a generated practice exam.
type Exam struct {
	Title          string        `json:"title"`
	Instructions   string        `json:"instructions"`
	Difficulty     Difficulty    `json:"difficulty"`
	Sections       []ExamSection `json:"sections"`
	TotalQuestions int           `json:"total_questions"`
	GeneratedAt    time.Time     `json:"generated_at"`
}
