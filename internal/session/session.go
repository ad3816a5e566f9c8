// Package session holds the in-memory state of the single study
// session: uploaded documents, conversation history and the current
// exam.
package session

import (
	"sync"

	"study-rag/internal/models"
)

// Session is safe for concurrent use by the HTTP handlers. Documents
// are owned by the session and removed on explicit delete or reset.
type Session struct {
	mu       sync.RWMutex
	docs     map[string]models.Document
	order    []string
	turns    []models.ConversationTurn
	exam     *models.Exam
	maxTurns int
}

// New creates an empty session keeping at most maxTurns conversation
// turns for prompt context (older turns are still returned by History's
// callers only up to the cap).
func New(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Session{
		docs:     make(map[string]models.Document),
		maxTurns: maxTurns,
	}
}

// AddDocument registers an ingested document.
func (s *Session) AddDocument(doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = doc
}

// RemoveDocument forgets a document, reporting whether it existed.
func (s *Session) RemoveDocument(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	for i, docID := range s.order {
		if docID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Document returns a document by ID.
func (s *Session) Document(id string) (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Documents lists documents in upload order.
func (s *Session) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}

// DocumentIDs lists document IDs in upload order.
func (s *Session) DocumentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// AppendTurn records a question/answer exchange. History is
// append-only; only the most recent turns are retained.
func (s *Session) AppendTurn(turn models.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// History returns a copy of the retained conversation turns, oldest
// first.
func (s *Session) History() []models.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// SetExam stores the most recently generated exam.
func (s *Session) SetExam(exam *models.Exam) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exam = exam
}

// Exam returns the current exam, or nil when none was generated.
func (s *Session) Exam() *models.Exam {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exam
}

// Reset clears documents, history and the current exam.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]models.Document)
	s.order = nil
	s.turns = nil
	s.exam = nil
}
