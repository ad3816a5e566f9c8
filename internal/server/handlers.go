package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"study-rag/internal/exam"
	"study-rag/internal/extractor"
	"study-rag/internal/ingest"
	"study-rag/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload ingests one file from a multipart form under the "file"
// field. Rejections happen before any session or store mutation.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := int64(s.cfg.RAG.MaxFileSizeMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !extractor.Supported(header.Filename) {
		s.respondError(w, http.StatusUnsupportedMediaType, "unsupported file type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, "file exceeds size limit")
		return
	}

	doc, err := s.ingestor.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		s.logger.Error().Err(err).Str("file", header.Filename).Msg("ingestion failed")
		switch {
		case errors.Is(err, extractor.ErrUnsupported):
			s.respondError(w, http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, ingest.ErrFileTooLarge):
			s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, extractor.ErrNoText):
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.respondError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"documents": s.session.Documents()})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ingestor.Remove(r.Context(), id); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	ans, err := s.answerer.Answer(r.Context(), req.Question, s.session.History())
	if err != nil {
		s.logger.Error().Err(err).Msg("answer generation failed")
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.session.AppendTurn(models.ConversationTurn{
		Question: req.Question,
		Answer:   ans.Text,
		Sources:  ans.Sources,
		ChunkIDs: ans.ChunkIDs,
		AskedAt:  time.Now(),
	})
	s.respondJSON(w, http.StatusOK, ans)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"turns": s.session.History()})
}

func (s *Server) handleExam(w http.ResponseWriter, r *http.Request) {
	var spec models.ExamSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid exam spec")
		return
	}

	generated, err := s.examGen.Generate(r.Context(), spec)
	if err != nil {
		s.logger.Error().Err(err).Msg("exam generation failed")
		switch {
		case errors.Is(err, exam.ErrInvalidSpec):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, exam.ErrMalformedOutput):
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, exam.ErrNoContext):
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.respondError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	s.session.SetExam(generated)
	s.respondJSON(w, http.StatusOK, generated)
}

func (s *Server) handleExamSheet(w http.ResponseWriter, r *http.Request) {
	current := s.session.Exam()
	if current == nil {
		s.respondError(w, http.StatusNotFound, "no exam generated yet")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, exam.FormatExam(current))
}

func (s *Server) handleExamAnswers(w http.ResponseWriter, r *http.Request) {
	current := s.session.Exam()
	if current == nil {
		s.respondError(w, http.StatusNotFound, "no exam generated yet")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, exam.FormatAnswerKey(current))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.store.Count(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"documents":       len(s.session.Documents()),
		"chunks":          chunks,
		"embedding_model": s.cfg.Embedding.Model,
		"inference_model": s.cfg.LLM.Model,
		"backend":         s.cfg.Storage.Backend,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.session.Reset()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
