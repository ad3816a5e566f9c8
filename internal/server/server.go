// Package server exposes the study assistant over HTTP: document
// upload, question answering and exam generation.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"study-rag/internal/answer"
	"study-rag/internal/config"
	"study-rag/internal/exam"
	"study-rag/internal/ingest"
	"study-rag/internal/session"
	"study-rag/internal/vectorstore"
)

// Server wires the HTTP layer to the RAG components.
type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	cfg      *config.Config
	ingestor *ingest.Ingestor
	answerer *answer.Generator
	examGen  *exam.Generator
	session  *session.Session
	store    vectorstore.Store
	http     *http.Server
}

// New builds the server and its routes.
func New(cfg *config.Config, logger zerolog.Logger, ingestor *ingest.Ingestor, answerer *answer.Generator, examGen *exam.Generator, sess *session.Session, store vectorstore.Store) *Server {
	s := &Server{
		logger:   logger,
		cfg:      cfg,
		ingestor: ingestor,
		answerer: answerer,
		examGen:  examGen,
		session:  sess,
		store:    store,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/documents", s.handleUpload)
		r.Get("/documents", s.handleListDocuments)
		r.Delete("/documents/{id}", s.handleDeleteDocument)
		r.Post("/ask", s.handleAsk)
		r.Get("/history", s.handleHistory)
		r.Post("/exam", s.handleExam)
		r.Get("/exam", s.handleExamSheet)
		r.Get("/exam/answers", s.handleExamAnswers)
		r.Get("/status", s.handleStatus)
		r.Post("/reset", s.handleReset)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until Shutdown or failure.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info().Str("addr", addr).Msg("listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
