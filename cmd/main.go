package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"study-rag/internal/answer"
	"study-rag/internal/chunker"
	"study-rag/internal/config"
	"study-rag/internal/embedding"
	"study-rag/internal/exam"
	"study-rag/internal/ingest"
	"study-rag/internal/llm"
	"study-rag/internal/retriever"
	"study-rag/internal/server"
	"study-rag/internal/session"
	"study-rag/internal/vectorstore"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		return err
	}
	embClient := embedding.NewClient(embedder, cfg.Embedding.Dimension, cfg.Embedding.RatePerSecond)

	store, err := vectorstore.New(ctx, &cfg.Storage, cfg.Embedding.Dimension)
	if err != nil {
		return err
	}

	completer, err := llm.New(&cfg.LLM)
	if err != nil {
		return err
	}

	sess := session.New(cfg.RAG.HistoryTurns)
	retr := retriever.New(embClient, store, sess, cfg.RAG.TopK, cfg.RAG.MinScore)
	ingestor := ingest.New(
		chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		embClient, store, sess, &cfg.RAG,
	)
	answerer := answer.New(retr, completer, cfg.RAG.MaxContextChars, cfg.RAG.HistoryTurns)
	examGen := exam.New(retr, completer, cfg.Exam)

	srv := server.New(cfg, log.Logger, ingestor, answerer, examGen, sess, store)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
