// Package embedding wraps the external embedding API behind a small
// client that adds rate limiting and dimension checks.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"study-rag/internal/config"
	"study-rag/internal/models"
)

// ErrDimensionMismatch is returned when the API yields a vector whose
// size differs from the configured model dimension. Similarity is only
// valid among vectors from the same embedding model.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder is the single-text embedding operation; satisfied by
// langchaingo's EmbedderImpl and by test fakes.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds a langchaingo embedder for the configured provider.
func NewEmbedder(cfg *config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "ollama":
		return newOllamaEmbedder(cfg)
	default:
		return newOpenAIEmbedder(cfg)
	}
}

func newOpenAIEmbedder(cfg *config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init embedding client: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

func newOllamaEmbedder(cfg *config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init embedding client: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

// Client embeds queries and chunks through an Embedder, optionally
// rate limited, verifying the configured vector dimension.
type Client struct {
	embedder  Embedder
	limiter   *rate.Limiter
	dimension int
}

// NewClient wraps embedder. dimension 0 disables the size check;
// perSecond 0 disables rate limiting.
func NewClient(embedder Embedder, dimension int, perSecond float64) *Client {
	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Client{embedder: embedder, limiter: limiter, dimension: dimension}
}

// EmbedQuery embeds a single text. API failures are returned to the
// caller untouched; there is no local retry.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if c.dimension > 0 && len(vector) != c.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), c.dimension)
	}
	return vector, nil
}

// EmbedChunks embeds each chunk in order. The first failure aborts the
// batch so a document is never half-embedded.
func (c *Client) EmbedChunks(ctx context.Context, chunks []models.Chunk) ([]models.ChunkEmbedding, error) {
	if len(chunks) == 0 {
		log.Debug().Msg("no chunks to embed")
		return nil, nil
	}

	out := make([]models.ChunkEmbedding, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := c.EmbedQuery(ctx, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of %s: %w", chunk.Index, chunk.Filename, err)
		}
		out = append(out, models.ChunkEmbedding{Chunk: chunk, Embedding: vector})
	}
	log.Debug().Int("chunks", len(out)).Msg("embedded chunks")
	return out, nil
}
