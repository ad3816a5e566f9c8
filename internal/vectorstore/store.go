// Package vectorstore abstracts the external vector database used for
// chunk embeddings and nearest-neighbor search.
package vectorstore

import (
	"context"
	"fmt"

	"study-rag/internal/config"
)

// Record is a chunk embedding ready for storage.
type Record struct {
	ID         string
	DocumentID string
	Filename   string
	PageNumber int
	ChunkIndex int
	Content    string
	Embedding  []float32
}

// Result is a similarity search hit, ordered by descending score.
type Result struct {
	ID         string
	DocumentID string
	Filename   string
	PageNumber int
	Content    string
	Score      float32
}

// Store is the vector database boundary. Implementations are the
// embedded chromem backend and the Postgres/pgvector backend.
type Store interface {
	// Add stores the records. Records are immutable once added.
	Add(ctx context.Context, records []Record) error
	// Query returns up to k results most similar to the vector,
	// restricted to the given document IDs when non-empty.
	Query(ctx context.Context, vector []float32, k int, documentIDs []string) ([]Result, error)
	// DeleteDocument removes every chunk of the document.
	DeleteDocument(ctx context.Context, documentID string) error
	// Count reports the number of stored chunks.
	Count(ctx context.Context) (int, error)
	// Reset drops all stored chunks.
	Reset(ctx context.Context) error
}

// New builds the configured backend. dimension is the embedding model
// output size, needed by the postgres backend for its column type.
func New(ctx context.Context, cfg *config.StorageConfig, dimension int) (Store, error) {
	switch cfg.Backend {
	case "chromem":
		return NewChromem(cfg)
	case "postgres":
		return NewPostgres(ctx, &cfg.Postgres, dimension)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
