package embedding

import (
	"context"
	"errors"
	"testing"

	"study-rag/internal/models"
)

type fakeEmbedder struct {
	dim   int
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v := make([]float32, f.dim)
	for i := range v {
		v[i] = float32(len(text) % (i + 2))
	}
	return v, nil
}

func TestEmbedQueryChecksDimension(t *testing.T) {
	c := NewClient(&fakeEmbedder{dim: 8}, 4, 0)
	_, err := c.EmbedQuery(context.Background(), "hello")
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}

	c = NewClient(&fakeEmbedder{dim: 4}, 4, 0)
	v, err := c.EmbedQuery(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) != 4 {
		t.Errorf("vector length = %d", len(v))
	}
}

func TestEmbedQuerySurfacesAPIError(t *testing.T) {
	apiErr := errors.New("rate limited")
	c := NewClient(&fakeEmbedder{err: apiErr}, 0, 0)
	_, err := c.EmbedQuery(context.Background(), "hello")
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
}

func TestEmbedChunks(t *testing.T) {
	fake := &fakeEmbedder{dim: 3}
	c := NewClient(fake, 3, 0)
	chunks := []models.Chunk{
		{DocumentID: "d", Filename: "a.pdf", Index: 0, Content: "first"},
		{DocumentID: "d", Filename: "a.pdf", Index: 1, Content: "second"},
	}
	embs, err := c.EmbedChunks(context.Background(), chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embs) != 2 {
		t.Fatalf("got %d embeddings", len(embs))
	}
	if fake.calls != 2 {
		t.Errorf("embedder called %d times", fake.calls)
	}
	for i, e := range embs {
		if e.Index != i {
			t.Errorf("embedding %d has index %d", i, e.Index)
		}
		if len(e.Embedding) != 3 {
			t.Errorf("embedding %d has %d dims", i, len(e.Embedding))
		}
	}
}

func TestEmbedChunksEmpty(t *testing.T) {
	c := NewClient(&fakeEmbedder{dim: 3}, 3, 0)
	embs, err := c.EmbedChunks(context.Background(), nil)
	if err != nil || embs != nil {
		t.Fatalf("expected nil, nil; got %v, %v", embs, err)
	}
}

func TestEmbedChunksAbortsOnFailure(t *testing.T) {
	apiErr := errors.New("auth failed")
	c := NewClient(&fakeEmbedder{err: apiErr}, 0, 0)
	chunks := []models.Chunk{{Content: "x"}, {Content: "y"}}
	_, err := c.EmbedChunks(context.Background(), chunks)
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
}
