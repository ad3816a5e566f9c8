package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"study-rag/internal/vectorstore"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeStore struct {
	vectorstore.Store
	hits  []vectorstore.Result
	calls int
}

func (f *fakeStore) Query(ctx context.Context, vector []float32, k int, documentIDs []string) ([]vectorstore.Result, error) {
	f.calls++
	if k > len(f.hits) {
		k = len(f.hits)
	}
	return f.hits[:k], nil
}

type fakeLister struct{ ids []string }

func (f *fakeLister) DocumentIDs() []string { return f.ids }

func TestRetrieveZeroK(t *testing.T) {
	emb := &fakeEmbedder{}
	r := New(emb, &fakeStore{}, &fakeLister{ids: []string{"d"}}, 5, 0.1)
	hits, err := r.Retrieve(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != nil {
		t.Errorf("k=0 should return nil, got %v", hits)
	}
	if emb.calls != 0 {
		t.Errorf("embedding API called %d times for k=0", emb.calls)
	}
}

func TestRetrieveNoDocuments(t *testing.T) {
	emb := &fakeEmbedder{}
	store := &fakeStore{}
	r := New(emb, store, &fakeLister{}, 5, 0.1)
	hits, err := r.Retrieve(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("no ingestion should return empty, got %d", len(hits))
	}
	if emb.calls != 0 || store.calls != 0 {
		t.Error("no API calls expected before ingestion")
	}
}

func TestRetrieveCapsAtK(t *testing.T) {
	store := &fakeStore{hits: []vectorstore.Result{
		{ID: "1", Score: 0.9}, {ID: "2", Score: 0.8}, {ID: "3", Score: 0.7},
		{ID: "4", Score: 0.6}, {ID: "5", Score: 0.5}, {ID: "6", Score: 0.4},
	}}
	r := New(&fakeEmbedder{}, store, &fakeLister{ids: []string{"d"}}, 5, 0.1)
	hits, err := r.Retrieve(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ID != "1" {
		t.Errorf("top hit = %s", hits[0].ID)
	}
}

func TestRetrieveFallsBackWhenScoresLow(t *testing.T) {
	store := &fakeStore{hits: []vectorstore.Result{
		{ID: "1", Score: 0.05}, {ID: "2", Score: 0.04}, {ID: "3", Score: 0.03},
		{ID: "4", Score: 0.02},
	}}
	r := New(&fakeEmbedder{}, store, &fakeLister{ids: []string{"d"}}, 5, 0.1)
	hits, err := r.Retrieve(context.Background(), "q", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 4 {
		t.Errorf("fallback should return raw ranking, got %d hits", len(hits))
	}
}

func TestRetrieveFallsBackForSingleResult(t *testing.T) {
	store := &fakeStore{hits: []vectorstore.Result{
		{ID: "1", Score: 0.05}, {ID: "2", Score: 0.04},
	}}
	r := New(&fakeEmbedder{}, store, &fakeLister{ids: []string{"d"}}, 5, 0.1)
	hits, err := r.Retrieve(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1 from raw ranking", len(hits))
	}
	if hits[0].ID != "1" {
		t.Errorf("top hit = %s, want 1", hits[0].ID)
	}
}

func TestRetrieveSurfacesEmbeddingError(t *testing.T) {
	apiErr := errors.New("auth")
	r := New(&fakeEmbedder{err: apiErr}, &fakeStore{}, &fakeLister{ids: []string{"d"}}, 5, 0.1)
	_, err := r.Retrieve(context.Background(), "q", 3)
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped embedding error, got %v", err)
	}
}

func TestOverviewDeduplicates(t *testing.T) {
	dup := vectorstore.Result{ID: "1", Content: "introduction to biology", Score: 0.9}
	store := &fakeStore{hits: []vectorstore.Result{dup, dup, {ID: "2", Content: "cells divide", Score: 0.5}}}
	r := New(&fakeEmbedder{}, store, &fakeLister{ids: []string{"d"}}, 5, 0.1)
	hits, err := r.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[string]int{}
	for _, h := range hits {
		seen[h.Content]++
	}
	for content, n := range seen {
		if n > 1 {
			t.Errorf("content %q appears %d times", content, n)
		}
	}
}

func TestBuildContextTagsSources(t *testing.T) {
	hits := []vectorstore.Result{
		{Filename: "bio.pdf", Content: "cells are the unit of life"},
		{Filename: "chem.pdf", Content: "atoms form molecules"},
	}
	ctx := BuildContext(hits, 0)
	if !strings.Contains(ctx, "[From: bio.pdf]") || !strings.Contains(ctx, "[From: chem.pdf]") {
		t.Errorf("context missing source tags:\n%s", ctx)
	}
}

func TestBuildContextRespectsBudget(t *testing.T) {
	hits := []vectorstore.Result{
		{Filename: "a.pdf", Content: strings.Repeat("x", 500)},
		{Filename: "b.pdf", Content: strings.Repeat("y", 500)},
	}
	ctx := BuildContext(hits, 600)
	if len(ctx) > 600 {
		t.Errorf("context length %d exceeds budget", len(ctx))
	}
}

func TestBuildContextBudgetIncludesSeparator(t *testing.T) {
	// Second block fits without its separator but not with it.
	hits := []vectorstore.Result{
		{Filename: "a.pdf", Content: strings.Repeat("x", 286)},
		{Filename: "b.pdf", Content: strings.Repeat("y", 285)},
	}
	ctx := BuildContext(hits, 600)
	if len(ctx) > 600 {
		t.Errorf("context length %d exceeds budget", len(ctx))
	}
}

func TestBuildContextCutsAtRuneBoundary(t *testing.T) {
	hits := []vectorstore.Result{
		{Filename: "a.pdf", Content: strings.Repeat("é", 200)},
		{Filename: "b.pdf", Content: strings.Repeat("é", 400)},
	}
	ctx := BuildContext(hits, 702)
	if !utf8.ValidString(ctx) {
		t.Error("truncated context contains invalid UTF-8")
	}
	if !strings.Contains(ctx, "...") {
		t.Error("expected truncation marker")
	}
	if len(ctx) > 702 {
		t.Errorf("context length %d exceeds budget", len(ctx))
	}
}
