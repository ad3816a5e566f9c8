// Package retriever embeds queries and fetches the most similar chunks
// from the vector store, scoped to the active session's documents.
package retriever

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"study-rag/internal/models"
	"study-rag/internal/vectorstore"
)

// QueryEmbedder embeds a query string; satisfied by *embedding.Client.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// DocumentLister scopes retrieval to the session's documents;
// satisfied by *session.Session.
type DocumentLister interface {
	DocumentIDs() []string
}

const (
	overviewProbeK   = 5
	overviewMaxHits  = 15
	dedupPrefixChars = 200
)

// Retriever performs similarity retrieval against the vector store.
type Retriever struct {
	embedder QueryEmbedder
	store    vectorstore.Store
	docs     DocumentLister
	topK     int
	minScore float32
}

// New builds a retriever. topK is the default result count, minScore
// the relevance floor below which hits are dropped when enough better
// ones exist.
func New(embedder QueryEmbedder, store vectorstore.Store, docs DocumentLister, topK int, minScore float64) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		docs:     docs,
		topK:     topK,
		minScore: float32(minScore),
	}
}

// TopK returns the default result count.
func (r *Retriever) TopK() int { return r.topK }

// Retrieve embeds the query and returns up to k chunks ordered by
// descending similarity. k <= 0 and an empty session both return empty
// without touching the embedding API. Embedding failures are surfaced
// to the caller, not retried.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]vectorstore.Result, error) {
	if k <= 0 {
		return nil, nil
	}
	docIDs := r.docs.DocumentIDs()
	if len(docIDs) == 0 {
		return nil, nil
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Over-fetch so low-relevance hits can be dropped while still
	// filling k when possible.
	hits, err := r.store.Query(ctx, vector, k*2, docIDs)
	if err != nil {
		return nil, err
	}

	relevant := make([]vectorstore.Result, 0, k)
	for _, hit := range hits {
		if hit.Score <= r.minScore {
			continue
		}
		relevant = append(relevant, hit)
		if len(relevant) == k {
			break
		}
	}

	// Too few relevant hits usually means the threshold is cutting a
	// sparse corpus; fall back to the raw ranking. Rounding up keeps
	// the fallback reachable at k=1.
	if len(relevant) < (k+1)/2 && len(hits) > len(relevant) {
		log.Debug().Int("relevant", len(relevant)).Msg("low relevance scores, using raw ranking")
		if len(hits) > k {
			hits = hits[:k]
		}
		return hits, nil
	}
	return relevant, nil
}

// Overview pulls a representative cross-section of all documents for
// broad questions, probing for introductory and summary content and
// deduplicating by content prefix.
func (r *Retriever) Overview(ctx context.Context) ([]vectorstore.Result, error) {
	docIDs := r.docs.DocumentIDs()
	if len(docIDs) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var overview []vectorstore.Result
	for _, probe := range models.OverviewProbes {
		vector, err := r.embedder.EmbedQuery(ctx, probe)
		if err != nil {
			return nil, fmt.Errorf("embed overview probe: %w", err)
		}
		hits, err := r.store.Query(ctx, vector, overviewProbeK, docIDs)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			key := contentKey(hit.Content)
			if seen[key] {
				continue
			}
			seen[key] = true
			overview = append(overview, hit)
		}
		if len(overview) >= overviewMaxHits {
			break
		}
	}
	return overview, nil
}

// BuildContext assembles hits into a prompt context, each block tagged
// with its source file. The output never exceeds maxChars when it is
// positive; a truncated tail block is cut on a rune boundary.
func BuildContext(hits []vectorstore.Result, maxChars int) string {
	const ellipsis = "..."
	var b strings.Builder
	for _, hit := range hits {
		block := fmt.Sprintf("[From: %s]\n%s", hit.Filename, hit.Content)
		sep := ""
		if b.Len() > 0 {
			sep = "\n\n"
		}
		if maxChars > 0 && b.Len()+len(sep)+len(block) > maxChars {
			remaining := maxChars - b.Len() - len(sep)
			if remaining > 100 {
				cut := remaining - len(ellipsis)
				for cut > 0 && !utf8.RuneStart(block[cut]) {
					cut--
				}
				b.WriteString(sep)
				b.WriteString(block[:cut])
				b.WriteString(ellipsis)
			}
			break
		}
		b.WriteString(sep)
		b.WriteString(block)
	}
	return b.String()
}

func contentKey(content string) string {
	if len(content) > dedupPrefixChars {
		return content[:dedupPrefixChars]
	}
	return content
}
