// Package answer assembles RAG prompts and generates grounded answers
// with chunk citations.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"study-rag/internal/llm"
	"study-rag/internal/models"
	"study-rag/internal/retriever"
	"study-rag/internal/vectorstore"
)

// ContextRetriever is the retrieval surface the generator needs;
// satisfied by *retriever.Retriever.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]vectorstore.Result, error)
	Overview(ctx context.Context) ([]vectorstore.Result, error)
	TopK() int
}

// Generator answers questions from retrieved context plus conversation
// history, one completion call per question.
type Generator struct {
	retriever    ContextRetriever
	completer    llm.Completer
	maxContext   int
	historyTurns int
}

// New builds an answer generator. maxContext is the context character
// budget, historyTurns the number of prior turns sent along.
func New(r ContextRetriever, c llm.Completer, maxContext, historyTurns int) *Generator {
	return &Generator{
		retriever:    r,
		completer:    c,
		maxContext:   maxContext,
		historyTurns: historyTurns,
	}
}

// Answer retrieves context for the question and generates a grounded
// answer. When nothing relevant is found it declines without calling
// the completion API.
func (g *Generator) Answer(ctx context.Context, question string, history []models.ConversationTurn) (*models.Answer, error) {
	var (
		hits []vectorstore.Result
		err  error
	)
	if isOverviewQuestion(question) {
		log.Debug().Msg("broad question, building document overview")
		hits, err = g.retriever.Overview(ctx)
	} else {
		hits, err = g.retriever.Retrieve(ctx, question, g.retriever.TopK()*2)
	}
	if err != nil {
		return nil, err
	}

	contextText := retriever.BuildContext(hits, g.maxContext)
	if contextText == "" {
		log.Debug().Msg("no relevant context found")
		return &models.Answer{Text: models.NoContextAnswer, HasContext: false}, nil
	}

	template := models.AnswerSystemPrompt
	if isOverviewQuestion(question) {
		template = models.OverviewSystemPrompt
	}
	system := fmt.Sprintf(template, contextText)

	if len(history) > g.historyTurns {
		history = history[len(history)-g.historyTurns:]
	}

	text, err := g.completer.Complete(ctx, system, question, history)
	if err != nil {
		return nil, err
	}

	return &models.Answer{
		Text:       text,
		Sources:    uniqueSources(hits),
		ChunkIDs:   chunkIDs(hits),
		HasContext: true,
	}, nil
}

func isOverviewQuestion(question string) bool {
	q := strings.ToLower(question)
	for _, keyword := range models.OverviewKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}

func uniqueSources(hits []vectorstore.Result) []string {
	seen := make(map[string]bool, len(hits))
	sources := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Filename == "" || seen[hit.Filename] {
			continue
		}
		seen[hit.Filename] = true
		sources = append(sources, hit.Filename)
	}
	return sources
}

func chunkIDs(hits []vectorstore.Result) []string {
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}
	return ids
}
