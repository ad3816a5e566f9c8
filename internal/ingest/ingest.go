// Package ingest runs the document pipeline: validate, extract, chunk,
// embed, store, register.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"study-rag/internal/chunker"
	"study-rag/internal/config"
	"study-rag/internal/embedding"
	"study-rag/internal/extractor"
	"study-rag/internal/models"
	"study-rag/internal/session"
	"study-rag/internal/vectorstore"
)

// ErrFileTooLarge is returned for uploads over the configured limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// Ingestor wires the ingestion pipeline. Failures leave the session
// document list untouched.
type Ingestor struct {
	chunker  *chunker.Chunker
	embedder *embedding.Client
	store    vectorstore.Store
	session  *session.Session

	maxFileBytes  int64
	minChunkChars int
	minAlphaRatio float64
}

// New builds an ingestor from the RAG settings.
func New(c *chunker.Chunker, e *embedding.Client, store vectorstore.Store, s *session.Session, cfg *config.RAGConfig) *Ingestor {
	return &Ingestor{
		chunker:       c,
		embedder:      e,
		store:         store,
		session:       s,
		maxFileBytes:  int64(cfg.MaxFileSizeMB) * 1024 * 1024,
		minChunkChars: cfg.MinChunkChars,
		minAlphaRatio: cfg.MinAlphaRatio,
	}
}

// Ingest processes one uploaded file end to end and returns the
// registered document. Unsupported types and oversize files are
// rejected before any state changes.
func (i *Ingestor) Ingest(ctx context.Context, filename string, data []byte) (*models.Document, error) {
	if !extractor.Supported(filename) {
		return nil, fmt.Errorf("%w: %s", extractor.ErrUnsupported, filename)
	}
	if i.maxFileBytes > 0 && int64(len(data)) > i.maxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(data), i.maxFileBytes)
	}

	pages, err := extractor.Extract(data, filename)
	if err != nil {
		return nil, err
	}

	docID := uuid.NewString()
	chunks := i.chunkPages(docID, filename, pages)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", extractor.ErrNoText, filename)
	}

	embedded, err := i.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	records := make([]vectorstore.Record, 0, len(embedded))
	for _, e := range embedded {
		records = append(records, vectorstore.Record{
			ID:         fmt.Sprintf("%s-%d", docID, e.Index),
			DocumentID: e.DocumentID,
			Filename:   e.Filename,
			PageNumber: e.PageNumber,
			ChunkIndex: e.Index,
			Content:    e.Content,
			Embedding:  e.Embedding,
		})
	}
	if err := i.store.Add(ctx, records); err != nil {
		return nil, err
	}

	doc := models.Document{
		ID:         docID,
		Filename:   filename,
		SizeBytes:  int64(len(data)),
		Pages:      len(pages),
		ChunkCount: len(chunks),
		UploadedAt: time.Now(),
	}
	i.session.AddDocument(doc)
	log.Info().Str("document", filename).Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("ingested document")
	return &doc, nil
}

// Remove deletes a document's chunks from the vector store and forgets
// it in the session.
func (i *Ingestor) Remove(ctx context.Context, documentID string) error {
	if _, ok := i.session.Document(documentID); !ok {
		return fmt.Errorf("document %s not found", documentID)
	}
	if err := i.store.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	i.session.RemoveDocument(documentID)
	return nil
}

// chunkPages chunks each page separately so page numbers survive into
// citations, filtering out low-quality fragments.
func (i *Ingestor) chunkPages(docID, filename string, pages []extractor.Page) []models.Chunk {
	var chunks []models.Chunk
	index := 0
	for _, page := range pages {
		for _, piece := range i.chunker.Chunk(page.Text) {
			if len(piece.Content) < i.minChunkChars {
				continue
			}
			if extractor.AlphaRatio(piece.Content) < i.minAlphaRatio {
				continue
			}
			chunks = append(chunks, models.Chunk{
				DocumentID: docID,
				Filename:   filename,
				Index:      index,
				PageNumber: page.Number,
				Start:      piece.Start,
				End:        piece.End,
				Content:    piece.Content,
			})
			index++
		}
	}
	return chunks
}
