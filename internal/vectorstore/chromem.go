package vectorstore

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"study-rag/internal/config"
)

const chromemCompress = false

// Chromem is the embedded chromem-go backend, persistent by default.
type Chromem struct {
	db            *chromem.DB
	collection    *chromem.Collection
	name          string
	persistDir    string
	encryptionKey string
}

// NewChromem opens (or creates) the database and collection described
// by cfg.
func NewChromem(cfg *config.StorageConfig) (*Chromem, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.PersistDir, chromemCompress)
		if err != nil {
			return nil, fmt.Errorf("open vector database: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Chromem{
		db:            db,
		collection:    collection,
		name:          cfg.Collection,
		persistDir:    cfg.PersistDir,
		encryptionKey: cfg.EncryptionKey,
	}, nil
}

func (s *Chromem) Add(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, chromem.Document{
			ID:      r.ID,
			Content: r.Content,
			Metadata: map[string]string{
				"document_id": r.DocumentID,
				"filename":    r.Filename,
				"page_number": strconv.Itoa(r.PageNumber),
				"chunk_index": strconv.Itoa(r.ChunkIndex),
			},
			Embedding: r.Embedding,
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	log.Debug().Int("records", len(records)).Msg("stored chunk embeddings")
	return nil
}

func (s *Chromem) Query(ctx context.Context, vector []float32, k int, documentIDs []string) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	total := s.collection.Count()
	if total == 0 {
		return nil, nil
	}

	// chromem's Where filter is a single equality, so membership in a
	// document set is filtered here after an over-fetched query.
	n := k * 2
	if len(documentIDs) == 0 {
		n = k
	}
	if n > total {
		n = total
	}

	hits, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	allowed := make(map[string]bool, len(documentIDs))
	for _, id := range documentIDs {
		allowed[id] = true
	}

	results := make([]Result, 0, k)
	for _, hit := range hits {
		docID := hit.Metadata["document_id"]
		if len(allowed) > 0 && !allowed[docID] {
			continue
		}
		page, _ := strconv.Atoi(hit.Metadata["page_number"])
		results = append(results, Result{
			ID:         hit.ID,
			DocumentID: docID,
			Filename:   hit.Metadata["filename"],
			PageNumber: page,
			Content:    hit.Content,
			Score:      hit.Similarity,
		})
		if len(results) == k {
			break
		}
	}
	return results, nil
}

func (s *Chromem) DeleteDocument(ctx context.Context, documentID string) error {
	err := s.collection.Delete(ctx, map[string]string{"document_id": documentID}, nil)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

func (s *Chromem) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *Chromem) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	collection, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.collection = collection
	return nil
}

// Export writes the collection to an encrypted file under the persist
// directory. Only meaningful for in-memory databases.
func (s *Chromem) Export(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required for export")
	}
	if err := s.db.ExportToFile(s.exportPath(), chromemCompress, s.encryptionKey, s.name); err != nil {
		return fmt.Errorf("export collection: %w", err)
	}
	return nil
}

// Import loads a previously exported collection file, replacing the
// current collection contents.
func (s *Chromem) Import(ctx context.Context) error {
	if err := s.db.ImportFromFile(s.exportPath(), s.encryptionKey); err != nil {
		return fmt.Errorf("import collection: %w", err)
	}
	collection, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("open imported collection: %w", err)
	}
	s.collection = collection
	return nil
}

func (s *Chromem) exportPath() string {
	return s.persistDir + "/" + s.name + ".chromem"
}
