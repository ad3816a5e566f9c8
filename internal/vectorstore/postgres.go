package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"study-rag/internal/config"
)

type chunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`

	ID         string  `bun:"id,pk"`
	DocumentID string  `bun:"document_id,notnull"`
	Filename   string  `bun:"filename,notnull"`
	PageNumber int     `bun:"page_number"`
	ChunkIndex int     `bun:"chunk_index"`
	Content    string  `bun:"content,notnull"`
	Embedding  string  `bun:"embedding,notnull"`
	Distance   float64 `bun:"distance,scanonly"`
}

// Postgres stores chunk embeddings in a pgvector-enabled Postgres
// database through bun.
type Postgres struct {
	db *bun.DB
}

// NewPostgres connects, enables pgvector and creates the chunks table
// with the given embedding dimension.
func NewPostgres(ctx context.Context, cfg *config.PostgresConfig, dimension int) (*Postgres, error) {
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	s := &Postgres{db: db}
	if err := s.initSchema(ctx, dimension); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Postgres) initSchema(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("postgres backend needs a positive embedding dimension, got %d", dimension)
	}
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
		id text PRIMARY KEY,
		document_id text NOT NULL,
		filename text NOT NULL,
		page_number integer,
		chunk_index integer,
		content text NOT NULL,
		embedding vector(%d) NOT NULL
	)`, dimension)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	return nil
}

func (s *Postgres) Add(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]chunkRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, chunkRow{
			ID:         r.ID,
			DocumentID: r.DocumentID,
			Filename:   r.Filename,
			PageNumber: r.PageNumber,
			ChunkIndex: r.ChunkIndex,
			Content:    r.Content,
			Embedding:  vectorLiteral(r.Embedding),
		})
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

func (s *Postgres) Query(ctx context.Context, vector []float32, k int, documentIDs []string) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	literal := vectorLiteral(vector)

	var rows []chunkRow
	q := s.db.NewSelect().
		Model(&rows).
		Column("id", "document_id", "filename", "page_number", "content").
		ColumnExpr("embedding <-> ?::vector AS distance", literal).
		OrderExpr("embedding <-> ?::vector", literal).
		Limit(k)
	if len(documentIDs) > 0 {
		q = q.Where("document_id IN (?)", bun.In(documentIDs))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{
			ID:         row.ID,
			DocumentID: row.DocumentID,
			Filename:   row.Filename,
			PageNumber: row.PageNumber,
			Content:    row.Content,
			// L2 distance folded into a descending (0,1] score.
			Score: float32(1 / (1 + row.Distance)),
		})
	}
	return results, nil
}

func (s *Postgres) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.db.NewDelete().
		Model((*chunkRow)(nil)).
		Where("document_id = ?", documentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*chunkRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

func (s *Postgres) Reset(ctx context.Context) error {
	_, err := s.db.NewTruncateTable().Model((*chunkRow)(nil)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("truncate chunks: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Postgres) Close() error { return s.db.Close() }

// vectorLiteral renders a float32 slice in pgvector's input format.
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
