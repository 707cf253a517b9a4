package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/xhad/eightk/internal/models"
	"github.com/xhad/eightk/internal/types"
)

type RecordStoreConfig struct {
	ConnString  string
	TableName   string
	VectorDim   int
	BatchSize   int
	SearchLimit int
	Embedder    types.Embedder // optional; without it the embedding column stays NULL
}

// RecordStore appends extracted rows to Postgres and supports similarity
// search over their product descriptions.
type RecordStore struct {
	config RecordStoreConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(ctx context.Context, config RecordStoreConfig) (*RecordStore, error) {
	config = withDefaults(config)

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rs := &RecordStore{
		config: config,
		pool:   pool,
	}

	if err := rs.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return rs, nil
}

func withDefaults(config RecordStoreConfig) RecordStoreConfig {
	if config.TableName == "" {
		config.TableName = "extracted_filings"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}
	if config.SearchLimit == 0 {
		config.SearchLimit = 5
	}
	return config
}

func (rs *RecordStore) initialize(ctx context.Context) error {
	// Enable pgvector extension
	_, err := rs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	_, err = rs.pool.Exec(ctx, createTableSQL(rs.config.TableName, rs.config.VectorDim))
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func createTableSQL(table string, dim int) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			stock_name TEXT NOT NULL,
			company_name TEXT,
			filing_time TEXT,
			new_product TEXT,
			product_description TEXT,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, pgx.Identifier{table}.Sanitize(), dim)
}

func insertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (id, run_id, position, stock_name, company_name, filing_time,
			new_product, product_description, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pgx.Identifier{table}.Sanitize())
}

// Store appends the rows of one run. Every batch commits together.
func (rs *RecordStore) Store(ctx context.Context, runID uuid.UUID, rows []models.Row) error {
	tx, err := rs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := insertSQL(rs.config.TableName)

	for _, b := range batches(len(rows), rs.config.BatchSize) {
		start, end := b[0], b[1]
		chunk := rows[start:end]

		vectors, err := rs.embed(ctx, chunk)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for i, row := range chunk {
			var embedding *pgvector.Vector
			if vectors != nil {
				v := pgvector.NewVector(vectors[i])
				embedding = &v
			}
			batch.Queue(stmt,
				uuid.NewString(),
				runID.String(),
				start+i,
				row.StockName,
				sanitizeUTF8(row.CompanyName),
				row.FilingTime,
				sanitizeUTF8(row.NewProduct),
				sanitizeUTF8(row.ProductDescription),
				embedding,
			)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert rows: %w", err)
		}
	}

	// Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (rs *RecordStore) embed(ctx context.Context, rows []models.Row) ([][]float32, error) {
	if rs.config.Embedder == nil {
		return nil, nil
	}

	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.ProductDescription
	}

	vectors, err := rs.config.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed descriptions: %w", err)
	}
	for _, v := range vectors {
		if len(v) != rs.config.VectorDim {
			return nil, fmt.Errorf("embedding has %d dimensions, table expects %d", len(v), rs.config.VectorDim)
		}
	}
	return vectors, nil
}

// Similar returns the stored rows whose descriptions are closest to embedding.
func (rs *RecordStore) Similar(ctx context.Context, embedding []float32, limit int) ([]models.Row, error) {
	if limit == 0 {
		limit = rs.config.SearchLimit
	}

	query := fmt.Sprintf(`
		SELECT stock_name, company_name, filing_time, new_product, product_description
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgx.Identifier{rs.config.TableName}.Sanitize())

	rows, err := rs.pool.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	var out []models.Row
	for rows.Next() {
		var r models.Row
		if err := rows.Scan(&r.StockName, &r.CompanyName, &r.FilingTime, &r.NewProduct, &r.ProductDescription); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// Count returns how many rows a run stored.
func (rs *RecordStore) Count(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE run_id = $1`, pgx.Identifier{rs.config.TableName}.Sanitize())
	if err := rs.pool.QueryRow(ctx, query, runID.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

func (rs *RecordStore) Close() {
	if rs.pool != nil {
		rs.pool.Close()
	}
}

// batches returns [start, end) bounds covering n items in chunks of size.
func batches(n, size int) [][2]int {
	if size <= 0 {
		size = n
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
