package vectorindex

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"medbot/internal/guideline"
)

// PGVector stores embeddings in PostgreSQL with the pgvector extension.
// The <-> operator is Euclidean distance, matching the other providers.
type PGVector struct {
	pool *pgxpool.Pool
	n    int
}

func NewPGVector(ctx context.Context, dsn string) (*PGVector, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		pool.Close()
		return nil, err
	}
	_, err = pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS guideline_vectors (
		pos integer PRIMARY KEY,
		source text NOT NULL,
		text text NOT NULL,
		embedding vector(%d) NOT NULL
	)`, Dim))
	if err != nil {
		pool.Close()
		return nil, err
	}
	// the index is rebuilt from scratch on every start
	if _, err := pool.Exec(ctx, `TRUNCATE guideline_vectors`); err != nil {
		pool.Close()
		return nil, err
	}
	return &PGVector{pool: pool}, nil
}

func (p *PGVector) Add(ctx context.Context, vec []float32, chunk guideline.Chunk) error {
	if len(vec) != Dim {
		return ErrDimension
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO guideline_vectors(pos, source, text, embedding) VALUES($1,$2,$3,$4)`,
		p.n, chunk.Source, chunk.Text, pgvector.NewVector(vec))
	if err != nil {
		return err
	}
	p.n++
	return nil
}

func (p *PGVector) Search(ctx context.Context, query []float32, k int) ([]guideline.Chunk, error) {
	if k <= 0 || p.n == 0 {
		return nil, nil
	}
	if len(query) != Dim {
		return nil, ErrDimension
	}
	rows, err := p.pool.Query(ctx,
		`SELECT source, text FROM guideline_vectors ORDER BY embedding <-> $1 LIMIT $2`,
		pgvector.NewVector(query), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []guideline.Chunk
	for rows.Next() {
		var c guideline.Chunk
		if err := rows.Scan(&c.Source, &c.Text); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *PGVector) Len() int { return p.n }

func (p *PGVector) Close() { p.pool.Close() }
