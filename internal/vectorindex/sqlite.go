package vectorindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"

	_ "modernc.org/sqlite"

	"medbot/internal/guideline"
)

// SQLite keeps vectors as JSON rows in an in-memory sqlite database. Nothing
// is persisted across restarts; the index is rebuilt from scraped guidelines
// on every start.
type SQLite struct {
	db  *sql.DB
	n   int
	dim int
}

func NewSQLite() (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// single connection so :memory: is one shared database
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TABLE guideline_vectors (
		pos INTEGER PRIMARY KEY,
		source TEXT NOT NULL,
		text TEXT NOT NULL,
		vector TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Add(ctx context.Context, vec []float32, chunk guideline.Chunk) error {
	if s.n > 0 && len(vec) != s.dim {
		return ErrDimension
	}
	vecJSON, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO guideline_vectors(pos, source, text, vector) VALUES(?,?,?,?)`,
		s.n, chunk.Source, chunk.Text, string(vecJSON))
	if err != nil {
		return err
	}
	s.dim = len(vec)
	s.n++
	return nil
}

func (s *SQLite) Search(ctx context.Context, query []float32, k int) ([]guideline.Chunk, error) {
	if k <= 0 || s.n == 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, ErrDimension
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, text, vector FROM guideline_vectors ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	type scored struct {
		chunk guideline.Chunk
		dist  float64
	}
	var scores []scored
	for rows.Next() {
		var source, text, vecStr string
		if err := rows.Scan(&source, &text, &vecStr); err != nil {
			return nil, err
		}
		var vec []float32
		if err := json.Unmarshal([]byte(vecStr), &vec); err != nil || len(vec) != len(query) {
			continue
		}
		scores = append(scores, scored{
			chunk: guideline.Chunk{Text: text, Source: source},
			dist:  euclidean(query, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })
	if k > len(scores) {
		k = len(scores)
	}
	out := make([]guideline.Chunk, 0, k)
	for _, s := range scores[:k] {
		out = append(out, s.chunk)
	}
	return out, nil
}

func (s *SQLite) Len() int { return s.n }

func (s *SQLite) Close() error { return s.db.Close() }
