package vectorindex

import (
	"context"
	"errors"
	"os"
)

// NewFromEnv creates an Index based on env configuration.
// MEDBOT_VECTOR_PROVIDER: "memory"(default) | "sqlite" | "pgvector"
// PG DSN env: MEDBOT_PGVECTOR_DSN
func NewFromEnv(ctx context.Context) (Index, error) {
	switch os.Getenv("MEDBOT_VECTOR_PROVIDER") {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite()
	case "pgvector":
		dsn := os.Getenv("MEDBOT_PGVECTOR_DSN")
		if dsn == "" {
			return nil, errors.New("vectorindex: MEDBOT_PGVECTOR_DSN required for pgvector provider")
		}
		return NewPGVector(ctx, dsn)
	default:
		return nil, errors.New("vectorindex: unknown provider " + os.Getenv("MEDBOT_VECTOR_PROVIDER"))
	}
}
