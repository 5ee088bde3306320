package numbering

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/jmoiron/sqlx"
)

// PGSequencer keeps counters in the number_sequences table. It is used when
// Redis is disabled; ttl is ignored because keys already carry the period.
type PGSequencer struct {
	DB *sqlx.DB
}

func NewPGSequencer(db *sqlx.DB) *PGSequencer {
	return &PGSequencer{DB: db}
}

func (s *PGSequencer) NextSequence(ctx context.Context, key string, _ time.Duration) (int64, error) {
	query := `
        INSERT INTO number_sequences (key, value, updated_at)
        VALUES ($1, 1, now())
        ON CONFLICT (key) DO UPDATE SET value = number_sequences.value + 1, updated_at = now()
        RETURNING value
    `
	var n int64
	err := sqlx.GetContext(ctx, txm.Executor(ctx, s.DB), &n, query, key)
	return n, err
}
