package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Append(ctx context.Context, e *model.OutboxEvent) error {
	query := `
        INSERT INTO audit_outbox (id, merchant_id, aggregate_type, aggregate_id, event_type, payload, created_at)
        VALUES (:id, :merchant_id, :aggregate_type, :aggregate_id, :event_type, :payload, :created_at)
    `
	_, err := sqlx.NamedExecContext(ctx, txm.Executor(ctx, r.DB), query, e)
	return err
}

func (r *PGRepository) FetchUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	query := `
        SELECT * FROM audit_outbox
        WHERE published_at IS NULL
        ORDER BY created_at ASC
        LIMIT $1
    `
	err := r.DB.SelectContext(ctx, &events, query, limit)
	return events, err
}

func (r *PGRepository) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE audit_outbox SET published_at = ? WHERE id IN (?)`, at, ids)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	return err
}
