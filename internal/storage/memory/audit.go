package memory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type AuditRepository struct {
	store *Store
}

func NewAuditRepository(s *Store) *AuditRepository {
	return &AuditRepository{store: s}
}

func (r *AuditRepository) Append(ctx context.Context, event *model.OutboxEvent) error {
	return r.store.write(ctx, func(d *data) error {
		d.outbox = append(d.outbox, *event)
		return nil
	})
}

func (r *AuditRepository) FetchUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	r.store.read(ctx, func(d *data) {
		for _, e := range d.outbox {
			if e.PublishedAt != nil {
				continue
			}
			events = append(events, e)
			if len(events) == limit {
				return
			}
		}
	})
	return events, nil
}

func (r *AuditRepository) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	published := make(map[string]bool, len(ids))
	for _, id := range ids {
		published[id] = true
	}
	return r.store.write(ctx, func(d *data) error {
		for i := range d.outbox {
			if published[d.outbox[i].ID] {
				ts := at
				d.outbox[i].PublishedAt = &ts
			}
		}
		return nil
	})
}
