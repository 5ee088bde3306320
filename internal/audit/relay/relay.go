// Package relay drains the audit outbox into the configured sink.
package relay

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockKey = "lock:audit-relay"

type Relay struct {
	repo      audit.Repository
	sink      audit.Sink
	locker    cache.Locker
	logger    logger.Logger
	interval  time.Duration
	batchSize int
}

// NewRelay builds a relay. locker may be nil when only one instance runs.
func NewRelay(repo audit.Repository, sink audit.Sink, locker cache.Locker, log logger.Logger, interval time.Duration, batchSize int) *Relay {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{
		repo:      repo,
		sink:      sink,
		locker:    locker,
		logger:    log,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start drains on every tick until ctx is done. It returns only after the
// drain in flight, if any, has finished.
func (r *Relay) Start(ctx context.Context) {
	r.logger.Info("Starting audit relay", zap.String("sink", r.sink.Name()))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping audit relay")
			return
		case <-ticker.C:
			if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("Failed to drain audit outbox", zap.Error(err))
			}
		}
	}
}

// Drain publishes one batch and returns how many events were delivered. It
// stops at the first sink failure; the rest stay pending for the next tick.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	if r.locker != nil {
		token := uuid.New().String()
		ok, err := r.locker.AcquireLock(ctx, lockKey, token, 5*r.interval)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
		defer r.locker.ReleaseLock(context.WithoutCancel(ctx), lockKey, token)
	}

	events, err := r.repo.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	published := make([]string, 0, len(events))
	var publishErr error
	for i := range events {
		if err := r.sink.Publish(ctx, &events[i]); err != nil {
			publishErr = err
			r.logger.Warn("Failed to publish audit event",
				zap.String("event_id", events[i].ID),
				zap.String("sink", r.sink.Name()),
				zap.Error(err),
			)
			break
		}
		published = append(published, events[i].ID)
	}

	if err := r.repo.MarkPublished(ctx, published, time.Now().UTC()); err != nil {
		return 0, err
	}
	return len(published), publishErr
}
