package audit

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Emitter records an audit event in the caller's unit of work.
type Emitter interface {
	Emit(ctx context.Context, event *dto.Event) error
}

// Sink is the external audit store the relay publishes to.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event *model.OutboxEvent) error
}
