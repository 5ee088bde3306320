package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	"github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/google/uuid"
)

type outboxEmitter struct {
	repo audit.Repository
}

func NewOutboxEmitter(repo audit.Repository) audit.Emitter {
	return &outboxEmitter{repo: repo}
}

func (e *outboxEmitter) Emit(ctx context.Context, in *dto.Event) error {
	payload, err := json.Marshal(in.Payload)
	if err != nil {
		return apperror.Persistence("audit.emit", err)
	}

	event := &model.OutboxEvent{
		ID:            uuid.New().String(),
		MerchantID:    in.MerchantID,
		AggregateType: in.AggregateType,
		AggregateID:   in.AggregateID,
		EventType:     in.EventType,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
	if err := e.repo.Append(ctx, event); err != nil {
		return apperror.Persistence("audit.emit", err)
	}
	return nil
}
