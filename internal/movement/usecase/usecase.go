package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	auditdto "github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement"
	"github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type movementUseCase struct {
	repo    movement.Repository
	emitter audit.Emitter
	logger  logger.Logger
}

func NewMovementUseCase(repo movement.Repository, emitter audit.Emitter, log logger.Logger) movement.UseCase {
	return &movementUseCase{
		repo:    repo,
		emitter: emitter,
		logger:  log,
	}
}

// Record appends entry and its audit event in the caller's unit of work. Any
// failure is returned so the ledger write rolls back with it.
func (uc *movementUseCase) Record(ctx context.Context, entry *model.MovementEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := uc.repo.Insert(ctx, entry); err != nil {
		uc.logger.Error("failed to record movement",
			zap.String("product_id", entry.ProductID),
			zap.String("location_id", entry.LocationID),
			zap.Error(err),
		)
		return apperror.Persistence("movement.record", err)
	}

	return uc.emitter.Emit(ctx, &auditdto.Event{
		MerchantID:    entry.MerchantID,
		AggregateType: auditdto.AggregateMovement,
		AggregateID:   entry.ID,
		EventType:     "inventory." + string(entry.AdjustmentType),
		Payload:       entry,
	})
}

func (uc *movementUseCase) Query(ctx context.Context, filters *dto.MovementFilters) ([]model.MovementEntry, int, error) {
	if filters.MerchantID == "" {
		return nil, 0, apperror.Validation("movement.query", "merchant is required")
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, 0, apperror.Validation("movement.query", "end_date is before start_date")
	}
	if filters.AdjustmentType != "" && !isKnownType(model.AdjustmentType(filters.AdjustmentType)) {
		return nil, 0, apperror.Validation("movement.query", "unknown adjustment type %q", filters.AdjustmentType)
	}
	filters.Page, filters.PageSize = pagination.Normalize(filters.Page, filters.PageSize)

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("movement.query", err)
	}
	return items, count, nil
}

func (uc *movementUseCase) History(ctx context.Context, merchantID, productID string, page, pageSize int) ([]model.MovementEntry, int, error) {
	if productID == "" {
		return nil, 0, apperror.Validation("movement.history", "product_id is required")
	}
	return uc.Query(ctx, &dto.MovementFilters{
		MerchantID: merchantID,
		ProductID:  productID,
		Page:       page,
		PageSize:   pageSize,
	})
}

func isKnownType(t model.AdjustmentType) bool {
	switch t {
	case model.MovementTransferOut, model.MovementTransferIn, model.MovementTransferCancel, model.MovementPOReceipt:
		return true
	}
	return t.IsPublic()
}
