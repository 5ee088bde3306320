package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/observability"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Apply performs m against a locked record and writes its movement entry
// in the same unit of work. It joins the caller's unit of work when there
// is one. No quantity is ever written negative.
func (uc *InventoryUseCase) Apply(ctx context.Context, m *dto.Mutation) (*dto.MutationResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.apply", trace.WithAttributes(
		attribute.String("product_id", m.Key.ProductID),
		attribute.String("location_id", m.Key.LocationID),
		attribute.String("adjustment_type", string(m.Type)),
	))

	var result *dto.MutationResult
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = uc.apply(ctx, m)
		return err
	})
	observability.End(span, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *InventoryUseCase) apply(ctx context.Context, m *dto.Mutation) (*dto.MutationResult, error) {
	const op = "inventory.apply"

	rec, err := uc.repo.LockRecord(ctx, m.Key)
	if err != nil {
		return nil, apperror.Persistence(op, err)
	}

	before := rec.QuantityOnHand
	after := before + m.OnHandDelta
	if m.OnHandDelta > 0 && after < before {
		return nil, apperror.Validation(op, "on-hand quantity overflows")
	}
	if m.SetOnHand != nil {
		if *m.SetOnHand < 0 {
			return nil, apperror.Validation(op, "on-hand quantity must not be negative")
		}
		after = *m.SetOnHand
	}
	if after < 0 {
		if !m.ClampAtZero {
			return nil, apperror.InsufficientStock(op, -m.OnHandDelta, before)
		}
		after = 0
	}

	if m.ReservedDelta > 0 && rec.Available() < m.ReservedDelta {
		return nil, apperror.InsufficientStock(op, m.ReservedDelta, rec.Available())
	}
	reserved := rec.QuantityReserved + m.ReservedDelta
	if reserved < 0 {
		return nil, apperror.InsufficientStock(op, -m.ReservedDelta, rec.QuantityReserved)
	}

	inTransit := rec.QuantityInTransit + m.InTransitDelta
	if inTransit < 0 {
		return nil, apperror.InsufficientStock(op, -m.InTransitDelta, rec.QuantityInTransit)
	}

	onOrder := rec.QuantityOnOrder + m.OnOrderDelta
	if onOrder < 0 {
		if !m.ClampOnOrder {
			return nil, apperror.InsufficientStock(op, -m.OnOrderDelta, rec.QuantityOnOrder)
		}
		onOrder = 0
	}

	now := time.Now().UTC()
	rec.QuantityOnHand = after
	rec.QuantityReserved = reserved
	rec.QuantityInTransit = inTransit
	rec.QuantityOnOrder = onOrder
	rec.UpdatedAt = now
	switch {
	case m.Type.IsAbsolute():
		rec.LastCountedAt = &now
	case after > before:
		rec.LastReceivedAt = &now
	}
	if m.ReferenceType == model.ReferenceSale && after < before {
		rec.LastSoldAt = &now
	}

	if err := uc.repo.UpdateRecord(ctx, rec); err != nil {
		return nil, apperror.Persistence(op, err)
	}

	result := &dto.MutationResult{Record: rec}
	if after != before || m.LogZero {
		entry := &model.MovementEntry{
			MerchantID:      m.Key.MerchantID,
			ProductID:       m.Key.ProductID,
			LocationID:      m.Key.LocationID,
			SubLocationID:   m.Key.SubLocationID,
			AdjustmentType:  m.Type,
			QuantityChange:  after - before,
			QuantityBefore:  before,
			QuantityAfter:   after,
			Reason:          m.Reason,
			ReferenceType:   string(m.ReferenceType),
			ReferenceNumber: m.ReferenceNumber,
			Actor:           m.Actor,
			CreatedAt:       now,
		}
		if err := uc.movements.Record(ctx, entry); err != nil {
			return nil, err
		}
		result.Movement = entry
	}

	txm.AfterCommit(ctx, func() { uc.InvalidateProduct(m.Key.MerchantID, m.Key.ProductID) })
	return result, nil
}
