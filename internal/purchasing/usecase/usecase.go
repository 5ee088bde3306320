package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	auditdto "github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/catalog"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/location"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/numbering"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/observability"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = observability.Tracer("purchasing")

type purchasingUseCase struct {
	repo      purchasing.Repository
	tx        txm.Manager
	ledger    inventory.Ledger
	catalog   catalog.UseCase
	locations location.UseCase
	numbers   *numbering.Generator
	emitter   audit.Emitter
	authz     auth.Authorizer
	logger    logger.Logger
}

func NewPurchasingUseCase(
	repo purchasing.Repository,
	tx txm.Manager,
	ledger inventory.Ledger,
	catalogUC catalog.UseCase,
	locations location.UseCase,
	numbers *numbering.Generator,
	emitter audit.Emitter,
	authz auth.Authorizer,
	log logger.Logger,
) purchasing.UseCase {
	return &purchasingUseCase{
		repo:      repo,
		tx:        tx,
		ledger:    ledger,
		catalog:   catalogUC,
		locations: locations,
		numbers:   numbers,
		emitter:   emitter,
		authz:     authz,
		logger:    log,
	}
}

func (uc *purchasingUseCase) CreatePurchaseOrder(ctx context.Context, input *dto.CreatePurchaseOrderInput) (*model.PurchaseOrder, error) {
	const op = "purchase_order.create"
	if err := uc.authz.Authorize(ctx, auth.PermPurchaseCreate); err != nil {
		return nil, err
	}

	switch {
	case input.SupplierID == "":
		return nil, apperror.Validation(op, "supplier_id is required")
	case input.DeliveryLocationID == "":
		return nil, apperror.Validation(op, "delivery_location_id is required")
	case len(input.Items) == 0:
		return nil, apperror.Validation(op, "at least one item is required")
	case input.Tax.IsNegative():
		return nil, apperror.Validation(op, "tax must not be negative")
	}

	productIDs := make([]string, 0, len(input.Items))
	seen := map[string]bool{}
	for _, item := range input.Items {
		switch {
		case item.ProductID == "":
			return nil, apperror.Validation(op, "product_id is required")
		case item.QuantityOrdered <= 0:
			return nil, apperror.Validation(op, "quantity_ordered for %q must be positive", item.ProductID)
		case item.UnitCost.IsNegative():
			return nil, apperror.Validation(op, "unit_cost for %q must not be negative", item.ProductID)
		case seen[item.ProductID]:
			return nil, apperror.Validation(op, "product %q is listed twice", item.ProductID)
		}
		seen[item.ProductID] = true
		productIDs = append(productIDs, item.ProductID)
	}

	supplier, err := uc.repo.FindSupplier(ctx, input.MerchantID, input.SupplierID)
	if err != nil {
		return nil, apperror.Persistence(op, err)
	}
	if supplier == nil {
		return nil, apperror.NotFound(op, "supplier", input.SupplierID)
	}
	if !supplier.IsActive {
		return nil, apperror.Validation(op, "supplier %s is inactive", supplier.Code)
	}
	if _, err := uc.locations.Require(ctx, input.MerchantID, input.DeliveryLocationID); err != nil {
		return nil, err
	}
	products, err := uc.catalog.FindByIDs(ctx, input.MerchantID, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			return nil, apperror.NotFound(op, "product", id)
		}
	}

	now := time.Now().UTC()
	po := &model.PurchaseOrder{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID:           input.MerchantID,
		SupplierID:           input.SupplierID,
		DeliveryLocationID:   input.DeliveryLocationID,
		Status:               model.PODraft,
		Tax:                  input.Tax,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		CreatedBy:            input.UserID,
		Notes:                input.Notes,
	}
	for _, item := range input.Items {
		line := model.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       item.ProductID,
			QuantityOrdered: item.QuantityOrdered,
			UnitCost:        item.UnitCost,
			TotalCost:       item.UnitCost.Mul(decimal.NewFromInt(item.QuantityOrdered)),
		}
		po.Subtotal = po.Subtotal.Add(line.TotalCost)
		po.Items = append(po.Items, line)
	}
	po.Total = po.Subtotal.Add(po.Tax)

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		number, err := uc.numbers.PurchaseOrderNumber(ctx, input.MerchantID)
		if err != nil {
			return err
		}
		po.PONumber = number
		if err := uc.repo.Create(ctx, po); err != nil {
			return apperror.Persistence(op, err)
		}
		return uc.emit(ctx, po, "purchase_order.created")
	})
	if err != nil {
		uc.logger.Error("failed to create purchase order", zap.String("supplier_id", input.SupplierID), zap.Error(err))
		return nil, err
	}
	return po, nil
}

func (uc *purchasingUseCase) ApprovePurchaseOrder(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error) {
	return uc.transition(ctx, input, auth.PermPurchaseApprove, model.POApproved, model.PODraft,
		func(ctx context.Context, po *model.PurchaseOrder, now time.Time) error {
			if input.UserID == "" {
				return apperror.Validation("purchase_order.approve", "approver identity is required")
			}
			approver := input.UserID
			po.ApprovedBy = &approver
			return nil
		},
	)
}

// SendPurchaseOrder marks the order as placed with the supplier and books
// every ordered quantity as on-order at the delivery location.
func (uc *purchasingUseCase) SendPurchaseOrder(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error) {
	return uc.transition(ctx, input, auth.PermPurchaseSend, model.POSent, model.POApproved,
		func(ctx context.Context, po *model.PurchaseOrder, now time.Time) error {
			po.SentAt = &now
			muts := make([]*invdto.Mutation, 0, len(po.Items))
			for _, item := range po.Items {
				muts = append(muts, &invdto.Mutation{
					Key: model.StockKey{
						MerchantID: po.MerchantID,
						ProductID:  item.ProductID,
						LocationID: po.DeliveryLocationID,
					},
					Type:            model.MovementPOReceipt,
					OnOrderDelta:    item.QuantityOrdered,
					ReferenceType:   model.ReferencePurchaseOrder,
					ReferenceNumber: po.PONumber,
					Actor:           input.UserID,
				})
			}
			// Key order keeps concurrent sends to one location from deadlocking.
			sort.SliceStable(muts, func(i, j int) bool {
				return muts[i].Key.String() < muts[j].Key.String()
			})
			for _, m := range muts {
				if _, err := uc.ledger.Apply(ctx, m); err != nil {
					return err
				}
			}
			return nil
		},
	)
}

// ReceivePurchaseOrder books a supplier delivery. Each line is its own unit
// of work and reported separately. The goods receipt is created with the
// first line that succeeds. Afterwards the order is received when every
// line is complete and partially_received otherwise.
func (uc *purchasingUseCase) ReceivePurchaseOrder(ctx context.Context, input *dto.ReceivePurchaseOrderInput) (*dto.ReceiveResult, error) {
	const op = "purchase_order.receive"
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("purchase_order_id", input.PurchaseOrderID),
		attribute.Int("items", len(input.Items)),
	))
	result, err := uc.receive(ctx, input)
	observability.End(span, err)
	return result, err
}

func (uc *purchasingUseCase) receive(ctx context.Context, input *dto.ReceivePurchaseOrderInput) (*dto.ReceiveResult, error) {
	const op = "purchase_order.receive"
	if err := uc.authz.Authorize(ctx, auth.PermPurchaseReceive); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperror.Validation(op, "at least one item is required")
	}

	po, err := uc.GetPurchaseOrder(ctx, input.MerchantID, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if !po.CanReceive() {
		return nil, apperror.Validation(op, "cannot receive against a %s purchase order", po.Status)
	}

	result := &dto.ReceiveResult{
		PurchaseOrderID: po.ID,
		Status:          string(po.Status),
		Items:           make([]dto.ReceiveItemResult, 0, len(input.Items)),
	}

	var receipt *model.GoodsReceipt
	for _, item := range input.Items {
		res := dto.ReceiveItemResult{
			PurchaseOrderItemID: item.PurchaseOrderItemID,
			ProductID:           item.ProductID,
			QuantityReceived:    item.QuantityReceived,
			QuantityAccepted:    item.QuantityAccepted,
		}

		pending := receipt
		var movement *model.MovementEntry
		err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			pending, movement, err = uc.receiveOne(ctx, po, pending, input, item)
			return err
		})
		if err != nil {
			uc.logger.Warn("purchase order line not received",
				zap.String("po_number", po.PONumber),
				zap.String("po_item_id", item.PurchaseOrderItemID),
				zap.Error(err),
			)
			res.Error = apperror.Message(err)
			result.Failed++
			result.Items = append(result.Items, res)
			continue
		}

		receipt = pending
		res.Success = true
		if res.ProductID == "" {
			res.ProductID = po.Item(item.PurchaseOrderItemID).ProductID
		}
		if movement != nil {
			res.MovementID = movement.ID
		}
		result.Succeeded++
		result.Items = append(result.Items, res)
	}

	if receipt != nil {
		result.GoodsReceiptID = receipt.ID
		result.GRNNumber = receipt.GRNNumber
	}
	if result.Succeeded == 0 {
		return result, nil
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		fresh, err := uc.repo.FindByID(ctx, po.MerchantID, po.ID)
		if err != nil {
			return apperror.Persistence(op, err)
		}
		if fresh == nil {
			return apperror.NotFound(op, "purchase order", po.ID)
		}
		expected := fresh.Status
		now := time.Now().UTC()
		fresh.Status = model.POPartiallyReceived
		if fresh.FullyReceived() {
			fresh.Status = model.POReceived
			fresh.ReceivedAt = &now
		}
		fresh.UpdatedAt = now
		if err := uc.repo.UpdateStatus(ctx, fresh, expected); err != nil {
			return apperror.Persistence(op, err)
		}
		result.Status = string(fresh.Status)
		return uc.emit(ctx, fresh, "purchase_order."+string(fresh.Status))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *purchasingUseCase) receiveOne(ctx context.Context, po *model.PurchaseOrder, receipt *model.GoodsReceipt, input *dto.ReceivePurchaseOrderInput, in dto.ReceiveItemInput) (*model.GoodsReceipt, *model.MovementEntry, error) {
	const op = "purchase_order.receive"

	line := po.Item(in.PurchaseOrderItemID)
	if line == nil {
		return nil, nil, apperror.NotFound(op, "purchase order item", in.PurchaseOrderItemID)
	}
	rejected := in.QuantityRejected
	if rejected == 0 {
		rejected = in.QuantityReceived - in.QuantityAccepted
	}
	reason := strings.TrimSpace(in.RejectionReason)
	switch {
	case in.ProductID != "" && in.ProductID != line.ProductID:
		return nil, nil, apperror.Validation(op, "item %s is for product %q, not %q", line.ID, line.ProductID, in.ProductID)
	case in.QuantityReceived <= 0:
		return nil, nil, apperror.Validation(op, "quantity_received must be positive")
	case in.QuantityAccepted < 0 || in.QuantityAccepted > in.QuantityReceived:
		return nil, nil, apperror.Validation(op, "quantity_accepted must be between 0 and %d", in.QuantityReceived)
	case in.QuantityAccepted+rejected != in.QuantityReceived:
		return nil, nil, apperror.Validation(op, "accepted %d plus rejected %d must equal received %d", in.QuantityAccepted, rejected, in.QuantityReceived)
	case rejected > 0 && reason == "":
		return nil, nil, apperror.Validation(op, "rejection_reason is required when stock is rejected")
	}

	locked, err := uc.repo.LockItem(ctx, po.ID, line.ID)
	if err != nil {
		return nil, nil, apperror.Persistence(op, err)
	}
	outstanding := locked.Outstanding()
	locked.QuantityReceived += in.QuantityReceived
	if err := uc.repo.UpdateItemReceived(ctx, locked); err != nil {
		return nil, nil, apperror.Persistence(op, err)
	}

	if receipt == nil {
		number, err := uc.numbers.ReceiptNumber(ctx, po.MerchantID)
		if err != nil {
			return nil, nil, err
		}
		poID := po.ID
		receipt = &model.GoodsReceipt{
			ID:              uuid.New().String(),
			MerchantID:      po.MerchantID,
			GRNNumber:       number,
			PurchaseOrderID: &poID,
			SupplierID:      po.SupplierID,
			LocationID:      po.DeliveryLocationID,
			ReceivedBy:      input.UserID,
			Notes:           input.Notes,
			CreatedAt:       time.Now().UTC(),
		}
		if err := uc.repo.CreateReceipt(ctx, receipt); err != nil {
			return nil, nil, apperror.Persistence(op, err)
		}
	}

	lineID := line.ID
	bin := strings.TrimSpace(in.BinLocation)
	grnItem := &model.GoodsReceiptItem{
		ID:                  uuid.New().String(),
		GoodsReceiptID:      receipt.ID,
		PurchaseOrderItemID: &lineID,
		ProductID:           line.ProductID,
		QuantityReceived:    in.QuantityReceived,
		QuantityAccepted:    in.QuantityAccepted,
		QuantityRejected:    rejected,
		RejectionReason:     optional(reason),
		BatchNumber:         optional(strings.TrimSpace(in.BatchNumber)),
		ExpiryDate:          in.ExpiryDate,
		BinLocation:         optional(bin),
		CreatedAt:           time.Now().UTC(),
	}
	if err := uc.repo.AddReceiptItem(ctx, grnItem); err != nil {
		return nil, nil, apperror.Persistence(op, err)
	}

	// on_order was only booked if the order went through Send.
	var onOrderRelief int64
	if po.SentAt != nil {
		onOrderRelief = min(in.QuantityReceived, outstanding)
	}

	base := model.StockKey{MerchantID: po.MerchantID, ProductID: line.ProductID, LocationID: po.DeliveryLocationID}
	credit := &invdto.Mutation{
		Key:             base,
		Type:            model.MovementPOReceipt,
		OnHandDelta:     in.QuantityAccepted,
		Reason:          "goods receipt " + receipt.GRNNumber,
		ReferenceType:   model.ReferencePurchaseOrder,
		ReferenceNumber: po.PONumber,
		Actor:           input.UserID,
	}
	muts := []*invdto.Mutation{credit}
	if bin == "" {
		credit.OnOrderDelta = -onOrderRelief
		credit.ClampOnOrder = true
	} else {
		credit.Key.SubLocationID = bin
		if onOrderRelief > 0 {
			relief := *credit
			relief.Key = base
			relief.OnHandDelta = 0
			relief.OnOrderDelta = -onOrderRelief
			relief.ClampOnOrder = true
			muts = []*invdto.Mutation{&relief, credit}
		}
	}

	var movement *model.MovementEntry
	for _, m := range muts {
		if m.OnHandDelta == 0 && m.OnOrderDelta == 0 {
			continue
		}
		applied, err := uc.ledger.Apply(ctx, m)
		if err != nil {
			return nil, nil, err
		}
		if applied.Movement != nil {
			movement = applied.Movement
		}
	}
	return receipt, movement, nil
}

func (uc *purchasingUseCase) GetPurchaseOrder(ctx context.Context, merchantID, id string) (*model.PurchaseOrder, error) {
	if id == "" {
		return nil, apperror.Validation("purchase_order.get", "purchase_order_id is required")
	}
	po, err := uc.repo.FindByID(ctx, merchantID, id)
	if err != nil {
		return nil, apperror.Persistence("purchase_order.get", err)
	}
	if po == nil {
		return nil, apperror.NotFound("purchase_order.get", "purchase order", id)
	}
	return po, nil
}

func (uc *purchasingUseCase) ListPurchaseOrders(ctx context.Context, filters *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error) {
	filters.Page, filters.PageSize = pagination.Normalize(filters.Page, filters.PageSize)
	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("purchase_order.list", err)
	}
	return items, count, nil
}

func (uc *purchasingUseCase) GetGoodsReceipt(ctx context.Context, merchantID, id string) (*model.GoodsReceipt, error) {
	receipt, err := uc.repo.FindReceipt(ctx, merchantID, id)
	if err != nil {
		return nil, apperror.Persistence("goods_receipt.get", err)
	}
	if receipt == nil {
		return nil, apperror.NotFound("goods_receipt.get", "goods receipt", id)
	}
	return receipt, nil
}

func (uc *purchasingUseCase) ListGoodsReceipts(ctx context.Context, merchantID, purchaseOrderID string) ([]model.GoodsReceipt, error) {
	if _, err := uc.GetPurchaseOrder(ctx, merchantID, purchaseOrderID); err != nil {
		return nil, err
	}
	receipts, err := uc.repo.ListReceipts(ctx, merchantID, purchaseOrderID)
	if err != nil {
		return nil, apperror.Persistence("goods_receipt.list", err)
	}
	return receipts, nil
}

type applyFunc func(ctx context.Context, po *model.PurchaseOrder, now time.Time) error

func (uc *purchasingUseCase) transition(ctx context.Context, input *dto.TransitionInput, perm auth.Permission, next, from model.POStatus, apply applyFunc) (*model.PurchaseOrder, error) {
	op := "purchase_order." + string(next)
	if err := uc.authz.Authorize(ctx, perm); err != nil {
		return nil, err
	}

	var result *model.PurchaseOrder
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		po, err := uc.GetPurchaseOrder(ctx, input.MerchantID, input.PurchaseOrderID)
		if err != nil {
			return err
		}
		if po.Status != from {
			return apperror.Validation(op, "cannot move purchase order %s from %s to %s", po.PONumber, po.Status, next)
		}

		now := time.Now().UTC()
		po.Status = next
		po.UpdatedAt = now
		if err := apply(ctx, po, now); err != nil {
			return err
		}
		if err := uc.repo.UpdateStatus(ctx, po, from); err != nil {
			return apperror.Persistence(op, err)
		}
		result = po
		return uc.emit(ctx, po, op)
	})
	if err != nil {
		uc.logger.Warn("purchase order transition failed",
			zap.String("purchase_order_id", input.PurchaseOrderID),
			zap.String("next_status", string(next)),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

func (uc *purchasingUseCase) emit(ctx context.Context, po *model.PurchaseOrder, eventType string) error {
	return uc.emitter.Emit(ctx, &auditdto.Event{
		MerchantID:    po.MerchantID,
		AggregateType: auditdto.AggregatePurchaseOrder,
		AggregateID:   po.ID,
		EventType:     eventType,
		Payload:       po,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
