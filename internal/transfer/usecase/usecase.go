package usecase

import (
	"context"
	"fmt"
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
	"github.com/fekuna/omnipos-inventory-service/internal/transfer"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer/dto"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = observability.Tracer("transfer")

var eventNames = map[model.TransferStatus]string{
	model.TransferDraft:     "transfer.created",
	model.TransferApproved:  "transfer.approved",
	model.TransferInTransit: "transfer.shipped",
	model.TransferReceived:  "transfer.received",
	model.TransferCancelled: "transfer.cancelled",
}

type transferUseCase struct {
	repo      transfer.Repository
	tx        txm.Manager
	ledger    inventory.Ledger
	catalog   catalog.UseCase
	locations location.UseCase
	numbers   *numbering.Generator
	emitter   audit.Emitter
	authz     auth.Authorizer
	logger    logger.Logger
}

func NewTransferUseCase(
	repo transfer.Repository,
	tx txm.Manager,
	ledger inventory.Ledger,
	catalogUC catalog.UseCase,
	locations location.UseCase,
	numbers *numbering.Generator,
	emitter audit.Emitter,
	authz auth.Authorizer,
	log logger.Logger,
) transfer.UseCase {
	return &transferUseCase{
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

func (uc *transferUseCase) CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) (*model.StockTransfer, error) {
	const op = "transfer.create"
	if err := uc.authz.Authorize(ctx, auth.PermTransferCreate); err != nil {
		return nil, err
	}

	switch {
	case input.FromLocationID == "" || input.ToLocationID == "":
		return nil, apperror.Validation(op, "from_location_id and to_location_id are required")
	case input.FromLocationID == input.ToLocationID:
		return nil, apperror.Validation(op, "source and destination must differ")
	case len(input.Items) == 0:
		return nil, apperror.Validation(op, "at least one item is required")
	}

	productIDs := make([]string, 0, len(input.Items))
	seen := map[string]bool{}
	for _, item := range input.Items {
		switch {
		case item.ProductID == "":
			return nil, apperror.Validation(op, "product_id is required")
		case item.QuantityRequested <= 0:
			return nil, apperror.Validation(op, "quantity_requested for %q must be positive", item.ProductID)
		case seen[item.ProductID]:
			return nil, apperror.Validation(op, "product %q is listed twice", item.ProductID)
		}
		seen[item.ProductID] = true
		productIDs = append(productIDs, item.ProductID)
	}

	if _, err := uc.locations.Require(ctx, input.MerchantID, input.FromLocationID); err != nil {
		return nil, err
	}
	if _, err := uc.locations.Require(ctx, input.MerchantID, input.ToLocationID); err != nil {
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
	t := &model.StockTransfer{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID:          input.MerchantID,
		FromLocationID:      input.FromLocationID,
		ToLocationID:        input.ToLocationID,
		Status:              model.TransferDraft,
		RequestedBy:         input.UserID,
		ExpectedArrivalDate: input.ExpectedArrivalDate,
		Notes:               input.Notes,
	}
	for _, item := range input.Items {
		t.Items = append(t.Items, model.StockTransferItem{
			ID:                uuid.New().String(),
			TransferID:        t.ID,
			ProductID:         item.ProductID,
			QuantityRequested: item.QuantityRequested,
		})
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		number, err := uc.numbers.TransferNumber(ctx, input.MerchantID)
		if err != nil {
			return err
		}
		t.TransferNumber = number
		if err := uc.repo.Create(ctx, t); err != nil {
			return err
		}
		return uc.emit(ctx, t)
	})
	if err != nil {
		uc.logger.Error("failed to create transfer", zap.String("from", input.FromLocationID), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (uc *transferUseCase) ApproveTransfer(ctx context.Context, input *dto.TransitionInput) (*model.StockTransfer, error) {
	return uc.transition(ctx, input, auth.PermTransferApprove, model.TransferApproved,
		func(t *model.StockTransfer, _ time.Time) error {
			if input.UserID == "" {
				return apperror.Validation("transfer.approve", "approver identity is required")
			}
			approver := input.UserID
			t.ApprovedBy = &approver
			return nil
		},
		nil,
	)
}

// ShipTransfer moves the shipped quantity of every line from on-hand into
// in-transit at the source. Lines missing from the request ship zero. Short
// stock fails the whole shipment.
func (uc *transferUseCase) ShipTransfer(ctx context.Context, input *dto.ShipTransferInput) (*model.StockTransfer, error) {
	const op = "transfer.ship"
	shipped := map[string]int64{}

	return uc.transition(ctx, &input.TransitionInput, auth.PermTransferShip, model.TransferInTransit,
		func(t *model.StockTransfer, now time.Time) error {
			var total int64
			for _, req := range input.Items {
				item := t.Item(req.ProductID)
				if item == nil {
					return apperror.Validation(op, "product %q is not on this transfer", req.ProductID)
				}
				if _, dup := shipped[req.ProductID]; dup {
					return apperror.Validation(op, "product %q is listed twice", req.ProductID)
				}
				if req.QuantityShipped < 0 || req.QuantityShipped > item.QuantityRequested {
					return apperror.Validation(op, "quantity_shipped for %q must be between 0 and %d", req.ProductID, item.QuantityRequested)
				}
				shipped[req.ProductID] = req.QuantityShipped
				total += req.QuantityShipped
			}
			if total == 0 {
				return apperror.Validation(op, "nothing to ship")
			}
			t.ShippedAt = &now
			return nil
		},
		func(ctx context.Context, t *model.StockTransfer) ([]*invdto.Mutation, error) {
			var muts []*invdto.Mutation
			for i := range t.Items {
				item := &t.Items[i]
				qty := shipped[item.ProductID]
				item.QuantityShipped = &qty
				if err := uc.repo.UpdateItem(ctx, item); err != nil {
					return nil, apperror.Persistence(op, err)
				}
				if qty > 0 {
					m := uc.mutation(input.UserID, t, t.FromLocationID, item.ProductID, model.MovementTransferOut)
					m.OnHandDelta = -qty
					m.InTransitDelta = qty
					muts = append(muts, m)
				}
			}
			return muts, nil
		},
	)
}

// ReceiveTransfer credits the destination with what arrived and clears the
// same amount from the source's in-transit. Anything shipped but not
// received stays in transit at the source until reconciled.
func (uc *transferUseCase) ReceiveTransfer(ctx context.Context, input *dto.ReceiveTransferInput) (*model.StockTransfer, error) {
	const op = "transfer.receive"
	received := map[string]int64{}
	reasons := map[string]string{}

	return uc.transition(ctx, &input.TransitionInput, auth.PermTransferReceive, model.TransferReceived,
		func(t *model.StockTransfer, now time.Time) error {
			for _, req := range input.Items {
				item := t.Item(req.ProductID)
				if item == nil {
					return apperror.Validation(op, "product %q is not on this transfer", req.ProductID)
				}
				if _, dup := received[req.ProductID]; dup {
					return apperror.Validation(op, "product %q is listed twice", req.ProductID)
				}
				if req.QuantityReceived < 0 || req.QuantityReceived > item.Shipped() {
					return apperror.Validation(op, "quantity_received for %q must be between 0 and %d", req.ProductID, item.Shipped())
				}
				received[req.ProductID] = req.QuantityReceived
				reasons[req.ProductID] = strings.TrimSpace(req.VarianceReason)
			}
			for _, item := range t.Items {
				got := received[item.ProductID]
				if got != item.Shipped() && reasons[item.ProductID] == "" {
					return apperror.Validation(op, "variance_reason is required for %q: shipped %d, received %d",
						item.ProductID, item.Shipped(), got)
				}
			}
			t.ReceivedAt = &now
			return nil
		},
		func(ctx context.Context, t *model.StockTransfer) ([]*invdto.Mutation, error) {
			var muts []*invdto.Mutation
			for i := range t.Items {
				item := &t.Items[i]
				qty := received[item.ProductID]
				item.QuantityReceived = &qty
				if reason := reasons[item.ProductID]; reason != "" {
					item.VarianceReason = &reason
				}
				if err := uc.repo.UpdateItem(ctx, item); err != nil {
					return nil, apperror.Persistence(op, err)
				}
				if qty == 0 {
					continue
				}

				in := uc.mutation(input.UserID, t, t.ToLocationID, item.ProductID, model.MovementTransferIn)
				in.OnHandDelta = qty
				out := uc.mutation(input.UserID, t, t.FromLocationID, item.ProductID, model.MovementTransferIn)
				out.InTransitDelta = -qty
				muts = append(muts, in, out)
			}
			return muts, nil
		},
	)
}

// CancelTransfer ends a transfer. Before shipping there is nothing to undo;
// an in-transit transfer returns every shipped unit to the source.
func (uc *transferUseCase) CancelTransfer(ctx context.Context, input *dto.CancelTransferInput) (*model.StockTransfer, error) {
	var wasInTransit bool

	return uc.transition(ctx, &input.TransitionInput, auth.PermTransferCancel, model.TransferCancelled,
		func(t *model.StockTransfer, now time.Time) error {
			wasInTransit = t.Status == model.TransferInTransit
			t.CancelledAt = &now
			if reason := strings.TrimSpace(input.Reason); reason != "" {
				t.CancelReason = &reason
			}
			return nil
		},
		func(ctx context.Context, t *model.StockTransfer) ([]*invdto.Mutation, error) {
			if !wasInTransit {
				return nil, nil
			}
			var muts []*invdto.Mutation
			for _, item := range t.Items {
				if qty := item.Shipped(); qty > 0 {
					m := uc.mutation(input.UserID, t, t.FromLocationID, item.ProductID, model.MovementTransferCancel)
					m.OnHandDelta = qty
					m.InTransitDelta = -qty
					if t.CancelReason != nil {
						m.Reason = *t.CancelReason
					}
					muts = append(muts, m)
				}
			}
			return muts, nil
		},
	)
}

func (uc *transferUseCase) GetTransfer(ctx context.Context, merchantID, id string) (*model.StockTransfer, error) {
	if id == "" {
		return nil, apperror.Validation("transfer.get", "transfer_id is required")
	}
	t, err := uc.repo.FindByID(ctx, merchantID, id)
	if err != nil {
		return nil, apperror.Persistence("transfer.get", err)
	}
	if t == nil {
		return nil, apperror.NotFound("transfer.get", "transfer", id)
	}
	return t, nil
}

func (uc *transferUseCase) ListTransfers(ctx context.Context, filters *dto.TransferFilters) ([]model.StockTransfer, int, error) {
	if filters.Status != "" {
		if _, ok := eventNames[model.TransferStatus(filters.Status)]; !ok {
			return nil, 0, apperror.Validation("transfer.list", "unknown status %q", filters.Status)
		}
	}
	filters.Page, filters.PageSize = pagination.Normalize(filters.Page, filters.PageSize)

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("transfer.list", err)
	}
	return items, count, nil
}

type prepareFunc func(t *model.StockTransfer, now time.Time) error

type effectsFunc func(ctx context.Context, t *model.StockTransfer) ([]*invdto.Mutation, error)

// transition runs one status change as a single unit of work: validate the
// request against the current state, claim the new status with a guarded
// update, then apply the ledger mutations the change implies.
func (uc *transferUseCase) transition(ctx context.Context, input *dto.TransitionInput, perm auth.Permission, next model.TransferStatus, prepare prepareFunc, effects effectsFunc) (*model.StockTransfer, error) {
	op := "transfer." + string(next)
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("transfer_id", input.TransferID),
		attribute.String("next_status", string(next)),
	))

	var result *model.StockTransfer
	err := func() error {
		if err := uc.authz.Authorize(ctx, perm); err != nil {
			return err
		}
		if input.TransferID == "" {
			return apperror.Validation(op, "transfer_id is required")
		}

		return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
			t, err := uc.repo.FindByID(ctx, input.MerchantID, input.TransferID)
			if err != nil {
				return apperror.Persistence(op, err)
			}
			if t == nil {
				return apperror.NotFound(op, "transfer", input.TransferID)
			}
			if !t.Status.CanTransitionTo(next) {
				return apperror.Validation(op, "cannot move transfer %s from %s to %s", t.TransferNumber, t.Status, next)
			}

			now := time.Now().UTC()
			if err := prepare(t, now); err != nil {
				return err
			}
			expected := t.Status
			t.Status = next
			t.UpdatedAt = now
			if err := uc.repo.UpdateStatus(ctx, t, expected); err != nil {
				return apperror.Persistence(op, err)
			}

			if effects != nil {
				muts, err := effects(ctx, t)
				if err != nil {
					return err
				}
				if err := uc.applyOrdered(ctx, muts); err != nil {
					return err
				}
			}
			if err := uc.emit(ctx, t); err != nil {
				return err
			}
			result = t
			return nil
		})
	}()
	observability.End(span, err)
	if err != nil {
		uc.logger.Warn("transfer transition failed",
			zap.String("transfer_id", input.TransferID),
			zap.String("next_status", string(next)),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

// applyOrdered locks records in key order so two transfers touching the
// same pair of locations cannot deadlock each other.
func (uc *transferUseCase) applyOrdered(ctx context.Context, muts []*invdto.Mutation) error {
	sort.SliceStable(muts, func(i, j int) bool {
		return muts[i].Key.String() < muts[j].Key.String()
	})
	for _, m := range muts {
		if _, err := uc.ledger.Apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (uc *transferUseCase) mutation(actor string, t *model.StockTransfer, locationID, productID string, kind model.AdjustmentType) *invdto.Mutation {
	return &invdto.Mutation{
		Key: model.StockKey{
			MerchantID: t.MerchantID,
			ProductID:  productID,
			LocationID: locationID,
		},
		Type:            kind,
		Reason:          fmt.Sprintf("transfer %s", t.TransferNumber),
		ReferenceType:   model.ReferenceTransfer,
		ReferenceNumber: t.TransferNumber,
		Actor:           actor,
	}
}

func (uc *transferUseCase) emit(ctx context.Context, t *model.StockTransfer) error {
	return uc.emitter.Emit(ctx, &auditdto.Event{
		MerchantID:    t.MerchantID,
		AggregateType: auditdto.AggregateTransfer,
		AggregateID:   t.ID,
		EventType:     eventNames[t.Status],
		Payload:       t,
	})
}
