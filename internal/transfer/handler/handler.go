package handler

import (
	"context"

	stockv1 "github.com/fekuna/omnipos-inventory-service/api/stock/v1"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer/dto"
	"go.uber.org/zap"
)

type TransferHandler struct {
	stockv1.UnimplementedTransferServiceServer
	uc     transfer.UseCase
	logger logger.Logger
}

func NewTransferHandler(uc transfer.UseCase, log logger.Logger) *TransferHandler {
	return &TransferHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransferHandler) ListTransfers(ctx context.Context, req *stockv1.ListTransfersRequest) (*stockv1.ListTransfersResponse, error) {
	items, count, err := h.uc.ListTransfers(ctx, &dto.TransferFilters{
		MerchantID:     auth.GetMerchantID(ctx),
		Status:         req.Status,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Page:           int(req.Page),
		PageSize:       int(req.PageSize),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	out := make([]*stockv1.Transfer, len(items))
	for i := range items {
		out[i] = mapTransfer(&items[i])
	}
	return &stockv1.ListTransfersResponse{Items: out, Total: int32(count)}, nil
}

func (h *TransferHandler) GetTransfer(ctx context.Context, req *stockv1.GetTransferRequest) (*stockv1.Transfer, error) {
	t, err := h.uc.GetTransfer(ctx, auth.GetMerchantID(ctx), req.TransferID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapTransfer(t), nil
}

func (h *TransferHandler) CreateTransfer(ctx context.Context, req *stockv1.CreateTransferRequest) (*stockv1.Transfer, error) {
	items := make([]dto.TransferItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.TransferItemInput{ProductID: it.ProductID, QuantityRequested: it.QuantityRequested}
	}

	t, err := h.uc.CreateTransfer(ctx, &dto.CreateTransferInput{
		MerchantID:          auth.GetMerchantID(ctx),
		FromLocationID:      req.FromLocationID,
		ToLocationID:        req.ToLocationID,
		Items:               items,
		Notes:               req.Notes,
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		UserID:              auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapTransfer(t), nil
}

func (h *TransferHandler) ApproveTransfer(ctx context.Context, req *stockv1.ApproveTransferRequest) (*stockv1.Transfer, error) {
	t, err := h.uc.ApproveTransfer(ctx, transition(ctx, req.TransferID))
	if err != nil {
		return nil, h.fail("approve", req.TransferID, err)
	}
	return mapTransfer(t), nil
}

func (h *TransferHandler) ShipTransfer(ctx context.Context, req *stockv1.ShipTransferRequest) (*stockv1.Transfer, error) {
	items := make([]dto.ShipItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.ShipItemInput{ProductID: it.ProductID, QuantityShipped: it.QuantityShipped}
	}

	t, err := h.uc.ShipTransfer(ctx, &dto.ShipTransferInput{
		TransitionInput: *transition(ctx, req.TransferID),
		Items:           items,
	})
	if err != nil {
		return nil, h.fail("ship", req.TransferID, err)
	}
	return mapTransfer(t), nil
}

func (h *TransferHandler) ReceiveTransfer(ctx context.Context, req *stockv1.ReceiveTransferRequest) (*stockv1.Transfer, error) {
	items := make([]dto.ReceiveItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.ReceiveItemInput{
			ProductID:        it.ProductID,
			QuantityReceived: it.QuantityReceived,
			VarianceReason:   it.VarianceReason,
		}
	}

	t, err := h.uc.ReceiveTransfer(ctx, &dto.ReceiveTransferInput{
		TransitionInput: *transition(ctx, req.TransferID),
		Items:           items,
	})
	if err != nil {
		return nil, h.fail("receive", req.TransferID, err)
	}
	return mapTransfer(t), nil
}

func (h *TransferHandler) CancelTransfer(ctx context.Context, req *stockv1.CancelTransferRequest) (*stockv1.Transfer, error) {
	t, err := h.uc.CancelTransfer(ctx, &dto.CancelTransferInput{
		TransitionInput: *transition(ctx, req.TransferID),
		Reason:          req.Reason,
	})
	if err != nil {
		return nil, h.fail("cancel", req.TransferID, err)
	}
	return mapTransfer(t), nil
}

func (h *TransferHandler) fail(action, id string, err error) error {
	h.logger.Warn("transfer transition failed",
		zap.String("action", action),
		zap.String("transfer_id", id),
		zap.Error(err),
	)
	return apperror.ToStatus(err)
}

func transition(ctx context.Context, id string) *dto.TransitionInput {
	return &dto.TransitionInput{
		MerchantID: auth.GetMerchantID(ctx),
		TransferID: id,
		UserID:     auth.GetUserID(ctx),
	}
}

func mapTransfer(t *model.StockTransfer) *stockv1.Transfer {
	items := make([]stockv1.TransferItem, len(t.Items))
	for i, it := range t.Items {
		items[i] = stockv1.TransferItem{
			ID:                it.ID,
			ProductID:         it.ProductID,
			QuantityRequested: it.QuantityRequested,
			QuantityShipped:   it.QuantityShipped,
			QuantityReceived:  it.QuantityReceived,
			VarianceReason:    deref(it.VarianceReason),
		}
	}
	return &stockv1.Transfer{
		ID:                  t.ID,
		TransferNumber:      t.TransferNumber,
		FromLocationID:      t.FromLocationID,
		ToLocationID:        t.ToLocationID,
		Status:              string(t.Status),
		RequestedBy:         t.RequestedBy,
		ApprovedBy:          deref(t.ApprovedBy),
		ExpectedArrivalDate: t.ExpectedArrivalDate,
		ShippedAt:           t.ShippedAt,
		ReceivedAt:          t.ReceivedAt,
		CancelledAt:         t.CancelledAt,
		CancelReason:        deref(t.CancelReason),
		Notes:               t.Notes,
		Items:               items,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
