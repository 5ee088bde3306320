package handler

import (
	"context"

	stockv1 "github.com/fekuna/omnipos-inventory-service/api/stock/v1"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PurchaseOrderHandler struct {
	stockv1.UnimplementedPurchaseOrderServiceServer
	uc     purchasing.UseCase
	logger logger.Logger
}

func NewPurchaseOrderHandler(uc purchasing.UseCase, log logger.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PurchaseOrderHandler) ListPurchaseOrders(ctx context.Context, req *stockv1.ListPurchaseOrdersRequest) (*stockv1.ListPurchaseOrdersResponse, error) {
	items, count, err := h.uc.ListPurchaseOrders(ctx, &dto.PurchaseOrderFilters{
		MerchantID: auth.GetMerchantID(ctx),
		Status:     req.Status,
		SupplierID: req.SupplierID,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	out := make([]*stockv1.PurchaseOrder, len(items))
	for i := range items {
		out[i] = mapOrder(&items[i])
	}
	return &stockv1.ListPurchaseOrdersResponse{Items: out, Total: int32(count)}, nil
}

func (h *PurchaseOrderHandler) GetPurchaseOrder(ctx context.Context, req *stockv1.GetPurchaseOrderRequest) (*stockv1.PurchaseOrder, error) {
	po, err := h.uc.GetPurchaseOrder(ctx, auth.GetMerchantID(ctx), req.PurchaseOrderID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapOrder(po), nil
}

func (h *PurchaseOrderHandler) CreatePurchaseOrder(ctx context.Context, req *stockv1.CreatePurchaseOrderRequest) (*stockv1.PurchaseOrder, error) {
	items := make([]dto.PurchaseOrderItemInput, len(req.Items))
	for i, it := range req.Items {
		cost, err := parseMoney("unit_cost", it.UnitCost)
		if err != nil {
			return nil, apperror.ToStatus(err)
		}
		items[i] = dto.PurchaseOrderItemInput{
			ProductID:       it.ProductID,
			QuantityOrdered: it.QuantityOrdered,
			UnitCost:        cost,
		}
	}
	tax, err := parseMoney("tax", req.Tax)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	po, err := h.uc.CreatePurchaseOrder(ctx, &dto.CreatePurchaseOrderInput{
		MerchantID:           auth.GetMerchantID(ctx),
		SupplierID:           req.SupplierID,
		DeliveryLocationID:   req.DeliveryLocationID,
		Items:                items,
		Tax:                  tax,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		UserID:               auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapOrder(po), nil
}

func (h *PurchaseOrderHandler) ApprovePurchaseOrder(ctx context.Context, req *stockv1.PurchaseOrderTransitionRequest) (*stockv1.PurchaseOrder, error) {
	po, err := h.uc.ApprovePurchaseOrder(ctx, transition(ctx, req.PurchaseOrderID))
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapOrder(po), nil
}

func (h *PurchaseOrderHandler) SendPurchaseOrder(ctx context.Context, req *stockv1.PurchaseOrderTransitionRequest) (*stockv1.PurchaseOrder, error) {
	po, err := h.uc.SendPurchaseOrder(ctx, transition(ctx, req.PurchaseOrderID))
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapOrder(po), nil
}

func (h *PurchaseOrderHandler) ReceivePurchaseOrder(ctx context.Context, req *stockv1.ReceivePurchaseOrderRequest) (*stockv1.ReceivePurchaseOrderResponse, error) {
	items := make([]dto.ReceiveItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.ReceiveItemInput{
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			ProductID:           it.ProductID,
			QuantityReceived:    it.QuantityReceived,
			QuantityAccepted:    it.QuantityAccepted,
			QuantityRejected:    it.QuantityRejected,
			RejectionReason:     it.RejectionReason,
			BatchNumber:         it.BatchNumber,
			ExpiryDate:          it.ExpiryDate,
			BinLocation:         it.BinLocation,
		}
	}

	res, err := h.uc.ReceivePurchaseOrder(ctx, &dto.ReceivePurchaseOrderInput{
		TransitionInput: *transition(ctx, req.PurchaseOrderID),
		Notes:           req.Notes,
		Items:           items,
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	if res.Failed > 0 {
		h.logger.Warn("purchase order received with failures",
			zap.String("purchase_order_id", res.PurchaseOrderID),
			zap.Int("failed", res.Failed),
		)
	}

	out := &stockv1.ReceivePurchaseOrderResponse{
		PurchaseOrderID: res.PurchaseOrderID,
		Status:          res.Status,
		GRNNumber:       res.GRNNumber,
		GoodsReceiptID:  res.GoodsReceiptID,
		Succeeded:       int32(res.Succeeded),
		Failed:          int32(res.Failed),
		Items:           make([]stockv1.ReceiveItemResult, len(res.Items)),
	}
	for i, r := range res.Items {
		out.Items[i] = stockv1.ReceiveItemResult(r)
	}
	return out, nil
}

func (h *PurchaseOrderHandler) ListGoodsReceipts(ctx context.Context, req *stockv1.ListGoodsReceiptsRequest) (*stockv1.ListGoodsReceiptsResponse, error) {
	receipts, err := h.uc.ListGoodsReceipts(ctx, auth.GetMerchantID(ctx), req.PurchaseOrderID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	out := make([]*stockv1.GoodsReceipt, len(receipts))
	for i := range receipts {
		out[i] = mapReceipt(&receipts[i])
	}
	return &stockv1.ListGoodsReceiptsResponse{Items: out}, nil
}

func transition(ctx context.Context, id string) *dto.TransitionInput {
	return &dto.TransitionInput{
		MerchantID:      auth.GetMerchantID(ctx),
		PurchaseOrderID: id,
		UserID:          auth.GetUserID(ctx),
	}
}

// parseMoney treats an empty string as zero.
func parseMoney(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperror.Validation("purchase_order.create", "%s %q is not a decimal", field, s)
	}
	return d, nil
}

func mapOrder(po *model.PurchaseOrder) *stockv1.PurchaseOrder {
	items := make([]stockv1.PurchaseOrderItem, len(po.Items))
	for i, it := range po.Items {
		items[i] = stockv1.PurchaseOrderItem{
			ID:               it.ID,
			ProductID:        it.ProductID,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			UnitCost:         it.UnitCost.String(),
			TotalCost:        it.TotalCost.StringFixed(2),
		}
	}
	return &stockv1.PurchaseOrder{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		SupplierID:           po.SupplierID,
		DeliveryLocationID:   po.DeliveryLocationID,
		Status:               string(po.Status),
		Subtotal:             po.Subtotal.StringFixed(2),
		Tax:                  po.Tax.StringFixed(2),
		Total:                po.Total.StringFixed(2),
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		CreatedBy:            po.CreatedBy,
		ApprovedBy:           deref(po.ApprovedBy),
		SentAt:               po.SentAt,
		ReceivedAt:           po.ReceivedAt,
		Notes:                po.Notes,
		Items:                items,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}

func mapReceipt(r *model.GoodsReceipt) *stockv1.GoodsReceipt {
	items := make([]stockv1.GoodsReceiptItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = stockv1.GoodsReceiptItem{
			ID:                  it.ID,
			PurchaseOrderItemID: deref(it.PurchaseOrderItemID),
			ProductID:           it.ProductID,
			QuantityReceived:    it.QuantityReceived,
			QuantityAccepted:    it.QuantityAccepted,
			QuantityRejected:    it.QuantityRejected,
			RejectionReason:     deref(it.RejectionReason),
			BatchNumber:         deref(it.BatchNumber),
			ExpiryDate:          it.ExpiryDate,
			BinLocation:         deref(it.BinLocation),
		}
	}
	return &stockv1.GoodsReceipt{
		ID:              r.ID,
		GRNNumber:       r.GRNNumber,
		PurchaseOrderID: deref(r.PurchaseOrderID),
		SupplierID:      r.SupplierID,
		LocationID:      r.LocationID,
		ReceivedBy:      r.ReceivedBy,
		Notes:           r.Notes,
		Items:           items,
		CreatedAt:       r.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
