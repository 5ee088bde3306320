package handler

import (
	"context"

	stockv1 "github.com/fekuna/omnipos-inventory-service/api/stock/v1"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement"
	movementdto "github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	stockv1.UnimplementedInventoryServiceServer
	uc        inventory.UseCase
	movements movement.UseCase
	logger    logger.Logger
}

func NewInventoryHandler(uc inventory.UseCase, movements movement.UseCase, log logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		uc:        uc,
		movements: movements,
		logger:    log,
	}
}

func (h *InventoryHandler) ListInventory(ctx context.Context, req *stockv1.ListInventoryRequest) (*stockv1.ListInventoryResponse, error) {
	items, count, err := h.uc.ListInventory(ctx, &dto.InventoryFilters{
		MerchantID: auth.GetMerchantID(ctx),
		LocationID: req.LocationID,
		ProductID:  req.ProductID,
		LowStock:   req.LowStock,
		OutOfStock: req.OutOfStock,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListInventoryResponse{Items: mapViews(items), Total: int32(count)}, nil
}

func (h *InventoryHandler) GetByLocation(ctx context.Context, req *stockv1.GetByLocationRequest) (*stockv1.ListInventoryResponse, error) {
	items, count, err := h.uc.GetByLocation(ctx, &dto.InventoryFilters{
		MerchantID: auth.GetMerchantID(ctx),
		LocationID: req.LocationID,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListInventoryResponse{Items: mapViews(items), Total: int32(count)}, nil
}

func (h *InventoryHandler) GetByProduct(ctx context.Context, req *stockv1.GetByProductRequest) (*stockv1.ProductStockResponse, error) {
	stock, err := h.uc.GetByProduct(ctx, auth.GetMerchantID(ctx), req.ProductID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ProductStockResponse{
		ProductID: stock.ProductID,
		Locations: mapViews(stock.Locations),
		Totals: stockv1.StockTotals{
			QuantityOnHand:    stock.Totals.OnHand,
			QuantityReserved:  stock.Totals.Reserved,
			QuantityAvailable: stock.Totals.Available,
			QuantityOnOrder:   stock.Totals.OnOrder,
			QuantityInTransit: stock.Totals.InTransit,
		},
	}, nil
}

func (h *InventoryHandler) ListLowStock(ctx context.Context, req *stockv1.ListLowStockRequest) (*stockv1.ListInventoryResponse, error) {
	items, count, err := h.uc.ListLowStock(ctx, auth.GetMerchantID(ctx), req.LocationID, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListInventoryResponse{Items: mapViews(items), Total: int32(count)}, nil
}

func (h *InventoryHandler) AdjustInventory(ctx context.Context, req *stockv1.AdjustInventoryRequest) (*stockv1.MutationResponse, error) {
	res, err := h.uc.AdjustInventory(ctx, &dto.AdjustInventoryInput{
		MerchantID:      auth.GetMerchantID(ctx),
		ProductID:       req.ProductID,
		LocationID:      req.LocationID,
		SubLocationID:   req.SubLocationID,
		AdjustmentType:  req.AdjustmentType,
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		ReferenceType:   req.ReferenceType,
		ReferenceNumber: req.ReferenceNumber,
		UserID:          auth.GetUserID(ctx),
	})
	if err != nil {
		h.logger.Warn("adjust inventory failed",
			zap.String("product_id", req.ProductID),
			zap.String("location_id", req.LocationID),
			zap.Error(err),
		)
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.MutationResponse{
		Entry:    mapRecord(res.Record),
		Movement: mapMovement(res.Movement),
	}, nil
}

func (h *InventoryHandler) CountInventory(ctx context.Context, req *stockv1.CountInventoryRequest) (*stockv1.CountInventoryResponse, error) {
	items := make([]dto.CountItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.CountItem{
			ProductID:       it.ProductID,
			SubLocationID:   it.SubLocationID,
			CountedQuantity: it.CountedQuantity,
		}
	}

	res, err := h.uc.CountInventory(ctx, &dto.CountInventoryInput{
		MerchantID:      auth.GetMerchantID(ctx),
		LocationID:      req.LocationID,
		Reason:          req.Reason,
		ReferenceNumber: req.ReferenceNumber,
		UserID:          auth.GetUserID(ctx),
		Items:           items,
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	out := &stockv1.CountInventoryResponse{
		LocationID: res.LocationID,
		Succeeded:  int32(res.Succeeded),
		Failed:     int32(res.Failed),
		Items:      make([]stockv1.CountItemResult, len(res.Items)),
	}
	for i, r := range res.Items {
		out.Items[i] = stockv1.CountItemResult(r)
	}
	return out, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *stockv1.ListMovementsRequest) (*stockv1.ListMovementsResponse, error) {
	items, count, err := h.movements.Query(ctx, &movementdto.MovementFilters{
		MerchantID:     auth.GetMerchantID(ctx),
		ProductID:      req.ProductID,
		LocationID:     req.LocationID,
		AdjustmentType: req.AdjustmentType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Page:           int(req.Page),
		PageSize:       int(req.PageSize),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListMovementsResponse{Items: mapMovements(items), Total: int32(count)}, nil
}

func (h *InventoryHandler) GetProductHistory(ctx context.Context, req *stockv1.GetProductHistoryRequest) (*stockv1.ListMovementsResponse, error) {
	items, count, err := h.movements.History(ctx, auth.GetMerchantID(ctx), req.ProductID, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListMovementsResponse{Items: mapMovements(items), Total: int32(count)}, nil
}

func (h *InventoryHandler) GetValuation(ctx context.Context, req *stockv1.GetValuationRequest) (*stockv1.ValuationResponse, error) {
	v, err := h.uc.GetValuation(ctx, auth.GetMerchantID(ctx), req.LocationID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	out := &stockv1.ValuationResponse{
		Locations:   make([]stockv1.LocationValuation, len(v.Locations)),
		TotalUnits:  v.TotalUnits,
		CostValue:   v.CostValue.StringFixed(2),
		RetailValue: v.RetailValue.StringFixed(2),
	}
	for i, loc := range v.Locations {
		lines := make([]stockv1.ValuationLine, len(loc.Lines))
		for j, l := range loc.Lines {
			lines[j] = stockv1.ValuationLine{
				ProductID:      l.ProductID,
				ProductSKU:     l.ProductSKU,
				ProductName:    l.ProductName,
				SubLocationID:  l.SubLocationID,
				QuantityOnHand: l.OnHand,
				UnitCost:       l.UnitCost.String(),
				UnitPrice:      l.UnitPrice.String(),
				CostValue:      l.CostValue.StringFixed(2),
				RetailValue:    l.RetailValue.StringFixed(2),
			}
		}
		out.Locations[i] = stockv1.LocationValuation{
			LocationID:   loc.LocationID,
			LocationName: loc.LocationName,
			Lines:        lines,
			TotalUnits:   loc.TotalUnits,
			CostValue:    loc.CostValue.StringFixed(2),
			RetailValue:  loc.RetailValue.StringFixed(2),
		}
	}
	return out, nil
}

func (h *InventoryHandler) ReserveStock(ctx context.Context, req *stockv1.ReserveStockRequest) (*stockv1.InventoryEntry, error) {
	rec, err := h.uc.ReserveStock(ctx, reserveInput(ctx, req))
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapRecord(rec), nil
}

func (h *InventoryHandler) ReleaseStock(ctx context.Context, req *stockv1.ReserveStockRequest) (*stockv1.InventoryEntry, error) {
	rec, err := h.uc.ReleaseStock(ctx, reserveInput(ctx, req))
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapRecord(rec), nil
}

func reserveInput(ctx context.Context, req *stockv1.ReserveStockRequest) *dto.ReserveStockInput {
	return &dto.ReserveStockInput{
		MerchantID:      auth.GetMerchantID(ctx),
		ProductID:       req.ProductID,
		LocationID:      req.LocationID,
		SubLocationID:   req.SubLocationID,
		Quantity:        req.Quantity,
		ReferenceNumber: req.ReferenceNumber,
		UserID:          auth.GetUserID(ctx),
	}
}

func mapViews(items []model.InventoryView) []*stockv1.InventoryEntry {
	out := make([]*stockv1.InventoryEntry, len(items))
	for i := range items {
		e := mapRecord(&items[i].InventoryRecord)
		e.ProductName = items[i].ProductName
		e.ProductSKU = items[i].ProductSKU
		e.LocationName = items[i].LocationName
		e.LocationCode = items[i].LocationCode
		out[i] = e
	}
	return out
}

func mapRecord(r *model.InventoryRecord) *stockv1.InventoryEntry {
	if r == nil {
		return nil
	}
	return &stockv1.InventoryEntry{
		ID:                r.ID,
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		SubLocationID:     r.SubLocationID,
		QuantityOnHand:    r.QuantityOnHand,
		QuantityReserved:  r.QuantityReserved,
		QuantityAvailable: r.Available(),
		QuantityOnOrder:   r.QuantityOnOrder,
		QuantityInTransit: r.QuantityInTransit,
		ReorderPoint:      r.ReorderPoint,
		ReorderQuantity:   r.ReorderQuantity,
		MaxStockLevel:     r.MaxStockLevel,
		IsLowStock:        r.IsLowStock(),
		LastCountedAt:     r.LastCountedAt,
		LastReceivedAt:    r.LastReceivedAt,
		LastSoldAt:        r.LastSoldAt,
		Version:           r.Version,
		UpdatedAt:         r.UpdatedAt,
	}
}

func mapMovements(items []model.MovementEntry) []*stockv1.Movement {
	out := make([]*stockv1.Movement, len(items))
	for i := range items {
		out[i] = mapMovement(&items[i])
	}
	return out
}

func mapMovement(m *model.MovementEntry) *stockv1.Movement {
	if m == nil {
		return nil
	}
	return &stockv1.Movement{
		ID:              m.ID,
		ProductID:       m.ProductID,
		LocationID:      m.LocationID,
		SubLocationID:   m.SubLocationID,
		AdjustmentType:  string(m.AdjustmentType),
		QuantityChange:  m.QuantityChange,
		QuantityBefore:  m.QuantityBefore,
		QuantityAfter:   m.QuantityAfter,
		Reason:          m.Reason,
		ReferenceType:   m.ReferenceType,
		ReferenceNumber: m.ReferenceNumber,
		Actor:           m.Actor,
		CreatedAt:       m.CreatedAt,
	}
}
