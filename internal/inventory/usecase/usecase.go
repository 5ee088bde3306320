package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/catalog"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/location"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/observability"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = observability.Tracer("inventory")

const productCacheTTL = time.Minute

// InventoryUseCase serves both the public inventory operations and the
// Ledger used by transfers and purchase receiving.
type InventoryUseCase struct {
	repo      inventory.Repository
	tx        txm.Manager
	movements movement.UseCase
	catalog   catalog.UseCase
	locations location.UseCase
	authz     auth.Authorizer
	cache     cache.Cache
	policy    inventory.DecrementPolicy
	logger    logger.Logger
}

var (
	_ inventory.UseCase = (*InventoryUseCase)(nil)
	_ inventory.Ledger  = (*InventoryUseCase)(nil)
)

// NewInventoryUseCase wires the ledger. c may be nil to disable the
// per-product read cache.
func NewInventoryUseCase(
	repo inventory.Repository,
	tx txm.Manager,
	movements movement.UseCase,
	catalogUC catalog.UseCase,
	locations location.UseCase,
	authz auth.Authorizer,
	c cache.Cache,
	policy inventory.DecrementPolicy,
	log logger.Logger,
) *InventoryUseCase {
	if policy != inventory.PolicyReject {
		policy = inventory.PolicyClamp
	}
	return &InventoryUseCase{
		repo:      repo,
		tx:        tx,
		movements: movements,
		catalog:   catalogUC,
		locations: locations,
		authz:     authz,
		cache:     c,
		policy:    policy,
		logger:    log,
	}
}

func (uc *InventoryUseCase) ListInventory(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryView, int, error) {
	if filters.MerchantID == "" {
		return nil, 0, apperror.Validation("inventory.list", "merchant is required")
	}
	filters.Page, filters.PageSize = pagination.Normalize(filters.Page, filters.PageSize)

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("inventory.list", err)
	}
	return items, count, nil
}

func (uc *InventoryUseCase) GetByLocation(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryView, int, error) {
	if filters.LocationID == "" {
		return nil, 0, apperror.Validation("inventory.get_by_location", "location_id is required")
	}
	if _, err := uc.locations.GetLocation(ctx, filters.MerchantID, filters.LocationID); err != nil {
		return nil, 0, err
	}
	return uc.ListInventory(ctx, filters)
}

func (uc *InventoryUseCase) GetByProduct(ctx context.Context, merchantID, productID string) (*dto.ProductStock, error) {
	if _, err := uc.catalog.Require(ctx, merchantID, productID); err != nil {
		return nil, err
	}

	key := productCacheKey(merchantID, productID)
	if uc.cache != nil {
		var cached dto.ProductStock
		if hit, err := uc.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	views, err := uc.repo.ListByProduct(ctx, merchantID, productID)
	if err != nil {
		return nil, apperror.Persistence("inventory.get_by_product", err)
	}

	stock := &dto.ProductStock{ProductID: productID, Locations: views}
	for i := range views {
		stock.Totals.Add(&views[i].InventoryRecord)
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, stock, productCacheTTL); err != nil {
			uc.logger.Warn("failed to cache product stock", zap.String("product_id", productID), zap.Error(err))
		}
	}
	return stock, nil
}

func (uc *InventoryUseCase) ListLowStock(ctx context.Context, merchantID, locationID string, page, pageSize int) ([]model.InventoryView, int, error) {
	return uc.ListInventory(ctx, &dto.InventoryFilters{
		MerchantID: merchantID,
		LocationID: locationID,
		LowStock:   true,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (uc *InventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*dto.MutationResult, error) {
	const op = "inventory.adjust"
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("product_id", input.ProductID),
		attribute.String("location_id", input.LocationID),
		attribute.String("adjustment_type", input.AdjustmentType),
	))
	result, err := uc.adjust(ctx, input)
	observability.End(span, err)
	return result, err
}

func (uc *InventoryUseCase) adjust(ctx context.Context, input *dto.AdjustInventoryInput) (*dto.MutationResult, error) {
	const op = "inventory.adjust"
	if err := uc.authz.Authorize(ctx, auth.PermInventoryAdjust); err != nil {
		return nil, err
	}

	adjType := model.AdjustmentType(input.AdjustmentType)
	switch {
	case input.MerchantID == "":
		return nil, apperror.Validation(op, "merchant is required")
	case input.ProductID == "":
		return nil, apperror.Validation(op, "product_id is required")
	case input.LocationID == "":
		return nil, apperror.Validation(op, "location_id is required")
	case !adjType.IsPublic():
		return nil, apperror.Validation(op, "unknown adjustment type %q", input.AdjustmentType)
	case adjType.IsAbsolute() && input.Quantity < 0:
		return nil, apperror.Validation(op, "quantity for %s must not be negative", adjType)
	case !adjType.IsAbsolute() && input.Quantity == 0:
		return nil, apperror.Validation(op, "quantity must not be zero")
	case input.Quantity > inventory.MaxQuantity || input.Quantity < -inventory.MaxQuantity:
		return nil, apperror.Validation(op, "quantity must be within %d", inventory.MaxQuantity)
	}

	refType := model.ReferenceType(input.ReferenceType)
	switch refType {
	case "":
		refType = model.ReferenceManual
	case model.ReferenceManual, model.ReferenceSale, model.ReferenceReturn:
	default:
		return nil, apperror.Validation(op, "unknown reference type %q", input.ReferenceType)
	}

	if _, err := uc.catalog.Require(ctx, input.MerchantID, input.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.locations.Require(ctx, input.MerchantID, input.LocationID); err != nil {
		return nil, err
	}

	m := &dto.Mutation{
		Key: model.StockKey{
			MerchantID:    input.MerchantID,
			ProductID:     input.ProductID,
			LocationID:    input.LocationID,
			SubLocationID: input.SubLocationID,
		},
		Type:            adjType,
		Reason:          input.Reason,
		ReferenceType:   refType,
		ReferenceNumber: input.ReferenceNumber,
		Actor:           input.UserID,
		LogZero:         true,
	}

	qty := abs(input.Quantity)
	switch {
	case adjType.IsIncrease():
		m.OnHandDelta = qty
	case adjType.IsDecrease():
		m.OnHandDelta = -qty
		m.ClampAtZero = uc.policy == inventory.PolicyClamp
	default:
		m.SetOnHand = &qty
	}

	result, err := uc.Apply(ctx, m)
	if err != nil {
		uc.logger.Warn("inventory adjustment rejected",
			zap.String("product_id", input.ProductID),
			zap.String("location_id", input.LocationID),
			zap.String("adjustment_type", input.AdjustmentType),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

// CountInventory applies a stock take. Every item is its own unit of work;
// a failing item does not undo the others. Items whose count matches the
// record refresh last_counted_at without writing a movement entry.
func (uc *InventoryUseCase) CountInventory(ctx context.Context, input *dto.CountInventoryInput) (*dto.CountResult, error) {
	const op = "inventory.count"
	if err := uc.authz.Authorize(ctx, auth.PermInventoryCount); err != nil {
		return nil, err
	}
	if input.LocationID == "" {
		return nil, apperror.Validation(op, "location_id is required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.Validation(op, "at least one count is required")
	}
	if _, err := uc.locations.Require(ctx, input.MerchantID, input.LocationID); err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID != "" {
			productIDs = append(productIDs, item.ProductID)
		}
	}
	products, err := uc.catalog.FindByIDs(ctx, input.MerchantID, productIDs)
	if err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "stock count"
	}

	result := &dto.CountResult{LocationID: input.LocationID, Items: make([]dto.CountItemResult, 0, len(input.Items))}
	for _, item := range input.Items {
		res := dto.CountItemResult{ProductID: item.ProductID, SubLocationID: item.SubLocationID}

		applied, err := uc.countOne(ctx, input, item, products, reason)
		if err != nil {
			res.Error = apperror.Message(err)
			result.Failed++
			result.Items = append(result.Items, res)
			continue
		}

		res.Success = true
		res.QuantityAfter = applied.Record.QuantityOnHand
		res.QuantityBefore = applied.Record.QuantityOnHand
		if applied.Movement != nil {
			res.QuantityBefore = applied.Movement.QuantityBefore
			res.Variance = applied.Movement.QuantityChange
			res.MovementID = applied.Movement.ID
		}
		result.Succeeded++
		result.Items = append(result.Items, res)
	}
	return result, nil
}

func (uc *InventoryUseCase) countOne(ctx context.Context, input *dto.CountInventoryInput, item dto.CountItem, products map[string]*model.Product, reason string) (*dto.MutationResult, error) {
	const op = "inventory.count"
	switch {
	case item.ProductID == "":
		return nil, apperror.Validation(op, "product_id is required")
	case item.CountedQuantity < 0:
		return nil, apperror.Validation(op, "counted quantity must not be negative")
	}
	if _, ok := products[item.ProductID]; !ok {
		return nil, apperror.NotFound(op, "product", item.ProductID)
	}

	counted := item.CountedQuantity
	return uc.Apply(ctx, &dto.Mutation{
		Key: model.StockKey{
			MerchantID:    input.MerchantID,
			ProductID:     item.ProductID,
			LocationID:    input.LocationID,
			SubLocationID: item.SubLocationID,
		},
		Type:            model.AdjustmentCount,
		SetOnHand:       &counted,
		Reason:          reason,
		ReferenceType:   model.ReferenceStockCount,
		ReferenceNumber: input.ReferenceNumber,
		Actor:           input.UserID,
	})
}

// GetValuation values on-hand stock at cost and at retail, grouped by
// location. locationID is optional.
func (uc *InventoryUseCase) GetValuation(ctx context.Context, merchantID, locationID string) (*dto.Valuation, error) {
	if locationID != "" {
		if _, err := uc.locations.GetLocation(ctx, merchantID, locationID); err != nil {
			return nil, err
		}
	}

	views, err := uc.repo.ListStocked(ctx, merchantID, locationID)
	if err != nil {
		return nil, apperror.Persistence("inventory.valuation", err)
	}

	productIDs := make([]string, 0, len(views))
	for _, v := range views {
		productIDs = append(productIDs, v.ProductID)
	}
	products, err := uc.catalog.FindByIDs(ctx, merchantID, productIDs)
	if err != nil {
		return nil, err
	}

	report := &dto.Valuation{Locations: []dto.LocationValuation{}}
	index := map[string]int{}
	for _, v := range views {
		i, ok := index[v.LocationID]
		if !ok {
			report.Locations = append(report.Locations, dto.LocationValuation{
				LocationID:   v.LocationID,
				LocationName: v.LocationName,
			})
			i = len(report.Locations) - 1
			index[v.LocationID] = i
		}

		line := dto.ValuationLine{
			ProductID:     v.ProductID,
			ProductSKU:    v.ProductSKU,
			ProductName:   v.ProductName,
			SubLocationID: v.SubLocationID,
			OnHand:        v.QuantityOnHand,
		}
		if p, ok := products[v.ProductID]; ok {
			line.UnitCost = p.Cost()
			line.UnitPrice = p.BasePrice
		}
		units := decimal.NewFromInt(v.QuantityOnHand)
		line.CostValue = line.UnitCost.Mul(units)
		line.RetailValue = line.UnitPrice.Mul(units)

		loc := &report.Locations[i]
		loc.Lines = append(loc.Lines, line)
		loc.TotalUnits += line.OnHand
		loc.CostValue = loc.CostValue.Add(line.CostValue)
		loc.RetailValue = loc.RetailValue.Add(line.RetailValue)

		report.TotalUnits += line.OnHand
		report.CostValue = report.CostValue.Add(line.CostValue)
		report.RetailValue = report.RetailValue.Add(line.RetailValue)
	}
	return report, nil
}

// ReserveStock commits available stock to an order. It never touches
// on-hand, so no movement entry is written.
func (uc *InventoryUseCase) ReserveStock(ctx context.Context, input *dto.ReserveStockInput) (*model.InventoryRecord, error) {
	return uc.reserve(ctx, input, "inventory.reserve", input.Quantity)
}

func (uc *InventoryUseCase) ReleaseStock(ctx context.Context, input *dto.ReserveStockInput) (*model.InventoryRecord, error) {
	return uc.reserve(ctx, input, "inventory.release", -input.Quantity)
}

func (uc *InventoryUseCase) reserve(ctx context.Context, input *dto.ReserveStockInput, op string, delta int64) (*model.InventoryRecord, error) {
	if err := uc.authz.Authorize(ctx, auth.PermInventoryAdjust); err != nil {
		return nil, err
	}
	switch {
	case input.ProductID == "":
		return nil, apperror.Validation(op, "product_id is required")
	case input.LocationID == "":
		return nil, apperror.Validation(op, "location_id is required")
	case input.Quantity <= 0:
		return nil, apperror.Validation(op, "quantity must be positive")
	}
	if _, err := uc.catalog.Require(ctx, input.MerchantID, input.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.locations.Require(ctx, input.MerchantID, input.LocationID); err != nil {
		return nil, err
	}

	result, err := uc.Apply(ctx, &dto.Mutation{
		Key: model.StockKey{
			MerchantID:    input.MerchantID,
			ProductID:     input.ProductID,
			LocationID:    input.LocationID,
			SubLocationID: input.SubLocationID,
		},
		ReservedDelta:   delta,
		ReferenceType:   model.ReferenceSale,
		ReferenceNumber: input.ReferenceNumber,
		Actor:           input.UserID,
	})
	if err != nil {
		return nil, err
	}
	return result.Record, nil
}

// InvalidateProduct drops the cached GetByProduct view.
func (uc *InventoryUseCase) InvalidateProduct(merchantID, productID string) {
	if uc.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := uc.cache.Delete(ctx, productCacheKey(merchantID, productID)); err != nil {
		uc.logger.Warn("failed to invalidate product stock cache", zap.String("product_id", productID), zap.Error(err))
	}
}

func productCacheKey(merchantID, productID string) string {
	return fmt.Sprintf("inventory:product:%s:%s", merchantID, productID)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
