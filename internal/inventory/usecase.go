package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	ListInventory(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryView, int, error)
	GetByLocation(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryView, int, error)
	GetByProduct(ctx context.Context, merchantID, productID string) (*dto.ProductStock, error)
	ListLowStock(ctx context.Context, merchantID, locationID string, page, pageSize int) ([]model.InventoryView, int, error)
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*dto.MutationResult, error)
	CountInventory(ctx context.Context, input *dto.CountInventoryInput) (*dto.CountResult, error)
	GetValuation(ctx context.Context, merchantID, locationID string) (*dto.Valuation, error)
	ReserveStock(ctx context.Context, input *dto.ReserveStockInput) (*model.InventoryRecord, error)
	ReleaseStock(ctx context.Context, input *dto.ReserveStockInput) (*model.InventoryRecord, error)
}

// Ledger is the single write path for inventory records. Transfers and
// purchase receiving call it inside their own unit of work.
type Ledger interface {
	Apply(ctx context.Context, m *dto.Mutation) (*dto.MutationResult, error)
}

// ProductStockCache drops cached per-product stock views.
type ProductStockCache interface {
	InvalidateProduct(merchantID, productID string)
}

// MaxQuantity bounds a single adjustment or order line.
const MaxQuantity int64 = 1_000_000_000

// DecrementPolicy decides what an over-decrement does.
type DecrementPolicy string

const (
	PolicyClamp  DecrementPolicy = "clamp"
	PolicyReject DecrementPolicy = "reject"
)
