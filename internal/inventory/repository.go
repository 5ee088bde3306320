package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryView, int, error)
	ListByProduct(ctx context.Context, merchantID, productID string) ([]model.InventoryView, error)
	ListStocked(ctx context.Context, merchantID, locationID string) ([]model.InventoryView, error)
	GetRecord(ctx context.Context, key model.StockKey) (*model.InventoryRecord, error)

	// LockRecord creates the record on first use and locks it for the rest
	// of the unit of work. It must run inside txm.Manager.WithinTx.
	LockRecord(ctx context.Context, key model.StockKey) (*model.InventoryRecord, error)
	// UpdateRecord writes rec if its version is unchanged and bumps the
	// version. A stale version is a Conflict.
	UpdateRecord(ctx context.Context, rec *model.InventoryRecord) error
	SetReorderLevels(ctx context.Context, merchantID, productID, locationID string, point, quantity, maxLevel int64) error
}
