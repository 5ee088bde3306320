package purchasing

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing/dto"
)

type Repository interface {
	FindSupplier(ctx context.Context, merchantID, id string) (*model.Supplier, error)

	Create(ctx context.Context, po *model.PurchaseOrder) error
	// FindByID returns the order with its items, or nil when absent.
	FindByID(ctx context.Context, merchantID, id string) (*model.PurchaseOrder, error)
	FindAll(ctx context.Context, filters *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error)
	// UpdateStatus writes the order header only while its stored status is
	// one of expected; otherwise it returns a Conflict.
	UpdateStatus(ctx context.Context, po *model.PurchaseOrder, expected ...model.POStatus) error
	// LockItem locks one order line for the rest of the unit of work.
	LockItem(ctx context.Context, purchaseOrderID, itemID string) (*model.PurchaseOrderItem, error)
	UpdateItemReceived(ctx context.Context, item *model.PurchaseOrderItem) error

	CreateReceipt(ctx context.Context, receipt *model.GoodsReceipt) error
	AddReceiptItem(ctx context.Context, item *model.GoodsReceiptItem) error
	FindReceipt(ctx context.Context, merchantID, id string) (*model.GoodsReceipt, error)
	ListReceipts(ctx context.Context, merchantID, purchaseOrderID string) ([]model.GoodsReceipt, error)
}
