package purchasing

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing/dto"
)

type UseCase interface {
	CreatePurchaseOrder(ctx context.Context, input *dto.CreatePurchaseOrderInput) (*model.PurchaseOrder, error)
	ApprovePurchaseOrder(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error)
	SendPurchaseOrder(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error)
	ReceivePurchaseOrder(ctx context.Context, input *dto.ReceivePurchaseOrderInput) (*dto.ReceiveResult, error)
	GetPurchaseOrder(ctx context.Context, merchantID, id string) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filters *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error)
	GetGoodsReceipt(ctx context.Context, merchantID, id string) (*model.GoodsReceipt, error)
	ListGoodsReceipts(ctx context.Context, merchantID, purchaseOrderID string) ([]model.GoodsReceipt, error)
}
