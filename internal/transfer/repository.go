package transfer

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer/dto"
)

type Repository interface {
	Create(ctx context.Context, transfer *model.StockTransfer) error
	// FindByID returns the transfer with its items, or nil when absent.
	FindByID(ctx context.Context, merchantID, id string) (*model.StockTransfer, error)
	FindAll(ctx context.Context, filters *dto.TransferFilters) ([]model.StockTransfer, int, error)
	// UpdateStatus writes the transfer header only while the stored status
	// still equals expected; otherwise it returns a Conflict.
	UpdateStatus(ctx context.Context, transfer *model.StockTransfer, expected model.TransferStatus) error
	UpdateItem(ctx context.Context, item *model.StockTransferItem) error
}
