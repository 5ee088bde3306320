package transfer

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer/dto"
)

type UseCase interface {
	CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) (*model.StockTransfer, error)
	ApproveTransfer(ctx context.Context, input *dto.TransitionInput) (*model.StockTransfer, error)
	ShipTransfer(ctx context.Context, input *dto.ShipTransferInput) (*model.StockTransfer, error)
	ReceiveTransfer(ctx context.Context, input *dto.ReceiveTransferInput) (*model.StockTransfer, error)
	CancelTransfer(ctx context.Context, input *dto.CancelTransferInput) (*model.StockTransfer, error)
	GetTransfer(ctx context.Context, merchantID, id string) (*model.StockTransfer, error)
	ListTransfers(ctx context.Context, filters *dto.TransferFilters) ([]model.StockTransfer, int, error)
}
