package movement

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
)

type UseCase interface {
	Record(ctx context.Context, entry *model.MovementEntry) error
	Query(ctx context.Context, filters *dto.MovementFilters) ([]model.MovementEntry, int, error)
	History(ctx context.Context, merchantID, productID string, page, pageSize int) ([]model.MovementEntry, int, error)
}
