package movement

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
)

// Repository is append-only: entries are never updated or deleted.
type Repository interface {
	Insert(ctx context.Context, entry *model.MovementEntry) error
	FindAll(ctx context.Context, filters *dto.MovementFilters) ([]model.MovementEntry, int, error)
}
