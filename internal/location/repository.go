package location

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, location *model.Location) error
	FindByID(ctx context.Context, merchantID, id string) (*model.Location, error)
	FindAll(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	ListAll(ctx context.Context, merchantID string) ([]model.Location, error)
}
