package location

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error)
	GetLocation(ctx context.Context, merchantID, id string) (*model.Location, error)
	ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	Ancestors(ctx context.Context, merchantID, id string) ([]model.Location, error)
	Descendants(ctx context.Context, merchantID, id string) ([]model.Location, error)

	// Require returns an active location or a NotFound / Validation error.
	Require(ctx context.Context, merchantID, id string) (*model.Location, error)
}
