package catalog

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	// FindByIDs returns the known products keyed by id; unknown ids are absent.
	FindByIDs(ctx context.Context, merchantID string, ids []string) (map[string]*model.Product, error)
	// Require returns the product or a NotFound error.
	Require(ctx context.Context, merchantID, productID string) (*model.Product, error)
}
