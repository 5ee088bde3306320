package catalog

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Repository reads the products table owned by the catalog service.
type Repository interface {
	FindByIDs(ctx context.Context, merchantID string, ids []string) ([]model.Product, error)
}
