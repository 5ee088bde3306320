package memory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type CatalogRepository struct {
	store *Store
}

func NewCatalogRepository(s *Store) *CatalogRepository {
	return &CatalogRepository{store: s}
}

func (r *CatalogRepository) FindByIDs(ctx context.Context, merchantID string, ids []string) ([]model.Product, error) {
	products := make([]model.Product, 0, len(ids))
	r.store.read(ctx, func(d *data) {
		for _, id := range ids {
			if p, ok := d.products[tenantKey(merchantID, id)]; ok {
				products = append(products, p)
			}
		}
	})
	return products, nil
}
