package reorder

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder/dto"
)

type Repository interface {
	// Upsert inserts or replaces the rule for (merchant, product, location)
	// and returns the stored row.
	Upsert(ctx context.Context, rule *model.ReorderRule) (*model.ReorderRule, error)
	Get(ctx context.Context, merchantID, productID, locationID string) (*model.ReorderRule, error)
	FindByID(ctx context.Context, merchantID, id string) (*model.ReorderRule, error)
	FindAll(ctx context.Context, filters *dto.ReorderRuleFilters) ([]model.ReorderRule, int, error)
	Delete(ctx context.Context, merchantID, id string) error
}
