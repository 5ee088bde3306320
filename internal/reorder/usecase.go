package reorder

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder/dto"
)

type UseCase interface {
	UpsertReorderRule(ctx context.Context, input *dto.UpsertReorderRuleInput) (*model.ReorderRule, error)
	GetReorderRule(ctx context.Context, merchantID, productID, locationID string) (*model.ReorderRule, error)
	ListReorderRules(ctx context.Context, filters *dto.ReorderRuleFilters) ([]model.ReorderRule, int, error)
	DeleteReorderRule(ctx context.Context, merchantID, id string) error
}
