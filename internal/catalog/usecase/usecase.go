package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/catalog"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"go.uber.org/zap"
)

const cacheTTL = 5 * time.Minute

type catalogUseCase struct {
	repo   catalog.Repository
	cache  cache.Cache
	logger logger.Logger
}

// NewCatalogUseCase returns the product lookup. cache may be nil.
func NewCatalogUseCase(repo catalog.Repository, c cache.Cache, log logger.Logger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  c,
		logger: log,
	}
}

func (uc *catalogUseCase) FindByIDs(ctx context.Context, merchantID string, ids []string) (map[string]*model.Product, error) {
	found := make(map[string]*model.Product, len(ids))
	missing := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, seen := found[id]; seen {
			continue
		}
		if p := uc.fromCache(ctx, merchantID, id); p != nil {
			found[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return found, nil
	}

	products, err := uc.repo.FindByIDs(ctx, merchantID, missing)
	if err != nil {
		return nil, apperror.Persistence("catalog.find", err)
	}
	for i := range products {
		p := products[i]
		found[p.ID] = &p
		if uc.cache != nil {
			if err := uc.cache.SetJSON(ctx, cacheKey(merchantID, p.ID), p, cacheTTL); err != nil {
				uc.logger.Warn("failed to cache product", zap.String("product_id", p.ID), zap.Error(err))
			}
		}
	}
	return found, nil
}

func (uc *catalogUseCase) Require(ctx context.Context, merchantID, productID string) (*model.Product, error) {
	if productID == "" {
		return nil, apperror.Validation("catalog.require", "product_id is required")
	}
	products, err := uc.FindByIDs(ctx, merchantID, []string{productID})
	if err != nil {
		return nil, err
	}
	p, ok := products[productID]
	if !ok {
		return nil, apperror.NotFound("catalog.require", "product", productID)
	}
	return p, nil
}

func (uc *catalogUseCase) fromCache(ctx context.Context, merchantID, id string) *model.Product {
	if uc.cache == nil {
		return nil
	}
	var p model.Product
	hit, err := uc.cache.GetJSON(ctx, cacheKey(merchantID, id), &p)
	if err != nil {
		uc.logger.Warn("product cache read failed", zap.String("product_id", id), zap.Error(err))
		return nil
	}
	if !hit {
		return nil
	}
	return &p
}

func cacheKey(merchantID, productID string) string {
	return fmt.Sprintf("catalog:product:%s:%s", merchantID, productID)
}
