package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/location"
	"github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type locationUseCase struct {
	repo   location.Repository
	authz  auth.Authorizer
	cache  *lru.Cache[string, model.Location]
	logger logger.Logger
}

func NewLocationUseCase(repo location.Repository, authz auth.Authorizer, cacheSize int, log logger.Logger) (location.UseCase, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	c, err := lru.New[string, model.Location](cacheSize)
	if err != nil {
		return nil, err
	}
	return &locationUseCase{
		repo:   repo,
		authz:  authz,
		cache:  c,
		logger: log,
	}, nil
}

func (uc *locationUseCase) CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error) {
	if err := uc.authz.Authorize(ctx, auth.PermLocationManage); err != nil {
		return nil, err
	}

	locType := model.LocationType(input.Type)
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	switch {
	case input.MerchantID == "":
		return nil, apperror.Validation("location.create", "merchant is required")
	case !locType.Valid():
		return nil, apperror.Validation("location.create", "unknown location type %q", input.Type)
	case code == "":
		return nil, apperror.Validation("location.create", "code is required")
	case name == "":
		return nil, apperror.Validation("location.create", "name is required")
	}

	var parentID *string
	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := uc.GetLocation(ctx, input.MerchantID, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if location.Rank(parent.Type) >= location.Rank(locType) {
			return nil, apperror.Validation("location.create", "a %s cannot be placed under a %s", locType, parent.Type)
		}
		parentID = &parent.ID
	}

	now := time.Now().UTC()
	loc := &model.Location{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID: input.MerchantID,
		ParentID:   parentID,
		Type:       locType,
		Code:       code,
		Name:       name,
		IsActive:   true,
	}

	if err := uc.repo.Create(ctx, loc); err != nil {
		uc.logger.Error("failed to create location", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	uc.cache.Add(cacheKey(loc.MerchantID, loc.ID), *loc)
	return loc, nil
}

func (uc *locationUseCase) GetLocation(ctx context.Context, merchantID, id string) (*model.Location, error) {
	if id == "" {
		return nil, apperror.Validation("location.get", "location_id is required")
	}
	if loc, ok := uc.cache.Get(cacheKey(merchantID, id)); ok {
		return &loc, nil
	}

	loc, err := uc.repo.FindByID(ctx, merchantID, id)
	if err != nil {
		return nil, apperror.Persistence("location.get", err)
	}
	if loc == nil {
		return nil, apperror.NotFound("location.get", "location", id)
	}
	uc.cache.Add(cacheKey(merchantID, id), *loc)
	return loc, nil
}

func (uc *locationUseCase) ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error) {
	filters.Page, filters.PageSize = pagination.Normalize(filters.Page, filters.PageSize)
	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("location.list", err)
	}
	return items, count, nil
}

func (uc *locationUseCase) Ancestors(ctx context.Context, merchantID, id string) ([]model.Location, error) {
	tree, err := uc.tree(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	return tree.Ancestors(id), nil
}

func (uc *locationUseCase) Descendants(ctx context.Context, merchantID, id string) ([]model.Location, error) {
	tree, err := uc.tree(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	return tree.Descendants(id), nil
}

func (uc *locationUseCase) Require(ctx context.Context, merchantID, id string) (*model.Location, error) {
	loc, err := uc.GetLocation(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	if !loc.IsActive {
		return nil, apperror.Validation("location.require", "location %q is inactive", id)
	}
	return loc, nil
}

func (uc *locationUseCase) tree(ctx context.Context, merchantID, id string) (*location.Tree, error) {
	if _, err := uc.GetLocation(ctx, merchantID, id); err != nil {
		return nil, err
	}
	all, err := uc.repo.ListAll(ctx, merchantID)
	if err != nil {
		return nil, apperror.Persistence("location.tree", err)
	}
	return location.NewTree(all), nil
}

func cacheKey(merchantID, id string) string {
	return merchantID + "/" + id
}
