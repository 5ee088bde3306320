package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	auditdto "github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/catalog"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/location"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type reorderUseCase struct {
	repo      reorder.Repository
	stock     inventory.Repository
	views     inventory.ProductStockCache
	tx        txm.Manager
	catalog   catalog.UseCase
	locations location.UseCase
	emitter   audit.Emitter
	authz     auth.Authorizer
	logger    logger.Logger
}

func NewReorderUseCase(
	repo reorder.Repository,
	stock inventory.Repository,
	views inventory.ProductStockCache,
	tx txm.Manager,
	catalogUC catalog.UseCase,
	locations location.UseCase,
	emitter audit.Emitter,
	authz auth.Authorizer,
	log logger.Logger,
) reorder.UseCase {
	return &reorderUseCase{
		repo:      repo,
		stock:     stock,
		views:     views,
		tx:        tx,
		catalog:   catalogUC,
		locations: locations,
		emitter:   emitter,
		authz:     authz,
		logger:    log,
	}
}

// UpsertReorderRule stores the rule and copies its levels onto every
// inventory record of the product at that location. An inactive rule
// clears the levels.
func (uc *reorderUseCase) UpsertReorderRule(ctx context.Context, input *dto.UpsertReorderRuleInput) (*model.ReorderRule, error) {
	const op = "reorder_rule.upsert"
	if err := uc.authz.Authorize(ctx, auth.PermReorderManage); err != nil {
		return nil, err
	}

	switch {
	case input.ProductID == "":
		return nil, apperror.Validation(op, "product_id is required")
	case input.LocationID == "":
		return nil, apperror.Validation(op, "location_id is required")
	case input.MinStock < 0 || input.MaxStock < 0 || input.ReorderQuantity < 0 || input.SafetyStock < 0:
		return nil, apperror.Validation(op, "stock levels must not be negative")
	case input.MaxStock > 0 && input.MaxStock < input.MinStock:
		return nil, apperror.Validation(op, "max_stock %d is below min_stock %d", input.MaxStock, input.MinStock)
	}
	if _, err := uc.catalog.Require(ctx, input.MerchantID, input.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.locations.Require(ctx, input.MerchantID, input.LocationID); err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	now := time.Now().UTC()
	rule := &model.ReorderRule{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID:          input.MerchantID,
		ProductID:           input.ProductID,
		LocationID:          input.LocationID,
		MinStock:            input.MinStock,
		MaxStock:            input.MaxStock,
		ReorderQuantity:     input.ReorderQuantity,
		SafetyStock:         input.SafetyStock,
		PreferredSupplierID: input.PreferredSupplierID,
		IsActive:            active,
	}

	var stored *model.ReorderRule
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = uc.repo.Upsert(ctx, rule)
		if err != nil {
			return apperror.Persistence(op, err)
		}
		if err := uc.syncLevels(ctx, stored, stored.IsActive); err != nil {
			return err
		}
		return uc.emit(ctx, stored, "reorder_rule.upserted")
	})
	if err != nil {
		uc.logger.Error("failed to upsert reorder rule",
			zap.String("product_id", input.ProductID),
			zap.String("location_id", input.LocationID),
			zap.Error(err),
		)
		return nil, err
	}
	return stored, nil
}

func (uc *reorderUseCase) GetReorderRule(ctx context.Context, merchantID, productID, locationID string) (*model.ReorderRule, error) {
	const op = "reorder_rule.get"
	if productID == "" || locationID == "" {
		return nil, apperror.Validation(op, "product_id and location_id are required")
	}
	rule, err := uc.repo.Get(ctx, merchantID, productID, locationID)
	if err != nil {
		return nil, apperror.Persistence(op, err)
	}
	if rule == nil {
		return nil, apperror.NotFound(op, "reorder rule", productID+"@"+locationID)
	}
	return rule, nil
}

func (uc *reorderUseCase) ListReorderRules(ctx context.Context, filters *dto.ReorderRuleFilters) ([]model.ReorderRule, int, error) {
	filters.Page, filters.PageSize = pagination.Normalize(filters.Page, filters.PageSize)
	rules, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("reorder_rule.list", err)
	}
	return rules, count, nil
}

func (uc *reorderUseCase) DeleteReorderRule(ctx context.Context, merchantID, id string) error {
	const op = "reorder_rule.delete"
	if err := uc.authz.Authorize(ctx, auth.PermReorderManage); err != nil {
		return err
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		rule, err := uc.repo.FindByID(ctx, merchantID, id)
		if err != nil {
			return apperror.Persistence(op, err)
		}
		if rule == nil {
			return apperror.NotFound(op, "reorder rule", id)
		}
		if err := uc.repo.Delete(ctx, merchantID, id); err != nil {
			return apperror.Persistence(op, err)
		}
		if err := uc.syncLevels(ctx, rule, false); err != nil {
			return err
		}
		return uc.emit(ctx, rule, "reorder_rule.deleted")
	})
}

func (uc *reorderUseCase) syncLevels(ctx context.Context, rule *model.ReorderRule, active bool) error {
	var point, quantity, maxLevel int64
	if active {
		point, quantity, maxLevel = rule.MinStock, rule.ReorderQuantity, rule.MaxStock
	}
	err := uc.stock.SetReorderLevels(ctx, rule.MerchantID, rule.ProductID, rule.LocationID, point, quantity, maxLevel)
	if err != nil {
		return apperror.Persistence("reorder_rule.sync", err)
	}
	if uc.views != nil {
		txm.AfterCommit(ctx, func() { uc.views.InvalidateProduct(rule.MerchantID, rule.ProductID) })
	}
	return nil
}

func (uc *reorderUseCase) emit(ctx context.Context, rule *model.ReorderRule, eventType string) error {
	return uc.emitter.Emit(ctx, &auditdto.Event{
		MerchantID:    rule.MerchantID,
		AggregateType: auditdto.AggregateReorderRule,
		AggregateID:   rule.ID,
		EventType:     eventType,
		Payload:       rule,
	})
}
