package handler

import (
	"context"

	stockv1 "github.com/fekuna/omnipos-inventory-service/api/stock/v1"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder/dto"
)

type ReorderRuleHandler struct {
	stockv1.UnimplementedReorderRuleServiceServer
	uc     reorder.UseCase
	logger logger.Logger
}

func NewReorderRuleHandler(uc reorder.UseCase, log logger.Logger) *ReorderRuleHandler {
	return &ReorderRuleHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReorderRuleHandler) UpsertReorderRule(ctx context.Context, req *stockv1.UpsertReorderRuleRequest) (*stockv1.ReorderRule, error) {
	var supplierID *string
	if req.PreferredSupplierID != "" {
		supplierID = &req.PreferredSupplierID
	}

	rule, err := h.uc.UpsertReorderRule(ctx, &dto.UpsertReorderRuleInput{
		MerchantID:          auth.GetMerchantID(ctx),
		ProductID:           req.ProductID,
		LocationID:          req.LocationID,
		MinStock:            req.MinStock,
		MaxStock:            req.MaxStock,
		ReorderQuantity:     req.ReorderQuantity,
		SafetyStock:         req.SafetyStock,
		PreferredSupplierID: supplierID,
		IsActive:            req.IsActive,
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapRule(rule), nil
}

func (h *ReorderRuleHandler) GetReorderRule(ctx context.Context, req *stockv1.GetReorderRuleRequest) (*stockv1.ReorderRule, error) {
	rule, err := h.uc.GetReorderRule(ctx, auth.GetMerchantID(ctx), req.ProductID, req.LocationID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapRule(rule), nil
}

func (h *ReorderRuleHandler) ListReorderRules(ctx context.Context, req *stockv1.ListReorderRulesRequest) (*stockv1.ListReorderRulesResponse, error) {
	rules, count, err := h.uc.ListReorderRules(ctx, &dto.ReorderRuleFilters{
		MerchantID: auth.GetMerchantID(ctx),
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}

	out := make([]*stockv1.ReorderRule, len(rules))
	for i := range rules {
		out[i] = mapRule(&rules[i])
	}
	return &stockv1.ListReorderRulesResponse{Items: out, Total: int32(count)}, nil
}

func (h *ReorderRuleHandler) DeleteReorderRule(ctx context.Context, req *stockv1.DeleteReorderRuleRequest) (*stockv1.Empty, error) {
	if err := h.uc.DeleteReorderRule(ctx, auth.GetMerchantID(ctx), req.RuleID); err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.Empty{}, nil
}

func mapRule(r *model.ReorderRule) *stockv1.ReorderRule {
	out := &stockv1.ReorderRule{
		ID:              r.ID,
		ProductID:       r.ProductID,
		LocationID:      r.LocationID,
		MinStock:        r.MinStock,
		MaxStock:        r.MaxStock,
		ReorderQuantity: r.ReorderQuantity,
		SafetyStock:     r.SafetyStock,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.PreferredSupplierID != nil {
		out.PreferredSupplierID = *r.PreferredSupplierID
	}
	return out
}
