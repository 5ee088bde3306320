package handler

import (
	"context"

	stockv1 "github.com/fekuna/omnipos-inventory-service/api/stock/v1"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/location"
	"github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
)

type LocationHandler struct {
	stockv1.UnimplementedLocationServiceServer
	uc     location.UseCase
	logger logger.Logger
}

func NewLocationHandler(uc location.UseCase, log logger.Logger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *LocationHandler) CreateLocation(ctx context.Context, req *stockv1.CreateLocationRequest) (*stockv1.Location, error) {
	var parentID *string
	if req.ParentID != "" {
		parentID = &req.ParentID
	}

	loc, err := h.uc.CreateLocation(ctx, &dto.CreateLocationInput{
		MerchantID: auth.GetMerchantID(ctx),
		ParentID:   parentID,
		Type:       req.Type,
		Code:       req.Code,
		Name:       req.Name,
	})
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapLocation(loc), nil
}

func (h *LocationHandler) GetLocation(ctx context.Context, req *stockv1.GetLocationRequest) (*stockv1.Location, error) {
	loc, err := h.uc.GetLocation(ctx, auth.GetMerchantID(ctx), req.LocationID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return mapLocation(loc), nil
}

func (h *LocationHandler) ListLocations(ctx context.Context, req *stockv1.ListLocationsRequest) (*stockv1.ListLocationsResponse, error) {
	filters := &dto.LocationFilters{
		MerchantID: auth.GetMerchantID(ctx),
		Type:       req.Type,
		IsActive:   req.IsActive,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	}
	switch {
	case req.RootsOnly:
		roots := ""
		filters.ParentID = &roots
	case req.ParentID != "":
		filters.ParentID = &req.ParentID
	}

	items, count, err := h.uc.ListLocations(ctx, filters)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListLocationsResponse{Items: mapLocations(items), Total: int32(count)}, nil
}

func (h *LocationHandler) GetAncestors(ctx context.Context, req *stockv1.GetLocationRequest) (*stockv1.ListLocationsResponse, error) {
	items, err := h.uc.Ancestors(ctx, auth.GetMerchantID(ctx), req.LocationID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListLocationsResponse{Items: mapLocations(items), Total: int32(len(items))}, nil
}

func (h *LocationHandler) GetDescendants(ctx context.Context, req *stockv1.GetLocationRequest) (*stockv1.ListLocationsResponse, error) {
	items, err := h.uc.Descendants(ctx, auth.GetMerchantID(ctx), req.LocationID)
	if err != nil {
		return nil, apperror.ToStatus(err)
	}
	return &stockv1.ListLocationsResponse{Items: mapLocations(items), Total: int32(len(items))}, nil
}

func mapLocations(items []model.Location) []*stockv1.Location {
	out := make([]*stockv1.Location, len(items))
	for i := range items {
		out[i] = mapLocation(&items[i])
	}
	return out
}

func mapLocation(l *model.Location) *stockv1.Location {
	out := &stockv1.Location{
		ID:        l.ID,
		Type:      string(l.Type),
		Code:      l.Code,
		Name:      l.Name,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if l.ParentID != nil {
		out.ParentID = *l.ParentID
	}
	return out
}
