package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
)

type LocationRepository struct {
	store *Store
}

func NewLocationRepository(s *Store) *LocationRepository {
	return &LocationRepository{store: s}
}

func (r *LocationRepository) Create(ctx context.Context, loc *model.Location) error {
	return r.store.write(ctx, func(d *data) error {
		for _, existing := range d.locations {
			if existing.MerchantID == loc.MerchantID && existing.Code == loc.Code {
				return apperror.Conflict("location.create", "location code %s already exists", loc.Code)
			}
		}
		d.locations[tenantKey(loc.MerchantID, loc.ID)] = *loc
		return nil
	})
}

func (r *LocationRepository) FindByID(ctx context.Context, merchantID, id string) (*model.Location, error) {
	var out *model.Location
	r.store.read(ctx, func(d *data) {
		if loc, ok := d.locations[tenantKey(merchantID, id)]; ok {
			out = &loc
		}
	})
	return out, nil
}

func (r *LocationRepository) FindAll(ctx context.Context, f *dto.LocationFilters) ([]model.Location, int, error) {
	var matched []model.Location
	r.store.read(ctx, func(d *data) {
		for _, loc := range d.locations {
			if loc.MerchantID != f.MerchantID {
				continue
			}
			if f.ParentID != nil {
				if *f.ParentID == "" && loc.ParentID != nil {
					continue
				}
				if *f.ParentID != "" && (loc.ParentID == nil || *loc.ParentID != *f.ParentID) {
					continue
				}
			}
			if f.Type != "" && string(loc.Type) != f.Type {
				continue
			}
			if f.IsActive != nil && loc.IsActive != *f.IsActive {
				continue
			}
			matched = append(matched, loc)
		}
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })
	return pagination.Window(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *LocationRepository) ListAll(ctx context.Context, merchantID string) ([]model.Location, error) {
	var items []model.Location
	r.store.read(ctx, func(d *data) {
		for _, loc := range d.locations {
			if loc.MerchantID == merchantID {
				items = append(items, loc)
			}
		}
	})
	return items, nil
}
