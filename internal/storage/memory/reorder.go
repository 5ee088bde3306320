package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder/dto"
)

type ReorderRepository struct {
	store *Store
}

func NewReorderRepository(s *Store) *ReorderRepository {
	return &ReorderRepository{store: s}
}

func (r *ReorderRepository) Upsert(ctx context.Context, rule *model.ReorderRule) (*model.ReorderRule, error) {
	var stored model.ReorderRule
	err := r.store.write(ctx, func(d *data) error {
		for id, existing := range d.rules {
			if existing.MerchantID == rule.MerchantID && existing.ProductID == rule.ProductID && existing.LocationID == rule.LocationID {
				next := *rule
				next.ID = id
				next.CreatedAt = existing.CreatedAt
				d.rules[id] = next
				stored = next
				return nil
			}
		}
		d.rules[rule.ID] = *rule
		stored = *rule
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ReorderRepository) Get(ctx context.Context, merchantID, productID, locationID string) (*model.ReorderRule, error) {
	var out *model.ReorderRule
	r.store.read(ctx, func(d *data) {
		for _, rule := range d.rules {
			if rule.MerchantID == merchantID && rule.ProductID == productID && rule.LocationID == locationID {
				out = &rule
				return
			}
		}
	})
	return out, nil
}

func (r *ReorderRepository) FindByID(ctx context.Context, merchantID, id string) (*model.ReorderRule, error) {
	var out *model.ReorderRule
	r.store.read(ctx, func(d *data) {
		if rule, ok := d.rules[id]; ok && rule.MerchantID == merchantID {
			out = &rule
		}
	})
	return out, nil
}

func (r *ReorderRepository) FindAll(ctx context.Context, f *dto.ReorderRuleFilters) ([]model.ReorderRule, int, error) {
	var matched []model.ReorderRule
	r.store.read(ctx, func(d *data) {
		for _, rule := range d.rules {
			switch {
			case rule.MerchantID != f.MerchantID,
				f.LocationID != "" && rule.LocationID != f.LocationID,
				f.ProductID != "" && rule.ProductID != f.ProductID:
				continue
			}
			matched = append(matched, rule)
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LocationID != matched[j].LocationID {
			return matched[i].LocationID < matched[j].LocationID
		}
		return matched[i].ProductID < matched[j].ProductID
	})
	return pagination.Window(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *ReorderRepository) Delete(ctx context.Context, merchantID, id string) error {
	return r.store.write(ctx, func(d *data) error {
		if rule, ok := d.rules[id]; ok && rule.MerchantID == merchantID {
			delete(d.rules, id)
		}
		return nil
	})
}
