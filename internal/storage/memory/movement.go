package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
)

type MovementRepository struct {
	store *Store
}

func NewMovementRepository(s *Store) *MovementRepository {
	return &MovementRepository{store: s}
}

func (r *MovementRepository) Insert(ctx context.Context, entry *model.MovementEntry) error {
	return r.store.write(ctx, func(d *data) error {
		d.movements = append(d.movements, *entry)
		return nil
	})
}

func (r *MovementRepository) FindAll(ctx context.Context, f *dto.MovementFilters) ([]model.MovementEntry, int, error) {
	var matched []model.MovementEntry
	r.store.read(ctx, func(d *data) {
		for _, m := range d.movements {
			switch {
			case m.MerchantID != f.MerchantID,
				f.ProductID != "" && m.ProductID != f.ProductID,
				f.LocationID != "" && m.LocationID != f.LocationID,
				f.AdjustmentType != "" && string(m.AdjustmentType) != f.AdjustmentType,
				f.StartDate != nil && m.CreatedAt.Before(*f.StartDate),
				f.EndDate != nil && m.CreatedAt.After(*f.EndDate):
				continue
			}
			matched = append(matched, m)
		}
	})
	// Entries are appended in write order, so index breaks timestamp ties.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	reverseTies(matched)
	return pagination.Window(matched, f.Page, f.PageSize), len(matched), nil
}

// reverseTies flips runs of equal timestamps so the latest write comes first.
func reverseTies(items []model.MovementEntry) {
	for i := 0; i < len(items); {
		j := i + 1
		for j < len(items) && items[j].CreatedAt.Equal(items[i].CreatedAt) {
			j++
		}
		for a, b := i, j-1; a < b; a, b = a+1, b-1 {
			items[a], items[b] = items[b], items[a]
		}
		i = j
	}
}
