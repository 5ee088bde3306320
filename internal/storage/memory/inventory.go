package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/google/uuid"
)

type InventoryRepository struct {
	store *Store
}

func NewInventoryRepository(s *Store) *InventoryRepository {
	return &InventoryRepository{store: s}
}

func (d *data) view(rec model.InventoryRecord) model.InventoryView {
	v := model.InventoryView{InventoryRecord: rec}
	if p, ok := d.products[tenantKey(rec.MerchantID, rec.ProductID)]; ok {
		v.ProductName, v.ProductSKU = p.Name, p.SKU
	}
	if l, ok := d.locations[tenantKey(rec.MerchantID, rec.LocationID)]; ok {
		v.LocationName, v.LocationCode = l.Name, l.Code
	}
	return v
}

func (r *InventoryRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryView, int, error) {
	var matched []model.InventoryView
	r.store.read(ctx, func(d *data) {
		for _, rec := range d.records {
			switch {
			case rec.MerchantID != f.MerchantID,
				f.LocationID != "" && rec.LocationID != f.LocationID,
				f.ProductID != "" && rec.ProductID != f.ProductID,
				f.LowStock && !rec.IsLowStock(),
				f.OutOfStock && !rec.IsOutOfStock():
				continue
			}
			matched = append(matched, d.view(rec))
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return pagination.Window(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *InventoryRepository) ListByProduct(ctx context.Context, merchantID, productID string) ([]model.InventoryView, error) {
	items := []model.InventoryView{}
	r.store.read(ctx, func(d *data) {
		for _, rec := range d.records {
			if rec.MerchantID == merchantID && rec.ProductID == productID {
				items = append(items, d.view(rec))
			}
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].LocationName != items[j].LocationName {
			return items[i].LocationName < items[j].LocationName
		}
		return items[i].SubLocationID < items[j].SubLocationID
	})
	return items, nil
}

func (r *InventoryRepository) ListStocked(ctx context.Context, merchantID, locationID string) ([]model.InventoryView, error) {
	items := []model.InventoryView{}
	r.store.read(ctx, func(d *data) {
		for _, rec := range d.records {
			if rec.MerchantID != merchantID || rec.QuantityOnHand <= 0 {
				continue
			}
			if locationID != "" && rec.LocationID != locationID {
				continue
			}
			items = append(items, d.view(rec))
		}
	})
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.LocationName != b.LocationName:
			return a.LocationName < b.LocationName
		case a.LocationID != b.LocationID:
			return a.LocationID < b.LocationID
		case a.ProductName != b.ProductName:
			return a.ProductName < b.ProductName
		}
		return a.SubLocationID < b.SubLocationID
	})
	return items, nil
}

func (r *InventoryRepository) GetRecord(ctx context.Context, key model.StockKey) (*model.InventoryRecord, error) {
	var out *model.InventoryRecord
	r.store.read(ctx, func(d *data) {
		if rec, ok := d.records[key]; ok {
			out = &rec
		}
	})
	return out, nil
}

// LockRecord creates the zero record on first use. The unit of work already
// holds the store lock, so the returned copy is stable until it ends.
func (r *InventoryRepository) LockRecord(ctx context.Context, key model.StockKey) (*model.InventoryRecord, error) {
	if !txm.Active(ctx) {
		return nil, errors.New("inventory: LockRecord called outside a unit of work")
	}
	d := r.store.data
	rec, ok := d.records[key]
	if !ok {
		now := time.Now().UTC()
		rec = model.InventoryRecord{
			ID:            uuid.New().String(),
			MerchantID:    key.MerchantID,
			ProductID:     key.ProductID,
			LocationID:    key.LocationID,
			SubLocationID: key.SubLocationID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if rule := d.activeRule(key.MerchantID, key.ProductID, key.LocationID); rule != nil {
			rec.ReorderPoint = rule.MinStock
			rec.ReorderQuantity = rule.ReorderQuantity
			rec.MaxStockLevel = rule.MaxStock
		}
		d.records[key] = rec
	}
	return &rec, nil
}

func (r *InventoryRepository) UpdateRecord(ctx context.Context, rec *model.InventoryRecord) error {
	return r.store.write(ctx, func(d *data) error {
		key := rec.Key()
		stored, ok := d.records[key]
		if !ok || stored.Version != rec.Version {
			return apperror.Conflict("inventory.update", "record %s was modified concurrently", key)
		}
		if rec.QuantityOnHand < 0 || rec.QuantityReserved < 0 || rec.QuantityOnOrder < 0 || rec.QuantityInTransit < 0 {
			return errors.New("inventory: quantities must not be negative")
		}
		next := *rec
		next.Version++
		d.records[key] = next
		rec.Version = next.Version
		return nil
	})
}

func (r *InventoryRepository) SetReorderLevels(ctx context.Context, merchantID, productID, locationID string, point, quantity, maxLevel int64) error {
	return r.store.write(ctx, func(d *data) error {
		now := time.Now().UTC()
		for key, rec := range d.records {
			if key.MerchantID != merchantID || key.ProductID != productID || key.LocationID != locationID {
				continue
			}
			rec.ReorderPoint = point
			rec.ReorderQuantity = quantity
			rec.MaxStockLevel = maxLevel
			rec.UpdatedAt = now
			rec.Version++
			d.records[key] = rec
		}
		return nil
	})
}

func (d *data) activeRule(merchantID, productID, locationID string) *model.ReorderRule {
	for _, rule := range d.rules {
		if rule.MerchantID == merchantID && rule.ProductID == productID && rule.LocationID == locationID && rule.IsActive {
			return &rule
		}
	}
	return nil
}
