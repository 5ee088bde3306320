package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer/dto"
)

type TransferRepository struct {
	store *Store
}

func NewTransferRepository(s *Store) *TransferRepository {
	return &TransferRepository{store: s}
}

func (r *TransferRepository) Create(ctx context.Context, t *model.StockTransfer) error {
	return r.store.write(ctx, func(d *data) error {
		for _, existing := range d.transfers {
			if existing.MerchantID == t.MerchantID && existing.TransferNumber == t.TransferNumber {
				return apperror.Conflict("transfer.create", "transfer number %s already exists", t.TransferNumber)
			}
		}
		d.transfers[t.ID] = cloneTransfer(*t)
		return nil
	})
}

func (r *TransferRepository) FindByID(ctx context.Context, merchantID, id string) (*model.StockTransfer, error) {
	var out *model.StockTransfer
	r.store.read(ctx, func(d *data) {
		if t, ok := d.transfers[id]; ok && t.MerchantID == merchantID {
			c := cloneTransfer(t)
			sort.Slice(c.Items, func(i, j int) bool { return c.Items[i].ProductID < c.Items[j].ProductID })
			out = &c
		}
	})
	return out, nil
}

func (r *TransferRepository) FindAll(ctx context.Context, f *dto.TransferFilters) ([]model.StockTransfer, int, error) {
	var matched []model.StockTransfer
	r.store.read(ctx, func(d *data) {
		for _, t := range d.transfers {
			switch {
			case t.MerchantID != f.MerchantID,
				f.Status != "" && string(t.Status) != f.Status,
				f.FromLocationID != "" && t.FromLocationID != f.FromLocationID,
				f.ToLocationID != "" && t.ToLocationID != f.ToLocationID:
				continue
			}
			c := cloneTransfer(t)
			c.Items = nil
			matched = append(matched, c)
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return pagination.Window(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *TransferRepository) UpdateStatus(ctx context.Context, t *model.StockTransfer, expected model.TransferStatus) error {
	return r.store.write(ctx, func(d *data) error {
		stored, ok := d.transfers[t.ID]
		if !ok || stored.MerchantID != t.MerchantID || stored.Status != expected {
			return apperror.Conflict("transfer.update_status", "transfer %s is no longer %s", t.TransferNumber, expected)
		}
		stored.Status = t.Status
		stored.ApprovedBy = t.ApprovedBy
		stored.ShippedAt = t.ShippedAt
		stored.ReceivedAt = t.ReceivedAt
		stored.CancelledAt = t.CancelledAt
		stored.CancelReason = t.CancelReason
		stored.UpdatedAt = t.UpdatedAt
		d.transfers[t.ID] = stored
		return nil
	})
}

func (r *TransferRepository) UpdateItem(ctx context.Context, item *model.StockTransferItem) error {
	return r.store.write(ctx, func(d *data) error {
		t, ok := d.transfers[item.TransferID]
		if !ok {
			return nil
		}
		for i := range t.Items {
			if t.Items[i].ID == item.ID {
				t.Items[i].QuantityShipped = item.QuantityShipped
				t.Items[i].QuantityReceived = item.QuantityReceived
				t.Items[i].VarianceReason = item.VarianceReason
			}
		}
		d.transfers[t.ID] = t
		return nil
	})
}
