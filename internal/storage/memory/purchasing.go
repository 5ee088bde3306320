package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing/dto"
)

type PurchasingRepository struct {
	store *Store
}

func NewPurchasingRepository(s *Store) *PurchasingRepository {
	return &PurchasingRepository{store: s}
}

func (r *PurchasingRepository) FindSupplier(ctx context.Context, merchantID, id string) (*model.Supplier, error) {
	var out *model.Supplier
	r.store.read(ctx, func(d *data) {
		if s, ok := d.suppliers[tenantKey(merchantID, id)]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *PurchasingRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return r.store.write(ctx, func(d *data) error {
		for _, existing := range d.orders {
			if existing.MerchantID == po.MerchantID && existing.PONumber == po.PONumber {
				return apperror.Conflict("purchase_order.create", "purchase order number %s already exists", po.PONumber)
			}
		}
		d.orders[po.ID] = cloneOrder(*po)
		return nil
	})
}

func (r *PurchasingRepository) FindByID(ctx context.Context, merchantID, id string) (*model.PurchaseOrder, error) {
	var out *model.PurchaseOrder
	r.store.read(ctx, func(d *data) {
		if po, ok := d.orders[id]; ok && po.MerchantID == merchantID {
			c := cloneOrder(po)
			sort.Slice(c.Items, func(i, j int) bool { return c.Items[i].ProductID < c.Items[j].ProductID })
			out = &c
		}
	})
	return out, nil
}

func (r *PurchasingRepository) FindAll(ctx context.Context, f *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error) {
	var matched []model.PurchaseOrder
	r.store.read(ctx, func(d *data) {
		for _, po := range d.orders {
			switch {
			case po.MerchantID != f.MerchantID,
				f.Status != "" && string(po.Status) != f.Status,
				f.SupplierID != "" && po.SupplierID != f.SupplierID:
				continue
			}
			c := cloneOrder(po)
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

func (r *PurchasingRepository) UpdateStatus(ctx context.Context, po *model.PurchaseOrder, expected ...model.POStatus) error {
	return r.store.write(ctx, func(d *data) error {
		stored, ok := d.orders[po.ID]
		if !ok || stored.MerchantID != po.MerchantID || !slices.Contains(expected, stored.Status) {
			return apperror.Conflict("purchase_order.update_status", "purchase order %s changed concurrently", po.PONumber)
		}
		stored.Status = po.Status
		stored.ApprovedBy = po.ApprovedBy
		stored.SentAt = po.SentAt
		stored.ReceivedAt = po.ReceivedAt
		stored.UpdatedAt = po.UpdatedAt
		d.orders[po.ID] = stored
		return nil
	})
}

func (r *PurchasingRepository) LockItem(ctx context.Context, purchaseOrderID, itemID string) (*model.PurchaseOrderItem, error) {
	if !txm.Active(ctx) {
		return nil, apperror.Conflict("purchase_order.lock_item", "LockItem requires a unit of work")
	}
	po, ok := r.store.data.orders[purchaseOrderID]
	if !ok {
		return nil, apperror.NotFound("purchase_order.lock_item", "purchase order", purchaseOrderID)
	}
	if item := po.Item(itemID); item != nil {
		c := *item
		return &c, nil
	}
	return nil, apperror.NotFound("purchase_order.lock_item", "purchase order item", itemID)
}

func (r *PurchasingRepository) UpdateItemReceived(ctx context.Context, item *model.PurchaseOrderItem) error {
	return r.store.write(ctx, func(d *data) error {
		po, ok := d.orders[item.PurchaseOrderID]
		if !ok {
			return apperror.NotFound("purchase_order.update_item", "purchase order", item.PurchaseOrderID)
		}
		if stored := po.Item(item.ID); stored != nil {
			stored.QuantityReceived = item.QuantityReceived
		}
		d.orders[po.ID] = po
		return nil
	})
}

func (r *PurchasingRepository) CreateReceipt(ctx context.Context, receipt *model.GoodsReceipt) error {
	return r.store.write(ctx, func(d *data) error {
		for _, existing := range d.receipts {
			if existing.MerchantID == receipt.MerchantID && existing.GRNNumber == receipt.GRNNumber {
				return apperror.Conflict("goods_receipt.create", "goods receipt number %s already exists", receipt.GRNNumber)
			}
		}
		d.receipts[receipt.ID] = cloneReceipt(*receipt)
		return nil
	})
}

func (r *PurchasingRepository) AddReceiptItem(ctx context.Context, item *model.GoodsReceiptItem) error {
	return r.store.write(ctx, func(d *data) error {
		receipt, ok := d.receipts[item.GoodsReceiptID]
		if !ok {
			return apperror.NotFound("goods_receipt.add_item", "goods receipt", item.GoodsReceiptID)
		}
		receipt.Items = append(receipt.Items, *item)
		d.receipts[receipt.ID] = receipt
		return nil
	})
}

func (r *PurchasingRepository) FindReceipt(ctx context.Context, merchantID, id string) (*model.GoodsReceipt, error) {
	var out *model.GoodsReceipt
	r.store.read(ctx, func(d *data) {
		if receipt, ok := d.receipts[id]; ok && receipt.MerchantID == merchantID {
			c := cloneReceipt(receipt)
			out = &c
		}
	})
	return out, nil
}

func (r *PurchasingRepository) ListReceipts(ctx context.Context, merchantID, purchaseOrderID string) ([]model.GoodsReceipt, error) {
	receipts := []model.GoodsReceipt{}
	r.store.read(ctx, func(d *data) {
		for _, receipt := range d.receipts {
			if receipt.MerchantID != merchantID || receipt.PurchaseOrderID == nil || *receipt.PurchaseOrderID != purchaseOrderID {
				continue
			}
			receipts = append(receipts, cloneReceipt(receipt))
		}
	})
	sort.Slice(receipts, func(i, j int) bool {
		if !receipts[i].CreatedAt.Equal(receipts[j].CreatedAt) {
			return receipts[i].CreatedAt.Before(receipts[j].CreatedAt)
		}
		return receipts[i].GRNNumber < receipts[j].GRNNumber
	})
	return receipts, nil
}
