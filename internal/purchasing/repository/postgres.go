package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/postgres"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindSupplier(ctx context.Context, merchantID, id string) (*model.Supplier, error) {
	var s model.Supplier
	err := sqlx.GetContext(ctx, txm.Executor(ctx, r.DB), &s,
		`SELECT * FROM suppliers WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	exec := txm.Executor(ctx, r.DB)
	query := `
        INSERT INTO purchase_orders (
            id, merchant_id, po_number, supplier_id, delivery_location_id, status,
            subtotal, tax, total, expected_delivery_date, created_by, notes, created_at, updated_at
        )
        VALUES (
            :id, :merchant_id, :po_number, :supplier_id, :delivery_location_id, :status,
            :subtotal, :tax, :total, :expected_delivery_date, :created_by, :notes, :created_at, :updated_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, exec, query, po); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.Conflict("purchase_order.create", "purchase order number %s already exists", po.PONumber)
		}
		return err
	}

	itemQuery := `
        INSERT INTO purchase_order_items (
            id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost, total_cost
        )
        VALUES (
            :id, :purchase_order_id, :product_id, :quantity_ordered, :quantity_received, :unit_cost, :total_cost
        )
    `
	for i := range po.Items {
		if _, err := sqlx.NamedExecContext(ctx, exec, itemQuery, &po.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindByID locks the header row when called inside a unit of work.
func (r *PGRepository) FindByID(ctx context.Context, merchantID, id string) (*model.PurchaseOrder, error) {
	exec := txm.Executor(ctx, r.DB)

	query := `SELECT * FROM purchase_orders WHERE merchant_id = $1 AND id = $2`
	if txm.Active(ctx) {
		query += ` FOR UPDATE`
	}

	var po model.PurchaseOrder
	if err := sqlx.GetContext(ctx, exec, &po, query, merchantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err := sqlx.SelectContext(ctx, exec, &po.Items,
		`SELECT * FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY product_id`, po.ID)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PurchaseOrderFilters) ([]model.PurchaseOrder, int, error) {
	items := []model.PurchaseOrder{}
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM purchase_orders"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM purchase_orders" + whereClause + " ORDER BY created_at DESC, id"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, pagination.Offset(f.Page, f.PageSize))

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, po *model.PurchaseOrder, expected ...model.POStatus) error {
	query, args, err := sqlx.In(`
        UPDATE purchase_orders SET
            status = ?,
            approved_by = ?,
            sent_at = ?,
            received_at = ?,
            updated_at = ?
        WHERE merchant_id = ? AND id = ? AND status IN (?)
    `, po.Status, po.ApprovedBy, po.SentAt, po.ReceivedAt, po.UpdatedAt, po.MerchantID, po.ID, expected)
	if err != nil {
		return err
	}

	res, err := txm.Executor(ctx, r.DB).ExecContext(ctx, r.DB.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.Conflict("purchase_order.update_status", "purchase order %s changed concurrently", po.PONumber)
	}
	return nil
}

func (r *PGRepository) LockItem(ctx context.Context, purchaseOrderID, itemID string) (*model.PurchaseOrderItem, error) {
	if !txm.Active(ctx) {
		return nil, errors.New("purchasing: LockItem requires an active transaction")
	}
	var item model.PurchaseOrderItem
	err := sqlx.GetContext(ctx, txm.Executor(ctx, r.DB), &item,
		`SELECT * FROM purchase_order_items WHERE purchase_order_id = $1 AND id = $2 FOR UPDATE`,
		purchaseOrderID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("purchase_order.lock_item", "purchase order item", itemID)
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) UpdateItemReceived(ctx context.Context, item *model.PurchaseOrderItem) error {
	_, err := txm.Executor(ctx, r.DB).ExecContext(ctx,
		`UPDATE purchase_order_items SET quantity_received = $1 WHERE id = $2`,
		item.QuantityReceived, item.ID)
	return err
}

func (r *PGRepository) CreateReceipt(ctx context.Context, receipt *model.GoodsReceipt) error {
	query := `
        INSERT INTO goods_receipts (
            id, merchant_id, grn_number, purchase_order_id, supplier_id, location_id, received_by, notes, created_at
        )
        VALUES (
            :id, :merchant_id, :grn_number, :purchase_order_id, :supplier_id, :location_id, :received_by, :notes, :created_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, txm.Executor(ctx, r.DB), query, receipt); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.Conflict("goods_receipt.create", "goods receipt number %s already exists", receipt.GRNNumber)
		}
		return err
	}
	return nil
}

func (r *PGRepository) AddReceiptItem(ctx context.Context, item *model.GoodsReceiptItem) error {
	query := `
        INSERT INTO goods_receipt_items (
            id, goods_receipt_id, purchase_order_item_id, product_id, quantity_received, quantity_accepted,
            quantity_rejected, rejection_reason, batch_number, expiry_date, bin_location, created_at
        )
        VALUES (
            :id, :goods_receipt_id, :purchase_order_item_id, :product_id, :quantity_received, :quantity_accepted,
            :quantity_rejected, :rejection_reason, :batch_number, :expiry_date, :bin_location, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, txm.Executor(ctx, r.DB), query, item)
	return err
}

func (r *PGRepository) FindReceipt(ctx context.Context, merchantID, id string) (*model.GoodsReceipt, error) {
	exec := txm.Executor(ctx, r.DB)

	var receipt model.GoodsReceipt
	err := sqlx.GetContext(ctx, exec, &receipt,
		`SELECT * FROM goods_receipts WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = sqlx.SelectContext(ctx, exec, &receipt.Items,
		`SELECT * FROM goods_receipt_items WHERE goods_receipt_id = $1 ORDER BY created_at, id`, receipt.ID)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *PGRepository) ListReceipts(ctx context.Context, merchantID, purchaseOrderID string) ([]model.GoodsReceipt, error) {
	receipts := []model.GoodsReceipt{}
	err := sqlx.SelectContext(ctx, txm.Executor(ctx, r.DB), &receipts, `
        SELECT * FROM goods_receipts
        WHERE merchant_id = $1 AND purchase_order_id = $2
        ORDER BY created_at, id
    `, merchantID, purchaseOrderID)
	if err != nil {
		return nil, err
	}

	for i := range receipts {
		err := sqlx.SelectContext(ctx, r.DB, &receipts[i].Items,
			`SELECT * FROM goods_receipt_items WHERE goods_receipt_id = $1 ORDER BY created_at, id`, receipts[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return receipts, nil
}
