package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const viewColumns = `
        i.*,
        COALESCE(p.name, '') AS product_name,
        COALESCE(p.sku, '') AS product_sku,
        COALESCE(l.name, '') AS location_name,
        COALESCE(l.code, '') AS location_code
`

const viewFrom = `
        FROM inventory_records i
        LEFT JOIN products p ON p.id = i.product_id AND p.merchant_id = i.merchant_id
        LEFT JOIN locations l ON l.id = i.location_id AND l.merchant_id = i.merchant_id
`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryView, int, error) {
	items := []model.InventoryView{}
	var count int

	conditions := []string{"i.merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.LocationID != "" {
		conditions = append(conditions, "i.location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "i.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LowStock {
		conditions = append(conditions, "i.quantity_on_hand <= i.reorder_point")
	}
	if f.OutOfStock {
		conditions = append(conditions, "i.quantity_on_hand - i.quantity_reserved <= 0")
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery, countArgs, err := sqlx.Named("SELECT count(*)"+viewFrom+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + viewColumns + viewFrom + whereClause + " ORDER BY i.updated_at DESC, i.id"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, pagination.Offset(f.Page, f.PageSize))

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListByProduct(ctx context.Context, merchantID, productID string) ([]model.InventoryView, error) {
	items := []model.InventoryView{}
	query := "SELECT" + viewColumns + viewFrom + `
        WHERE i.merchant_id = $1 AND i.product_id = $2
        ORDER BY location_name, i.sub_location_id
    `
	err := r.DB.SelectContext(ctx, &items, query, merchantID, productID)
	return items, err
}

func (r *PGRepository) ListStocked(ctx context.Context, merchantID, locationID string) ([]model.InventoryView, error) {
	items := []model.InventoryView{}
	query := "SELECT" + viewColumns + viewFrom + `
        WHERE i.merchant_id = $1 AND i.quantity_on_hand > 0 AND ($2 = '' OR i.location_id::text = $2)
        ORDER BY location_name, i.location_id, product_name, i.sub_location_id
    `
	err := r.DB.SelectContext(ctx, &items, query, merchantID, locationID)
	return items, err
}

func (r *PGRepository) GetRecord(ctx context.Context, key model.StockKey) (*model.InventoryRecord, error) {
	var rec model.InventoryRecord
	query := `
        SELECT * FROM inventory_records
        WHERE merchant_id = $1 AND product_id = $2 AND location_id = $3 AND sub_location_id = $4
    `
	err := sqlx.GetContext(ctx, txm.Executor(ctx, r.DB), &rec, query,
		key.MerchantID, key.ProductID, key.LocationID, key.SubLocationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// LockRecord inserts the zero record on first use, seeding the reorder
// levels from an active rule, then takes the row lock.
func (r *PGRepository) LockRecord(ctx context.Context, key model.StockKey) (*model.InventoryRecord, error) {
	if !txm.Active(ctx) {
		return nil, errors.New("inventory: LockRecord called outside a unit of work")
	}
	exec := txm.Executor(ctx, r.DB)

	insert := `
        INSERT INTO inventory_records (
            id, merchant_id, product_id, location_id, sub_location_id,
            reorder_point, reorder_quantity, max_stock_level, created_at, updated_at
        )
        SELECT $1, $2, $3, $4, $5,
            COALESCE(rr.min_stock, 0), COALESCE(rr.reorder_quantity, 0), COALESCE(rr.max_stock, 0), $6, $6
        FROM (SELECT 1) AS seed
        LEFT JOIN reorder_rules rr
            ON rr.merchant_id = $2 AND rr.product_id = $3 AND rr.location_id = $4 AND rr.is_active
        ON CONFLICT (merchant_id, product_id, location_id, sub_location_id) DO NOTHING
    `
	_, err := exec.ExecContext(ctx, insert, uuid.New().String(),
		key.MerchantID, key.ProductID, key.LocationID, key.SubLocationID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var rec model.InventoryRecord
	query := `
        SELECT * FROM inventory_records
        WHERE merchant_id = $1 AND product_id = $2 AND location_id = $3 AND sub_location_id = $4
        FOR UPDATE
    `
	err = sqlx.GetContext(ctx, exec, &rec, query, key.MerchantID, key.ProductID, key.LocationID, key.SubLocationID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PGRepository) UpdateRecord(ctx context.Context, rec *model.InventoryRecord) error {
	query := `
        UPDATE inventory_records SET
            quantity_on_hand = :quantity_on_hand,
            quantity_reserved = :quantity_reserved,
            quantity_on_order = :quantity_on_order,
            quantity_in_transit = :quantity_in_transit,
            last_counted_at = :last_counted_at,
            last_received_at = :last_received_at,
            last_sold_at = :last_sold_at,
            updated_at = :updated_at,
            version = version + 1
        WHERE id = :id AND version = :version
    `
	res, err := sqlx.NamedExecContext(ctx, txm.Executor(ctx, r.DB), query, rec)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.Conflict("inventory.update", "record %s was modified concurrently", rec.Key())
	}
	rec.Version++
	return nil
}

func (r *PGRepository) SetReorderLevels(ctx context.Context, merchantID, productID, locationID string, point, quantity, maxLevel int64) error {
	query := `
        UPDATE inventory_records SET
            reorder_point = $4,
            reorder_quantity = $5,
            max_stock_level = $6,
            updated_at = now(),
            version = version + 1
        WHERE merchant_id = $1 AND product_id = $2 AND location_id = $3
    `
	_, err := txm.Executor(ctx, r.DB).ExecContext(ctx, query, merchantID, productID, locationID, point, quantity, maxLevel)
	return err
}
