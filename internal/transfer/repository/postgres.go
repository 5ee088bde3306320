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
	"github.com/fekuna/omnipos-inventory-service/internal/transfer/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, t *model.StockTransfer) error {
	exec := txm.Executor(ctx, r.DB)
	query := `
        INSERT INTO stock_transfers (
            id, merchant_id, transfer_number, from_location_id, to_location_id, status,
            requested_by, expected_arrival_date, notes, created_at, updated_at
        )
        VALUES (
            :id, :merchant_id, :transfer_number, :from_location_id, :to_location_id, :status,
            :requested_by, :expected_arrival_date, :notes, :created_at, :updated_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, exec, query, t); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.Conflict("transfer.create", "transfer number %s already exists", t.TransferNumber)
		}
		return err
	}

	itemQuery := `
        INSERT INTO stock_transfer_items (id, transfer_id, product_id, quantity_requested)
        VALUES (:id, :transfer_id, :product_id, :quantity_requested)
    `
	for i := range t.Items {
		if _, err := sqlx.NamedExecContext(ctx, exec, itemQuery, &t.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindByID locks the header row when called inside a unit of work so the
// following status update sees the state it validated against.
func (r *PGRepository) FindByID(ctx context.Context, merchantID, id string) (*model.StockTransfer, error) {
	exec := txm.Executor(ctx, r.DB)

	query := `SELECT * FROM stock_transfers WHERE merchant_id = $1 AND id = $2`
	if txm.Active(ctx) {
		query += ` FOR UPDATE`
	}

	var t model.StockTransfer
	if err := sqlx.GetContext(ctx, exec, &t, query, merchantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err := sqlx.SelectContext(ctx, exec, &t.Items,
		`SELECT * FROM stock_transfer_items WHERE transfer_id = $1 ORDER BY product_id`, t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TransferFilters) ([]model.StockTransfer, int, error) {
	items := []model.StockTransfer{}
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.FromLocationID != "" {
		conditions = append(conditions, "from_location_id = :from_location_id")
		args["from_location_id"] = f.FromLocationID
	}
	if f.ToLocationID != "" {
		conditions = append(conditions, "to_location_id = :to_location_id")
		args["to_location_id"] = f.ToLocationID
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_transfers"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_transfers" + whereClause + " ORDER BY created_at DESC, id"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, pagination.Offset(f.Page, f.PageSize))

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, t *model.StockTransfer, expected model.TransferStatus) error {
	query := `
        UPDATE stock_transfers SET
            status = $1,
            approved_by = $2,
            shipped_at = $3,
            received_at = $4,
            cancelled_at = $5,
            cancel_reason = $6,
            updated_at = $7
        WHERE merchant_id = $8 AND id = $9 AND status = $10
    `
	res, err := txm.Executor(ctx, r.DB).ExecContext(ctx, query,
		t.Status, t.ApprovedBy, t.ShippedAt, t.ReceivedAt, t.CancelledAt, t.CancelReason, t.UpdatedAt,
		t.MerchantID, t.ID, expected)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.Conflict("transfer.update_status", "transfer %s is no longer %s", t.TransferNumber, expected)
	}
	return nil
}

func (r *PGRepository) UpdateItem(ctx context.Context, item *model.StockTransferItem) error {
	query := `
        UPDATE stock_transfer_items SET
            quantity_shipped = :quantity_shipped,
            quantity_received = :quantity_received,
            variance_reason = :variance_reason
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, txm.Executor(ctx, r.DB), query, item)
	return err
}
