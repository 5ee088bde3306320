package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Insert(ctx context.Context, m *model.MovementEntry) error {
	query := `
        INSERT INTO inventory_movements (
            id, merchant_id, product_id, location_id, sub_location_id,
            adjustment_type, quantity_change, quantity_before, quantity_after,
            reason, reference_type, reference_number, actor, created_at
        )
        VALUES (
            :id, :merchant_id, :product_id, :location_id, :sub_location_id,
            :adjustment_type, :quantity_change, :quantity_before, :quantity_after,
            :reason, :reference_type, :reference_number, :actor, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, txm.Executor(ctx, r.DB), query, m)
	return err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.MovementFilters) ([]model.MovementEntry, int, error) {
	items := []model.MovementEntry{}
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.AdjustmentType != "" {
		conditions = append(conditions, "adjustment_type = :adjustment_type")
		args["adjustment_type"] = f.AdjustmentType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM inventory_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, pagination.Offset(f.Page, f.PageSize))

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
