package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pagination"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Upsert(ctx context.Context, rule *model.ReorderRule) (*model.ReorderRule, error) {
	query := `
        INSERT INTO reorder_rules (
            id, merchant_id, product_id, location_id, min_stock, max_stock, reorder_quantity,
            safety_stock, preferred_supplier_id, is_active, created_at, updated_at
        )
        VALUES (
            :id, :merchant_id, :product_id, :location_id, :min_stock, :max_stock, :reorder_quantity,
            :safety_stock, :preferred_supplier_id, :is_active, :created_at, :updated_at
        )
        ON CONFLICT (merchant_id, product_id, location_id) DO UPDATE SET
            min_stock = EXCLUDED.min_stock,
            max_stock = EXCLUDED.max_stock,
            reorder_quantity = EXCLUDED.reorder_quantity,
            safety_stock = EXCLUDED.safety_stock,
            preferred_supplier_id = EXCLUDED.preferred_supplier_id,
            is_active = EXCLUDED.is_active,
            updated_at = EXCLUDED.updated_at
        RETURNING *
    `
	exec := txm.Executor(ctx, r.DB)
	q, args, err := sqlx.Named(query, rule)
	if err != nil {
		return nil, err
	}

	var stored model.ReorderRule
	if err := sqlx.GetContext(ctx, exec, &stored, r.DB.Rebind(q), args...); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PGRepository) Get(ctx context.Context, merchantID, productID, locationID string) (*model.ReorderRule, error) {
	var rule model.ReorderRule
	err := sqlx.GetContext(ctx, txm.Executor(ctx, r.DB), &rule, `
        SELECT * FROM reorder_rules
        WHERE merchant_id = $1 AND product_id = $2 AND location_id = $3
    `, merchantID, productID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *PGRepository) FindByID(ctx context.Context, merchantID, id string) (*model.ReorderRule, error) {
	var rule model.ReorderRule
	err := sqlx.GetContext(ctx, txm.Executor(ctx, r.DB), &rule,
		`SELECT * FROM reorder_rules WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ReorderRuleFilters) ([]model.ReorderRule, int, error) {
	items := []model.ReorderRule{}
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM reorder_rules"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM reorder_rules" + whereClause + " ORDER BY location_id, product_id"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, pagination.Offset(f.Page, f.PageSize))

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Delete(ctx context.Context, merchantID, id string) error {
	_, err := txm.Executor(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM reorder_rules WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	return err
}
