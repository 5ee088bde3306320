package repository

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByIDs(ctx context.Context, merchantID string, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, merchant_id, sku, name, base_price, cost_price, track_inventory, is_active
        FROM products
        WHERE merchant_id = ? AND id IN (?)
    `, merchantID, ids)
	if err != nil {
		return nil, err
	}

	var items []model.Product
	err = r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...)
	return items, err
}
