package model

import "github.com/shopspring/decimal"

// Product is the slice of the catalog this service reads. The catalog owns
// the table; nothing here writes to it.
type Product struct {
	ID             string           `db:"id" json:"id"`
	MerchantID     string           `db:"merchant_id" json:"merchant_id"`
	SKU            string           `db:"sku" json:"sku"`
	Name           string           `db:"name" json:"name"`
	BasePrice      decimal.Decimal  `db:"base_price" json:"base_price"`
	CostPrice      *decimal.Decimal `db:"cost_price" json:"cost_price"`
	TrackInventory bool             `db:"track_inventory" json:"track_inventory"`
	IsActive       bool             `db:"is_active" json:"is_active"`
}

// Cost falls back to zero for products without a recorded cost price.
func (p *Product) Cost() decimal.Decimal {
	if p.CostPrice == nil {
		return decimal.Zero
	}
	return *p.CostPrice
}
