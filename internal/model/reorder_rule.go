package model

type ReorderRule struct {
	BaseModel
	MerchantID          string  `db:"merchant_id" json:"merchant_id"`
	ProductID           string  `db:"product_id" json:"product_id"`
	LocationID          string  `db:"location_id" json:"location_id"`
	MinStock            int64   `db:"min_stock" json:"min_stock"` // reorder point
	MaxStock            int64   `db:"max_stock" json:"max_stock"`
	ReorderQuantity     int64   `db:"reorder_quantity" json:"reorder_quantity"`
	SafetyStock         int64   `db:"safety_stock" json:"safety_stock"`
	PreferredSupplierID *string `db:"preferred_supplier_id" json:"preferred_supplier_id"`
	IsActive            bool    `db:"is_active" json:"is_active"`
}
