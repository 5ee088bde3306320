package dto

import (
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/shopspring/decimal"
)

type InventoryFilters struct {
	MerchantID string
	LocationID string
	ProductID  string
	LowStock   bool // on_hand <= reorder_point
	OutOfStock bool // on_hand - reserved <= 0
	Page       int
	PageSize   int
}

type StockTotals struct {
	OnHand    int64 `json:"quantity_on_hand"`
	Reserved  int64 `json:"quantity_reserved"`
	Available int64 `json:"quantity_available"`
	OnOrder   int64 `json:"quantity_on_order"`
	InTransit int64 `json:"quantity_in_transit"`
}

func (t *StockTotals) Add(r *model.InventoryRecord) {
	t.OnHand += r.QuantityOnHand
	t.Reserved += r.QuantityReserved
	t.Available += r.Available()
	t.OnOrder += r.QuantityOnOrder
	t.InTransit += r.QuantityInTransit
}

type ProductStock struct {
	ProductID string                `json:"product_id"`
	Locations []model.InventoryView `json:"locations"`
	Totals    StockTotals           `json:"totals"`
}

// MutationResult is the record as written plus the movement entry, which is
// nil when on-hand did not change and no entry was requested.
type MutationResult struct {
	Record   *model.InventoryRecord `json:"record"`
	Movement *model.MovementEntry   `json:"movement,omitempty"`
}

type CountItemResult struct {
	ProductID      string `json:"product_id"`
	SubLocationID  string `json:"sub_location_id,omitempty"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	QuantityBefore int64  `json:"quantity_before"`
	QuantityAfter  int64  `json:"quantity_after"`
	Variance       int64  `json:"variance"`
	MovementID     string `json:"movement_id,omitempty"`
}

type CountResult struct {
	LocationID string            `json:"location_id"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Items      []CountItemResult `json:"items"`
}

type ValuationLine struct {
	ProductID     string          `json:"product_id"`
	ProductSKU    string          `json:"product_sku"`
	ProductName   string          `json:"product_name"`
	SubLocationID string          `json:"sub_location_id,omitempty"`
	OnHand        int64           `json:"quantity_on_hand"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CostValue     decimal.Decimal `json:"cost_value"`
	RetailValue   decimal.Decimal `json:"retail_value"`
}

type LocationValuation struct {
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Lines        []ValuationLine `json:"lines"`
	TotalUnits   int64           `json:"total_units"`
	CostValue    decimal.Decimal `json:"cost_value"`
	RetailValue  decimal.Decimal `json:"retail_value"`
}

type Valuation struct {
	Locations   []LocationValuation `json:"locations"`
	TotalUnits  int64               `json:"total_units"`
	CostValue   decimal.Decimal     `json:"cost_value"`
	RetailValue decimal.Decimal     `json:"retail_value"`
}
