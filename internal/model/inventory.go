package model

import (
	"fmt"
	"time"
)

// AdjustmentType is the movement vocabulary written to every MovementEntry.
type AdjustmentType string

const (
	AdjustmentAdd       AdjustmentType = "add"
	AdjustmentRemove    AdjustmentType = "remove"
	AdjustmentSet       AdjustmentType = "set"
	AdjustmentCount     AdjustmentType = "count"
	AdjustmentDamage    AdjustmentType = "damage"
	AdjustmentTheft     AdjustmentType = "theft"
	AdjustmentReturn    AdjustmentType = "return"
	AdjustmentStockTake AdjustmentType = "stock_take"

	// Workflow movements, not accepted by the public adjust operation.
	MovementTransferOut    AdjustmentType = "transfer_out"
	MovementTransferIn     AdjustmentType = "transfer_in"
	MovementTransferCancel AdjustmentType = "transfer_cancel"
	MovementPOReceipt      AdjustmentType = "po_receipt"
)

// IsPublic reports whether t may be passed to the adjust operation.
func (t AdjustmentType) IsPublic() bool {
	return t.IsIncrease() || t.IsDecrease() || t.IsAbsolute()
}

func (t AdjustmentType) IsIncrease() bool {
	return t == AdjustmentAdd || t == AdjustmentReturn
}

func (t AdjustmentType) IsDecrease() bool {
	return t == AdjustmentRemove || t == AdjustmentDamage || t == AdjustmentTheft
}

// IsAbsolute is true for types whose quantity replaces on-hand instead of moving it.
func (t AdjustmentType) IsAbsolute() bool {
	return t == AdjustmentSet || t == AdjustmentCount || t == AdjustmentStockTake
}

type ReferenceType string

const (
	ReferenceSale          ReferenceType = "sale"
	ReferenceReturn        ReferenceType = "return"
	ReferenceManual        ReferenceType = "manual"
	ReferenceStockCount    ReferenceType = "stock_count"
	ReferenceTransfer      ReferenceType = "transfer"
	ReferencePurchaseOrder ReferenceType = "purchase_order"
)

// StockKey identifies one InventoryRecord. An empty SubLocationID means the
// record is not refined to a bin.
type StockKey struct {
	MerchantID    string
	ProductID     string
	LocationID    string
	SubLocationID string
}

func (k StockKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.MerchantID, k.ProductID, k.LocationID, k.SubLocationID)
}

type InventoryRecord struct {
	ID                string     `db:"id" json:"id"`
	MerchantID        string     `db:"merchant_id" json:"merchant_id"`
	ProductID         string     `db:"product_id" json:"product_id"`
	LocationID        string     `db:"location_id" json:"location_id"`
	SubLocationID     string     `db:"sub_location_id" json:"sub_location_id"`
	QuantityOnHand    int64      `db:"quantity_on_hand" json:"quantity_on_hand"`
	QuantityReserved  int64      `db:"quantity_reserved" json:"quantity_reserved"`
	QuantityOnOrder   int64      `db:"quantity_on_order" json:"quantity_on_order"`
	QuantityInTransit int64      `db:"quantity_in_transit" json:"quantity_in_transit"`
	ReorderPoint      int64      `db:"reorder_point" json:"reorder_point"`
	ReorderQuantity   int64      `db:"reorder_quantity" json:"reorder_quantity"`
	MaxStockLevel     int64      `db:"max_stock_level" json:"max_stock_level"`
	LastCountedAt     *time.Time `db:"last_counted_at" json:"last_counted_at"`
	LastReceivedAt    *time.Time `db:"last_received_at" json:"last_received_at"`
	LastSoldAt        *time.Time `db:"last_sold_at" json:"last_sold_at"`
	Version           int64      `db:"version" json:"version"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *InventoryRecord) Key() StockKey {
	return StockKey{
		MerchantID:    r.MerchantID,
		ProductID:     r.ProductID,
		LocationID:    r.LocationID,
		SubLocationID: r.SubLocationID,
	}
}

// Available is on-hand stock not committed to an order.
func (r *InventoryRecord) Available() int64 {
	return r.QuantityOnHand - r.QuantityReserved
}

func (r *InventoryRecord) IsLowStock() bool {
	return r.QuantityOnHand <= r.ReorderPoint
}

func (r *InventoryRecord) IsOutOfStock() bool {
	return r.Available() <= 0
}

// InventoryView is a record joined with catalog and directory fields.
type InventoryView struct {
	InventoryRecord
	ProductName  string `db:"product_name" json:"product_name"`
	ProductSKU   string `db:"product_sku" json:"product_sku"`
	LocationName string `db:"location_name" json:"location_name"`
	LocationCode string `db:"location_code" json:"location_code"`
}

// MovementEntry is immutable once written.
type MovementEntry struct {
	ID              string         `db:"id" json:"id"`
	MerchantID      string         `db:"merchant_id" json:"merchant_id"`
	ProductID       string         `db:"product_id" json:"product_id"`
	LocationID      string         `db:"location_id" json:"location_id"`
	SubLocationID   string         `db:"sub_location_id" json:"sub_location_id"`
	AdjustmentType  AdjustmentType `db:"adjustment_type" json:"adjustment_type"`
	QuantityChange  int64          `db:"quantity_change" json:"quantity_change"`
	QuantityBefore  int64          `db:"quantity_before" json:"quantity_before"`
	QuantityAfter   int64          `db:"quantity_after" json:"quantity_after"`
	Reason          string         `db:"reason" json:"reason"`
	ReferenceType   string         `db:"reference_type" json:"reference_type"`
	ReferenceNumber string         `db:"reference_number" json:"reference_number"`
	Actor           string         `db:"actor" json:"actor"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}
