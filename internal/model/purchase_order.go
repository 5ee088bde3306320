package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type POStatus string

const (
	PODraft             POStatus = "draft"
	POApproved          POStatus = "approved"
	POSent              POStatus = "sent"
	POPartiallyReceived POStatus = "partially_received"
	POReceived          POStatus = "received"
)

type PurchaseOrder struct {
	BaseModel
	MerchantID           string              `db:"merchant_id" json:"merchant_id"`
	PONumber             string              `db:"po_number" json:"po_number"`
	SupplierID           string              `db:"supplier_id" json:"supplier_id"`
	DeliveryLocationID   string              `db:"delivery_location_id" json:"delivery_location_id"`
	Status               POStatus            `db:"status" json:"status"`
	Subtotal             decimal.Decimal     `db:"subtotal" json:"subtotal"`
	Tax                  decimal.Decimal     `db:"tax" json:"tax"`
	Total                decimal.Decimal     `db:"total" json:"total"`
	ExpectedDeliveryDate *time.Time          `db:"expected_delivery_date" json:"expected_delivery_date"`
	CreatedBy            string              `db:"created_by" json:"created_by"`
	ApprovedBy           *string             `db:"approved_by" json:"approved_by"`
	SentAt               *time.Time          `db:"sent_at" json:"sent_at"`
	ReceivedAt           *time.Time          `db:"received_at" json:"received_at"`
	Notes                string              `db:"notes" json:"notes"`
	Items                []PurchaseOrderItem `db:"-" json:"items"`
}

// CanReceive reports whether goods may be received against the order.
func (po *PurchaseOrder) CanReceive() bool {
	switch po.Status {
	case POApproved, POSent, POPartiallyReceived:
		return true
	}
	return false
}

func (po *PurchaseOrder) FullyReceived() bool {
	for _, item := range po.Items {
		if item.QuantityReceived < item.QuantityOrdered {
			return false
		}
	}
	return len(po.Items) > 0
}

func (po *PurchaseOrder) Item(id string) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ID == id {
			return &po.Items[i]
		}
	}
	return nil
}

type PurchaseOrderItem struct {
	ID               string          `db:"id" json:"id"`
	PurchaseOrderID  string          `db:"purchase_order_id" json:"purchase_order_id"`
	ProductID        string          `db:"product_id" json:"product_id"`
	QuantityOrdered  int64           `db:"quantity_ordered" json:"quantity_ordered"`
	QuantityReceived int64           `db:"quantity_received" json:"quantity_received"`
	UnitCost         decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	TotalCost        decimal.Decimal `db:"total_cost" json:"total_cost"`
}

// Outstanding is the ordered quantity not yet received, never negative.
func (i *PurchaseOrderItem) Outstanding() int64 {
	if i.QuantityReceived >= i.QuantityOrdered {
		return 0
	}
	return i.QuantityOrdered - i.QuantityReceived
}

type GoodsReceipt struct {
	ID              string             `db:"id" json:"id"`
	MerchantID      string             `db:"merchant_id" json:"merchant_id"`
	GRNNumber       string             `db:"grn_number" json:"grn_number"`
	PurchaseOrderID *string            `db:"purchase_order_id" json:"purchase_order_id"`
	SupplierID      string             `db:"supplier_id" json:"supplier_id"`
	LocationID      string             `db:"location_id" json:"location_id"`
	ReceivedBy      string             `db:"received_by" json:"received_by"`
	Notes           string             `db:"notes" json:"notes"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	Items           []GoodsReceiptItem `db:"-" json:"items"`
}

type GoodsReceiptItem struct {
	ID                  string     `db:"id" json:"id"`
	GoodsReceiptID      string     `db:"goods_receipt_id" json:"goods_receipt_id"`
	PurchaseOrderItemID *string    `db:"purchase_order_item_id" json:"purchase_order_item_id"`
	ProductID           string     `db:"product_id" json:"product_id"`
	QuantityReceived    int64      `db:"quantity_received" json:"quantity_received"`
	QuantityAccepted    int64      `db:"quantity_accepted" json:"quantity_accepted"`
	QuantityRejected    int64      `db:"quantity_rejected" json:"quantity_rejected"`
	RejectionReason     *string    `db:"rejection_reason" json:"rejection_reason"`
	BatchNumber         *string    `db:"batch_number" json:"batch_number"`
	ExpiryDate          *time.Time `db:"expiry_date" json:"expiry_date"`
	BinLocation         *string    `db:"bin_location" json:"bin_location"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

type Supplier struct {
	ID         string `db:"id" json:"id"`
	MerchantID string `db:"merchant_id" json:"merchant_id"`
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	IsActive   bool   `db:"is_active" json:"is_active"`
}
