package model

import "time"

type TransferStatus string

const (
	TransferDraft     TransferStatus = "draft"
	TransferApproved  TransferStatus = "approved"
	TransferInTransit TransferStatus = "in_transit"
	TransferReceived  TransferStatus = "received"
	TransferCancelled TransferStatus = "cancelled"
)

var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferDraft:     {TransferApproved, TransferCancelled},
	TransferApproved:  {TransferInTransit, TransferCancelled},
	TransferInTransit: {TransferReceived, TransferCancelled},
}

func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	for _, allowed := range transferTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type StockTransfer struct {
	BaseModel
	MerchantID          string              `db:"merchant_id" json:"merchant_id"`
	TransferNumber      string              `db:"transfer_number" json:"transfer_number"`
	FromLocationID      string              `db:"from_location_id" json:"from_location_id"`
	ToLocationID        string              `db:"to_location_id" json:"to_location_id"`
	Status              TransferStatus      `db:"status" json:"status"`
	RequestedBy         string              `db:"requested_by" json:"requested_by"`
	ApprovedBy          *string             `db:"approved_by" json:"approved_by"`
	ExpectedArrivalDate *time.Time          `db:"expected_arrival_date" json:"expected_arrival_date"`
	ShippedAt           *time.Time          `db:"shipped_at" json:"shipped_at"`
	ReceivedAt          *time.Time          `db:"received_at" json:"received_at"`
	CancelledAt         *time.Time          `db:"cancelled_at" json:"cancelled_at"`
	CancelReason        *string             `db:"cancel_reason" json:"cancel_reason"`
	Notes               string              `db:"notes" json:"notes"`
	Items               []StockTransferItem `db:"-" json:"items"`
}

// Item returns the line for productID, or nil.
func (t *StockTransfer) Item(productID string) *StockTransferItem {
	for i := range t.Items {
		if t.Items[i].ProductID == productID {
			return &t.Items[i]
		}
	}
	return nil
}

type StockTransferItem struct {
	ID                string  `db:"id" json:"id"`
	TransferID        string  `db:"transfer_id" json:"transfer_id"`
	ProductID         string  `db:"product_id" json:"product_id"`
	QuantityRequested int64   `db:"quantity_requested" json:"quantity_requested"`
	QuantityShipped   *int64  `db:"quantity_shipped" json:"quantity_shipped"`
	QuantityReceived  *int64  `db:"quantity_received" json:"quantity_received"`
	VarianceReason    *string `db:"variance_reason" json:"variance_reason"`
}

func (i *StockTransferItem) Shipped() int64 {
	if i.QuantityShipped == nil {
		return 0
	}
	return *i.QuantityShipped
}

func (i *StockTransferItem) Received() int64 {
	if i.QuantityReceived == nil {
		return 0
	}
	return *i.QuantityReceived
}
