package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderItemInput struct {
	ProductID       string
	QuantityOrdered int64
	UnitCost        decimal.Decimal
}

type CreatePurchaseOrderInput struct {
	MerchantID           string
	SupplierID           string
	DeliveryLocationID   string
	Items                []PurchaseOrderItemInput
	Tax                  decimal.Decimal
	ExpectedDeliveryDate *time.Time
	Notes                string
	UserID               string
}

type TransitionInput struct {
	MerchantID      string
	PurchaseOrderID string
	UserID          string
}

type ReceiveItemInput struct {
	PurchaseOrderItemID string
	ProductID           string
	QuantityReceived    int64
	QuantityAccepted    int64
	QuantityRejected    int64
	RejectionReason     string
	BatchNumber         string
	ExpiryDate          *time.Time
	BinLocation         string
}

type ReceivePurchaseOrderInput struct {
	TransitionInput
	Notes string
	Items []ReceiveItemInput
}
