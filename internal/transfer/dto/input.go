package dto

import "time"

type TransferItemInput struct {
	ProductID         string
	QuantityRequested int64
}

type CreateTransferInput struct {
	MerchantID          string
	FromLocationID      string
	ToLocationID        string
	Items               []TransferItemInput
	Notes               string
	ExpectedArrivalDate *time.Time
	UserID              string
}

type TransitionInput struct {
	MerchantID string
	TransferID string
	UserID     string
}

type ShipItemInput struct {
	ProductID       string
	QuantityShipped int64
}

type ShipTransferInput struct {
	TransitionInput
	Items []ShipItemInput
}

type ReceiveItemInput struct {
	ProductID        string
	QuantityReceived int64
	VarianceReason   string
}

type ReceiveTransferInput struct {
	TransitionInput
	Items []ReceiveItemInput
}

type CancelTransferInput struct {
	TransitionInput
	Reason string
}
