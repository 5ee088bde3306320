package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type AdjustInventoryInput struct {
	MerchantID      string
	ProductID       string
	LocationID      string
	SubLocationID   string
	AdjustmentType  string
	Quantity        int64
	Reason          string
	ReferenceType   string // sale, return, manual; defaults to manual
	ReferenceNumber string
	UserID          string
}

type CountItem struct {
	ProductID       string
	SubLocationID   string
	CountedQuantity int64
}

type CountInventoryInput struct {
	MerchantID      string
	LocationID      string
	Reason          string
	ReferenceNumber string
	UserID          string
	Items           []CountItem
}

type ReserveStockInput struct {
	MerchantID      string
	ProductID       string
	LocationID      string
	SubLocationID   string
	Quantity        int64
	ReferenceNumber string
	UserID          string
}

// Mutation is one atomic change to a single inventory record. Deltas are
// signed. SetOnHand replaces on-hand instead of applying OnHandDelta.
type Mutation struct {
	Key             model.StockKey
	Type            model.AdjustmentType
	OnHandDelta     int64
	SetOnHand       *int64
	ClampAtZero     bool // decrease on-hand to zero instead of failing
	ReservedDelta   int64
	OnOrderDelta    int64
	ClampOnOrder    bool
	InTransitDelta  int64
	Reason          string
	ReferenceType   model.ReferenceType
	ReferenceNumber string
	Actor           string
	LogZero         bool // write a movement entry even when on-hand is unchanged
}
