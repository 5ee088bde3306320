package dto

import "time"

type MovementFilters struct {
	MerchantID     string
	ProductID      string
	LocationID     string
	AdjustmentType string
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	PageSize       int
}
