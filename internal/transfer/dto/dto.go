package dto

type TransferFilters struct {
	MerchantID     string
	Status         string
	FromLocationID string
	ToLocationID   string
	Page           int
	PageSize       int
}
