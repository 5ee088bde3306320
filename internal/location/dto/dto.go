package dto

type LocationFilters struct {
	MerchantID string
	ParentID   *string // Nil means ignore, empty string means roots
	Type       string
	IsActive   *bool
	Page       int
	PageSize   int
}
