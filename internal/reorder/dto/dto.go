package dto

type ReorderRuleFilters struct {
	MerchantID string
	LocationID string
	ProductID  string
	Page       int
	PageSize   int
}
