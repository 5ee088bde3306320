package dto

type UpsertReorderRuleInput struct {
	MerchantID          string
	ProductID           string
	LocationID          string
	MinStock            int64
	MaxStock            int64
	ReorderQuantity     int64
	SafetyStock         int64
	PreferredSupplierID *string
	IsActive            *bool // Nil keeps the rule active
}
