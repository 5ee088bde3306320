package dto

type CreateLocationInput struct {
	MerchantID string
	ParentID   *string
	Type       string
	Code       string
	Name       string
}
