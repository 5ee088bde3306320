package model

type LocationType string

const (
	LocationHeadOffice LocationType = "head_office"
	LocationRegion     LocationType = "region"
	LocationDistrict   LocationType = "district"
	LocationStore      LocationType = "store"
	LocationWarehouse  LocationType = "warehouse"
)

func (t LocationType) Valid() bool {
	switch t {
	case LocationHeadOffice, LocationRegion, LocationDistrict, LocationStore, LocationWarehouse:
		return true
	}
	return false
}

type Location struct {
	BaseModel
	MerchantID string       `db:"merchant_id" json:"merchant_id"`
	ParentID   *string      `db:"parent_id" json:"parent_id"` // Nullable
	Type       LocationType `db:"type" json:"type"`
	Code       string       `db:"code" json:"code"`
	Name       string       `db:"name" json:"name"`
	IsActive   bool         `db:"is_active" json:"is_active"`
}
