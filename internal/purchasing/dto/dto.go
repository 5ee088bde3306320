package dto

type PurchaseOrderFilters struct {
	MerchantID string
	Status     string
	SupplierID string
	Page       int
	PageSize   int
}

type ReceiveItemResult struct {
	PurchaseOrderItemID string `json:"purchase_order_item_id"`
	ProductID           string `json:"product_id"`
	Success             bool   `json:"success"`
	Error               string `json:"error,omitempty"`
	QuantityReceived    int64  `json:"quantity_received"`
	QuantityAccepted    int64  `json:"quantity_accepted"`
	MovementID          string `json:"movement_id,omitempty"`
}

type ReceiveResult struct {
	PurchaseOrderID string              `json:"purchase_order_id"`
	Status          string              `json:"status"`
	GRNNumber       string              `json:"grn_number,omitempty"`
	GoodsReceiptID  string              `json:"goods_receipt_id,omitempty"`
	Succeeded       int                 `json:"succeeded"`
	Failed          int                 `json:"failed"`
	Items           []ReceiveItemResult `json:"items"`
}
