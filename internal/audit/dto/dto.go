package dto

const (
	AggregateMovement      = "inventory_movement"
	AggregateTransfer      = "stock_transfer"
	AggregatePurchaseOrder = "purchase_order"
	AggregateReorderRule   = "reorder_rule"
)

type Event struct {
	MerchantID    string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       any
}
