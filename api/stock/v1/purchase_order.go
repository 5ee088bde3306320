package stockv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const PurchaseOrderServiceName = "stock.v1.PurchaseOrderService"

// Money fields are decimal strings.
type PurchaseOrderItem struct {
	ID               string `json:"id"`
	ProductID        string `json:"product_id"`
	QuantityOrdered  int64  `json:"quantity_ordered"`
	QuantityReceived int64  `json:"quantity_received"`
	UnitCost         string `json:"unit_cost"`
	TotalCost        string `json:"total_cost"`
}

type PurchaseOrder struct {
	ID                   string              `json:"id"`
	PONumber             string              `json:"po_number"`
	SupplierID           string              `json:"supplier_id"`
	DeliveryLocationID   string              `json:"delivery_location_id"`
	Status               string              `json:"status"`
	Subtotal             string              `json:"subtotal"`
	Tax                  string              `json:"tax"`
	Total                string              `json:"total"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	CreatedBy            string              `json:"created_by,omitempty"`
	ApprovedBy           string              `json:"approved_by,omitempty"`
	SentAt               *time.Time          `json:"sent_at,omitempty"`
	ReceivedAt           *time.Time          `json:"received_at,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	Items                []PurchaseOrderItem `json:"items"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

type GoodsReceiptItem struct {
	ID                  string     `json:"id"`
	PurchaseOrderItemID string     `json:"purchase_order_item_id,omitempty"`
	ProductID           string     `json:"product_id"`
	QuantityReceived    int64      `json:"quantity_received"`
	QuantityAccepted    int64      `json:"quantity_accepted"`
	QuantityRejected    int64      `json:"quantity_rejected"`
	RejectionReason     string     `json:"rejection_reason,omitempty"`
	BatchNumber         string     `json:"batch_number,omitempty"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	BinLocation         string     `json:"bin_location,omitempty"`
}

type GoodsReceipt struct {
	ID              string             `json:"id"`
	GRNNumber       string             `json:"grn_number"`
	PurchaseOrderID string             `json:"purchase_order_id,omitempty"`
	SupplierID      string             `json:"supplier_id"`
	LocationID      string             `json:"location_id"`
	ReceivedBy      string             `json:"received_by,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Items           []GoodsReceiptItem `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
}

type ListPurchaseOrdersRequest struct {
	Status     string `json:"status,omitempty"`
	SupplierID string `json:"supplier_id,omitempty"`
	Page       int32  `json:"page,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
}

type ListPurchaseOrdersResponse struct {
	Items []*PurchaseOrder `json:"items"`
	Total int32            `json:"total"`
}

type GetPurchaseOrderRequest struct {
	PurchaseOrderID string `json:"purchase_order_id"`
}

type CreatePurchaseOrderItem struct {
	ProductID       string `json:"product_id"`
	QuantityOrdered int64  `json:"quantity_ordered"`
	UnitCost        string `json:"unit_cost"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID           string                    `json:"supplier_id"`
	DeliveryLocationID   string                    `json:"delivery_location_id"`
	Items                []CreatePurchaseOrderItem `json:"items"`
	Tax                  string                    `json:"tax,omitempty"`
	ExpectedDeliveryDate *time.Time                `json:"expected_delivery_date,omitempty"`
	Notes                string                    `json:"notes,omitempty"`
}

type PurchaseOrderTransitionRequest struct {
	PurchaseOrderID string `json:"purchase_order_id"`
}

type ReceivePurchaseOrderItem struct {
	PurchaseOrderItemID string     `json:"purchase_order_item_id"`
	ProductID           string     `json:"product_id"`
	QuantityReceived    int64      `json:"quantity_received"`
	QuantityAccepted    int64      `json:"quantity_accepted"`
	QuantityRejected    int64      `json:"quantity_rejected,omitempty"`
	RejectionReason     string     `json:"rejection_reason,omitempty"`
	BatchNumber         string     `json:"batch_number,omitempty"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	BinLocation         string     `json:"bin_location,omitempty"`
}

type ReceivePurchaseOrderRequest struct {
	PurchaseOrderID string                     `json:"purchase_order_id"`
	Notes           string                     `json:"notes,omitempty"`
	Items           []ReceivePurchaseOrderItem `json:"items"`
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

type ReceivePurchaseOrderResponse struct {
	PurchaseOrderID string              `json:"purchase_order_id"`
	Status          string              `json:"status"`
	GRNNumber       string              `json:"grn_number,omitempty"`
	GoodsReceiptID  string              `json:"goods_receipt_id,omitempty"`
	Succeeded       int32               `json:"succeeded"`
	Failed          int32               `json:"failed"`
	Items           []ReceiveItemResult `json:"items"`
}

type ListGoodsReceiptsRequest struct {
	PurchaseOrderID string `json:"purchase_order_id"`
}

type ListGoodsReceiptsResponse struct {
	Items []*GoodsReceipt `json:"items"`
}

type PurchaseOrderServiceServer interface {
	ListPurchaseOrders(context.Context, *ListPurchaseOrdersRequest) (*ListPurchaseOrdersResponse, error)
	GetPurchaseOrder(context.Context, *GetPurchaseOrderRequest) (*PurchaseOrder, error)
	CreatePurchaseOrder(context.Context, *CreatePurchaseOrderRequest) (*PurchaseOrder, error)
	ApprovePurchaseOrder(context.Context, *PurchaseOrderTransitionRequest) (*PurchaseOrder, error)
	SendPurchaseOrder(context.Context, *PurchaseOrderTransitionRequest) (*PurchaseOrder, error)
	ReceivePurchaseOrder(context.Context, *ReceivePurchaseOrderRequest) (*ReceivePurchaseOrderResponse, error)
	ListGoodsReceipts(context.Context, *ListGoodsReceiptsRequest) (*ListGoodsReceiptsResponse, error)
}

type UnimplementedPurchaseOrderServiceServer struct{}

func (UnimplementedPurchaseOrderServiceServer) ListPurchaseOrders(context.Context, *ListPurchaseOrdersRequest) (*ListPurchaseOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPurchaseOrders not implemented")
}

func (UnimplementedPurchaseOrderServiceServer) GetPurchaseOrder(context.Context, *GetPurchaseOrderRequest) (*PurchaseOrder, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPurchaseOrder not implemented")
}

func (UnimplementedPurchaseOrderServiceServer) CreatePurchaseOrder(context.Context, *CreatePurchaseOrderRequest) (*PurchaseOrder, error) {
	return nil, status.Error(codes.Unimplemented, "method CreatePurchaseOrder not implemented")
}

func (UnimplementedPurchaseOrderServiceServer) ApprovePurchaseOrder(context.Context, *PurchaseOrderTransitionRequest) (*PurchaseOrder, error) {
	return nil, status.Error(codes.Unimplemented, "method ApprovePurchaseOrder not implemented")
}

func (UnimplementedPurchaseOrderServiceServer) SendPurchaseOrder(context.Context, *PurchaseOrderTransitionRequest) (*PurchaseOrder, error) {
	return nil, status.Error(codes.Unimplemented, "method SendPurchaseOrder not implemented")
}

func (UnimplementedPurchaseOrderServiceServer) ReceivePurchaseOrder(context.Context, *ReceivePurchaseOrderRequest) (*ReceivePurchaseOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReceivePurchaseOrder not implemented")
}

func (UnimplementedPurchaseOrderServiceServer) ListGoodsReceipts(context.Context, *ListGoodsReceiptsRequest) (*ListGoodsReceiptsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListGoodsReceipts not implemented")
}

func RegisterPurchaseOrderServiceServer(s grpc.ServiceRegistrar, srv PurchaseOrderServiceServer) {
	s.RegisterService(&PurchaseOrderService_ServiceDesc, srv)
}

var PurchaseOrderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PurchaseOrderServiceName,
	HandlerType: (*PurchaseOrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(PurchaseOrderServiceName, "ListPurchaseOrders", PurchaseOrderServiceServer.ListPurchaseOrders),
		unary(PurchaseOrderServiceName, "GetPurchaseOrder", PurchaseOrderServiceServer.GetPurchaseOrder),
		unary(PurchaseOrderServiceName, "CreatePurchaseOrder", PurchaseOrderServiceServer.CreatePurchaseOrder),
		unary(PurchaseOrderServiceName, "ApprovePurchaseOrder", PurchaseOrderServiceServer.ApprovePurchaseOrder),
		unary(PurchaseOrderServiceName, "SendPurchaseOrder", PurchaseOrderServiceServer.SendPurchaseOrder),
		unary(PurchaseOrderServiceName, "ReceivePurchaseOrder", PurchaseOrderServiceServer.ReceivePurchaseOrder),
		unary(PurchaseOrderServiceName, "ListGoodsReceipts", PurchaseOrderServiceServer.ListGoodsReceipts),
	},
	Metadata: "stock/v1/purchase_order",
}

type PurchaseOrderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPurchaseOrderServiceClient(cc grpc.ClientConnInterface) *PurchaseOrderServiceClient {
	return &PurchaseOrderServiceClient{cc: cc}
}

func (c *PurchaseOrderServiceClient) ListPurchaseOrders(ctx context.Context, in *ListPurchaseOrdersRequest, opts ...grpc.CallOption) (*ListPurchaseOrdersResponse, error) {
	return invoke[ListPurchaseOrdersResponse](ctx, c.cc, PurchaseOrderServiceName, "ListPurchaseOrders", in, opts...)
}

func (c *PurchaseOrderServiceClient) GetPurchaseOrder(ctx context.Context, in *GetPurchaseOrderRequest, opts ...grpc.CallOption) (*PurchaseOrder, error) {
	return invoke[PurchaseOrder](ctx, c.cc, PurchaseOrderServiceName, "GetPurchaseOrder", in, opts...)
}

func (c *PurchaseOrderServiceClient) CreatePurchaseOrder(ctx context.Context, in *CreatePurchaseOrderRequest, opts ...grpc.CallOption) (*PurchaseOrder, error) {
	return invoke[PurchaseOrder](ctx, c.cc, PurchaseOrderServiceName, "CreatePurchaseOrder", in, opts...)
}

func (c *PurchaseOrderServiceClient) ApprovePurchaseOrder(ctx context.Context, in *PurchaseOrderTransitionRequest, opts ...grpc.CallOption) (*PurchaseOrder, error) {
	return invoke[PurchaseOrder](ctx, c.cc, PurchaseOrderServiceName, "ApprovePurchaseOrder", in, opts...)
}

func (c *PurchaseOrderServiceClient) SendPurchaseOrder(ctx context.Context, in *PurchaseOrderTransitionRequest, opts ...grpc.CallOption) (*PurchaseOrder, error) {
	return invoke[PurchaseOrder](ctx, c.cc, PurchaseOrderServiceName, "SendPurchaseOrder", in, opts...)
}

func (c *PurchaseOrderServiceClient) ReceivePurchaseOrder(ctx context.Context, in *ReceivePurchaseOrderRequest, opts ...grpc.CallOption) (*ReceivePurchaseOrderResponse, error) {
	return invoke[ReceivePurchaseOrderResponse](ctx, c.cc, PurchaseOrderServiceName, "ReceivePurchaseOrder", in, opts...)
}

func (c *PurchaseOrderServiceClient) ListGoodsReceipts(ctx context.Context, in *ListGoodsReceiptsRequest, opts ...grpc.CallOption) (*ListGoodsReceiptsResponse, error) {
	return invoke[ListGoodsReceiptsResponse](ctx, c.cc, PurchaseOrderServiceName, "ListGoodsReceipts", in, opts...)
}
