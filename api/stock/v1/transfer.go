package stockv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const TransferServiceName = "stock.v1.TransferService"

type TransferItem struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	QuantityRequested int64  `json:"quantity_requested"`
	QuantityShipped   *int64 `json:"quantity_shipped,omitempty"`
	QuantityReceived  *int64 `json:"quantity_received,omitempty"`
	VarianceReason    string `json:"variance_reason,omitempty"`
}

type Transfer struct {
	ID                  string         `json:"id"`
	TransferNumber      string         `json:"transfer_number"`
	FromLocationID      string         `json:"from_location_id"`
	ToLocationID        string         `json:"to_location_id"`
	Status              string         `json:"status"`
	RequestedBy         string         `json:"requested_by,omitempty"`
	ApprovedBy          string         `json:"approved_by,omitempty"`
	ExpectedArrivalDate *time.Time     `json:"expected_arrival_date,omitempty"`
	ShippedAt           *time.Time     `json:"shipped_at,omitempty"`
	ReceivedAt          *time.Time     `json:"received_at,omitempty"`
	CancelledAt         *time.Time     `json:"cancelled_at,omitempty"`
	CancelReason        string         `json:"cancel_reason,omitempty"`
	Notes               string         `json:"notes,omitempty"`
	Items               []TransferItem `json:"items"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

type ListTransfersRequest struct {
	Status         string `json:"status,omitempty"`
	FromLocationID string `json:"from_location_id,omitempty"`
	ToLocationID   string `json:"to_location_id,omitempty"`
	Page           int32  `json:"page,omitempty"`
	PageSize       int32  `json:"page_size,omitempty"`
}

type ListTransfersResponse struct {
	Items []*Transfer `json:"items"`
	Total int32       `json:"total"`
}

type GetTransferRequest struct {
	TransferID string `json:"transfer_id"`
}

type CreateTransferItem struct {
	ProductID         string `json:"product_id"`
	QuantityRequested int64  `json:"quantity_requested"`
}

type CreateTransferRequest struct {
	FromLocationID      string               `json:"from_location_id"`
	ToLocationID        string               `json:"to_location_id"`
	Items               []CreateTransferItem `json:"items"`
	Notes               string               `json:"notes,omitempty"`
	ExpectedArrivalDate *time.Time           `json:"expected_arrival_date,omitempty"`
}

type ApproveTransferRequest struct {
	TransferID string `json:"transfer_id"`
}

type ShipTransferItem struct {
	ProductID       string `json:"product_id"`
	QuantityShipped int64  `json:"quantity_shipped"`
}

type ShipTransferRequest struct {
	TransferID string             `json:"transfer_id"`
	Items      []ShipTransferItem `json:"items,omitempty"`
}

type ReceiveTransferItem struct {
	ProductID        string `json:"product_id"`
	QuantityReceived int64  `json:"quantity_received"`
	VarianceReason   string `json:"variance_reason,omitempty"`
}

type ReceiveTransferRequest struct {
	TransferID string                `json:"transfer_id"`
	Items      []ReceiveTransferItem `json:"items,omitempty"`
}

type CancelTransferRequest struct {
	TransferID string `json:"transfer_id"`
	Reason     string `json:"reason,omitempty"`
}

type TransferServiceServer interface {
	ListTransfers(context.Context, *ListTransfersRequest) (*ListTransfersResponse, error)
	GetTransfer(context.Context, *GetTransferRequest) (*Transfer, error)
	CreateTransfer(context.Context, *CreateTransferRequest) (*Transfer, error)
	ApproveTransfer(context.Context, *ApproveTransferRequest) (*Transfer, error)
	ShipTransfer(context.Context, *ShipTransferRequest) (*Transfer, error)
	ReceiveTransfer(context.Context, *ReceiveTransferRequest) (*Transfer, error)
	CancelTransfer(context.Context, *CancelTransferRequest) (*Transfer, error)
}

type UnimplementedTransferServiceServer struct{}

func (UnimplementedTransferServiceServer) ListTransfers(context.Context, *ListTransfersRequest) (*ListTransfersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTransfers not implemented")
}

func (UnimplementedTransferServiceServer) GetTransfer(context.Context, *GetTransferRequest) (*Transfer, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTransfer not implemented")
}

func (UnimplementedTransferServiceServer) CreateTransfer(context.Context, *CreateTransferRequest) (*Transfer, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateTransfer not implemented")
}

func (UnimplementedTransferServiceServer) ApproveTransfer(context.Context, *ApproveTransferRequest) (*Transfer, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveTransfer not implemented")
}

func (UnimplementedTransferServiceServer) ShipTransfer(context.Context, *ShipTransferRequest) (*Transfer, error) {
	return nil, status.Error(codes.Unimplemented, "method ShipTransfer not implemented")
}

func (UnimplementedTransferServiceServer) ReceiveTransfer(context.Context, *ReceiveTransferRequest) (*Transfer, error) {
	return nil, status.Error(codes.Unimplemented, "method ReceiveTransfer not implemented")
}

func (UnimplementedTransferServiceServer) CancelTransfer(context.Context, *CancelTransferRequest) (*Transfer, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelTransfer not implemented")
}

func RegisterTransferServiceServer(s grpc.ServiceRegistrar, srv TransferServiceServer) {
	s.RegisterService(&TransferService_ServiceDesc, srv)
}

var TransferService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TransferServiceName,
	HandlerType: (*TransferServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(TransferServiceName, "ListTransfers", TransferServiceServer.ListTransfers),
		unary(TransferServiceName, "GetTransfer", TransferServiceServer.GetTransfer),
		unary(TransferServiceName, "CreateTransfer", TransferServiceServer.CreateTransfer),
		unary(TransferServiceName, "ApproveTransfer", TransferServiceServer.ApproveTransfer),
		unary(TransferServiceName, "ShipTransfer", TransferServiceServer.ShipTransfer),
		unary(TransferServiceName, "ReceiveTransfer", TransferServiceServer.ReceiveTransfer),
		unary(TransferServiceName, "CancelTransfer", TransferServiceServer.CancelTransfer),
	},
	Metadata: "stock/v1/transfer",
}

type TransferServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTransferServiceClient(cc grpc.ClientConnInterface) *TransferServiceClient {
	return &TransferServiceClient{cc: cc}
}

func (c *TransferServiceClient) ListTransfers(ctx context.Context, in *ListTransfersRequest, opts ...grpc.CallOption) (*ListTransfersResponse, error) {
	return invoke[ListTransfersResponse](ctx, c.cc, TransferServiceName, "ListTransfers", in, opts...)
}

func (c *TransferServiceClient) GetTransfer(ctx context.Context, in *GetTransferRequest, opts ...grpc.CallOption) (*Transfer, error) {
	return invoke[Transfer](ctx, c.cc, TransferServiceName, "GetTransfer", in, opts...)
}

func (c *TransferServiceClient) CreateTransfer(ctx context.Context, in *CreateTransferRequest, opts ...grpc.CallOption) (*Transfer, error) {
	return invoke[Transfer](ctx, c.cc, TransferServiceName, "CreateTransfer", in, opts...)
}

func (c *TransferServiceClient) ApproveTransfer(ctx context.Context, in *ApproveTransferRequest, opts ...grpc.CallOption) (*Transfer, error) {
	return invoke[Transfer](ctx, c.cc, TransferServiceName, "ApproveTransfer", in, opts...)
}

func (c *TransferServiceClient) ShipTransfer(ctx context.Context, in *ShipTransferRequest, opts ...grpc.CallOption) (*Transfer, error) {
	return invoke[Transfer](ctx, c.cc, TransferServiceName, "ShipTransfer", in, opts...)
}

func (c *TransferServiceClient) ReceiveTransfer(ctx context.Context, in *ReceiveTransferRequest, opts ...grpc.CallOption) (*Transfer, error) {
	return invoke[Transfer](ctx, c.cc, TransferServiceName, "ReceiveTransfer", in, opts...)
}

func (c *TransferServiceClient) CancelTransfer(ctx context.Context, in *CancelTransferRequest, opts ...grpc.CallOption) (*Transfer, error) {
	return invoke[Transfer](ctx, c.cc, TransferServiceName, "CancelTransfer", in, opts...)
}
