package stockv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const InventoryServiceName = "stock.v1.InventoryService"

type InventoryEntry struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	ProductName       string     `json:"product_name,omitempty"`
	ProductSKU        string     `json:"product_sku,omitempty"`
	LocationID        string     `json:"location_id"`
	LocationName      string     `json:"location_name,omitempty"`
	LocationCode      string     `json:"location_code,omitempty"`
	SubLocationID     string     `json:"sub_location_id,omitempty"`
	QuantityOnHand    int64      `json:"quantity_on_hand"`
	QuantityReserved  int64      `json:"quantity_reserved"`
	QuantityAvailable int64      `json:"quantity_available"`
	QuantityOnOrder   int64      `json:"quantity_on_order"`
	QuantityInTransit int64      `json:"quantity_in_transit"`
	ReorderPoint      int64      `json:"reorder_point"`
	ReorderQuantity   int64      `json:"reorder_quantity"`
	MaxStockLevel     int64      `json:"max_stock_level"`
	IsLowStock        bool       `json:"is_low_stock"`
	LastCountedAt     *time.Time `json:"last_counted_at,omitempty"`
	LastReceivedAt    *time.Time `json:"last_received_at,omitempty"`
	LastSoldAt        *time.Time `json:"last_sold_at,omitempty"`
	Version           int64      `json:"version"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Movement struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	LocationID      string    `json:"location_id"`
	SubLocationID   string    `json:"sub_location_id,omitempty"`
	AdjustmentType  string    `json:"adjustment_type"`
	QuantityChange  int64     `json:"quantity_change"`
	QuantityBefore  int64     `json:"quantity_before"`
	QuantityAfter   int64     `json:"quantity_after"`
	Reason          string    `json:"reason,omitempty"`
	ReferenceType   string    `json:"reference_type,omitempty"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Actor           string    `json:"actor,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListInventoryRequest struct {
	LocationID string `json:"location_id,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
	LowStock   bool   `json:"low_stock,omitempty"`
	OutOfStock bool   `json:"out_of_stock,omitempty"`
	Page       int32  `json:"page,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
}

type ListInventoryResponse struct {
	Items []*InventoryEntry `json:"items"`
	Total int32             `json:"total"`
}

type GetByLocationRequest struct {
	LocationID string `json:"location_id"`
	Page       int32  `json:"page,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
}

type GetByProductRequest struct {
	ProductID string `json:"product_id"`
}

type StockTotals struct {
	QuantityOnHand    int64 `json:"quantity_on_hand"`
	QuantityReserved  int64 `json:"quantity_reserved"`
	QuantityAvailable int64 `json:"quantity_available"`
	QuantityOnOrder   int64 `json:"quantity_on_order"`
	QuantityInTransit int64 `json:"quantity_in_transit"`
}

type ProductStockResponse struct {
	ProductID string            `json:"product_id"`
	Locations []*InventoryEntry `json:"locations"`
	Totals    StockTotals       `json:"totals"`
}

type ListLowStockRequest struct {
	LocationID string `json:"location_id,omitempty"`
	Page       int32  `json:"page,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
}

type AdjustInventoryRequest struct {
	ProductID       string `json:"product_id"`
	LocationID      string `json:"location_id"`
	SubLocationID   string `json:"sub_location_id,omitempty"`
	AdjustmentType  string `json:"adjustment_type"`
	Quantity        int64  `json:"quantity"`
	Reason          string `json:"reason,omitempty"`
	ReferenceType   string `json:"reference_type,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

type MutationResponse struct {
	Entry    *InventoryEntry `json:"entry"`
	Movement *Movement       `json:"movement,omitempty"`
}

type CountItem struct {
	ProductID       string `json:"product_id"`
	SubLocationID   string `json:"sub_location_id,omitempty"`
	CountedQuantity int64  `json:"counted_quantity"`
}

type CountInventoryRequest struct {
	LocationID      string      `json:"location_id"`
	Reason          string      `json:"reason,omitempty"`
	ReferenceNumber string      `json:"reference_number,omitempty"`
	Items           []CountItem `json:"items"`
}

type CountItemResult struct {
	ProductID      string `json:"product_id"`
	SubLocationID  string `json:"sub_location_id,omitempty"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	QuantityBefore int64  `json:"quantity_before"`
	QuantityAfter  int64  `json:"quantity_after"`
	Variance       int64  `json:"variance"`
	MovementID     string `json:"movement_id,omitempty"`
}

type CountInventoryResponse struct {
	LocationID string            `json:"location_id"`
	Succeeded  int32             `json:"succeeded"`
	Failed     int32             `json:"failed"`
	Items      []CountItemResult `json:"items"`
}

type ListMovementsRequest struct {
	ProductID      string     `json:"product_id,omitempty"`
	LocationID     string     `json:"location_id,omitempty"`
	AdjustmentType string     `json:"adjustment_type,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Page           int32      `json:"page,omitempty"`
	PageSize       int32      `json:"page_size,omitempty"`
}

type ListMovementsResponse struct {
	Items []*Movement `json:"items"`
	Total int32       `json:"total"`
}

type GetProductHistoryRequest struct {
	ProductID string `json:"product_id"`
	Page      int32  `json:"page,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
}

type GetValuationRequest struct {
	LocationID string `json:"location_id,omitempty"`
}

// Money fields are decimal strings.
type ValuationLine struct {
	ProductID      string `json:"product_id"`
	ProductSKU     string `json:"product_sku"`
	ProductName    string `json:"product_name"`
	SubLocationID  string `json:"sub_location_id,omitempty"`
	QuantityOnHand int64  `json:"quantity_on_hand"`
	UnitCost       string `json:"unit_cost"`
	UnitPrice      string `json:"unit_price"`
	CostValue      string `json:"cost_value"`
	RetailValue    string `json:"retail_value"`
}

type LocationValuation struct {
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Lines        []ValuationLine `json:"lines"`
	TotalUnits   int64           `json:"total_units"`
	CostValue    string          `json:"cost_value"`
	RetailValue  string          `json:"retail_value"`
}

type ValuationResponse struct {
	Locations   []LocationValuation `json:"locations"`
	TotalUnits  int64               `json:"total_units"`
	CostValue   string              `json:"cost_value"`
	RetailValue string              `json:"retail_value"`
}

type ReserveStockRequest struct {
	ProductID       string `json:"product_id"`
	LocationID      string `json:"location_id"`
	SubLocationID   string `json:"sub_location_id,omitempty"`
	Quantity        int64  `json:"quantity"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

type InventoryServiceServer interface {
	ListInventory(context.Context, *ListInventoryRequest) (*ListInventoryResponse, error)
	GetByLocation(context.Context, *GetByLocationRequest) (*ListInventoryResponse, error)
	GetByProduct(context.Context, *GetByProductRequest) (*ProductStockResponse, error)
	ListLowStock(context.Context, *ListLowStockRequest) (*ListInventoryResponse, error)
	AdjustInventory(context.Context, *AdjustInventoryRequest) (*MutationResponse, error)
	CountInventory(context.Context, *CountInventoryRequest) (*CountInventoryResponse, error)
	ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error)
	GetProductHistory(context.Context, *GetProductHistoryRequest) (*ListMovementsResponse, error)
	GetValuation(context.Context, *GetValuationRequest) (*ValuationResponse, error)
	ReserveStock(context.Context, *ReserveStockRequest) (*InventoryEntry, error)
	ReleaseStock(context.Context, *ReserveStockRequest) (*InventoryEntry, error)
}

// UnimplementedInventoryServiceServer can be embedded to stay source compatible
// when methods are added.
type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) ListInventory(context.Context, *ListInventoryRequest) (*ListInventoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListInventory not implemented")
}

func (UnimplementedInventoryServiceServer) GetByLocation(context.Context, *GetByLocationRequest) (*ListInventoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetByLocation not implemented")
}

func (UnimplementedInventoryServiceServer) GetByProduct(context.Context, *GetByProductRequest) (*ProductStockResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetByProduct not implemented")
}

func (UnimplementedInventoryServiceServer) ListLowStock(context.Context, *ListLowStockRequest) (*ListInventoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListLowStock not implemented")
}

func (UnimplementedInventoryServiceServer) AdjustInventory(context.Context, *AdjustInventoryRequest) (*MutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AdjustInventory not implemented")
}

func (UnimplementedInventoryServiceServer) CountInventory(context.Context, *CountInventoryRequest) (*CountInventoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CountInventory not implemented")
}

func (UnimplementedInventoryServiceServer) ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMovements not implemented")
}

func (UnimplementedInventoryServiceServer) GetProductHistory(context.Context, *GetProductHistoryRequest) (*ListMovementsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProductHistory not implemented")
}

func (UnimplementedInventoryServiceServer) GetValuation(context.Context, *GetValuationRequest) (*ValuationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetValuation not implemented")
}

func (UnimplementedInventoryServiceServer) ReserveStock(context.Context, *ReserveStockRequest) (*InventoryEntry, error) {
	return nil, status.Error(codes.Unimplemented, "method ReserveStock not implemented")
}

func (UnimplementedInventoryServiceServer) ReleaseStock(context.Context, *ReserveStockRequest) (*InventoryEntry, error) {
	return nil, status.Error(codes.Unimplemented, "method ReleaseStock not implemented")
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(InventoryServiceName, "ListInventory", InventoryServiceServer.ListInventory),
		unary(InventoryServiceName, "GetByLocation", InventoryServiceServer.GetByLocation),
		unary(InventoryServiceName, "GetByProduct", InventoryServiceServer.GetByProduct),
		unary(InventoryServiceName, "ListLowStock", InventoryServiceServer.ListLowStock),
		unary(InventoryServiceName, "AdjustInventory", InventoryServiceServer.AdjustInventory),
		unary(InventoryServiceName, "CountInventory", InventoryServiceServer.CountInventory),
		unary(InventoryServiceName, "ListMovements", InventoryServiceServer.ListMovements),
		unary(InventoryServiceName, "GetProductHistory", InventoryServiceServer.GetProductHistory),
		unary(InventoryServiceName, "GetValuation", InventoryServiceServer.GetValuation),
		unary(InventoryServiceName, "ReserveStock", InventoryServiceServer.ReserveStock),
		unary(InventoryServiceName, "ReleaseStock", InventoryServiceServer.ReleaseStock),
	},
	Metadata: "stock/v1/inventory",
}

type InventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) *InventoryServiceClient {
	return &InventoryServiceClient{cc: cc}
}

func (c *InventoryServiceClient) ListInventory(ctx context.Context, in *ListInventoryRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error) {
	return invoke[ListInventoryResponse](ctx, c.cc, InventoryServiceName, "ListInventory", in, opts...)
}

func (c *InventoryServiceClient) GetByLocation(ctx context.Context, in *GetByLocationRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error) {
	return invoke[ListInventoryResponse](ctx, c.cc, InventoryServiceName, "GetByLocation", in, opts...)
}

func (c *InventoryServiceClient) GetByProduct(ctx context.Context, in *GetByProductRequest, opts ...grpc.CallOption) (*ProductStockResponse, error) {
	return invoke[ProductStockResponse](ctx, c.cc, InventoryServiceName, "GetByProduct", in, opts...)
}

func (c *InventoryServiceClient) ListLowStock(ctx context.Context, in *ListLowStockRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error) {
	return invoke[ListInventoryResponse](ctx, c.cc, InventoryServiceName, "ListLowStock", in, opts...)
}

func (c *InventoryServiceClient) AdjustInventory(ctx context.Context, in *AdjustInventoryRequest, opts ...grpc.CallOption) (*MutationResponse, error) {
	return invoke[MutationResponse](ctx, c.cc, InventoryServiceName, "AdjustInventory", in, opts...)
}

func (c *InventoryServiceClient) CountInventory(ctx context.Context, in *CountInventoryRequest, opts ...grpc.CallOption) (*CountInventoryResponse, error) {
	return invoke[CountInventoryResponse](ctx, c.cc, InventoryServiceName, "CountInventory", in, opts...)
}

func (c *InventoryServiceClient) ListMovements(ctx context.Context, in *ListMovementsRequest, opts ...grpc.CallOption) (*ListMovementsResponse, error) {
	return invoke[ListMovementsResponse](ctx, c.cc, InventoryServiceName, "ListMovements", in, opts...)
}

func (c *InventoryServiceClient) GetProductHistory(ctx context.Context, in *GetProductHistoryRequest, opts ...grpc.CallOption) (*ListMovementsResponse, error) {
	return invoke[ListMovementsResponse](ctx, c.cc, InventoryServiceName, "GetProductHistory", in, opts...)
}

func (c *InventoryServiceClient) GetValuation(ctx context.Context, in *GetValuationRequest, opts ...grpc.CallOption) (*ValuationResponse, error) {
	return invoke[ValuationResponse](ctx, c.cc, InventoryServiceName, "GetValuation", in, opts...)
}

func (c *InventoryServiceClient) ReserveStock(ctx context.Context, in *ReserveStockRequest, opts ...grpc.CallOption) (*InventoryEntry, error) {
	return invoke[InventoryEntry](ctx, c.cc, InventoryServiceName, "ReserveStock", in, opts...)
}

func (c *InventoryServiceClient) ReleaseStock(ctx context.Context, in *ReserveStockRequest, opts ...grpc.CallOption) (*InventoryEntry, error) {
	return invoke[InventoryEntry](ctx, c.cc, InventoryServiceName, "ReleaseStock", in, opts...)
}
