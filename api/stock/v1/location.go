package stockv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const LocationServiceName = "stock.v1.LocationService"

type Location struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Type      string    `json:"type"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateLocationRequest struct {
	ParentID string `json:"parent_id,omitempty"`
	Type     string `json:"type"`
	Code     string `json:"code"`
	Name     string `json:"name"`
}

type GetLocationRequest struct {
	LocationID string `json:"location_id"`
}

// ListLocationsRequest filters by parent. RootsOnly selects locations with no
// parent and wins over ParentID.
type ListLocationsRequest struct {
	ParentID  string `json:"parent_id,omitempty"`
	RootsOnly bool   `json:"roots_only,omitempty"`
	Type      string `json:"type,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
	Page      int32  `json:"page,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
}

type ListLocationsResponse struct {
	Items []*Location `json:"items"`
	Total int32       `json:"total"`
}

type LocationServiceServer interface {
	CreateLocation(context.Context, *CreateLocationRequest) (*Location, error)
	GetLocation(context.Context, *GetLocationRequest) (*Location, error)
	ListLocations(context.Context, *ListLocationsRequest) (*ListLocationsResponse, error)
	GetAncestors(context.Context, *GetLocationRequest) (*ListLocationsResponse, error)
	GetDescendants(context.Context, *GetLocationRequest) (*ListLocationsResponse, error)
}

type UnimplementedLocationServiceServer struct{}

func (UnimplementedLocationServiceServer) CreateLocation(context.Context, *CreateLocationRequest) (*Location, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateLocation not implemented")
}

func (UnimplementedLocationServiceServer) GetLocation(context.Context, *GetLocationRequest) (*Location, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLocation not implemented")
}

func (UnimplementedLocationServiceServer) ListLocations(context.Context, *ListLocationsRequest) (*ListLocationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListLocations not implemented")
}

func (UnimplementedLocationServiceServer) GetAncestors(context.Context, *GetLocationRequest) (*ListLocationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAncestors not implemented")
}

func (UnimplementedLocationServiceServer) GetDescendants(context.Context, *GetLocationRequest) (*ListLocationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDescendants not implemented")
}

func RegisterLocationServiceServer(s grpc.ServiceRegistrar, srv LocationServiceServer) {
	s.RegisterService(&LocationService_ServiceDesc, srv)
}

var LocationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: LocationServiceName,
	HandlerType: (*LocationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(LocationServiceName, "CreateLocation", LocationServiceServer.CreateLocation),
		unary(LocationServiceName, "GetLocation", LocationServiceServer.GetLocation),
		unary(LocationServiceName, "ListLocations", LocationServiceServer.ListLocations),
		unary(LocationServiceName, "GetAncestors", LocationServiceServer.GetAncestors),
		unary(LocationServiceName, "GetDescendants", LocationServiceServer.GetDescendants),
	},
	Metadata: "stock/v1/location",
}

type LocationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLocationServiceClient(cc grpc.ClientConnInterface) *LocationServiceClient {
	return &LocationServiceClient{cc: cc}
}

func (c *LocationServiceClient) CreateLocation(ctx context.Context, in *CreateLocationRequest, opts ...grpc.CallOption) (*Location, error) {
	return invoke[Location](ctx, c.cc, LocationServiceName, "CreateLocation", in, opts...)
}

func (c *LocationServiceClient) GetLocation(ctx context.Context, in *GetLocationRequest, opts ...grpc.CallOption) (*Location, error) {
	return invoke[Location](ctx, c.cc, LocationServiceName, "GetLocation", in, opts...)
}

func (c *LocationServiceClient) ListLocations(ctx context.Context, in *ListLocationsRequest, opts ...grpc.CallOption) (*ListLocationsResponse, error) {
	return invoke[ListLocationsResponse](ctx, c.cc, LocationServiceName, "ListLocations", in, opts...)
}

func (c *LocationServiceClient) GetAncestors(ctx context.Context, in *GetLocationRequest, opts ...grpc.CallOption) (*ListLocationsResponse, error) {
	return invoke[ListLocationsResponse](ctx, c.cc, LocationServiceName, "GetAncestors", in, opts...)
}

func (c *LocationServiceClient) GetDescendants(ctx context.Context, in *GetLocationRequest, opts ...grpc.CallOption) (*ListLocationsResponse, error) {
	return invoke[ListLocationsResponse](ctx, c.cc, LocationServiceName, "GetDescendants", in, opts...)
}
