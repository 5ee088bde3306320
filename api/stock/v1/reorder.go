package stockv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ReorderRuleServiceName = "stock.v1.ReorderRuleService"

type ReorderRule struct {
	ID                  string    `json:"id"`
	ProductID           string    `json:"product_id"`
	LocationID          string    `json:"location_id"`
	MinStock            int64     `json:"min_stock"`
	MaxStock            int64     `json:"max_stock"`
	ReorderQuantity     int64     `json:"reorder_quantity"`
	SafetyStock         int64     `json:"safety_stock"`
	PreferredSupplierID string    `json:"preferred_supplier_id,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type UpsertReorderRuleRequest struct {
	ProductID           string `json:"product_id"`
	LocationID          string `json:"location_id"`
	MinStock            int64  `json:"min_stock"`
	MaxStock            int64  `json:"max_stock"`
	ReorderQuantity     int64  `json:"reorder_quantity"`
	SafetyStock         int64  `json:"safety_stock"`
	PreferredSupplierID string `json:"preferred_supplier_id,omitempty"`
	IsActive            *bool  `json:"is_active,omitempty"`
}

type GetReorderRuleRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
}

type ListReorderRulesRequest struct {
	ProductID  string `json:"product_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
	Page       int32  `json:"page,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
}

type ListReorderRulesResponse struct {
	Items []*ReorderRule `json:"items"`
	Total int32          `json:"total"`
}

type DeleteReorderRuleRequest struct {
	RuleID string `json:"rule_id"`
}

type ReorderRuleServiceServer interface {
	UpsertReorderRule(context.Context, *UpsertReorderRuleRequest) (*ReorderRule, error)
	GetReorderRule(context.Context, *GetReorderRuleRequest) (*ReorderRule, error)
	ListReorderRules(context.Context, *ListReorderRulesRequest) (*ListReorderRulesResponse, error)
	DeleteReorderRule(context.Context, *DeleteReorderRuleRequest) (*Empty, error)
}

type UnimplementedReorderRuleServiceServer struct{}

func (UnimplementedReorderRuleServiceServer) UpsertReorderRule(context.Context, *UpsertReorderRuleRequest) (*ReorderRule, error) {
	return nil, status.Error(codes.Unimplemented, "method UpsertReorderRule not implemented")
}

func (UnimplementedReorderRuleServiceServer) GetReorderRule(context.Context, *GetReorderRuleRequest) (*ReorderRule, error) {
	return nil, status.Error(codes.Unimplemented, "method GetReorderRule not implemented")
}

func (UnimplementedReorderRuleServiceServer) ListReorderRules(context.Context, *ListReorderRulesRequest) (*ListReorderRulesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReorderRules not implemented")
}

func (UnimplementedReorderRuleServiceServer) DeleteReorderRule(context.Context, *DeleteReorderRuleRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteReorderRule not implemented")
}

func RegisterReorderRuleServiceServer(s grpc.ServiceRegistrar, srv ReorderRuleServiceServer) {
	s.RegisterService(&ReorderRuleService_ServiceDesc, srv)
}

var ReorderRuleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ReorderRuleServiceName,
	HandlerType: (*ReorderRuleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ReorderRuleServiceName, "UpsertReorderRule", ReorderRuleServiceServer.UpsertReorderRule),
		unary(ReorderRuleServiceName, "GetReorderRule", ReorderRuleServiceServer.GetReorderRule),
		unary(ReorderRuleServiceName, "ListReorderRules", ReorderRuleServiceServer.ListReorderRules),
		unary(ReorderRuleServiceName, "DeleteReorderRule", ReorderRuleServiceServer.DeleteReorderRule),
	},
	Metadata: "stock/v1/reorder",
}

type ReorderRuleServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReorderRuleServiceClient(cc grpc.ClientConnInterface) *ReorderRuleServiceClient {
	return &ReorderRuleServiceClient{cc: cc}
}

func (c *ReorderRuleServiceClient) UpsertReorderRule(ctx context.Context, in *UpsertReorderRuleRequest, opts ...grpc.CallOption) (*ReorderRule, error) {
	return invoke[ReorderRule](ctx, c.cc, ReorderRuleServiceName, "UpsertReorderRule", in, opts...)
}

func (c *ReorderRuleServiceClient) GetReorderRule(ctx context.Context, in *GetReorderRuleRequest, opts ...grpc.CallOption) (*ReorderRule, error) {
	return invoke[ReorderRule](ctx, c.cc, ReorderRuleServiceName, "GetReorderRule", in, opts...)
}

func (c *ReorderRuleServiceClient) ListReorderRules(ctx context.Context, in *ListReorderRulesRequest, opts ...grpc.CallOption) (*ListReorderRulesResponse, error) {
	return invoke[ListReorderRulesResponse](ctx, c.cc, ReorderRuleServiceName, "ListReorderRules", in, opts...)
}

func (c *ReorderRuleServiceClient) DeleteReorderRule(ctx context.Context, in *DeleteReorderRuleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ReorderRuleServiceName, "DeleteReorderRule", in, opts...)
}
