package app_test

import (
	"context"
	"net"
	"testing"

	stockv1 "github.com/fekuna/omnipos-inventory-service/api/stock/v1"
	"github.com/fekuna/omnipos-inventory-service/internal/app"
	"github.com/fekuna/omnipos-inventory-service/internal/app/apptest"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dial(t *testing.T, env *apptest.Env) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(auth.NewInterceptor("secret", true).Unary()))
	app.RegisterGRPC(srv, env.Services, logger.NewNop())
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func as(role string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(),
		"x-merchant-id", apptest.MerchantID,
		"x-user-id", apptest.UserID,
		"x-role", role,
	)
}

func TestInventoryOverGRPC(t *testing.T) {
	env := apptest.New(t)
	env.Product("p-1", "2.50", "4.00")
	conn := dial(t, env)
	locations := stockv1.NewLocationServiceClient(conn)
	inventory := stockv1.NewInventoryServiceClient(conn)
	ctx := as(auth.RoleAdmin)

	store, err := locations.CreateLocation(ctx, &stockv1.CreateLocationRequest{Type: "store", Code: "S1", Name: "Main"})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	res, err := inventory.AdjustInventory(ctx, &stockv1.AdjustInventoryRequest{
		ProductID:      "p-1",
		LocationID:     store.ID,
		AdjustmentType: "add",
		Quantity:       12,
		Reason:         "opening stock",
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if res.Entry.QuantityOnHand != 12 || res.Movement == nil || res.Movement.QuantityChange != 12 {
		t.Fatalf("adjust response = %+v / %+v", res.Entry, res.Movement)
	}

	stock, err := inventory.GetByProduct(ctx, &stockv1.GetByProductRequest{ProductID: "p-1"})
	if err != nil {
		t.Fatalf("get by product: %v", err)
	}
	if stock.Totals.QuantityOnHand != 12 || len(stock.Locations) != 1 || stock.Locations[0].LocationCode != "S1" {
		t.Fatalf("stock = %+v", stock)
	}

	val, err := inventory.GetValuation(ctx, &stockv1.GetValuationRequest{})
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	if val.CostValue != "30.00" || val.RetailValue != "48.00" {
		t.Fatalf("valuation = %s / %s", val.CostValue, val.RetailValue)
	}

	_, err = inventory.AdjustInventory(ctx, &stockv1.AdjustInventoryRequest{
		ProductID: "missing", LocationID: store.ID, AdjustmentType: "add", Quantity: 1,
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("unknown product: err = %v", err)
	}

	_, err = inventory.ListInventory(context.Background(), &stockv1.ListInventoryRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("anonymous: err = %v", err)
	}

	_, err = locations.CreateLocation(as(auth.RoleStaff), &stockv1.CreateLocationRequest{Type: "store", Code: "S2", Name: "Second"})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("staff create location: err = %v", err)
	}
}

func TestPurchaseOrderOverGRPC(t *testing.T) {
	env := apptest.New(t)
	env.Product("p-1", "2.50", "4.00")
	env.Supplier("sup-1")
	wh := env.Location(t, "W1", model.LocationWarehouse, "")
	orders := stockv1.NewPurchaseOrderServiceClient(dial(t, env))
	ctx := as(auth.RoleAdmin)

	_, err := orders.CreatePurchaseOrder(ctx, &stockv1.CreatePurchaseOrderRequest{
		SupplierID:         "sup-1",
		DeliveryLocationID: wh.ID,
		Items:              []stockv1.CreatePurchaseOrderItem{{ProductID: "p-1", QuantityOrdered: 4, UnitCost: "abc"}},
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad unit cost: err = %v", err)
	}

	po, err := orders.CreatePurchaseOrder(ctx, &stockv1.CreatePurchaseOrderRequest{
		SupplierID:         "sup-1",
		DeliveryLocationID: wh.ID,
		Items:              []stockv1.CreatePurchaseOrderItem{{ProductID: "p-1", QuantityOrdered: 4, UnitCost: "2.25"}},
		Tax:                "1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if po.Subtotal != "9.00" || po.Total != "10.00" || po.Status != "draft" {
		t.Fatalf("po = %+v", po)
	}

	if _, err := orders.ApprovePurchaseOrder(ctx, &stockv1.PurchaseOrderTransitionRequest{PurchaseOrderID: po.ID}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := orders.SendPurchaseOrder(ctx, &stockv1.PurchaseOrderTransitionRequest{PurchaseOrderID: po.ID}); err != nil {
		t.Fatalf("send: %v", err)
	}
	res, err := orders.ReceivePurchaseOrder(ctx, &stockv1.ReceivePurchaseOrderRequest{
		PurchaseOrderID: po.ID,
		Items: []stockv1.ReceivePurchaseOrderItem{{
			PurchaseOrderItemID: po.Items[0].ID,
			ProductID:           "p-1",
			QuantityReceived:    4,
			QuantityAccepted:    4,
		}},
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if res.Status != "received" || res.Succeeded != 1 || res.GRNNumber == "" {
		t.Fatalf("receive = %+v", res)
	}
	if got := env.Record(t, "p-1", wh.ID).QuantityOnHand; got != 4 {
		t.Fatalf("on hand = %d, want 4", got)
	}

	grns, err := orders.ListGoodsReceipts(ctx, &stockv1.ListGoodsReceiptsRequest{PurchaseOrderID: po.ID})
	if err != nil || len(grns.Items) != 1 || grns.Items[0].Items[0].QuantityAccepted != 4 {
		t.Fatalf("goods receipts = %+v, %v", grns, err)
	}
}
