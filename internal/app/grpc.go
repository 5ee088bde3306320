package app

import (
	stockv1 "github.com/fekuna/omnipos-inventory-service/api/stock/v1"
	invhandler "github.com/fekuna/omnipos-inventory-service/internal/inventory/handler"
	lochandler "github.com/fekuna/omnipos-inventory-service/internal/location/handler"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	pohandler "github.com/fekuna/omnipos-inventory-service/internal/purchasing/handler"
	reorderhandler "github.com/fekuna/omnipos-inventory-service/internal/reorder/handler"
	transferhandler "github.com/fekuna/omnipos-inventory-service/internal/transfer/handler"
	"google.golang.org/grpc"
)

// RegisterGRPC registers every stock.v1 service on s.
func RegisterGRPC(s grpc.ServiceRegistrar, svcs *Services, log logger.Logger) {
	stockv1.RegisterInventoryServiceServer(s, invhandler.NewInventoryHandler(svcs.Inventory, svcs.Movements, log))
	stockv1.RegisterTransferServiceServer(s, transferhandler.NewTransferHandler(svcs.Transfers, log))
	stockv1.RegisterPurchaseOrderServiceServer(s, pohandler.NewPurchaseOrderHandler(svcs.Purchasing, log))
	stockv1.RegisterReorderRuleServiceServer(s, reorderhandler.NewReorderRuleHandler(svcs.Reorder, log))
	stockv1.RegisterLocationServiceServer(s, lochandler.NewLocationHandler(svcs.Locations, log))
}
