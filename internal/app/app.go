// Package app wires repositories and use cases into the service graph shared
// by the gRPC server, the order listener and the test suites.
package app

import (
	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	auditrepo "github.com/fekuna/omnipos-inventory-service/internal/audit/repository"
	auditusecase "github.com/fekuna/omnipos-inventory-service/internal/audit/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/catalog"
	catalogrepo "github.com/fekuna/omnipos-inventory-service/internal/catalog/repository"
	catalogusecase "github.com/fekuna/omnipos-inventory-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	inventoryrepo "github.com/fekuna/omnipos-inventory-service/internal/inventory/repository"
	inventoryusecase "github.com/fekuna/omnipos-inventory-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/location"
	locationrepo "github.com/fekuna/omnipos-inventory-service/internal/location/repository"
	locationusecase "github.com/fekuna/omnipos-inventory-service/internal/location/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/movement"
	movementrepo "github.com/fekuna/omnipos-inventory-service/internal/movement/repository"
	movementusecase "github.com/fekuna/omnipos-inventory-service/internal/movement/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/numbering"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
	"github.com/fekuna/omnipos-inventory-service/internal/purchasing"
	purchasingrepo "github.com/fekuna/omnipos-inventory-service/internal/purchasing/repository"
	purchasingusecase "github.com/fekuna/omnipos-inventory-service/internal/purchasing/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder"
	reorderrepo "github.com/fekuna/omnipos-inventory-service/internal/reorder/repository"
	reorderusecase "github.com/fekuna/omnipos-inventory-service/internal/reorder/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/storage/memory"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer"
	transferrepo "github.com/fekuna/omnipos-inventory-service/internal/transfer/repository"
	transferusecase "github.com/fekuna/omnipos-inventory-service/internal/transfer/usecase"
	"github.com/jmoiron/sqlx"
)

// Repositories is one storage backend.
type Repositories struct {
	Tx         txm.Manager
	Sequencer  numbering.Sequencer
	Inventory  inventory.Repository
	Movements  movement.Repository
	Audit      audit.Repository
	Transfers  transfer.Repository
	Purchasing purchasing.Repository
	Reorder    reorder.Repository
	Locations  location.Repository
	Catalog    catalog.Repository
}

func PostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Tx:         txm.NewSQLManager(db),
		Sequencer:  numbering.NewPGSequencer(db),
		Inventory:  inventoryrepo.NewPGRepository(db),
		Movements:  movementrepo.NewPGRepository(db),
		Audit:      auditrepo.NewPGRepository(db),
		Transfers:  transferrepo.NewPGRepository(db),
		Purchasing: purchasingrepo.NewPGRepository(db),
		Reorder:    reorderrepo.NewPGRepository(db),
		Locations:  locationrepo.NewPGRepository(db),
		Catalog:    catalogrepo.NewPGRepository(db),
	}
}

func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Tx:         s,
		Sequencer:  s,
		Inventory:  memory.NewInventoryRepository(s),
		Movements:  memory.NewMovementRepository(s),
		Audit:      memory.NewAuditRepository(s),
		Transfers:  memory.NewTransferRepository(s),
		Purchasing: memory.NewPurchasingRepository(s),
		Reorder:    memory.NewReorderRepository(s),
		Locations:  memory.NewLocationRepository(s),
		Catalog:    memory.NewCatalogRepository(s),
	}
}

type Options struct {
	// Cache is optional. Leave it nil (not a typed nil) to disable caching.
	Cache             cache.Cache
	Authorizer        auth.Authorizer
	Policy            inventory.DecrementPolicy
	LocationCacheSize int
	Logger            logger.Logger
}

type Services struct {
	Inventory  *inventoryusecase.InventoryUseCase
	Movements  movement.UseCase
	Transfers  transfer.UseCase
	Purchasing purchasing.UseCase
	Reorder    reorder.UseCase
	Locations  location.UseCase
	Catalog    catalog.UseCase
}

func NewServices(repos Repositories, opts Options) (*Services, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	authz := opts.Authorizer
	if authz == nil {
		authz = auth.NewRoleAuthorizer()
	}

	emitter := auditusecase.NewOutboxEmitter(repos.Audit)
	numbers := numbering.NewGenerator(repos.Sequencer)

	locations, err := locationusecase.NewLocationUseCase(repos.Locations, authz, opts.LocationCacheSize, log)
	if err != nil {
		return nil, err
	}
	catalogUC := catalogusecase.NewCatalogUseCase(repos.Catalog, opts.Cache, log)
	movements := movementusecase.NewMovementUseCase(repos.Movements, emitter, log)
	inv := inventoryusecase.NewInventoryUseCase(
		repos.Inventory, repos.Tx, movements, catalogUC, locations, authz, opts.Cache, opts.Policy, log,
	)

	return &Services{
		Inventory:  inv,
		Movements:  movements,
		Transfers:  transferusecase.NewTransferUseCase(repos.Transfers, repos.Tx, inv, catalogUC, locations, numbers, emitter, authz, log),
		Purchasing: purchasingusecase.NewPurchasingUseCase(repos.Purchasing, repos.Tx, inv, catalogUC, locations, numbers, emitter, authz, log),
		Reorder:    reorderusecase.NewReorderUseCase(repos.Reorder, repos.Inventory, inv, repos.Tx, catalogUC, locations, emitter, authz, log),
		Locations:  locations,
		Catalog:    catalogUC,
	}, nil
}
