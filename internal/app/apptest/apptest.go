// Package apptest builds a fully wired service graph over the in-memory
// store for use in tests.
package apptest

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/app"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	invdto "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	locdto "github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/storage/memory"
	"github.com/shopspring/decimal"
)

const (
	MerchantID = "m-1"
	UserID     = "u-1"
)

type Env struct {
	Store    *memory.Store
	Repos    app.Repositories
	Services *app.Services
	// Ctx carries an admin identity for MerchantID.
	Ctx context.Context
}

func New(t testing.TB, opts ...func(*app.Options)) *Env {
	t.Helper()
	store := memory.NewStore()
	repos := app.MemoryRepositories(store)

	o := app.Options{}
	for _, fn := range opts {
		fn(&o)
	}
	services, err := app.NewServices(repos, o)
	if err != nil {
		t.Fatalf("NewServices: %v", err)
	}
	return &Env{
		Store:    store,
		Repos:    repos,
		Services: services,
		Ctx:      As(auth.RoleAdmin),
	}
}

// As returns a context for MerchantID acting with role.
func As(role string) context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{
		MerchantID: MerchantID,
		UserID:     UserID,
		Role:       role,
	})
}

// Product seeds the catalog with a product costing cost and selling at price.
func (e *Env) Product(id, cost, price string) model.Product {
	c := decimal.RequireFromString(cost)
	p := model.Product{
		ID:             id,
		MerchantID:     MerchantID,
		SKU:            "SKU-" + id,
		Name:           "Product " + id,
		BasePrice:      decimal.RequireFromString(price),
		CostPrice:      &c,
		TrackInventory: true,
		IsActive:       true,
	}
	e.Store.PutProduct(p)
	return p
}

func (e *Env) Supplier(id string) model.Supplier {
	s := model.Supplier{ID: id, MerchantID: MerchantID, Code: "SUP-" + id, Name: "Supplier " + id, IsActive: true}
	e.Store.PutSupplier(s)
	return s
}

func (e *Env) Location(t testing.TB, code string, typ model.LocationType, parentID string) *model.Location {
	t.Helper()
	input := &locdto.CreateLocationInput{
		MerchantID: MerchantID,
		Type:       string(typ),
		Code:       code,
		Name:       "Location " + code,
	}
	if parentID != "" {
		input.ParentID = &parentID
	}
	loc, err := e.Services.Locations.CreateLocation(e.Ctx, input)
	if err != nil {
		t.Fatalf("CreateLocation(%s): %v", code, err)
	}
	return loc
}

// SetOnHand puts the record at exactly qty through the public adjust path.
func (e *Env) SetOnHand(t testing.TB, productID, locationID string, qty int64) {
	t.Helper()
	_, err := e.Services.Inventory.AdjustInventory(e.Ctx, &invdto.AdjustInventoryInput{
		MerchantID:     MerchantID,
		ProductID:      productID,
		LocationID:     locationID,
		AdjustmentType: string(model.AdjustmentSet),
		Quantity:       qty,
		UserID:         UserID,
	})
	if err != nil {
		t.Fatalf("set on-hand: %v", err)
	}
}

// Record returns the base record for the product at the location, or a zero
// record when none exists yet.
func (e *Env) Record(t testing.TB, productID, locationID string) model.InventoryRecord {
	t.Helper()
	rec, err := e.Repos.Inventory.GetRecord(context.Background(), model.StockKey{
		MerchantID: MerchantID,
		ProductID:  productID,
		LocationID: locationID,
	})
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if rec == nil {
		return model.InventoryRecord{}
	}
	return *rec
}

// Outbox returns every audit event written so far.
func (e *Env) Outbox(t testing.TB) []model.OutboxEvent {
	t.Helper()
	events, err := e.Repos.Audit.FetchUnpublished(context.Background(), 1<<20)
	if err != nil {
		t.Fatalf("FetchUnpublished: %v", err)
	}
	return events
}
