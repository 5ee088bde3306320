package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/app"
	"github.com/fekuna/omnipos-inventory-service/internal/app/apptest"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	invdto "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/reorder/dto"
)

func TestUpsertSyncsReorderLevels(t *testing.T) {
	env := apptest.New(t)
	env.Product("p-10", "1", "2")
	loc := env.Location(t, "S1", model.LocationStore, "")
	env.SetOnHand(t, "p-10", loc.ID, 8)

	in := &dto.UpsertReorderRuleInput{
		MerchantID:      apptest.MerchantID,
		ProductID:       "p-10",
		LocationID:      loc.ID,
		MinStock:        10,
		MaxStock:        50,
		ReorderQuantity: 25,
	}
	rule, err := env.Services.Reorder.UpsertReorderRule(env.Ctx, in)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !rule.IsActive {
		t.Fatal("rule should default to active")
	}
	rec := env.Record(t, "p-10", loc.ID)
	if rec.ReorderPoint != 10 || rec.MaxStockLevel != 50 || rec.ReorderQuantity != 25 {
		t.Fatalf("record levels = %d/%d/%d", rec.ReorderPoint, rec.MaxStockLevel, rec.ReorderQuantity)
	}

	low, total, err := env.Services.Inventory.ListLowStock(env.Ctx, apptest.MerchantID, loc.ID, 1, 10)
	if err != nil || total != 1 || low[0].ProductID != "p-10" {
		t.Fatalf("low stock = %+v (%d) err=%v", low, total, err)
	}

	in.MinStock = 5
	again, err := env.Services.Reorder.UpsertReorderRule(env.Ctx, in)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != rule.ID {
		t.Fatalf("upsert created a second rule: %s != %s", again.ID, rule.ID)
	}
	if rec := env.Record(t, "p-10", loc.ID); rec.ReorderPoint != 5 {
		t.Fatalf("reorder point = %d, want 5", rec.ReorderPoint)
	}

	if err := env.Services.Reorder.DeleteReorderRule(env.Ctx, apptest.MerchantID, rule.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec := env.Record(t, "p-10", loc.ID); rec.ReorderPoint != 0 || rec.MaxStockLevel != 0 {
		t.Fatalf("levels not cleared: %+v", rec)
	}
	if _, err := env.Services.Reorder.GetReorderRule(env.Ctx, apptest.MerchantID, "p-10", loc.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("get deleted: err = %v", err)
	}
}

func TestNewRecordsInheritActiveRule(t *testing.T) {
	env := apptest.New(t)
	env.Product("p-10", "1", "2")
	loc := env.Location(t, "S1", model.LocationStore, "")

	_, err := env.Services.Reorder.UpsertReorderRule(env.Ctx, &dto.UpsertReorderRuleInput{
		MerchantID: apptest.MerchantID, ProductID: "p-10", LocationID: loc.ID, MinStock: 3, MaxStock: 9,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	_, err = env.Services.Inventory.AdjustInventory(env.Ctx, &invdto.AdjustInventoryInput{
		MerchantID:     apptest.MerchantID,
		ProductID:      "p-10",
		LocationID:     loc.ID,
		AdjustmentType: string(model.AdjustmentAdd),
		Quantity:       1,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if rec := env.Record(t, "p-10", loc.ID); rec.ReorderPoint != 3 || rec.MaxStockLevel != 9 {
		t.Fatalf("new record levels = %d/%d", rec.ReorderPoint, rec.MaxStockLevel)
	}
}

func TestUpsertValidation(t *testing.T) {
	env := apptest.New(t)
	env.Product("p-10", "1", "2")
	loc := env.Location(t, "S1", model.LocationStore, "")

	cases := map[string]dto.UpsertReorderRuleInput{
		"negative":      {ProductID: "p-10", LocationID: loc.ID, MinStock: -1},
		"max below min": {ProductID: "p-10", LocationID: loc.ID, MinStock: 10, MaxStock: 5},
		"no product":    {LocationID: loc.ID},
	}
	for name, in := range cases {
		in.MerchantID = apptest.MerchantID
		if _, err := env.Services.Reorder.UpsertReorderRule(env.Ctx, &in); !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}

	staff := apptest.As(auth.RoleStaff)
	_, err := env.Services.Reorder.UpsertReorderRule(staff, &dto.UpsertReorderRuleInput{
		MerchantID: apptest.MerchantID, ProductID: "p-10", LocationID: loc.ID,
	})
	if !errors.Is(err, apperror.ErrPermissionDenied) {
		t.Fatalf("staff upsert: err = %v", err)
	}
}

func TestRuleChangesRefreshCachedProductStock(t *testing.T) {
	c := newMapCache()
	env := apptest.New(t, func(o *app.Options) { o.Cache = c })
	env.Product("p-10", "1", "2")
	loc := env.Location(t, "S1", model.LocationStore, "")
	env.SetOnHand(t, "p-10", loc.ID, 8)

	reorderPoint := func() int64 {
		t.Helper()
		stock, err := env.Services.Inventory.GetByProduct(env.Ctx, apptest.MerchantID, "p-10")
		if err != nil {
			t.Fatalf("get by product: %v", err)
		}
		if len(stock.Locations) != 1 {
			t.Fatalf("locations = %+v", stock.Locations)
		}
		return stock.Locations[0].ReorderPoint
	}
	if got := reorderPoint(); got != 0 {
		t.Fatalf("reorder point = %d, want 0", got)
	}

	rule, err := env.Services.Reorder.UpsertReorderRule(env.Ctx, &dto.UpsertReorderRuleInput{
		MerchantID: apptest.MerchantID,
		ProductID:  "p-10",
		LocationID: loc.ID,
		MinStock:   10,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := reorderPoint(); got != 10 {
		t.Fatalf("cached reorder point = %d, want 10", got)
	}

	if err := env.Services.Reorder.DeleteReorderRule(env.Ctx, apptest.MerchantID, rule.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := reorderPoint(); got != 0 {
		t.Fatalf("cached reorder point after delete = %d, want 0", got)
	}
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
