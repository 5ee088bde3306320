package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/app"
	"github.com/fekuna/omnipos-inventory-service/internal/app/apptest"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	locdto "github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	movementdto "github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/storage/memory"
	"github.com/shopspring/decimal"
)

func setup(t *testing.T, opts ...func(*app.Options)) (*apptest.Env, *model.Location) {
	t.Helper()
	env := apptest.New(t, opts...)
	env.Product("p-10", "2.50", "4.00")
	loc := env.Location(t, "S1", model.LocationStore, "")
	return env, loc
}

func adjust(env *apptest.Env, ctx context.Context, productID, locationID string, typ model.AdjustmentType, qty int64) (*dto.MutationResult, error) {
	return env.Services.Inventory.AdjustInventory(ctx, &dto.AdjustInventoryInput{
		MerchantID:     apptest.MerchantID,
		ProductID:      productID,
		LocationID:     locationID,
		AdjustmentType: string(typ),
		Quantity:       qty,
		UserID:         apptest.UserID,
	})
}

func movements(t *testing.T, env *apptest.Env, productID string) []model.MovementEntry {
	t.Helper()
	items, _, err := env.Services.Movements.Query(env.Ctx, &movementdto.MovementFilters{
		MerchantID: apptest.MerchantID,
		ProductID:  productID,
		PageSize:   100,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	return items
}

func TestAdjustRemoveWritesMovement(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 50)

	res, err := adjust(env, env.Ctx, "p-10", loc.ID, model.AdjustmentRemove, 10)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if res.Record.QuantityOnHand != 40 {
		t.Fatalf("on_hand = %d, want 40", res.Record.QuantityOnHand)
	}
	m := res.Movement
	if m == nil || m.QuantityBefore != 50 || m.QuantityAfter != 40 || m.QuantityChange != -10 {
		t.Fatalf("movement = %+v", m)
	}
	if m.AdjustmentType != model.AdjustmentRemove || m.ReferenceType != string(model.ReferenceManual) {
		t.Fatalf("movement type/ref = %s/%s", m.AdjustmentType, m.ReferenceType)
	}
	if got := env.Record(t, "p-10", loc.ID).QuantityOnHand; got != 40 {
		t.Fatalf("stored on_hand = %d", got)
	}
}

func TestAdjustClampsOverDecrement(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 40)

	res, err := adjust(env, env.Ctx, "p-10", loc.ID, model.AdjustmentRemove, 60)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if res.Record.QuantityOnHand != 0 {
		t.Fatalf("on_hand = %d, want 0", res.Record.QuantityOnHand)
	}
	if m := res.Movement; m.QuantityBefore != 40 || m.QuantityAfter != 0 || m.QuantityChange != -40 {
		t.Fatalf("movement = %+v, want 40 -> 0 (-40)", m)
	}
}

func TestAdjustRejectPolicy(t *testing.T) {
	env, loc := setup(t, func(o *app.Options) { o.Policy = inventory.PolicyReject })
	env.SetOnHand(t, "p-10", loc.ID, 40)
	before := len(movements(t, env, "p-10"))

	_, err := adjust(env, env.Ctx, "p-10", loc.ID, model.AdjustmentDamage, 60)
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	if got := env.Record(t, "p-10", loc.ID).QuantityOnHand; got != 40 {
		t.Fatalf("on_hand = %d, want unchanged 40", got)
	}
	if after := len(movements(t, env, "p-10")); after != before {
		t.Fatalf("movement count %d -> %d, want no new entry", before, after)
	}
}

func TestAdjustValidation(t *testing.T) {
	env, loc := setup(t)

	cases := []struct {
		name    string
		product string
		typ     model.AdjustmentType
		qty     int64
		kind    error
	}{
		{"zero quantity", "p-10", model.AdjustmentAdd, 0, apperror.ErrValidation},
		{"unknown type", "p-10", "shrink", 1, apperror.ErrValidation},
		{"workflow type", "p-10", model.MovementTransferOut, 1, apperror.ErrValidation},
		{"negative absolute", "p-10", model.AdjustmentSet, -1, apperror.ErrValidation},
		{"unknown product", "p-404", model.AdjustmentAdd, 1, apperror.ErrNotFound},
		{"quantity above bound", "p-10", model.AdjustmentAdd, math.MaxInt64, apperror.ErrValidation},
		{"quantity below bound", "p-10", model.AdjustmentReturn, math.MinInt64, apperror.ErrValidation},
		{"absolute above bound", "p-10", model.AdjustmentSet, inventory.MaxQuantity + 1, apperror.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := adjust(env, env.Ctx, tc.product, loc.ID, tc.typ, tc.qty)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("err = %v, want %v", err, tc.kind)
			}
		})
	}

	if _, err := adjust(env, env.Ctx, "p-10", "loc-404", model.AdjustmentAdd, 1); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown location: err = %v", err)
	}
	if got := len(movements(t, env, "p-10")); got != 0 {
		t.Fatalf("rejected adjustments wrote %d movements", got)
	}
}

func TestAdjustNegativeQuantityUsesMagnitude(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 10)

	res, err := adjust(env, env.Ctx, "p-10", loc.ID, model.AdjustmentRemove, -3)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if res.Record.QuantityOnHand != 7 {
		t.Fatalf("on_hand = %d, want 7", res.Record.QuantityOnHand)
	}
}

func TestAdjustNetZeroSequence(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 30)
	before := len(movements(t, env, "p-10"))

	steps := []struct {
		typ model.AdjustmentType
		qty int64
	}{
		{model.AdjustmentAdd, 7},
		{model.AdjustmentRemove, 4},
		{model.AdjustmentReturn, 2},
		{model.AdjustmentDamage, 5},
	}
	for _, s := range steps {
		if _, err := adjust(env, env.Ctx, "p-10", loc.ID, s.typ, s.qty); err != nil {
			t.Fatalf("%s %d: %v", s.typ, s.qty, err)
		}
	}

	if got := env.Record(t, "p-10", loc.ID).QuantityOnHand; got != 30 {
		t.Fatalf("on_hand = %d, want 30", got)
	}
	if got := len(movements(t, env, "p-10")) - before; got != len(steps) {
		t.Fatalf("movements added = %d, want %d", got, len(steps))
	}
}

func TestAdjustEveryTypeMatchesStoredQuantity(t *testing.T) {
	cases := []struct {
		typ  model.AdjustmentType
		want int64
	}{
		{model.AdjustmentAdd, 35},
		{model.AdjustmentRemove, 25},
		{model.AdjustmentSet, 5},
		{model.AdjustmentCount, 5},
		{model.AdjustmentDamage, 25},
		{model.AdjustmentTheft, 25},
		{model.AdjustmentReturn, 35},
		{model.AdjustmentStockTake, 5},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			env, loc := setup(t)
			env.SetOnHand(t, "p-10", loc.ID, 30)

			res, err := adjust(env, env.Ctx, "p-10", loc.ID, tc.typ, 5)
			if err != nil {
				t.Fatalf("adjust: %v", err)
			}
			m := res.Movement
			if m == nil || m.AdjustmentType != tc.typ {
				t.Fatalf("movement = %+v", m)
			}
			if m.QuantityBefore != 30 || m.QuantityAfter != tc.want || m.QuantityChange != tc.want-30 {
				t.Fatalf("movement quantities = %d -> %d (%d), want 30 -> %d", m.QuantityBefore, m.QuantityAfter, m.QuantityChange, tc.want)
			}
			if got := env.Record(t, "p-10", loc.ID).QuantityOnHand; got != m.QuantityAfter {
				t.Fatalf("stored on_hand = %d, movement after = %d", got, m.QuantityAfter)
			}
		})
	}
}

func TestApplyRejectsOverflow(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 5)

	_, err := env.Services.Inventory.Apply(env.Ctx, &dto.Mutation{
		Key: model.StockKey{
			MerchantID: apptest.MerchantID,
			ProductID:  "p-10",
			LocationID: loc.ID,
		},
		Type:        model.AdjustmentAdd,
		OnHandDelta: math.MaxInt64,
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if got := env.Record(t, "p-10", loc.ID).QuantityOnHand; got != 5 {
		t.Fatalf("on_hand = %d, want 5", got)
	}
}

func TestAdjustTracksTimestamps(t *testing.T) {
	env, loc := setup(t)

	if _, err := adjust(env, env.Ctx, "p-10", loc.ID, model.AdjustmentAdd, 5); err != nil {
		t.Fatalf("add: %v", err)
	}
	rec := env.Record(t, "p-10", loc.ID)
	if rec.LastReceivedAt == nil || rec.LastSoldAt != nil || rec.LastCountedAt != nil {
		t.Fatalf("after add: %+v", rec)
	}

	_, err := env.Services.Inventory.AdjustInventory(env.Ctx, &dto.AdjustInventoryInput{
		MerchantID:     apptest.MerchantID,
		ProductID:      "p-10",
		LocationID:     loc.ID,
		AdjustmentType: string(model.AdjustmentRemove),
		Quantity:       1,
		ReferenceType:  string(model.ReferenceSale),
	})
	if err != nil {
		t.Fatalf("sale: %v", err)
	}
	if rec := env.Record(t, "p-10", loc.ID); rec.LastSoldAt == nil {
		t.Fatal("sale did not set last_sold_at")
	}
}

func TestAdjustSetLogsUnchangedQuantity(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 45)

	res, err := adjust(env, env.Ctx, "p-10", loc.ID, model.AdjustmentSet, 45)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if res.Movement == nil || res.Movement.QuantityChange != 0 {
		t.Fatalf("movement = %+v, want a zero-delta entry", res.Movement)
	}
}

func TestCountRecordsVarianceAndSuppressesNoOps(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 40)

	count := func(qty int64) *dto.CountResult {
		t.Helper()
		res, err := env.Services.Inventory.CountInventory(env.Ctx, &dto.CountInventoryInput{
			MerchantID: apptest.MerchantID,
			LocationID: loc.ID,
			UserID:     apptest.UserID,
			Items:      []dto.CountItem{{ProductID: "p-10", CountedQuantity: qty}},
		})
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if res.Succeeded != 1 || res.Failed != 0 {
			t.Fatalf("count result = %+v", res)
		}
		return res
	}

	first := count(45).Items[0]
	if first.Variance != 5 || first.QuantityBefore != 40 || first.QuantityAfter != 45 || first.MovementID == "" {
		t.Fatalf("first count = %+v", first)
	}
	entries := movements(t, env, "p-10")
	if entries[0].AdjustmentType != model.AdjustmentCount || entries[0].QuantityChange != 5 {
		t.Fatalf("latest movement = %+v", entries[0])
	}

	second := count(45).Items[0]
	if second.Variance != 0 || second.MovementID != "" {
		t.Fatalf("matching count = %+v, want no movement", second)
	}
	if got := len(movements(t, env, "p-10")); got != len(entries) {
		t.Fatalf("matching count wrote a movement: %d -> %d", len(entries), got)
	}
	if env.Record(t, "p-10", loc.ID).LastCountedAt == nil {
		t.Fatal("count did not stamp last_counted_at")
	}
}

func TestCountReportsPerItemFailures(t *testing.T) {
	env, loc := setup(t)

	res, err := env.Services.Inventory.CountInventory(env.Ctx, &dto.CountInventoryInput{
		MerchantID: apptest.MerchantID,
		LocationID: loc.ID,
		Items: []dto.CountItem{
			{ProductID: "p-10", CountedQuantity: 12},
			{ProductID: "p-404", CountedQuantity: 3},
			{ProductID: "p-10", SubLocationID: "A-1", CountedQuantity: -1},
		},
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if res.Succeeded != 1 || res.Failed != 2 {
		t.Fatalf("succeeded/failed = %d/%d", res.Succeeded, res.Failed)
	}
	if res.Items[1].Success || res.Items[1].Error == "" {
		t.Fatalf("unknown product item = %+v", res.Items[1])
	}
	if got := env.Record(t, "p-10", loc.ID).QuantityOnHand; got != 12 {
		t.Fatalf("on_hand = %d, want 12", got)
	}
}

func TestReserveAndRelease(t *testing.T) {
	env, loc := setup(t)
	env.SetOnHand(t, "p-10", loc.ID, 10)
	before := len(movements(t, env, "p-10"))

	in := &dto.ReserveStockInput{MerchantID: apptest.MerchantID, ProductID: "p-10", LocationID: loc.ID, Quantity: 8}
	rec, err := env.Services.Inventory.ReserveStock(env.Ctx, in)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if rec.QuantityReserved != 8 || rec.Available() != 2 {
		t.Fatalf("after reserve: reserved=%d available=%d", rec.QuantityReserved, rec.Available())
	}

	in.Quantity = 3
	if _, err := env.Services.Inventory.ReserveStock(env.Ctx, in); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("over-reserve err = %v", err)
	}

	in.Quantity = 8
	if rec, err = env.Services.Inventory.ReleaseStock(env.Ctx, in); err != nil || rec.QuantityReserved != 0 {
		t.Fatalf("release: rec=%+v err=%v", rec, err)
	}
	if _, err := env.Services.Inventory.ReleaseStock(env.Ctx, in); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("over-release err = %v", err)
	}
	if after := len(movements(t, env, "p-10")); after != before {
		t.Fatalf("reservations wrote movements: %d -> %d", before, after)
	}
}

func TestPermissionDenied(t *testing.T) {
	env, loc := setup(t)

	_, err := adjust(env, context.Background(), "p-10", loc.ID, model.AdjustmentAdd, 1)
	if !errors.Is(err, apperror.ErrPermissionDenied) {
		t.Fatalf("anonymous err = %v", err)
	}
	_, err = adjust(env, apptest.As("auditor"), "p-10", loc.ID, model.AdjustmentAdd, 1)
	if !errors.Is(err, apperror.ErrPermissionDenied) {
		t.Fatalf("unknown role err = %v", err)
	}
	if _, err := adjust(env, apptest.As(auth.RoleStaff), "p-10", loc.ID, model.AdjustmentAdd, 1); err != nil {
		t.Fatalf("staff adjust: %v", err)
	}
}

func TestValuationByLocation(t *testing.T) {
	env, s1 := setup(t)
	env.Product("p-20", "1.10", "2.00")
	s2 := env.Location(t, "S2", model.LocationStore, "")

	env.SetOnHand(t, "p-10", s1.ID, 4)
	env.SetOnHand(t, "p-20", s1.ID, 10)
	env.SetOnHand(t, "p-10", s2.ID, 2)
	env.SetOnHand(t, "p-20", s2.ID, 0)

	report, err := env.Services.Inventory.GetValuation(env.Ctx, apptest.MerchantID, "")
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	if len(report.Locations) != 2 {
		t.Fatalf("locations = %d, want 2", len(report.Locations))
	}
	if report.TotalUnits != 16 {
		t.Fatalf("total units = %d", report.TotalUnits)
	}
	// 6 * 2.50 + 10 * 1.10
	if !report.CostValue.Equal(decimal.RequireFromString("26")) {
		t.Fatalf("cost value = %s", report.CostValue)
	}
	// 6 * 4.00 + 10 * 2.00
	if !report.RetailValue.Equal(decimal.RequireFromString("44")) {
		t.Fatalf("retail value = %s", report.RetailValue)
	}

	single, err := env.Services.Inventory.GetValuation(env.Ctx, apptest.MerchantID, s2.ID)
	if err != nil {
		t.Fatalf("valuation s2: %v", err)
	}
	if len(single.Locations) != 1 || single.TotalUnits != 2 || len(single.Locations[0].Lines) != 1 {
		t.Fatalf("s2 valuation = %+v", single)
	}
}

func TestListFilters(t *testing.T) {
	env, loc := setup(t)
	env.Product("p-20", "1", "1")
	env.SetOnHand(t, "p-10", loc.ID, 3)
	env.SetOnHand(t, "p-20", loc.ID, 0)

	items, total, err := env.Services.Inventory.ListInventory(env.Ctx, &dto.InventoryFilters{
		MerchantID: apptest.MerchantID,
		OutOfStock: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || items[0].ProductID != "p-20" {
		t.Fatalf("out of stock = %+v", items)
	}
	if items[0].ProductName != "Product p-20" || items[0].LocationCode != "S1" {
		t.Fatalf("view not joined: %+v", items[0])
	}

	low, total, err := env.Services.Inventory.ListLowStock(env.Ctx, apptest.MerchantID, loc.ID, 1, 10)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	// Reorder point defaults to zero.
	if total != 1 || low[0].ProductID != "p-20" {
		t.Fatalf("low stock = %+v", low)
	}
}

func TestGetByProductTotalsAndCache(t *testing.T) {
	c := newMapCache()
	env, s1 := setup(t, func(o *app.Options) { o.Cache = c })
	s2 := env.Location(t, "S2", model.LocationStore, "")
	env.SetOnHand(t, "p-10", s1.ID, 7)
	env.SetOnHand(t, "p-10", s2.ID, 3)

	stock, err := env.Services.Inventory.GetByProduct(env.Ctx, apptest.MerchantID, "p-10")
	if err != nil {
		t.Fatalf("get by product: %v", err)
	}
	if stock.Totals.OnHand != 10 || len(stock.Locations) != 2 {
		t.Fatalf("stock = %+v", stock)
	}

	if _, err := adjust(env, env.Ctx, "p-10", s1.ID, model.AdjustmentAdd, 5); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	stock, err = env.Services.Inventory.GetByProduct(env.Ctx, apptest.MerchantID, "p-10")
	if err != nil {
		t.Fatalf("get by product: %v", err)
	}
	if stock.Totals.OnHand != 15 {
		t.Fatalf("cached total = %d, want 15 after invalidation", stock.Totals.OnHand)
	}
}

func TestRollbackLeavesNoMovement(t *testing.T) {
	store := memory.NewStore()
	repos := app.MemoryRepositories(store)
	repos.Audit = failingAudit{}
	services, err := app.NewServices(repos, app.Options{})
	if err != nil {
		t.Fatalf("NewServices: %v", err)
	}
	store.PutProduct(model.Product{ID: "p-10", MerchantID: apptest.MerchantID, IsActive: true})
	ctx := apptest.As(auth.RoleAdmin)
	loc, err := services.Locations.CreateLocation(ctx, &locdto.CreateLocationInput{
		MerchantID: apptest.MerchantID,
		Type:       string(model.LocationStore),
		Code:       "S1",
		Name:       "Store 1",
	})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}

	_, err = services.Inventory.AdjustInventory(ctx, &dto.AdjustInventoryInput{
		MerchantID:     apptest.MerchantID,
		ProductID:      "p-10",
		LocationID:     loc.ID,
		AdjustmentType: string(model.AdjustmentAdd),
		Quantity:       5,
	})
	if err == nil {
		t.Fatal("expected the audit failure to surface")
	}

	rec, _ := repos.Inventory.GetRecord(context.Background(), model.StockKey{
		MerchantID: apptest.MerchantID, ProductID: "p-10", LocationID: loc.ID,
	})
	if rec != nil {
		t.Fatalf("record survived rollback: %+v", rec)
	}
	entries, total, _ := repos.Movements.FindAll(context.Background(), &movementdto.MovementFilters{
		MerchantID: apptest.MerchantID, Page: 1, PageSize: 10,
	})
	if total != 0 || len(entries) != 0 {
		t.Fatalf("movements survived rollback: %+v", entries)
	}
}

func TestConcurrentAdjustmentsDoNotLoseUpdates(t *testing.T) {
	env, loc := setup(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := adjust(env, env.Ctx, "p-10", loc.ID, model.AdjustmentAdd, 1); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := env.Record(t, "p-10", loc.ID).QuantityOnHand; got != 20 {
		t.Fatalf("on_hand = %d, want 20", got)
	}
	if got := len(movements(t, env, "p-10")); got != 20 {
		t.Fatalf("movements = %d, want 20", got)
	}
}

type failingAudit struct{}

func (failingAudit) Append(context.Context, *model.OutboxEvent) error {
	return errors.New("outbox unavailable")
}

func (failingAudit) FetchUnpublished(context.Context, int) ([]model.OutboxEvent, error) {
	return nil, nil
}

func (failingAudit) MarkPublished(context.Context, []string, time.Time) error { return nil }

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
