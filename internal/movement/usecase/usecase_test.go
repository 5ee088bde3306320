package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/app/apptest"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	invdto "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
)

func TestHistoryNewestFirst(t *testing.T) {
	env := apptest.New(t)
	env.Product("p-10", "1", "2")
	loc := env.Location(t, "S1", model.LocationStore, "")

	for _, typ := range []model.AdjustmentType{model.AdjustmentAdd, model.AdjustmentDamage, model.AdjustmentReturn} {
		_, err := env.Services.Inventory.AdjustInventory(env.Ctx, &invdto.AdjustInventoryInput{
			MerchantID:     apptest.MerchantID,
			ProductID:      "p-10",
			LocationID:     loc.ID,
			AdjustmentType: string(typ),
			Quantity:       2,
		})
		if err != nil {
			t.Fatalf("adjust %s: %v", typ, err)
		}
	}

	items, total, err := env.Services.Movements.History(env.Ctx, apptest.MerchantID, "p-10", 1, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("total=%d page=%d", total, len(items))
	}
	if items[0].AdjustmentType != model.AdjustmentReturn || items[1].AdjustmentType != model.AdjustmentDamage {
		t.Fatalf("order = %s, %s", items[0].AdjustmentType, items[1].AdjustmentType)
	}

	damage, total, err := env.Services.Movements.Query(env.Ctx, &dto.MovementFilters{
		MerchantID:     apptest.MerchantID,
		AdjustmentType: string(model.AdjustmentDamage),
	})
	if err != nil || total != 1 || damage[0].QuantityChange != -2 {
		t.Fatalf("damage = %+v err=%v", damage, err)
	}

	var emitted int
	for _, e := range env.Outbox(t) {
		if e.AggregateType == "inventory_movement" {
			emitted++
		}
	}
	if emitted != 3 {
		t.Fatalf("movement audit events = %d, want 3", emitted)
	}
}

func TestQueryValidation(t *testing.T) {
	env := apptest.New(t)
	start := time.Now()
	end := start.Add(-time.Hour)

	cases := map[string]*dto.MovementFilters{
		"no merchant":   {},
		"reverse range": {MerchantID: apptest.MerchantID, StartDate: &start, EndDate: &end},
		"unknown type":  {MerchantID: apptest.MerchantID, AdjustmentType: "shrink"},
	}
	for name, f := range cases {
		if _, _, err := env.Services.Movements.Query(env.Ctx, f); !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
	if _, _, err := env.Services.Movements.History(env.Ctx, apptest.MerchantID, "", 1, 10); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("history without product: err = %v", err)
	}
}
