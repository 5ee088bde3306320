package usecase_test

import (
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/app/apptest"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/location/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

func TestHierarchyQueries(t *testing.T) {
	env := apptest.New(t)
	hq := env.Location(t, "HQ", model.LocationHeadOffice, "")
	region := env.Location(t, "R1", model.LocationRegion, hq.ID)
	district := env.Location(t, "D1", model.LocationDistrict, region.ID)
	store := env.Location(t, "S1", model.LocationStore, district.ID)
	env.Location(t, "W1", model.LocationWarehouse, region.ID)

	ancestors, err := env.Services.Locations.Ancestors(env.Ctx, apptest.MerchantID, store.ID)
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if len(ancestors) != 3 || ancestors[0].ID != district.ID || ancestors[2].ID != hq.ID {
		t.Fatalf("ancestors = %+v", ancestors)
	}

	descendants, err := env.Services.Locations.Descendants(env.Ctx, apptest.MerchantID, region.ID)
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	if len(descendants) != 3 {
		t.Fatalf("descendants = %d, want 3", len(descendants))
	}

	roots := ""
	items, total, err := env.Services.Locations.ListLocations(env.Ctx, &dto.LocationFilters{
		MerchantID: apptest.MerchantID,
		ParentID:   &roots,
	})
	if err != nil || total != 1 || items[0].ID != hq.ID {
		t.Fatalf("roots = %+v err=%v", items, err)
	}
}

func TestCreateValidation(t *testing.T) {
	env := apptest.New(t)
	store := env.Location(t, "S1", model.LocationStore, "")

	_, err := env.Services.Locations.CreateLocation(env.Ctx, &dto.CreateLocationInput{
		MerchantID: apptest.MerchantID, ParentID: &store.ID, Type: string(model.LocationRegion), Code: "R1", Name: "Region",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("region under store: err = %v", err)
	}

	_, err = env.Services.Locations.CreateLocation(env.Ctx, &dto.CreateLocationInput{
		MerchantID: apptest.MerchantID, Type: "kiosk", Code: "K1", Name: "Kiosk",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("unknown type: err = %v", err)
	}

	_, err = env.Services.Locations.CreateLocation(env.Ctx, &dto.CreateLocationInput{
		MerchantID: apptest.MerchantID, Type: string(model.LocationStore), Code: "S1", Name: "Duplicate",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate code: err = %v", err)
	}

	_, err = env.Services.Locations.CreateLocation(apptest.As(auth.RoleManager), &dto.CreateLocationInput{
		MerchantID: apptest.MerchantID, Type: string(model.LocationStore), Code: "S2", Name: "Store 2",
	})
	if !errors.Is(err, apperror.ErrPermissionDenied) {
		t.Fatalf("manager create: err = %v", err)
	}

	if _, err := env.Services.Locations.Require(env.Ctx, apptest.MerchantID, "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("require missing: err = %v", err)
	}
}
