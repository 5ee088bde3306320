package usecase_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/app/apptest"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	movementdto "github.com/fekuna/omnipos-inventory-service/internal/movement/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/transfer/dto"
)

type fixture struct {
	*apptest.Env
	from, to *model.Location
}

func setup(t *testing.T, onHand int64) *fixture {
	t.Helper()
	env := apptest.New(t)
	env.Product("p-10", "1", "2")
	f := &fixture{
		Env:  env,
		from: env.Location(t, "WH1", model.LocationWarehouse, ""),
		to:   env.Location(t, "S2", model.LocationStore, ""),
	}
	env.SetOnHand(t, "p-10", f.from.ID, onHand)
	return f
}

func (f *fixture) create(t *testing.T, qty int64) *model.StockTransfer {
	t.Helper()
	tr, err := f.Services.Transfers.CreateTransfer(f.Ctx, &dto.CreateTransferInput{
		MerchantID:     apptest.MerchantID,
		FromLocationID: f.from.ID,
		ToLocationID:   f.to.ID,
		Items:          []dto.TransferItemInput{{ProductID: "p-10", QuantityRequested: qty}},
		UserID:         apptest.UserID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return tr
}

func (f *fixture) transition(id string) dto.TransitionInput {
	return dto.TransitionInput{MerchantID: apptest.MerchantID, TransferID: id, UserID: apptest.UserID}
}

func (f *fixture) approve(t *testing.T, id string) {
	t.Helper()
	in := f.transition(id)
	if _, err := f.Services.Transfers.ApproveTransfer(f.Ctx, &in); err != nil {
		t.Fatalf("approve: %v", err)
	}
}

func (f *fixture) ship(id string, qty int64) (*model.StockTransfer, error) {
	return f.Services.Transfers.ShipTransfer(f.Ctx, &dto.ShipTransferInput{
		TransitionInput: f.transition(id),
		Items:           []dto.ShipItemInput{{ProductID: "p-10", QuantityShipped: qty}},
	})
}

func (f *fixture) receive(id string, qty int64, reason string) (*model.StockTransfer, error) {
	return f.Services.Transfers.ReceiveTransfer(f.Ctx, &dto.ReceiveTransferInput{
		TransitionInput: f.transition(id),
		Items:           []dto.ReceiveItemInput{{ProductID: "p-10", QuantityReceived: qty, VarianceReason: reason}},
	})
}

func TestTransferLifecycleWithVariance(t *testing.T) {
	f := setup(t, 100)

	tr := f.create(t, 20)
	if tr.Status != model.TransferDraft || !strings.HasPrefix(tr.TransferNumber, "TRF-") {
		t.Fatalf("created = %s %s", tr.Status, tr.TransferNumber)
	}
	f.approve(t, tr.ID)

	shipped, err := f.ship(tr.ID, 20)
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if shipped.Status != model.TransferInTransit || shipped.ShippedAt == nil {
		t.Fatalf("shipped = %+v", shipped)
	}
	src := f.Record(t, "p-10", f.from.ID)
	if src.QuantityOnHand != 80 || src.QuantityInTransit != 20 {
		t.Fatalf("source after ship: on_hand=%d in_transit=%d", src.QuantityOnHand, src.QuantityInTransit)
	}

	if _, err := f.receive(tr.ID, 18, ""); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("receive without variance reason: err = %v", err)
	}
	received, err := f.receive(tr.ID, 18, "two units damaged")
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	item := received.Item("p-10")
	if item.Received() != 18 || item.VarianceReason == nil || *item.VarianceReason != "two units damaged" {
		t.Fatalf("received item = %+v", item)
	}

	src = f.Record(t, "p-10", f.from.ID)
	dst := f.Record(t, "p-10", f.to.ID)
	if src.QuantityOnHand != 80 || src.QuantityInTransit != 2 {
		t.Fatalf("source after receive: on_hand=%d in_transit=%d", src.QuantityOnHand, src.QuantityInTransit)
	}
	if dst.QuantityOnHand != 18 {
		t.Fatalf("destination on_hand = %d, want 18", dst.QuantityOnHand)
	}

	entries, _, err := f.Services.Movements.Query(f.Ctx, &movementdto.MovementFilters{
		MerchantID: apptest.MerchantID,
		ProductID:  "p-10",
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var out, in int
	for _, e := range entries {
		switch e.AdjustmentType {
		case model.MovementTransferOut:
			out++
			if e.QuantityChange != -20 || e.ReferenceNumber != tr.TransferNumber {
				t.Fatalf("transfer_out entry = %+v", e)
			}
		case model.MovementTransferIn:
			in++
			if e.QuantityChange != 18 || e.LocationID != f.to.ID {
				t.Fatalf("transfer_in entry = %+v", e)
			}
		}
	}
	if out != 1 || in != 1 {
		t.Fatalf("transfer movements out=%d in=%d", out, in)
	}

	var types []string
	for _, e := range f.Outbox(t) {
		if e.AggregateID == tr.ID {
			types = append(types, e.EventType)
		}
	}
	want := "transfer.created,transfer.approved,transfer.shipped,transfer.received"
	if got := strings.Join(types, ","); got != want {
		t.Fatalf("audit trail = %s, want %s", got, want)
	}
}

func TestTransferQuantityBounds(t *testing.T) {
	f := setup(t, 100)
	tr := f.create(t, 20)
	f.approve(t, tr.ID)

	if _, err := f.ship(tr.ID, 21); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("ship above requested: err = %v", err)
	}
	if _, err := f.ship(tr.ID, 0); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("ship nothing: err = %v", err)
	}
	if _, err := f.ship(tr.ID, 10); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if _, err := f.receive(tr.ID, 11, "extra"); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("receive above shipped: err = %v", err)
	}
}

func TestShipFailsAtomicallyOnShortStock(t *testing.T) {
	f := setup(t, 5)
	tr := f.create(t, 20)
	f.approve(t, tr.ID)

	if _, err := f.ship(tr.ID, 20); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("ship: err = %v, want insufficient stock", err)
	}
	got, err := f.Services.Transfers.GetTransfer(f.Ctx, apptest.MerchantID, tr.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.TransferApproved || got.Item("p-10").QuantityShipped != nil {
		t.Fatalf("transfer changed after failed ship: %+v", got)
	}
	if rec := f.Record(t, "p-10", f.from.ID); rec.QuantityOnHand != 5 || rec.QuantityInTransit != 0 {
		t.Fatalf("source changed after failed ship: %+v", rec)
	}
}

func TestCancelInTransitReturnsStock(t *testing.T) {
	f := setup(t, 100)
	tr := f.create(t, 20)
	f.approve(t, tr.ID)
	if _, err := f.ship(tr.ID, 20); err != nil {
		t.Fatalf("ship: %v", err)
	}

	cancelled, err := f.Services.Transfers.CancelTransfer(f.Ctx, &dto.CancelTransferInput{
		TransitionInput: f.transition(tr.ID),
		Reason:          "truck broke down",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.TransferCancelled || cancelled.CancelReason == nil {
		t.Fatalf("cancelled = %+v", cancelled)
	}
	if rec := f.Record(t, "p-10", f.from.ID); rec.QuantityOnHand != 100 || rec.QuantityInTransit != 0 {
		t.Fatalf("source after cancel: on_hand=%d in_transit=%d", rec.QuantityOnHand, rec.QuantityInTransit)
	}

	if _, err := f.receive(tr.ID, 20, ""); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("receive after cancel: err = %v", err)
	}
}

func TestIllegalTransitions(t *testing.T) {
	f := setup(t, 100)
	tr := f.create(t, 5)

	if _, err := f.ship(tr.ID, 5); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("ship draft: err = %v", err)
	}
	if _, err := f.receive(tr.ID, 5, ""); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("receive draft: err = %v", err)
	}

	in := f.transition(tr.ID)
	staff := apptest.As(auth.RoleStaff)
	if _, err := f.Services.Transfers.ApproveTransfer(staff, &in); !errors.Is(err, apperror.ErrPermissionDenied) {
		t.Fatalf("staff approve: err = %v", err)
	}

	missing := f.transition("missing")
	if _, err := f.Services.Transfers.ApproveTransfer(f.Ctx, &missing); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("approve missing: err = %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := setup(t, 0)

	cases := map[string]*dto.CreateTransferInput{
		"same location": {
			MerchantID: apptest.MerchantID, FromLocationID: f.from.ID, ToLocationID: f.from.ID,
			Items: []dto.TransferItemInput{{ProductID: "p-10", QuantityRequested: 1}},
		},
		"no items": {
			MerchantID: apptest.MerchantID, FromLocationID: f.from.ID, ToLocationID: f.to.ID,
		},
		"zero quantity": {
			MerchantID: apptest.MerchantID, FromLocationID: f.from.ID, ToLocationID: f.to.ID,
			Items: []dto.TransferItemInput{{ProductID: "p-10"}},
		},
		"duplicate product": {
			MerchantID: apptest.MerchantID, FromLocationID: f.from.ID, ToLocationID: f.to.ID,
			Items: []dto.TransferItemInput{{ProductID: "p-10", QuantityRequested: 1}, {ProductID: "p-10", QuantityRequested: 2}},
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.Services.Transfers.CreateTransfer(f.Ctx, in); !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}

	_, err := f.Services.Transfers.CreateTransfer(f.Ctx, &dto.CreateTransferInput{
		MerchantID: apptest.MerchantID, FromLocationID: f.from.ID, ToLocationID: f.to.ID,
		Items: []dto.TransferItemInput{{ProductID: "p-404", QuantityRequested: 1}},
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown product: err = %v", err)
	}
}

func TestConcurrentShipOnlyOneWins(t *testing.T) {
	f := setup(t, 100)
	tr := f.create(t, 20)
	f.approve(t, tr.ID)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ship(tr.ID, 20)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		}
	}
	if ok != 1 {
		t.Fatalf("successful shipments = %d, want 1 (%v)", ok, errs)
	}
	if rec := f.Record(t, "p-10", f.from.ID); rec.QuantityOnHand != 80 || rec.QuantityInTransit != 20 {
		t.Fatalf("source = on_hand %d in_transit %d", rec.QuantityOnHand, rec.QuantityInTransit)
	}
}

func TestListTransfers(t *testing.T) {
	f := setup(t, 100)
	first := f.create(t, 1)
	f.create(t, 2)
	f.approve(t, first.ID)

	items, total, err := f.Services.Transfers.ListTransfers(f.Ctx, &dto.TransferFilters{
		MerchantID: apptest.MerchantID,
		Status:     string(model.TransferApproved),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || items[0].ID != first.ID {
		t.Fatalf("approved transfers = %+v", items)
	}
	if _, _, err := f.Services.Transfers.ListTransfers(f.Ctx, &dto.TransferFilters{Status: "lost"}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("unknown status: err = %v", err)
	}
}
