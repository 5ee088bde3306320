package numbering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
)

type fakeSequencer struct {
	counters map[string]int64
	err      error
}

func (f *fakeSequencer) NextSequence(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counters[key]++
	return f.counters[key], nil
}

func fixedGenerator(seq Sequencer) *Generator {
	g := NewGenerator(seq)
	g.now = func() time.Time { return time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC) }
	return g
}

func TestNumberFormats(t *testing.T) {
	g := fixedGenerator(&fakeSequencer{counters: map[string]int64{}})
	ctx := context.Background()

	trf, _ := g.TransferNumber(ctx, "m-1")
	if trf != "TRF-20240309-0001" {
		t.Fatalf("transfer number = %s", trf)
	}
	trf2, _ := g.TransferNumber(ctx, "m-1")
	if trf2 != "TRF-20240309-0002" {
		t.Fatalf("second transfer number = %s", trf2)
	}
	po, _ := g.PurchaseOrderNumber(ctx, "m-1")
	if po != "PO-202403-000001" {
		t.Fatalf("po number = %s", po)
	}
	grn, _ := g.ReceiptNumber(ctx, "m-1")
	if grn != "GRN-20240309-0001" {
		t.Fatalf("grn number = %s", grn)
	}
}

func TestCountersArePerMerchant(t *testing.T) {
	g := fixedGenerator(&fakeSequencer{counters: map[string]int64{}})
	ctx := context.Background()

	_, _ = g.TransferNumber(ctx, "m-1")
	other, _ := g.TransferNumber(ctx, "m-2")
	if other != "TRF-20240309-0001" {
		t.Fatalf("other merchant number = %s", other)
	}
}

func TestSequencerFailureIsPersistence(t *testing.T) {
	g := fixedGenerator(&fakeSequencer{err: errors.New("redis down")})
	_, err := g.TransferNumber(context.Background(), "m-1")
	if !errors.Is(err, apperror.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}
