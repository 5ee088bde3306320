package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
)

func TestWithinTxRollsBack(t *testing.T) {
	s := NewStore()
	repo := NewInventoryRepository(s)
	key := model.StockKey{MerchantID: "m-1", ProductID: "p-1", LocationID: "l-1"}
	committed := false

	boom := errors.New("boom")
	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		txm.AfterCommit(ctx, func() { committed = true })
		rec, err := repo.LockRecord(ctx, key)
		if err != nil {
			return err
		}
		rec.QuantityOnHand = 5
		if err := repo.UpdateRecord(ctx, rec); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if committed {
		t.Fatal("after-commit hook ran on rollback")
	}
	if rec, _ := repo.GetRecord(context.Background(), key); rec != nil {
		t.Fatalf("record survived rollback: %+v", rec)
	}

	err = s.WithinTx(context.Background(), func(ctx context.Context) error {
		txm.AfterCommit(ctx, func() { committed = true })
		rec, err := repo.LockRecord(ctx, key)
		if err != nil {
			return err
		}
		rec.QuantityOnHand = 5
		return repo.UpdateRecord(ctx, rec)
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !committed {
		t.Fatal("after-commit hook did not run")
	}
	if rec, _ := repo.GetRecord(context.Background(), key); rec == nil || rec.QuantityOnHand != 5 || rec.Version != 1 {
		t.Fatalf("record = %+v", rec)
	}
}

func TestUpdateRecordVersionGuard(t *testing.T) {
	s := NewStore()
	repo := NewInventoryRepository(s)
	key := model.StockKey{MerchantID: "m-1", ProductID: "p-1", LocationID: "l-1"}

	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		rec, err := repo.LockRecord(ctx, key)
		if err != nil {
			return err
		}
		stale := *rec
		if err := repo.UpdateRecord(ctx, rec); err != nil {
			return err
		}
		return repo.UpdateRecord(ctx, &stale)
	})
	if err == nil {
		t.Fatal("stale write accepted")
	}
}

func TestNextSequenceConcurrent(t *testing.T) {
	s := NewStore()
	seen := make(chan int64, 50)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.NextSequence(context.Background(), "TR-20261019", 0)
			if err != nil {
				t.Error(err)
				return
			}
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int64]bool{}
	for n := range seen {
		unique[n] = true
	}
	if len(unique) != 50 || !unique[1] || !unique[50] {
		t.Fatalf("sequence values not unique: %d", len(unique))
	}
}
