// Package memory is an in-process implementation of every repository in the
// service. It backs the test suites and STORAGE_DRIVER=memory deployments.
//
// A unit of work holds the store's write lock for its whole duration and
// restores a snapshot when it fails, which gives the same all-or-nothing
// behavior as a SQL transaction at the cost of serializing writers.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/txm"
)

type data struct {
	products  map[string]model.Product
	suppliers map[string]model.Supplier
	locations map[string]model.Location
	records   map[model.StockKey]model.InventoryRecord
	movements []model.MovementEntry
	outbox    []model.OutboxEvent
	transfers map[string]model.StockTransfer
	orders    map[string]model.PurchaseOrder
	receipts  map[string]model.GoodsReceipt
	rules     map[string]model.ReorderRule
	sequences map[string]int64
}

func newData() *data {
	return &data{
		products:  map[string]model.Product{},
		suppliers: map[string]model.Supplier{},
		locations: map[string]model.Location{},
		records:   map[model.StockKey]model.InventoryRecord{},
		transfers: map[string]model.StockTransfer{},
		orders:    map[string]model.PurchaseOrder{},
		receipts:  map[string]model.GoodsReceipt{},
		rules:     map[string]model.ReorderRule{},
		sequences: map[string]int64{},
	}
}

func (d *data) clone() *data {
	c := &data{
		products:  copyMap(d.products),
		suppliers: copyMap(d.suppliers),
		locations: copyMap(d.locations),
		records:   copyMap(d.records),
		movements: append([]model.MovementEntry(nil), d.movements...),
		outbox:    append([]model.OutboxEvent(nil), d.outbox...),
		transfers: make(map[string]model.StockTransfer, len(d.transfers)),
		orders:    make(map[string]model.PurchaseOrder, len(d.orders)),
		receipts:  make(map[string]model.GoodsReceipt, len(d.receipts)),
		rules:     copyMap(d.rules),
		sequences: copyMap(d.sequences),
	}
	for k, v := range d.transfers {
		c.transfers[k] = cloneTransfer(v)
	}
	for k, v := range d.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range d.receipts {
		c.receipts[k] = cloneReceipt(v)
	}
	return c
}

type Store struct {
	mu   sync.RWMutex
	data *data
}

func NewStore() *Store {
	return &Store{data: newData()}
}

// WithinTx implements txm.Manager. Nested calls join the outer unit of work.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txm.Active(ctx) {
		return fn(ctx)
	}
	state, err := s.run(ctx, fn)
	if err != nil {
		return err
	}
	state.Committed()
	return nil
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (*txm.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txCtx, state := txm.Enter(ctx, nil)

	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		s.data = snapshot
		return nil, err
	}
	return state, nil
}

// NextSequence implements numbering.Sequencer. Counters never expire.
func (s *Store) NextSequence(ctx context.Context, key string, _ time.Duration) (int64, error) {
	var n int64
	err := s.write(ctx, func(d *data) error {
		d.sequences[key]++
		n = d.sequences[key]
		return nil
	})
	return n, err
}

// PutProduct seeds the read-only catalog.
func (s *Store) PutProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[tenantKey(p.MerchantID, p.ID)] = p
}

func (s *Store) PutSupplier(sup model.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.suppliers[tenantKey(sup.MerchantID, sup.ID)] = sup
}

// read runs fn under the read lock unless ctx already owns the write lock.
func (s *Store) read(ctx context.Context, fn func(d *data)) {
	if txm.Active(ctx) {
		fn(s.data)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	if txm.Active(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func tenantKey(merchantID, id string) string {
	return merchantID + "/" + id
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneTransfer(t model.StockTransfer) model.StockTransfer {
	t.Items = append([]model.StockTransferItem(nil), t.Items...)
	return t
}

func cloneOrder(po model.PurchaseOrder) model.PurchaseOrder {
	po.Items = append([]model.PurchaseOrderItem(nil), po.Items...)
	return po
}

func cloneReceipt(r model.GoodsReceipt) model.GoodsReceipt {
	r.Items = append([]model.GoodsReceiptItem(nil), r.Items...)
	return r
}
