package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/audit/relay"
	"github.com/fekuna/omnipos-inventory-service/internal/audit/sink"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/storage/memory"
	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs   []kafka.Message
	failAt int
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.failAt > 0 && len(w.msgs)+1 == w.failAt {
		return errors.New("broker unavailable")
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type fixedLocker struct {
	acquired bool
	released int
}

func (l *fixedLocker) AcquireLock(context.Context, string, string, time.Duration) (bool, error) {
	return l.acquired, nil
}

func (l *fixedLocker) ReleaseLock(context.Context, string, string) error {
	l.released++
	return nil
}

func seed(t *testing.T, repo *memory.AuditRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Append(context.Background(), &model.OutboxEvent{
			ID:            fmt.Sprintf("evt-%d", i),
			MerchantID:    "m-1",
			AggregateType: "stock_transfer",
			AggregateID:   fmt.Sprintf("tr-%d", i),
			EventType:     "transfer.created",
			Payload:       []byte(`{"ok":true}`),
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
}

func TestDrainPublishesInOrder(t *testing.T) {
	repo := memory.NewAuditRepository(memory.NewStore())
	seed(t, repo, 3)
	w := &recordingWriter{}
	r := relay.NewRelay(repo, sink.NewKafkaSink(w), nil, logger.NewNop(), time.Second, 10)

	n, err := r.Drain(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("drain = %d, %v", n, err)
	}
	var env sink.Envelope
	if err := json.Unmarshal(w.msgs[0].Value, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.ID != "evt-0" || string(w.msgs[0].Key) != "tr-0" {
		t.Fatalf("first message = %+v", env)
	}

	n, err = r.Drain(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("second drain = %d, %v", n, err)
	}
}

func TestDrainStopsAtFirstFailure(t *testing.T) {
	repo := memory.NewAuditRepository(memory.NewStore())
	seed(t, repo, 4)
	w := &recordingWriter{failAt: 3}
	r := relay.NewRelay(repo, sink.NewKafkaSink(w), nil, logger.NewNop(), time.Second, 10)

	n, err := r.Drain(context.Background())
	if err == nil || n != 2 {
		t.Fatalf("drain = %d, %v", n, err)
	}

	pending, err := repo.FetchUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "evt-2" {
		t.Fatalf("pending = %+v", pending)
	}

	w.failAt = 0
	if n, err := r.Drain(context.Background()); err != nil || n != 2 {
		t.Fatalf("retry drain = %d, %v", n, err)
	}
}

func TestDrainSkipsWhenLockHeld(t *testing.T) {
	repo := memory.NewAuditRepository(memory.NewStore())
	seed(t, repo, 2)
	w := &recordingWriter{}
	locker := &fixedLocker{}
	r := relay.NewRelay(repo, sink.NewKafkaSink(w), locker, logger.NewNop(), time.Second, 10)

	if n, err := r.Drain(context.Background()); err != nil || n != 0 {
		t.Fatalf("drain = %d, %v", n, err)
	}
	if len(w.msgs) != 0 || locker.released != 0 {
		t.Fatalf("published %d, released %d", len(w.msgs), locker.released)
	}

	locker.acquired = true
	if n, err := r.Drain(context.Background()); err != nil || n != 2 {
		t.Fatalf("drain with lock = %d, %v", n, err)
	}
	if locker.released != 1 {
		t.Fatalf("released = %d, want 1", locker.released)
	}
}

// blockingWriter holds its first write until release is closed.
type blockingWriter struct {
	blocked atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (w *blockingWriter) WriteMessages(context.Context, ...kafka.Message) error {
	if w.blocked.CompareAndSwap(false, true) {
		w.entered <- struct{}{}
		<-w.release
	}
	return nil
}

func TestStartWaitsForInFlightDrain(t *testing.T) {
	repo := memory.NewAuditRepository(memory.NewStore())
	seed(t, repo, 1)
	w := &blockingWriter{entered: make(chan struct{}, 1), release: make(chan struct{})}
	r := relay.NewRelay(repo, sink.NewKafkaSink(w), nil, logger.NewNop(), 10*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Start(ctx)
	}()

	select {
	case <-w.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("relay never published")
	}
	cancel()

	select {
	case <-done:
		t.Fatal("Start returned while a publish was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(w.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after the publish finished")
	}
}
