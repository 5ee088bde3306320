package sink

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/segmentio/kafka-go"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return nil
}

type captureIndexer struct {
	index string
	id    string
	doc   any
}

func (c *captureIndexer) Index(_ context.Context, index, id string, doc any) error {
	c.index, c.id, c.doc = index, id, doc
	return nil
}

func sampleEvent() *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:            "evt-1",
		MerchantID:    "m-1",
		AggregateType: "inventory_movement",
		AggregateID:   "mov-1",
		EventType:     "inventory.adjusted",
		Payload:       []byte(`{"quantity_change":-10}`),
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaSinkKeysByAggregate(t *testing.T) {
	w := &captureWriter{}
	if err := NewKafkaSink(w).Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "mov-1" {
		t.Fatalf("key = %s", msg.Key)
	}

	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.EventType != "inventory.adjusted" || string(env.Payload) != `{"quantity_change":-10}` {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestElasticSinkIndexesByEventID(t *testing.T) {
	idx := &captureIndexer{}
	if err := NewElasticSink(idx, "inventory-audit").Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if idx.index != "inventory-audit" || idx.id != "evt-1" {
		t.Fatalf("indexed into %s/%s", idx.index, idx.id)
	}
	if env, ok := idx.doc.(Envelope); !ok || env.AggregateID != "mov-1" {
		t.Fatalf("unexpected doc %#v", idx.doc)
	}
}
