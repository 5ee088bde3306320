package listener

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/platform/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCreated  = "OrderCreated"
	EventOrderRefunded = "OrderRefunded"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener turns order events into ledger adjustments. Failures are
// logged per item and the message is not retried.
type OrderListener struct {
	reader MessageReader
	uc     inventory.UseCase
	logger logger.Logger
}

func NewOrderListener(reader MessageReader, uc inventory.UseCase, log logger.Logger) *OrderListener {
	return &OrderListener{
		reader: reader,
		uc:     uc,
		logger: log,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order event listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			l.Handle(ctx, msg.Value)
		}
	}
}

type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID         string             `json:"id"`
	MerchantID string             `json:"merchant_id"`
	LocationID string             `json:"location_id"`
	StoreID    string             `json:"store_id"` // older producers
	Items      []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Handle processes one raw event and returns how many items were applied.
func (l *OrderListener) Handle(ctx context.Context, value []byte) int {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return 0
	}

	var adjType model.AdjustmentType
	var refType model.ReferenceType
	var reason string
	switch event.EventType {
	case EventOrderCreated:
		adjType, refType, reason = model.AdjustmentRemove, model.ReferenceSale, "Order sale"
	case EventOrderRefunded:
		adjType, refType, reason = model.AdjustmentReturn, model.ReferenceReturn, "Order refund"
	default:
		return 0
	}

	order := event.Payload
	locationID := order.LocationID
	if locationID == "" {
		locationID = order.StoreID
	}
	log := l.logger.With(
		zap.String("event_type", event.EventType),
		zap.String("order_id", order.ID),
	)
	log.Info("Processing order event", zap.Int("items", len(order.Items)))

	ctx = auth.WithUser(ctx, auth.UserContext{
		MerchantID: order.MerchantID,
		UserID:     auth.SystemUser.UserID,
		Role:       auth.SystemUser.Role,
	})

	applied := 0
	for _, item := range order.Items {
		qty := item.Quantity
		if qty <= 0 || qty > float64(inventory.MaxQuantity) || qty != math.Trunc(qty) {
			log.Warn("Skipping order item with invalid quantity",
				zap.String("product_id", item.ProductID),
				zap.Float64("quantity", qty),
			)
			continue
		}

		_, err := l.uc.AdjustInventory(ctx, &dto.AdjustInventoryInput{
			MerchantID:      order.MerchantID,
			ProductID:       item.ProductID,
			LocationID:      locationID,
			AdjustmentType:  string(adjType),
			Quantity:        int64(qty),
			Reason:          reason,
			ReferenceType:   string(refType),
			ReferenceNumber: order.ID,
			UserID:          auth.SystemUser.UserID,
		})
		if err != nil {
			log.Error("Failed to adjust inventory for order item",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			continue
		}
		applied++
	}
	return applied
}
