package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// OutboxEvent is an audit event written in the same unit of work as the
// change it describes and drained to the audit sink afterwards.
type OutboxEvent struct {
	ID            string         `db:"id" json:"id"`
	MerchantID    string         `db:"merchant_id" json:"merchant_id"`
	AggregateType string         `db:"aggregate_type" json:"aggregate_type"`
	AggregateID   string         `db:"aggregate_id" json:"aggregate_id"`
	EventType     string         `db:"event_type" json:"event_type"`
	Payload       types.JSONText `db:"payload" json:"payload"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	PublishedAt   *time.Time     `db:"published_at" json:"published_at"`
}
