// Package numbering issues the human readable document numbers printed on
// transfers, purchase orders and goods receipts.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
)

// Sequencer hands out a strictly increasing counter per key.
type Sequencer interface {
	NextSequence(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type Generator struct {
	seq Sequencer
	now func() time.Time
}

func NewGenerator(seq Sequencer) *Generator {
	return &Generator{seq: seq, now: time.Now}
}

// TransferNumber returns TRF-YYYYMMDD-NNNN.
func (g *Generator) TransferNumber(ctx context.Context, merchantID string) (string, error) {
	day := g.now().UTC().Format("20060102")
	n, err := g.next(ctx, "seq:transfer:"+merchantID+":"+day, 48*time.Hour)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TRF-%s-%04d", day, n), nil
}

// PurchaseOrderNumber returns PO-YYYYMM-NNNNNN.
func (g *Generator) PurchaseOrderNumber(ctx context.Context, merchantID string) (string, error) {
	month := g.now().UTC().Format("200601")
	n, err := g.next(ctx, "seq:po:"+merchantID+":"+month, 32*24*time.Hour)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PO-%s-%06d", month, n), nil
}

// ReceiptNumber returns GRN-YYYYMMDD-NNNN.
func (g *Generator) ReceiptNumber(ctx context.Context, merchantID string) (string, error) {
	day := g.now().UTC().Format("20060102")
	n, err := g.next(ctx, "seq:grn:"+merchantID+":"+day, 48*time.Hour)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("GRN-%s-%04d", day, n), nil
}

func (g *Generator) next(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := g.seq.NextSequence(ctx, key, ttl)
	if err != nil {
		return 0, apperror.Persistence("numbering.next", err)
	}
	return n, nil
}
