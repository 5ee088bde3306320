package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With(zap.String("merchant_id", "m-1"))

	log.Debug("dropped")
	log.Info("adjusted", zap.Int64("delta", -10))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["merchant_id"] != "m-1" || ctx["delta"] != int64(-10) {
		t.Fatalf("unexpected fields: %v", ctx)
	}
}

func TestNewZapLoggerFallsBackToInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(&ZapLoggerConfig{Level: "not-a-level", Encoding: "json"}, core)
	log.Info("hello")
	if logs.Len() != 1 {
		t.Fatalf("expected teed core to receive the entry, got %d", logs.Len())
	}
}
