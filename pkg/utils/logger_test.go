package utils

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestComponentLoggerTagsEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ComponentLogger(base, "indexer").Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "indexer" {
		t.Errorf("component field = %v, want indexer", fields["component"])
	}
}

func TestComponentLoggerNilBase(t *testing.T) {
	logger := ComponentLogger(nil, "search")
	if logger == nil {
		t.Fatal("expected non-nil logger for nil base")
	}
	logger.Info("must not panic")
}
