package common

import (
	"context"
	"testing"
)

func TestCorrelationID_RoundTrip(t *testing.T) {
	if _, ok := GetCorrelationID(context.Background()); ok {
		t.Error("expected no correlation ID on a bare context")
	}
	ctx := WithCorrelationID(context.Background(), "abc")
	if id, ok := GetCorrelationID(ctx); !ok || id != "abc" {
		t.Errorf("expected abc, got %q (ok=%v)", id, ok)
	}
	if _, ok := GetCorrelationID(WithCorrelationID(context.Background(), "")); ok {
		t.Error("expected empty ID to be treated as absent")
	}
}

func TestNewCorrelationID_Unique(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a, b)
	}
}
