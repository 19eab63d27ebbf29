package opc

import "testing"

func TestLimitsWithDefaults(t *testing.T) {
	l := (Limits{}).withDefaults()
	if l != DefaultLimits() {
		t.Fatalf("expected defaults, got %+v", l)
	}

	custom := Limits{MaxParts: 7, MaxPartSize: 1 << 10}.withDefaults()
	if custom.MaxParts != 7 || custom.MaxPartSize != 1<<10 {
		t.Fatalf("custom values lost: %+v", custom)
	}
	if custom.MaxTotalSize != DefaultLimits().MaxTotalSize {
		t.Fatalf("expected default MaxTotalSize, got %d", custom.MaxTotalSize)
	}
}
