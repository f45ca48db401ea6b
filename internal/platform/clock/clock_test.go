package clock

import (
	"testing"
	"time"
)

func TestSystemClockIsMonotonic(t *testing.T) {
	t.Parallel()
	clk := SystemClock{}
	a := clk.Now()
	b := clk.Now()
	if b.Sub(a) < 0 {
		t.Fatalf("expected non-negative difference, got %v", b.Sub(a))
	}
}

func TestExternalIgnoresBackwardSteps(t *testing.T) {
	t.Parallel()
	ext := NewExternal()
	if ext.Synced() {
		t.Fatalf("fresh clock must not be synced")
	}
	if !ext.Now().Equal(Epoch) {
		t.Fatalf("fresh clock must read the epoch, got %v", ext.Now())
	}
	base := time.Unix(1080, 665_000_000)
	ext.Set(base)
	ext.Set(base.Add(-time.Second))
	if got := ext.Now(); !got.Equal(base) {
		t.Fatalf("expected %v after backward step, got %v", base, got)
	}
	ext.Set(base.Add(250 * time.Millisecond))
	if got := ext.Now().Sub(base); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms advance, got %v", got)
	}
	if !ext.Synced() {
		t.Fatalf("clock should be synced after Set")
	}
}
