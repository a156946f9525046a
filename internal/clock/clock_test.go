package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clk := RealClock{}
	before := time.Now()
	now := clk.Now()
	if now.Before(before) || now.After(time.Now()) {
		t.Errorf("RealClock.Now returned unexpected time: %v", now)
	}
}

func TestMockClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC)
	clk := NewMockClock(start)

	if got := clk.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	clk.Advance(90 * time.Second)
	if got, want := clk.Now(), start.Add(90*time.Second); !got.Equal(want) {
		t.Errorf("after Advance Now() = %v, want %v", got, want)
	}

	later := start.Add(24 * time.Hour)
	clk.Set(later)
	if got := clk.Now(); !got.Equal(later) {
		t.Errorf("after Set Now() = %v, want %v", got, later)
	}
}
