package risk

import (
	"errors"
	"testing"
	"time"
)

type stubInv struct{ net float64 }

func (s stubInv) NetExposure(instrument string) float64 { return s.net }

type stubClock struct{ now time.Time }

func (s *stubClock) Now() time.Time { return s.now }

func TestLimitChecker(t *testing.T) {
	lc := NewLimitChecker(Limits{SingleMax: 100, DailyMax: 200, NetMax: 150}, stubInv{net: 0})

	if err := lc.PreOrder("SPY", 50); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := lc.PreOrder("SPY", 120); !errors.Is(err, ErrSingleExceed) {
		t.Fatalf("expected single exceed, got %v", err)
	}

	// 50 already used today; another 90 fits, but the 80 after that breaches
	// the 200 daily cap while staying under the single-order cap
	if err := lc.PreOrder("SPY", -90); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := lc.PreOrder("SPY", 80); !errors.Is(err, ErrDailyExceed) {
		t.Fatalf("expected daily exceed, got %v", err)
	}

	lc.inv = stubInv{net: 150}
	if err := lc.PreOrder("SPY", 10); !errors.Is(err, ErrNetExceed) {
		t.Fatalf("expected net exceed, got %v", err)
	}
	// reducing exposure is fine
	if err := lc.PreOrder("SPY", -10); err != nil {
		t.Fatalf("reduce should pass: %v", err)
	}
}

func TestRejectedOrdersDoNotConsumeDailyVolume(t *testing.T) {
	lc := NewLimitChecker(Limits{SingleMax: 100, DailyMax: 100}, nil)

	if err := lc.PreOrder("SPY", 120); !errors.Is(err, ErrSingleExceed) {
		t.Fatalf("expected single exceed, got %v", err)
	}
	if err := lc.PreOrder("SPY", 90); err != nil {
		t.Fatalf("rejected order must not count toward daily: %v", err)
	}
}

func TestDailyVolumeResets(t *testing.T) {
	clk := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	lc := NewLimitChecker(Limits{DailyMax: 100}, nil).WithClock(clk)

	if err := lc.PreOrder("SPY", 90); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := lc.PreOrder("SPY", 20); !errors.Is(err, ErrDailyExceed) {
		t.Fatalf("expected daily exceed, got %v", err)
	}

	clk.now = clk.now.Add(25 * time.Hour)
	if err := lc.PreOrder("SPY", 90); err != nil {
		t.Fatalf("expected reset after a day: %v", err)
	}
}

func TestZeroCapsDisableChecks(t *testing.T) {
	lc := NewLimitChecker(Limits{}, stubInv{net: 1e9})
	if err := lc.PreOrder("SPY", 1e6); err != nil {
		t.Fatalf("zero caps must not reject: %v", err)
	}
}
