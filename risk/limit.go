// Package risk gates hedge orders before they reach the venue: per-order
// size, rolling daily volume, and projected net exposure.
package risk

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSingleExceed = errors.New("single order exceed")
	ErrDailyExceed  = errors.New("daily volume exceed")
	ErrNetExceed    = errors.New("net exposure exceed")
)

// Limits are absolute caps in units; a zero cap disables that check.
type Limits struct {
	SingleMax float64
	DailyMax  float64
	NetMax    float64
}

// Inventory supplies the desk's current signed position per instrument.
type Inventory interface {
	NetExposure(instrument string) float64
}

// Clock abstracts time for the daily reset, injectable in tests.
type Clock interface {
	Now() time.Time
}

type utcClock struct{}

func (utcClock) Now() time.Time { return time.Now().UTC() }

// NowUTC is the default clock.
var NowUTC Clock = utcClock{}

// LimitChecker accumulates daily traded volume per instrument and checks
// each order against the configured caps. Not safe for concurrent use;
// the desk runner calls it from a single goroutine.
type LimitChecker struct {
	cfg      Limits
	inv      Inventory
	dailyVol map[string]float64
	dayReset time.Time
	clock    Clock
}

func NewLimitChecker(cfg Limits, inv Inventory) *LimitChecker {
	return &LimitChecker{
		cfg:      cfg,
		inv:      inv,
		dailyVol: make(map[string]float64),
		dayReset: NowUTC.Now(),
		clock:    NowUTC,
	}
}

// WithClock replaces the clock; returns the checker for chaining in tests.
func (lc *LimitChecker) WithClock(c Clock) *LimitChecker {
	lc.clock = c
	lc.dayReset = c.Now()
	return lc
}

// PreOrder validates an order of deltaQty units (positive buy, negative
// sell) before submission. Accepted volume counts toward the daily cap.
func (lc *LimitChecker) PreOrder(instrument string, deltaQty float64) error {
	now := lc.clock.Now()
	if now.Sub(lc.dayReset) > 24*time.Hour {
		lc.dailyVol = make(map[string]float64)
		lc.dayReset = now
	}

	absQty := deltaQty
	if absQty < 0 {
		absQty = -absQty
	}
	if lc.cfg.SingleMax > 0 && absQty > lc.cfg.SingleMax {
		return fmt.Errorf("%w: %.2f > single %.2f", ErrSingleExceed, absQty, lc.cfg.SingleMax)
	}
	if lc.cfg.DailyMax > 0 && lc.dailyVol[instrument]+absQty > lc.cfg.DailyMax {
		return fmt.Errorf("%w: %.2f > daily %.2f", ErrDailyExceed, lc.dailyVol[instrument]+absQty, lc.cfg.DailyMax)
	}
	if lc.inv != nil && lc.cfg.NetMax > 0 {
		net := lc.inv.NetExposure(instrument) + deltaQty
		if net < 0 {
			net = -net
		}
		if net > lc.cfg.NetMax {
			return fmt.Errorf("%w: %.2f > net %.2f", ErrNetExceed, net, lc.cfg.NetMax)
		}
	}
	lc.dailyVol[instrument] += absQty
	return nil
}
