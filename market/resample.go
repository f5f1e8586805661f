// Package market holds the raw tick-data utilities: calendar-time
// resampling with VWAP mids and spot-volatility estimation. Unrelated to
// the bookkeeping core; consumed when preparing price tables from high
// frequency data.
package market

import (
	"math"
	"sort"
	"time"
)

// Tick is one raw quote/trade observation.
type Tick struct {
	Ts        time.Time
	Bid       float64
	BidVolume float64
	Ask       float64
	AskVolume float64
	Price     float64
	Volume    float64
}

// Bar is one resampled bin. Mid is the volume-weighted quote price of the
// bin; LogRet is the difference of squared log mids between consecutive
// bars (NaN on the first bar).
type Bar struct {
	Ts        time.Time
	Bid       float64
	Ask       float64
	BidVolume float64
	AskVolume float64
	Price     float64
	Volume    float64
	Mid       float64
	LogRet    float64
}

// VWAP is the volume-weighted quote price over ticks, NaN when the bin has
// no volume.
func VWAP(ticks []Tick) float64 {
	var num, vol float64
	for _, t := range ticks {
		vol += t.AskVolume + t.BidVolume
		num += t.Ask*t.AskVolume + t.Bid*t.BidVolume
	}
	if vol == 0 {
		return math.NaN()
	}
	return num / vol
}

// Resample bins ticks on calendar time. Each bar carries the bin's VWAP
// mid and the last observed quote fields; bins with no ticks (or zero/NaN
// values) are filled by previous-tick interpolation. Bars span the range
// from the first to the last tick with no gaps.
func Resample(ticks []Tick, period time.Duration) []Bar {
	if len(ticks) == 0 || period <= 0 {
		return nil
	}
	sorted := make([]Tick, len(ticks))
	copy(sorted, ticks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ts.Before(sorted[j].Ts) })

	start := sorted[0].Ts.Truncate(period)
	end := sorted[len(sorted)-1].Ts.Truncate(period)
	n := int(end.Sub(start)/period) + 1

	bars := make([]Bar, 0, n)
	idx := 0
	for i := 0; i < n; i++ {
		binStart := start.Add(time.Duration(i) * period)
		binEnd := binStart.Add(period)

		lo := idx
		for idx < len(sorted) && sorted[idx].Ts.Before(binEnd) {
			idx++
		}
		bin := sorted[lo:idx]

		bar := Bar{Ts: binStart, Mid: VWAP(bin), LogRet: math.NaN()}
		if len(bin) > 0 {
			last := bin[len(bin)-1]
			bar.Bid = last.Bid
			bar.Ask = last.Ask
			bar.BidVolume = last.BidVolume
			bar.AskVolume = last.AskVolume
			bar.Price = last.Price
			bar.Volume = last.Volume
		}
		bars = append(bars, bar)
	}

	// previous-tick interpolation: zero or NaN carries the prior value
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1]
		fill(&bars[i].Bid, prev.Bid)
		fill(&bars[i].Ask, prev.Ask)
		fill(&bars[i].BidVolume, prev.BidVolume)
		fill(&bars[i].AskVolume, prev.AskVolume)
		fill(&bars[i].Price, prev.Price)
		fill(&bars[i].Volume, prev.Volume)
		fill(&bars[i].Mid, prev.Mid)
	}

	for i := 1; i < len(bars); i++ {
		cur, prev := bars[i].Mid, bars[i-1].Mid
		if cur > 0 && prev > 0 {
			lc, lp := math.Log(cur), math.Log(prev)
			bars[i].LogRet = lc*lc - lp*lp
		}
	}
	return bars
}

func fill(v *float64, prev float64) {
	if *v == 0 || math.IsNaN(*v) {
		*v = prev
	}
}
