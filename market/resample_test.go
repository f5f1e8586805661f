package market

import (
	"math"
	"testing"
	"time"
)

func at(sec int) time.Time {
	return time.Date(2024, 3, 1, 9, 0, sec, 0, time.UTC)
}

func TestVWAP(t *testing.T) {
	ticks := []Tick{
		{Ask: 101, AskVolume: 2, Bid: 99, BidVolume: 2},
		{Ask: 102, AskVolume: 1, Bid: 100, BidVolume: 1},
	}
	got := VWAP(ticks)
	want := (101*2 + 99*2 + 102 + 100) / 6.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("vwap = %f, want %f", got, want)
	}
}

func TestVWAPNoVolumeIsNaN(t *testing.T) {
	if !math.IsNaN(VWAP([]Tick{{Ask: 101, Bid: 99}})) {
		t.Fatalf("zero-volume bin must be NaN")
	}
}

func TestResampleBinsAndFills(t *testing.T) {
	ticks := []Tick{
		{Ts: at(0), Bid: 99, BidVolume: 1, Ask: 101, AskVolume: 1, Price: 100, Volume: 5},
		{Ts: at(3), Bid: 99.5, BidVolume: 1, Ask: 100.5, AskVolume: 1, Price: 100.2, Volume: 2},
		// 5-10s empty: must be previous-tick filled
		{Ts: at(12), Bid: 100, BidVolume: 2, Ask: 102, AskVolume: 2, Price: 101, Volume: 1},
	}
	bars := Resample(ticks, 5*time.Second)
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}

	if bars[0].Bid != 99.5 || bars[0].Price != 100.2 {
		t.Fatalf("bar 0 must carry last tick of bin: %+v", bars[0])
	}
	if bars[1].Bid != 99.5 || bars[1].Mid != bars[0].Mid {
		t.Fatalf("empty bin must be previous-tick filled: %+v", bars[1])
	}
	if bars[2].Ask != 102 {
		t.Fatalf("bar 2 wrong: %+v", bars[2])
	}

	if !math.IsNaN(bars[0].LogRet) {
		t.Fatalf("first bar has no return")
	}
	if bars[1].LogRet != 0 {
		t.Fatalf("filled bin has zero return, got %f", bars[1].LogRet)
	}
	if bars[2].LogRet == 0 || math.IsNaN(bars[2].LogRet) {
		t.Fatalf("bar 2 must have a return, got %f", bars[2].LogRet)
	}
}

func TestResampleSortsInput(t *testing.T) {
	ticks := []Tick{
		{Ts: at(12), Bid: 100, BidVolume: 1, Ask: 102, AskVolume: 1},
		{Ts: at(0), Bid: 99, BidVolume: 1, Ask: 101, AskVolume: 1},
	}
	bars := Resample(ticks, 5*time.Second)
	if len(bars) != 3 || bars[0].Bid != 99 {
		t.Fatalf("input must be sorted before binning: %+v", bars)
	}
}

func TestResampleEmpty(t *testing.T) {
	if Resample(nil, time.Second) != nil {
		t.Fatalf("no ticks, no bars")
	}
	if Resample([]Tick{{Ts: at(0)}}, 0) != nil {
		t.Fatalf("non-positive period, no bars")
	}
}
