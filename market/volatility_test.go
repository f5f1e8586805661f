package market

import (
	"math"
	"testing"
)

func barsWithReturns(rets []float64) []Bar {
	bars := make([]Bar, len(rets))
	for i, r := range rets {
		bars[i] = Bar{Ts: at(i), LogRet: r}
	}
	return bars
}

func TestSpotVolMA(t *testing.T) {
	bars := barsWithReturns([]float64{0.01, 0.02, 0.01, 0.03})
	vol, err := SpotVol(bars, 2, VolMA)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if len(vol) != 4 {
		t.Fatalf("expected one value per bar")
	}
	if !math.IsNaN(vol[0]) {
		t.Fatalf("first value must be NaN before the window fills")
	}
	want := (0.01*0.01 + 0.02*0.02) / 2 * 100
	if math.Abs(vol[1]-want) > 1e-12 {
		t.Fatalf("vol[1] = %f, want %f", vol[1], want)
	}
}

func TestSpotVolKernelWeightsCenter(t *testing.T) {
	// a single large return contributes more when it sits at the window
	// center than at the edge
	n := 11
	edge := make([]float64, n)
	center := make([]float64, n)
	for i := range edge {
		edge[i] = 0.001
		center[i] = 0.001
	}
	edge[0] = 0.05
	center[n/2] = 0.05

	volEdge, err := SpotVol(barsWithReturns(edge), n, VolKernel)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	volCenter, err := SpotVol(barsWithReturns(center), n, VolKernel)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if !(volCenter[n-1] > volEdge[n-1]) {
		t.Fatalf("center %f should exceed edge %f", volCenter[n-1], volEdge[n-1])
	}
}

func TestSpotVolValidation(t *testing.T) {
	if _, err := SpotVol(nil, 1, VolMA); err == nil {
		t.Fatalf("window 1 must be rejected")
	}
	if _, err := SpotVol(nil, 10, "ewma"); err == nil {
		t.Fatalf("unknown method must be rejected")
	}
}

func TestSpotVolSkipsNaNWindows(t *testing.T) {
	bars := barsWithReturns([]float64{math.NaN(), 0.01, 0.02})
	vol, err := SpotVol(bars, 2, VolMA)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if !math.IsNaN(vol[1]) {
		t.Fatalf("window touching NaN must be NaN")
	}
	if math.IsNaN(vol[2]) {
		t.Fatalf("clean window must produce a value")
	}
}
