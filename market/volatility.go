package market

import (
	"fmt"
	"math"
)

// Spot-volatility estimation methods over resampled bars.
const (
	VolMA     = "MA"
	VolKernel = "kernel"
)

// SpotVol estimates spot volatility from the LogRet column of bars, one
// value per bar, NaN until the window is filled. MA is a plain rolling
// mean of squared returns; kernel weights the window with a Gaussian
// kernel centered on the middle observation (bandwidth = window/6).
// Output is scaled by 100.
func SpotVol(bars []Bar, window int, method string) ([]float64, error) {
	if window < 2 {
		return nil, fmt.Errorf("window must be >= 2, got %d", window)
	}
	switch method {
	case VolMA:
		return spotVolMA(bars, window), nil
	case VolKernel:
		return spotVolKernel(bars, window), nil
	}
	return nil, fmt.Errorf("unknown volatility method %q", method)
}

func spotVolMA(bars []Bar, window int) []float64 {
	out := nanSlice(len(bars))
	for i := window - 1; i < len(bars); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			r := bars[j].LogRet
			if math.IsNaN(r) {
				ok = false
				break
			}
			sum += r * r
		}
		if ok {
			out[i] = sum / float64(window) * 100
		}
	}
	return out
}

func spotVolKernel(bars []Bar, window int) []float64 {
	out := nanSlice(len(bars))
	bandwidth := float64(window) / 6
	for i := window - 1; i < len(bars); i++ {
		lo := i - window + 1
		center := lo + window/2
		sum := 0.0
		ok := true
		for j := lo; j <= i; j++ {
			r := bars[j].LogRet
			if math.IsNaN(r) {
				ok = false
				break
			}
			z := float64(j-center) / bandwidth
			sum += gaussPDF(z) * r * r
		}
		if ok {
			out[i] = sum / float64(window) * 100
		}
	}
	return out
}

func gaussPDF(z float64) float64 {
	return math.Exp(-z*z/2) / math.Sqrt(2*math.Pi)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
