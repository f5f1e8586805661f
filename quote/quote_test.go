package quote

import (
	"math"
	"testing"
)

func TestFixed(t *testing.T) {
	bid, offer := Fixed(100, 0.02)
	if bid != 99 || offer != 101 {
		t.Fatalf("got (%f, %f), want (99, 101)", bid, offer)
	}
	if bid >= offer {
		t.Fatalf("bid must be below offer")
	}
}

func TestSkewedBidBelowOffer(t *testing.T) {
	for _, inv := range []float64{-1e9, -1000, 0, 1000, 1e9} {
		bid, offer := Skewed(100, 0.02, inv, 10000, 0.5, 0.02)
		if bid >= offer {
			t.Fatalf("inv %f: bid %f >= offer %f", inv, bid, offer)
		}
		if offer-bid-100*0.02 > 1e-9 {
			t.Fatalf("inv %f: spread widened by skew", inv)
		}
	}
}

func TestSkewIsBounded(t *testing.T) {
	price, maxSkew := 100.0, 0.02

	// below tanh's float64 saturation point the bound is strict
	for _, inv := range []float64{-1e5, -5e4, 5e4, 1e5} {
		bid, offer := Skewed(price, 0.02, inv, 10000, 1.0, maxSkew)
		center := (bid + offer) / 2
		if math.Abs(center-price) >= price*maxSkew {
			t.Fatalf("inv %f: |skew| %f not strictly below %f", inv, math.Abs(center-price), price*maxSkew)
		}
	}

	// extreme inventories saturate tanh to exactly +-1.0 in float64; the
	// skew caps at the bound and the quote stays two-sided
	for _, inv := range []float64{-1e12, 1e12} {
		bid, offer := Skewed(price, 0.02, inv, 10000, 1.0, maxSkew)
		center := (bid + offer) / 2
		if math.Abs(center-price) > price*maxSkew {
			t.Fatalf("inv %f: |skew| %f above cap %f", inv, math.Abs(center-price), price*maxSkew)
		}
		if bid >= offer {
			t.Fatalf("inv %f: bid %f >= offer %f", inv, bid, offer)
		}
	}
}

func TestSkewMonotonicInInventory(t *testing.T) {
	prev := math.Inf(-1)
	for inv := -50000.0; inv <= 50000.0; inv += 10000 {
		bid, offer := Skewed(100, 0.02, inv, 10000, 0.5, 0.02)
		center := (bid + offer) / 2
		if center <= prev {
			t.Fatalf("center not monotonic at inv %f", inv)
		}
		prev = center
	}
}

func TestZeroInventoryMatchesFixed(t *testing.T) {
	fb, fo := Fixed(100, 0.02)
	sb, so := Skewed(100, 0.02, 0, 10000, 0.5, 0.02)
	if fb != sb || fo != so {
		t.Fatalf("zero inventory skewed quote (%f, %f) != fixed (%f, %f)", sb, so, fb, fo)
	}
}
