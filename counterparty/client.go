// Package counterparty models the client population the desk quotes to.
// Given a two-sided quote a client buys at the offer, sells at the bid, or
// refuses, with fixed probabilities. The generator is supplied by the
// caller so replays are deterministic.
package counterparty

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"dealer-desk-go/trade"
)

// Decision is the client's action on a quote, from the client's point of
// view: a BUY here means the client lifts our offer.
type Decision string

const (
	Buy    Decision = "BUY"
	Sell   Decision = "SELL"
	Refuse Decision = "REFUSE"
)

var ErrBadProbabilities = errors.New("probabilities must be >= 0 and sum to <= 1")

// Response reports the trade terms the client accepted. On Refuse, Volume
// is zero and Price is NaN (the no-price sentinel); nothing should reach
// the ledger.
type Response struct {
	Instrument string
	Volume     float64
	Price      float64
	Decision   Decision
	RefPrice   float64
	Bid        float64
	Offer      float64
	Ts         time.Time
}

// Client accepts quotes with fixed buy/sell probabilities; the remainder
// is the refusal probability.
type Client struct {
	BuyProb  float64
	SellProb float64
}

func NewClient(buyProb, sellProb float64) (*Client, error) {
	if buyProb < 0 || sellProb < 0 || buyProb+sellProb > 1 {
		return nil, ErrBadProbabilities
	}
	return &Client{BuyProb: buyProb, SellProb: sellProb}, nil
}

// Show presents a quote to the client and returns its decision. A buying
// client pays the offer, a selling client receives the bid.
func (c *Client) Show(rng *rand.Rand, q trade.QuotedTrade) Response {
	resp := Response{
		Instrument: q.Instrument,
		RefPrice:   q.RefPrice,
		Bid:        q.Bid,
		Offer:      q.Offer,
		Ts:         q.Ts,
	}
	r := rng.Float64()
	switch {
	case r < c.BuyProb:
		resp.Decision = Buy
		resp.Price = q.Offer
		resp.Volume = q.Volume
	case r < c.BuyProb+c.SellProb:
		resp.Decision = Sell
		resp.Price = q.Bid
		resp.Volume = q.Volume
	default:
		resp.Decision = Refuse
		resp.Price = math.NaN()
		resp.Volume = 0
	}
	return resp
}

// DealerSide maps the client's decision to the desk's side of the fill:
// the client buying means the desk sells. Refusals have no dealer side.
func (d Decision) DealerSide() (trade.Side, bool) {
	switch d {
	case Buy:
		return trade.Sell, true
	case Sell:
		return trade.Buy, true
	}
	return "", false
}
