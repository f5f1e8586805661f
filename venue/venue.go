// Package venue simulates the hedging venue: orders fill instantly at the
// price table's value for that instant, falling back to the order's
// reference price when no quote exists there.
package venue

import (
	"fmt"
	"time"

	"dealer-desk-go/pnl"
	"dealer-desk-go/trade"
)

// Order is a hedge order sent to the venue.
type Order struct {
	Instrument string
	Volume     float64 // > 0, units or contracts
	RefPrice   float64 // price used to size the order
	Side       trade.Side
	Ts         time.Time
}

func (o Order) validate() error {
	if o.Instrument == "" {
		return trade.ErrEmptyInstrument
	}
	if o.Volume <= 0 {
		return fmt.Errorf("%w: %f", trade.ErrNonPositiveVolume, o.Volume)
	}
	if o.RefPrice <= 0 {
		return fmt.Errorf("%w: ref %f", trade.ErrNonPositivePrice, o.RefPrice)
	}
	if _, err := o.Side.Signed(o.Volume); err != nil {
		return err
	}
	return nil
}

// EventSink receives venue diagnostics (currently only fallback fills).
type EventSink func(event string, fields map[string]interface{})

// Exchange fills orders against a time-indexed price table.
type Exchange struct {
	prices *pnl.PriceTable
	sink   EventSink
}

func NewExchange(prices *pnl.PriceTable, sink EventSink) *Exchange {
	return &Exchange{prices: prices, sink: sink}
}

// Execute fills the order at the table price for (ts, instrument). A miss
// falls back to the order's reference price: a deliberate degraded-accuracy
// path, surfaced through the sink but never an error.
func (e *Exchange) Execute(o Order) (trade.HedgeExecution, error) {
	if err := o.validate(); err != nil {
		return trade.HedgeExecution{}, err
	}
	px, ok := e.prices.Price(o.Ts, o.Instrument)
	if !ok {
		px = o.RefPrice
		if e.sink != nil {
			e.sink("fill_price_fallback", map[string]interface{}{
				"instrument": o.Instrument,
				"ref_price":  o.RefPrice,
				"ts":         o.Ts.UTC().Format(time.RFC3339Nano),
			})
		}
	}
	return trade.NewHedgeExecution(o.Instrument, o.Volume, px, o.Side, o.Ts)
}
