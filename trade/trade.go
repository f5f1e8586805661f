// Package trade defines the immutable event records flowing through the desk:
// quotes shown to clients, client fills, and hedge executions. Records are
// created once, validated at construction, and never mutated.
package trade

import (
	"errors"
	"fmt"
	"time"
)

// Side is the dealer-side action of a trade. Direction is always carried
// here, never by the sign of a volume field.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

var (
	ErrInvalidSide       = errors.New("invalid side")
	ErrNonPositiveVolume = errors.New("volume must be > 0")
	ErrNonPositivePrice  = errors.New("price must be > 0")
	ErrEmptyInstrument   = errors.New("instrument is required")
)

// Signed converts a positive volume into a signed quantity: +volume for a
// buy, -volume for a sell. Any other side is a hard failure; a silent
// default would corrupt every downstream position and PnL sign.
func (s Side) Signed(volume float64) (float64, error) {
	switch s {
	case Buy:
		return volume, nil
	case Sell:
		return -volume, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSide, string(s))
}

// QuotedTrade is a two-sided price shown to a counterparty. Quoting never
// moves inventory; the record exists for audit and hit-rate analysis.
type QuotedTrade struct {
	Instrument string
	Volume     float64
	RefPrice   float64
	Bid        float64
	Offer      float64
	Ts         time.Time
}

// CompletedTrade is a client fill against one of our quotes. Side is the
// dealer's side: the client lifting our offer produces a SELL here.
type CompletedTrade struct {
	Instrument string
	Volume     float64
	Price      float64
	Side       Side
	RefPrice   float64
	Bid        float64
	Offer      float64
	Ts         time.Time
}

// HedgeExecution is a fill reported by the hedge venue (ETF or futures leg).
type HedgeExecution struct {
	Instrument string
	Volume     float64
	Price      float64
	Side       Side
	Ts         time.Time
}

func NewQuotedTrade(instrument string, volume, refPrice, bid, offer float64, ts time.Time) (QuotedTrade, error) {
	q := QuotedTrade{Instrument: instrument, Volume: volume, RefPrice: refPrice, Bid: bid, Offer: offer, Ts: ts}
	return q, q.Validate()
}

func NewCompletedTrade(instrument string, volume, price float64, side Side, refPrice, bid, offer float64, ts time.Time) (CompletedTrade, error) {
	c := CompletedTrade{Instrument: instrument, Volume: volume, Price: price, Side: side, RefPrice: refPrice, Bid: bid, Offer: offer, Ts: ts}
	return c, c.Validate()
}

func NewHedgeExecution(instrument string, volume, price float64, side Side, ts time.Time) (HedgeExecution, error) {
	h := HedgeExecution{Instrument: instrument, Volume: volume, Price: price, Side: side, Ts: ts}
	return h, h.Validate()
}

func (q QuotedTrade) Validate() error {
	if q.Instrument == "" {
		return ErrEmptyInstrument
	}
	if q.Volume <= 0 {
		return fmt.Errorf("%w: %f", ErrNonPositiveVolume, q.Volume)
	}
	if q.RefPrice <= 0 {
		return fmt.Errorf("%w: ref %f", ErrNonPositivePrice, q.RefPrice)
	}
	return nil
}

func (c CompletedTrade) Validate() error {
	if c.Instrument == "" {
		return ErrEmptyInstrument
	}
	if c.Volume <= 0 {
		return fmt.Errorf("%w: %f", ErrNonPositiveVolume, c.Volume)
	}
	if c.Price <= 0 {
		return fmt.Errorf("%w: %f", ErrNonPositivePrice, c.Price)
	}
	if _, err := c.Side.Signed(c.Volume); err != nil {
		return err
	}
	return nil
}

func (h HedgeExecution) Validate() error {
	if h.Instrument == "" {
		return ErrEmptyInstrument
	}
	if h.Volume <= 0 {
		return fmt.Errorf("%w: %f", ErrNonPositiveVolume, h.Volume)
	}
	if h.Price <= 0 {
		return fmt.Errorf("%w: %f", ErrNonPositivePrice, h.Price)
	}
	if _, err := h.Side.Signed(h.Volume); err != nil {
		return err
	}
	return nil
}
