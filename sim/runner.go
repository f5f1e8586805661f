// Package sim drives the desk over a historical price table: one quote per
// table date, a stochastic client response, and an immediate offsetting
// hedge through the risk gate. Everything lands in the ledger; PnL is
// attributed afterwards from the logs.
package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"dealer-desk-go/config"
	"dealer-desk-go/counterparty"
	"dealer-desk-go/ledger"
	"dealer-desk-go/metrics"
	"dealer-desk-go/pnl"
	"dealer-desk-go/quote"
	"dealer-desk-go/risk"
	"dealer-desk-go/trade"
	"dealer-desk-go/venue"
)

// RiskGuard is the pre-trade check hedge orders pass through. deltaQty is
// signed: positive buy, negative sell.
type RiskGuard interface {
	PreOrder(instrument string, deltaQty float64) error
}

// Runner holds one desk's wiring. Build it with New and call Run once; the
// ledger accumulates across calls, so reuse means continuing the same book.
type Runner struct {
	Instrument      string
	HedgeInstrument string
	Quote           config.QuoteConfig
	Multipliers     map[string]float64

	Client *counterparty.Client
	RNG    *rand.Rand
	Book   *ledger.Ledger
	Venue  *venue.Exchange
	Risk   RiskGuard

	Log     *zap.Logger
	Metrics *metrics.Desk
}

// New wires a Runner from config. The ledger, venue and logger are supplied
// by the caller so the audit sink and price table stay under its control.
func New(cfg config.DeskConfig, book *ledger.Ledger, ex *venue.Exchange, log *zap.Logger) (*Runner, error) {
	client, err := counterparty.NewClient(cfg.Client.BuyProb, cfg.Client.SellProb)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		Instrument:      cfg.Instrument,
		HedgeInstrument: cfg.HedgeInstrument,
		Quote:           cfg.Quote,
		Multipliers:     cfg.Multipliers,
		Client:          client,
		RNG:             rand.New(rand.NewSource(cfg.Client.Seed)),
		Book:            book,
		Venue:           ex,
		Risk:            risk.NewLimitChecker(risk.Limits(cfg.Risk), bookExposure{book}),
		Log:             log,
	}
	return r, nil
}

func (r *Runner) multiplier(instrument string) float64 {
	if m, ok := r.Multipliers[instrument]; ok {
		return m
	}
	return 1.0
}

// Run quotes once per table date in ascending order. Dates where the client
// instrument has no price are skipped. Client fills are hedged immediately
// and in full; a risk rejection leaves the client fill unhedged and is
// logged, never fatal.
func (r *Runner) Run(prices *pnl.PriceTable) error {
	for _, date := range prices.Dates() {
		ref, ok := prices.Price(date, r.Instrument)
		if !ok {
			continue
		}

		dollarInv := r.Book.Positions()[r.Instrument] * ref
		bid, offer := quote.Skewed(ref, r.Quote.BaseSpread, dollarInv,
			r.Quote.IdealInventory, r.Quote.Sensitivity, r.Quote.MaxSkew)

		q, err := trade.NewQuotedTrade(r.Instrument, r.Quote.Volume, ref, bid, offer, date)
		if err != nil {
			return fmt.Errorf("build quote: %w", err)
		}
		if err := r.Book.RecordQuote(q); err != nil {
			return fmt.Errorf("record quote: %w", err)
		}
		if r.Metrics != nil {
			r.Metrics.RecordQuoteShown()
		}

		resp := r.Client.Show(r.RNG, q)
		side, acted := resp.Decision.DealerSide()
		if !acted {
			if r.Metrics != nil {
				r.Metrics.RecordQuoteRefused()
			}
			continue
		}

		ct, err := trade.NewCompletedTrade(resp.Instrument, resp.Volume, resp.Price,
			side, resp.RefPrice, resp.Bid, resp.Offer, resp.Ts)
		if err != nil {
			return fmt.Errorf("build client fill: %w", err)
		}
		if err := r.Book.RecordClientTrade(ct); err != nil {
			return fmt.Errorf("record client fill: %w", err)
		}
		if r.Metrics != nil {
			r.Metrics.RecordClientFill(string(side))
		}

		if err := r.hedge(prices, ct); err != nil {
			return err
		}

		if r.Metrics != nil {
			r.Metrics.UpdatePositions(r.Book.Positions())
		}
	}
	return nil
}

// hedge offsets a client fill on the hedge instrument: opposite side, volume
// scaled down by the contract multiplier.
func (r *Runner) hedge(prices *pnl.PriceTable, ct trade.CompletedTrade) error {
	side := trade.Buy
	if ct.Side == trade.Buy {
		side = trade.Sell
	}
	volume := ct.Volume / r.multiplier(r.HedgeInstrument)

	ref, ok := prices.Price(ct.Ts, r.HedgeInstrument)
	if !ok {
		ref = ct.RefPrice
	}

	delta, err := side.Signed(volume)
	if err != nil {
		return err
	}
	if r.Risk != nil {
		if err := r.Risk.PreOrder(r.HedgeInstrument, delta); err != nil {
			if r.Log != nil {
				r.Log.Warn("hedge blocked",
					zap.String("instrument", r.HedgeInstrument),
					zap.Float64("delta", delta),
					zap.Error(err))
			}
			if r.Metrics != nil {
				r.Metrics.RecordRiskReject()
			}
			return nil
		}
	}

	exec, err := r.Venue.Execute(venue.Order{
		Instrument: r.HedgeInstrument,
		Volume:     volume,
		RefPrice:   ref,
		Side:       side,
		Ts:         ct.Ts,
	})
	if err != nil {
		return fmt.Errorf("hedge execution: %w", err)
	}
	if err := r.Book.RecordHedgeTrade(exec); err != nil {
		return fmt.Errorf("record hedge fill: %w", err)
	}
	if r.Metrics != nil {
		r.Metrics.RecordHedgeFill(string(side))
	}
	return nil
}

// bookExposure adapts the ledger's merged positions to the risk interface.
type bookExposure struct {
	book *ledger.Ledger
}

func (b bookExposure) NetExposure(instrument string) float64 {
	return b.book.Positions()[instrument]
}
