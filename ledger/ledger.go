// Package ledger is the authoritative record of everything the desk has
// quoted and done. It keeps three append-only event logs plus running
// signed positions per instrument, split into a client book and a hedge
// book. The logs are the source of truth: positions can be rebuilt from
// them at any time, so replaying the same events is idempotent.
package ledger

import (
	"sync"
	"time"

	"dealer-desk-go/trade"
)

// EventSink receives one structured event per ledger mutation. Wire it to
// the zap logger (logs.LedgerSink) to get a JSONL audit trail that
// cmd/pnl_report can rebuild a ledger from.
type EventSink func(event string, fields map[string]interface{})

// Ledger is safe for concurrent readers; writers must be externally
// serialized with respect to each other only in the sense that event order
// in the logs follows lock-acquisition order.
type Ledger struct {
	mu        sync.RWMutex
	quoted    []trade.QuotedTrade
	completed []trade.CompletedTrade
	hedges    []trade.HedgeExecution
	clientPos map[string]float64
	hedgePos  map[string]float64
	sink      EventSink
}

func New(sink EventSink) *Ledger {
	return &Ledger{
		clientPos: make(map[string]float64),
		hedgePos:  make(map[string]float64),
		sink:      sink,
	}
}

// RecordQuote appends to the quote log. Quoting never changes inventory.
func (l *Ledger) RecordQuote(q trade.QuotedTrade) error {
	if err := q.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.quoted = append(l.quoted, q)
	l.mu.Unlock()
	l.emit("quote", map[string]interface{}{
		"instrument": q.Instrument,
		"volume":     q.Volume,
		"ref_price":  q.RefPrice,
		"bid":        q.Bid,
		"offer":      q.Offer,
		"ts":         q.Ts.UTC().Format(time.RFC3339Nano),
	})
	return nil
}

// RecordClientTrade appends a client fill and moves the client book by the
// signed volume. A rejected trade leaves both the log and the position
// untouched.
func (l *Ledger) RecordClientTrade(t trade.CompletedTrade) error {
	if err := t.Validate(); err != nil {
		return err
	}
	signed, err := t.Side.Signed(t.Volume)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.completed = append(l.completed, t)
	l.clientPos[t.Instrument] += signed
	pos := l.clientPos[t.Instrument]
	l.mu.Unlock()
	l.emit("client_trade", map[string]interface{}{
		"instrument": t.Instrument,
		"volume":     t.Volume,
		"price":      t.Price,
		"side":       string(t.Side),
		"ref_price":  t.RefPrice,
		"bid":        t.Bid,
		"offer":      t.Offer,
		"position":   pos,
		"ts":         t.Ts.UTC().Format(time.RFC3339Nano),
	})
	return nil
}

// RecordHedgeTrade appends a hedge execution and moves the hedge book with
// the identical sign convention.
func (l *Ledger) RecordHedgeTrade(h trade.HedgeExecution) error {
	if err := h.Validate(); err != nil {
		return err
	}
	signed, err := h.Side.Signed(h.Volume)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.hedges = append(l.hedges, h)
	l.hedgePos[h.Instrument] += signed
	pos := l.hedgePos[h.Instrument]
	l.mu.Unlock()
	l.emit("hedge_trade", map[string]interface{}{
		"instrument": h.Instrument,
		"volume":     h.Volume,
		"price":      h.Price,
		"side":       string(h.Side),
		"position":   pos,
		"ts":         h.Ts.UTC().Format(time.RFC3339Nano),
	})
	return nil
}

// Positions returns the merged instrument -> signed volume view (client +
// hedge). This is the real-time exposure used for quote-skew decisions;
// the attribution engine re-derives time-sliced exposure from the logs.
func (l *Ledger) Positions() map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]float64, len(l.clientPos)+len(l.hedgePos))
	for k, v := range l.clientPos {
		out[k] += v
	}
	for k, v := range l.hedgePos {
		out[k] += v
	}
	return out
}

func (l *Ledger) ClientPositions() map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyMap(l.clientPos)
}

func (l *Ledger) HedgePositions() map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyMap(l.hedgePos)
}

// QuotedTrades returns a copy of the quote log.
func (l *Ledger) QuotedTrades() []trade.QuotedTrade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]trade.QuotedTrade, len(l.quoted))
	copy(out, l.quoted)
	return out
}

// ClientTrades returns a copy of the completed-trade log.
func (l *Ledger) ClientTrades() []trade.CompletedTrade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]trade.CompletedTrade, len(l.completed))
	copy(out, l.completed)
	return out
}

// HedgeTrades returns a copy of the hedge log.
func (l *Ledger) HedgeTrades() []trade.HedgeExecution {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]trade.HedgeExecution, len(l.hedges))
	copy(out, l.hedges)
	return out
}

func (l *Ledger) emit(event string, fields map[string]interface{}) {
	if l.sink == nil {
		return
	}
	l.sink(event, fields)
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
