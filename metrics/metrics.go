// Package metrics exposes the desk's Prometheus instrumentation: flow
// counters for quotes and fills plus gauges for the book and the latest
// attribution row.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Desk collects the desk's metrics on its own registry so tests and
// multiple desks never collide on the default one.
type Desk struct {
	registry *prometheus.Registry

	quotesShown   prometheus.Counter
	quotesRefused prometheus.Counter
	clientFills   *prometheus.CounterVec
	hedgeFills    *prometheus.CounterVec
	riskRejects   prometheus.Counter
	fillFallbacks prometheus.Counter

	netPosition    *prometheus.GaugeVec
	equity         prometheus.Gauge
	cumSpreadPnL   prometheus.Gauge
	cumInventory   prometheus.Gauge
	cumHedgePnL    prometheus.Gauge
	cumTotalCost   prometheus.Gauge
	cumTotalPnL    prometheus.Gauge
}

// Config carries the metric namespace. Namespace defaults to "desk".
type Config struct {
	Namespace string
}

// New builds a Desk with all collectors registered.
func New(cfg Config) *Desk {
	if cfg.Namespace == "" {
		cfg.Namespace = "desk"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	d := &Desk{
		registry: reg,

		quotesShown: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "quotes_shown_total",
			Help:      "Two-sided quotes shown to clients",
		}),
		quotesRefused: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "quotes_refused_total",
			Help:      "Quotes the client walked away from",
		}),
		clientFills: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "client_fills_total",
			Help:      "Client fills by dealer side",
		}, []string{"side"}),
		hedgeFills: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "hedge_fills_total",
			Help:      "Hedge executions by side",
		}, []string{"side"}),
		riskRejects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "risk_rejects_total",
			Help:      "Hedge orders blocked by pre-trade limits",
		}),
		fillFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "fill_price_fallbacks_total",
			Help:      "Fills priced off the reference because the table had no row",
		}),

		netPosition: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "net_position",
			Help:      "Net position per instrument, client and hedge books merged",
		}, []string{"instrument"}),
		equity: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "equity",
			Help:      "Cash plus mark-to-market of open positions",
		}),
		cumSpreadPnL: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "cum_spread_pnl",
			Help:      "Cumulative spread capture",
		}),
		cumInventory: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "cum_inventory_pnl",
			Help:      "Cumulative inventory price moves",
		}),
		cumHedgePnL: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "cum_hedge_pnl",
			Help:      "Cumulative hedge book price moves",
		}),
		cumTotalCost: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "cum_total_cost",
			Help:      "Cumulative transaction costs",
		}),
		cumTotalPnL: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "cum_total_pnl",
			Help:      "Cumulative total PnL net of costs",
		}),
	}
	return d
}

func (d *Desk) RecordQuoteShown()   { d.quotesShown.Inc() }
func (d *Desk) RecordQuoteRefused() { d.quotesRefused.Inc() }

func (d *Desk) RecordClientFill(side string) {
	d.clientFills.WithLabelValues(side).Inc()
}

func (d *Desk) RecordHedgeFill(side string) {
	d.hedgeFills.WithLabelValues(side).Inc()
}

func (d *Desk) RecordRiskReject()       { d.riskRejects.Inc() }
func (d *Desk) RecordFillFallback()     { d.fillFallbacks.Inc() }

// UpdatePositions overwrites the per-instrument position gauges.
func (d *Desk) UpdatePositions(positions map[string]float64) {
	for instrument, qty := range positions {
		d.netPosition.WithLabelValues(instrument).Set(qty)
	}
}

// AttributionRow is the slice of a PnL row the gauges track. Kept local
// so the package does not depend on the attribution engine.
type AttributionRow struct {
	Equity          float64
	CumSpreadPnL    float64
	CumInventoryPnL float64
	CumHedgePnL     float64
	CumTotalCost    float64
	CumTotalPnL     float64
}

// UpdateAttribution publishes the latest attribution row.
func (d *Desk) UpdateAttribution(row AttributionRow) {
	d.equity.Set(row.Equity)
	d.cumSpreadPnL.Set(row.CumSpreadPnL)
	d.cumInventory.Set(row.CumInventoryPnL)
	d.cumHedgePnL.Set(row.CumHedgePnL)
	d.cumTotalCost.Set(row.CumTotalCost)
	d.cumTotalPnL.Set(row.CumTotalPnL)
}

// WrapEventSink passes events through to next while counting venue
// fallback fills. Safe on a nil Desk, so callers can wrap their sink
// unconditionally.
func (d *Desk) WrapEventSink(next func(event string, fields map[string]interface{})) func(string, map[string]interface{}) {
	return func(event string, fields map[string]interface{}) {
		if d != nil && event == "fill_price_fallback" {
			d.fillFallbacks.Inc()
		}
		if next != nil {
			next(event, fields)
		}
	}
}

// Handler returns the HTTP handler exposing this desk's registry.
func (d *Desk) Handler() http.Handler {
	return promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mainly for tests.
func (d *Desk) Registry() *prometheus.Registry {
	return d.registry
}

// Serve exposes /metrics on addr in a background goroutine.
func (d *Desk) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
