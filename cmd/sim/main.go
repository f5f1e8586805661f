// Simulates the dealing desk over a historical price table and prints the
// PnL attribution. With -watch the run repeats whenever the config file
// changes, exposing the latest book through Prometheus until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dealer-desk-go/config"
	"dealer-desk-go/ledger"
	"dealer-desk-go/logs"
	"dealer-desk-go/metrics"
	"dealer-desk-go/pnl"
	"dealer-desk-go/sim"
	"dealer-desk-go/venue"
)

func main() {
	cfgPath := flag.String("config", "configs/desk.yaml", "desk config path")
	watch := flag.Bool("watch", false, "re-run on config changes until interrupted")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logs.New(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var desk *metrics.Desk
	if cfg.Metrics.Addr != "" {
		desk = metrics.New(metrics.Config{})
		desk.Serve(cfg.Metrics.Addr)
	}

	if err := runOnce(cfg, logger, desk); err != nil {
		fmt.Fprintf(os.Stderr, "simulation: %v\n", err)
		os.Exit(1)
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.Watch(ctx, *cfgPath, 500*time.Millisecond, func(next config.DeskConfig) {
			logger.Info("config reloaded, re-running simulation")
			if err := runOnce(next, logger, desk); err != nil {
				logger.Error("simulation failed after reload", zap.Error(err))
			}
		}, func(err error) {
			logger.Warn("config reload rejected", zap.Error(err))
		})
		if err != nil && err != context.Canceled {
			logger.Error("config watcher stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
}

// runOnce plays one full simulation on a fresh book and prints the
// attribution table.
func runOnce(cfg config.DeskConfig, logger *zap.Logger, desk *metrics.Desk) error {
	f, err := os.Open(cfg.Prices.Path)
	if err != nil {
		return fmt.Errorf("open price table: %w", err)
	}
	prices, err := pnl.ReadCSV(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	sink := logs.LedgerSink(logger)
	book := ledger.New(sink)
	ex := venue.NewExchange(prices, venue.EventSink(desk.WrapEventSink(sink)))

	runner, err := sim.New(cfg, book, ex, logger)
	if err != nil {
		return err
	}
	runner.Metrics = desk

	if err := runner.Run(prices); err != nil {
		return err
	}

	report, err := pnl.Attribute(book, prices, pnl.Params{
		ClientFees:  pnl.FeeSchedule{Rate: cfg.Fees.Client.Rate, PerUnit: cfg.Fees.Client.PerUnit},
		HedgeFees:   pnl.FeeSchedule{Rate: cfg.Fees.Hedge.Rate, PerUnit: cfg.Fees.Hedge.PerUnit},
		Multipliers: cfg.Multipliers,
	})
	if err != nil {
		return err
	}

	printReport(report)
	if desk != nil {
		final := report.Final()
		desk.UpdateAttribution(metrics.AttributionRow{
			Equity:          final.Equity,
			CumSpreadPnL:    final.CumSpreadPnL,
			CumInventoryPnL: final.CumInventoryPnL,
			CumHedgePnL:     final.CumHedgePnL,
			CumTotalCost:    final.CumTotalCost,
			CumTotalPnL:     final.CumTotalPnL,
		})
		desk.UpdatePositions(book.Positions())
	}
	return nil
}

func printReport(r *pnl.Report) {
	fmt.Printf("%-12s %12s %12s %12s %12s %12s %14s\n",
		"date", "spread", "inventory", "hedge", "cost", "totalPnL", "equity")
	for _, row := range r.Rows {
		fmt.Printf("%-12s %12.4f %12.4f %12.4f %12.4f %12.4f %14.4f\n",
			row.Date.Format("2006-01-02"),
			row.SpreadPnL, row.InventoryPnL, row.HedgePnL,
			row.TotalCost, row.TotalPnL, row.Equity)
	}
	final := r.Final()
	fmt.Printf("\ncumulative: spread=%.4f inventory=%.4f hedge=%.4f cost=%.4f total=%.4f\n",
		final.CumSpreadPnL, final.CumInventoryPnL, final.CumHedgePnL,
		final.CumTotalCost, final.CumTotalPnL)
}
