// Rebuilds a desk ledger from the JSONL event log and recomputes the PnL
// attribution against a price table. This is the offline check that the
// audit trail alone is enough to reproduce the books.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dealer-desk-go/config"
	"dealer-desk-go/ledger"
	"dealer-desk-go/pnl"
	"dealer-desk-go/trade"
)

func main() {
	logPath := flag.String("log", "desk.log", "JSONL event log path")
	pricesPath := flag.String("prices", "prices.csv", "price table CSV path")
	cfgPath := flag.String("config", "", "desk config for fees and multipliers (optional)")
	flag.Parse()

	params := pnl.Params{}
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		params = pnl.Params{
			ClientFees:  pnl.FeeSchedule{Rate: cfg.Fees.Client.Rate, PerUnit: cfg.Fees.Client.PerUnit},
			HedgeFees:   pnl.FeeSchedule{Rate: cfg.Fees.Hedge.Rate, PerUnit: cfg.Fees.Hedge.PerUnit},
			Multipliers: cfg.Multipliers,
		}
	}

	pf, err := os.Open(*pricesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open price table: %v\n", err)
		os.Exit(1)
	}
	prices, err := pnl.ReadCSV(pf)
	_ = pf.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse price table: %v\n", err)
		os.Exit(1)
	}

	lf, err := os.Open(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open event log: %v\n", err)
		os.Exit(1)
	}
	defer lf.Close()

	book, skipped, err := rebuild(lf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebuild ledger: %v\n", err)
		os.Exit(1)
	}

	report, err := pnl.Attribute(book, prices, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "attribution: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("log: %s\n", *logPath)
	fmt.Printf("client trades: %d  hedge trades: %d  quotes: %d  skipped lines: %d\n\n",
		len(book.ClientTrades()), len(book.HedgeTrades()), len(book.QuotedTrades()), skipped)

	fmt.Printf("%-12s %12s %12s %12s %12s %12s %14s\n",
		"date", "spread", "inventory", "hedge", "cost", "totalPnL", "equity")
	for _, row := range report.Rows {
		fmt.Printf("%-12s %12.4f %12.4f %12.4f %12.4f %12.4f %14.4f\n",
			row.Date.Format("2006-01-02"),
			row.SpreadPnL, row.InventoryPnL, row.HedgePnL,
			row.TotalCost, row.TotalPnL, row.Equity)
	}
	final := report.Final()
	fmt.Printf("\ncumulative: spread=%.4f inventory=%.4f hedge=%.4f cost=%.4f total=%.4f\n",
		final.CumSpreadPnL, final.CumInventoryPnL, final.CumHedgePnL,
		final.CumTotalCost, final.CumTotalPnL)
}

// rebuild replays the desk's event lines into a fresh ledger. Lines that are
// not JSON, not desk events, or incomplete are counted and skipped; a trade
// event that parses but fails validation is a hard error, the log is corrupt.
func rebuild(f *os.File) (*ledger.Ledger, int, error) {
	book := ledger.New(nil)
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "{")
		if idx == -1 {
			skipped++
			continue
		}
		var evt map[string]interface{}
		if err := json.Unmarshal([]byte(line[idx:]), &evt); err != nil {
			skipped++
			continue
		}
		name, _ := evt["msg"].(string)

		switch name {
		case "quote":
			q, err := parseQuote(evt)
			if err != nil {
				skipped++
				continue
			}
			if err := book.RecordQuote(q); err != nil {
				return nil, skipped, err
			}
		case "client_trade":
			ct, err := parseClientTrade(evt)
			if err != nil {
				skipped++
				continue
			}
			if err := book.RecordClientTrade(ct); err != nil {
				return nil, skipped, err
			}
		case "hedge_trade":
			ht, err := parseHedgeTrade(evt)
			if err != nil {
				skipped++
				continue
			}
			if err := book.RecordHedgeTrade(ht); err != nil {
				return nil, skipped, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return book, skipped, nil
}

func parseQuote(evt map[string]interface{}) (trade.QuotedTrade, error) {
	ts, err := parseTs(evt)
	if err != nil {
		return trade.QuotedTrade{}, err
	}
	return trade.QuotedTrade{
		Instrument: str(evt["instrument"]),
		Volume:     toFloat(evt["volume"]),
		RefPrice:   toFloat(evt["ref_price"]),
		Bid:        toFloat(evt["bid"]),
		Offer:      toFloat(evt["offer"]),
		Ts:         ts,
	}, nil
}

func parseClientTrade(evt map[string]interface{}) (trade.CompletedTrade, error) {
	ts, err := parseTs(evt)
	if err != nil {
		return trade.CompletedTrade{}, err
	}
	return trade.CompletedTrade{
		Instrument: str(evt["instrument"]),
		Volume:     toFloat(evt["volume"]),
		Price:      toFloat(evt["price"]),
		Side:       trade.Side(str(evt["side"])),
		RefPrice:   toFloat(evt["ref_price"]),
		Bid:        toFloat(evt["bid"]),
		Offer:      toFloat(evt["offer"]),
		Ts:         ts,
	}, nil
}

func parseHedgeTrade(evt map[string]interface{}) (trade.HedgeExecution, error) {
	ts, err := parseTs(evt)
	if err != nil {
		return trade.HedgeExecution{}, err
	}
	return trade.HedgeExecution{
		Instrument: str(evt["instrument"]),
		Volume:     toFloat(evt["volume"]),
		Price:      toFloat(evt["price"]),
		Side:       trade.Side(str(evt["side"])),
		Ts:         ts,
	}, nil
}

func parseTs(evt map[string]interface{}) (time.Time, error) {
	s, ok := evt["ts"].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("event has no ts")
	}
	return time.Parse(time.RFC3339Nano, s)
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}
