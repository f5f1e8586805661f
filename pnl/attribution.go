// Package pnl reconstructs, after the fact, where the desk's profit came
// from. The attribution engine replays the ledger's trade logs against a
// price table in strict date order and splits realized profit into spread
// capture, inventory price risk, hedge PnL and transaction costs, with
// equity defined bottom-up as cash + mark-to-market. The replay is a pure
// in-memory fold: no I/O, no clocks, deterministic given its inputs.
package pnl

import (
	"time"

	"dealer-desk-go/trade"
)

// Book is the read-only ledger view the engine consumes.
type Book interface {
	ClientTrades() []trade.CompletedTrade
	HedgeTrades() []trade.HedgeExecution
}

// Params configures a replay. Multipliers maps instrument -> contract
// multiplier for futures legs; instruments absent from the map scale by 1.
type Params struct {
	ClientFees  FeeSchedule
	HedgeFees   FeeSchedule
	Multipliers map[string]float64
}

func (p Params) multiplier(instrument string) float64 {
	if m, ok := p.Multipliers[instrument]; ok {
		return m
	}
	return 1.0
}

// Row is one attribution output row. The identity
//
//	TotalPnL = SpreadPnL + InventoryPnL + HedgePnL - TotalCost
//
// holds by construction. Equity[n] = sum of TotalPnL[0..n] additionally
// requires that client reference prices and hedge fill prices equal the
// table's mark for the trade's date; a trade whose ref strays from the
// mark leaves a residual of signed volume times (mark - ref) in equity
// that no attribution column claims. The desk runner satisfies this by
// quoting off the table and filling hedges at it.
type Row struct {
	Date time.Time

	SpreadPnL    float64
	InventoryPnL float64
	HedgePnL     float64
	ClientCost   float64
	HedgeCost    float64
	TotalCost    float64
	TotalPnL     float64
	Equity       float64

	CumSpreadPnL    float64
	CumInventoryPnL float64
	CumHedgePnL     float64
	CumTotalCost    float64
	CumTotalPnL     float64
}

// Report is the full attribution table, one row per price-table date in
// ascending order.
type Report struct {
	Rows []Row
}

// Final returns the last row, or a zero Row for an empty table.
func (r *Report) Final() Row {
	if len(r.Rows) == 0 {
		return Row{}
	}
	return r.Rows[len(r.Rows)-1]
}

// Attribute replays the book chronologically and attributes PnL per date.
//
// Per date, in order: (1) price-move step - mark carried inventory against
// the price change since the previous date, hedge legs scaled by their
// multiplier; (2) trade-flow step - apply every client and hedge fill
// stamped with that date, accumulating spread PnL (client fills only),
// costs, cash and inventories; (3) mark-to-market step - equity = cash +
// value of both books at the date's prices. Instruments missing from the
// table on either side of a price move contribute nothing. An unrecognized
// side anywhere in the logs aborts the whole run.
func Attribute(b Book, prices *PriceTable, p Params) (*Report, error) {
	dates := prices.Dates()
	clientByDate, hedgeByDate, err := groupByDate(b)
	if err != nil {
		return nil, err
	}

	clientInv := make(map[string]float64)
	hedgeInv := make(map[string]float64)
	cash := 0.0

	rows := make([]Row, 0, len(dates))
	var prev map[string]float64

	for _, date := range dates {
		cur := prices.row(date)
		row := Row{Date: date}

		// 1) price move on carried inventory
		if prev != nil {
			for inst, qty := range clientInv {
				if qty == 0 {
					continue
				}
				curPx, okCur := cur[inst]
				prevPx, okPrev := prev[inst]
				if okCur && okPrev {
					row.InventoryPnL += qty * (curPx - prevPx)
				}
			}
			for inst, qty := range hedgeInv {
				if qty == 0 {
					continue
				}
				curPx, okCur := cur[inst]
				prevPx, okPrev := prev[inst]
				if okCur && okPrev {
					row.HedgePnL += qty * p.multiplier(inst) * (curPx - prevPx)
				}
			}
		}

		// 2) trade flow at this date
		k := dateKey(date)
		for _, ct := range clientByDate[k] {
			signed, err := ct.Side.Signed(ct.Volume)
			if err != nil {
				return nil, err
			}
			row.SpreadPnL += (ct.RefPrice - ct.Price) * signed
			c := Cost(ct.Volume, ct.Price, p.ClientFees)
			row.ClientCost += c
			cash -= signed*ct.Price + c
			clientInv[ct.Instrument] += signed
		}
		for _, ht := range hedgeByDate[k] {
			signed, err := ht.Side.Signed(ht.Volume)
			if err != nil {
				return nil, err
			}
			c := Cost(ht.Volume, ht.Price, p.HedgeFees)
			row.HedgeCost += c
			cash -= signed*ht.Price + c
			hedgeInv[ht.Instrument] += signed
		}

		// 3) mark to market
		mtm := 0.0
		for inst, qty := range clientInv {
			if px, ok := cur[inst]; ok {
				mtm += qty * px
			}
		}
		for inst, qty := range hedgeInv {
			if px, ok := cur[inst]; ok {
				mtm += qty * p.multiplier(inst) * px
			}
		}
		row.Equity = cash + mtm
		row.TotalCost = row.ClientCost + row.HedgeCost
		row.TotalPnL = row.SpreadPnL + row.InventoryPnL + row.HedgePnL - row.TotalCost

		rows = append(rows, row)
		prev = cur
	}

	var cumSpread, cumInv, cumHedge, cumCost, cumTotal float64
	for i := range rows {
		cumSpread += rows[i].SpreadPnL
		cumInv += rows[i].InventoryPnL
		cumHedge += rows[i].HedgePnL
		cumCost += rows[i].TotalCost
		cumTotal += rows[i].TotalPnL
		rows[i].CumSpreadPnL = cumSpread
		rows[i].CumInventoryPnL = cumInv
		rows[i].CumHedgePnL = cumHedge
		rows[i].CumTotalCost = cumCost
		rows[i].CumTotalPnL = cumTotal
	}

	return &Report{Rows: rows}, nil
}

// EquityPoint is one date of the simplified equity-only replay.
type EquityPoint struct {
	Date   time.Time
	Equity float64
}

// EquityCurve is the simplified engine: no attribution breakdown, a single
// merged inventory, no contract multipliers. For multiplier-free books it
// matches Attribute's Equity column exactly.
func EquityCurve(b Book, prices *PriceTable, clientFees, hedgeFees FeeSchedule) ([]EquityPoint, error) {
	dates := prices.Dates()
	clientByDate, hedgeByDate, err := groupByDate(b)
	if err != nil {
		return nil, err
	}

	inventory := make(map[string]float64)
	cash := 0.0
	out := make([]EquityPoint, 0, len(dates))

	for _, date := range dates {
		k := dateKey(date)
		for _, ct := range clientByDate[k] {
			signed, err := ct.Side.Signed(ct.Volume)
			if err != nil {
				return nil, err
			}
			cash -= signed*ct.Price + Cost(ct.Volume, ct.Price, clientFees)
			inventory[ct.Instrument] += signed
		}
		for _, ht := range hedgeByDate[k] {
			signed, err := ht.Side.Signed(ht.Volume)
			if err != nil {
				return nil, err
			}
			cash -= signed*ht.Price + Cost(ht.Volume, ht.Price, hedgeFees)
			inventory[ht.Instrument] += signed
		}

		mtm := 0.0
		cur := prices.row(date)
		for inst, qty := range inventory {
			if px, ok := cur[inst]; ok {
				mtm += qty * px
			}
		}
		out = append(out, EquityPoint{Date: date, Equity: cash + mtm})
	}
	return out, nil
}

// groupByDate buckets both logs by normalized timestamp. Sides are checked
// here so a corrupt log fails before any row is produced.
func groupByDate(b Book) (map[int64][]trade.CompletedTrade, map[int64][]trade.HedgeExecution, error) {
	clients := make(map[int64][]trade.CompletedTrade)
	for _, ct := range b.ClientTrades() {
		if _, err := ct.Side.Signed(ct.Volume); err != nil {
			return nil, nil, err
		}
		k := dateKey(ct.Ts)
		clients[k] = append(clients[k], ct)
	}
	hedges := make(map[int64][]trade.HedgeExecution)
	for _, ht := range b.HedgeTrades() {
		if _, err := ht.Side.Signed(ht.Volume); err != nil {
			return nil, nil, err
		}
		k := dateKey(ht.Ts)
		hedges[k] = append(hedges[k], ht)
	}
	return clients, hedges, nil
}
