package pnl

// FeeSchedule describes the transaction cost of one fill: a proportional
// fee on notional plus a fixed fee per unit traded.
type FeeSchedule struct {
	Rate    float64 // fraction of notional, e.g. 0.00005 = 0.5 bp
	PerUnit float64 // per share / per contract
}

// Cost is the monetary cost of trading volume units at price. It is pure
// and linear: fills can be costed in any order and summed with no
// cross-trade interaction.
func Cost(volume, price float64, fs FeeSchedule) float64 {
	if volume < 0 {
		volume = -volume
	}
	return fs.Rate*volume*price + fs.PerUnit*volume
}
