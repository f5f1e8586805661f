package venue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-desk-go/pnl"
	"dealer-desk-go/trade"
	"dealer-desk-go/venue"
)

func ts(day int) time.Time {
	return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestExecuteFillsAtTablePrice(t *testing.T) {
	table := pnl.NewPriceTable()
	table.Set(ts(1), "SPY", 412.5)
	ex := venue.NewExchange(table, nil)

	fill, err := ex.Execute(venue.Order{
		Instrument: "SPY", Volume: 10, RefPrice: 410, Side: trade.Buy, Ts: ts(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 412.5, fill.Price)
	assert.Equal(t, 10.0, fill.Volume)
	assert.Equal(t, trade.Buy, fill.Side)
}

func TestExecuteFallsBackToRefPrice(t *testing.T) {
	table := pnl.NewPriceTable()
	table.Set(ts(1), "SPY", 412.5)

	var events []string
	ex := venue.NewExchange(table, func(event string, fields map[string]interface{}) {
		events = append(events, event)
	})

	// unknown instrument
	fill, err := ex.Execute(venue.Order{
		Instrument: "QQQ", Volume: 5, RefPrice: 350, Side: trade.Sell, Ts: ts(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 350.0, fill.Price)

	// known instrument, unknown instant
	fill, err = ex.Execute(venue.Order{
		Instrument: "SPY", Volume: 5, RefPrice: 411, Side: trade.Sell, Ts: ts(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 411.0, fill.Price)

	assert.Equal(t, []string{"fill_price_fallback", "fill_price_fallback"}, events)
}

func TestExecuteRejectsInvalidOrders(t *testing.T) {
	ex := venue.NewExchange(pnl.NewPriceTable(), nil)

	_, err := ex.Execute(venue.Order{Instrument: "SPY", Volume: 0, RefPrice: 100, Side: trade.Buy, Ts: ts(1)})
	assert.ErrorIs(t, err, trade.ErrNonPositiveVolume)

	_, err = ex.Execute(venue.Order{Instrument: "SPY", Volume: 1, RefPrice: 100, Side: trade.Side("hold"), Ts: ts(1)})
	assert.ErrorIs(t, err, trade.ErrInvalidSide)

	_, err = ex.Execute(venue.Order{Volume: 1, RefPrice: 100, Side: trade.Buy, Ts: ts(1)})
	assert.ErrorIs(t, err, trade.ErrEmptyInstrument)
}
