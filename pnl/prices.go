package pnl

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"
)

// PriceTable holds one price per (date, instrument). The attribution engine
// iterates its dates in ascending order; callers may insert rows in any
// order. Timestamps are normalized to UTC nanoseconds internally so that
// zone or monotonic-clock differences cannot split a date bucket.
type PriceTable struct {
	rows map[int64]map[string]float64
}

func NewPriceTable() *PriceTable {
	return &PriceTable{rows: make(map[int64]map[string]float64)}
}

func dateKey(ts time.Time) int64 { return ts.UTC().UnixNano() }

// Set records the price of instrument at ts, overwriting any prior value.
func (t *PriceTable) Set(ts time.Time, instrument string, price float64) {
	k := dateKey(ts)
	row, ok := t.rows[k]
	if !ok {
		row = make(map[string]float64)
		t.rows[k] = row
	}
	row[instrument] = price
}

// Price returns the price of instrument at ts, reporting whether it exists.
func (t *PriceTable) Price(ts time.Time, instrument string) (float64, bool) {
	row, ok := t.rows[dateKey(ts)]
	if !ok {
		return 0, false
	}
	px, ok := row[instrument]
	return px, ok
}

// Dates returns all dates of the table sorted ascending.
func (t *PriceTable) Dates() []time.Time {
	keys := make([]int64, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]time.Time, len(keys))
	for i, k := range keys {
		out[i] = time.Unix(0, k).UTC()
	}
	return out
}

// Len returns the number of dates in the table.
func (t *PriceTable) Len() int { return len(t.rows) }

// row returns the price map for ts (nil if absent). Internal: callers must
// not mutate the result.
func (t *PriceTable) row(ts time.Time) map[string]float64 {
	return t.rows[dateKey(ts)]
}

// ReadCSV parses a price table from CSV with header "date,INST1,INST2,...".
// Dates are RFC3339 or plain 2006-01-02; empty cells are skipped (the
// instrument is simply absent from that date).
func ReadCSV(r io.Reader) (*PriceTable, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read price csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("price csv needs a header and at least one row")
	}
	header := records[0]
	if len(header) < 2 || header[0] != "date" {
		return nil, fmt.Errorf("price csv header must start with \"date\"")
	}
	table := NewPriceTable()
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d: %d cells, header has %d", i+2, len(rec), len(header))
		}
		ts, err := parseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		for c := 1; c < len(rec); c++ {
			if rec[c] == "" {
				continue
			}
			px, err := strconv.ParseFloat(rec[c], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %s: %w", i+2, header[c], err)
			}
			table.Set(ts, header[c], px)
		}
	}
	return table, nil
}

func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return ts, nil
}
