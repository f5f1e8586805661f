package logs

import (
	"fmt"
	"sort"
	"strings"
)

// Event schemas: the keys each ledger/venue event must carry so that
// cmd/pnl_report can rebuild a ledger from the log. Centralized here so
// producers and the report tool cannot drift apart silently.
var schemas = map[string][]string{
	"quote":               {"instrument", "volume", "ref_price", "bid", "offer", "ts"},
	"client_trade":        {"instrument", "volume", "price", "side", "ref_price", "bid", "offer", "ts"},
	"hedge_trade":         {"instrument", "volume", "price", "side", "ts"},
	"fill_price_fallback": {"instrument", "ref_price", "ts"},
}

// KnownEvents returns all schema'd event names, sorted.
func KnownEvents() []string {
	names := make([]string, 0, len(schemas))
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValidateEvent checks that fields carries every key the event's schema
// requires. Unknown events pass: only drifting known events are a defect.
func ValidateEvent(event string, fields map[string]interface{}) error {
	required, ok := schemas[event]
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range required {
		if _, exists := fields[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ","))
	}
	return nil
}
