// Package logs provides the desk's structured logging: a zap JSON logger
// plus the adapter that turns it into a ledger event sink. The resulting
// JSONL stream is the audit trail cmd/pnl_report rebuilds ledgers from.
package logs

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dealer-desk-go/ledger"
)

// New builds a production JSON logger at the given level, writing to
// stdout plus path when path is non-empty.
func New(level, path string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// desk events carry their own "ts" field; keep the log timestamp
	// under a different key so lines never hold duplicate keys
	cfg.EncoderConfig.TimeKey = "logged_at"
	cfg.OutputPaths = []string{"stdout"}
	if path != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, path)
	}
	return cfg.Build()
}

// LedgerSink adapts a zap logger into a ledger.EventSink. Each event is one
// info line whose message is the event name; fields are emitted in sorted
// key order so lines are stable for diffing. Events missing schema-required
// fields are still written but flagged with a warn line.
func LedgerSink(l *zap.Logger) ledger.EventSink {
	return func(event string, fields map[string]interface{}) {
		if err := ValidateEvent(event, fields); err != nil {
			l.Warn("event schema violation", zap.String("event", event), zap.Error(err))
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		zf := make([]zap.Field, 0, len(keys))
		for _, k := range keys {
			zf = append(zf, zap.Any(k, fields[k]))
		}
		l.Info(event, zf...)
	}
}
