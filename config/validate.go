package config

import (
	"errors"
	"fmt"
)

// Validate ensures the config describes a runnable simulation.
func Validate(cfg DeskConfig) error {
	if cfg.Instrument == "" {
		return errors.New("instrument is required")
	}
	if cfg.Quote.Volume <= 0 {
		return errors.New("quote.volume must be > 0")
	}
	if cfg.Quote.BaseSpread <= 0 {
		return errors.New("quote.baseSpread must be > 0")
	}
	if cfg.Quote.IdealInventory <= 0 {
		return errors.New("quote.idealInventory must be > 0")
	}
	if cfg.Quote.Sensitivity < 0 {
		return errors.New("quote.sensitivity must be >= 0")
	}
	if cfg.Quote.MaxSkew < 0 {
		return errors.New("quote.maxSkew must be >= 0")
	}
	if cfg.Client.BuyProb < 0 || cfg.Client.SellProb < 0 {
		return errors.New("client probabilities must be >= 0")
	}
	if cfg.Client.BuyProb+cfg.Client.SellProb > 1 {
		return errors.New("client.buyProb + client.sellProb must be <= 1")
	}
	if cfg.Fees.Client.Rate < 0 || cfg.Fees.Client.PerUnit < 0 ||
		cfg.Fees.Hedge.Rate < 0 || cfg.Fees.Hedge.PerUnit < 0 {
		return errors.New("fee parameters must be >= 0")
	}
	for inst, mult := range cfg.Multipliers {
		if mult <= 0 {
			return fmt.Errorf("multiplier for %s must be > 0", inst)
		}
	}
	if cfg.Risk.SingleMax < 0 || cfg.Risk.DailyMax < 0 || cfg.Risk.NetMax < 0 {
		return errors.New("risk limits must be >= 0")
	}
	if cfg.Prices.Path == "" {
		return errors.New("prices.path is required")
	}
	return nil
}
