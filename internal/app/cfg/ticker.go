package cfg

import (
	"github.com/opera-aberglund/nimble-server-lib/internal"
	"github.com/opera-aberglund/nimble-server-lib/internal/app/apps"
)

// TickerCfg is configuration for the interval between server update
// ticks.
type TickerCfg struct {
	ms int
}

// NewTickerCfg creates a new TickerCfg from an explicit interval.
func NewTickerCfg(ms int) *TickerCfg {
	return &TickerCfg{ms: ms}
}

// TickerFromEnv creates a new TickerCfg from the current environment.
func TickerFromEnv() *TickerCfg {
	return &TickerCfg{ms: internal.ServerTickerMS}
}

// ApplyServerApp applies the TickerCfg to a ServerApp.
func (cfg TickerCfg) ApplyServerApp(app *apps.ServerApp) error {
	if cfg.ms > 0 {
		app.ServerTickerMS = cfg.ms
	}
	return nil
}
