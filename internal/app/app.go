package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"smcbot/internal/config"
	"smcbot/internal/logger"
	"smcbot/internal/store/tradestore"
	"smcbot/internal/trader"
	httpapi "smcbot/internal/transport/http"
)

// App owns application-level orchestration: config in, HTTP server and
// trading loop out.
type App struct {
	cfg     *config.Config
	cfgPath string
	session *trader.Session
	trader  *trader.Trader
	http    *httpapi.Server
	trades  *tradestore.Store
}

// NewApp builds the application object from config without starting it.
// cfgPath enables hot-reload of risk/trading parameters; empty disables it.
func NewApp(cfg *config.Config, cfgPath string) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg, cfgPath)
}

// Run starts the HTTP server and the trading loop, blocking until ctx is
// cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	logger.Infof("smcbot starting (env=%s, symbols=%v, timeframe=%s)",
		a.session.Environment(), a.cfg.Trading.Symbols, a.cfg.Trading.Timeframe)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Infof("http: listening on %s", a.http.Addr())
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		defer a.trades.Close()
		return a.trader.Run(ctx)
	})

	if a.cfgPath != "" {
		group.Go(func() error {
			return config.Watch(ctx, a.cfgPath, a.applyReloaded)
		})
	}

	return group.Wait()
}

// applyReloaded swaps in the reloaded risk policy and trading parameters.
// The loop picks them up at its next cycle.
func (a *App) applyReloaded(cfg *config.Config) {
	logger.SetLevel(cfg.App.LogLevel)
	a.session.SetPolicy(policyFromConfig(cfg.Risk))
	a.session.SetParams(paramsFromConfig(cfg.Trading))
}

// Session exposes the running session (for tests and replay harnesses).
func (a *App) Session() *trader.Session {
	if a == nil {
		return nil
	}
	return a.session
}
