package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smcbot/internal/config"
	"smcbot/internal/gateway/binance"
	"smcbot/internal/gateway/delta"
	"smcbot/internal/logger"
	"smcbot/internal/market"
	"smcbot/internal/ml"
	"smcbot/internal/store/tradestore"
	"smcbot/internal/strategy"
	"smcbot/internal/trader"
	httpapi "smcbot/internal/transport/http"
)

// AppBuilder assembles the application graph from configuration.
type AppBuilder struct {
	cfg     *config.Config
	cfgPath string
}

func NewAppBuilder(cfg *config.Config, cfgPath string) *AppBuilder {
	return &AppBuilder{cfg: cfg, cfgPath: cfgPath}
}

func (b *AppBuilder) Build(_ context.Context) (*App, error) {
	cfg := b.cfg
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	session := trader.NewSession(
		strings.ToLower(strings.TrimSpace(cfg.App.Env)),
		policyFromConfig(cfg.Risk),
		paramsFromConfig(cfg.Trading),
	)

	ex, err := buildExchange(cfg, session)
	if err != nil {
		return nil, err
	}
	source, err := buildMarketSource(cfg, ex)
	if err != nil {
		return nil, err
	}

	trades, err := tradestore.New(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening trade store: %w", err)
	}

	klines := market.NewMemoryStore()
	bot, err := trader.New(session, source, ex, klines, trades, ml.NewProvider(), cfg.Kline.MaxCached)
	if err != nil {
		return nil, err
	}

	server, err := httpapi.NewServer(httpapi.ServerConfig{
		Addr:    cfg.App.HTTPAddr,
		Session: session,
		Trader:  bot,
		Trades:  trades,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		cfgPath: b.cfgPath,
		session: session,
		trader:  bot,
		http:    server,
		trades:  trades,
	}, nil
}

func buildExchange(cfg *config.Config, session *trader.Session) (*switchableExchange, error) {
	timeout := time.Duration(cfg.Delta.TimeoutSeconds) * time.Second
	testnet, err := delta.New(delta.Config{
		RESTBaseURL: cfg.Delta.Testnet.RESTBaseURL,
		APIKey:      cfg.Delta.Testnet.APIKey,
		APISecret:   cfg.Delta.Testnet.APISecret,
		HTTPTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("building testnet exchange: %w", err)
	}
	live, err := delta.New(delta.Config{
		RESTBaseURL: cfg.Delta.Live.RESTBaseURL,
		APIKey:      cfg.Delta.Live.APIKey,
		APISecret:   cfg.Delta.Live.APISecret,
		HTTPTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("building live exchange: %w", err)
	}
	return &switchableExchange{testnet: testnet, live: live, env: session.Environment}, nil
}

func buildMarketSource(cfg *config.Config, ex *switchableExchange) (market.Source, error) {
	src := cfg.Market.ResolveActiveSource()
	switch strings.ToLower(strings.TrimSpace(src.Name)) {
	case "", "delta":
		return ex, nil
	case "binance":
		logger.Infof("market data source: binance (%s)", src.RESTBaseURL)
		return binance.New(binance.Config{RESTBaseURL: src.RESTBaseURL}), nil
	default:
		return nil, fmt.Errorf("unknown market source %q", src.Name)
	}
}

func policyFromConfig(rc config.RiskConfig) strategy.RiskPolicy {
	return strategy.RiskPolicy{
		MaxRiskPerTrade: rc.MaxRiskPerTrade,
		MaxPositionSize: rc.MaxPositionSize,
		RewardRiskRatio: rc.RewardRiskRatio,
		MaxDrawdown:     rc.MaxDrawdown,
		MaxOpenTrades:   rc.MaxOpenTrades,
	}
}

func paramsFromConfig(tc config.TradingConfig) trader.Params {
	return trader.Params{
		Symbols:               append([]string(nil), tc.Symbols...),
		Timeframe:             tc.Timeframe,
		CandleLimit:           tc.CandleLimit,
		OrderBlockLookback:    tc.OrderBlockLookback,
		MinCombinedConfidence: tc.MinCombinedConfidence,
	}
}
