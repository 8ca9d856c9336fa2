// Package trader runs the evaluation loop and owns the bot's mutable state.
// All runtime state lives in an explicit Session value handed to its
// collaborators, never in package globals.
package trader

import (
	"sync"
	"time"

	"smcbot/internal/strategy"
)

// Params is the tunable evaluation configuration. It can be swapped between
// cycles (admin API or config reload); a running cycle keeps the snapshot it
// started with.
type Params struct {
	Symbols               []string `json:"symbols"`
	Timeframe             string   `json:"timeframe"`
	CandleLimit           int      `json:"candle_limit"`
	OrderBlockLookback    int      `json:"order_block_lookback"`
	MinCombinedConfidence float64  `json:"min_combined_confidence"`
}

// Status is a point-in-time snapshot of the session for reporting.
type Status struct {
	Running     bool      `json:"running"`
	Environment string    `json:"environment"`
	Equity      float64   `json:"account_balance"`
	OpenTrades  int       `json:"open_trades"`
	TotalTrades int       `json:"total_trades"`
	TotalPnL    float64   `json:"total_pnl"`
	WinRate     float64   `json:"win_rate"`
	LastUpdate  time.Time `json:"last_update"`
}

// Session is the injectable bot state: run flag, environment, equity and the
// trade ledger, plus the active risk policy and evaluation params.
type Session struct {
	mu          sync.RWMutex
	running     bool
	environment string
	equity      float64
	peakEquity  float64
	open        []Trade
	closed      []Trade
	totalPnL    float64
	winCount    int
	lossCount   int
	policy      strategy.RiskPolicy
	params      Params
	lastUpdate  time.Time
}

func NewSession(environment string, policy strategy.RiskPolicy, params Params) *Session {
	return &Session{
		environment: environment,
		policy:      policy,
		params:      params,
		lastUpdate:  time.Now(),
	}
}

func (s *Session) Start() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
}

func (s *Session) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Session) Environment() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment
}

func (s *Session) SetEnvironment(env string) {
	s.mu.Lock()
	s.environment = env
	s.mu.Unlock()
}

func (s *Session) Policy() strategy.RiskPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

func (s *Session) SetPolicy(policy strategy.RiskPolicy) {
	s.mu.Lock()
	s.policy = policy
	s.mu.Unlock()
}

func (s *Session) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.params
	p.Symbols = append([]string(nil), s.params.Symbols...)
	return p
}

func (s *Session) SetParams(params Params) {
	s.mu.Lock()
	s.params = params
	s.mu.Unlock()
}

// UpdateEquity records the latest account equity and tracks the peak for
// drawdown accounting.
func (s *Session) UpdateEquity(equity float64) {
	s.mu.Lock()
	s.equity = equity
	if equity > s.peakEquity {
		s.peakEquity = equity
	}
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

func (s *Session) Equity() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.equity
}

// Drawdown returns the fractional decline from the session's equity peak.
func (s *Session) Drawdown() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.peakEquity <= 0 {
		return 0
	}
	return (s.peakEquity - s.equity) / s.peakEquity
}

func (s *Session) RecordOpen(t Trade) {
	s.mu.Lock()
	s.open = append(s.open, t)
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

// RecordClose moves a trade from the open to the closed ledger and updates
// the aggregate counters. Returns false if the trade is not open.
func (s *Session) RecordClose(id string, pnl float64, closedAt time.Time) (Trade, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.open {
		if t.ID != id {
			continue
		}
		t.PnL = pnl
		t.Status = TradeClosed
		t.ClosedAt = closedAt
		s.open = append(s.open[:i], s.open[i+1:]...)
		s.closed = append(s.closed, t)
		s.totalPnL += pnl
		if pnl > 0 {
			s.winCount++
		} else {
			s.lossCount++
		}
		s.lastUpdate = time.Now()
		return t, true
	}
	return Trade{}, false
}

func (s *Session) OpenTrades() []Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Trade(nil), s.open...)
}

func (s *Session) OpenTrade(id string) (Trade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.open {
		if t.ID == id {
			return t, true
		}
	}
	return Trade{}, false
}

func (s *Session) ClosedTrades(limit int) []Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.closed) {
		limit = len(s.closed)
	}
	return append([]Trade(nil), s.closed[len(s.closed)-limit:]...)
}

// HasOpenSymbol reports whether a trade on symbol is already open; one
// position per symbol at a time.
func (s *Session) HasOpenSymbol(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.open {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}

func (s *Session) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := s.winCount + s.lossCount
	winRate := 0.0
	if total > 0 {
		winRate = float64(s.winCount) / float64(total)
	}
	return Status{
		Running:     s.running,
		Environment: s.environment,
		Equity:      s.equity,
		OpenTrades:  len(s.open),
		TotalTrades: total,
		TotalPnL:    s.totalPnL,
		WinRate:     winRate,
		LastUpdate:  s.lastUpdate,
	}
}
