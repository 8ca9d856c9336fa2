package trader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smcbot/internal/analysis/smc"
	"smcbot/internal/gateway/exchange"
	"smcbot/internal/logger"
	"smcbot/internal/market"
	"smcbot/internal/scheduler"
	"smcbot/internal/store/tradestore"
	"smcbot/internal/strategy"
)

// cycleInterval is the pause between evaluation passes while running.
const cycleInterval = time.Minute

// minStructuralStrength is the weakest composite pattern score that still
// counts as a tradeable setup.
const minStructuralStrength = 0.5

// reconcileGrace shields freshly opened trades from reconcile: a market
// order placed this cycle may not show up in the positions listing yet.
const reconcileGrace = cycleInterval

// Trader drives the evaluation cycle: candles in, orders out. All state it
// mutates lives in the injected Session.
type Trader struct {
	session  *Session
	source   market.Source
	exchange exchange.Exchange
	klines   market.KlineStore
	trades   *tradestore.Store
	score    strategy.ScoreProvider
	maxCache int
}

func New(session *Session, source market.Source, ex exchange.Exchange, klines market.KlineStore, trades *tradestore.Store, score strategy.ScoreProvider, maxCache int) (*Trader, error) {
	if session == nil {
		return nil, fmt.Errorf("trader requires a session")
	}
	if source == nil || ex == nil {
		return nil, fmt.Errorf("trader requires a market source and an exchange")
	}
	if klines == nil {
		klines = market.NewMemoryStore()
	}
	if score == nil {
		score = strategy.StaticScore(strategy.MinActionableConfidence)
	}
	if maxCache <= 0 {
		maxCache = 500
	}
	return &Trader{
		session:  session,
		source:   source,
		exchange: ex,
		klines:   klines,
		trades:   trades,
		score:    score,
		maxCache: maxCache,
	}, nil
}

// Run blocks, executing one evaluation cycle per interval until ctx ends.
func (t *Trader) Run(ctx context.Context) error {
	sched := scheduler.NewIntervalScheduler(ctx, cycleInterval)
	sched.RunImmediately = true
	sched.Start(func() { t.Cycle(ctx) })
	return nil
}

// Cycle performs one full pass: refresh equity, evaluate every configured
// symbol, then reconcile open trades against exchange positions. Errors are
// logged per symbol; one bad symbol never aborts the pass.
func (t *Trader) Cycle(ctx context.Context) {
	if !t.session.Running() {
		return
	}
	policy := t.session.Policy()
	params := t.session.Params()

	if equity, err := t.exchange.WalletEquity(ctx); err != nil {
		logger.Warnf("trader: equity refresh failed: %v", err)
	} else {
		t.session.UpdateEquity(equity)
	}

	if dd := t.session.Drawdown(); policy.MaxDrawdown > 0 && dd >= policy.MaxDrawdown {
		logger.Errorf("trader: drawdown %.2f%% breached limit %.2f%%, stopping session",
			dd*100, policy.MaxDrawdown*100)
		t.session.Stop()
		return
	}

	for _, symbol := range params.Symbols {
		if policy.MaxOpenTrades > 0 && len(t.session.OpenTrades()) >= policy.MaxOpenTrades {
			logger.Debugf("trader: open trade limit %d reached, skip rest of cycle", policy.MaxOpenTrades)
			break
		}
		if err := t.evaluateSymbol(ctx, symbol, policy, params); err != nil {
			logger.Warnf("trader: evaluating %s failed: %v", symbol, err)
		}
	}

	t.reconcile(ctx)
}

func (t *Trader) evaluateSymbol(ctx context.Context, symbol string, policy strategy.RiskPolicy, params Params) error {
	if t.session.HasOpenSymbol(symbol) {
		return nil
	}

	fetched, err := t.source.FetchHistory(ctx, symbol, params.Timeframe, params.CandleLimit)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	if len(fetched) == 0 {
		return nil
	}
	if err := t.klines.Put(ctx, symbol, params.Timeframe, fetched, t.maxCache); err != nil {
		return fmt.Errorf("cache candles: %w", err)
	}
	candles, err := t.klines.Get(ctx, symbol, params.Timeframe)
	if err != nil {
		return fmt.Errorf("read candle cache: %w", err)
	}
	logger.Debugf("trader: %s series of %d candles through %s",
		symbol, len(candles), candles[len(candles)-1].OpenAt().Format(time.RFC3339))

	blocks, err := smc.DetectOrderBlocks(candles, params.OrderBlockLookback)
	if err != nil {
		return err
	}
	choch := smc.DetectChoch(candles)
	engulfing := smc.DetectEngulfing(candles)
	structural, direction := smc.Strength(blocks, choch, engulfing)
	if direction == smc.DirectionNeutral || structural < minStructuralStrength {
		return nil
	}

	modelScore, err := t.score.Score(ctx, symbol, candles)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	combined := strategy.Blend(structural, modelScore)
	if combined < params.MinCombinedConfidence {
		logger.Debugf("trader: %s combined confidence %.3f below %.3f, skip",
			symbol, combined, params.MinCombinedConfidence)
		return nil
	}

	signal, err := strategy.GenerateSignal(candles, symbol, combined, params.OrderBlockLookback)
	if err != nil {
		return err
	}
	plan, err := strategy.CalculatePosition(signal, t.session.Equity(), policy)
	if err != nil {
		return err
	}
	if plan == nil {
		return nil
	}
	return t.openTrade(ctx, signal, *plan)
}

func (t *Trader) openTrade(ctx context.Context, signal strategy.Signal, plan strategy.TradePlan) error {
	productID, err := t.exchange.ProductID(ctx, signal.Symbol)
	if err != nil {
		return err
	}
	result, err := t.exchange.PlaceOrder(ctx, exchange.OrderRequest{
		ProductID: productID,
		Side:      string(plan.Side),
		Size:      plan.Size,
		OrderType: "market_order",
	})
	if err != nil {
		return fmt.Errorf("place order: %w", err)
	}

	trade := Trade{
		ID:              uuid.NewString(),
		OrderID:         result.ID,
		Symbol:          signal.Symbol,
		Side:            plan.Side,
		Entry:           plan.Entry,
		StopLoss:        plan.StopLoss,
		TakeProfit:      plan.TakeProfit,
		Size:            plan.Size,
		RiskAmount:      plan.RiskAmount,
		PotentialProfit: plan.PotentialProfit,
		Status:          TradeOpen,
		OpenedAt:        time.Now(),
	}
	t.session.RecordOpen(trade)
	logger.Infof("trader: opened %s %s size=%.6f entry=%.2f stop=%.2f target=%.2f risk=%.2f",
		trade.Side, trade.Symbol, trade.Size, trade.Entry, trade.StopLoss, trade.TakeProfit, trade.RiskAmount)

	t.persistOpen(ctx, trade, signal)
	return nil
}

func (t *Trader) persistOpen(ctx context.Context, trade Trade, signal strategy.Signal) {
	if t.trades == nil {
		return
	}
	snapshot, err := json.Marshal(signal)
	if err != nil {
		snapshot = nil
	}
	rec := tradestore.TradeModel{
		ID:              trade.ID,
		OrderID:         trade.OrderID,
		Symbol:          trade.Symbol,
		Side:            string(trade.Side),
		Environment:     t.session.Environment(),
		Entry:           trade.Entry,
		StopLoss:        trade.StopLoss,
		TakeProfit:      trade.TakeProfit,
		Size:            trade.Size,
		RiskAmount:      trade.RiskAmount,
		PotentialProfit: trade.PotentialProfit,
		Status:          tradestore.StatusOpen,
		Signal:          snapshot,
		OpenedAt:        trade.OpenedAt,
	}
	if err := t.trades.Insert(ctx, rec); err != nil {
		logger.Warnf("trader: persisting trade %s failed: %v", trade.ID, err)
	}
}

// reconcile pulls exchange positions and closes any session trade whose
// position has gone flat, booking its realized PnL. The venue omits flat
// positions from the listing, so a symbol absent past the grace window is
// treated as closed on the exchange side.
func (t *Trader) reconcile(ctx context.Context) {
	open := t.session.OpenTrades()
	if len(open) == 0 {
		return
	}
	positions, err := t.exchange.Positions(ctx)
	if err != nil {
		logger.Warnf("trader: fetching positions failed: %v", err)
		return
	}
	bySymbol := make(map[string]exchange.Position, len(positions))
	for _, pos := range positions {
		bySymbol[pos.Symbol] = pos
	}
	for _, trade := range open {
		pos, ok := bySymbol[trade.Symbol]
		switch {
		case !ok:
			if time.Since(trade.OpenedAt) >= reconcileGrace {
				t.closeTrade(ctx, trade.ID, 0)
			}
		case pos.Size == 0:
			t.closeTrade(ctx, trade.ID, pos.RealizedPnL)
		}
	}
}

func (t *Trader) closeTrade(ctx context.Context, id string, pnl float64) {
	closedAt := time.Now()
	trade, ok := t.session.RecordClose(id, pnl, closedAt)
	if !ok {
		return
	}
	logger.Infof("trader: closed %s trade on %s pnl=%.2f", trade.Side, trade.Symbol, pnl)
	if t.trades != nil {
		if err := t.trades.MarkClosed(ctx, id, pnl, closedAt); err != nil {
			logger.Warnf("trader: marking trade %s closed failed: %v", id, err)
		}
	}
}

// CloseManually places an opposing market order for an open trade and books
// it as closed. Used by the admin API.
func (t *Trader) CloseManually(ctx context.Context, id string) error {
	trade, ok := t.session.OpenTrade(id)
	if !ok {
		return fmt.Errorf("trade %s not found", id)
	}
	productID, err := t.exchange.ProductID(ctx, trade.Symbol)
	if err != nil {
		return err
	}
	opposite := strategy.SideSell
	if trade.Side == strategy.SideSell {
		opposite = strategy.SideBuy
	}
	if _, err := t.exchange.PlaceOrder(ctx, exchange.OrderRequest{
		ProductID: productID,
		Side:      string(opposite),
		Size:      trade.Size,
		OrderType: "market_order",
	}); err != nil {
		return fmt.Errorf("close order: %w", err)
	}
	t.closeTrade(ctx, id, 0)
	return nil
}
