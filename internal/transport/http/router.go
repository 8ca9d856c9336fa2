package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"smcbot/internal/scheduler"
	"smcbot/internal/store/tradestore"
	"smcbot/internal/strategy"
	"smcbot/internal/trader"
)

type apiRouter struct {
	session *trader.Session
	trader  *trader.Trader
	trades  *tradestore.Store
}

func newRouter(cfg ServerConfig) *apiRouter {
	return &apiRouter{session: cfg.Session, trader: cfg.Trader, trades: cfg.Trades}
}

func (r *apiRouter) register(g *gin.RouterGroup) {
	g.GET("/health", r.health)
	g.GET("/status", r.status)
	g.POST("/control/start", r.start)
	g.POST("/control/stop", r.stop)
	g.POST("/control/environment", r.switchEnvironment)
	g.GET("/trades", r.listTrades)
	g.GET("/trades/history", r.tradeHistory)
	g.POST("/trades/close/:id", r.closeTrade)
	g.GET("/parameters", r.getParameters)
	g.POST("/parameters", r.updateParameters)
}

func (r *apiRouter) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
}

func (r *apiRouter) status(c *gin.Context) {
	c.JSON(http.StatusOK, r.session.Snapshot())
}

func (r *apiRouter) start(c *gin.Context) {
	r.session.Start()
	c.JSON(http.StatusOK, gin.H{"status": "Bot started", "running": true})
}

func (r *apiRouter) stop(c *gin.Context) {
	r.session.Stop()
	c.JSON(http.StatusOK, gin.H{"status": "Bot stopped", "running": false})
}

type environmentRequest struct {
	Environment string `json:"environment"`
}

func (r *apiRouter) switchEnvironment(c *gin.Context) {
	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	env := strings.ToLower(strings.TrimSpace(req.Environment))
	if env != "testnet" && env != "live" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid environment"})
		return
	}
	if r.session.Running() {
		c.JSON(http.StatusConflict, gin.H{"error": "stop the bot before switching environments"})
		return
	}
	r.session.SetEnvironment(env)
	c.JSON(http.StatusOK, gin.H{"environment": env, "status": "Environment switched"})
}

func (r *apiRouter) listTrades(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"open_trades":   r.session.OpenTrades(),
		"closed_trades": r.session.ClosedTrades(50),
	})
}

func (r *apiRouter) tradeHistory(c *gin.Context) {
	if r.trades == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trade history store not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	records, err := r.trades.ListRecent(c.Request.Context(), status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": records})
}

func (r *apiRouter) closeTrade(c *gin.Context) {
	if r.trader == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trader not configured"})
		return
	}
	id := c.Param("id")
	if err := r.trader.CloseManually(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Trade closed", "trade_id": id})
}

func (r *apiRouter) getParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"risk":    r.session.Policy(),
		"trading": r.session.Params(),
	})
}

type parametersRequest struct {
	Risk    *strategy.RiskPolicy `json:"risk"`
	Trading *trader.Params       `json:"trading"`
}

// updateParameters swaps risk policy and/or trading params. The running
// loop picks the new values up at its next cycle; no in-flight evaluation
// sees a partial update.
func (r *apiRouter) updateParameters(c *gin.Context) {
	var req parametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Risk != nil {
		if err := req.Risk.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		r.session.SetPolicy(*req.Risk)
	}
	if req.Trading != nil {
		if len(req.Trading.Symbols) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "trading.symbols cannot be empty"})
			return
		}
		if _, ok := scheduler.ParseIntervalDuration(req.Trading.Timeframe); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trading.timeframe"})
			return
		}
		r.session.SetParams(*req.Trading)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "Parameters updated",
		"risk":    r.session.Policy(),
		"trading": r.session.Params(),
	})
}
