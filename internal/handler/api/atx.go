package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"AtxEngine/internal/domain/models"
	icache "AtxEngine/internal/service/cache"
	svcmetrics "AtxEngine/internal/service/metrics"
	"AtxEngine/internal/service/ratelimit"
	"AtxEngine/internal/usecase"
	xhttp "AtxEngine/pkg/http"
	xlogger "AtxEngine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CacheTTLs controls how long each read endpoint may serve a cached body.
type CacheTTLs struct {
	Account time.Duration
	Trend   time.Duration
	Day     time.Duration
}

func (t *CacheTTLs) withDefaults() CacheTTLs {
	out := CacheTTLs{Account: 15 * time.Second, Trend: 60 * time.Second, Day: 5 * time.Minute}
	if t == nil {
		return out
	}
	if t.Account > 0 {
		out.Account = t.Account
	}
	if t.Trend > 0 {
		out.Trend = t.Trend
	}
	if t.Day > 0 {
		out.Day = t.Day
	}
	return out
}

// ATXHandler serves the account scoring read endpoints. Responses are the
// raw documented shapes, not the envelope the admin endpoints use.
type ATXHandler struct {
	l      *xlogger.Logger
	reader *usecase.ScoreReader
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
	ttl    CacheTTLs
}

func NewATXHandler(l *xlogger.Logger, reader *usecase.ScoreReader, cache icache.BytesCache, ttl *CacheTTLs) *ATXHandler {
	return &ATXHandler{
		l:      l,
		reader: reader,
		cache:  cache,
		rl:     ratelimit.New(),
		ttl:    ttl.withDefaults(),
	}
}

func (h *ATXHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/atx/accounts")
	g.GET("/:id", h.Account)
	g.GET("/:id/trend", h.Trend)
	g.GET("/:id/day", h.Day)
	g.GET("/:id/sources", h.Sources)
}

// Account handles GET /atx/accounts/:id.
func (h *ATXHandler) Account(c echo.Context) error {
	const endpoint = "account_atx"
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.AccountATXRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 20, 10) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	key := fmt.Sprintf("atx:v1:%s:%s:%s", req.AccountID, req.Timeframe, req.Sources)
	if b, ok := h.cached(key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.reader.GetAccountATX(c.Request().Context(), req)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logErr(endpoint, err)
		return xhttp.AppErrorResponse(c, err)
	}
	return h.respond(c, key, h.ttl.Account, res)
}

// Trend handles GET /atx/accounts/:id/trend.
func (h *ATXHandler) Trend(c echo.Context) error {
	const endpoint = "account_trend"
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 10, 5) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	key := fmt.Sprintf("trend:v1:%s:%s:%d:%s", req.AccountID, req.Interval, req.Limit, req.Sources)
	if b, ok := h.cached(key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.reader.GetTrend(c.Request().Context(), req)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logErr(endpoint, err)
		return xhttp.AppErrorResponse(c, err)
	}
	return h.respond(c, key, h.ttl.Trend, res)
}

// Day handles GET /atx/accounts/:id/day. A day without trades answers with a
// null snapshot, never a zero score.
func (h *ATXHandler) Day(c echo.Context) error {
	const endpoint = "account_day"
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.DayRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 20, 10) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	key := fmt.Sprintf("day:v1:%s:%s:%s", req.AccountID, req.Date, req.Sources)
	if b, ok := h.cached(key); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.reader.GetDay(c.Request().Context(), req)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logErr(endpoint, err)
		return xhttp.AppErrorResponse(c, err)
	}
	return h.respond(c, key, h.ttl.Day, res)
}

// Sources handles GET /atx/accounts/:id/sources.
func (h *ATXHandler) Sources(c echo.Context) error {
	const endpoint = "account_sources"
	start := time.Now()
	defer func() {
		svcmetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	id := c.Param("id")
	if id == "" {
		return xhttp.BadRequestResponse(c, "account id is required")
	}
	srcs, err := h.reader.AccountSources(c.Request().Context(), id)
	if err != nil {
		svcmetrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logErr(endpoint, err)
		return xhttp.AppErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"accountId": id, "sources": srcs})
}

func (h *ATXHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil || !ok {
		return nil, false
	}
	return b, true
}

func (h *ATXHandler) respond(c echo.Context, key string, ttl time.Duration, res interface{}) error {
	b, err := json.Marshal(res)
	if err != nil {
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil {
		_ = h.cache.SetBytes(key, b, ttl)
	}
	return c.JSONBlob(http.StatusOK, b)
}

func (h *ATXHandler) logErr(endpoint string, err error) {
	if h.l != nil {
		h.l.Error(endpoint+" usecase error", xlogger.Error(err))
	}
}
