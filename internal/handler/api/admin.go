package api

import (
	"net/http"
	"time"

	"AtxEngine/internal/domain/models"
	domrepo "AtxEngine/internal/domain/repository"
	mid "AtxEngine/internal/middleware"
	"AtxEngine/internal/usecase"
	xhttp "AtxEngine/pkg/http"
	xlogger "AtxEngine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the write side: trade ingestion and the manual
// baseline/momentum controls, plus the health probe.
type AdminHandler struct {
	l      *xlogger.Logger
	ing    *usecase.TradeIngestor
	adv    *usecase.EpochAdvancer
	trades domrepo.TradeStore
	states domrepo.StateStore
}

func NewAdminHandler(l *xlogger.Logger, ing *usecase.TradeIngestor, adv *usecase.EpochAdvancer, trades domrepo.TradeStore, states domrepo.StateStore) *AdminHandler {
	return &AdminHandler{l: l, ing: ing, adv: adv, trades: trades, states: states}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/atx/accounts")
	g.POST("/:id/trades", h.IngestTrades)
	g.POST("/:id/baseline/lock", h.LockBaseline)
	g.POST("/:id/momentum/reset", h.ResetMomentum)
	e.GET("/healthz", h.Healthz)
}

// IngestTrades handles POST /atx/accounts/:id/trades. Trades failing
// validation are counted and dropped; the rest are stored as a batch.
func (h *AdminHandler) IngestTrades(c echo.Context) error {
	req := &models.IngestTradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	accepted := make([]*models.Trade, 0, len(req.Trades))
	rejected := 0
	for i := range req.Trades {
		t := req.Trades[i]
		t.AccountID = req.AccountID
		if err := mid.ValidateTrade(&t); err != nil {
			rejected++
			continue
		}
		accepted = append(accepted, &t)
	}

	if len(accepted) > 0 {
		if err := h.ing.ProcessBatch(c.Request().Context(), accepted); err != nil {
			h.logErr("ingest_trades", err)
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.CreatedResponse(c, &models.IngestTradesResponse{
		AccountID: req.AccountID,
		Accepted:  len(accepted),
		Rejected:  rejected,
	})
}

// LockBaseline handles POST /atx/accounts/:id/baseline/lock. Locking is
// refused, with a reason, until the observation window is established.
func (h *AdminHandler) LockBaseline(c echo.Context) error {
	req := &models.LockBaselineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	st, locked, reason, err := h.adv.LockBaseline(c.Request().Context(), req.AccountID, time.Now().UTC())
	if err != nil {
		h.logErr("lock_baseline", err)
		return xhttp.AppErrorResponse(c, err)
	}
	resp := &models.LockBaselineResponse{AccountID: req.AccountID, Locked: locked, Reason: reason}
	if st != nil {
		resp.Baseline = st.Baseline
	}
	if !locked {
		return xhttp.ConflictResponse(c, resp)
	}
	return xhttp.SuccessResponse(c, resp)
}

// ResetMomentum handles POST /atx/accounts/:id/momentum/reset.
func (h *AdminHandler) ResetMomentum(c echo.Context) error {
	req := &models.ResetMomentumRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	st, err := h.adv.ResetMomentum(c.Request().Context(), req.AccountID, time.Now().UTC())
	if err != nil {
		h.logErr("reset_momentum", err)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.ResetMomentumResponse{
		AccountID: req.AccountID,
		Momentum:  st.Momentum,
	})
}

// Healthz reports the health of the trade store and the state store.
func (h *AdminHandler) Healthz(c echo.Context) error {
	ctx := c.Request().Context()
	status := map[string]string{"trades": "ok", "state": "ok"}
	code := http.StatusOK

	if err := h.trades.Health(ctx); err != nil {
		status["trades"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := h.states.Health(ctx); err != nil {
		status["state"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

func (h *AdminHandler) logErr(endpoint string, err error) {
	if h.l != nil {
		h.l.Error(endpoint+" error", xlogger.Error(err))
	}
}
