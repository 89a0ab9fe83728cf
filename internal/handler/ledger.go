package handler

import (
	"net/http"

	"shoperp/internal/apierror"
	"shoperp/internal/dto"
	"shoperp/internal/service"
	"shoperp/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type LedgerHandler struct {
	svc service.LedgerService
	rdb *redis.Client
}

func NewLedgerHandler(svc service.LedgerService, rdb *redis.Client) *LedgerHandler {
	return &LedgerHandler{svc: svc, rdb: rdb}
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func (h *LedgerHandler) RecordSale(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordSale(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LedgerHandler) ListSales(c *gin.Context) {
	var filter dto.SearchFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter.Limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id format"))
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Purchases ─────────────────────────────────────────────────────────────────

func (h *LedgerHandler) RecordPurchase(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LedgerHandler) ListPurchases(c *gin.Context) {
	var filter dto.SearchFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListPurchases(c.Request.Context(), filter.Limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LedgerHandler) GetPurchase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id format"))
		return
	}
	resp, err := h.svc.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Movements & alerts ────────────────────────────────────────────────────────

func (h *LedgerHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockAlerts returns the recent low-stock alert feed produced by the worker
// pool. 503 when the alert store (redis) is not configured or unreachable.
func (h *LedgerHandler) StockAlerts(c *gin.Context) {
	if h.rdb == nil {
		respondErr(c, apierror.Unavailable("alert feed"))
		return
	}
	alerts, err := worker.RecentAlerts(c.Request.Context(), h.rdb, 50)
	if err != nil {
		respondErr(c, apierror.Unavailable("alert feed"))
		return
	}
	c.JSON(http.StatusOK, alerts)
}
