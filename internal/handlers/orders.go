package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawpopart/pawpop-fulfillment/internal/orders"
	"github.com/pawpopart/pawpop-fulfillment/internal/printify"
)

type OrderHandler struct {
	store      *orders.Store
	reconciler *orders.Reconciler
}

func NewOrderHandler(store *orders.Store, reconciler *orders.Reconciler) *OrderHandler {
	return &OrderHandler{
		store:      store,
		reconciler: reconciler,
	}
}

type orderStatusResponse struct {
	OrderNumber       string `json:"orderNumber"`
	OrderID           string `json:"orderId"`
	CustomerEmail     string `json:"customerEmail"`
	CustomerName      string `json:"customerName"`
	ProductType       string `json:"productType"`
	ProductSize       string `json:"productSize"`
	Price             string `json:"price"`
	OrderStatus       string `json:"orderStatus"`
	EstimatedDelivery string `json:"estimatedDelivery"`
	CreatedAt         string `json:"createdAt"`
}

// GetOrderBySession serves the post-checkout confirmation page lookup.
func (h *OrderHandler) GetOrderBySession(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Session ID is required")
	}

	order, err := h.store.GetBySessionID(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		slog.Error("failed to load order", "session_id", sessionID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load order")
	}

	productType := printify.ProductType(order.ProductType)
	return c.JSON(http.StatusOK, orderStatusResponse{
		OrderNumber:       orders.OrderNumber(order),
		OrderID:           order.ID,
		CustomerEmail:     order.CustomerEmail,
		CustomerName:      order.CustomerName,
		ProductType:       productType.DisplayName(),
		ProductSize:       order.ProductSize,
		Price:             fmt.Sprintf("$%.2f", float64(order.PriceCents)/100),
		OrderStatus:       order.OrderStatus,
		EstimatedDelivery: estimatedDelivery(productType),
		CreatedAt:         order.CreatedAt.Format(time.RFC3339),
	})
}

// estimatedDelivery projects a business-day delivery date per product type.
func estimatedDelivery(productType printify.ProductType) string {
	var businessDays int
	switch productType {
	case printify.ProductTypeDigital:
		return "Available immediately"
	case printify.ProductTypeArtPrint:
		businessDays = 7
	case printify.ProductTypeCanvasStretched:
		businessDays = 8
	case printify.ProductTypeCanvasFramed:
		businessDays = 10
	default:
		businessDays = 7
	}

	date := time.Now()
	for added := 0; added < businessDays; {
		date = date.AddDate(0, 0, 1)
		if date.Weekday() != time.Saturday && date.Weekday() != time.Sunday {
			added++
		}
	}
	return date.Format("Monday, January 2, 2006")
}

type reconcileRequest struct {
	SessionIDs []string `json:"sessionIds"`
	TimeRange  *struct {
		Hours int `json:"hours"`
	} `json:"timeRange"`
}

type reconcileResponse struct {
	Success    bool                     `json:"success"`
	Reconciled int                      `json:"reconciled"`
	Results    []orders.ReconcileResult `json:"results"`
}

// Reconcile backfills orders for paid sessions the webhook missed. Called by
// the success page after its lookup retries run out, so it takes explicit
// session IDs only; every field is re-derived from the payment provider and
// the ensure-order semantics make repeat calls safe.
func (h *OrderHandler) Reconcile(c echo.Context) error {
	var req reconcileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(req.SessionIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Provide sessionIds")
	}

	results := h.reconciler.ReconcileSessions(c.Request().Context(), req.SessionIDs)
	return c.JSON(http.StatusOK, reconcileResponse{
		Success:    true,
		Reconciled: len(results),
		Results:    results,
	})
}

// ReconcileSweep re-derives orders for every recent session in a lookback
// window. Admin only.
func (h *OrderHandler) ReconcileSweep(c echo.Context) error {
	var req reconcileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.TimeRange == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Provide timeRange")
	}

	results, err := h.reconciler.ReconcileWindow(c.Request().Context(), req.TimeRange.Hours)
	if err != nil {
		slog.Error("reconciliation sweep failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Reconciliation failed")
	}

	return c.JSON(http.StatusOK, reconcileResponse{
		Success:    true,
		Reconciled: len(results),
		Results:    results,
	})
}
