package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pawpopart/pawpop-fulfillment/internal/monitoring"
)

type HealthHandler struct {
	db                 *sql.DB
	monitor            *monitoring.Service
	stripeConfigured   bool
	printifyConfigured bool
}

func NewHealthHandler(database *sql.DB, monitor *monitoring.Service, stripeConfigured, printifyConfigured bool) *HealthHandler {
	return &HealthHandler{
		db:                 database,
		monitor:            monitor,
		stripeConfigured:   stripeConfigured,
		printifyConfigured: printifyConfigured,
	}
}

// Health reports database reachability and provider configuration. Missing
// provider credentials are surfaced but never fail the check, since the
// service degrades to fallbacks without them.
func (h *HealthHandler) Health(c echo.Context) error {
	status := "ok"
	database := "ok"
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		slog.Error("health check database ping failed", "error", err)
		status = "degraded"
		database = "unreachable"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":   status,
		"database": database,
		"stripe":   configState(h.stripeConfigured),
		"printify": configState(h.printifyConfigured),
	})
}

func configState(configured bool) string {
	if configured {
		return "configured"
	}
	return "not_configured"
}

// WebhookStats exposes the recent webhook processing window for dashboards.
func (h *HealthHandler) WebhookStats(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.monitor.Stats(ctx)
	if err != nil {
		slog.Error("failed to load webhook stats", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	events, err := h.monitor.RecentEvents(ctx, limit)
	if err != nil {
		slog.Error("failed to load recent webhook events", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}

	eventJSON := make([]map[string]any, len(events))
	for i, e := range events {
		eventJSON[i] = map[string]any{
			"eventId":      e.EventID,
			"eventType":    e.EventType,
			"status":       e.Status,
			"processingMs": e.ProcessingMs,
			"createdAt":    e.CreatedAt,
		}
		if e.ErrorMessage.Valid {
			eventJSON[i]["error"] = e.ErrorMessage.String
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stats":  stats,
		"events": eventJSON,
	})
}
