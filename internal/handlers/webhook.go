package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	stripego "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/pawpopart/pawpop-fulfillment/internal/monitoring"
	"github.com/pawpopart/pawpop-fulfillment/internal/orders"
	stripeapi "github.com/pawpopart/pawpop-fulfillment/internal/stripe"
)

// WebhookHandler receives payment provider events. After the signature
// checks out, processing failures are acknowledged with 200 anyway: the
// provider's retries cannot fix a bug on our side, and reconciliation picks
// up anything we dropped.
type WebhookHandler struct {
	webhookSecret string
	sessions      stripeapi.SessionRetriever
	orders        *orders.Store
	processor     *orders.Processor
	monitor       *monitoring.Service
}

func NewWebhookHandler(webhookSecret string, sessions stripeapi.SessionRetriever, orderStore *orders.Store, processor *orders.Processor, monitor *monitoring.Service) *WebhookHandler {
	return &WebhookHandler{
		webhookSecret: webhookSecret,
		sessions:      sessions,
		orders:        orderStore,
		processor:     processor,
		monitor:       monitor,
	}
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	if h.webhookSecret == "" {
		slog.Error("webhook received but STRIPE_WEBHOOK_SECRET is not set")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Webhook not configured")
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	event, err := webhook.ConstructEvent(payload, c.Request().Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		slog.Error("webhook signature verification failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid signature")
	}

	start := time.Now()
	processErr := h.handleEvent(c.Request().Context(), event)
	h.monitor.TrackWebhookEvent(c.Request().Context(), monitoring.Outcome{
		EventID:   event.ID,
		EventType: string(event.Type),
		Err:       processErr,
		Duration:  time.Since(start),
	})

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

func (h *WebhookHandler) handleEvent(ctx context.Context, event stripego.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var session stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		return h.handleCheckoutCompleted(ctx, &session)

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		var session stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		return h.handleCheckoutFailed(ctx, &session, string(event.Type))

	case "payment_intent.payment_failed":
		var intent stripego.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("failed to parse payment intent: %w", err)
		}
		slog.Warn("payment failed", "payment_intent_id", intent.ID)
		return nil

	default:
		slog.Debug("unhandled webhook event", "event_type", event.Type)
		return nil
	}
}

// handleCheckoutFailed cancels the order behind a session that expired or
// whose async payment failed. Sessions we never opened an order for, and
// orders already cancelled, are left alone.
func (h *WebhookHandler) handleCheckoutFailed(ctx context.Context, session *stripego.CheckoutSession, reason string) error {
	order, err := h.orders.GetBySessionID(ctx, session.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if order.OrderStatus == orders.StatusCancelled {
		return nil
	}
	slog.Info("cancelling order for failed checkout session",
		"order_id", order.ID, "session_id", session.ID, "reason", reason)
	return h.orders.UpdateStatus(ctx, order.ID, orders.StatusCancelled, "Checkout "+reason)
}

func (h *WebhookHandler) handleCheckoutCompleted(ctx context.Context, session *stripego.CheckoutSession) error {
	md := orders.ParseMetadata(session)
	if md == nil {
		slog.Info("checkout session has no order metadata, ignoring", "session_id", session.ID)
		return nil
	}

	slog.Info("checkout session completed",
		"session_id", session.ID,
		"product_type", md.ProductType,
		"amount_total", session.AmountTotal)

	// Event payloads can omit expanded shipping details, which physical
	// fulfillment needs. Digital orders skip the extra round trip.
	if md.ProductType.IsPhysical() && h.sessions != nil {
		full, err := h.sessions.GetCheckoutSession(ctx, session.ID, true)
		if err != nil {
			slog.Error("failed to fetch full checkout session, using event payload",
				"session_id", session.ID, "error", err)
		} else {
			session = full
		}
	}

	order, err := h.orders.EnsureOrder(ctx, session.ID, orders.FieldsFromSession(session, md))
	if err != nil {
		return err
	}

	// A redelivered event for an order that already moved past paid is a
	// duplicate; log and acknowledge without re-running side effects. A
	// paid order is still processable: reconciliation may have created it
	// before this event arrived, and processing is what the webhook owes.
	switch order.OrderStatus {
	case orders.StatusPending, orders.StatusPaid:
	default:
		slog.Info("duplicate checkout event, order already processed",
			"order_id", order.ID, "order_status", order.OrderStatus)
		return nil
	}

	var paymentIntentID string
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}
	if err := h.orders.UpdateAfterPayment(ctx, session.ID, paymentIntentID, orders.ShippingFromSession(session)); err != nil {
		return err
	}
	if order.OrderStatus == orders.StatusPending {
		if err := h.orders.UpdateStatus(ctx, order.ID, orders.StatusPaid, "Payment confirmed"); err != nil {
			return err
		}
	}

	return h.processor.ProcessOrder(ctx, session, md)
}
