package orders

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/pawpopart/pawpop-fulfillment/internal/stripe"
	stripego "github.com/stripe/stripe-go/v80"
)

// Reconcile outcome codes, one per session examined.
const (
	ReconcileExists     = "exists"
	ReconcileNotPaid    = "not_paid"
	ReconcileNoMetadata = "no_metadata"
	ReconcileCreated    = "reconciled"
	ReconcileError      = "error"
)

// ReconcileResult reports what happened to one session.
type ReconcileResult struct {
	SessionID     string `json:"sessionId"`
	Status        string `json:"status"`
	OrderID       string `json:"orderId,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Reconciler backfills orders for payment sessions the webhook never landed.
// It is strictly non-destructive: existing orders are reported, never
// modified, and a repeated run converges to all-exists.
type Reconciler struct {
	store    *Store
	sessions stripe.SessionRetriever
	lister   stripe.SessionLister
}

func NewReconciler(store *Store, sessions stripe.SessionRetriever, lister stripe.SessionLister) *Reconciler {
	return &Reconciler{
		store:    store,
		sessions: sessions,
		lister:   lister,
	}
}

// ReconcileSessions examines each named session. Per-session failures are
// reported in the result set rather than aborting the batch.
func (r *Reconciler) ReconcileSessions(ctx context.Context, sessionIDs []string) []ReconcileResult {
	results := make([]ReconcileResult, 0, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		results = append(results, r.reconcileSession(ctx, sessionID))
	}
	return results
}

// ReconcileWindow sweeps every paid session created in the last hours hours.
func (r *Reconciler) ReconcileWindow(ctx context.Context, hours int) ([]ReconcileResult, error) {
	if hours <= 0 {
		hours = 24
	}
	sessions, err := r.lister.ListRecentSessions(ctx, time.Now().Add(-time.Duration(hours)*time.Hour), 100)
	if err != nil {
		return nil, err
	}

	slog.Info("reconciling recent sessions", "hours", hours, "sessions", len(sessions))
	var results []ReconcileResult
	for _, session := range sessions {
		if session.PaymentStatus != stripego.CheckoutSessionPaymentStatusPaid {
			continue
		}
		results = append(results, r.reconcileSession(ctx, session.ID))
	}
	return results, nil
}

func (r *Reconciler) reconcileSession(ctx context.Context, sessionID string) ReconcileResult {
	existing, err := r.store.GetBySessionID(ctx, sessionID)
	if err == nil {
		return ReconcileResult{SessionID: sessionID, Status: ReconcileExists, OrderID: existing.ID}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ReconcileResult{SessionID: sessionID, Status: ReconcileError, Error: err.Error()}
	}

	session, err := r.sessions.GetCheckoutSession(ctx, sessionID, false)
	if err != nil {
		return ReconcileResult{SessionID: sessionID, Status: ReconcileError, Error: err.Error()}
	}
	if session.PaymentStatus != stripego.CheckoutSessionPaymentStatusPaid {
		return ReconcileResult{SessionID: sessionID, Status: ReconcileNotPaid}
	}

	md := ParseMetadata(session)
	if md == nil {
		slog.Warn("session has no order metadata, cannot reconcile", "session_id", sessionID)
		return ReconcileResult{SessionID: sessionID, Status: ReconcileNoMetadata}
	}

	fields := FieldsFromSession(session, md)
	if fields.CustomerName == "" || fields.CustomerName == placeholderName {
		fields.CustomerName = "Reconciled Customer"
	}
	order, err := r.store.EnsureOrder(ctx, sessionID, fields)
	if err != nil {
		return ReconcileResult{SessionID: sessionID, Status: ReconcileError, Error: err.Error()}
	}

	var paymentIntentID string
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}
	if err := r.store.UpdateAfterPayment(ctx, sessionID, paymentIntentID, nil); err != nil {
		slog.Error("failed to record payment on reconciled order", "order_id", order.ID, "error", err)
	}
	if err := r.store.UpdateStatus(ctx, order.ID, StatusPaid, "Order reconciled from payment session"); err != nil {
		slog.Error("failed to mark reconciled order paid", "order_id", order.ID, "error", err)
	}

	slog.Warn("reconciled missing order", "order_id", order.ID, "session_id", sessionID)
	return ReconcileResult{
		SessionID:     sessionID,
		Status:        ReconcileCreated,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
	}
}
