// Package outbox decouples best-effort side effects (emails, conversion
// tracking) from the state transitions that cause them. The primary operation
// records that an effect is due; the dispatcher delivers it and tracks the
// outcome independently, so a mail outage can never fail an order.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

type Kind string

const (
	KindOrderConfirmationEmail Kind = "order_confirmation_email"
	KindAdminReviewEmail       Kind = "admin_review_email"
	KindMasterpieceReadyEmail  Kind = "masterpiece_ready_email"
	KindConversionTracking     Kind = "conversion_tracking"
)

// Recorder inserts pending side-effect rows. Recording failures are logged
// and swallowed: losing a notification must never fail the state transition
// that requested it. wake nudges the dispatcher after each insert so
// deliveries don't wait for the next sweep; nil is allowed.
type Recorder struct {
	queries *db.Queries
	wake    func()
}

func NewRecorder(queries *db.Queries, wake func()) *Recorder {
	return &Recorder{queries: queries, wake: wake}
}

func (r *Recorder) Record(ctx context.Context, kind Kind, orderID, artworkID string, payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal side effect payload", "kind", kind, "error", err)
		return ""
	}

	effect, err := r.queries.CreateSideEffect(ctx, db.CreateSideEffectParams{
		ID:        ulid.Make().String(),
		OrderID:   sql.NullString{String: orderID, Valid: orderID != ""},
		ArtworkID: sql.NullString{String: artworkID, Valid: artworkID != ""},
		Kind:      string(kind),
		Payload:   sql.NullString{String: string(data), Valid: true},
	})
	if err != nil {
		slog.Error("failed to record side effect", "kind", kind, "order_id", orderID, "error", err)
		return ""
	}
	if r.wake != nil {
		r.wake()
	}
	return effect.ID
}
