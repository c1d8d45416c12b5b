package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// Order lifecycle statuses.
const (
	StatusPending       = "pending"
	StatusPaid          = "paid"
	StatusPendingReview = "pending_review"
	StatusProcessing    = "processing"
	StatusShipped       = "shipped"
	StatusCancelled     = "cancelled"
)

// Sentinel values used when the payment provider returns partial customer
// data. Order creation never blocks on missing optional fields.
const (
	placeholderEmail = "unknown@example.com"
	placeholderName  = "Customer"
)

// Store owns order persistence, including the ensure-order reconciliation
// primitive and transactional status+history writes.
type Store struct {
	db      *sql.DB
	queries *db.Queries
}

func NewStore(database *sql.DB, queries *db.Queries) *Store {
	return &Store{
		db:      database,
		queries: queries,
	}
}

// OrderFields are the caller-provided attributes for a new order.
type OrderFields struct {
	ArtworkID     string
	ProductType   string
	ProductSize   string
	PriceCents    int64
	CustomerEmail string
	CustomerName  string
}

// EnsureOrder looks up the order for a payment session and creates it when
// absent. An existing order is returned untouched so fields written by other
// writers are never overwritten. This is the idempotency anchor for webhook
// redelivery and reconciliation: the session ID is the dedup key.
func (s *Store) EnsureOrder(ctx context.Context, sessionID string, fields OrderFields) (db.Order, error) {
	order, err := s.queries.GetOrderBySessionID(ctx, sessionID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return db.Order{}, fmt.Errorf("failed to look up order for session %s: %w", sessionID, err)
	}

	if fields.CustomerEmail == "" {
		fields.CustomerEmail = placeholderEmail
	}
	if fields.CustomerName == "" {
		fields.CustomerName = placeholderName
	}

	artworkID, err := s.ensureArtwork(ctx, fields)
	if err != nil {
		return db.Order{}, err
	}

	created, err := s.queries.CreateOrder(ctx, db.CreateOrderParams{
		ID:              ulid.Make().String(),
		ArtworkID:       artworkID,
		StripeSessionID: sessionID,
		ProductType:     fields.ProductType,
		ProductSize:     fields.ProductSize,
		PriceCents:      fields.PriceCents,
		CustomerEmail:   fields.CustomerEmail,
		CustomerName:    fields.CustomerName,
		OrderStatus:     StatusPending,
	})
	if err != nil {
		// A concurrent writer may have won the insert race; the unique key
		// on stripe_session_id makes that a benign no-op.
		if isUniqueViolation(err) {
			return s.queries.GetOrderBySessionID(ctx, sessionID)
		}
		return db.Order{}, fmt.Errorf("failed to create order for session %s: %w", sessionID, err)
	}

	slog.Info("order created", "order_id", created.ID, "session_id", sessionID, "product_type", fields.ProductType)
	return created, nil
}

// ensureArtwork resolves the owning artwork, creating a placeholder shell
// when the referenced artwork is missing (recovery orders derived from a
// payment session whose artwork row never landed).
func (s *Store) ensureArtwork(ctx context.Context, fields OrderFields) (string, error) {
	if fields.ArtworkID != "" {
		_, err := s.queries.GetArtwork(ctx, fields.ArtworkID)
		if err == nil {
			return fields.ArtworkID, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("failed to look up artwork %s: %w", fields.ArtworkID, err)
		}
		slog.Warn("order references missing artwork, creating placeholder", "artwork_id", fields.ArtworkID)
	}

	id := fields.ArtworkID
	if id == "" {
		id = ulid.Make().String()
	}

	artwork, err := s.queries.CreateArtwork(ctx, db.CreateArtworkParams{
		ID:             id,
		AccessToken:    uuid.NewString(),
		CustomerName:   fields.CustomerName,
		CustomerEmail:  fields.CustomerEmail,
		GenerationStep: "pending",
		UpscaleStatus:  "not_required",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create placeholder artwork: %w", err)
	}
	return artwork.ID, nil
}

// ShippingDetails is the shipping snapshot stored on an order.
type ShippingDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// UpdateAfterPayment merges payment confirmation fields into the order.
// Silently no-ops when the order is absent; the caller logs that upstream.
func (s *Store) UpdateAfterPayment(ctx context.Context, sessionID, paymentIntentID string, shipping *ShippingDetails) error {
	var shippingJSON sql.NullString
	if shipping != nil {
		data, err := json.Marshal(shipping)
		if err != nil {
			return fmt.Errorf("failed to encode shipping details: %w", err)
		}
		shippingJSON = sql.NullString{String: string(data), Valid: true}
	}

	rows, err := s.queries.UpdateOrderAfterPayment(ctx, db.UpdateOrderAfterPaymentParams{
		StripePaymentIntentID: sql.NullString{String: paymentIntentID, Valid: paymentIntentID != ""},
		ShippingAddress:       shippingJSON,
		StripeSessionID:       sessionID,
	})
	if err != nil {
		return fmt.Errorf("failed to update order after payment: %w", err)
	}
	if rows == 0 {
		slog.Warn("no order to update after payment", "session_id", sessionID)
	}
	return nil
}

// UpdateStatus transitions the order and appends the matching history row in
// a single transaction.
func (s *Store) UpdateStatus(ctx context.Context, orderID, status, notes string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		OrderStatus: status,
		ID:          orderID,
	}); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if err := qtx.CreateOrderStatusHistory(ctx, db.CreateOrderStatusHistoryParams{
		ID:      ulid.Make().String(),
		OrderID: orderID,
		Status:  status,
		Notes:   sql.NullString{String: notes, Valid: notes != ""},
	}); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return tx.Commit()
}

// MarkProcessing records the fulfillment correlation and transitions the
// order to processing, appending history in the same transaction.
func (s *Store) MarkProcessing(ctx context.Context, orderID, printifyOrderID, printifyStatus, notes string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.UpdateOrderPrintify(ctx, db.UpdateOrderPrintifyParams{
		PrintifyOrderID: sql.NullString{String: printifyOrderID, Valid: printifyOrderID != ""},
		PrintifyStatus:  sql.NullString{String: printifyStatus, Valid: printifyStatus != ""},
		ID:              orderID,
	}); err != nil {
		return fmt.Errorf("failed to record fulfillment order: %w", err)
	}
	if err := qtx.CreateOrderStatusHistory(ctx, db.CreateOrderStatusHistoryParams{
		ID:      ulid.Make().String(),
		OrderID: orderID,
		Status:  StatusProcessing,
		Notes:   sql.NullString{String: notes, Valid: notes != ""},
	}); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return tx.Commit()
}

// AppendHistory records an informational history entry without changing the
// order status.
func (s *Store) AppendHistory(ctx context.Context, orderID, status, notes string) error {
	return s.queries.CreateOrderStatusHistory(ctx, db.CreateOrderStatusHistoryParams{
		ID:      ulid.Make().String(),
		OrderID: orderID,
		Status:  status,
		Notes:   sql.NullString{String: notes, Valid: notes != ""},
	})
}

func (s *Store) GetBySessionID(ctx context.Context, sessionID string) (db.Order, error) {
	return s.queries.GetOrderBySessionID(ctx, sessionID)
}

func (s *Store) GetByID(ctx context.Context, orderID string) (db.Order, error) {
	return s.queries.GetOrder(ctx, orderID)
}

// LatestForArtwork returns the most recent order owned by an artwork.
func (s *Store) LatestForArtwork(ctx context.Context, artworkID string) (db.Order, error) {
	return s.queries.GetLatestOrderByArtworkID(ctx, artworkID)
}

// Shipping decodes the stored shipping snapshot, if any.
func Shipping(order db.Order) *ShippingDetails {
	if !order.ShippingAddress.Valid {
		return nil
	}
	var details ShippingDetails
	if err := json.Unmarshal([]byte(order.ShippingAddress.String), &details); err != nil {
		slog.Warn("failed to decode shipping details", "order_id", order.ID, "error", err)
		return nil
	}
	return &details
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
