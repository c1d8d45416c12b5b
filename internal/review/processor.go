package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pawpopart/pawpop-fulfillment/internal/email"
	"github.com/pawpopart/pawpop-fulfillment/internal/orders"
	"github.com/pawpopart/pawpop-fulfillment/internal/outbox"
	"github.com/pawpopart/pawpop-fulfillment/internal/printify"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// ErrNotPending is returned when a decision arrives for a review that was
// already processed. Decisions are first-wins; replays are rejected.
var ErrNotPending = errors.New("review is not pending")

// Processor applies admin decisions and runs their side effects: approved
// high-res reviews release the held order to fulfillment, approved proofs
// notify the customer, rejections leave the order parked for a retry.
type Processor struct {
	store     *Store
	orders    *orders.Store
	queries   *db.Queries
	fulfiller orders.Fulfiller
	outbox    *outbox.Recorder
	baseURL   string
}

func NewProcessor(store *Store, orderStore *orders.Store, queries *db.Queries, fulfiller orders.Fulfiller, recorder *outbox.Recorder, baseURL string) *Processor {
	return &Processor{
		store:     store,
		orders:    orderStore,
		queries:   queries,
		fulfiller: fulfiller,
		outbox:    recorder,
		baseURL:   baseURL,
	}
}

// Decision is an admin's verdict on a pending review.
type Decision struct {
	ReviewID   string
	Status     string
	ReviewedBy string
	Notes      string
}

// ProcessReview applies a decision. The underlying update is conditional on
// the review still being pending, so concurrent decisions cannot both win.
func (p *Processor) ProcessReview(ctx context.Context, d Decision) error {
	if d.Status != StatusApproved && d.Status != StatusRejected {
		return fmt.Errorf("invalid review status %q", d.Status)
	}

	review, err := p.store.Get(ctx, d.ReviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("review %s not found: %w", d.ReviewID, err)
		}
		return fmt.Errorf("failed to load review %s: %w", d.ReviewID, err)
	}

	rows, err := p.queries.ProcessAdminReview(ctx, db.ProcessAdminReviewParams{
		Status:      d.Status,
		ReviewedBy:  sql.NullString{String: d.ReviewedBy, Valid: d.ReviewedBy != ""},
		ReviewNotes: sql.NullString{String: d.Notes, Valid: d.Notes != ""},
		ID:          d.ReviewID,
	})
	if err != nil {
		return fmt.Errorf("failed to process review %s: %w", d.ReviewID, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotPending, d.ReviewID)
	}

	if err := p.store.setArtworkReviewStatus(ctx, p.queries, review.ArtworkID, review.ReviewType, d.Status); err != nil {
		slog.Error("failed to update artwork review status", "review_id", d.ReviewID, "error", err)
	}

	slog.Info("review processed",
		"review_id", d.ReviewID,
		"review_type", review.ReviewType,
		"status", d.Status,
		"reviewed_by", d.ReviewedBy)

	if d.Status != StatusApproved {
		return nil
	}

	switch review.ReviewType {
	case TypeHighresFile:
		return p.releaseOrder(ctx, review)
	case TypeArtworkProof:
		p.completeProofApproval(ctx, review)
		return nil
	}
	return nil
}

// releaseOrder moves the order held behind an approved high-res review into
// fulfillment, printing from the exact image the admin approved.
func (p *Processor) releaseOrder(ctx context.Context, review db.GetAdminReviewRow) error {
	order, err := p.orders.LatestForArtwork(ctx, review.ArtworkID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to find order for artwork %s: %w", review.ArtworkID, err)
		}
		// The purchase record never made it in, likely a partial failure
		// during webhook processing. Rebuild a shell from the review's
		// customer fields so the approval is not lost; the missing payment
		// data still has to come from reconciliation.
		slog.Warn("approved high-res review has no order, creating recovery order",
			"review_id", review.ID, "artwork_id", review.ArtworkID)
		order, err = p.orders.EnsureOrder(ctx, "recovered_"+review.ID, orders.OrderFields{
			ArtworkID:     review.ArtworkID,
			ProductType:   string(printify.ProductTypeCanvasStretched),
			CustomerEmail: review.CustomerEmail,
			CustomerName:  review.CustomerName,
		})
		if err != nil {
			return fmt.Errorf("failed to create recovery order for artwork %s: %w", review.ArtworkID, err)
		}
		if err := p.orders.AppendHistory(ctx, order.ID, orders.StatusPending, "Recovery order created during high-res approval"); err != nil {
			slog.Error("failed to record recovery order creation", "order_id", order.ID, "error", err)
		}
	}

	// A cancellation recorded while the review sat in the queue wins over
	// the late approval.
	if order.OrderStatus == orders.StatusCancelled {
		slog.Warn("order cancelled before review approval, skipping fulfillment", "order_id", order.ID, "review_id", review.ID)
		if err := p.orders.AppendHistory(ctx, order.ID, orders.StatusCancelled, "High-res approval received after cancellation, fulfillment skipped"); err != nil {
			slog.Error("failed to record skipped fulfillment", "order_id", order.ID, "error", err)
		}
		return nil
	}
	if order.PrintifyOrderID.Valid && order.PrintifyOrderID.String != "" {
		slog.Info("order already submitted to provider", "order_id", order.ID, "printify_order_id", order.PrintifyOrderID.String)
		return nil
	}

	productType := printify.ProductType(order.ProductType)
	if !productType.IsPhysical() {
		return p.orders.UpdateStatus(ctx, order.ID, orders.StatusProcessing, "Digital order released after review")
	}

	shipping := orders.Shipping(order)
	if shipping == nil {
		return fmt.Errorf("order %s has no shipping address", order.ID)
	}

	created, err := p.fulfiller.CreateFulfillmentOrder(ctx, printify.FulfillmentParams{
		ExternalID:  order.ID,
		ArtworkID:   order.ArtworkID,
		ProductType: productType,
		Size:        order.ProductSize,
		ImageURL:    review.ImageUrl,
		Label:       orders.OrderNumber(order),
		Address:     orders.PrintifyAddress(shipping, order.CustomerEmail),
	})
	if err != nil {
		if histErr := p.orders.AppendHistory(ctx, order.ID, "failed", fmt.Sprintf("Fulfillment error after approval: %v", err)); histErr != nil {
			slog.Error("failed to record fulfillment failure", "order_id", order.ID, "error", histErr)
		}
		return fmt.Errorf("failed to fulfill order %s: %w", order.ID, err)
	}

	return p.orders.MarkProcessing(ctx, order.ID, created.ID, created.Status,
		fmt.Sprintf("Printify order %s created after high-res approval", created.ID))
}

// completeProofApproval notifies the customer their artwork is ready and
// queues the high-resolution upscale that fulfillment will need.
func (p *Processor) completeProofApproval(ctx context.Context, review db.GetAdminReviewRow) {
	err := p.queries.UpdateArtworkUpscaleStatus(ctx, db.UpdateArtworkUpscaleStatusParams{
		UpscaleStatus: "pending",
		ID:            review.ArtworkID,
	})
	if err != nil {
		slog.Error("failed to queue artwork upscale", "artwork_id", review.ArtworkID, "error", err)
	}

	if p.outbox == nil {
		return
	}
	p.outbox.Record(ctx, outbox.KindMasterpieceReadyEmail, "", review.ArtworkID, email.MasterpieceReadyData{
		CustomerName:  review.CustomerName,
		CustomerEmail: review.CustomerEmail,
		PetName:       review.PetName.String,
		ArtworkURL:    fmt.Sprintf("%s/artwork/%s", p.baseURL, review.ArtworkToken),
		PreviewURL:    review.ImageUrl,
	})
}
