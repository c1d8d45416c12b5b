package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pawpopart/pawpop-fulfillment/internal/email"
	"github.com/pawpopart/pawpop-fulfillment/internal/outbox"
	"github.com/pawpopart/pawpop-fulfillment/internal/printify"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
	stripe "github.com/stripe/stripe-go/v80"
)

// Fulfiller submits paid orders to the print provider.
type Fulfiller interface {
	CreateFulfillmentOrder(ctx context.Context, params printify.FulfillmentParams) (*printify.Order, error)
}

// ReviewGate requests a human review before fulfillment. It reports whether
// a review is now pending; false means reviews are disabled and fulfillment
// may proceed directly.
type ReviewGate interface {
	RequestHighresReview(ctx context.Context, artworkID, imageURL string) (bool, error)
}

// Processor drives an order from payment confirmation to fulfillment
// hand-off. Fulfillment failures are contained: they are logged and recorded
// as history so the order stays recoverable, and never bubble up to the
// webhook acknowledgement.
type Processor struct {
	store     *Store
	queries   *db.Queries
	fulfiller Fulfiller
	gate      ReviewGate
	outbox    *outbox.Recorder
}

func NewProcessor(store *Store, queries *db.Queries, fulfiller Fulfiller, gate ReviewGate, recorder *outbox.Recorder) *Processor {
	return &Processor{
		store:     store,
		queries:   queries,
		fulfiller: fulfiller,
		gate:      gate,
		outbox:    recorder,
	}
}

// ProcessOrder runs post-payment processing for a paid session. The order
// must already exist; callers run EnsureOrder plus UpdateAfterPayment first.
func (p *Processor) ProcessOrder(ctx context.Context, session *stripe.CheckoutSession, md *Metadata) error {
	order, err := p.store.GetBySessionID(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to load order for session %s: %w", session.ID, err)
	}

	slog.Info("processing order",
		"order_id", order.ID,
		"session_id", session.ID,
		"product_type", md.ProductType)

	p.recordConfirmationEmail(ctx, order, md)

	if !md.ProductType.IsPhysical() {
		return p.completeDigitalOrder(ctx, order, md)
	}

	if order.PrintifyOrderID.Valid && order.PrintifyOrderID.String != "" {
		slog.Info("order already submitted to provider",
			"order_id", order.ID, "printify_order_id", order.PrintifyOrderID.String)
		return nil
	}

	imageURL := p.printImageURL(ctx, order, md)

	if p.gate != nil {
		pending, err := p.gate.RequestHighresReview(ctx, order.ArtworkID, imageURL)
		if err != nil {
			return fmt.Errorf("failed to request high-res review: %w", err)
		}
		if pending {
			if err := p.store.UpdateStatus(ctx, order.ID, StatusPendingReview, "Awaiting high-resolution file review"); err != nil {
				return err
			}
			slog.Info("order held for review", "order_id", order.ID)
			return nil
		}
	}

	if err := p.fulfill(ctx, order, md, imageURL); err != nil {
		slog.Error("fulfillment failed, order left for reconciliation",
			"order_id", order.ID, "error", err)
		if histErr := p.store.AppendHistory(ctx, order.ID, "failed", fmt.Sprintf("Fulfillment error: %v", err)); histErr != nil {
			slog.Error("failed to record fulfillment failure", "order_id", order.ID, "error", histErr)
		}
	}
	return nil
}

// completeDigitalOrder finishes a digital-only purchase: no provider order,
// the artwork's upscaled image is the deliverable.
func (p *Processor) completeDigitalOrder(ctx context.Context, order db.Order, md *Metadata) error {
	if md.ImageURL != "" {
		err := p.queries.UpdateArtworkDigitalDownload(ctx, db.UpdateArtworkDigitalDownloadParams{
			DigitalDownloadUrl: nullString(md.ImageURL),
			ID:                 order.ArtworkID,
		})
		if err != nil {
			slog.Error("failed to record digital download", "order_id", order.ID, "error", err)
		}
	}
	return p.store.UpdateStatus(ctx, order.ID, StatusProcessing, "Digital order completed")
}

// fulfill submits the provider order and marks the order processing.
func (p *Processor) fulfill(ctx context.Context, order db.Order, md *Metadata, imageURL string) error {
	shipping := Shipping(order)
	if shipping == nil {
		return fmt.Errorf("order %s has no shipping address", order.ID)
	}
	if imageURL == "" {
		return fmt.Errorf("order %s has no print image", order.ID)
	}

	created, err := p.fulfiller.CreateFulfillmentOrder(ctx, printify.FulfillmentParams{
		ExternalID:  order.ID,
		ArtworkID:   order.ArtworkID,
		ProductType: md.ProductType,
		Size:        md.Size,
		ImageURL:    imageURL,
		Label:       OrderNumber(order),
		Address:     PrintifyAddress(shipping, order.CustomerEmail),
	})
	if err != nil {
		return err
	}

	return p.store.MarkProcessing(ctx, order.ID, created.ID, created.Status,
		fmt.Sprintf("Printify order %s created", created.ID))
}

// printImageURL picks the best available image for printing: the session
// metadata image, then the artwork's upscaled image, then its preview.
func (p *Processor) printImageURL(ctx context.Context, order db.Order, md *Metadata) string {
	if md.ImageURL != "" {
		return md.ImageURL
	}
	artwork, err := p.queries.GetArtwork(ctx, order.ArtworkID)
	if err != nil {
		slog.Warn("failed to load artwork for print image", "artwork_id", order.ArtworkID, "error", err)
		return ""
	}
	if artwork.UpscaledImageUrl.Valid && artwork.UpscaledImageUrl.String != "" {
		return artwork.UpscaledImageUrl.String
	}
	return artwork.PreviewImageUrl.String
}

func (p *Processor) recordConfirmationEmail(ctx context.Context, order db.Order, md *Metadata) {
	if p.outbox == nil {
		return
	}
	p.outbox.Record(ctx, outbox.KindOrderConfirmationEmail, order.ID, order.ArtworkID, email.OrderConfirmationData{
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		OrderNumber:   OrderNumber(order),
		ProductType:   md.ProductType.DisplayName(),
		ProductSize:   md.Size,
		PriceCents:    order.PriceCents,
		PetName:       md.PetName,
	})
	p.outbox.Record(ctx, outbox.KindConversionTracking, order.ID, order.ArtworkID, map[string]any{
		"sessionId":  order.StripeSessionID,
		"valueCents": order.PriceCents,
	})
}
