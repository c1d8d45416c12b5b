package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/pawpopart/pawpop-fulfillment/internal/auth"
	"github.com/pawpopart/pawpop-fulfillment/internal/email"
	"github.com/pawpopart/pawpop-fulfillment/internal/handlers"
	"github.com/pawpopart/pawpop-fulfillment/internal/monitoring"
	"github.com/pawpopart/pawpop-fulfillment/internal/orders"
	"github.com/pawpopart/pawpop-fulfillment/internal/outbox"
	"github.com/pawpopart/pawpop-fulfillment/internal/printify"
	"github.com/pawpopart/pawpop-fulfillment/internal/review"
	"github.com/pawpopart/pawpop-fulfillment/internal/stripe"
	"github.com/pawpopart/pawpop-fulfillment/storage"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// Service wires the fulfillment pipeline together and owns its HTTP surface.
type Service struct {
	storage      *storage.Storage
	config       *Config
	emailService *email.Service
	dispatcher   *outbox.Dispatcher

	webhookHandler *handlers.WebhookHandler
	orderHandler   *handlers.OrderHandler
	reviewHandler  *handlers.ReviewHandler
	mockupHandler  *handlers.MockupHandler
	artworkHandler *handlers.ArtworkHandler
	healthHandler  *handlers.HealthHandler
}

func New(store *storage.Storage, config *Config) *Service {
	emailService := email.NewService(email.Config{
		Host:    config.Email.SMTPHost,
		Port:    config.Email.SMTPPort,
		Login:   config.Email.Login,
		Key:     config.Email.Key,
		From:    config.Email.From,
		AdminTo: config.Admin.Email,
		BaseURL: config.BaseURL,
	})

	dispatcher := outbox.NewDispatcher(store.Queries)
	recorder := outbox.NewRecorder(store.Queries, dispatcher.Kick)
	stripeService := stripe.NewService(config.Stripe.SecretKey)
	printifyClient := printify.NewClient(config.Printify.APIToken, config.Printify.ShopID)
	generator := printify.NewGenerator(printifyClient, store.Queries)

	orderStore := orders.NewStore(store.DB(), store.Queries)
	reviewStore := review.NewStore(store.DB(), store.Queries, recorder, config.Review.EnableHumanReview)

	var gate orders.ReviewGate
	if config.Review.EnableHumanReview {
		gate = reviewStore
	}

	orderProcessor := orders.NewProcessor(orderStore, store.Queries, generator, gate, recorder)
	reviewProcessor := review.NewProcessor(reviewStore, orderStore, store.Queries, generator, recorder, config.BaseURL)
	monitor := monitoring.NewService(store.Queries, emailService)
	reconciler := orders.NewReconciler(orderStore, stripeService, stripeService)

	registerSideEffectHandlers(dispatcher, emailService)
	dispatcher.Start(context.Background())

	return &Service{
		storage:        store,
		config:         config,
		emailService:   emailService,
		dispatcher:     dispatcher,
		webhookHandler: handlers.NewWebhookHandler(config.Stripe.WebhookSecret, stripeService, orderStore, orderProcessor, monitor),
		orderHandler:   handlers.NewOrderHandler(orderStore, reconciler),
		reviewHandler:  handlers.NewReviewHandler(reviewStore, reviewProcessor),
		mockupHandler:  handlers.NewMockupHandler(generator),
		artworkHandler: handlers.NewArtworkHandler(store.Queries, reviewStore, recorder, config.BaseURL),
		healthHandler:  handlers.NewHealthHandler(store.DB(), monitor, config.Stripe.SecretKey != "", config.Printify.APIToken != ""),
	}
}

// registerSideEffectHandlers binds each recorded side-effect kind to its
// delivery path.
func registerSideEffectHandlers(dispatcher *outbox.Dispatcher, emailService *email.Service) {
	dispatcher.Handle(outbox.KindOrderConfirmationEmail, func(ctx context.Context, effect db.SideEffect) error {
		var data email.OrderConfirmationData
		if err := decodePayload(effect, &data); err != nil {
			return err
		}
		return emailService.SendOrderConfirmation(data)
	})

	dispatcher.Handle(outbox.KindAdminReviewEmail, func(ctx context.Context, effect db.SideEffect) error {
		var data email.ReviewNotificationData
		if err := decodePayload(effect, &data); err != nil {
			return err
		}
		return emailService.SendAdminReviewNotification(data)
	})

	dispatcher.Handle(outbox.KindMasterpieceReadyEmail, func(ctx context.Context, effect db.SideEffect) error {
		var data email.MasterpieceReadyData
		if err := decodePayload(effect, &data); err != nil {
			return err
		}
		return emailService.SendMasterpieceReady(data)
	})

	// Conversion tracking has no server-side delivery target yet; the row
	// itself is the audit record ad platforms are backfilled from.
	dispatcher.Handle(outbox.KindConversionTracking, func(ctx context.Context, effect db.SideEffect) error {
		slog.Info("conversion recorded", "order_id", effect.OrderID.String)
		return nil
	})
}

func decodePayload(effect db.SideEffect, out any) error {
	if !effect.Payload.Valid {
		return fmt.Errorf("side effect %s has no payload", effect.ID)
	}
	return json.Unmarshal([]byte(effect.Payload.String), out)
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.healthHandler.Health)

	api := e.Group("/api")

	// Payment provider callback; authenticated by signature, not API key.
	api.POST("/webhook", s.webhookHandler.HandleWebhook)

	// Customer-facing surface.
	api.GET("/orders/session/:sessionId", s.orderHandler.GetOrderBySession)
	// Success-page fallback when the webhook loses the delivery race;
	// idempotent and derives everything from the payment provider.
	api.POST("/orders/reconcile", s.orderHandler.Reconcile)
	api.POST("/artworks", s.artworkHandler.CreateArtwork)
	api.PATCH("/artworks/:artworkId", s.artworkHandler.UpdateArtwork)
	api.GET("/artworks/token/:token", s.artworkHandler.GetArtworkByToken)
	api.POST("/printify/generate-mockups", s.mockupHandler.GenerateMockups)

	// Admin surface.
	admin := api.Group("", auth.AdminKeyAuth(s.config.Admin.APIKey))
	admin.POST("/admin/orders/reconcile", s.orderHandler.ReconcileSweep)
	admin.POST("/admin/reviews", s.reviewHandler.CreateReview)
	admin.GET("/admin/reviews", s.reviewHandler.ListReviews)
	admin.GET("/admin/reviews/:reviewId", s.reviewHandler.GetReview)
	admin.POST("/admin/reviews/:reviewId/process", s.reviewHandler.ProcessReview)
	admin.GET("/admin/monitoring/webhooks", s.healthHandler.WebhookStats)
}

// Shutdown stops background workers.
func (s *Service) Shutdown() {
	s.dispatcher.Stop()
}
