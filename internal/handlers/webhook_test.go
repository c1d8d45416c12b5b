package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v80"

	"github.com/pawpopart/pawpop-fulfillment/internal/monitoring"
	"github.com/pawpopart/pawpop-fulfillment/internal/orders"
	"github.com/pawpopart/pawpop-fulfillment/storage"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

const testWebhookSecret = "whsec_test_secret"

func setupWebhookHandler(t *testing.T) (*WebhookHandler, *orders.Store, *db.Queries) {
	t.Helper()
	database, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	orderStore := orders.NewStore(database, queries)
	processor := orders.NewProcessor(orderStore, queries, nil, nil, nil)
	monitor := monitoring.NewService(queries, nil)
	return NewWebhookHandler(testWebhookSecret, nil, orderStore, processor, monitor), orderStore, queries
}

// signPayload produces a Stripe-Signature header for the payload using the
// documented t=.. ,v1=.. HMAC-SHA256 scheme.
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutEvent(t *testing.T, eventType, sessionJSON string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_test_1",
		"type":        eventType,
		"api_version": stripego.APIVersion,
		"data":        map[string]any{"object": json.RawMessage(sessionJSON)},
	})
	require.NoError(t, err)
	return payload
}

func checkoutCompletedEvent(t *testing.T, sessionJSON string) []byte {
	t.Helper()
	return checkoutEvent(t, "checkout.session.completed", sessionJSON)
}

func postWebhook(h *WebhookHandler, payload []byte, signature string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	return rec, h.HandleWebhook(e.NewContext(req, rec))
}

func TestHandleWebhookNotConfigured(t *testing.T) {
	_, orderStore, queries := setupWebhookHandler(t)
	h := NewWebhookHandler("", nil, orderStore, orders.NewProcessor(orderStore, queries, nil, nil, nil), monitoring.NewService(queries, nil))

	_, err := postWebhook(h, []byte(`{}`), "")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
}

func TestHandleWebhookBadSignature(t *testing.T) {
	h, _, _ := setupWebhookHandler(t)

	payload := checkoutCompletedEvent(t, `{"id":"cs_sig","metadata":{"productType":"digital"}}`)
	_, err := postWebhook(h, payload, signPayload(payload, "whsec_wrong_secret"))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestHandleWebhookCheckoutCompleted(t *testing.T) {
	h, orderStore, queries := setupWebhookHandler(t)
	artwork, err := CreateTestArtwork(queries)
	require.NoError(t, err)

	sessionJSON := fmt.Sprintf(`{
		"id": "cs_wh_1",
		"amount_total": 1500,
		"payment_intent": "pi_wh_1",
		"customer_details": {"email": "buyer@example.com", "name": "Buyer One"},
		"metadata": {
			"artworkId": %q,
			"productType": "digital",
			"imageUrl": "https://img.example.com/final.jpg",
			"petName": "Biscuit"
		}
	}`, artwork.ID)
	payload := checkoutCompletedEvent(t, sessionJSON)

	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received": true}`, rec.Body.String())

	order, err := orderStore.GetBySessionID(context.Background(), "cs_wh_1")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusProcessing, order.OrderStatus)
	assert.Equal(t, "buyer@example.com", order.CustomerEmail)
	assert.Equal(t, int64(1500), order.PriceCents)
	assert.Equal(t, "pi_wh_1", order.StripePaymentIntentID.String)
}

func TestHandleWebhookPhysicalFetchesFullSession(t *testing.T) {
	_, orderStore, queries := setupWebhookHandler(t)
	artwork, err := CreateTestArtwork(queries)
	require.NoError(t, err)

	metadata := map[string]string{
		"artworkId":   artwork.ID,
		"productType": "canvas_stretched",
		"size":        "18x24",
		"imageUrl":    "https://img.example.com/final.jpg",
	}
	// The expanded session carries the shipping details the bare event
	// payload lacks.
	api := &stubSessionAPI{sessions: map[string]*stripego.CheckoutSession{
		"cs_wh_phys": {
			ID:          "cs_wh_phys",
			AmountTotal: 7900,
			Metadata:    metadata,
			CustomerDetails: &stripego.CheckoutSessionCustomerDetails{
				Email: "buyer@example.com",
				Name:  "Buyer One",
			},
			ShippingDetails: &stripego.ShippingDetails{
				Name: "Buyer One",
				Address: &stripego.Address{
					Line1:      "123 Main St",
					City:       "Toronto",
					State:      "ON",
					PostalCode: "M5V 1A1",
					Country:    "CA",
				},
			},
		},
	}}
	fulfiller := &recordingFulfiller{}
	processor := orders.NewProcessor(orderStore, queries, fulfiller, nil, nil)
	h := NewWebhookHandler(testWebhookSecret, api, orderStore, processor, monitoring.NewService(queries, nil))

	metadataJSON, err := json.Marshal(metadata)
	require.NoError(t, err)
	sessionJSON := fmt.Sprintf(`{"id": "cs_wh_phys", "amount_total": 7900, "metadata": %s}`, metadataJSON)
	payload := checkoutCompletedEvent(t, sessionJSON)

	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	order, err := orderStore.GetBySessionID(context.Background(), "cs_wh_phys")
	require.NoError(t, err)
	shipping := orders.Shipping(order)
	require.NotNil(t, shipping)
	assert.Equal(t, "123 Main St", shipping.Line1)
	assert.Equal(t, "CA", shipping.Country)

	assert.Equal(t, orders.StatusProcessing, order.OrderStatus)
	require.Len(t, fulfiller.calls, 1)
	assert.Equal(t, "https://img.example.com/final.jpg", fulfiller.calls[0].ImageURL)
}

type recordingGate struct {
	calls int
}

func (g *recordingGate) RequestHighresReview(context.Context, string, string) (bool, error) {
	g.calls++
	return true, nil
}

func TestHandleWebhookProcessesReconciledOrder(t *testing.T) {
	_, orderStore, queries := setupWebhookHandler(t)
	artwork, err := CreateTestArtwork(queries)
	require.NoError(t, err)
	ctx := context.Background()

	// Reconciliation won the race: the success page backfilled the order
	// and marked it paid before the event arrived.
	order, err := orderStore.EnsureOrder(ctx, "cs_race", orders.OrderFields{
		ArtworkID:     artwork.ID,
		ProductType:   "canvas_stretched",
		ProductSize:   "18x24",
		PriceCents:    7900,
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer One",
	})
	require.NoError(t, err)
	require.NoError(t, orderStore.UpdateAfterPayment(ctx, "cs_race", "pi_race", &orders.ShippingDetails{
		Name:    "Buyer One",
		Line1:   "123 Main St",
		City:    "Toronto",
		State:   "ON",
		Zip:     "M5V 1A1",
		Country: "CA",
	}))
	require.NoError(t, orderStore.UpdateStatus(ctx, order.ID, orders.StatusPaid, "Order reconciled from payment session"))

	gate := &recordingGate{}
	processor := orders.NewProcessor(orderStore, queries, nil, gate, nil)
	h := NewWebhookHandler(testWebhookSecret, nil, orderStore, processor, monitoring.NewService(queries, nil))

	sessionJSON := fmt.Sprintf(`{
		"id": "cs_race",
		"amount_total": 7900,
		"metadata": {
			"artworkId": %q,
			"productType": "canvas_stretched",
			"size": "18x24",
			"imageUrl": "https://img.example.com/final.jpg"
		}
	}`, artwork.ID)
	payload := checkoutCompletedEvent(t, sessionJSON)

	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The late event still runs order processing: the review gate holds
	// the order instead of leaving it parked at paid.
	assert.Equal(t, 1, gate.calls)
	updated, err := orderStore.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPendingReview, updated.OrderStatus)
}

func TestHandleWebhookAlreadySubmittedOrderNotRefulfilled(t *testing.T) {
	_, orderStore, queries := setupWebhookHandler(t)
	artwork, err := CreateTestArtwork(queries)
	require.NoError(t, err)
	ctx := context.Background()

	order, err := orderStore.EnsureOrder(ctx, "cs_submitted", orders.OrderFields{
		ArtworkID:     artwork.ID,
		ProductType:   "canvas_stretched",
		ProductSize:   "18x24",
		PriceCents:    7900,
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer One",
	})
	require.NoError(t, err)
	require.NoError(t, orderStore.UpdateStatus(ctx, order.ID, orders.StatusPaid, "Payment confirmed"))
	require.NoError(t, orderStore.MarkProcessing(ctx, order.ID, "prn_done", "pending", "Printify order prn_done created"))
	// Simulate the submission landing while the status write was lost.
	require.NoError(t, orderStore.UpdateStatus(ctx, order.ID, orders.StatusPaid, "Status rolled back"))

	fulfiller := &recordingFulfiller{}
	processor := orders.NewProcessor(orderStore, queries, fulfiller, nil, nil)
	h := NewWebhookHandler(testWebhookSecret, nil, orderStore, processor, monitoring.NewService(queries, nil))

	sessionJSON := fmt.Sprintf(`{
		"id": "cs_submitted",
		"amount_total": 7900,
		"metadata": {"artworkId": %q, "productType": "canvas_stretched", "size": "18x24", "imageUrl": "https://img.example.com/final.jpg"}
	}`, artwork.ID)
	payload := checkoutCompletedEvent(t, sessionJSON)

	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fulfiller.calls)
}

func TestHandleWebhookDuplicateDelivery(t *testing.T) {
	h, orderStore, queries := setupWebhookHandler(t)
	artwork, err := CreateTestArtwork(queries)
	require.NoError(t, err)

	sessionJSON := fmt.Sprintf(`{
		"id": "cs_wh_dup",
		"amount_total": 1500,
		"customer_details": {"email": "buyer@example.com", "name": "Buyer One"},
		"metadata": {"artworkId": %q, "productType": "digital", "imageUrl": "https://img.example.com/final.jpg"}
	}`, artwork.ID)
	payload := checkoutCompletedEvent(t, sessionJSON)

	for i := 0; i < 2; i++ {
		rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	order, err := orderStore.GetBySessionID(context.Background(), "cs_wh_dup")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusProcessing, order.OrderStatus)

	// One paid transition and one processing transition, not two of each.
	history, err := queries.ListOrderStatusHistory(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	events, err := queries.ListRecentWebhookEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "success", ev.Status)
	}
}

func TestHandleWebhookForeignSessionIgnored(t *testing.T) {
	h, orderStore, _ := setupWebhookHandler(t)

	payload := checkoutCompletedEvent(t, `{"id": "cs_foreign", "metadata": {"plan": "pro"}}`)
	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err = orderStore.GetBySessionID(context.Background(), "cs_foreign")
	assert.Error(t, err)
}

func TestHandleWebhookSessionExpiredCancelsOrder(t *testing.T) {
	h, orderStore, queries := setupWebhookHandler(t)
	artwork, err := CreateTestArtwork(queries)
	require.NoError(t, err)

	order, err := orderStore.EnsureOrder(context.Background(), "cs_wh_exp", orders.OrderFields{
		ArtworkID:     artwork.ID,
		ProductType:   "digital",
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer One",
	})
	require.NoError(t, err)

	payload := checkoutEvent(t, "checkout.session.expired", `{"id": "cs_wh_exp"}`)
	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	cancelled, err := orderStore.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusCancelled, cancelled.OrderStatus)

	// Redelivery of the same expiry is a no-op.
	rec, err = postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	history, err := queries.ListOrderStatusHistory(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestHandleWebhookSessionExpiredUnknownSession(t *testing.T) {
	h, _, queries := setupWebhookHandler(t)

	payload := checkoutEvent(t, "checkout.session.async_payment_failed", `{"id": "cs_never_seen"}`)
	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	events, err := queries.ListRecentWebhookEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "success", events[0].Status)
}

func TestHandleWebhookUnhandledEventAcknowledged(t *testing.T) {
	h, _, queries := setupWebhookHandler(t)

	payload, err := json.Marshal(map[string]any{
		"id":          "evt_other",
		"type":        "charge.refunded",
		"api_version": stripego.APIVersion,
		"data":        map[string]any{"object": map[string]any{"id": "ch_1"}},
	})
	require.NoError(t, err)

	rec, err := postWebhook(h, payload, signPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	events, err := queries.ListRecentWebhookEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "charge.refunded", events[0].EventType)
}
