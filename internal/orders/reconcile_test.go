package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v80"
)

type fakeSessionAPI struct {
	sessions map[string]*stripego.CheckoutSession
}

func (f *fakeSessionAPI) GetCheckoutSession(_ context.Context, sessionID string, _ bool) (*stripego.CheckoutSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", sessionID)
	}
	return session, nil
}

func (f *fakeSessionAPI) ListRecentSessions(context.Context, time.Time, int64) ([]*stripego.CheckoutSession, error) {
	out := make([]*stripego.CheckoutSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out, nil
}

func paidSession(id, artworkID string) *stripego.CheckoutSession {
	return &stripego.CheckoutSession{
		ID:            id,
		PaymentStatus: stripego.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   7900,
		PaymentIntent: &stripego.PaymentIntent{ID: "pi_" + id},
		CustomerDetails: &stripego.CheckoutSessionCustomerDetails{
			Email: "buyer@example.com",
			Name:  "Buyer One",
		},
		Metadata: map[string]string{
			"artworkId":   artworkID,
			"productType": "canvas_stretched",
			"size":        "18x24",
		},
	}
}

func TestReconcileSessionOutcomes(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()
	artwork := createArtwork(t, queries)

	existing, err := store.EnsureOrder(ctx, "cs_have", OrderFields{
		ArtworkID:   artwork.ID,
		ProductType: "art_print",
		ProductSize: "12x18",
		PriceCents:  2900,
	})
	require.NoError(t, err)

	api := &fakeSessionAPI{sessions: map[string]*stripego.CheckoutSession{
		"cs_missing": paidSession("cs_missing", artwork.ID),
		"cs_unpaid": {
			ID:            "cs_unpaid",
			PaymentStatus: stripego.CheckoutSessionPaymentStatusUnpaid,
		},
		"cs_foreign": {
			ID:            "cs_foreign",
			PaymentStatus: stripego.CheckoutSessionPaymentStatusPaid,
			Metadata:      map[string]string{"plan": "pro"},
		},
	}}
	reconciler := NewReconciler(store, api, api)

	results := reconciler.ReconcileSessions(ctx, []string{"cs_have", "cs_missing", "cs_unpaid", "cs_foreign", "cs_gone"})
	require.Len(t, results, 5)

	byID := map[string]ReconcileResult{}
	for _, r := range results {
		byID[r.SessionID] = r
	}
	assert.Equal(t, ReconcileExists, byID["cs_have"].Status)
	assert.Equal(t, existing.ID, byID["cs_have"].OrderID)
	assert.Equal(t, ReconcileCreated, byID["cs_missing"].Status)
	assert.Equal(t, ReconcileNotPaid, byID["cs_unpaid"].Status)
	assert.Equal(t, ReconcileNoMetadata, byID["cs_foreign"].Status)
	assert.Equal(t, ReconcileError, byID["cs_gone"].Status)

	created, err := store.GetBySessionID(ctx, "cs_missing")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, created.OrderStatus)
	assert.Equal(t, "pi_cs_missing", created.StripePaymentIntentID.String)
	assert.Equal(t, "buyer@example.com", created.CustomerEmail)
}

func TestReconcileIsIdempotent(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()
	artwork := createArtwork(t, queries)

	api := &fakeSessionAPI{sessions: map[string]*stripego.CheckoutSession{
		"cs_once": paidSession("cs_once", artwork.ID),
	}}
	reconciler := NewReconciler(store, api, api)

	first := reconciler.ReconcileSessions(ctx, []string{"cs_once"})
	require.Len(t, first, 1)
	assert.Equal(t, ReconcileCreated, first[0].Status)

	second := reconciler.ReconcileSessions(ctx, []string{"cs_once"})
	require.Len(t, second, 1)
	assert.Equal(t, ReconcileExists, second[0].Status)
	assert.Equal(t, first[0].OrderID, second[0].OrderID)
}

func TestReconcileWindowSkipsUnpaid(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()
	artwork := createArtwork(t, queries)

	api := &fakeSessionAPI{sessions: map[string]*stripego.CheckoutSession{
		"cs_paid": paidSession("cs_paid", artwork.ID),
		"cs_open": {
			ID:            "cs_open",
			PaymentStatus: stripego.CheckoutSessionPaymentStatusUnpaid,
		},
	}}
	reconciler := NewReconciler(store, api, api)

	results, err := reconciler.ReconcileWindow(ctx, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cs_paid", results[0].SessionID)
	assert.Equal(t, ReconcileCreated, results[0].Status)
}

func TestReconcileWindowListerError(t *testing.T) {
	store, _ := setupStore(t)
	reconciler := NewReconciler(store, nil, failingLister{})

	_, err := reconciler.ReconcileWindow(context.Background(), 6)
	assert.Error(t, err)
}

type failingLister struct{}

func (failingLister) ListRecentSessions(context.Context, time.Time, int64) ([]*stripego.CheckoutSession, error) {
	return nil, errors.New("stripe unavailable")
}
