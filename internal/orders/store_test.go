package orders

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpopart/pawpop-fulfillment/storage"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

func setupStore(t *testing.T) (*Store, *db.Queries) {
	t.Helper()
	database, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return NewStore(database, queries), queries
}

func createArtwork(t *testing.T, queries *db.Queries) db.Artwork {
	t.Helper()
	artwork, err := queries.CreateArtwork(context.Background(), db.CreateArtworkParams{
		ID:             ulid.Make().String(),
		AccessToken:    uuid.NewString(),
		CustomerName:   "Jane Tester",
		CustomerEmail:  "jane@example.com",
		PetName:        sql.NullString{String: "Waffles", Valid: true},
		GenerationStep: "completed",
		UpscaleStatus:  "completed",
	})
	require.NoError(t, err)
	return artwork
}

func TestEnsureOrderCreatesOnce(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()
	artwork := createArtwork(t, queries)

	fields := OrderFields{
		ArtworkID:     artwork.ID,
		ProductType:   "canvas_stretched",
		ProductSize:   "18x24",
		PriceCents:    7900,
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane Tester",
	}

	first, err := store.EnsureOrder(ctx, "cs_test_abc", fields)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, first.OrderStatus)

	// Second call for the same session must return the same order untouched.
	second, err := store.EnsureOrder(ctx, "cs_test_abc", OrderFields{
		ArtworkID:     artwork.ID,
		ProductType:   "art_print",
		PriceCents:    2900,
		CustomerEmail: "someone-else@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "canvas_stretched", second.ProductType)
	assert.Equal(t, "jane@example.com", second.CustomerEmail)
}

func TestEnsureOrderFillsPlaceholders(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()

	// No artwork, no customer details: the order must still land.
	order, err := store.EnsureOrder(ctx, "cs_test_bare", OrderFields{
		ProductType: "art_print",
		ProductSize: "12x18",
		PriceCents:  2900,
	})
	require.NoError(t, err)
	assert.Equal(t, placeholderEmail, order.CustomerEmail)
	assert.Equal(t, placeholderName, order.CustomerName)

	artwork, err := queries.GetArtwork(ctx, order.ArtworkID)
	require.NoError(t, err)
	assert.Equal(t, "pending", artwork.GenerationStep)
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()
	artwork := createArtwork(t, queries)

	order, err := store.EnsureOrder(ctx, "cs_test_hist", OrderFields{
		ArtworkID:   artwork.ID,
		ProductType: "art_print",
		ProductSize: "12x18",
		PriceCents:  2900,
	})
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, order.ID, StatusPaid, "Payment confirmed"))
	require.NoError(t, store.UpdateStatus(ctx, order.ID, StatusPendingReview, "Awaiting review"))

	updated, err := store.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, updated.OrderStatus)

	history, err := queries.ListOrderStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	statuses := []string{history[0].Status, history[1].Status}
	assert.ElementsMatch(t, []string{StatusPaid, StatusPendingReview}, statuses)
}

func TestUpdateAfterPayment(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()
	artwork := createArtwork(t, queries)

	order, err := store.EnsureOrder(ctx, "cs_test_pay", OrderFields{
		ArtworkID:   artwork.ID,
		ProductType: "canvas_framed",
		ProductSize: "20x30",
		PriceCents:  14900,
	})
	require.NoError(t, err)

	shipping := &ShippingDetails{
		Name:    "Jane Tester",
		Line1:   "123 Main St",
		City:    "Toronto",
		State:   "ON",
		Zip:     "M5V 1A1",
		Country: "CA",
	}
	require.NoError(t, store.UpdateAfterPayment(ctx, "cs_test_pay", "pi_123", shipping))

	updated, err := store.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", updated.StripePaymentIntentID.String)

	decoded := Shipping(updated)
	require.NotNil(t, decoded)
	assert.Equal(t, "123 Main St", decoded.Line1)
	assert.Equal(t, "CA", decoded.Country)

	// A later merge without payment or shipping data preserves both.
	require.NoError(t, store.UpdateAfterPayment(ctx, "cs_test_pay", "", nil))
	updated, err = store.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", updated.StripePaymentIntentID.String)
	decoded = Shipping(updated)
	require.NotNil(t, decoded)
	assert.Equal(t, "123 Main St", decoded.Line1)

	// Missing session is a logged no-op, not an error.
	assert.NoError(t, store.UpdateAfterPayment(ctx, "cs_missing", "pi_456", nil))
}

func TestMarkProcessing(t *testing.T) {
	store, queries := setupStore(t)
	ctx := context.Background()
	artwork := createArtwork(t, queries)

	order, err := store.EnsureOrder(ctx, "cs_test_proc", OrderFields{
		ArtworkID:   artwork.ID,
		ProductType: "art_print",
		ProductSize: "18x24",
		PriceCents:  3900,
	})
	require.NoError(t, err)

	require.NoError(t, store.MarkProcessing(ctx, order.ID, "printify-9", "pending", "Printify order printify-9 created"))

	updated, err := store.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, updated.OrderStatus)
	assert.Equal(t, "printify-9", updated.PrintifyOrderID.String)

	history, err := queries.ListOrderStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, StatusProcessing, history[0].Status)
}

func TestOrderNumber(t *testing.T) {
	n := OrderNumber(db.Order{ID: "01jq3xv8e9k2m4p6r8t0vwxyzd"})
	assert.Equal(t, "PP-WXYZD", n)
	assert.Equal(t, "PP-AB", OrderNumber(db.Order{ID: "ab"}))
}
