package review

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpopart/pawpop-fulfillment/internal/orders"
	"github.com/pawpopart/pawpop-fulfillment/internal/printify"
	"github.com/pawpopart/pawpop-fulfillment/storage"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

type fakeFulfiller struct {
	calls []printify.FulfillmentParams
	order *printify.Order
	err   error
}

func (f *fakeFulfiller) CreateFulfillmentOrder(_ context.Context, params printify.FulfillmentParams) (*printify.Order, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

type reviewFixture struct {
	store     *Store
	processor *Processor
	orders    *orders.Store
	queries   *db.Queries
	fulfiller *fakeFulfiller
}

func setupProcessor(t *testing.T) *reviewFixture {
	t.Helper()
	database, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	orderStore := orders.NewStore(database, queries)
	reviewStore := NewStore(database, queries, nil, true)
	fulfiller := &fakeFulfiller{order: &printify.Order{ID: "prn_77", Status: "pending"}}
	return &reviewFixture{
		store:     reviewStore,
		processor: NewProcessor(reviewStore, orderStore, queries, fulfiller, nil, "https://pawpopart.com"),
		orders:    orderStore,
		queries:   queries,
		fulfiller: fulfiller,
	}
}

// heldOrder creates a paid physical order parked behind a pending high-res
// review, the state an approval decision acts on.
func (f *reviewFixture) heldOrder(t *testing.T, sessionID string) (db.Order, *db.AdminReview) {
	t.Helper()
	ctx := context.Background()
	artwork := createArtwork(t, f.queries)

	order, err := f.orders.EnsureOrder(ctx, sessionID, orders.OrderFields{
		ArtworkID:     artwork.ID,
		ProductType:   "canvas_stretched",
		ProductSize:   "18x24",
		PriceCents:    7900,
		CustomerEmail: artwork.CustomerEmail,
		CustomerName:  artwork.CustomerName,
	})
	require.NoError(t, err)

	shipping := &orders.ShippingDetails{
		Name:    "Jane Tester",
		Line1:   "123 Main St",
		City:    "Toronto",
		State:   "ON",
		Zip:     "M5V 1A1",
		Country: "CA",
	}
	require.NoError(t, f.orders.UpdateAfterPayment(ctx, sessionID, "pi_test", shipping))
	require.NoError(t, f.orders.UpdateStatus(ctx, order.ID, orders.StatusPendingReview, "Awaiting high-resolution file review"))

	review, err := f.store.CreateReview(ctx, CreateParams{
		ArtworkID:     artwork.ID,
		ReviewType:    TypeHighresFile,
		ImageURL:      "https://img.example.com/approved.jpg",
		CustomerName:  artwork.CustomerName,
		CustomerEmail: artwork.CustomerEmail,
	})
	require.NoError(t, err)
	require.NotNil(t, review)

	order, err = f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	return order, review
}

func TestProcessReviewApproveHighres(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	order, review := f.heldOrder(t, "cs_approve")

	err := f.processor.ProcessReview(ctx, Decision{
		ReviewID:   review.ID,
		Status:     StatusApproved,
		ReviewedBy: "admin@pawpopart.com",
	})
	require.NoError(t, err)

	require.Len(t, f.fulfiller.calls, 1)
	assert.Equal(t, order.ID, f.fulfiller.calls[0].ExternalID)
	assert.Equal(t, "https://img.example.com/approved.jpg", f.fulfiller.calls[0].ImageURL)

	updated, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusProcessing, updated.OrderStatus)
	assert.Equal(t, "prn_77", updated.PrintifyOrderID.String)

	artwork, err := f.queries.GetArtwork(ctx, order.ArtworkID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, artwork.ReviewStatusHighres)
}

func TestProcessReviewApproveWithoutOrderCreatesRecovery(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	artwork := createArtwork(t, f.queries)

	review, err := f.store.CreateReview(ctx, CreateParams{
		ArtworkID:     artwork.ID,
		ReviewType:    TypeHighresFile,
		ImageURL:      "https://img.example.com/orphan.jpg",
		CustomerName:  artwork.CustomerName,
		CustomerEmail: artwork.CustomerEmail,
	})
	require.NoError(t, err)
	require.NotNil(t, review)

	err = f.processor.ProcessReview(ctx, Decision{
		ReviewID:   review.ID,
		Status:     StatusApproved,
		ReviewedBy: "admin@pawpopart.com",
	})
	// The shell has no shipping details yet, so fulfillment cannot run.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shipping")
	assert.Empty(t, f.fulfiller.calls)

	// The decision itself stands and the order record is rebuilt.
	recovered, getErr := f.orders.GetBySessionID(ctx, "recovered_"+review.ID)
	require.NoError(t, getErr)
	assert.Equal(t, artwork.ID, recovered.ArtworkID)
	assert.Equal(t, artwork.CustomerEmail, recovered.CustomerEmail)
	assert.Equal(t, orders.StatusPending, recovered.OrderStatus)

	updated, getErr := f.queries.GetArtwork(ctx, artwork.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusApproved, updated.ReviewStatusHighres)
}

func TestProcessReviewReject(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	order, review := f.heldOrder(t, "cs_reject")

	err := f.processor.ProcessReview(ctx, Decision{
		ReviewID:   review.ID,
		Status:     StatusRejected,
		ReviewedBy: "admin@pawpopart.com",
		Notes:      "regenerate, eyes look off",
	})
	require.NoError(t, err)

	assert.Empty(t, f.fulfiller.calls)

	updated, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPendingReview, updated.OrderStatus)

	stored, err := f.store.Get(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.Equal(t, "regenerate, eyes look off", stored.ReviewNotes.String)
}

func TestProcessReviewReplayRejected(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	_, review := f.heldOrder(t, "cs_replay")

	require.NoError(t, f.processor.ProcessReview(ctx, Decision{ReviewID: review.ID, Status: StatusApproved}))

	err := f.processor.ProcessReview(ctx, Decision{ReviewID: review.ID, Status: StatusRejected})
	assert.ErrorIs(t, err, ErrNotPending)
	// The first decision's fulfillment stands.
	assert.Len(t, f.fulfiller.calls, 1)
}

func TestProcessReviewInvalidStatus(t *testing.T) {
	f := setupProcessor(t)
	err := f.processor.ProcessReview(context.Background(), Decision{ReviewID: "r1", Status: "maybe"})
	assert.Error(t, err)
}

func TestProcessReviewCancellationWins(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	order, review := f.heldOrder(t, "cs_cancelled")

	require.NoError(t, f.orders.UpdateStatus(ctx, order.ID, orders.StatusCancelled, "Customer refunded"))

	err := f.processor.ProcessReview(ctx, Decision{ReviewID: review.ID, Status: StatusApproved})
	require.NoError(t, err)

	assert.Empty(t, f.fulfiller.calls)

	updated, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusCancelled, updated.OrderStatus)
	assert.False(t, updated.PrintifyOrderID.Valid)
}

func TestProcessReviewAlreadySubmitted(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	order, review := f.heldOrder(t, "cs_submitted")

	require.NoError(t, f.orders.MarkProcessing(ctx, order.ID, "prn_existing", "in_production", "Printify order prn_existing created"))

	err := f.processor.ProcessReview(ctx, Decision{ReviewID: review.ID, Status: StatusApproved})
	require.NoError(t, err)
	assert.Empty(t, f.fulfiller.calls)
}

func TestProcessReviewProofApproval(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	artwork := createArtwork(t, f.queries)

	review, err := f.store.CreateReview(ctx, CreateParams{
		ArtworkID:     artwork.ID,
		ReviewType:    TypeArtworkProof,
		ImageURL:      "https://img.example.com/proof.jpg",
		CustomerName:  artwork.CustomerName,
		CustomerEmail: artwork.CustomerEmail,
	})
	require.NoError(t, err)
	require.NotNil(t, review)

	require.NoError(t, f.processor.ProcessReview(ctx, Decision{ReviewID: review.ID, Status: StatusApproved}))

	updated, err := f.queries.GetArtwork(ctx, artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.ReviewStatusArtworkProof)
	assert.Equal(t, "pending", updated.UpscaleStatus)
	assert.Empty(t, f.fulfiller.calls)
}

func TestProcessReviewUnknownID(t *testing.T) {
	f := setupProcessor(t)
	err := f.processor.ProcessReview(context.Background(), Decision{ReviewID: "missing", Status: StatusApproved})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
