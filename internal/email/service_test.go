package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderConfirmation(t *testing.T) {
	body, err := renderTemplate("order_confirmation", OrderConfirmationData{
		CustomerName: "Jane Tester",
		OrderNumber:  "PP-AB12C",
		ProductType:  "Canvas Stretched",
		ProductSize:  "18x24",
		PriceCents:   7900,
		PetName:      "Waffles",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Jane Tester")
	assert.Contains(t, body, "PP-AB12C")
	assert.Contains(t, body, "Canvas Stretched")
	assert.Contains(t, body, "$79.00")
	assert.Contains(t, body, "Waffles")
	assert.Contains(t, body, "<html")
}

func TestRenderMasterpieceReady(t *testing.T) {
	body, err := renderTemplate("masterpiece_ready", MasterpieceReadyData{
		CustomerName: "Jane Tester",
		ArtworkURL:   "https://pawpopart.com/artwork/tok-123",
		PreviewURL:   "https://img.example.com/preview.jpg",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "https://pawpopart.com/artwork/tok-123")
	assert.Contains(t, body, "https://img.example.com/preview.jpg")
	// No pet name: the copy falls back to "Your".
	assert.Contains(t, body, "Your Mona Lisa style portrait")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := renderTemplate("password_reset", nil)
	assert.Error(t, err)
}

func TestUnconfiguredSendIsNoop(t *testing.T) {
	svc := NewService(Config{})
	assert.False(t, svc.Configured())

	require.NoError(t, svc.SendOrderConfirmation(OrderConfirmationData{
		CustomerEmail: "jane@example.com",
		OrderNumber:   "PP-AB12C",
	}))
	require.NoError(t, svc.SendMasterpieceReady(MasterpieceReadyData{
		CustomerEmail: "jane@example.com",
	}))
}

func TestAdminTargetsRequireAddress(t *testing.T) {
	svc := NewService(Config{Host: "smtp.example.com", Port: 587})

	// No admin address configured: dropped without error, no SMTP attempt.
	require.NoError(t, svc.SendAdminReviewNotification(ReviewNotificationData{ReviewID: "r1"}))
	require.NoError(t, svc.SendSystemAlert("Webhook failure streak", "3 consecutive failures"))
}
