package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// NewTestContext creates a new Echo context for testing
func NewTestContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	return c, rec
}

// CreateTestArtwork creates an artwork row for handler tests.
func CreateTestArtwork(queries *db.Queries) (db.Artwork, error) {
	return queries.CreateArtwork(context.Background(), db.CreateArtworkParams{
		ID:             ulid.Make().String(),
		AccessToken:    uuid.NewString(),
		CustomerName:   "Test Customer",
		CustomerEmail:  "test@example.com",
		PetName:        sql.NullString{String: "Biscuit", Valid: true},
		GenerationStep: "completed",
		UpscaleStatus:  "completed",
	})
}

// CreateTestOrder creates an order row owned by the given artwork.
func CreateTestOrder(queries *db.Queries, artworkID, sessionID, productType, status string) (db.Order, error) {
	order, err := queries.CreateOrder(context.Background(), db.CreateOrderParams{
		ID:              ulid.Make().String(),
		ArtworkID:       artworkID,
		StripeSessionID: sessionID,
		ProductType:     productType,
		ProductSize:     "18x24",
		PriceCents:      7900,
		CustomerEmail:   "test@example.com",
		CustomerName:    "Test Customer",
		OrderStatus:     "pending",
	})
	if err != nil {
		return db.Order{}, err
	}
	if status != "" && status != "pending" {
		err = queries.UpdateOrderStatus(context.Background(), db.UpdateOrderStatusParams{
			OrderStatus: status,
			ID:          order.ID,
		})
		if err != nil {
			return db.Order{}, err
		}
		order.OrderStatus = status
	}
	return order, nil
}
