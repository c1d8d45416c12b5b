package printify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fulfillmentAddress() ShippingAddress {
	return ShippingAddress{
		FirstName: "Jane",
		LastName:  "Tester",
		Email:     "jane@example.com",
		Country:   "CA",
		Region:    "ON",
		Address1:  "123 Main St",
		City:      "Toronto",
		Zip:       "M5V 1A1",
	}
}

func TestCreateFulfillmentOrderUnconfigured(t *testing.T) {
	g := NewGenerator(NewClient("", ""), nil)

	_, err := g.CreateFulfillmentOrder(context.Background(), FulfillmentParams{
		ExternalID:  "ord_1",
		ProductType: ProductTypeArtPrint,
		Size:        "12x18",
		ImageURL:    "https://img.example.com/final.jpg",
		Address:     fulfillmentAddress(),
	})
	require.Error(t, err, "fulfillment never degrades to a fallback")
	assert.Contains(t, err.Error(), "not configured")
}

func TestCreateFulfillmentOrderRejectsDigital(t *testing.T) {
	g := NewGenerator(NewClientWithBaseURL("token", "shop-1", "http://unused.invalid"), nil)

	_, err := g.CreateFulfillmentOrder(context.Background(), FulfillmentParams{
		ExternalID:  "ord_2",
		ProductType: ProductTypeDigital,
		ImageURL:    "https://img.example.com/final.jpg",
	})
	assert.Error(t, err)
}

func TestCreateFulfillmentOrder(t *testing.T) {
	var orderReq OrderRequest
	var productReq map[string]any
	var productCount int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/image.jpg":
			w.Write([]byte("jpeg-bytes"))

		case strings.HasPrefix(r.URL.Path, "/catalog/blueprints/"):
			json.NewEncoder(w).Encode(map[string]any{
				"variants": []map[string]any{
					{"id": 201, "title": `12" x 18" (Vertical)`},
					{"id": 202, "title": `18" x 24" (Vertical)`},
					{"id": 203, "title": `20" x 30" (Vertical)`},
				},
			})

		case r.URL.Path == "/uploads/images.json":
			json.NewEncoder(w).Encode(map[string]string{"id": "upload-9"})

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/products.json"):
			productCount++
			json.NewDecoder(r.Body).Decode(&productReq)
			json.NewEncoder(w).Encode(map[string]any{"id": fmt.Sprintf("prod-%d", productCount)})

		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/products/"):
			json.NewEncoder(w).Encode(map[string]any{"id": "prod-1"})

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/orders.json"):
			json.NewDecoder(r.Body).Decode(&orderReq)
			json.NewEncoder(w).Encode(map[string]string{"id": "prn_42", "status": "pending"})

		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	g := NewGenerator(NewClientWithBaseURL("token", "shop-1", server.URL), nil)

	order, err := g.CreateFulfillmentOrder(context.Background(), FulfillmentParams{
		ExternalID:  "ord_3",
		ArtworkID:   "art_3",
		ProductType: ProductTypeCanvasStretched,
		Size:        "18x24",
		ImageURL:    server.URL + "/image.jpg",
		Label:       "PP-AB12C",
		Address:     fulfillmentAddress(),
	})
	require.NoError(t, err)
	assert.Equal(t, "prn_42", order.ID)
	assert.Equal(t, "pending", order.Status)

	// The dedicated product carries the ordered variant at the retail price.
	variants, ok := productReq["variants"].([]any)
	require.True(t, ok)
	require.Len(t, variants, 1)
	variant := variants[0].(map[string]any)
	assert.EqualValues(t, 202, variant["id"])
	assert.EqualValues(t, 7900, variant["price"])

	assert.Equal(t, "ord_3", orderReq.ExternalID)
	assert.Equal(t, "PP-AB12C", orderReq.Label)
	require.Len(t, orderReq.LineItems, 1)
	assert.Equal(t, 202, orderReq.LineItems[0].VariantID)
	assert.Equal(t, 1, orderReq.LineItems[0].Quantity)
	assert.True(t, orderReq.SendShippingNotification)
	assert.Equal(t, "Jane", orderReq.AddressTo.FirstName)
}

func TestCreateFulfillmentOrderUnknownSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/catalog/blueprints/") {
			json.NewEncoder(w).Encode(map[string]any{
				"variants": []map[string]any{{"id": 201, "title": `12" x 18" (Vertical)`}},
			})
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	g := NewGenerator(NewClientWithBaseURL("token", "shop-1", server.URL), nil)

	_, err := g.CreateFulfillmentOrder(context.Background(), FulfillmentParams{
		ExternalID:  "ord_4",
		ProductType: ProductTypeArtPrint,
		Size:        "30x40",
		ImageURL:    server.URL + "/image.jpg",
		Address:     fulfillmentAddress(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no art_print variant")
}
