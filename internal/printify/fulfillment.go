package printify

import (
	"context"
	"fmt"
	"log/slog"
)

// FulfillmentParams describes one paid order to submit to the provider.
type FulfillmentParams struct {
	ExternalID  string
	ArtworkID   string
	ProductType ProductType
	Size        string
	ImageURL    string
	Label       string
	Address     ShippingAddress
}

// CreateFulfillmentOrder uploads the print-ready image, creates a dedicated
// provider product for the ordered type and size, and submits the order.
// Unlike mockup generation this never falls back: a physical order without a
// provider order is an error the caller must surface.
func (g *Generator) CreateFulfillmentOrder(ctx context.Context, params FulfillmentParams) (*Order, error) {
	if !g.client.Configured() {
		return nil, fmt.Errorf("printify is not configured, cannot fulfill order %s", params.ExternalID)
	}
	if !params.ProductType.IsPhysical() {
		return nil, fmt.Errorf("product type %s does not require fulfillment", params.ProductType)
	}

	catalog, err := g.catalog.ResolveVariantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog variants: %w", err)
	}

	variants := catalog.ForType(params.ProductType)
	variant, ok := catalog.FindVariant(params.ProductType, params.Size)
	if !ok {
		return nil, fmt.Errorf("no %s variant for size %s (have %d variants)", params.ProductType, params.Size, len(variants))
	}

	price, ok := PriceFor(params.ProductType, params.Size)
	if !ok {
		return nil, fmt.Errorf("no price configured for %s %s", params.ProductType, params.Size)
	}

	uploadID, err := g.client.UploadImage(ctx, params.ImageURL, fmt.Sprintf("pawpop-order-%s.jpg", params.ExternalID))
	if err != nil {
		return nil, fmt.Errorf("failed to upload print image: %w", err)
	}

	bp := productBlueprints[params.ProductType]
	productData := map[string]any{
		"title":             fmt.Sprintf("PawPop %s %s - Order %s", params.ProductType.DisplayName(), params.Size, params.ExternalID),
		"description":       productDescription(params.ProductType),
		"blueprint_id":      bp.BlueprintID,
		"print_provider_id": bp.PrintProviderID,
		"variants": []map[string]any{
			{"id": variant.ID, "price": price, "is_enabled": true},
		},
		"print_areas": []map[string]any{
			{
				"variant_ids": []int{variant.ID},
				"placeholders": []map[string]any{
					{
						"position": "front",
						"images": []map[string]any{
							{"id": uploadID, "x": 0.5, "y": 0.5, "scale": 1.0, "angle": 0},
						},
					},
				},
			},
		},
		"tags": []string{"order", "pawpop"},
	}

	product, err := g.client.CreateProduct(ctx, productData)
	if err != nil {
		return nil, fmt.Errorf("failed to create fulfillment product: %w", err)
	}

	order, err := g.client.CreateOrder(ctx, OrderRequest{
		ExternalID: params.ExternalID,
		Label:      params.Label,
		LineItems: []OrderLineItem{
			{
				ProductID: product.ID,
				VariantID: variant.ID,
				Quantity:  1,
			},
		},
		ShippingMethod:           1,
		SendShippingNotification: true,
		AddressTo:                params.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider order: %w", err)
	}

	slog.Info("fulfillment order created",
		"external_id", params.ExternalID,
		"printify_order_id", order.ID,
		"product_type", params.ProductType,
		"size", params.Size)
	return order, nil
}
