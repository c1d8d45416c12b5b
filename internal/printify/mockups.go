package printify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
	"golang.org/x/sync/errgroup"
)

// Mockup is a provider-rendered preview of the artwork on a physical product.
type Mockup struct {
	Type        ProductType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	MockupURL   string      `json:"mockupUrl"`
	ProductID   string      `json:"productId"`
	Size        string      `json:"size"`
}

// Generator creates provisional provider products for an artwork and extracts
// their mockup images.
type Generator struct {
	client  *Client
	catalog *Catalog
	queries *db.Queries
}

func NewGenerator(client *Client, queries *db.Queries) *Generator {
	return &Generator{
		client:  client,
		catalog: NewCatalog(client),
		queries: queries,
	}
}

// GenerateMockups produces mockups for every physical product type. Product
// types are generated independently; one failing does not prevent the others.
// When the provider is unconfigured the raw artwork image stands in as the
// mockup for every product type, so the purchase flow is never blocked.
func (g *Generator) GenerateMockups(ctx context.Context, artworkID, imageURL string) ([]Mockup, error) {
	if !g.client.Configured() {
		slog.Warn("printify not configured, using fallback mockups", "artwork_id", artworkID)
		mockups := fallbackMockups(imageURL)
		g.storeMockups(ctx, artworkID, mockups)
		return mockups, nil
	}

	catalog, err := g.catalog.ResolveVariantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog variants: %w", err)
	}

	uploadID, err := g.client.UploadImage(ctx, imageURL, fmt.Sprintf("pawpop-artwork-%s.jpg", artworkID))
	if err != nil {
		return nil, fmt.Errorf("failed to upload artwork image: %w", err)
	}

	var (
		mu      sync.Mutex
		mockups []Mockup
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, productType := range []ProductType{ProductTypeArtPrint, ProductTypeCanvasStretched, ProductTypeCanvasFramed} {
		variants := catalog.ForType(productType)
		if len(variants) == 0 {
			slog.Warn("no catalog variants for product type, skipping", "product_type", productType)
			continue
		}

		group.Go(func() error {
			for _, size := range ProductSizes {
				mockup, err := g.createProductMockup(groupCtx, uploadID, productType, size, variants, artworkID)
				if err != nil {
					// One size failing must not prevent the others from succeeding.
					slog.Error("failed to create product mockup",
						"product_type", productType, "size", size, "error", err)
					continue
				}
				mu.Lock()
				mockups = append(mockups, *mockup)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if len(mockups) == 0 {
		return nil, fmt.Errorf("failed to generate any mockups for artwork %s", artworkID)
	}

	g.storeMockups(ctx, artworkID, mockups)
	return mockups, nil
}

func (g *Generator) createProductMockup(ctx context.Context, uploadID string, productType ProductType, size string, variants []Variant, artworkID string) (*Mockup, error) {
	var (
		selected Variant
		ok       bool
	)
	for _, v := range variants {
		if matchesSize(v.Title, size) {
			selected = v
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("no %s variant for size %s", productType, size)
	}

	price, ok := PriceFor(productType, size)
	if !ok {
		return nil, fmt.Errorf("no price configured for %s %s", productType, size)
	}

	bp := productBlueprints[productType]
	title := fmt.Sprintf("PawPop %s %s - %s", productType.DisplayName(), size, artworkID)

	productData := map[string]any{
		"title":             title,
		"description":       productDescription(productType),
		"blueprint_id":      bp.BlueprintID,
		"print_provider_id": bp.PrintProviderID,
		"variants": []map[string]any{
			{"id": selected.ID, "price": price, "is_enabled": true},
		},
		"print_areas": []map[string]any{
			{
				"variant_ids": []int{selected.ID},
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
		"tags": []string{"preview", "pawpop"},
	}

	created, err := g.client.CreateProduct(ctx, productData)
	if err != nil {
		return nil, err
	}

	mockupURL := selectMockupImage(created.Images, selected.ID)
	if mockupURL == "" {
		return nil, fmt.Errorf("product %s created but no mockup images returned", created.ID)
	}

	return &Mockup{
		Type:        productType,
		Title:       fmt.Sprintf("%s (%s\")", productType.DisplayName(), size),
		Description: productDescription(productType),
		MockupURL:   mockupURL,
		ProductID:   created.ID,
		Size:        size,
	}, nil
}

// selectMockupImage prefers a front-facing default image for the variant,
// then any front image, then the variant's default, then the first image.
func selectMockupImage(images []productImage, variantID int) string {
	var forVariant []productImage
	for _, img := range images {
		for _, id := range img.VariantIDs {
			if id == variantID {
				forVariant = append(forVariant, img)
				break
			}
		}
	}
	if len(forVariant) == 0 {
		forVariant = images
	}
	if len(forVariant) == 0 {
		return ""
	}

	for _, img := range forVariant {
		if img.Position == "front" && img.IsDefault {
			return img.Src
		}
	}
	for _, img := range forVariant {
		if img.Position == "front" {
			return img.Src
		}
	}
	for _, img := range forVariant {
		if img.IsDefault {
			return img.Src
		}
	}
	return forVariant[0].Src
}

func fallbackMockups(imageURL string) []Mockup {
	var mockups []Mockup
	for _, productType := range []ProductType{ProductTypeArtPrint, ProductTypeCanvasStretched, ProductTypeCanvasFramed} {
		mockups = append(mockups, Mockup{
			Type:        productType,
			Title:       productType.DisplayName(),
			Description: productDescription(productType),
			MockupURL:   imageURL,
			ProductID:   "fallback-" + string(productType),
			Size:        "20x30",
		})
	}
	return mockups
}

// storeMockups persists generated mockups per product type, replacing only
// the types that were regenerated. Persistence failures are logged, not
// propagated: the caller already holds the mockups.
func (g *Generator) storeMockups(ctx context.Context, artworkID string, mockups []Mockup) {
	if g.queries == nil {
		return
	}

	byType := map[ProductType][]Mockup{}
	for _, m := range mockups {
		byType[m.Type] = append(byType[m.Type], m)
	}

	for productType, typeMockups := range byType {
		err := g.queries.DeleteArtworkMockupsByType(ctx, db.DeleteArtworkMockupsByTypeParams{
			ArtworkID:   artworkID,
			ProductType: string(productType),
		})
		if err != nil {
			slog.Error("failed to clear previous mockups", "artwork_id", artworkID, "product_type", productType, "error", err)
			continue
		}

		for _, m := range typeMockups {
			_, err := g.queries.CreateArtworkMockup(ctx, db.CreateArtworkMockupParams{
				ID:                ulid.Make().String(),
				ArtworkID:         artworkID,
				ProductType:       string(m.Type),
				Title:             m.Title,
				Description:       sql.NullString{String: m.Description, Valid: m.Description != ""},
				MockupUrl:         m.MockupURL,
				PrintifyProductID: sql.NullString{String: m.ProductID, Valid: m.ProductID != ""},
				Size:              m.Size,
			})
			if err != nil {
				slog.Error("failed to store mockup", "artwork_id", artworkID, "product_type", m.Type, "error", err)
			}
		}
	}
}
