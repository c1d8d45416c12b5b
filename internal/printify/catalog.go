package printify

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Known Blueprint 1220 (Fine Art) variant IDs, used when the catalog API is
// unreachable: 12x18, 18x24, 20x30 vertical.
var artPrintFallbackVariants = []Variant{
	{ID: 92396, Title: `12" x 18" (Vertical) / Fine Art`},
	{ID: 92400, Title: `18" x 24" (Vertical) / Fine Art`},
	{ID: 92402, Title: `20" x 30" (Vertical) / Fine Art`},
}

// VariantSet holds the resolved catalog variants per product type.
type VariantSet struct {
	ArtPrint        []Variant
	CanvasStretched []Variant
	CanvasFramed    []Variant
}

func (s *VariantSet) ForType(t ProductType) []Variant {
	switch t {
	case ProductTypeArtPrint:
		return s.ArtPrint
	case ProductTypeCanvasStretched:
		return s.CanvasStretched
	case ProductTypeCanvasFramed:
		return s.CanvasFramed
	default:
		return nil
	}
}

// Catalog resolves provider blueprint variants to sellable SKUs, caching the
// result for a bounded TTL.
type Catalog struct {
	client *Client
	ttl    time.Duration

	mu        sync.Mutex
	cached    *VariantSet
	fetchedAt time.Time
}

func NewCatalog(client *Client) *Catalog {
	return &Catalog{
		client: client,
		ttl:    time.Hour,
	}
}

// ResolveVariantIDs returns the variant set for all physical product types.
// Each product type resolves independently; one blueprint failing leaves that
// type's list empty rather than failing the whole resolution.
func (c *Catalog) ResolveVariantIDs(ctx context.Context) (*VariantSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}

	set := &VariantSet{
		ArtPrint:        c.resolveType(ctx, ProductTypeArtPrint),
		CanvasStretched: c.resolveType(ctx, ProductTypeCanvasStretched),
		CanvasFramed:    c.resolveType(ctx, ProductTypeCanvasFramed),
	}

	c.cached = set
	c.fetchedAt = time.Now()
	return set, nil
}

// Invalidate drops the cached variant set.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
}

func (c *Catalog) resolveType(ctx context.Context, productType ProductType) []Variant {
	bp := productBlueprints[productType]

	variants, err := c.client.GetBlueprintVariants(ctx, bp.BlueprintID, bp.PrintProviderID)
	if err != nil {
		if productType == ProductTypeArtPrint {
			slog.Warn("could not resolve art print variants, using known fallback IDs", "error", err)
			return artPrintFallbackVariants
		}
		slog.Warn("could not resolve catalog variants", "product_type", productType, "error", err)
		return nil
	}

	var matched []Variant
	for _, size := range ProductSizes {
		for _, v := range variants {
			if matchesSize(v.Title, size) {
				matched = append(matched, v)
				break
			}
		}
	}

	if len(matched) == 0 {
		slog.Warn("catalog variant filter matched nothing; provider size labels may have changed",
			"product_type", productType, "blueprint_id", bp.BlueprintID, "variants", len(variants))
	}
	return matched
}

// FindVariant returns the resolved variant matching a size label.
func (s *VariantSet) FindVariant(productType ProductType, size string) (Variant, bool) {
	for _, v := range s.ForType(productType) {
		if matchesSize(v.Title, size) {
			return v, true
		}
	}
	return Variant{}, false
}

// matchesSize matches a provider variant title against a size label like
// "12x18". Provider titles use inch marks around each dimension; both the
// Unicode double-prime and the ASCII quote are accepted since the catalog has
// used either wording over time. Vertical variants win over horizontal ones
// upstream because ProductSizes are expressed portrait-first.
func matchesSize(title, size string) bool {
	parts := strings.SplitN(size, "x", 2)
	if len(parts) != 2 {
		return false
	}
	w, h := parts[0], parts[1]

	normalized := strings.NewReplacer("″", `"`, "“", `"`, "”", `"`).Replace(title)
	if strings.Contains(strings.ToLower(normalized), "horizontal") {
		return false
	}
	return strings.Contains(normalized, w+`" x `+h+`"`) ||
		strings.Contains(normalized, w+`"x`+h+`"`) ||
		strings.Contains(normalized, w+" x "+h) ||
		strings.Contains(normalized, w+"x"+h)
}
