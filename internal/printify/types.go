package printify

// ProductType identifies a sellable PawPop product.
type ProductType string

const (
	ProductTypeDigital         ProductType = "digital"
	ProductTypeArtPrint        ProductType = "art_print"
	ProductTypeCanvasStretched ProductType = "canvas_stretched"
	ProductTypeCanvasFramed    ProductType = "canvas_framed"
)

// IsPhysical reports whether the product requires print fulfillment.
func (t ProductType) IsPhysical() bool {
	return t == ProductTypeArtPrint || t == ProductTypeCanvasStretched || t == ProductTypeCanvasFramed
}

// DisplayName returns the customer-facing product name.
func (t ProductType) DisplayName() string {
	switch t {
	case ProductTypeDigital:
		return "Digital Download"
	case ProductTypeArtPrint:
		return "Fine Art Print"
	case ProductTypeCanvasStretched:
		return "Canvas Stretched"
	case ProductTypeCanvasFramed:
		return "Canvas Framed"
	default:
		return string(t)
	}
}

type blueprintConfig struct {
	BlueprintID     int
	PrintProviderID int
}

// Jondo (print provider 105) fulfills all three physical product lines.
var productBlueprints = map[ProductType]blueprintConfig{
	ProductTypeArtPrint:        {BlueprintID: 1220, PrintProviderID: 105}, // Rolled Posters (Fine Art)
	ProductTypeCanvasStretched: {BlueprintID: 1159, PrintProviderID: 105}, // Matte Canvas, Stretched 1.25"
	ProductTypeCanvasFramed:    {BlueprintID: 944, PrintProviderID: 105},  // Matte Canvas, Framed Multi-color
}

// ProductSizes are the sizes offered for every physical product type.
var ProductSizes = []string{"12x18", "18x24", "20x30"}

// Prices are keyed by size label rather than derived from catalog variant
// ordering, so an upstream reorder cannot silently reprice products.
// Values are cents CAD.
var priceTable = map[ProductType]map[string]int64{
	ProductTypeArtPrint: {
		"12x18": 2900,
		"18x24": 3900,
		"20x30": 4800,
	},
	ProductTypeCanvasStretched: {
		"12x18": 5900,
		"18x24": 7900,
		"20x30": 9900,
	},
	ProductTypeCanvasFramed: {
		"12x18": 9900,
		"18x24": 11900,
		"20x30": 14900,
	},
}

// PriceFor returns the list price in cents for a product type and size label.
func PriceFor(productType ProductType, size string) (int64, bool) {
	sizes, ok := priceTable[productType]
	if !ok {
		return 0, false
	}
	price, ok := sizes[size]
	return price, ok
}

func productDescription(t ProductType) string {
	switch t {
	case ProductTypeArtPrint:
		return "Museum-quality fine art paper (285 g/m²)"
	case ProductTypeCanvasStretched:
		return "Gallery-wrapped, ready to hang"
	case ProductTypeCanvasFramed:
		return "Professional framing included"
	default:
		return ""
	}
}

// ShippingAddress is the recipient of a fulfillment order.
type ShippingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country"`
	Region    string `json:"region,omitempty"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

// OrderLineItem is one item of a fulfillment order.
type OrderLineItem struct {
	ProductID  string            `json:"product_id"`
	VariantID  int               `json:"variant_id"`
	Quantity   int               `json:"quantity"`
	PrintAreas map[string]string `json:"print_areas"`
}

// OrderRequest is the payload for creating a fulfillment order.
type OrderRequest struct {
	ExternalID               string          `json:"external_id"`
	Label                    string          `json:"label,omitempty"`
	LineItems                []OrderLineItem `json:"line_items"`
	ShippingMethod           int             `json:"shipping_method"`
	SendShippingNotification bool            `json:"send_shipping_notification"`
	AddressTo                ShippingAddress `json:"address_to"`
}

// Order is the provider's view of a created fulfillment order.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Variant is a concrete sellable SKU within a blueprint.
type Variant struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type variantsResponse struct {
	Variants []Variant `json:"variants"`
}

type uploadResponse struct {
	ID string `json:"id"`
}

type productImage struct {
	Src        string `json:"src"`
	VariantIDs []int  `json:"variant_ids"`
	Position   string `json:"position"`
	IsDefault  bool   `json:"is_default"`
}

type product struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Images []productImage `json:"images"`
}
