package orders

import (
	"log/slog"

	"github.com/pawpopart/pawpop-fulfillment/internal/printify"
	stripe "github.com/stripe/stripe-go/v80"
)

// Metadata is the order context carried on a checkout session. Sessions
// created outside our checkout flow (or with stripped metadata) yield nil.
type Metadata struct {
	ArtworkID    string
	ProductType  printify.ProductType
	Size         string
	ImageURL     string
	CustomerName string
	PetName      string
	FrameUpgrade bool
}

// ParseMetadata extracts order metadata from a checkout session. Returns nil
// when the session carries no product type, which marks it as foreign.
func ParseMetadata(session *stripe.CheckoutSession) *Metadata {
	if session == nil || len(session.Metadata) == 0 {
		return nil
	}
	productType, ok := session.Metadata["productType"]
	if !ok || productType == "" {
		return nil
	}
	return &Metadata{
		ArtworkID:    session.Metadata["artworkId"],
		ProductType:  printify.ProductType(productType),
		Size:         session.Metadata["size"],
		ImageURL:     session.Metadata["imageUrl"],
		CustomerName: session.Metadata["customerName"],
		PetName:      session.Metadata["petName"],
		FrameUpgrade: session.Metadata["frameUpgrade"] == "true",
	}
}

// FieldsFromSession builds order-creation fields from a session and its
// parsed metadata, falling back to customer details on the session itself.
func FieldsFromSession(session *stripe.CheckoutSession, md *Metadata) OrderFields {
	fields := OrderFields{
		PriceCents: session.AmountTotal,
	}
	if md != nil {
		fields.ArtworkID = md.ArtworkID
		fields.ProductType = string(md.ProductType)
		fields.ProductSize = md.Size
		fields.CustomerName = md.CustomerName
	}
	if session.CustomerDetails != nil {
		fields.CustomerEmail = session.CustomerDetails.Email
		if fields.CustomerName == "" {
			fields.CustomerName = session.CustomerDetails.Name
		}
	}
	return fields
}

// ShippingFromSession converts the session's collected shipping details into
// our stored snapshot. Nil when the session collected no shipping address.
func ShippingFromSession(session *stripe.CheckoutSession) *ShippingDetails {
	if session == nil || session.ShippingDetails == nil {
		return nil
	}
	sd := session.ShippingDetails
	details := &ShippingDetails{Name: sd.Name}
	if sd.Address != nil {
		details.Line1 = sd.Address.Line1
		details.Line2 = sd.Address.Line2
		details.City = sd.Address.City
		details.State = sd.Address.State
		details.Zip = sd.Address.PostalCode
		details.Country = sd.Address.Country
	}
	if session.CustomerDetails != nil {
		details.Phone = session.CustomerDetails.Phone
	}
	if details.Line1 == "" {
		slog.Warn("shipping details missing street address", "session_id", session.ID)
	}
	return details
}

// PrintifyAddress converts a shipping snapshot plus customer contact into
// the fulfillment provider's address shape.
func PrintifyAddress(details *ShippingDetails, email string) printify.ShippingAddress {
	first, last := splitName(details.Name)
	return printify.ShippingAddress{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     details.Phone,
		Country:   details.Country,
		Region:    details.State,
		Address1:  details.Line1,
		Address2:  details.Line2,
		City:      details.City,
		Zip:       details.Zip,
	}
}

func splitName(full string) (string, string) {
	first := full
	last := ""
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			first = full[:i]
			last = full[i+1:]
			break
		}
	}
	if first == "" {
		first = full
	}
	return first, last
}
