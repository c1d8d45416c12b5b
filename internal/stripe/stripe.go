package stripe

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v80"
	checkoutsession "github.com/stripe/stripe-go/v80/checkout/session"
)

// SessionRetriever fetches checkout sessions from the payment provider.
// Satisfied by Service in production and by fakes in tests.
type SessionRetriever interface {
	GetCheckoutSession(ctx context.Context, sessionID string, expandDetails bool) (*stripe.CheckoutSession, error)
}

// SessionLister enumerates recent checkout sessions, used by order
// reconciliation to sweep a time window.
type SessionLister interface {
	ListRecentSessions(ctx context.Context, since time.Time, limit int64) ([]*stripe.CheckoutSession, error)
}

type Service struct{}

func NewService(secretKey string) *Service {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &Service{}
}

// GetCheckoutSession retrieves a checkout session. expandDetails pulls the
// line items and payment intent, which physical orders need and digital
// orders can skip to save a round trip.
func (s *Service) GetCheckoutSession(ctx context.Context, sessionID string, expandDetails bool) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	if expandDetails {
		params.AddExpand("line_items")
		params.AddExpand("payment_intent")
	}
	return checkoutsession.Get(sessionID, params)
}

// ListRecentSessions returns checkout sessions created at or after since,
// newest first, capped at limit.
func (s *Service) ListRecentSessions(ctx context.Context, since time.Time, limit int64) ([]*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionListParams{
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: since.Unix(),
		},
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	iter := checkoutsession.List(params)
	var sessions []*stripe.CheckoutSession
	for iter.Next() {
		sessions = append(sessions, iter.CheckoutSession())
	}
	return sessions, iter.Err()
}
