package payments

import (
	"context"

	"github.com/codekart/codekart/internal/models"
)

// StatusPaid is the processor's payment state that allows an order to be
// finalized. Anything else leaves the order untouched.
const StatusPaid = "paid"

// Session is the subset of a processor checkout session the order workflow
// needs.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
}

// CheckoutProvider abstracts the payment processor so order handlers never
// touch the SDK directly.
type CheckoutProvider interface {
	// CreateSession opens a checkout session for an already persisted
	// pending order, carrying the order id as opaque metadata.
	CreateSession(ctx context.Context, order *models.Order) (*Session, error)
	// RetrieveSession fetches the session by id so its payment status can
	// be verified.
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}
