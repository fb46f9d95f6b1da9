package payments

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/codekart/codekart/internal/models"
)

// StripeProvider implements CheckoutProvider with Stripe hosted checkout.
type StripeProvider struct {
	api         *client.API
	frontendURL string
}

func NewStripe(secretKey, frontendURL string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, frontendURL: frontendURL}
}

func (p *StripeProvider) CreateSession(ctx context.Context, order *models.Order) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(order.CustomerInfo.Email),
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/checkout?success=true&session_id={CHECKOUT_SESSION_ID}&order_id=%d",
			p.frontendURL, order.ID,
		)),
		CancelURL: stripe.String(fmt.Sprintf(
			"%s/checkout?canceled=true&order_id=%d",
			p.frontendURL, order.ID,
		)),
	}
	params.AddMetadata("orderId", strconv.FormatUint(uint64(order.ID), 10))

	for _, item := range order.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyINR)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Title),
				},
				// Stripe expects paise for INR.
				UnitAmount: stripe.Int64(int64(math.Round(item.Price * 100))),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe session create: %w", err)
	}

	return &Session{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
	}, nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	sess, err := p.api.CheckoutSessions.Get(id, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("stripe session retrieve: %w", err)
	}

	return &Session{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
	}, nil
}
