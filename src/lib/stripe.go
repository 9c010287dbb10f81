package lib

import (
	"context"
	"math"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreatePaymentIntent opens a PaymentIntent for the given transaction.
// Amounts are major currency units and converted to minor units here.
func CreatePaymentIntent(ctx context.Context, transactionID string, amount float64, currency string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"transaction_id": transactionID,
		},
	}
	return sc.V1PaymentIntents.Create(ctx, &params)
}

// CancelPaymentIntent voids a previously created PaymentIntent.
func CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	return sc.V1PaymentIntents.Cancel(ctx, paymentIntentID, &stripe.PaymentIntentCancelParams{})
}
