// Package payments wraps the payment provider behind a small interface.
// The application only ever needs one call: create a payment intent and
// hand its client secret to the UI.
package payments

import "context"

type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64 // in the currency's smallest unit
	Currency     string
}

type Provider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
}
