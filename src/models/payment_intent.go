package models

import (
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
)

// PaymentIntentRequest is the durable idempotency guard for Stripe
// PaymentIntent creation: at most one row per transaction, and its state
// survives process restarts so a re-mounted payment form cannot open a
// second intent.
type PaymentIntentRequest struct {
	TransactionID string `gorm:"primarykey" json:"transaction_id"`

	State           types.PaymentIntentState `gorm:"default:not_requested" json:"state"`
	PaymentIntentID *string                  `json:"payment_intent_id,omitempty"`
	ClientSecret    *string                  `json:"-"`
	Amount          float64                  `json:"amount"`
	Currency        string                   `json:"currency"`
	ExpiresAt       *time.Time               `json:"expires_at,omitempty"`

	types.Timestamps
}
