package models

import (
	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
)

// Transaction mirrors the platform-owned transaction locally so the wallet
// view and the payment-intent guard survive platform outages.
type Transaction struct {
	ID string `gorm:"primarykey" json:"id"`

	EventID     string                  `json:"event_id,omitempty"`
	UserUID     string                  `json:"user_uid,omitempty"`
	Amount      float64                 `json:"amount"`
	Currency    string                  `json:"currency"`
	Status      types.TransactionStatus `gorm:"default:PENDING" json:"status"`
	ReferenceID string                  `json:"reference_id,omitempty"`
	Metadata    types.JSONB             `json:"metadata,omitempty"`

	types.Timestamps
}
