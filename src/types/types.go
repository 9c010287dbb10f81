package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type CheckoutStep string

const (
	STEP_SELECTION CheckoutStep = "selection"
	STEP_SUMMARY   CheckoutStep = "summary"
	STEP_PAYMENT   CheckoutStep = "payment"
)

type ItemType string

const (
	ITEM_TICKET      ItemType = "ticket"
	ITEM_GUESTLIST   ItemType = "guestlist"
	ITEM_RESERVATION ItemType = "reservation"
	ITEM_PRODUCT     ItemType = "product"
	ITEM_PROMOTION   ItemType = "promotion"
)

// Wire returns the item type as the platform transaction API spells it.
func (t ItemType) Wire() string {
	return strings.ToUpper(string(t))
}

type DiscountType string

const (
	DISCOUNT_PERCENTAGE   DiscountType = "PERCENTAGE"
	DISCOUNT_FIXED_AMOUNT DiscountType = "FIXED_AMOUNT"
)

type AssignmentType string

const (
	ASSIGN_ME       AssignmentType = "me"
	ASSIGN_SEND     AssignmentType = "send"
	ASSIGN_FOUND    AssignmentType = "found"
	ASSIGN_NOTFOUND AssignmentType = "notfound"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING   TransactionStatus = "PENDING"
	TRANSACTION_COMPLETED TransactionStatus = "COMPLETED"
	TRANSACTION_CANCELLED TransactionStatus = "CANCELLED"
	TRANSACTION_EXPIRED   TransactionStatus = "EXPIRED"
	TRANSACTION_REFUNDED  TransactionStatus = "REFUNDED"
)

type PaymentIntentState string

const (
	PI_NOT_REQUESTED PaymentIntentState = "not_requested"
	PI_PENDING       PaymentIntentState = "pending"
	PI_COMPLETED     PaymentIntentState = "completed"
)

type BindEventRequestBody struct {
	EventID     string   `json:"event_id" binding:"required"`
	EventName   string   `json:"event_name" binding:"required"`
	EventSlug   string   `json:"event_slug,omitempty"`
	DisplayInfo JSONB    `json:"display_info,omitempty"`
	Fee         *FeeBody `json:"fee,omitempty"`
}

// FeeBody is the service-fee configuration active for the bound event, as
// provided by the platform policy endpoint.
type FeeBody struct {
	ID          string       `json:"id"`
	Type        DiscountType `json:"type" binding:"omitempty,oneof=PERCENTAGE FIXED_AMOUNT"`
	Percentage  float64      `json:"percentage,omitempty"`
	FixedAmount float64      `json:"fixed_amount,omitempty"`
	Currency    string       `json:"currency,omitempty"`
	IsActive    bool         `json:"is_active"`
}

type AddItemRequestBody struct {
	ID           string   `json:"id" binding:"required"`
	PriceID      string   `json:"price_id" binding:"required"`
	Type         ItemType `json:"type" binding:"required,oneof=ticket guestlist reservation product promotion"`
	Name         string   `json:"name" binding:"required"`
	PriceName    string   `json:"price_name,omitempty"`
	UnitPrice    float64  `json:"unit_price" binding:"gte=0"`
	Quantity     int      `json:"quantity" binding:"required,min=1"`
	IsNominative bool     `json:"is_nominative,omitempty"`
	MaxPersons   int      `json:"max_persons,omitempty"`
}

type UpdateItemQuantityRequestBody struct {
	Quantity int `json:"quantity"`
}

type ItemPriceURIParams struct {
	PriceID string `uri:"priceId" binding:"required"`
}

type ApplyCouponRequestBody struct {
	ID    string       `json:"id" binding:"required"`
	Code  string       `json:"code" binding:"required"`
	Type  DiscountType `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value float64      `json:"value" binding:"gte=0"`
}

type NominativeAssignmentBody struct {
	ItemIndex    int            `json:"item_index" binding:"gte=0"`
	Type         AssignmentType `json:"assignment_type" binding:"required,oneof=me send found notfound"`
	Phone        string         `json:"phone,omitempty"`
	PhoneCountry string         `json:"phone_country,omitempty" binding:"omitempty,phonecountry"`
	Email        string         `json:"email,omitempty" binding:"omitempty,email"`
	ToUserID     string         `json:"to_user_id,omitempty"`
}

type AssignAttendeesRequestBody struct {
	Assignments []NominativeAssignmentBody `json:"assignments" binding:"required,dive"`
}

type TransactionURIParams struct {
	ID string `uri:"id" binding:"required"`
}

// CreateTransactionRequestBody is the outbound payload for the platform
// transaction API (POST /transactions).
type CreateTransactionRequestBody struct {
	EventID    string            `json:"eventId"`
	Items      []TransactionItem `json:"items"`
	CouponCode string            `json:"couponCode,omitempty"`
}

type TransactionItem struct {
	ItemType  string                `json:"itemType"`
	ItemID    string                `json:"itemId"`
	PriceID   string                `json:"priceId,omitempty"`
	Quantity  int                   `json:"quantity"`
	Attendees []TransactionAttendee `json:"attendees,omitempty"`
}

type TransactionAttendee struct {
	IsForMe      bool   `json:"isForMe"`
	ToUserID     string `json:"toUserId,omitempty"`
	Phone        string `json:"phone,omitempty"`
	PhoneCountry string `json:"phoneCountry,omitempty"`
	Email        string `json:"email,omitempty"`
}

// PlatformTransaction is the transaction object returned by the platform API.
type PlatformTransaction struct {
	ID         string            `json:"id"`
	Status     TransactionStatus `json:"status"`
	TotalPrice float64           `json:"totalPrice"`
	Currency   string            `json:"currency"`
	EventID    string            `json:"eventId,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret    string     `json:"clientSecret"`
	PaymentIntentID string     `json:"paymentIntentId"`
	TransactionID   string     `json:"transactionId"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

type APIResponseCheckout struct {
	Step       CheckoutStep `json:"step"`
	EventID    string       `json:"event_id,omitempty"`
	EventName  string       `json:"event_name,omitempty"`
	EventSlug  string       `json:"event_slug,omitempty"`
	Items      any          `json:"items"`
	Coupon     any          `json:"coupon,omitempty"`
	Subtotal   float64      `json:"subtotal"`
	Discount   float64      `json:"discount"`
	ServiceFee float64      `json:"service_fee"`
	Total      float64      `json:"total"`
	Remaining  int          `json:"remaining"`
	Expired    bool         `json:"expired"`

	Transaction *PlatformTransaction `json:"transaction,omitempty"`
}

type Claims struct {
	Email string `json:"email,omitempty"`
	UID   string `json:"uid"`
	jwt.RegisteredClaims
}
