package checkout

import (
	"encoding/json"
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
)

// DefaultTimerDuration is the checkout countdown length in seconds.
const DefaultTimerDuration = 600

type Item struct {
	ID           string         `json:"id"`
	PriceID      string         `json:"price_id"`
	Type         types.ItemType `json:"type"`
	Name         string         `json:"name"`
	PriceName    string         `json:"price_name,omitempty"`
	UnitPrice    float64        `json:"unit_price"`
	Quantity     int            `json:"quantity"`
	IsNominative bool           `json:"is_nominative,omitempty"`
	MaxPersons   int            `json:"max_persons,omitempty"`
}

type Coupon struct {
	ID    string             `json:"id"`
	Code  string             `json:"code"`
	Type  types.DiscountType `json:"type"`
	Value float64            `json:"value"`
}

type Fee struct {
	ID          string             `json:"id"`
	Type        types.DiscountType `json:"type"`
	Percentage  float64            `json:"percentage"`
	FixedAmount float64            `json:"fixed_amount"`
	Currency    string             `json:"currency"`
	IsActive    bool               `json:"is_active"`
}

type Assignment struct {
	ItemIndex    int                  `json:"item_index"`
	Type         types.AssignmentType `json:"assignment_type"`
	Phone        string               `json:"phone,omitempty"`
	PhoneCountry string               `json:"phone_country,omitempty"`
	Email        string               `json:"email,omitempty"`
	ToUserID     string               `json:"to_user_id,omitempty"`
}

// Session is the checkout aggregate for a single visitor. Everything
// exported here is the persisted document; the storage key and the
// hydration flag are transient and never serialized.
type Session struct {
	Key string `json:"-"`

	Step                  types.CheckoutStep `json:"step"`
	EventID               string             `json:"event_id,omitempty"`
	EventName             string             `json:"event_name,omitempty"`
	EventSlug             string             `json:"event_slug,omitempty"`
	EventDisplayInfo      types.JSONB        `json:"event_display_info,omitempty"`
	Items                 []Item             `json:"items"`
	Coupon                *Coupon            `json:"coupon,omitempty"`
	Fee                   *Fee               `json:"fee,omitempty"`
	NominativeAssignments []Assignment       `json:"nominative_assignments,omitempty"`
	ReservationFormData   types.JSONB        `json:"reservation_form_data,omitempty"`
	TransactionID         string             `json:"transaction_id,omitempty"`
	TransactionAmount     float64            `json:"transaction_amount,omitempty"`
	TransactionCurrency   string             `json:"transaction_currency,omitempty"`
	TimerStartedAt        *time.Time         `json:"timer_started_at,omitempty"`
	TimerDuration         int                `json:"timer_duration"`
	IsTimerExpired        bool               `json:"is_timer_expired"`

	hydrated bool
}

func NewSession(key string) *Session {
	return &Session{
		Key:           key,
		Step:          types.STEP_SELECTION,
		Items:         []Item{},
		TimerDuration: DefaultTimerDuration,
		hydrated:      true,
	}
}

// Hydrated reports whether the session came from NewSession or a store
// load, i.e. whether its timer fields can be trusted.
func (s *Session) Hydrated() bool {
	return s.hydrated
}

func (s *Session) markHydrated() {
	s.hydrated = true
	if s.TimerDuration <= 0 {
		s.TimerDuration = DefaultTimerDuration
	}
	if s.Step == "" {
		s.Step = types.STEP_SELECTION
	}
}

// GoToSummary advances selection -> summary and starts the countdown
// exactly once: re-entering summary from payment keeps the running timer.
func (s *Session) GoToSummary(now time.Time) {
	if s.Step != types.STEP_SELECTION {
		return
	}
	s.Step = types.STEP_SUMMARY
	if s.TimerStartedAt == nil {
		t := now
		s.TimerStartedAt = &t
		s.IsTimerExpired = false
	}
}

// GoToPayment advances summary -> payment.
func (s *Session) GoToPayment() {
	if s.Step != types.STEP_SUMMARY {
		return
	}
	s.Step = types.STEP_PAYMENT
}

// GoBack retreats one step at a time; a no-op on the selection step.
func (s *Session) GoBack() {
	switch s.Step {
	case types.STEP_PAYMENT:
		s.Step = types.STEP_SUMMARY
	case types.STEP_SUMMARY:
		s.Step = types.STEP_SELECTION
	}
}

// ExpireTimer flags the countdown as elapsed. It never touches the step;
// callers decide how to unwind the flow.
func (s *Session) ExpireTimer() {
	s.IsTimerExpired = true
}

// TimerDeadline returns the instant the countdown elapses, or nil when the
// timer has not started.
func (s *Session) TimerDeadline() *time.Time {
	if s.TimerStartedAt == nil {
		return nil
	}
	d := s.TimerStartedAt.Add(time.Duration(s.TimerDuration) * time.Second)
	return &d
}

// ResetForNewEvent wipes the whole session when it is bound to a different
// event, or when its timer has already expired. Rebinding the same event on
// a live session leaves everything untouched. Returns true when a wipe
// happened.
func (s *Session) ResetForNewEvent(newEventID string) bool {
	if (s.EventID == "" || s.EventID == newEventID) && !s.IsTimerExpired {
		return false
	}
	s.reset()
	return true
}

// BindEvent attaches the event the visitor is buying for.
func (s *Session) BindEvent(id, name, slug string, displayInfo types.JSONB) {
	s.EventID = id
	s.EventName = name
	s.EventSlug = slug
	s.EventDisplayInfo = displayInfo
}

func (s *Session) SetTransaction(id string, amount float64, currency string) {
	s.TransactionID = id
	s.TransactionAmount = amount
	s.TransactionCurrency = currency
}

func (s *Session) ClearTransaction() {
	s.TransactionID = ""
	s.TransactionAmount = 0
	s.TransactionCurrency = ""
}

// Clone deep-copies the session through its persisted form, keeping the
// storage key and the hydration flag.
func (s *Session) Clone() *Session {
	raw, err := json.Marshal(s)
	if err != nil {
		c := *s
		return &c
	}
	var c Session
	if err := json.Unmarshal(raw, &c); err != nil {
		c = *s
		return &c
	}
	c.Key = s.Key
	c.hydrated = s.hydrated
	return &c
}

func (s *Session) reset() {
	s.Step = types.STEP_SELECTION
	s.EventID = ""
	s.EventName = ""
	s.EventSlug = ""
	s.EventDisplayInfo = nil
	s.Items = []Item{}
	s.Coupon = nil
	s.Fee = nil
	s.NominativeAssignments = nil
	s.ReservationFormData = nil
	s.ClearTransaction()
	s.TimerStartedAt = nil
	s.IsTimerExpired = false
	s.TimerDuration = DefaultTimerDuration
}
