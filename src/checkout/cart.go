package checkout

import (
	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
)

// AddItem appends a line to the cart. A line already holding the same
// price id absorbs the new quantity instead of duplicating.
func (s *Session) AddItem(item Item) {
	for i := range s.Items {
		if s.Items[i].PriceID == item.PriceID {
			s.Items[i].Quantity += item.Quantity
			return
		}
	}
	s.Items = append(s.Items, item)
}

// RemoveItem drops the line matching the price id; a no-op when absent.
func (s *Session) RemoveItem(priceID string) {
	items := s.Items[:0]
	for _, it := range s.Items {
		if it.PriceID != priceID {
			items = append(items, it)
		}
	}
	s.Items = items
}

// UpdateItemQuantity sets the line's quantity to the given absolute value.
// Zero or negative quantities remove the line outright.
func (s *Session) UpdateItemQuantity(priceID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(priceID)
		return
	}
	for i := range s.Items {
		if s.Items[i].PriceID == priceID {
			s.Items[i].Quantity = quantity
			return
		}
	}
}

// ClearCart is the canonical full reset after a purchase or abandonment:
// items, coupon, assignments, step, timer and transaction all go back to
// their defaults. The event binding survives.
func (s *Session) ClearCart() {
	s.Items = []Item{}
	s.Coupon = nil
	s.NominativeAssignments = nil
	s.ReservationFormData = nil
	s.Step = types.STEP_SELECTION
	s.TimerStartedAt = nil
	s.IsTimerExpired = false
	s.ClearTransaction()
}

// ClearItemsByType removes every line of the given type, used when one
// category's selections must be invalidated on their own.
func (s *Session) ClearItemsByType(t types.ItemType) {
	items := s.Items[:0]
	for _, it := range s.Items {
		if it.Type != t {
			items = append(items, it)
		}
	}
	s.Items = items
}

func (s *Session) HasItems() bool {
	return len(s.Items) > 0
}
