package checkout

import (
	"math"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
)

// roundCents rounds to two decimals, half away from zero.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Session) Subtotal() float64 {
	var sum float64
	for _, it := range s.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return roundCents(sum)
}

// Discount never exceeds the subtotal, whatever the coupon says.
func (s *Session) Discount() float64 {
	if s.Coupon == nil {
		return 0
	}
	subtotal := s.Subtotal()
	switch s.Coupon.Type {
	case types.DISCOUNT_PERCENTAGE:
		return math.Min(roundCents(s.Coupon.Value*subtotal/100), subtotal)
	case types.DISCOUNT_FIXED_AMOUNT:
		return math.Min(s.Coupon.Value, subtotal)
	}
	return 0
}

// ServiceFee is computed on the discounted subtotal; zero when no active
// fee is configured.
func (s *Session) ServiceFee() float64 {
	if s.Fee == nil || !s.Fee.IsActive {
		return 0
	}
	switch s.Fee.Type {
	case types.DISCOUNT_PERCENTAGE:
		base := s.Subtotal() - s.Discount()
		return roundCents(s.Fee.Percentage * base / 100)
	case types.DISCOUNT_FIXED_AMOUNT:
		return s.Fee.FixedAmount
	}
	return 0
}

func (s *Session) Total() float64 {
	total := s.Subtotal() - s.Discount() + s.ServiceFee()
	return math.Max(0, roundCents(total))
}
