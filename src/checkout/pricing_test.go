package checkout

import (
	"testing"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
	"github.com/stretchr/testify/assert"
)

func cartWith(items ...Item) *Session {
	s := NewSession("u1")
	for _, it := range items {
		s.AddItem(it)
	}
	return s
}

func TestSubtotal(t *testing.T) {
	s := cartWith(
		Item{PriceID: "p1", UnitPrice: 15, Quantity: 2},
		Item{PriceID: "p2", UnitPrice: 9.99, Quantity: 3},
	)
	assert.Equal(t, 59.97, s.Subtotal())
}

func TestSubtotalEmptyCart(t *testing.T) {
	s := NewSession("u1")
	assert.Equal(t, 0.0, s.Subtotal())
	assert.Equal(t, 0.0, s.Total())
}

func TestPercentageDiscount(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 50, Quantity: 2})
	s.Coupon = &Coupon{Code: "TWENTY", Type: types.DISCOUNT_PERCENTAGE, Value: 20}

	assert.Equal(t, 20.0, s.Discount())
	assert.Equal(t, 80.0, s.Total())
}

func TestPercentageDiscountCappedAtSubtotal(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 10, Quantity: 1})
	s.Coupon = &Coupon{Code: "HUGE", Type: types.DISCOUNT_PERCENTAGE, Value: 150}
	s.Fee = &Fee{Type: types.DISCOUNT_PERCENTAGE, Percentage: 5, IsActive: true}

	assert.Equal(t, 10.0, s.Discount())
	assert.LessOrEqual(t, s.Discount(), s.Subtotal())
	assert.Equal(t, 0.0, s.ServiceFee())
	assert.Equal(t, 0.0, s.Total())
}

func TestFixedDiscountCappedAtSubtotal(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 10, Quantity: 1})
	s.Coupon = &Coupon{Code: "FIFTY", Type: types.DISCOUNT_FIXED_AMOUNT, Value: 50}

	assert.Equal(t, 10.0, s.Discount())
	assert.Equal(t, 0.0, s.Total())
}

func TestServiceFeeOnDiscountedSubtotal(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 100, Quantity: 1})
	s.Coupon = &Coupon{Code: "TWENTY", Type: types.DISCOUNT_PERCENTAGE, Value: 20}
	s.Fee = &Fee{Type: types.DISCOUNT_PERCENTAGE, Percentage: 5, IsActive: true}

	assert.Equal(t, 4.0, s.ServiceFee())
	assert.Equal(t, 84.0, s.Total())
}

func TestServiceFeeInactive(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 100, Quantity: 1})
	s.Fee = &Fee{Type: types.DISCOUNT_PERCENTAGE, Percentage: 5, IsActive: false}

	assert.Equal(t, 0.0, s.ServiceFee())
}

func TestFixedServiceFee(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 30, Quantity: 1})
	s.Fee = &Fee{Type: types.DISCOUNT_FIXED_AMOUNT, FixedAmount: 2.5, IsActive: true}

	assert.Equal(t, 2.5, s.ServiceFee())
	assert.Equal(t, 32.5, s.Total())
}

func TestRoundingToCents(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 9.99, Quantity: 3})
	s.Coupon = &Coupon{Code: "TEN", Type: types.DISCOUNT_PERCENTAGE, Value: 10}

	assert.Equal(t, 29.97, s.Subtotal())
	assert.Equal(t, 3.0, s.Discount())
	assert.Equal(t, 26.97, s.Total())
}

func TestTotalNeverNegative(t *testing.T) {
	s := cartWith(Item{PriceID: "p1", UnitPrice: 5, Quantity: 1})
	s.Coupon = &Coupon{Code: "BIG", Type: types.DISCOUNT_FIXED_AMOUNT, Value: 100}

	assert.GreaterOrEqual(t, s.Total(), 0.0)
}
