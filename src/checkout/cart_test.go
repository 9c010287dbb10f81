package checkout

import (
	"testing"
	"time"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
	"github.com/stretchr/testify/assert"
)

func TestAddItemMergesByPriceID(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Name: "General", UnitPrice: 10, Quantity: 2})
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Name: "General", UnitPrice: 10, Quantity: 3})

	assert.Len(t, s.Items, 1)
	assert.Equal(t, 5, s.Items[0].Quantity)
}

func TestAddItemDistinctPrices(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 1})
	s.AddItem(Item{ID: "t1", PriceID: "p2", Type: types.ITEM_TICKET, Quantity: 1})

	assert.Len(t, s.Items, 2)
}

func TestUpdateItemQuantity(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 2})

	s.UpdateItemQuantity("p1", 7)
	assert.Equal(t, 7, s.Items[0].Quantity)

	s.UpdateItemQuantity("p1", 0)
	assert.Empty(t, s.Items)
}

func TestUpdateItemQuantityNegativeRemoves(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 2})

	s.UpdateItemQuantity("p1", -1)
	assert.Empty(t, s.Items)
	assert.False(t, s.HasItems())
}

func TestRemoveItem(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 1})
	s.AddItem(Item{ID: "g1", PriceID: "p2", Type: types.ITEM_GUESTLIST, Quantity: 1})

	s.RemoveItem("p1")
	assert.Len(t, s.Items, 1)
	assert.Equal(t, "p2", s.Items[0].PriceID)

	s.RemoveItem("does-not-exist")
	assert.Len(t, s.Items, 1)
}

func TestClearItemsByType(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 1})
	s.AddItem(Item{ID: "r1", PriceID: "p2", Type: types.ITEM_RESERVATION, Quantity: 1})
	s.AddItem(Item{ID: "t2", PriceID: "p3", Type: types.ITEM_TICKET, Quantity: 1})

	s.ClearItemsByType(types.ITEM_TICKET)
	assert.Len(t, s.Items, 1)
	assert.Equal(t, types.ITEM_RESERVATION, s.Items[0].Type)
}

func TestClearCartKeepsEventBinding(t *testing.T) {
	s := NewSession("u1")
	s.BindEvent("ev1", "Opening Night", "opening-night", nil)
	s.AddItem(Item{ID: "t1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 1})
	s.Coupon = &Coupon{ID: "c1", Code: "TEN", Type: types.DISCOUNT_FIXED_AMOUNT, Value: 10}
	s.GoToSummary(time.Now())
	s.SetTransaction("tx1", 10, "EUR")

	s.ClearCart()

	assert.Equal(t, "ev1", s.EventID)
	assert.Empty(t, s.Items)
	assert.Nil(t, s.Coupon)
	assert.Equal(t, types.STEP_SELECTION, s.Step)
	assert.Nil(t, s.TimerStartedAt)
	assert.False(t, s.IsTimerExpired)
	assert.Empty(t, s.TransactionID)
}
