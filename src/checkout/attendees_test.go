package checkout

import (
	"testing"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
	"github.com/stretchr/testify/assert"
)

func TestTransactionItemsFlattening(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "prod1", PriceID: "p0", Type: types.ITEM_PRODUCT, Quantity: 2})
	s.AddItem(Item{ID: "tick1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 2, IsNominative: true})
	s.AddItem(Item{ID: "tick2", PriceID: "p2", Type: types.ITEM_TICKET, Quantity: 1, IsNominative: true})

	// flattened indices walk nominative quantities only:
	// 0,1 belong to tick1 and 2 belongs to tick2
	s.NominativeAssignments = []Assignment{
		{ItemIndex: 0, Type: types.ASSIGN_ME},
		{ItemIndex: 1, Type: types.ASSIGN_FOUND, ToUserID: "usr_9"},
		{ItemIndex: 2, Type: types.ASSIGN_NOTFOUND, Phone: "600 111 222", PhoneCountry: "ES", Email: "friend@example.com"},
	}

	items := s.TransactionItems()
	assert.Len(t, items, 3)

	assert.Equal(t, "PRODUCT", items[0].ItemType)
	assert.Empty(t, items[0].Attendees)

	assert.Equal(t, "TICKET", items[1].ItemType)
	assert.Len(t, items[1].Attendees, 2)
	assert.True(t, items[1].Attendees[0].IsForMe)
	assert.Equal(t, "usr_9", items[1].Attendees[1].ToUserID)

	assert.Len(t, items[2].Attendees, 1)
	assert.Equal(t, "600111222", items[2].Attendees[0].Phone)
	assert.Equal(t, "ES", items[2].Attendees[0].PhoneCountry)
	assert.Equal(t, "friend@example.com", items[2].Attendees[0].Email)
}

func TestTransactionItemsWithoutAssignments(t *testing.T) {
	s := NewSession("u1")
	s.AddItem(Item{ID: "tick1", PriceID: "p1", Type: types.ITEM_TICKET, Quantity: 3, IsNominative: true})

	items := s.TransactionItems()
	assert.Len(t, items, 1)
	assert.NotNil(t, items[0].Attendees)
	assert.Empty(t, items[0].Attendees)
}

func TestMapAttendeeFallsBackToSelf(t *testing.T) {
	// a notfound assignment without a phone cannot be delivered
	a := mapAttendee(Assignment{Type: types.ASSIGN_NOTFOUND, PhoneCountry: "ES"})
	assert.True(t, a.IsForMe)
	assert.Empty(t, a.Phone)

	// found without a resolved user id likewise
	a = mapAttendee(Assignment{Type: types.ASSIGN_FOUND})
	assert.True(t, a.IsForMe)
}

func TestMapAttendeeSend(t *testing.T) {
	a := mapAttendee(Assignment{Type: types.ASSIGN_SEND})
	assert.True(t, a.IsForMe)
}
