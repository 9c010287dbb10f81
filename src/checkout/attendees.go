package checkout

import (
	"log"
	"strings"

	"github.com/Klubit-Develop/k-microsites-sub001/src/types"
)

// assignmentsForRange collects the staged assignments whose flattened index
// falls in [lo, hi). Flattened indices walk the cart in order and consume
// one slot per unit of quantity, counting nominative items only.
func (s *Session) assignmentsForRange(lo, hi int) []Assignment {
	var out []Assignment
	for _, a := range s.NominativeAssignments {
		if a.ItemIndex >= lo && a.ItemIndex < hi {
			out = append(out, a)
		}
	}
	return out
}

// TransactionItems converts the cart into the platform transaction request
// lines, attaching each nominative item's slice of attendee assignments.
func (s *Session) TransactionItems() []types.TransactionItem {
	items := make([]types.TransactionItem, 0, len(s.Items))
	cursor := 0
	for _, it := range s.Items {
		line := types.TransactionItem{
			ItemType: it.Type.Wire(),
			ItemID:   it.ID,
			PriceID:  it.PriceID,
			Quantity: it.Quantity,
		}
		if it.IsNominative {
			assigned := s.assignmentsForRange(cursor, cursor+it.Quantity)
			attendees := make([]types.TransactionAttendee, 0, len(assigned))
			for _, a := range assigned {
				attendees = append(attendees, mapAttendee(a))
			}
			line.Attendees = attendees
			cursor += it.Quantity
		}
		items = append(items, line)
	}
	return items
}

// mapAttendee translates one staged assignment into an attendee record.
// Incomplete combinations fall back to a self-assignment instead of failing
// the whole submission; the warning keeps that fallback visible upstream.
func mapAttendee(a Assignment) types.TransactionAttendee {
	switch {
	case a.Type == types.ASSIGN_ME:
		return types.TransactionAttendee{IsForMe: true}
	case a.Type == types.ASSIGN_FOUND && a.ToUserID != "":
		return types.TransactionAttendee{IsForMe: false, ToUserID: a.ToUserID}
	case a.Type == types.ASSIGN_NOTFOUND && a.Phone != "" && a.PhoneCountry != "":
		return types.TransactionAttendee{
			IsForMe:      false,
			Phone:        strings.ReplaceAll(a.Phone, " ", ""),
			PhoneCountry: a.PhoneCountry,
			Email:        a.Email,
		}
	}
	log.Printf("[checkout] incomplete attendee assignment (type=%s index=%d), falling back to self\n", a.Type, a.ItemIndex)
	return types.TransactionAttendee{IsForMe: true}
}
