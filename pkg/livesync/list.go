package livesync

import "offeralert_backend/internal/model"

// List is a newest-first local view of promo codes kept consistent by
// applying change events in receipt order.
type List []model.PromoCode

// Apply folds one event into the list and returns the result.
//
// Inserts are prepended, keeping newest-first ordering; an insert whose id
// is already present is dropped, the same way an update or delete for an
// absent id is a no-op. Both rules guard the race between the initial fetch
// and the start of the watch. Updates replace the record in place without
// moving it; deletes remove by id.
func (l List) Apply(event Event) List {
	switch event.Kind {
	case Insert:
		if l.indexOf(event.Record.ID) >= 0 {
			return l
		}
		return append(List{event.Record}, l...)

	case Update:
		i := l.indexOf(event.Record.ID)
		if i < 0 {
			return l
		}
		out := append(List(nil), l...)
		out[i] = event.Record
		return out

	case Delete:
		i := l.indexOf(event.Record.ID)
		if i < 0 {
			return l
		}
		out := append(List(nil), l[:i]...)
		return append(out, l[i+1:]...)
	}
	return l
}

func (l List) indexOf(id uint) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
