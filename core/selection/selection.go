package selection

import (
	"slices"

	"github.com/kilianp07/seaplane/core/model"
)

// Set tracks the pending orders chosen for a delivery. Membership is
// unordered and free of duplicates.
type Set struct {
	ids map[string]struct{}
}

// New returns an empty set.
func New() *Set { return &Set{ids: map[string]struct{}{}} }

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *Set) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Contains reports whether id is selected.
func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Clear empties the set.
func (s *Set) Clear() { clear(s.ids) }

// Len returns the number of selected ids, stale ones included.
func (s *Set) Len() int { return len(s.ids) }

// IDs returns the selected ids sorted.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Prune drops ids that are not in orders and returns how many were removed.
func (s *Set) Prune(orders []model.PendingOrder) int {
	present := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		present[o.ID] = struct{}{}
	}
	removed := 0
	for id := range s.ids {
		if _, ok := present[id]; !ok {
			delete(s.ids, id)
			removed++
		}
	}
	return removed
}

// Demand is the aggregate crate count of the selected orders.
type Demand struct {
	Crates int `json:"crates"`
	// Orders counts the selected ids that matched an order in the list.
	Orders int `json:"orders"`
}

// Empty reports whether no selected order backs the demand.
func (d Demand) Empty() bool { return d.Orders == 0 }

// AggregateDemand sums the crate quantity of the orders that are both selected
// and present in orders. Selected ids absent from orders contribute nothing.
// Each order id is counted once even if the list repeats it.
func (s *Set) AggregateDemand(orders []model.PendingOrder) Demand {
	var d Demand
	counted := make(map[string]struct{}, len(s.ids))
	for _, o := range orders {
		if _, ok := s.ids[o.ID]; !ok {
			continue
		}
		if _, dup := counted[o.ID]; dup {
			continue
		}
		counted[o.ID] = struct{}{}
		d.Crates += o.CrateQuantity
		d.Orders++
	}
	return d
}
