package engine

import (
	"sort"

	"github.com/openclob/matchbook/internal/domain"
)

// OrderIdRange is a closed interval [From, To] of seen order ids.
type OrderIdRange struct {
	From domain.OrderId
	To   domain.OrderId
}

// Contains reports whether id lies within the range.
func (r OrderIdRange) Contains(id domain.OrderId) bool {
	return r.From <= id && id <= r.To
}

// OrderIdTracker detects replayed order ids over a sparse id space by
// coalescing seen ids into intervals instead of keeping a per-id set.
// Ranges stay sorted by From at all times; marking may leave adjacent or
// overlapping neighbors, which Compact merges into maximal disjoint
// ranges.
type OrderIdTracker struct {
	ranges []OrderIdRange
}

// NewOrderIdTracker creates an empty tracker.
func NewOrderIdTracker() *OrderIdTracker {
	return &OrderIdTracker{}
}

// TryMark records id as seen. It returns false without mutating when the
// id already lies in a tracked range. A fresh id extends an adjacent
// range in place when possible, otherwise a new singleton range is
// inserted at its sorted position.
func (t *OrderIdTracker) TryMark(id domain.OrderId) bool {
	idx := sort.Search(len(t.ranges), func(i int) bool {
		return t.ranges[i].To >= id
	})
	if idx < len(t.ranges) && t.ranges[idx].Contains(id) {
		return false
	}
	// Extend the following range downward.
	if idx < len(t.ranges) && t.ranges[idx].From > 0 && t.ranges[idx].From-1 == id {
		t.ranges[idx].From = id
		return true
	}
	// Extend the preceding range upward.
	if idx > 0 && t.ranges[idx-1].To < domain.OrderIdMaxValue && t.ranges[idx-1].To+1 == id {
		t.ranges[idx-1].To = id
		return true
	}
	t.ranges = append(t.ranges, OrderIdRange{})
	copy(t.ranges[idx+1:], t.ranges[idx:])
	t.ranges[idx] = OrderIdRange{From: id, To: id}
	return true
}

// IsMarked reports whether id has been seen. It never mutates.
func (t *OrderIdTracker) IsMarked(id domain.OrderId) bool {
	idx := sort.Search(len(t.ranges), func(i int) bool {
		return t.ranges[i].To >= id
	})
	return idx < len(t.ranges) && t.ranges[idx].Contains(id)
}

// Compact merges adjacent and overlapping ranges into maximal disjoint
// ranges. Membership is unchanged; only the representation shrinks.
func (t *OrderIdTracker) Compact() {
	if len(t.ranges) < 2 {
		return
	}
	merged := t.ranges[:1]
	for _, r := range t.ranges[1:] {
		last := &merged[len(merged)-1]
		if r.From <= last.To || (last.To < domain.OrderIdMaxValue && r.From == last.To+1) {
			if r.To > last.To {
				last.To = r.To
			}
			continue
		}
		merged = append(merged, r)
	}
	t.ranges = merged
}

// RangesCount returns the current number of tracked ranges.
func (t *OrderIdTracker) RangesCount() int {
	return len(t.ranges)
}

// Ranges returns a copy of the tracked ranges in ascending order.
func (t *OrderIdTracker) Ranges() []OrderIdRange {
	out := make([]OrderIdRange, len(t.ranges))
	copy(out, t.ranges)
	return out
}
