package engine

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/openclob/matchbook/internal/domain"
)

func TestProperty_TrackerContiguousIdsCompactToOneRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "numIds")
		perm := rapid.Permutation(makeIds(n)).Draw(t, "perm")

		tr := NewOrderIdTracker()
		for _, id := range perm {
			if !tr.TryMark(id) {
				t.Fatalf("expected first mark of %d to succeed", id)
			}
		}

		tr.Compact()
		if tr.RangesCount() != 1 {
			t.Fatalf("contiguous ids should compact to 1 range, got %d", tr.RangesCount())
		}
		r := tr.Ranges()[0]
		if r.From != 1 || r.To != domain.OrderId(n) {
			t.Fatalf("expected range [1,%d], got [%d,%d]", n, r.From, r.To)
		}
	})
}

func TestProperty_TrackerMembershipMatchesNaiveSet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 80).Draw(t, "numMarks")
		tr := NewOrderIdTracker()
		seen := make(map[domain.OrderId]bool)

		for i := 0; i < n; i++ {
			// Narrow id space to provoke duplicates and adjacency.
			id := domain.OrderId(rapid.Uint64Range(0, 30).Draw(t, fmt.Sprintf("id-%d", i)))
			marked := tr.TryMark(id)
			if marked == seen[id] {
				t.Fatalf("TryMark(%d) = %v, but seen = %v", id, marked, seen[id])
			}
			seen[id] = true
		}

		if rapid.Bool().Draw(t, "compact") {
			tr.Compact()
		}

		for id := domain.OrderId(0); id <= 31; id++ {
			if tr.IsMarked(id) != seen[id] {
				t.Fatalf("IsMarked(%d) = %v, want %v", id, tr.IsMarked(id), seen[id])
			}
		}
	})
}

func makeIds(n int) []domain.OrderId {
	ids := make([]domain.OrderId, n)
	for i := range ids {
		ids[i] = domain.OrderId(i + 1)
	}
	return ids
}
