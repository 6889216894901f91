package engine

import (
	"sort"

	"github.com/google/btree"

	"github.com/openclob/matchbook/internal/domain"
)

// expiryBucket holds the ids of all orders expiring at one timestamp.
type expiryBucket struct {
	expiresOn int64
	orderIds  map[domain.OrderId]struct{}
}

// GoodTillDateOrders indexes resting GTD orders by expiry timestamp so
// the expiry sweep walks only the buckets that are due. Buckets are
// emptied by Remove but never implicitly deleted.
type GoodTillDateOrders struct {
	buckets *btree.BTreeG[*expiryBucket]
}

// NewGoodTillDateOrders creates an empty expiry index.
func NewGoodTillDateOrders() *GoodTillDateOrders {
	const degree = 16
	return &GoodTillDateOrders{
		buckets: btree.NewG(degree, func(a, b *expiryBucket) bool {
			return a.expiresOn < b.expiresOn
		}),
	}
}

// Add registers a GTD order under its CancelOn bucket. Non-GTD orders
// are never tracked; adding one is a no-op. Re-adding an already
// tracked order is also a no-op.
func (g *GoodTillDateOrders) Add(o *domain.Order) {
	if !o.IsGoodTillDate() {
		return
	}
	probe := &expiryBucket{expiresOn: o.CancelOn}
	bucket, ok := g.buckets.Get(probe)
	if !ok {
		probe.orderIds = make(map[domain.OrderId]struct{})
		bucket = probe
		g.buckets.ReplaceOrInsert(bucket)
	}
	bucket.orderIds[o.OrderId] = struct{}{}
}

// Remove drops an order from its bucket. Removing an untracked or
// non-GTD order is a no-op.
func (g *GoodTillDateOrders) Remove(o *domain.Order) {
	if !o.IsGoodTillDate() {
		return
	}
	bucket, ok := g.buckets.Get(&expiryBucket{expiresOn: o.CancelOn})
	if !ok {
		return
	}
	delete(bucket.orderIds, o.OrderId)
}

// GetExpiredOrders returns the ids in every bucket whose timestamp is at
// or before the given time, in ascending bucket order and ascending id
// order within a bucket, so a sweep over the same index always cancels
// in the same order. The read does not mutate the index: repeated calls
// with the same timestamp return the same result.
func (g *GoodTillDateOrders) GetExpiredOrders(timestamp int64) []domain.OrderId {
	var expired []domain.OrderId
	g.buckets.Ascend(func(bucket *expiryBucket) bool {
		if bucket.expiresOn > timestamp {
			return false
		}
		ids := make([]domain.OrderId, 0, len(bucket.orderIds))
		for id := range bucket.orderIds {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		expired = append(expired, ids...)
		return true
	})
	return expired
}

// TrackedCount returns the number of tracked order ids across all
// buckets.
func (g *GoodTillDateOrders) TrackedCount() int {
	n := 0
	g.buckets.Ascend(func(bucket *expiryBucket) bool {
		n += len(bucket.orderIds)
		return true
	})
	return n
}
