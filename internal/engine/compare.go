package engine

import "github.com/openclob/matchbook/internal/domain"

// The comparers are stateless shared singletons. The four book sides and
// the within-level queues are all parameterized on them, so the ordering
// discipline lives in exactly one place.

type priceAscending struct{}

// Compare returns a negative value when a sorts before b, zero when
// equal. Ascending order puts the lowest price first (ask side, stop-bid
// side).
func (priceAscending) Compare(a, b domain.Price) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type priceDescending struct{}

// Compare puts the highest price first (bid side, stop-ask side).
func (priceDescending) Compare(a, b domain.Price) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

type orderSequence struct{}

// Compare orders two resting orders by their engine-assigned sequence,
// ascending. Within a price level this is strict arrival order.
func (orderSequence) Compare(a, b *domain.Order) int {
	switch {
	case a.Sequence < b.Sequence:
		return -1
	case a.Sequence > b.Sequence:
		return 1
	}
	return 0
}

var (
	PriceAscending  = priceAscending{}
	PriceDescending = priceDescending{}
	OrderSequence   = orderSequence{}
)
