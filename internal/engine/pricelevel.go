package engine

import (
	"sort"

	"github.com/openclob/matchbook/internal/domain"
)

// PriceLevel is the FIFO queue of orders resting at one price. Orders
// are kept sorted by Sequence ascending, so iteration order is arrival
// order no matter the order of the Add calls. A level referenced from a
// book side is never empty; empty levels are pruned by the book.
type PriceLevel struct {
	price  domain.Price
	orders []*domain.Order
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price domain.Price) *PriceLevel {
	return &PriceLevel{price: price}
}

// Price returns the level's price key. For stop sides this is the stop
// price of the parked orders.
func (l *PriceLevel) Price() domain.Price {
	return l.price
}

// Add inserts an order at its sequence position.
func (l *PriceLevel) Add(o *domain.Order) {
	idx := sort.Search(len(l.orders), func(i int) bool {
		return OrderSequence.Compare(l.orders[i], o) > 0
	})
	l.orders = append(l.orders, nil)
	copy(l.orders[idx+1:], l.orders[idx:])
	l.orders[idx] = o
}

// Remove deletes an order by identity. Returns false if the order is not
// on this level.
func (l *PriceLevel) Remove(o *domain.Order) bool {
	for i, cur := range l.orders {
		if cur == o {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

// First returns the order at the front of the queue.
func (l *PriceLevel) First() (*domain.Order, bool) {
	if len(l.orders) == 0 {
		return nil, false
	}
	return l.orders[0], true
}

// Len returns the number of orders queued at this level.
func (l *PriceLevel) Len() int {
	return len(l.orders)
}

// Each iterates the queue in arrival order. The callback returns true to
// continue.
func (l *PriceLevel) Each(fn func(*domain.Order) bool) {
	for _, o := range l.orders {
		if !fn(o) {
			return
		}
	}
}

// QuantityTrackingPriceLevel is a PriceLevel that additionally maintains
// the running sum of open quantity, giving O(1) depth queries. The live
// bid and ask sides use this variant.
type QuantityTrackingPriceLevel struct {
	PriceLevel
	quantity domain.Quantity
}

// NewQuantityTrackingPriceLevel creates an empty tracking level.
func NewQuantityTrackingPriceLevel(price domain.Price) *QuantityTrackingPriceLevel {
	return &QuantityTrackingPriceLevel{PriceLevel: PriceLevel{price: price}}
}

// Quantity returns the summed open quantity of all queued orders.
func (l *QuantityTrackingPriceLevel) Quantity() domain.Quantity {
	return l.quantity
}

// Add inserts an order and adds its open quantity to the running sum.
func (l *QuantityTrackingPriceLevel) Add(o *domain.Order) {
	l.PriceLevel.Add(o)
	l.quantity += o.OpenQuantity
}

// Remove deletes an order and subtracts its open quantity.
func (l *QuantityTrackingPriceLevel) Remove(o *domain.Order) bool {
	if !l.PriceLevel.Remove(o) {
		return false
	}
	l.quantity -= o.OpenQuantity
	return true
}

// Fill records qty traded out of this level. The caller decrements the
// order's own open quantity.
func (l *QuantityTrackingPriceLevel) Fill(qty domain.Quantity) {
	l.quantity -= qty
}

// HiddenQuantity sums the iceberg remainders queued at this level.
func (l *QuantityTrackingPriceLevel) HiddenQuantity() domain.Quantity {
	var hidden domain.Quantity
	for _, o := range l.orders {
		hidden += o.TotalQuantity
	}
	return hidden
}
