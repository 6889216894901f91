package engine

import (
	"github.com/google/btree"

	"github.com/openclob/matchbook/internal/domain"
)

// LevelView is one aggregated price level of a depth snapshot.
type LevelView struct {
	Price          domain.Price
	OpenQuantity   domain.Quantity
	HiddenQuantity domain.Quantity
	OrderCount     uint64
}

// OrderBook holds the four sides of a single instrument's book: live
// bids and asks keyed by limit price, plus the parked stop orders keyed
// by stop price. Each side is a B-tree of price levels whose Min() is
// the most urgent level: best bid, best ask, or nearest-to-trigger stop.
type OrderBook struct {
	bids     *btree.BTreeG[*QuantityTrackingPriceLevel]
	asks     *btree.BTreeG[*QuantityTrackingPriceLevel]
	stopBids *btree.BTreeG[*PriceLevel]
	stopAsks *btree.BTreeG[*PriceLevel]
}

// NewOrderBook creates an empty book.
func NewOrderBook() *OrderBook {
	const degree = 32
	return &OrderBook{
		// Bid side: highest price first.
		bids: btree.NewG(degree, func(a, b *QuantityTrackingPriceLevel) bool {
			return PriceDescending.Compare(a.Price(), b.Price()) < 0
		}),
		// Ask side: lowest price first.
		asks: btree.NewG(degree, func(a, b *QuantityTrackingPriceLevel) bool {
			return PriceAscending.Compare(a.Price(), b.Price()) < 0
		}),
		// Buy stops trigger as the market rises: lowest stop price is
		// nearest to trigger.
		stopBids: btree.NewG(degree, func(a, b *PriceLevel) bool {
			return PriceAscending.Compare(a.Price(), b.Price()) < 0
		}),
		// Sell stops trigger as the market falls: highest stop price is
		// nearest to trigger.
		stopAsks: btree.NewG(degree, func(a, b *PriceLevel) bool {
			return PriceDescending.Compare(a.Price(), b.Price()) < 0
		}),
	}
}

// AddOrder rests an order on its live side, creating the level if
// needed.
func (b *OrderBook) AddOrder(o *domain.Order) {
	side := b.asks
	if o.IsBuy {
		side = b.bids
	}
	probe := NewQuantityTrackingPriceLevel(o.Price)
	level, ok := side.Get(probe)
	if !ok {
		level = probe
		side.ReplaceOrInsert(level)
	}
	level.Add(o)
}

// RemoveOrder removes an order from its live side, pruning the level if
// it empties. Returns false if the order is not on the book.
func (b *OrderBook) RemoveOrder(o *domain.Order) bool {
	side := b.asks
	if o.IsBuy {
		side = b.bids
	}
	level, ok := side.Get(NewQuantityTrackingPriceLevel(o.Price))
	if !ok {
		return false
	}
	if !level.Remove(o) {
		return false
	}
	if level.Len() == 0 {
		side.Delete(level)
	}
	return true
}

// AddStopOrder parks an untriggered stop order on its stop side, keyed
// by stop price.
func (b *OrderBook) AddStopOrder(o *domain.Order) {
	side := b.stopAsks
	if o.IsBuy {
		side = b.stopBids
	}
	probe := NewPriceLevel(o.StopPrice)
	level, ok := side.Get(probe)
	if !ok {
		level = probe
		side.ReplaceOrInsert(level)
	}
	level.Add(o)
}

// RemoveStopOrder removes a parked stop order, pruning its level if it
// empties. Returns false if the order is not parked.
func (b *OrderBook) RemoveStopOrder(o *domain.Order) bool {
	side := b.stopAsks
	if o.IsBuy {
		side = b.stopBids
	}
	level, ok := side.Get(NewPriceLevel(o.StopPrice))
	if !ok {
		return false
	}
	if !level.Remove(o) {
		return false
	}
	if level.Len() == 0 {
		side.Delete(level)
	}
	return true
}

// BestBid returns the highest-priced live bid level.
func (b *OrderBook) BestBid() (*QuantityTrackingPriceLevel, bool) {
	return b.bids.Min()
}

// BestAsk returns the lowest-priced live ask level.
func (b *OrderBook) BestAsk() (*QuantityTrackingPriceLevel, bool) {
	return b.asks.Min()
}

// BestStopBid returns the stop-bid level nearest to triggering.
func (b *OrderBook) BestStopBid() (*PriceLevel, bool) {
	return b.stopBids.Min()
}

// BestStopAsk returns the stop-ask level nearest to triggering.
func (b *OrderBook) BestStopAsk() (*PriceLevel, bool) {
	return b.stopAsks.Min()
}

// PruneIfEmpty removes a live level that has emptied out. The matcher
// calls this after consuming the last order of a level in place.
func (b *OrderBook) PruneIfEmpty(isBuy bool, level *QuantityTrackingPriceLevel) {
	if level.Len() > 0 {
		return
	}
	if isBuy {
		b.bids.Delete(level)
		return
	}
	b.asks.Delete(level)
}

// BidCount returns the number of orders resting on the bid side.
func (b *OrderBook) BidCount() int {
	return countOrders(b.bids)
}

// AskCount returns the number of orders resting on the ask side.
func (b *OrderBook) AskCount() int {
	return countOrders(b.asks)
}

// StopBidCount returns the number of parked stop-bid orders.
func (b *OrderBook) StopBidCount() int {
	n := 0
	b.stopBids.Ascend(func(l *PriceLevel) bool {
		n += l.Len()
		return true
	})
	return n
}

// StopAskCount returns the number of parked stop-ask orders.
func (b *OrderBook) StopAskCount() int {
	n := 0
	b.stopAsks.Ascend(func(l *PriceLevel) bool {
		n += l.Len()
		return true
	})
	return n
}

func countOrders(side *btree.BTreeG[*QuantityTrackingPriceLevel]) int {
	n := 0
	side.Ascend(func(l *QuantityTrackingPriceLevel) bool {
		n += l.Len()
		return true
	})
	return n
}

// AscendBids walks the bid levels best-first. The callback returns true
// to continue.
func (b *OrderBook) AscendBids(fn func(*QuantityTrackingPriceLevel) bool) {
	b.bids.Ascend(fn)
}

// AscendAsks walks the ask levels best-first.
func (b *OrderBook) AscendAsks(fn func(*QuantityTrackingPriceLevel) bool) {
	b.asks.Ascend(fn)
}

// TopBids returns up to n bid levels, best first.
func (b *OrderBook) TopBids(n int) []LevelView {
	return topLevels(b.bids, n)
}

// TopAsks returns up to n ask levels, best first.
func (b *OrderBook) TopAsks(n int) []LevelView {
	return topLevels(b.asks, n)
}

func topLevels(side *btree.BTreeG[*QuantityTrackingPriceLevel], n int) []LevelView {
	if n <= 0 {
		return nil
	}
	views := make([]LevelView, 0, n)
	side.Ascend(func(l *QuantityTrackingPriceLevel) bool {
		views = append(views, LevelView{
			Price:          l.Price(),
			OpenQuantity:   l.Quantity(),
			HiddenQuantity: l.HiddenQuantity(),
			OrderCount:     uint64(l.Len()),
		})
		return len(views) < n
	})
	return views
}
