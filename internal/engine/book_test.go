package engine

import (
	"testing"

	"github.com/openclob/matchbook/internal/domain"
)

func bookOrder(id domain.OrderId, isBuy bool, price domain.Price, qty domain.Quantity, seq uint64) *domain.Order {
	return &domain.Order{
		OrderId:      id,
		UserId:       domain.UserId(id),
		IsBuy:        isBuy,
		Price:        price,
		OpenQuantity: qty,
		Sequence:     seq,
	}
}

func stopOrder(id domain.OrderId, isBuy bool, price, stopPrice domain.Price, seq uint64) *domain.Order {
	o := bookOrder(id, isBuy, price, 100, seq)
	o.StopPrice = stopPrice
	return o
}

func TestOrderBook_BestBidIsHighest(t *testing.T) {
	book := NewOrderBook()
	book.AddOrder(bookOrder(1, true, 14900, 100, 1))
	book.AddOrder(bookOrder(2, true, 15100, 100, 2))
	book.AddOrder(bookOrder(3, true, 15000, 100, 3))

	level, ok := book.BestBid()
	if !ok {
		t.Fatal("expected a best bid")
	}
	if level.Price() != 15100 {
		t.Errorf("expected best bid 15100, got %d", level.Price())
	}
}

func TestOrderBook_BestAskIsLowest(t *testing.T) {
	book := NewOrderBook()
	book.AddOrder(bookOrder(1, false, 15200, 100, 1))
	book.AddOrder(bookOrder(2, false, 15050, 100, 2))
	book.AddOrder(bookOrder(3, false, 15300, 100, 3))

	level, ok := book.BestAsk()
	if !ok {
		t.Fatal("expected a best ask")
	}
	if level.Price() != 15050 {
		t.Errorf("expected best ask 15050, got %d", level.Price())
	}
}

func TestOrderBook_SamePriceSharesLevel(t *testing.T) {
	book := NewOrderBook()
	book.AddOrder(bookOrder(1, true, 15000, 100, 1))
	book.AddOrder(bookOrder(2, true, 15000, 200, 2))

	level, ok := book.BestBid()
	if !ok {
		t.Fatal("expected a best bid")
	}
	if level.Len() != 2 {
		t.Errorf("expected 2 orders on the level, got %d", level.Len())
	}
	if level.Quantity() != 300 {
		t.Errorf("expected level quantity 300, got %d", level.Quantity())
	}
	first, _ := level.First()
	if first.OrderId != 1 {
		t.Errorf("expected order 1 first, got %d", first.OrderId)
	}
}

func TestOrderBook_RemoveOrder_PrunesEmptyLevel(t *testing.T) {
	book := NewOrderBook()
	o := bookOrder(1, false, 15000, 100, 1)
	book.AddOrder(o)

	if !book.RemoveOrder(o) {
		t.Error("expected removal to succeed")
	}
	if _, ok := book.BestAsk(); ok {
		t.Error("expected empty ask side after removing the only order")
	}
	if book.RemoveOrder(o) {
		t.Error("expected removing an absent order to fail")
	}
}

func TestOrderBook_StopSides_NearestToTriggerFirst(t *testing.T) {
	book := NewOrderBook()
	// Buy stops trigger as the market rises: lowest stop price first.
	book.AddStopOrder(stopOrder(1, true, 15000, 15500, 1))
	book.AddStopOrder(stopOrder(2, true, 15000, 15200, 2))
	// Sell stops trigger as the market falls: highest stop price first.
	book.AddStopOrder(stopOrder(3, false, 14000, 14200, 3))
	book.AddStopOrder(stopOrder(4, false, 14000, 14800, 4))

	bid, ok := book.BestStopBid()
	if !ok {
		t.Fatal("expected a stop-bid level")
	}
	if bid.Price() != 15200 {
		t.Errorf("expected nearest stop bid 15200, got %d", bid.Price())
	}

	ask, ok := book.BestStopAsk()
	if !ok {
		t.Fatal("expected a stop-ask level")
	}
	if ask.Price() != 14800 {
		t.Errorf("expected nearest stop ask 14800, got %d", ask.Price())
	}
}

func TestOrderBook_RemoveStopOrder(t *testing.T) {
	book := NewOrderBook()
	o := stopOrder(1, true, 15000, 15500, 1)
	book.AddStopOrder(o)

	if !book.RemoveStopOrder(o) {
		t.Error("expected stop removal to succeed")
	}
	if _, ok := book.BestStopBid(); ok {
		t.Error("expected empty stop-bid side")
	}
	if book.StopBidCount() != 0 {
		t.Errorf("expected 0 parked stop bids, got %d", book.StopBidCount())
	}
}

func TestOrderBook_Counts(t *testing.T) {
	book := NewOrderBook()
	book.AddOrder(bookOrder(1, true, 15000, 100, 1))
	book.AddOrder(bookOrder(2, true, 14900, 100, 2))
	book.AddOrder(bookOrder(3, false, 15100, 100, 3))
	book.AddStopOrder(stopOrder(4, false, 14000, 14500, 4))

	if got := book.BidCount(); got != 2 {
		t.Errorf("expected 2 bids, got %d", got)
	}
	if got := book.AskCount(); got != 1 {
		t.Errorf("expected 1 ask, got %d", got)
	}
	if got := book.StopAskCount(); got != 1 {
		t.Errorf("expected 1 stop ask, got %d", got)
	}
}

func TestOrderBook_TopBids_BestFirstCapped(t *testing.T) {
	book := NewOrderBook()
	book.AddOrder(bookOrder(1, true, 14800, 100, 1))
	book.AddOrder(bookOrder(2, true, 15000, 200, 2))
	book.AddOrder(bookOrder(3, true, 14900, 300, 3))

	views := book.TopBids(2)
	if len(views) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(views))
	}
	if views[0].Price != 15000 || views[1].Price != 14900 {
		t.Errorf("expected levels 15000, 14900; got %d, %d", views[0].Price, views[1].Price)
	}
	if views[0].OpenQuantity != 200 {
		t.Errorf("expected top level quantity 200, got %d", views[0].OpenQuantity)
	}
	if views[0].OrderCount != 1 {
		t.Errorf("expected top level order count 1, got %d", views[0].OrderCount)
	}
}

func TestOrderBook_TopAsks_IncludesHiddenQuantity(t *testing.T) {
	book := NewOrderBook()
	iceberg := bookOrder(1, false, 15000, 500, 1)
	iceberg.TotalQuantity = 4500
	iceberg.TipQuantity = 500
	book.AddOrder(iceberg)

	views := book.TopAsks(10)
	if len(views) != 1 {
		t.Fatalf("expected 1 level, got %d", len(views))
	}
	if views[0].OpenQuantity != 500 {
		t.Errorf("expected open quantity 500, got %d", views[0].OpenQuantity)
	}
	if views[0].HiddenQuantity != 4500 {
		t.Errorf("expected hidden quantity 4500, got %d", views[0].HiddenQuantity)
	}
}
