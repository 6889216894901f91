package engine

import (
	"github.com/openclob/matchbook/internal/domain"
)

// MatchingEngine orchestrates validation, matching, stop triggering and
// expiry for a single instrument. It exclusively owns its OrderBook,
// GoodTillDateOrders and OrderIdTracker; callers must serialize all
// calls (one writer per engine). Every call runs to completion with no
// internal blocking, and all outside interaction happens through the
// listener, inline, in causal order.
type MatchingEngine struct {
	book         *OrderBook
	listener     TradeListener
	fees         FeeProvider
	goodTillDate *GoodTillDateOrders
	acceptedIds  *OrderIdTracker

	// currentOrders is the arena of orders reachable from a book side
	// or a GTD bucket, keyed by stable order id. Levels and buckets
	// reference the same entries; nothing is copied.
	currentOrders map[domain.OrderId]*domain.Order

	sequence    uint64
	marketPrice domain.Price // last trade price; 0 before the first trade

	quantityStep domain.Quantity
	priceStep    domain.Price
}

// NewMatchingEngine creates an engine for one instrument with the given
// step sizes. Quantities must be multiples of quantityStep, prices of
// priceStep.
func NewMatchingEngine(listener TradeListener, fees FeeProvider, quantityStep domain.Quantity, priceStep domain.Price) *MatchingEngine {
	return &MatchingEngine{
		book:          NewOrderBook(),
		listener:      listener,
		fees:          fees,
		goodTillDate:  NewGoodTillDateOrders(),
		acceptedIds:   NewOrderIdTracker(),
		currentOrders: make(map[domain.OrderId]*domain.Order),
		quantityStep:  quantityStep,
		priceStep:     priceStep,
	}
}

// Book exposes the order book for depth queries. Read-only from the
// caller's side.
func (e *MatchingEngine) Book() *OrderBook {
	return e.book
}

// MarketPrice returns the last trade price, 0 before the first trade.
func (e *MatchingEngine) MarketPrice() domain.Price {
	return e.marketPrice
}

// AcceptedIds exposes the duplicate-id tracker for inspection.
func (e *MatchingEngine) AcceptedIds() *OrderIdTracker {
	return e.acceptedIds
}

// AddOrder validates and processes an incoming order. The call is
// terminal: the order is either rejected with no side effects, or
// accepted, matched, and any residual booked — all before the call
// returns. The caller-supplied timestamp drives GTD expiry checks.
func (e *MatchingEngine) AddOrder(o *domain.Order, timestamp int64) domain.OrderMatchingResult {
	if result := e.validate(o); result != domain.OrderAccepted {
		return result
	}
	if !e.acceptedIds.TryMark(o.OrderId) {
		return domain.DuplicateOrder
	}
	e.listener.OnAccept(o.OrderId, o.UserId)

	// Expose the first iceberg tip.
	if o.IsIceberg() {
		tip := o.TipQuantity
		if o.TotalQuantity < tip {
			tip = o.TotalQuantity
		}
		o.OpenQuantity = tip
		o.TotalQuantity -= tip
	}

	// An order already past its expiry is accepted and immediately
	// cancelled rather than booked.
	if o.IsGoodTillDate() && o.CancelOn <= timestamp {
		e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonValidityExpired)
		return domain.OrderAccepted
	}

	if o.IsStop() && !e.stopCrossed(o) {
		e.parkStop(o)
		return domain.OrderAccepted
	}

	e.matchOrder(o)
	e.triggerStops()
	return domain.OrderAccepted
}

// CancelOrder removes a resting or stop-parked order on user request.
func (e *MatchingEngine) CancelOrder(orderId domain.OrderId) domain.OrderMatchingResult {
	o, ok := e.currentOrders[orderId]
	if !ok {
		return domain.OrderDoesNotExists
	}
	e.removeOrder(o)
	e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonUserRequested)
	return domain.CancelAccepted
}

// CancelExpiredOrder sweeps every GTD order whose expiry is at or before
// currentTimestamp out of the book, live and stop sides alike.
func (e *MatchingEngine) CancelExpiredOrder(currentTimestamp int64) {
	for _, id := range e.goodTillDate.GetExpiredOrders(currentTimestamp) {
		o, ok := e.currentOrders[id]
		if !ok {
			continue
		}
		e.removeOrder(o)
		e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonValidityExpired)
	}
}

// validate applies the acceptance rules in order; the first failing rule
// wins and nothing is mutated.
func (e *MatchingEngine) validate(o *domain.Order) domain.OrderMatchingResult {
	if o.IsIceberg() {
		if o.Condition == domain.ConditionFillOrKill || o.Condition == domain.ConditionImmediateOrCancel {
			return domain.IcebergOrderCannotBeFOKorIOC
		}
		if o.IsMarket() {
			return domain.IcebergOrderCannotBeMarketOrStopMarketOrder
		}
	}
	if o.IsGoodTillDate() && (o.IsMarket() ||
		o.Condition == domain.ConditionImmediateOrCancel ||
		o.Condition == domain.ConditionFillOrKill) {
		return domain.GoodTillDateCannotBeMarketOrIOCorFOK
	}
	if o.Condition == domain.ConditionImmediateOrCancel && (o.IsMarket() || o.IsStop()) {
		return domain.ImmediateOrCancelCannotBeMarketOrStopOrder
	}
	if o.Condition == domain.ConditionFillOrKill && o.IsStop() {
		return domain.FillOrKillCannotBeStopOrder
	}
	if o.OrderAmount != 0 && !(o.IsBuy && o.IsMarket()) {
		return domain.OrderAmountOnlySupportedForMarketBuyOrder
	}
	if !e.validSteps(o) {
		return domain.QuantityAndTotalQuantityShouldBeMultipleOfStepSize
	}
	return domain.OrderAccepted
}

func (e *MatchingEngine) validSteps(o *domain.Order) bool {
	if o.OrderAmount != 0 {
		if o.OrderAmount < 0 || o.OpenQuantity != 0 {
			return false
		}
	} else if o.IsIceberg() {
		if o.TotalQuantity <= 0 || o.TipQuantity <= 0 {
			return false
		}
		if !o.TotalQuantity.IsMultipleOf(e.quantityStep) || !o.TipQuantity.IsMultipleOf(e.quantityStep) {
			return false
		}
	} else {
		if o.OpenQuantity <= 0 || !o.OpenQuantity.IsMultipleOf(e.quantityStep) {
			return false
		}
	}
	if o.Price != 0 && (o.Price < 0 || !o.Price.IsMultipleOf(e.priceStep)) {
		return false
	}
	if o.StopPrice != 0 && (o.StopPrice < 0 || !o.StopPrice.IsMultipleOf(e.priceStep)) {
		return false
	}
	return true
}

// stopCrossed reports whether the market has already moved through the
// order's stop price, in which case the order skips the stop side.
func (e *MatchingEngine) stopCrossed(o *domain.Order) bool {
	if e.marketPrice == 0 {
		return false
	}
	if o.IsBuy {
		return e.marketPrice >= o.StopPrice
	}
	return e.marketPrice <= o.StopPrice
}

// marketable reports whether the order's limit crosses the given
// opposite price.
func marketable(o *domain.Order, oppositePrice domain.Price) bool {
	if o.IsBuy {
		return o.Price >= oppositePrice
	}
	return o.Price <= oppositePrice
}

// matchOrder runs the price-time-priority loop for one live order and
// then books, discards or cancels the residual according to the order's
// condition.
func (e *MatchingEngine) matchOrder(o *domain.Order) {
	if o.Condition == domain.ConditionBookOrCancel {
		switch {
		case e.wouldMatch(o):
			e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonBookOrCancel)
		case o.IsMarket():
			// A market order cannot rest.
			e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonMarketOrderNoLiquidity)
		default:
			e.restOrder(o)
		}
		return
	}
	if o.Condition == domain.ConditionFillOrKill {
		fillable := e.canFillFully(o)
		if o.OrderAmount != 0 {
			fillable = e.canFillAmount(o)
		}
		if !fillable {
			e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonFillOrKill)
			return
		}
	}

	amountBased := o.OrderAmount != 0

	for {
		if amountBased {
			if o.OrderAmount <= 0 {
				break
			}
		} else if o.OpenQuantity <= 0 {
			break
		}

		var level *QuantityTrackingPriceLevel
		var ok bool
		if o.IsBuy {
			level, ok = e.book.BestAsk()
		} else {
			level, ok = e.book.BestBid()
		}
		if !ok {
			break
		}
		if !o.IsMarket() && !marketable(o, level.Price()) {
			break
		}

		resting, _ := level.First()

		// Same user on both sides: remove the resting order without
		// trading and keep matching against what is behind it.
		if resting.UserId == o.UserId {
			restingOpen := resting.OpenQuantity
			level.Remove(resting)
			e.book.PruneIfEmpty(resting.IsBuy, level)
			e.goodTillDate.Remove(resting)
			delete(e.currentOrders, resting.OrderId)
			e.listener.OnSelfMatch(o.OrderId, resting.OrderId, o.UserId, restingOpen)
			continue
		}

		price := level.Price()
		var fillQty domain.Quantity
		if amountBased {
			fillQty = domain.Quantity(int64(o.OrderAmount) / int64(price))
			fillQty -= fillQty % e.quantityStep
			if fillQty > resting.OpenQuantity {
				fillQty = resting.OpenQuantity
			}
			if fillQty <= 0 {
				break
			}
		} else {
			fillQty = o.OpenQuantity
			if resting.OpenQuantity < fillQty {
				fillQty = resting.OpenQuantity
			}
		}

		cost := domain.Cost(price, fillQty)
		makerFee := e.fees.GetFee(resting.FeeId).Apply(cost, true)
		takerFee := e.fees.GetFee(o.FeeId).Apply(cost, false)

		if amountBased {
			o.OrderAmount -= cost
		} else {
			o.OpenQuantity -= fillQty
		}
		o.FilledQuantity += fillQty
		o.Cost += cost
		o.Fee += takerFee

		resting.OpenQuantity -= fillQty
		resting.FilledQuantity += fillQty
		resting.Cost += cost
		resting.Fee += makerFee
		level.Fill(fillQty)

		if resting.OpenQuantity == 0 {
			if resting.TotalQuantity > 0 {
				e.replenishIceberg(resting, level)
			} else {
				level.Remove(resting)
				e.book.PruneIfEmpty(resting.IsBuy, level)
				e.goodTillDate.Remove(resting)
				delete(e.currentOrders, resting.OrderId)
			}
		}

		e.marketPrice = price
		e.listener.OnTrade(
			o.OrderId, resting.OrderId,
			o.UserId, resting.UserId,
			o.IsBuy, price, fillQty,
			takerFee, makerFee, cost,
			o.FilledQuantity,
		)
	}

	switch {
	case amountBased:
		if o.OrderAmount > 0 {
			e.listener.OnCancel(o.OrderId, o.UserId, 0, 0, o.Cost, o.Fee, domain.CancelReasonMarketOrderNoLiquidity)
		}
	case o.IsMarket():
		if o.OpenQuantity > 0 {
			e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonMarketOrderNoLiquidity)
		}
	case o.Condition == domain.ConditionImmediateOrCancel:
		if o.OpenQuantity > 0 {
			e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonImmediateOrCancel)
		}
	case o.Condition == domain.ConditionFillOrKill:
		if o.OpenQuantity > 0 {
			e.listener.OnCancel(o.OrderId, o.UserId, o.OpenQuantity, o.TotalQuantity, o.Cost, o.Fee, domain.CancelReasonFillOrKill)
		}
	default:
		if o.OpenQuantity > 0 {
			e.restOrder(o)
		}
	}
}

// replenishIceberg exposes the next tip of a consumed iceberg order. The
// new tip joins the back of the same level's queue, losing time
// priority, with no new accept event.
func (e *MatchingEngine) replenishIceberg(o *domain.Order, level *QuantityTrackingPriceLevel) {
	level.Remove(o)
	tip := o.TipQuantity
	if o.TotalQuantity < tip {
		tip = o.TotalQuantity
	}
	o.TotalQuantity -= tip
	o.OpenQuantity = tip
	e.sequence++
	o.Sequence = e.sequence
	level.Add(o)
}

// wouldMatch reports whether the top of the opposite side crosses the
// order's limit.
func (e *MatchingEngine) wouldMatch(o *domain.Order) bool {
	var level *QuantityTrackingPriceLevel
	var ok bool
	if o.IsBuy {
		level, ok = e.book.BestAsk()
	} else {
		level, ok = e.book.BestBid()
	}
	if !ok {
		return false
	}
	return o.IsMarket() || marketable(o, level.Price())
}

// canFillFully is the FillOrKill dry run: it walks the marketable
// opposite levels and sums the open quantity the order could actually
// trade against, without touching the book. Hidden iceberg remainders do
// not count; they are not exposed until a tip is consumed, which a dry
// run must not do. The user's own resting orders do not count either:
// reaching one removes it without a trade.
func (e *MatchingEngine) canFillFully(o *domain.Order) bool {
	var available domain.Quantity
	walk := func(level *QuantityTrackingPriceLevel) bool {
		if !o.IsMarket() && !marketable(o, level.Price()) {
			return false
		}
		available += fillableQuantity(level, o.UserId)
		return available < o.OpenQuantity
	}
	if o.IsBuy {
		e.book.AscendAsks(walk)
	} else {
		e.book.AscendBids(walk)
	}
	return available >= o.OpenQuantity
}

// canFillAmount is the FillOrKill dry run for an amount-based market
// buy: fillable when the notional available on the ask side covers the
// order amount, under the same visibility rules as canFillFully.
func (e *MatchingEngine) canFillAmount(o *domain.Order) bool {
	remaining := o.OrderAmount
	e.book.AscendAsks(func(level *QuantityTrackingPriceLevel) bool {
		remaining -= domain.Cost(level.Price(), fillableQuantity(level, o.UserId))
		return remaining > 0
	})
	return remaining <= 0
}

// fillableQuantity is the level's open quantity excluding the given
// user's own resting orders.
func fillableQuantity(level *QuantityTrackingPriceLevel, userId domain.UserId) domain.Quantity {
	qty := level.Quantity()
	level.Each(func(resting *domain.Order) bool {
		if resting.UserId == userId {
			qty -= resting.OpenQuantity
		}
		return true
	})
	return qty
}

// restOrder books the residual of a live order. The sequence number is
// assigned here, on first rest; a triggered stop keeps the sequence it
// got when it was parked.
func (e *MatchingEngine) restOrder(o *domain.Order) {
	if o.Sequence == 0 {
		e.sequence++
		o.Sequence = e.sequence
	}
	e.book.AddOrder(o)
	e.goodTillDate.Add(o)
	e.currentOrders[o.OrderId] = o
}

// parkStop rests an untriggered stop order on its stop side.
func (e *MatchingEngine) parkStop(o *domain.Order) {
	e.sequence++
	o.Sequence = e.sequence
	e.book.AddStopOrder(o)
	e.goodTillDate.Add(o)
	e.currentOrders[o.OrderId] = o
}

// removeOrder pulls an order out of whichever structure holds it.
func (e *MatchingEngine) removeOrder(o *domain.Order) {
	if !e.book.RemoveOrder(o) {
		e.book.RemoveStopOrder(o)
	}
	e.goodTillDate.Remove(o)
	delete(e.currentOrders, o.OrderId)
}

// triggerStops resubmits every stop order whose stop price has been
// crossed by the current market price into the live matching path. Each
// triggered order's trades can move the market and cascade further
// triggers.
func (e *MatchingEngine) triggerStops() {
	for e.marketPrice != 0 {
		if level, ok := e.book.BestStopBid(); ok && level.Price() <= e.marketPrice {
			e.triggerFirst(level)
			continue
		}
		if level, ok := e.book.BestStopAsk(); ok && level.Price() >= e.marketPrice {
			e.triggerFirst(level)
			continue
		}
		return
	}
}

func (e *MatchingEngine) triggerFirst(level *PriceLevel) {
	o, _ := level.First()
	e.book.RemoveStopOrder(o)
	e.goodTillDate.Remove(o)
	delete(e.currentOrders, o.OrderId)
	e.listener.OnOrderTriggered(o.OrderId, o.UserId)
	e.matchOrder(o)
}
