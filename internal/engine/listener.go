package engine

import "github.com/openclob/matchbook/internal/domain"

// TradeListener is the event sink for everything the engine does to the
// book. The engine calls it synchronously, inline, in the exact causal
// order of the book mutations; rejected orders produce no calls at all.
// Implementations must not call back into the engine.
type TradeListener interface {
	// OnAccept reports that an order passed validation, before any
	// matching is attempted.
	OnAccept(orderId domain.OrderId, userId domain.UserId)

	// OnTrade reports one match. Price is the resting order's price,
	// cost the traded notional, and filledQuantity the incoming order's
	// cumulative fill including this trade.
	OnTrade(
		incomingOrderId, restingOrderId domain.OrderId,
		incomingUserId, restingUserId domain.UserId,
		incomingIsBuy bool,
		price domain.Price,
		quantity domain.Quantity,
		incomingFee, restingFee domain.Amount,
		cost domain.Amount,
		filledQuantity domain.Quantity,
	)

	// OnCancel reports that an order left the book unfilled or partially
	// filled. RemainingQuantity is the open exposed quantity,
	// remainingTotalQuantity the hidden iceberg remainder still
	// unexposed; cost and fee are the amounts accumulated across the
	// order's fills.
	OnCancel(
		orderId domain.OrderId,
		userId domain.UserId,
		remainingQuantity, remainingTotalQuantity domain.Quantity,
		cost, fee domain.Amount,
		reason domain.CancelReason,
	)

	// OnSelfMatch reports that a resting order of the same user was
	// removed without trading against the incoming order.
	// restingOpenQuantity is what the resting order still had exposed.
	OnSelfMatch(incomingOrderId, restingOrderId domain.OrderId, userId domain.UserId, restingOpenQuantity domain.Quantity)

	// OnOrderTriggered reports a stop order entering the live matching
	// path.
	OnOrderTriggered(orderId domain.OrderId, userId domain.UserId)
}

// FeeProvider resolves an order's fee tier to its maker/taker rates. The
// engine assumes the lookup is pure.
type FeeProvider interface {
	GetFee(feeId uint32) domain.Fee
}

// FlatFeeProvider applies the same rates to every fee tier.
type FlatFeeProvider struct {
	Fee domain.Fee
}

// GetFee returns the flat rates regardless of tier.
func (p FlatFeeProvider) GetFee(uint32) domain.Fee {
	return p.Fee
}
