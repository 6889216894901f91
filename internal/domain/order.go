package domain

// OrderCondition constrains how an order may execute.
type OrderCondition byte

const (
	ConditionNone OrderCondition = iota
	ConditionImmediateOrCancel
	ConditionFillOrKill
	ConditionBookOrCancel
)

// String returns the condition name for logging.
func (c OrderCondition) String() string {
	switch c {
	case ConditionNone:
		return "none"
	case ConditionImmediateOrCancel:
		return "immediate_or_cancel"
	case ConditionFillOrKill:
		return "fill_or_kill"
	case ConditionBookOrCancel:
		return "book_or_cancel"
	}
	return "unknown"
}

// CancelReason explains why an order left the book without (fully) filling.
type CancelReason byte

const (
	CancelReasonUserRequested CancelReason = iota
	CancelReasonImmediateOrCancel
	CancelReasonFillOrKill
	CancelReasonBookOrCancel
	CancelReasonMarketOrderNoLiquidity
	CancelReasonValidityExpired
)

// String returns the cancel reason name for logging.
func (r CancelReason) String() string {
	switch r {
	case CancelReasonUserRequested:
		return "user_requested"
	case CancelReasonImmediateOrCancel:
		return "immediate_or_cancel"
	case CancelReasonFillOrKill:
		return "fill_or_kill"
	case CancelReasonBookOrCancel:
		return "book_or_cancel"
	case CancelReasonMarketOrderNoLiquidity:
		return "market_order_no_liquidity"
	case CancelReasonValidityExpired:
		return "validity_expired"
	}
	return "unknown"
}

// OrderMatchingResult is the closed set of outcomes of submitting a
// command to the matching engine. Rejections are business outcomes, not
// errors: none of them leaves partial book state.
type OrderMatchingResult byte

const (
	OrderAccepted OrderMatchingResult = iota
	CancelAccepted
	IcebergOrderCannotBeFOKorIOC
	IcebergOrderCannotBeMarketOrStopMarketOrder
	GoodTillDateCannotBeMarketOrIOCorFOK
	ImmediateOrCancelCannotBeMarketOrStopOrder
	FillOrKillCannotBeStopOrder
	OrderAmountOnlySupportedForMarketBuyOrder
	QuantityAndTotalQuantityShouldBeMultipleOfStepSize
	DuplicateOrder
	OrderDoesNotExists
)

// String returns the result name for logging.
func (r OrderMatchingResult) String() string {
	switch r {
	case OrderAccepted:
		return "order_accepted"
	case CancelAccepted:
		return "cancel_accepted"
	case IcebergOrderCannotBeFOKorIOC:
		return "iceberg_order_cannot_be_fok_or_ioc"
	case IcebergOrderCannotBeMarketOrStopMarketOrder:
		return "iceberg_order_cannot_be_market_or_stop_market_order"
	case GoodTillDateCannotBeMarketOrIOCorFOK:
		return "good_till_date_cannot_be_market_or_ioc_or_fok"
	case ImmediateOrCancelCannotBeMarketOrStopOrder:
		return "immediate_or_cancel_cannot_be_market_or_stop_order"
	case FillOrKillCannotBeStopOrder:
		return "fill_or_kill_cannot_be_stop_order"
	case OrderAmountOnlySupportedForMarketBuyOrder:
		return "order_amount_only_supported_for_market_buy_order"
	case QuantityAndTotalQuantityShouldBeMultipleOfStepSize:
		return "quantity_and_total_quantity_should_be_multiple_of_step_size"
	case DuplicateOrder:
		return "duplicate_order"
	case OrderDoesNotExists:
		return "order_does_not_exists"
	}
	return "unknown"
}

// Order is a bid or ask instruction submitted to the engine. The engine
// owns all mutable fields after acceptance; the caller must not touch an
// order once submitted.
type Order struct {
	OrderId   OrderId
	UserId    UserId
	IsBuy     bool
	Price     Price // 0 = market
	StopPrice Price // 0 = not a stop order

	OpenQuantity  Quantity // currently exposed quantity
	TotalQuantity Quantity // hidden iceberg remainder
	TipQuantity   Quantity // iceberg tip size; both 0 = not iceberg
	OrderAmount   Amount   // notional sizing for market buys

	Condition OrderCondition
	CancelOn  int64  // expiry timestamp; 0 = not good-till-date
	FeeId     uint32 // fee tier consumed by the fee provider

	// Sequence is assigned when the order first rests on a live or
	// stop side, never before. 0 = unassigned.
	Sequence uint64

	// FilledQuantity, Cost and Fee accumulate across fills; cost and fee
	// are reported on cancel.
	FilledQuantity Quantity
	Cost           Amount
	Fee            Amount
}

// IsMarket reports whether the order executes at any price.
func (o *Order) IsMarket() bool {
	return o.Price == 0
}

// IsStop reports whether the order is inert until its stop price is crossed.
func (o *Order) IsStop() bool {
	return o.StopPrice != 0
}

// IsIceberg reports whether the order exposes only a tip of its total
// quantity.
func (o *Order) IsIceberg() bool {
	return o.TipQuantity != 0 || o.TotalQuantity != 0
}

// IsGoodTillDate reports whether the order auto-cancels at CancelOn.
func (o *Order) IsGoodTillDate() bool {
	return o.CancelOn != 0
}

// RemainingQuantity returns the exposed quantity plus any hidden iceberg
// remainder.
func (o *Order) RemainingQuantity() Quantity {
	return o.OpenQuantity + o.TotalQuantity
}
