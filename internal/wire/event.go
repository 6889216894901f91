package wire

import "github.com/openclob/matchbook/internal/domain"

// OrderTrigger reports a stop order entering the live matching path.
// 19 bytes, no length prefix.
type OrderTrigger struct {
	OrderId domain.OrderId
	UserId  domain.UserId
	IsBuy   bool
}

const OrderTriggerSize = 19

// Serialize encodes the message.
func (m OrderTrigger) Serialize() []byte {
	b := make([]byte, OrderTriggerSize)
	b[0] = byte(TypeOrderTrigger)
	b[1] = CurrentVersion
	m.OrderId.Put(b[2:])
	m.UserId.Put(b[10:])
	putBool(b[18:], m.IsBuy)
	return b
}

// DecodeOrderTrigger decodes an OrderTrigger buffer.
func DecodeOrderTrigger(b []byte) (OrderTrigger, error) {
	if err := checkUnprefixed(b, TypeOrderTrigger, OrderTriggerSize); err != nil {
		return OrderTrigger{}, err
	}
	return OrderTrigger{
		OrderId: domain.ReadOrderId(b[2:]),
		UserId:  domain.ReadUserId(b[10:]),
		IsBuy:   b[18] != 0,
	}, nil
}

// OrderAccept confirms that an order passed validation. 23 bytes,
// length-prefixed.
type OrderAccept struct {
	OrderId domain.OrderId
	UserId  domain.UserId
	IsBuy   bool
}

const OrderAcceptSize = 23

// Serialize encodes the message.
func (m OrderAccept) Serialize() []byte {
	b := make([]byte, OrderAcceptSize)
	putU32(b, OrderAcceptSize)
	b[4] = byte(TypeOrderAccept)
	b[5] = CurrentVersion
	m.OrderId.Put(b[6:])
	m.UserId.Put(b[14:])
	putBool(b[22:], m.IsBuy)
	return b
}

// DecodeOrderAccept decodes an OrderAccept buffer.
func DecodeOrderAccept(b []byte) (OrderAccept, error) {
	if err := checkPrefixed(b, TypeOrderAccept, OrderAcceptSize); err != nil {
		return OrderAccept{}, err
	}
	return OrderAccept{
		OrderId: domain.ReadOrderId(b[6:]),
		UserId:  domain.ReadUserId(b[14:]),
		IsBuy:   b[22] != 0,
	}, nil
}

// MatchingEngineResult carries the outcome code of a submitted command.
// 24 bytes, length-prefixed.
type MatchingEngineResult struct {
	OrderId domain.OrderId
	UserId  domain.UserId
	Result  domain.OrderMatchingResult
	IsBuy   bool
}

const MatchingEngineResultSize = 24

// Serialize encodes the message.
func (m MatchingEngineResult) Serialize() []byte {
	b := make([]byte, MatchingEngineResultSize)
	putU32(b, MatchingEngineResultSize)
	b[4] = byte(TypeMatchingEngineResult)
	b[5] = CurrentVersion
	m.OrderId.Put(b[6:])
	m.UserId.Put(b[14:])
	b[22] = byte(m.Result)
	putBool(b[23:], m.IsBuy)
	return b
}

// DecodeMatchingEngineResult decodes a MatchingEngineResult buffer.
func DecodeMatchingEngineResult(b []byte) (MatchingEngineResult, error) {
	if err := checkPrefixed(b, TypeMatchingEngineResult, MatchingEngineResultSize); err != nil {
		return MatchingEngineResult{}, err
	}
	return MatchingEngineResult{
		OrderId: domain.ReadOrderId(b[6:]),
		UserId:  domain.ReadUserId(b[14:]),
		Result:  domain.OrderMatchingResult(b[22]),
		IsBuy:   b[23] != 0,
	}, nil
}

// SelfMatch reports a resting order removed without trading because it
// belonged to the incoming order's user. 47 bytes, length-prefixed.
type SelfMatch struct {
	IncomingOrderId     domain.OrderId
	RestingOrderId      domain.OrderId
	UserId              domain.UserId
	RestingOpenQuantity domain.Quantity
	Timestamp           int64
	IncomingIsBuy       bool
}

const SelfMatchSize = 47

// Serialize encodes the message.
func (m SelfMatch) Serialize() []byte {
	b := make([]byte, SelfMatchSize)
	putU32(b, SelfMatchSize)
	b[4] = byte(TypeSelfMatch)
	b[5] = CurrentVersion
	m.IncomingOrderId.Put(b[6:])
	m.RestingOrderId.Put(b[14:])
	m.UserId.Put(b[22:])
	m.RestingOpenQuantity.Put(b[30:])
	putU64(b[38:], uint64(m.Timestamp))
	putBool(b[46:], m.IncomingIsBuy)
	return b
}

// DecodeSelfMatch decodes a SelfMatch buffer.
func DecodeSelfMatch(b []byte) (SelfMatch, error) {
	if err := checkPrefixed(b, TypeSelfMatch, SelfMatchSize); err != nil {
		return SelfMatch{}, err
	}
	return SelfMatch{
		IncomingOrderId:     domain.ReadOrderId(b[6:]),
		RestingOrderId:      domain.ReadOrderId(b[14:]),
		UserId:              domain.ReadUserId(b[22:]),
		RestingOpenQuantity: domain.ReadQuantity(b[30:]),
		Timestamp:           int64(u64(b[38:])),
		IncomingIsBuy:       b[46] != 0,
	}, nil
}

// CancelledOrder reports an order leaving the book unfilled or partially
// filled, with its accumulated cost and fee. 76 bytes, length-prefixed.
type CancelledOrder struct {
	OrderId                domain.OrderId
	UserId                 domain.UserId
	Price                  domain.Price
	RemainingQuantity      domain.Quantity
	RemainingTotalQuantity domain.Quantity
	Cost                   domain.Amount
	Fee                    domain.Amount
	Timestamp              int64
	Reason                 domain.CancelReason
	IsBuy                  bool
	FeeId                  uint32
}

const CancelledOrderSize = 76

// Serialize encodes the message.
func (m CancelledOrder) Serialize() []byte {
	b := make([]byte, CancelledOrderSize)
	putU32(b, CancelledOrderSize)
	b[4] = byte(TypeCancelledOrder)
	b[5] = CurrentVersion
	m.OrderId.Put(b[6:])
	m.UserId.Put(b[14:])
	m.Price.Put(b[22:])
	m.RemainingQuantity.Put(b[30:])
	m.RemainingTotalQuantity.Put(b[38:])
	m.Cost.Put(b[46:])
	m.Fee.Put(b[54:])
	putU64(b[62:], uint64(m.Timestamp))
	b[70] = byte(m.Reason)
	putBool(b[71:], m.IsBuy)
	putU32(b[72:], m.FeeId)
	return b
}

// DecodeCancelledOrder decodes a CancelledOrder buffer.
func DecodeCancelledOrder(b []byte) (CancelledOrder, error) {
	if err := checkPrefixed(b, TypeCancelledOrder, CancelledOrderSize); err != nil {
		return CancelledOrder{}, err
	}
	return CancelledOrder{
		OrderId:                domain.ReadOrderId(b[6:]),
		UserId:                 domain.ReadUserId(b[14:]),
		Price:                  domain.ReadPrice(b[22:]),
		RemainingQuantity:      domain.ReadQuantity(b[30:]),
		RemainingTotalQuantity: domain.ReadQuantity(b[38:]),
		Cost:                   domain.ReadAmount(b[46:]),
		Fee:                    domain.ReadAmount(b[54:]),
		Timestamp:              int64(u64(b[62:])),
		Reason:                 domain.CancelReason(b[70]),
		IsBuy:                  b[71] != 0,
		FeeId:                  u32(b[72:]),
	}, nil
}

// Fill reports one trade, mirroring the OnTrade callback. 95 bytes,
// length-prefixed.
type Fill struct {
	IncomingOrderId domain.OrderId
	RestingOrderId  domain.OrderId
	IncomingUserId  domain.UserId
	RestingUserId   domain.UserId
	Price           domain.Price
	Quantity        domain.Quantity
	Cost            domain.Amount
	IncomingFee     domain.Amount
	RestingFee      domain.Amount
	FilledQuantity  domain.Quantity
	Timestamp       int64
	IncomingIsBuy   bool
}

const FillSize = 95

// Serialize encodes the message.
func (m Fill) Serialize() []byte {
	b := make([]byte, FillSize)
	putU32(b, FillSize)
	b[4] = byte(TypeFill)
	b[5] = CurrentVersion
	m.IncomingOrderId.Put(b[6:])
	m.RestingOrderId.Put(b[14:])
	m.IncomingUserId.Put(b[22:])
	m.RestingUserId.Put(b[30:])
	m.Price.Put(b[38:])
	m.Quantity.Put(b[46:])
	m.Cost.Put(b[54:])
	m.IncomingFee.Put(b[62:])
	m.RestingFee.Put(b[70:])
	m.FilledQuantity.Put(b[78:])
	putU64(b[86:], uint64(m.Timestamp))
	putBool(b[94:], m.IncomingIsBuy)
	return b
}

// DecodeFill decodes a Fill buffer.
func DecodeFill(b []byte) (Fill, error) {
	if err := checkPrefixed(b, TypeFill, FillSize); err != nil {
		return Fill{}, err
	}
	return Fill{
		IncomingOrderId: domain.ReadOrderId(b[6:]),
		RestingOrderId:  domain.ReadOrderId(b[14:]),
		IncomingUserId:  domain.ReadUserId(b[22:]),
		RestingUserId:   domain.ReadUserId(b[30:]),
		Price:           domain.ReadPrice(b[38:]),
		Quantity:        domain.ReadQuantity(b[46:]),
		Cost:            domain.ReadAmount(b[54:]),
		IncomingFee:     domain.ReadAmount(b[62:]),
		RestingFee:      domain.ReadAmount(b[70:]),
		FilledQuantity:  domain.ReadQuantity(b[78:]),
		Timestamp:       int64(u64(b[86:])),
		IncomingIsBuy:   b[94] != 0,
	}, nil
}
