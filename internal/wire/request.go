package wire

import "github.com/openclob/matchbook/internal/domain"

// BookRequest asks for a depth snapshot of up to LevelCount levels per
// side. 7 bytes, no length prefix.
type BookRequest struct {
	LevelCount   uint32
	IncludeStops bool
}

const BookRequestSize = 7

// Serialize encodes the request.
func (m BookRequest) Serialize() []byte {
	b := make([]byte, BookRequestSize)
	b[0] = byte(TypeBookRequest)
	b[1] = CurrentVersion
	putU32(b[2:], m.LevelCount)
	putBool(b[6:], m.IncludeStops)
	return b
}

// DecodeBookRequest decodes a BookRequest buffer.
func DecodeBookRequest(b []byte) (BookRequest, error) {
	if err := checkUnprefixed(b, TypeBookRequest, BookRequestSize); err != nil {
		return BookRequest{}, err
	}
	return BookRequest{
		LevelCount:   u32(b[2:]),
		IncludeStops: b[6] != 0,
	}, nil
}

// CancelRequest asks the engine to cancel a resting or stop-parked
// order. The side is carried for gateway routing, as cancel requests
// conventionally do. 11 bytes, no length prefix.
type CancelRequest struct {
	OrderId domain.OrderId
	IsBuy   bool
}

const CancelRequestSize = 11

// Serialize encodes the request.
func (m CancelRequest) Serialize() []byte {
	b := make([]byte, CancelRequestSize)
	b[0] = byte(TypeCancelRequest)
	b[1] = CurrentVersion
	m.OrderId.Put(b[2:])
	putBool(b[10:], m.IsBuy)
	return b
}

// DecodeCancelRequest decodes a CancelRequest buffer.
func DecodeCancelRequest(b []byte) (CancelRequest, error) {
	if err := checkUnprefixed(b, TypeCancelRequest, CancelRequestSize); err != nil {
		return CancelRequest{}, err
	}
	return CancelRequest{
		OrderId: domain.ReadOrderId(b[2:]),
		IsBuy:   b[10] != 0,
	}, nil
}

// OrderRequest is an inbound new order with all engine-visible fields.
// 92 bytes, length-prefixed.
type OrderRequest struct {
	OrderId       domain.OrderId
	UserId        domain.UserId
	Price         domain.Price
	StopPrice     domain.Price
	Quantity      domain.Quantity
	TotalQuantity domain.Quantity
	TipQuantity   domain.Quantity
	OrderAmount   domain.Amount
	CancelOn      int64
	Timestamp     int64
	FeeId         uint32
	Condition     domain.OrderCondition
	IsBuy         bool
}

const OrderRequestSize = 92

// Serialize encodes the request.
func (m OrderRequest) Serialize() []byte {
	b := make([]byte, OrderRequestSize)
	putU32(b, OrderRequestSize)
	b[4] = byte(TypeOrderRequest)
	b[5] = CurrentVersion
	m.OrderId.Put(b[6:])
	m.UserId.Put(b[14:])
	m.Price.Put(b[22:])
	m.StopPrice.Put(b[30:])
	m.Quantity.Put(b[38:])
	m.TotalQuantity.Put(b[46:])
	m.TipQuantity.Put(b[54:])
	m.OrderAmount.Put(b[62:])
	putU64(b[70:], uint64(m.CancelOn))
	putU64(b[78:], uint64(m.Timestamp))
	putU32(b[86:], m.FeeId)
	b[90] = byte(m.Condition)
	putBool(b[91:], m.IsBuy)
	return b
}

// DecodeOrderRequest decodes an OrderRequest buffer.
func DecodeOrderRequest(b []byte) (OrderRequest, error) {
	if err := checkPrefixed(b, TypeOrderRequest, OrderRequestSize); err != nil {
		return OrderRequest{}, err
	}
	return OrderRequest{
		OrderId:       domain.ReadOrderId(b[6:]),
		UserId:        domain.ReadUserId(b[14:]),
		Price:         domain.ReadPrice(b[22:]),
		StopPrice:     domain.ReadPrice(b[30:]),
		Quantity:      domain.ReadQuantity(b[38:]),
		TotalQuantity: domain.ReadQuantity(b[46:]),
		TipQuantity:   domain.ReadQuantity(b[54:]),
		OrderAmount:   domain.ReadAmount(b[62:]),
		CancelOn:      int64(u64(b[70:])),
		Timestamp:     int64(u64(b[78:])),
		FeeId:         u32(b[86:]),
		Condition:     domain.OrderCondition(b[90]),
		IsBuy:         b[91] != 0,
	}, nil
}

// ToOrder builds the engine-side order record for this request.
func (m OrderRequest) ToOrder() *domain.Order {
	return &domain.Order{
		OrderId:       m.OrderId,
		UserId:        m.UserId,
		IsBuy:         m.IsBuy,
		Price:         m.Price,
		StopPrice:     m.StopPrice,
		OpenQuantity:  m.Quantity,
		TotalQuantity: m.TotalQuantity,
		TipQuantity:   m.TipQuantity,
		OrderAmount:   m.OrderAmount,
		Condition:     m.Condition,
		CancelOn:      m.CancelOn,
		FeeId:         m.FeeId,
	}
}
