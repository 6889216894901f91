package domain

import (
	"encoding/binary"
	"math"
)

// Price is a fixed-precision price in cents. Zero means "market" when
// used as an order's limit price.
type Price int64

// Quantity is a fixed-precision quantity in instrument units.
type Quantity int64

// OrderId identifies an order within one engine instance.
type OrderId uint64

// UserId identifies the owner of an order.
type UserId uint64

// Amount is a notional value (price × quantity), also used for
// accumulated costs and fees.
type Amount int64

const (
	PriceMinValue Price = math.MinInt64
	PriceMaxValue Price = math.MaxInt64

	QuantityMinValue Quantity = math.MinInt64
	QuantityMaxValue Quantity = math.MaxInt64

	OrderIdMinValue OrderId = 0
	OrderIdMaxValue OrderId = math.MaxUint64

	UserIdMinValue UserId = 0
	UserIdMaxValue UserId = math.MaxUint64

	AmountMinValue Amount = math.MinInt64
	AmountMaxValue Amount = math.MaxInt64
)

// Wire sizes of the value types, in bytes. All of them are 8-byte
// little-endian fields.
const (
	PriceSize    = 8
	QuantitySize = 8
	OrderIdSize  = 8
	UserIdSize   = 8
	AmountSize   = 8
)

// Put writes the price into the first 8 bytes of b.
func (p Price) Put(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(p))
}

// ReadPrice decodes a price from the first 8 bytes of b.
func ReadPrice(b []byte) Price {
	return Price(binary.LittleEndian.Uint64(b))
}

// IsMultipleOf reports whether p is a whole multiple of step.
func (p Price) IsMultipleOf(step Price) bool {
	if step <= 0 {
		return false
	}
	return p%step == 0
}

// Put writes the quantity into the first 8 bytes of b.
func (q Quantity) Put(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(q))
}

// ReadQuantity decodes a quantity from the first 8 bytes of b.
func ReadQuantity(b []byte) Quantity {
	return Quantity(binary.LittleEndian.Uint64(b))
}

// IsMultipleOf reports whether q is a whole multiple of step.
func (q Quantity) IsMultipleOf(step Quantity) bool {
	if step <= 0 {
		return false
	}
	return q%step == 0
}

// Put writes the order id into the first 8 bytes of b.
func (id OrderId) Put(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(id))
}

// ReadOrderId decodes an order id from the first 8 bytes of b.
func ReadOrderId(b []byte) OrderId {
	return OrderId(binary.LittleEndian.Uint64(b))
}

// Put writes the user id into the first 8 bytes of b.
func (id UserId) Put(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(id))
}

// ReadUserId decodes a user id from the first 8 bytes of b.
func ReadUserId(b []byte) UserId {
	return UserId(binary.LittleEndian.Uint64(b))
}

// Put writes the amount into the first 8 bytes of b.
func (a Amount) Put(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(a))
}

// ReadAmount decodes an amount from the first 8 bytes of b.
func ReadAmount(b []byte) Amount {
	return Amount(binary.LittleEndian.Uint64(b))
}

// Cost computes the notional value of qty units at price p.
func Cost(p Price, qty Quantity) Amount {
	return Amount(int64(p) * int64(qty))
}
