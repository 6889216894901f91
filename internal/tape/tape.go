// Package tape provides an in-memory recording TradeListener. It is the
// audit surface of the engine: every execution and cancellation is kept
// with a stable execution id so callers can answer "what happened to
// order X" without replaying the stream.
package tape

import (
	"sync"

	"github.com/google/uuid"

	"github.com/openclob/matchbook/internal/domain"
)

// Execution is one recorded trade.
type Execution struct {
	ExecutionId     string
	IncomingOrderId domain.OrderId
	RestingOrderId  domain.OrderId
	IncomingUserId  domain.UserId
	RestingUserId   domain.UserId
	IncomingIsBuy   bool
	Price           domain.Price
	Quantity        domain.Quantity
	IncomingFee     domain.Amount
	RestingFee      domain.Amount
	Cost            domain.Amount
	FilledQuantity  domain.Quantity
}

// Cancellation is one recorded cancel event. RemainingQuantity is the
// open exposed quantity at cancellation, RemainingTotalQuantity the
// hidden iceberg remainder.
type Cancellation struct {
	OrderId                domain.OrderId
	UserId                 domain.UserId
	RemainingQuantity      domain.Quantity
	RemainingTotalQuantity domain.Quantity
	Cost                   domain.Amount
	Fee                    domain.Amount
	Reason                 domain.CancelReason
}

// TradeTape records engine events. The engine itself is single-writer,
// but readers may inspect the tape from other goroutines, so access is
// mutex-guarded.
type TradeTape struct {
	mu            sync.Mutex
	executions    []Execution
	cancellations []Cancellation
	accepted      []domain.OrderId
	triggered     []domain.OrderId
	selfMatches   int
}

// New creates an empty tape.
func New() *TradeTape {
	return &TradeTape{}
}

// OnAccept records an accepted order id.
func (t *TradeTape) OnAccept(orderId domain.OrderId, userId domain.UserId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted = append(t.accepted, orderId)
}

// OnTrade records an execution with a fresh execution id.
func (t *TradeTape) OnTrade(
	incomingOrderId, restingOrderId domain.OrderId,
	incomingUserId, restingUserId domain.UserId,
	incomingIsBuy bool,
	price domain.Price,
	quantity domain.Quantity,
	incomingFee, restingFee domain.Amount,
	cost domain.Amount,
	filledQuantity domain.Quantity,
) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.executions = append(t.executions, Execution{
		ExecutionId:     uuid.New().String(),
		IncomingOrderId: incomingOrderId,
		RestingOrderId:  restingOrderId,
		IncomingUserId:  incomingUserId,
		RestingUserId:   restingUserId,
		IncomingIsBuy:   incomingIsBuy,
		Price:           price,
		Quantity:        quantity,
		IncomingFee:     incomingFee,
		RestingFee:      restingFee,
		Cost:            cost,
		FilledQuantity:  filledQuantity,
	})
}

// OnCancel records a cancellation.
func (t *TradeTape) OnCancel(
	orderId domain.OrderId,
	userId domain.UserId,
	remainingQuantity, remainingTotalQuantity domain.Quantity,
	cost, fee domain.Amount,
	reason domain.CancelReason,
) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancellations = append(t.cancellations, Cancellation{
		OrderId:                orderId,
		UserId:                 userId,
		RemainingQuantity:      remainingQuantity,
		RemainingTotalQuantity: remainingTotalQuantity,
		Cost:                   cost,
		Fee:                    fee,
		Reason:                 reason,
	})
}

// OnSelfMatch counts a prevented self trade.
func (t *TradeTape) OnSelfMatch(incomingOrderId, restingOrderId domain.OrderId, userId domain.UserId, restingOpenQuantity domain.Quantity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selfMatches++
}

// OnOrderTriggered records a stop activation.
func (t *TradeTape) OnOrderTriggered(orderId domain.OrderId, userId domain.UserId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.triggered = append(t.triggered, orderId)
}

// Executions returns a copy of all recorded executions in order.
func (t *TradeTape) Executions() []Execution {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Execution, len(t.executions))
	copy(out, t.executions)
	return out
}

// ExecutionsFor returns the executions an order took part in, either
// side, in order.
func (t *TradeTape) ExecutionsFor(orderId domain.OrderId) []Execution {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Execution
	for _, ex := range t.executions {
		if ex.IncomingOrderId == orderId || ex.RestingOrderId == orderId {
			out = append(out, ex)
		}
	}
	return out
}

// Cancellations returns a copy of all recorded cancellations in order.
func (t *TradeTape) Cancellations() []Cancellation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Cancellation, len(t.cancellations))
	copy(out, t.cancellations)
	return out
}

// Accepted returns the accepted order ids in order.
func (t *TradeTape) Accepted() []domain.OrderId {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.OrderId, len(t.accepted))
	copy(out, t.accepted)
	return out
}

// Triggered returns the triggered stop order ids in order.
func (t *TradeTape) Triggered() []domain.OrderId {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.OrderId, len(t.triggered))
	copy(out, t.triggered)
	return out
}

// SelfMatchCount returns the number of prevented self trades.
func (t *TradeTape) SelfMatchCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selfMatches
}
