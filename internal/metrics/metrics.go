// Package metrics exposes engine activity as prometheus counters via a
// TradeListener decorator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openclob/matchbook/internal/domain"
	"github.com/openclob/matchbook/internal/engine"
)

var (
	acceptCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_orders_accepted_total",
		Help: "orders that passed validation",
	})
	tradeCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_trades_total",
		Help: "executed matches",
	})
	cancelCounters = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbook_cancels_total",
		Help: "cancelled orders by reason",
	}, []string{"reason"})
	selfMatchCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_self_matches_total",
		Help: "prevented self trades",
	})
	triggerCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_stop_triggers_total",
		Help: "stop orders entering live matching",
	})
)

func init() {
	prometheus.MustRegister(acceptCounter, tradeCounter, cancelCounters, selfMatchCounter, triggerCounter)
}

// MeteredListener wraps a TradeListener and counts every event before
// delegating.
type MeteredListener struct {
	next engine.TradeListener
}

// NewMeteredListener wraps next with counters.
func NewMeteredListener(next engine.TradeListener) *MeteredListener {
	return &MeteredListener{next: next}
}

func (l *MeteredListener) OnAccept(orderId domain.OrderId, userId domain.UserId) {
	acceptCounter.Inc()
	l.next.OnAccept(orderId, userId)
}

func (l *MeteredListener) OnTrade(
	incomingOrderId, restingOrderId domain.OrderId,
	incomingUserId, restingUserId domain.UserId,
	incomingIsBuy bool,
	price domain.Price,
	quantity domain.Quantity,
	incomingFee, restingFee domain.Amount,
	cost domain.Amount,
	filledQuantity domain.Quantity,
) {
	tradeCounter.Inc()
	l.next.OnTrade(incomingOrderId, restingOrderId, incomingUserId, restingUserId,
		incomingIsBuy, price, quantity, incomingFee, restingFee, cost, filledQuantity)
}

func (l *MeteredListener) OnCancel(
	orderId domain.OrderId,
	userId domain.UserId,
	remainingQuantity, remainingTotalQuantity domain.Quantity,
	cost, fee domain.Amount,
	reason domain.CancelReason,
) {
	cancelCounters.WithLabelValues(reason.String()).Inc()
	l.next.OnCancel(orderId, userId, remainingQuantity, remainingTotalQuantity, cost, fee, reason)
}

func (l *MeteredListener) OnSelfMatch(incomingOrderId, restingOrderId domain.OrderId, userId domain.UserId, restingOpenQuantity domain.Quantity) {
	selfMatchCounter.Inc()
	l.next.OnSelfMatch(incomingOrderId, restingOrderId, userId, restingOpenQuantity)
}

func (l *MeteredListener) OnOrderTriggered(orderId domain.OrderId, userId domain.UserId) {
	triggerCounter.Inc()
	l.next.OnOrderTriggered(orderId, userId)
}
