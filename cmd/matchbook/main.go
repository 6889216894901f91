// Command matchbook replays a stream of framed wire messages through a
// single matching engine. Input is read from a file or stdin, engine
// events are written back out as wire messages, and a JSON log line is
// emitted per command. Because time only enters through the timestamps
// carried by the order requests, a replay of the same input produces
// the same output byte for byte.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/openclob/matchbook/internal/config"
	"github.com/openclob/matchbook/internal/domain"
	"github.com/openclob/matchbook/internal/engine"
	"github.com/openclob/matchbook/internal/metrics"
	"github.com/openclob/matchbook/internal/tape"
	"github.com/openclob/matchbook/internal/wire"
)

func main() {
	inputPath := flag.String("input", "-", "message stream to replay (- for stdin)")
	outputPath := flag.String("output", "-", "destination for emitted messages (- for stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	in := os.Stdin
	if *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			logger.Error("failed to open input", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}
	out := os.Stdout
	if *outputPath != "-" {
		f, err := os.Create(*outputPath)
		if err != nil {
			logger.Error("failed to open output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	writer := bufio.NewWriter(out)
	defer writer.Flush()

	replay := newReplay(cfg, writer, logger)
	if err := replay.run(bufio.NewReader(in)); err != nil {
		logger.Error("replay failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("replay finished",
		slog.Int("executions", len(replay.tape.Executions())),
		slog.Int("cancellations", len(replay.tape.Cancellations())),
	)
}

// replay owns one engine and the bookkeeping needed to enrich outbound
// messages with order fields the listener callbacks do not carry.
type replay struct {
	engine *engine.MatchingEngine
	tape   *tape.TradeTape
	cfg    *config.Config
	out    *bufio.Writer
	logger *slog.Logger

	orders map[domain.OrderId]wire.OrderRequest
	clock  int64 // last seen command timestamp
}

func newReplay(cfg *config.Config, out *bufio.Writer, logger *slog.Logger) *replay {
	r := &replay{
		tape:   tape.New(),
		cfg:    cfg,
		out:    out,
		logger: logger,
		orders: make(map[domain.OrderId]wire.OrderRequest),
	}
	listener := metrics.NewMeteredListener(&emitter{replay: r})
	fees := engine.FlatFeeProvider{Fee: domain.Fee{
		MakerRate: cfg.MakerFeeBps,
		TakerRate: cfg.TakerFeeBps,
	}}
	r.engine = engine.NewMatchingEngine(listener, fees, domain.Quantity(cfg.QuantityStep), domain.Price(cfg.PriceStep))
	return r
}

// run reads framed messages until EOF. Unprefixed requests are framed by
// their fixed size; everything else by the 4-byte length prefix.
func (r *replay) run(in *bufio.Reader) error {
	for {
		first, err := in.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var buf []byte
		switch wire.MessageType(first) {
		case wire.TypeBookRequest:
			buf, err = readRest(in, first, wire.BookRequestSize)
		case wire.TypeCancelRequest:
			buf, err = readRest(in, first, wire.CancelRequestSize)
		case wire.TypeOrderTrigger:
			buf, err = readRest(in, first, wire.OrderTriggerSize)
		default:
			buf, err = readPrefixed(in, first)
		}
		if err != nil {
			return err
		}

		if err := r.dispatch(buf); err != nil {
			return err
		}
	}
}

func readRest(in *bufio.Reader, first byte, size int) ([]byte, error) {
	buf := make([]byte, size)
	buf[0] = first
	if _, err := io.ReadFull(in, buf[1:]); err != nil {
		return nil, fmt.Errorf("truncated message: %w", err)
	}
	return buf, nil
}

func readPrefixed(in *bufio.Reader, first byte) ([]byte, error) {
	header := make([]byte, 4)
	header[0] = first
	if _, err := io.ReadFull(in, header[1:]); err != nil {
		return nil, fmt.Errorf("truncated length prefix: %w", err)
	}
	size := int(uint32(header[0]) | uint32(header[1])<<8 | uint32(header[2])<<16 | uint32(header[3])<<24)
	if size < len(header) {
		return nil, fmt.Errorf("invalid length prefix %d", size)
	}
	buf := make([]byte, size)
	copy(buf, header)
	if _, err := io.ReadFull(in, buf[4:]); err != nil {
		return nil, fmt.Errorf("truncated message: %w", err)
	}
	return buf, nil
}

func (r *replay) dispatch(buf []byte) error {
	msgType, err := wire.TypeOf(buf)
	if err != nil {
		return err
	}
	switch msgType {
	case wire.TypeOrderRequest:
		req, err := wire.DecodeOrderRequest(buf)
		if err != nil {
			return err
		}
		r.clock = req.Timestamp
		r.orders[req.OrderId] = req
		// Sweep due expiries before the new order sees the book.
		r.engine.CancelExpiredOrder(req.Timestamp)
		result := r.engine.AddOrder(req.ToOrder(), req.Timestamp)
		r.logger.Debug("order processed",
			slog.Uint64("order_id", uint64(req.OrderId)),
			slog.String("result", result.String()),
		)
		r.emit(wire.MatchingEngineResult{
			OrderId: req.OrderId,
			UserId:  req.UserId,
			Result:  result,
			IsBuy:   req.IsBuy,
		}.Serialize())
	case wire.TypeCancelRequest:
		req, err := wire.DecodeCancelRequest(buf)
		if err != nil {
			return err
		}
		stored := r.orders[req.OrderId]
		result := r.engine.CancelOrder(req.OrderId)
		r.logger.Debug("cancel processed",
			slog.Uint64("order_id", uint64(req.OrderId)),
			slog.String("result", result.String()),
		)
		r.emit(wire.MatchingEngineResult{
			OrderId: req.OrderId,
			UserId:  stored.UserId,
			Result:  result,
			IsBuy:   req.IsBuy,
		}.Serialize())
	case wire.TypeBookRequest:
		req, err := wire.DecodeBookRequest(buf)
		if err != nil {
			return err
		}
		r.emit(r.snapshot(req).Serialize())
	default:
		return fmt.Errorf("message type %d is not a request", msgType)
	}
	return nil
}

func (r *replay) snapshot(req wire.BookRequest) wire.BookSnapshot {
	depth := int(req.LevelCount)
	if depth <= 0 || depth > r.cfg.SnapshotDepth {
		depth = r.cfg.SnapshotDepth
	}
	snap := wire.BookSnapshot{
		Timestamp:         r.clock,
		LastTradePrice:    r.engine.MarketPrice(),
		HasLastTradePrice: r.engine.MarketPrice() != 0,
	}
	for _, level := range r.engine.Book().TopBids(depth) {
		snap.Bids = append(snap.Bids, wire.SnapshotLevel(level))
	}
	for _, level := range r.engine.Book().TopAsks(depth) {
		snap.Asks = append(snap.Asks, wire.SnapshotLevel(level))
	}
	return snap
}

func (r *replay) emit(b []byte) {
	if _, err := r.out.Write(b); err != nil {
		r.logger.Error("write failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// emitter turns listener callbacks into outbound wire messages and
// forwards everything to the tape.
type emitter struct {
	replay *replay
}

func (e *emitter) OnAccept(orderId domain.OrderId, userId domain.UserId) {
	req := e.replay.orders[orderId]
	e.replay.emit(wire.OrderAccept{
		OrderId: orderId,
		UserId:  userId,
		IsBuy:   req.IsBuy,
	}.Serialize())
	e.replay.tape.OnAccept(orderId, userId)
}

func (e *emitter) OnTrade(
	incomingOrderId, restingOrderId domain.OrderId,
	incomingUserId, restingUserId domain.UserId,
	incomingIsBuy bool,
	price domain.Price,
	quantity domain.Quantity,
	incomingFee, restingFee domain.Amount,
	cost domain.Amount,
	filledQuantity domain.Quantity,
) {
	e.replay.emit(wire.Fill{
		IncomingOrderId: incomingOrderId,
		RestingOrderId:  restingOrderId,
		IncomingUserId:  incomingUserId,
		RestingUserId:   restingUserId,
		Price:           price,
		Quantity:        quantity,
		Cost:            cost,
		IncomingFee:     incomingFee,
		RestingFee:      restingFee,
		FilledQuantity:  filledQuantity,
		Timestamp:       e.replay.clock,
		IncomingIsBuy:   incomingIsBuy,
	}.Serialize())
	e.replay.tape.OnTrade(incomingOrderId, restingOrderId, incomingUserId, restingUserId,
		incomingIsBuy, price, quantity, incomingFee, restingFee, cost, filledQuantity)
}

func (e *emitter) OnCancel(
	orderId domain.OrderId,
	userId domain.UserId,
	remainingQuantity, remainingTotalQuantity domain.Quantity,
	cost, fee domain.Amount,
	reason domain.CancelReason,
) {
	req := e.replay.orders[orderId]
	e.replay.emit(wire.CancelledOrder{
		OrderId:                orderId,
		UserId:                 userId,
		Price:                  req.Price,
		RemainingQuantity:      remainingQuantity,
		RemainingTotalQuantity: remainingTotalQuantity,
		Cost:                   cost,
		Fee:                    fee,
		Timestamp:              e.replay.clock,
		Reason:                 reason,
		IsBuy:                  req.IsBuy,
		FeeId:                  req.FeeId,
	}.Serialize())
	e.replay.tape.OnCancel(orderId, userId, remainingQuantity, remainingTotalQuantity, cost, fee, reason)
}

func (e *emitter) OnSelfMatch(incomingOrderId, restingOrderId domain.OrderId, userId domain.UserId, restingOpenQuantity domain.Quantity) {
	incoming := e.replay.orders[incomingOrderId]
	e.replay.emit(wire.SelfMatch{
		IncomingOrderId:     incomingOrderId,
		RestingOrderId:      restingOrderId,
		UserId:              userId,
		RestingOpenQuantity: restingOpenQuantity,
		Timestamp:           e.replay.clock,
		IncomingIsBuy:       incoming.IsBuy,
	}.Serialize())
	e.replay.tape.OnSelfMatch(incomingOrderId, restingOrderId, userId, restingOpenQuantity)
}

func (e *emitter) OnOrderTriggered(orderId domain.OrderId, userId domain.UserId) {
	req := e.replay.orders[orderId]
	e.replay.emit(wire.OrderTrigger{
		OrderId: orderId,
		UserId:  userId,
		IsBuy:   req.IsBuy,
	}.Serialize())
	e.replay.tape.OnOrderTriggered(orderId, userId)
}
