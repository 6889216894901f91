package wire

import (
	"errors"
	"testing"

	"github.com/openclob/matchbook/internal/domain"
)

// sampleMessages returns one serialized instance of every message type.
func sampleMessages() map[MessageType][]byte {
	return map[MessageType][]byte{
		TypeBookRequest:          BookRequest{LevelCount: 10}.Serialize(),
		TypeOrderTrigger:         OrderTrigger{OrderId: 1, UserId: 2}.Serialize(),
		TypeCancelRequest:        CancelRequest{OrderId: 1}.Serialize(),
		TypeOrderAccept:          OrderAccept{OrderId: 1, UserId: 2}.Serialize(),
		TypeMatchingEngineResult: MatchingEngineResult{OrderId: 1, UserId: 2}.Serialize(),
		TypeCancelledOrder:       CancelledOrder{OrderId: 1, UserId: 2}.Serialize(),
		TypeSelfMatch:            SelfMatch{IncomingOrderId: 1, RestingOrderId: 2}.Serialize(),
		TypeBookSnapshot:         BookSnapshot{Timestamp: 1}.Serialize(),
		TypeOrderRequest:         OrderRequest{OrderId: 1, UserId: 2}.Serialize(),
		TypeFill:                 Fill{IncomingOrderId: 1, RestingOrderId: 2}.Serialize(),
	}
}

func TestTypeOf(t *testing.T) {
	for want, buf := range sampleMessages() {
		got, err := TypeOf(buf)
		if err != nil {
			t.Errorf("type %d: unexpected error: %v", want, err)
			continue
		}
		if got != want {
			t.Errorf("expected type %d, got %d", want, got)
		}
	}
}

func TestTypeOf_Invalid(t *testing.T) {
	if _, err := TypeOf([]byte{}); !errors.Is(err, domain.ErrInvalidMessage) {
		t.Errorf("expected invalid message for empty buffer, got %v", err)
	}
	// An unprefixed discriminant that is not a request type needs the
	// length prefix; a 4-byte buffer has no type byte after it.
	if _, err := TypeOf([]byte{99, 0, 0, 0}); !errors.Is(err, domain.ErrInvalidMessage) {
		t.Errorf("expected invalid message for truncated buffer, got %v", err)
	}
	if _, err := TypeOf([]byte{99, 0, 0, 0, 99, 0}); !errors.Is(err, domain.ErrInvalidMessage) {
		t.Errorf("expected invalid message for unknown type, got %v", err)
	}
}

// decoders adapts every decode function to a common signature so the
// size/type/version laws can be checked uniformly.
var decoders = map[MessageType]func([]byte) error{
	TypeBookRequest:          func(b []byte) error { _, err := DecodeBookRequest(b); return err },
	TypeOrderTrigger:         func(b []byte) error { _, err := DecodeOrderTrigger(b); return err },
	TypeCancelRequest:        func(b []byte) error { _, err := DecodeCancelRequest(b); return err },
	TypeOrderAccept:          func(b []byte) error { _, err := DecodeOrderAccept(b); return err },
	TypeMatchingEngineResult: func(b []byte) error { _, err := DecodeMatchingEngineResult(b); return err },
	TypeCancelledOrder:       func(b []byte) error { _, err := DecodeCancelledOrder(b); return err },
	TypeSelfMatch:            func(b []byte) error { _, err := DecodeSelfMatch(b); return err },
	TypeBookSnapshot:         func(b []byte) error { _, err := DecodeBookSnapshot(b); return err },
	TypeOrderRequest:         func(b []byte) error { _, err := DecodeOrderRequest(b); return err },
	TypeFill:                 func(b []byte) error { _, err := DecodeFill(b); return err },
}

func TestDecode_SizeMismatch(t *testing.T) {
	for msgType, buf := range sampleMessages() {
		decode := decoders[msgType]

		short := buf[:len(buf)-1]
		err := decode(short)
		if !errors.Is(err, domain.ErrSizeMismatch) {
			t.Errorf("type %d: expected size mismatch for short buffer, got %v", msgType, err)
			continue
		}
		var sizeErr *SizeMismatchError
		if !errors.As(err, &sizeErr) {
			t.Errorf("type %d: expected *SizeMismatchError, got %T", msgType, err)
			continue
		}
		if sizeErr.Got != len(short) {
			t.Errorf("type %d: expected got=%d, got %d", msgType, len(short), sizeErr.Got)
		}

		long := append(append([]byte{}, buf...), 0)
		if err := decode(long); !errors.Is(err, domain.ErrSizeMismatch) {
			t.Errorf("type %d: expected size mismatch for long buffer, got %v", msgType, err)
		}
	}
}

func TestDecode_SizeMismatch_ReportsExpectedSize(t *testing.T) {
	_, err := DecodeOrderRequest(make([]byte, 10))
	var sizeErr *SizeMismatchError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected *SizeMismatchError, got %v", err)
	}
	if sizeErr.Expected != OrderRequestSize {
		t.Errorf("expected expected=%d, got %d", OrderRequestSize, sizeErr.Expected)
	}
	if sizeErr.Got != 10 {
		t.Errorf("expected got=10, got %d", sizeErr.Got)
	}
}

func TestDecode_WrongType(t *testing.T) {
	for msgType, buf := range sampleMessages() {
		corrupted := append([]byte{}, buf...)
		switch msgType {
		case TypeBookRequest, TypeOrderTrigger, TypeCancelRequest:
			corrupted[0] = 99
		default:
			corrupted[4] = 99
		}
		if err := decoders[msgType](corrupted); !errors.Is(err, domain.ErrInvalidMessage) {
			t.Errorf("type %d: expected invalid message for wrong type byte, got %v", msgType, err)
		}
	}
}

func TestDecode_WrongVersion(t *testing.T) {
	for msgType, buf := range sampleMessages() {
		corrupted := append([]byte{}, buf...)
		switch msgType {
		case TypeBookRequest, TypeOrderTrigger, TypeCancelRequest:
			corrupted[1] = CurrentVersion + 1
		default:
			corrupted[5] = CurrentVersion + 1
		}
		if err := decoders[msgType](corrupted); !errors.Is(err, domain.ErrVersionMismatch) {
			t.Errorf("type %d: expected version mismatch, got %v", msgType, err)
		}
	}
}

func TestDecode_SizeCheckedBeforeTypeAndVersion(t *testing.T) {
	// A buffer that is wrong in every way reports the size problem first.
	garbage := make([]byte, 5)
	garbage[0] = 99
	garbage[1] = 99
	if err := decoders[TypeFill](garbage); !errors.Is(err, domain.ErrSizeMismatch) {
		t.Errorf("expected size mismatch to win, got %v", err)
	}
}

func TestDecode_InconsistentLengthPrefix(t *testing.T) {
	buf := OrderAccept{OrderId: 1, UserId: 2}.Serialize()
	putU32(buf, uint32(len(buf)+1))
	if _, err := DecodeOrderAccept(buf); !errors.Is(err, domain.ErrInvalidMessage) {
		t.Errorf("expected invalid message for bad length prefix, got %v", err)
	}
}

func TestDecode_NilBufferPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a nil buffer")
		}
	}()
	_, _ = DecodeOrderRequest(nil)
}
