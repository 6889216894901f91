// Package wire implements the fixed-layout binary messages exchanged
// with the engine's surroundings. Every message is little-endian and
// starts with a 1-byte type discriminant and a 1-byte version; outbound
// messages additionally carry a 4-byte total-length prefix. Decoders
// reject, in this order: a buffer whose length is not exactly the
// expected size, an unrecognized or unexpected type byte, and a version
// byte other than the current one.
package wire

import (
	"fmt"

	"github.com/openclob/matchbook/internal/domain"
)

// MessageType discriminates the wire messages.
type MessageType byte

const (
	TypeBookRequest MessageType = iota + 1
	TypeOrderTrigger
	TypeCancelRequest
	TypeOrderAccept
	TypeMatchingEngineResult
	TypeCancelledOrder
	TypeSelfMatch
	TypeBookSnapshot
	TypeOrderRequest
	TypeFill
)

// CurrentVersion is the version byte written into every serialized
// message and required of every decoded one.
const CurrentVersion byte = 1

// SizeMismatchError reports a buffer whose length does not match the
// size required by its message type.
type SizeMismatchError struct {
	Expected int
	Got      int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("size_mismatch: expected %d bytes, got %d", e.Expected, e.Got)
}

// Is lets errors.Is match against domain.ErrSizeMismatch.
func (e *SizeMismatchError) Is(target error) bool {
	return target == domain.ErrSizeMismatch
}

const prefixSize = 4

// checkUnprefixed validates a fixed-size message without a length
// prefix: [0] type, [1] version.
func checkUnprefixed(b []byte, t MessageType, size int) error {
	if b == nil {
		panic("wire: nil buffer")
	}
	if len(b) != size {
		return &SizeMismatchError{Expected: size, Got: len(b)}
	}
	if MessageType(b[0]) != t {
		return fmt.Errorf("unexpected type byte %d: %w", b[0], domain.ErrInvalidMessage)
	}
	if b[1] != CurrentVersion {
		return fmt.Errorf("version %d, want %d: %w", b[1], CurrentVersion, domain.ErrVersionMismatch)
	}
	return nil
}

// checkPrefixed validates a fixed-size message carrying a 4-byte total
// length: [0:4] length, [4] type, [5] version.
func checkPrefixed(b []byte, t MessageType, size int) error {
	if b == nil {
		panic("wire: nil buffer")
	}
	if len(b) != size {
		return &SizeMismatchError{Expected: size, Got: len(b)}
	}
	if int(u32(b)) != size {
		return fmt.Errorf("length prefix %d does not match buffer size %d: %w", u32(b), size, domain.ErrInvalidMessage)
	}
	if MessageType(b[prefixSize]) != t {
		return fmt.Errorf("unexpected type byte %d: %w", b[prefixSize], domain.ErrInvalidMessage)
	}
	if b[prefixSize+1] != CurrentVersion {
		return fmt.Errorf("version %d, want %d: %w", b[prefixSize+1], CurrentVersion, domain.ErrVersionMismatch)
	}
	return nil
}

// TypeOf extracts the message type from a raw buffer. Unprefixed request
// types put the discriminant first; everything else follows the length
// prefix.
func TypeOf(b []byte) (MessageType, error) {
	if b == nil {
		panic("wire: nil buffer")
	}
	if len(b) == 0 {
		return 0, fmt.Errorf("empty buffer: %w", domain.ErrInvalidMessage)
	}
	switch t := MessageType(b[0]); t {
	case TypeBookRequest, TypeOrderTrigger, TypeCancelRequest:
		return t, nil
	}
	if len(b) <= prefixSize {
		return 0, fmt.Errorf("truncated buffer: %w", domain.ErrInvalidMessage)
	}
	switch t := MessageType(b[prefixSize]); t {
	case TypeOrderAccept, TypeMatchingEngineResult, TypeCancelledOrder,
		TypeSelfMatch, TypeBookSnapshot, TypeOrderRequest, TypeFill:
		return t, nil
	default:
		return 0, fmt.Errorf("unrecognized type byte %d: %w", b[prefixSize], domain.ErrInvalidMessage)
	}
}

func u32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func u64(b []byte) uint64 {
	return uint64(u32(b)) | uint64(u32(b[4:]))<<32
}

func putU64(b []byte, v uint64) {
	putU32(b, uint32(v))
	putU32(b[4:], uint32(v>>32))
}

func putBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}
