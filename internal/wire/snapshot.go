package wire

import (
	"fmt"

	"github.com/openclob/matchbook/internal/domain"
)

// SnapshotLevel is one aggregated price level of a depth snapshot.
type SnapshotLevel struct {
	Price          domain.Price
	OpenQuantity   domain.Quantity
	HiddenQuantity domain.Quantity
	OrderCount     uint64
}

// BookSnapshot is a depth view of the live book: bid levels best-first,
// then ask levels best-first. 31 bytes with zero levels, plus 32 bytes
// per level. Flags bit 0 records whether a last trade price exists yet.
type BookSnapshot struct {
	Timestamp         int64
	LastTradePrice    domain.Price
	HasLastTradePrice bool
	Bids              []SnapshotLevel
	Asks              []SnapshotLevel
}

const (
	snapshotBaseSize  = 31
	snapshotLevelSize = 32
)

const flagHasLastTradePrice = 1

// Size returns the serialized size of the snapshot.
func (m BookSnapshot) Size() int {
	return snapshotBaseSize + snapshotLevelSize*(len(m.Bids)+len(m.Asks))
}

// Serialize encodes the snapshot, bid block then ask block.
func (m BookSnapshot) Serialize() []byte {
	size := m.Size()
	b := make([]byte, size)
	putU32(b, uint32(size))
	b[4] = byte(TypeBookSnapshot)
	b[5] = CurrentVersion
	putU64(b[6:], uint64(m.Timestamp))
	m.LastTradePrice.Put(b[14:])
	putU32(b[22:], uint32(len(m.Bids)))
	putU32(b[26:], uint32(len(m.Asks)))
	if m.HasLastTradePrice {
		b[30] = flagHasLastTradePrice
	}
	off := snapshotBaseSize
	for _, level := range m.Bids {
		putLevel(b[off:], level)
		off += snapshotLevelSize
	}
	for _, level := range m.Asks {
		putLevel(b[off:], level)
		off += snapshotLevelSize
	}
	return b
}

func putLevel(b []byte, level SnapshotLevel) {
	level.Price.Put(b)
	level.OpenQuantity.Put(b[8:])
	level.HiddenQuantity.Put(b[16:])
	putU64(b[24:], level.OrderCount)
}

func readLevel(b []byte) SnapshotLevel {
	return SnapshotLevel{
		Price:          domain.ReadPrice(b),
		OpenQuantity:   domain.ReadQuantity(b[8:]),
		HiddenQuantity: domain.ReadQuantity(b[16:]),
		OrderCount:     u64(b[24:]),
	}
}

// DecodeBookSnapshot decodes a BookSnapshot buffer. The expected size is
// derived from the level counts in the header; any other length is a
// size mismatch.
func DecodeBookSnapshot(b []byte) (BookSnapshot, error) {
	if b == nil {
		panic("wire: nil buffer")
	}
	if len(b) < snapshotBaseSize {
		return BookSnapshot{}, &SizeMismatchError{Expected: snapshotBaseSize, Got: len(b)}
	}
	bidCount := int(u32(b[22:]))
	askCount := int(u32(b[26:]))
	size := snapshotBaseSize + snapshotLevelSize*(bidCount+askCount)
	if len(b) != size {
		return BookSnapshot{}, &SizeMismatchError{Expected: size, Got: len(b)}
	}
	if int(u32(b)) != size {
		return BookSnapshot{}, fmt.Errorf("length prefix %d does not match buffer size %d: %w", u32(b), size, domain.ErrInvalidMessage)
	}
	if MessageType(b[4]) != TypeBookSnapshot {
		return BookSnapshot{}, fmt.Errorf("unexpected type byte %d: %w", b[4], domain.ErrInvalidMessage)
	}
	if b[5] != CurrentVersion {
		return BookSnapshot{}, fmt.Errorf("version %d, want %d: %w", b[5], CurrentVersion, domain.ErrVersionMismatch)
	}
	m := BookSnapshot{
		Timestamp:         int64(u64(b[6:])),
		LastTradePrice:    domain.ReadPrice(b[14:]),
		HasLastTradePrice: b[30]&flagHasLastTradePrice != 0,
	}
	off := snapshotBaseSize
	for i := 0; i < bidCount; i++ {
		m.Bids = append(m.Bids, readLevel(b[off:]))
		off += snapshotLevelSize
	}
	for i := 0; i < askCount; i++ {
		m.Asks = append(m.Asks, readLevel(b[off:]))
		off += snapshotLevelSize
	}
	return m, nil
}
