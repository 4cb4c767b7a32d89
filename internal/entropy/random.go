// Package entropy derives run seeds when the operator doesn't pin one.
// Seeds come from crypto/rand so unpinned runs don't correlate.
// See design doc Section 9.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Seed returns a fresh non-negative seed for an unpinned run.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; the wall clock keeps runs distinct.
		return time.Now().UnixNano()
	}
	n := binary.LittleEndian.Uint64(buf[:])
	return int64(n &^ (1 << 63))
}
