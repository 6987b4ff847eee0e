package password

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// RandomSource yields uniformly distributed 32-bit values. Generate is only
// as unpredictable as its source; production code must use CryptoSource.
type RandomSource interface {
	Uint32() (uint32, error)
}

// CryptoSource reads from crypto/rand and is safe for concurrent use.
type CryptoSource struct{}

func (CryptoSource) Uint32() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
