package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const TxHashLength = 32

// TxHash is the fixed-size identifier returned when a transaction is broadcast.
type TxHash [TxHashLength]byte

// ParseTxHash accepts a hex string with or without a 0x prefix, in any case.
func ParseTxHash(s string) (TxHash, error) {
	var h TxHash

	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	bz, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid tx hash %q: %w", s, err)
	}
	if len(bz) != TxHashLength {
		return h, fmt.Errorf("invalid tx hash length %d, expected %d", len(bz), TxHashLength)
	}

	copy(h[:], bz)
	return h, nil
}

// String returns the upper case hex form used by Tendermint based chains.
func (h TxHash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

func (h TxHash) Bytes() []byte {
	return h[:]
}

func (h TxHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *TxHash) UnmarshalText(text []byte) error {
	parsed, err := ParseTxHash(string(text))
	if err != nil {
		return err
	}

	*h = parsed
	return nil
}
