package driver

import (
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Format is a transaction signature representation.
type Format string

// Supported formats.
const (
	// FormatHex is the usual N3 form: little-endian hex hash string.
	FormatHex Format = "hex"
	// FormatBase58 is the big-endian hash bytes in base58.
	FormatBase58 Format = "base58"
)

// ParseFormat checks the format name, empty string means FormatHex.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatHex:
		return FormatHex, nil
	case FormatBase58:
		return FormatBase58, nil
	default:
		return "", fmt.Errorf("unknown signature format %q", s)
	}
}

// Signature formats the transaction hash.
func (f Format) Signature(h util.Uint256) string {
	if f == FormatBase58 {
		return base58.Encode(h.BytesBE())
	}
	return h.StringLE()
}
