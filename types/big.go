package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals JSON to a string representation
// of the big number. Note that a nil pointer value marshals as the empty
// string.
type BigInt big.Int

// MarshalText returns the decimal string representation of the number.
func (i *BigInt) MarshalText() ([]byte, error) {
	return (*big.Int)(i).MarshalText()
}

// UnmarshalText parses a decimal string representation of the number.
func (i *BigInt) UnmarshalText(data []byte) error {
	return (*big.Int)(i).UnmarshalText(data)
}

// MarshalCBOR encodes the number as a CBOR byte string holding its big-endian
// bytes. The encoding is deterministic, as required for artifacts that feed
// integrity hashes.
func (i *BigInt) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(i.Bytes())
}

// UnmarshalCBOR decodes a CBOR byte string into the number.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return fmt.Errorf("unmarshal BigInt: %w", err)
	}
	i.SetBytes(buf)
	return nil
}

// String returns the decimal string representation of the number.
func (i *BigInt) String() string {
	return (*big.Int)(i).String()
}

// SetBytes interprets buf as big-endian unsigned integer.
func (i *BigInt) SetBytes(buf []byte) *BigInt {
	return (*BigInt)((*big.Int)(i).SetBytes(buf))
}

// Bytes returns the big-endian unsigned bytes of the number.
func (i *BigInt) Bytes() []byte {
	return (*big.Int)(i).Bytes()
}

// MathBigInt converts b to a big.Int.
func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

// Equal reports whether i and j represent the same number.
func (i *BigInt) Equal(j *BigInt) bool {
	return (*big.Int)(i).Cmp((*big.Int)(j)) == 0
}

// NewBigInt returns a BigInt with the given int64 value.
func NewBigInt(v int64) *BigInt {
	return (*BigInt)(big.NewInt(v))
}
