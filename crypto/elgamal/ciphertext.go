package elgamal

import (
	"fmt"
	"math/big"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/fhe"
)

// Sizes in bytes of the canonical ciphertext encoding.
const (
	sizePoint      = 32
	SizeCiphertext = 2 * sizePoint
)

// Ciphertext is an ElGamal encrypted value, a pair of curve points. It
// implements fhe.Ciphertext; the canonical serialization is the
// concatenation of the compressed encodings of C1 and C2.
type Ciphertext struct {
	C1 ecc.Point `json:"c1"`
	C2 ecc.Point `json:"c2"`
}

// NewCiphertext returns the encryption of zero over the curve of the given
// point: both components set to the group identity, which is the ciphertext
// produced by encrypting the zero message with zero randomness. It is the
// neutral element of homomorphic addition.
func NewCiphertext(curve ecc.Point) *Ciphertext {
	return &Ciphertext{C1: curve.New(), C2: curve.New()}
}

// Encrypt sets z to the encryption of message under publicKey. If k is nil
// a fresh random k is generated.
func (z *Ciphertext) Encrypt(message *big.Int, publicKey ecc.Point, k *big.Int) (*Ciphertext, error) {
	var err error
	if k == nil {
		if k, err = RandK(); err != nil {
			return nil, err
		}
	}
	c1, c2, err := EncryptWithK(publicKey, message, k)
	if err != nil {
		return nil, err
	}
	z.C1 = c1
	z.C2 = c2
	return z, nil
}

// Add sets z to the homomorphic sum of x and y and returns z.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.C1.Add(x.C1, y.C1)
	z.C2.Add(x.C2, y.C2)
	return z
}

// Serialize returns the canonical 64 byte encoding of z. Equal ciphertexts
// always serialize to identical bytes, so serialized values can feed
// integrity hashes.
func (z *Ciphertext) Serialize() []byte {
	buf := make([]byte, 0, SizeCiphertext)
	buf = append(buf, z.C1.Marshal()...)
	buf = append(buf, z.C2.Marshal()...)
	return buf
}

// Deserialize reconstructs z from its canonical encoding, allocating the
// points over the curve of the given prototype.
func (z *Ciphertext) Deserialize(curve ecc.Point, data []byte) error {
	if len(data) != SizeCiphertext {
		return fmt.Errorf("invalid ciphertext length: got %d bytes, expected %d", len(data), SizeCiphertext)
	}
	c1 := curve.New()
	if err := c1.Unmarshal(data[:sizePoint]); err != nil {
		return fmt.Errorf("invalid c1: %w", err)
	}
	c2 := curve.New()
	if err := c2.Unmarshal(data[sizePoint:]); err != nil {
		return fmt.Errorf("invalid c2: %w", err)
	}
	z.C1 = c1
	z.C2 = c2
	return nil
}

// String returns a human readable representation of z.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{C1: nil, C2: nil}"
	}
	return fmt.Sprintf("{C1: %s, C2: %s}", z.C1.String(), z.C2.String())
}

// Scheme implements the fhe.Scheme capability over exponential ElGamal.
type Scheme struct {
	publicKey ecc.Point
}

// NewScheme returns a Scheme encrypting under the given public key.
func NewScheme(publicKey ecc.Point) *Scheme {
	return &Scheme{publicKey: publicKey}
}

// PublicKey returns the scheme encryption public key.
func (s *Scheme) PublicKey() ecc.Point {
	return s.publicKey
}

// Zero returns the explicitly constructed encryption of zero.
func (s *Scheme) Zero() fhe.Ciphertext {
	return NewCiphertext(s.publicKey)
}

// Add returns the homomorphic sum of a and b.
func (s *Scheme) Add(a, b fhe.Ciphertext) (fhe.Ciphertext, error) {
	x, ok := a.(*Ciphertext)
	if !ok {
		return nil, fmt.Errorf("foreign ciphertext type %T", a)
	}
	y, ok := b.(*Ciphertext)
	if !ok {
		return nil, fmt.Errorf("foreign ciphertext type %T", b)
	}
	return NewCiphertext(s.publicKey).Add(x, y), nil
}

// IsInitialized reports whether c holds a usable encrypted value.
func (s *Scheme) IsInitialized(c fhe.Ciphertext) bool {
	z, ok := c.(*Ciphertext)
	return ok && z != nil && z.C1 != nil && z.C2 != nil
}

// Deserialize decodes a ciphertext handle from its canonical encoding.
func (s *Scheme) Deserialize(data []byte) (fhe.Ciphertext, error) {
	z := &Ciphertext{}
	if err := z.Deserialize(s.publicKey, data); err != nil {
		return nil, err
	}
	return z, nil
}

// Encrypt returns a fresh encryption of message under the scheme public key.
func (s *Scheme) Encrypt(message *big.Int) (fhe.Ciphertext, error) {
	return NewCiphertext(s.publicKey).Encrypt(message, s.publicKey, nil)
}
