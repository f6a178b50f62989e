// Package elgamal implements exponential ElGamal encryption over an
// elliptic curve group. Ciphertexts are additively homomorphic: the sum of
// two ciphertexts encrypts the sum of the underlying messages. Decryption
// recovers the message scalar with a baby-step giant-step discrete log
// search, so it is only practical for bounded aggregates.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/vocdoni/arbo"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc"
)

// RandK generates a random scalar suitable for encryption randomness.
func RandK() (*big.Int, error) {
	kBytes := make([]byte, 20)
	if _, err := rand.Read(kBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random k: %w", err)
	}
	k := new(big.Int).SetBytes(kBytes)
	return arbo.BigToFF(arbo.BN254BaseField, k), nil
}

// GenerateKey generates a new public/private ElGamal encryption key pair
// over the curve of the provided point.
func GenerateKey(curve ecc.Point) (publicKey ecc.Point, privateKey *big.Int, err error) {
	order := curve.Order()
	d, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key scalar: %w", err)
	}
	if d.Sign() == 0 {
		d = big.NewInt(1) // avoid zero private keys
	}
	publicKey = curve.New()
	publicKey.SetGenerator()
	publicKey.ScalarMult(publicKey, d)
	return publicKey, d, nil
}

// EncryptWithK encrypts a message with the given public key and randomness.
// It returns the two points of the resulting ciphertext.
func EncryptWithK(pubKey ecc.Point, msg, k *big.Int) (ecc.Point, ecc.Point, error) {
	order := pubKey.Order()
	msg = new(big.Int).Mod(msg, order)
	// C1 = k * G
	c1 := pubKey.New()
	c1.ScalarBaseMult(k)
	// s = k * pubKey
	s := pubKey.New()
	s.ScalarMult(pubKey, k)
	// M = msg * G
	m := pubKey.New()
	m.ScalarBaseMult(msg)
	// C2 = M + s
	c2 := pubKey.New()
	c2.Add(m, s)
	return c1, c2, nil
}

// DecryptPoints decrypts the ciphertext (c1, c2) with the private key. It
// returns the point M = c2 - d*c1 and the message scalar found by discrete
// log search up to maxMessage, or an error if no solution exists in range.
func DecryptPoints(privateKey *big.Int, c1, c2 ecc.Point, maxMessage uint64) (ecc.Point, *big.Int, error) {
	dC1 := c2.New()
	dC1.ScalarMult(c1, privateKey)
	dC1.Neg(dC1)

	m := c2.New()
	m.Set(c2)
	m.Add(m, dC1) // M = c2 - d*c1

	g := c2.New()
	g.SetGenerator()
	message, err := BabyStepGiantStep(m, g, maxMessage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find discrete log: %w", err)
	}
	return m, message, nil
}

// BabyStepGiantStep solves M = x*G for x in [0, maxMessage] using the
// baby-step giant-step algorithm over the curve group.
func BabyStepGiantStep(m, g ecc.Point, maxMessage uint64) (*big.Int, error) {
	mSqrt := uint64(math.Sqrt(float64(maxMessage))) + 1

	// Precompute baby steps 0*G, 1*G, ..., mSqrt*G.
	babySteps := make(map[string]uint64, mSqrt)
	babyStep := m.New()
	babyStep.SetZero()
	for j := uint64(0); j < mSqrt; j++ {
		babySteps[babyStep.String()] = j
		babyStep.Add(babyStep, g)
	}

	// c = -mSqrt * g
	c := m.New()
	c.ScalarMult(g, new(big.Int).SetUint64(mSqrt))
	c.Neg(c)

	giantStep := m.New()
	giantStep.Set(m)
	for i := uint64(0); i <= mSqrt; i++ {
		if j, found := babySteps[giantStep.String()]; found {
			return new(big.Int).SetUint64(i*mSqrt + j), nil
		}
		giantStep.Add(giantStep, c)
	}
	return nil, fmt.Errorf("no discrete log found up to %d", maxMessage)
}
