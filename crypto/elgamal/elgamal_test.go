package elgamal

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc/curves"
)

func TestGenerateKey(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	publicKey, privateKey, err := GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, publicKey, qt.Not(qt.IsNil))
	qt.Assert(t, privateKey, qt.Not(qt.IsNil))

	// Check if publicKey = privateKey * G
	testPoint := curve.New()
	testPoint.SetGenerator()
	testPoint.ScalarMult(testPoint, privateKey)
	qt.Assert(t, testPoint.Equal(publicKey), qt.IsTrue)
}

func TestEncryptDecrypt(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	publicKey, privateKey, err := GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)

	maxMessage := uint64(1000)

	for _, m := range []uint64{0, 1, 42, 999} {
		msg := big.NewInt(int64(m))
		k, err := RandK()
		qt.Assert(t, err, qt.IsNil)
		c1, c2, err := EncryptWithK(publicKey, msg, k)
		qt.Assert(t, err, qt.IsNil)

		M, recoveredMsg, err := DecryptPoints(privateKey, c1, c2, maxMessage)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, recoveredMsg.String(), qt.DeepEquals, msg.String())

		// Check M = m * G
		testPoint := curve.New()
		testPoint.SetGenerator()
		testPoint.ScalarMult(testPoint, msg)
		qt.Assert(t, testPoint.Equal(M), qt.IsTrue)
	}
}

func TestHomomorphicAddition(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	publicKey, privateKey, err := GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)

	a, err := NewCiphertext(curve).Encrypt(big.NewInt(4), publicKey, nil)
	qt.Assert(t, err, qt.IsNil)
	b, err := NewCiphertext(curve).Encrypt(big.NewInt(6), publicKey, nil)
	qt.Assert(t, err, qt.IsNil)

	sum := NewCiphertext(curve).Add(a, b)
	_, msg, err := DecryptPoints(privateKey, sum.C1, sum.C2, 100)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, msg.Uint64(), qt.Equals, uint64(10))
}

func TestZeroIsNeutral(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	publicKey, privateKey, err := GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)

	a, err := NewCiphertext(curve).Encrypt(big.NewInt(7), publicKey, nil)
	qt.Assert(t, err, qt.IsNil)
	zero := NewCiphertext(curve)

	sum := NewCiphertext(curve).Add(zero, a)
	_, msg, err := DecryptPoints(privateKey, sum.C1, sum.C2, 100)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, msg.Uint64(), qt.Equals, uint64(7))
}

func TestSerializeDeterministic(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	publicKey, privateKey, err := GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)

	k, err := RandK()
	qt.Assert(t, err, qt.IsNil)
	a, err := NewCiphertext(curve).Encrypt(big.NewInt(33), publicKey, k)
	qt.Assert(t, err, qt.IsNil)

	data := a.Serialize()
	qt.Assert(t, len(data), qt.Equals, SizeCiphertext)
	qt.Assert(t, a.Serialize(), qt.DeepEquals, data)

	// A decode/encode round trip preserves the canonical bytes.
	b := &Ciphertext{}
	qt.Assert(t, b.Deserialize(curve, data), qt.IsNil)
	qt.Assert(t, b.Serialize(), qt.DeepEquals, data)
	qt.Assert(t, b.C1.Equal(a.C1), qt.IsTrue)
	qt.Assert(t, b.C2.Equal(a.C2), qt.IsTrue)

	_, msg, err := DecryptPoints(privateKey, b.C1, b.C2, 100)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, msg.Uint64(), qt.Equals, uint64(33))
}

func TestDeserializeInvalid(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	z := &Ciphertext{}
	qt.Assert(t, z.Deserialize(curve, make([]byte, 10)), qt.IsNotNil)
	qt.Assert(t, z.Deserialize(curve, nil), qt.IsNotNil)
}

func TestScheme(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	publicKey, privateKey, err := GenerateKey(curve)
	qt.Assert(t, err, qt.IsNil)
	scheme := NewScheme(publicKey)

	acc := scheme.Zero()
	qt.Assert(t, scheme.IsInitialized(acc), qt.IsTrue)
	for _, m := range []int64{1, 2, 3} {
		handle, err := scheme.Encrypt(big.NewInt(m))
		qt.Assert(t, err, qt.IsNil)
		acc, err = scheme.Add(acc, handle)
		qt.Assert(t, err, qt.IsNil)
	}

	ct, ok := acc.(*Ciphertext)
	qt.Assert(t, ok, qt.IsTrue)
	_, msg, err := DecryptPoints(privateKey, ct.C1, ct.C2, 100)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, msg.Uint64(), qt.Equals, uint64(6))

	// Deserialize rejects garbage and uninitialized handles are detected.
	_, err = scheme.Deserialize([]byte{0x01, 0x02})
	qt.Assert(t, err, qt.IsNotNil)
	qt.Assert(t, scheme.IsInitialized(&Ciphertext{}), qt.IsFalse)
	qt.Assert(t, scheme.IsInitialized(nil), qt.IsFalse)
}

func TestBabyStepGiantStep(t *testing.T) {
	curve := curves.New(curves.CurveTypeBabyJubJub)

	g := curve.New()
	g.SetGenerator()
	for _, x := range []uint64{0, 1, 17, 255, 1024} {
		m := curve.New()
		m.ScalarBaseMult(new(big.Int).SetUint64(x))
		found, err := BabyStepGiantStep(m, g, 2000)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, found.Uint64(), qt.Equals, x)
	}

	// The search works for any base, not just the generator.
	h := curve.New()
	h.ScalarBaseMult(big.NewInt(2))
	for _, x := range []uint64{0, 7, 300, 1999} {
		m := curve.New()
		m.ScalarMult(h, new(big.Int).SetUint64(x))
		found, err := BabyStepGiantStep(m, h, 2000)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, found.Uint64(), qt.Equals, x)
	}

	// Out of range search fails.
	m := curve.New()
	m.ScalarBaseMult(big.NewInt(5000))
	_, err := BabyStepGiantStep(m, g, 100)
	qt.Assert(t, err, qt.IsNotNil)
}
