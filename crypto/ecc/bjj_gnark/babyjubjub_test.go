package bjj

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	curve "github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc"
	bjjIden3 "github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc/bjj_iden3"
)

// nonBasePoint returns the same fixed non-base point on both backends.
func nonBasePoint() (curve.Point, curve.Point) {
	scalar := big.NewInt(123456789)
	gnarkPoint := New()
	iden3Point := bjjIden3.New()
	gnarkPoint.ScalarBaseMult(scalar)
	iden3Point.ScalarBaseMult(scalar)
	return gnarkPoint, iden3Point
}

func TestBackendsAgree(t *testing.T) {
	c := qt.New(t)

	gnarkPoint := New()
	iden3Point := bjjIden3.New()
	c.Assert(gnarkPoint.Order().String(), qt.Equals, iden3Point.Order().String())

	gnarkPoint.SetGenerator()
	iden3Point.SetGenerator()
	c.Assert(gnarkPoint.String(), qt.Equals, iden3Point.String())

	gnarkPoint.SetZero()
	iden3Point.SetZero()
	c.Assert(gnarkPoint.String(), qt.Equals, iden3Point.String())
}

func TestScalarMult(t *testing.T) {
	c := qt.New(t)

	gnarkPoint := New()
	iden3Point := bjjIden3.New()
	gnarkPoint.ScalarBaseMult(big.NewInt(42))
	iden3Point.ScalarBaseMult(big.NewInt(42))
	c.Assert(gnarkPoint.String(), qt.Equals, iden3Point.String())

	gnarkPoint, iden3Point = nonBasePoint()
	gnarkPoint.ScalarMult(gnarkPoint, big.NewInt(88))
	iden3Point.ScalarMult(iden3Point, big.NewInt(88))
	c.Assert(gnarkPoint.String(), qt.Equals, iden3Point.String())
}

func TestAddNeg(t *testing.T) {
	c := qt.New(t)

	gnarkA, iden3A := nonBasePoint()
	gnarkB := New()
	iden3B := bjjIden3.New()
	gnarkB.ScalarBaseMult(big.NewInt(987654321))
	iden3B.ScalarBaseMult(big.NewInt(987654321))

	gnarkA.Add(gnarkA, gnarkB)
	iden3A.Add(iden3A, iden3B)
	c.Assert(gnarkA.String(), qt.Equals, iden3A.String())

	gnarkA.Neg(gnarkA)
	iden3A.Neg(iden3A)
	c.Assert(gnarkA.String(), qt.Equals, iden3A.String())
}

func TestEqualSet(t *testing.T) {
	c := qt.New(t)

	p1, _ := nonBasePoint()
	p2 := New()
	p2.Set(p1)
	c.Assert(p1.Equal(p2), qt.IsTrue)

	p2.ScalarMult(p2, big.NewInt(2))
	c.Assert(p1.Equal(p2), qt.IsFalse)
}

func TestMarshalRoundTrip(t *testing.T) {
	c := qt.New(t)

	p, _ := nonBasePoint()
	buf := p.Marshal()
	c.Assert(len(buf), qt.Equals, PointSize)

	decoded := New()
	c.Assert(decoded.Unmarshal(buf), qt.IsNil)
	c.Assert(decoded.Equal(p), qt.IsTrue)

	c.Assert(New().Unmarshal(make([]byte, PointSize-1)), qt.IsNotNil)
}
