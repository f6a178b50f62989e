// Package bjj provides the BabyJubJub curve backend implemented on top of
// the gnark-crypto twisted Edwards arithmetic.
package bjj

import (
	"encoding/json"
	"fmt"
	"math/big"

	babyjubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	curve "github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

const CurveType = "bjj_gnark"

// PointSize is the size in bytes of the canonical (compressed) encoding.
const PointSize = 32

var params babyjubjub.CurveParams

func init() {
	params = babyjubjub.GetEdwardsCurve()
}

// BJJ is the affine representation of a BabyJubJub group element.
type BJJ struct {
	inner *babyjubjub.PointAffine
}

// New creates a new BJJ point set to the identity element.
func New() curve.Point {
	p := &BJJ{inner: new(babyjubjub.PointAffine)}
	p.SetZero()
	return p
}

// New creates a new BJJ point set to the identity element.
func (g *BJJ) New() curve.Point {
	return New()
}

// Order returns the order of the BabyJubJub subgroup.
func (g *BJJ) Order() *big.Int {
	return new(big.Int).Set(&params.Order)
}

// Add sets g to a+b. The twisted Edwards addition formulas are complete, so
// the identity element needs no special casing.
func (g *BJJ) Add(a, b curve.Point) {
	g.inner.Add(a.(*BJJ).inner, b.(*BJJ).inner)
}

// ScalarMult sets g to scalar*a.
func (g *BJJ) ScalarMult(a curve.Point, scalar *big.Int) {
	g.inner.ScalarMultiplication(a.(*BJJ).inner, scalar)
}

// ScalarBaseMult sets g to scalar*G.
func (g *BJJ) ScalarBaseMult(scalar *big.Int) {
	g.SetGenerator()
	g.ScalarMult(g, scalar)
}

// Neg sets g to -a.
func (g *BJJ) Neg(a curve.Point) {
	g.inner.Neg(a.(*BJJ).inner)
}

// Equal reports whether g and a represent the same point.
func (g *BJJ) Equal(a curve.Point) bool {
	return g.inner.Equal(a.(*BJJ).inner)
}

// Set sets g to the value of a.
func (g *BJJ) Set(a curve.Point) {
	g.inner.Set(a.(*BJJ).inner)
}

// SetZero sets g to the identity element (0, 1).
func (g *BJJ) SetZero() {
	g.inner.X.SetZero()
	g.inner.Y.SetOne()
}

// SetGenerator sets g to the subgroup generator.
func (g *BJJ) SetGenerator() {
	g.inner.Set(&params.Base)
}

// SetPoint sets g from affine coordinates and returns it.
func (g *BJJ) SetPoint(x, y *big.Int) curve.Point {
	p := &BJJ{inner: new(babyjubjub.PointAffine)}
	p.inner.X.SetBigInt(x)
	p.inner.Y.SetBigInt(y)
	return p
}

// Point returns the affine coordinates of g.
func (g *BJJ) Point() (*big.Int, *big.Int) {
	x, y := new(big.Int), new(big.Int)
	g.inner.X.BigInt(x)
	g.inner.Y.BigInt(y)
	return x, y
}

// Marshal returns the canonical 32 byte compressed encoding of g.
func (g *BJJ) Marshal() []byte {
	return g.inner.Marshal()
}

// Unmarshal decodes g from its compressed encoding. It returns an error if
// the encoding does not represent a point on the curve.
func (g *BJJ) Unmarshal(buf []byte) error {
	if g.inner == nil {
		g.inner = new(babyjubjub.PointAffine)
	}
	if err := g.inner.Unmarshal(buf); err != nil {
		return err
	}
	if !g.inner.IsOnCurve() {
		return fmt.Errorf("point is not on the curve")
	}
	return nil
}

// MarshalJSON serializes g as a [x, y] coordinate pair.
func (g *BJJ) MarshalJSON() ([]byte, error) {
	x, y := g.Point()
	return json.Marshal([]*types.BigInt{(*types.BigInt)(x), (*types.BigInt)(y)})
}

// UnmarshalJSON deserializes g from a [x, y] coordinate pair.
func (g *BJJ) UnmarshalJSON(buf []byte) error {
	var coords []*types.BigInt
	if err := json.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	if g.inner == nil {
		g.inner = new(babyjubjub.PointAffine)
	}
	g.inner.X.SetBigInt(coords[0].MathBigInt())
	g.inner.Y.SetBigInt(coords[1].MathBigInt())
	return nil
}

// String returns a human readable "x,y" representation of g.
func (g *BJJ) String() string {
	x, y := g.Point()
	return fmt.Sprintf("%s,%s", x.String(), y.String())
}

// Type returns the curve backend type identifier.
func (g *BJJ) Type() string {
	return CurveType
}
