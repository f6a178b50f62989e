// Package bjj provides the BabyJubJub curve backend implemented on top of
// the iden3 babyjub arithmetic.
package bjj

import (
	"encoding/json"
	"fmt"
	"math/big"

	babyjubjub "github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/constants"

	curve "github.com/craig6250-nelsony/MTG-FHE-Sideboard/crypto/ecc"
	"github.com/craig6250-nelsony/MTG-FHE-Sideboard/types"
)

const CurveType = "bjj_iden3"

// BJJ is the affine representation of a BabyJubJub group element.
type BJJ struct {
	inner *babyjubjub.Point
}

// New creates a new BJJ point set to the identity element.
func New() curve.Point {
	return &BJJ{inner: babyjubjub.NewPoint()}
}

// New creates a new BJJ point set to the identity element.
func (g *BJJ) New() curve.Point {
	return New()
}

// Order returns the order of the BabyJubJub subgroup.
func (g *BJJ) Order() *big.Int {
	return new(big.Int).Set(babyjubjub.SubOrder)
}

// Add sets g to a+b.
func (g *BJJ) Add(a, b curve.Point) {
	g.inner = g.inner.Projective().Add(a.(*BJJ).inner.Projective(), b.(*BJJ).inner.Projective()).Affine()
}

// ScalarMult sets g to scalar*a.
func (g *BJJ) ScalarMult(a curve.Point, scalar *big.Int) {
	g.inner = g.inner.Mul(scalar, a.(*BJJ).inner)
}

// ScalarBaseMult sets g to scalar*G.
func (g *BJJ) ScalarBaseMult(scalar *big.Int) {
	g.inner = g.inner.Mul(scalar, babyjubjub.B8)
}

// Neg sets g to -a, negating the x coordinate over the base field.
func (g *BJJ) Neg(a curve.Point) {
	x := new(big.Int).Neg(a.(*BJJ).inner.X)
	g.inner.X = x.Mod(x, constants.Q)
	g.inner.Y = new(big.Int).Set(a.(*BJJ).inner.Y)
}

// Equal reports whether g and a represent the same point.
func (g *BJJ) Equal(a curve.Point) bool {
	return g.inner.X.Cmp(a.(*BJJ).inner.X) == 0 && g.inner.Y.Cmp(a.(*BJJ).inner.Y) == 0
}

// Set sets g to the value of a.
func (g *BJJ) Set(a curve.Point) {
	g.inner.X = new(big.Int).Set(a.(*BJJ).inner.X)
	g.inner.Y = new(big.Int).Set(a.(*BJJ).inner.Y)
}

// SetZero sets g to the identity element (0, 1).
func (g *BJJ) SetZero() {
	g.inner.X = big.NewInt(0)
	g.inner.Y = big.NewInt(1)
}

// SetGenerator sets g to the subgroup generator.
func (g *BJJ) SetGenerator() {
	g.Set(&BJJ{inner: babyjubjub.B8})
}

// SetPoint sets g from affine coordinates and returns it.
func (g *BJJ) SetPoint(x, y *big.Int) curve.Point {
	p := &BJJ{inner: babyjubjub.NewPoint()}
	p.inner.X = new(big.Int).Set(x)
	p.inner.Y = new(big.Int).Set(y)
	return p
}

// Point returns the affine coordinates of g.
func (g *BJJ) Point() (*big.Int, *big.Int) {
	return new(big.Int).Set(g.inner.X), new(big.Int).Set(g.inner.Y)
}

// Marshal returns the canonical 32 byte compressed encoding of g.
func (g *BJJ) Marshal() []byte {
	b := g.inner.Compress()
	return b[:]
}

// Unmarshal decodes g from its compressed encoding. It returns an error if
// the encoding does not represent a point on the curve.
func (g *BJJ) Unmarshal(buf []byte) error {
	if len(buf) != 32 {
		return fmt.Errorf("invalid point encoding length: %d", len(buf))
	}
	if g.inner == nil {
		g.inner = babyjubjub.NewPoint()
	}
	b32 := [32]byte{}
	copy(b32[:], buf)
	_, err := g.inner.Decompress(b32)
	return err
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
		g.inner = babyjubjub.NewPoint()
	}
	g.inner.X = coords[0].MathBigInt()
	g.inner.Y = coords[1].MathBigInt()
	return nil
}

// String returns a human readable "x,y" representation of g.
func (g *BJJ) String() string {
	return fmt.Sprintf("%s,%s", g.inner.X.String(), g.inner.Y.String())
}

// Type returns the curve backend type identifier.
func (g *BJJ) Type() string {
	return CurveType
}
