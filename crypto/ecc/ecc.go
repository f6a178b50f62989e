// Package ecc abstracts the elliptic curve group arithmetic used by the
// encrypted tally capability. Implementations of the Point interface live in
// the subpackages, one per curve backend. All of them operate on the
// BabyJubJub twisted Edwards curve, whose base field is the scalar field of
// BN254.
package ecc

import "math/big"

// Point defines the interface for elliptic curve points, compatible with
// the different curve backend implementations.
type Point interface {
	// New returns a new point of the same backend, set to the identity.
	New() Point
	// Order returns the order of the curve subgroup.
	Order() *big.Int
	// Add sets the receiver to a+b.
	Add(a, b Point)
	// ScalarMult sets the receiver to scalar*a.
	ScalarMult(a Point, scalar *big.Int)
	// ScalarBaseMult sets the receiver to scalar*G, where G is the subgroup
	// generator.
	ScalarBaseMult(scalar *big.Int)
	// Neg sets the receiver to -a.
	Neg(a Point)
	// Equal reports whether the receiver and a represent the same point.
	Equal(a Point) bool
	// Set sets the receiver to the value of a.
	Set(a Point)
	// SetZero sets the receiver to the identity element.
	SetZero()
	// SetGenerator sets the receiver to the subgroup generator.
	SetGenerator()
	// SetPoint sets the receiver from affine coordinates and returns it.
	SetPoint(x, y *big.Int) Point
	// Point returns the affine coordinates of the point.
	Point() (x, y *big.Int)
	// Marshal returns a fixed-size canonical encoding of the point. Two
	// equal points always marshal to identical bytes.
	Marshal() []byte
	// Unmarshal decodes a point from its canonical encoding, rejecting
	// encodings that are not on the curve.
	Unmarshal(buf []byte) error
	// String returns a human readable "x,y" representation.
	String() string
	// Type returns the curve backend type identifier.
	Type() string
}
