package curves

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Reference implements Curve for secp256k1 on top of the decred
// implementation. It exists to cross-check Weierstrass on the real curve.
type Reference struct{}

// NewReference returns the decred-backed secp256k1 curve.
func NewReference() *Reference {
	return &Reference{}
}

func (c *Reference) Modulus() *big.Int {
	return new(big.Int).Set(secp256k1.S256().Params().P)
}

// Order returns the order of the secp256k1 base point.
func (c *Reference) Order() *big.Int {
	return new(big.Int).Set(secp256k1.S256().Params().N)
}

// BasePoint returns the secp256k1 generator.
func (c *Reference) BasePoint() Point {
	params := secp256k1.S256().Params()
	return NewPoint(params.Gx, params.Gy)
}

func (c *Reference) IsOnCurve(P Point) bool {
	if P.IsInfinity() {
		return true
	}
	return secp256k1.S256().IsOnCurve(P.x, P.y)
}

func (c *Reference) Add(P, Q Point) Point {
	x1, y1 := toAffine(P)
	x2, y2 := toAffine(Q)
	return fromAffine(secp256k1.S256().Add(x1, y1, x2, y2))
}

func (c *Reference) Double(P Point) Point {
	if P.IsInfinity() {
		return Infinity()
	}
	return fromAffine(secp256k1.S256().Double(P.x, P.y))
}

func (c *Reference) Neg(P Point) Point {
	if P.IsInfinity() {
		return Infinity()
	}
	y := new(big.Int).Sub(secp256k1.S256().Params().P, P.y)
	y.Mod(y, secp256k1.S256().Params().P)
	return Point{x: new(big.Int).Set(P.x), y: y, affine: true}
}

// ScalarMult reduces k modulo the group order, which is exact because
// secp256k1 has cofactor 1.
func (c *Reference) ScalarMult(k *big.Int, P Point) Point {
	if P.IsInfinity() {
		return Infinity()
	}
	n := new(big.Int).Mod(k, secp256k1.S256().Params().N)
	if n.Sign() == 0 {
		return Infinity()
	}
	return fromAffine(secp256k1.S256().ScalarMult(P.x, P.y, n.Bytes()))
}

// toAffine maps infinity to the (0, 0) convention of crypto/elliptic.
func toAffine(P Point) (*big.Int, *big.Int) {
	if P.IsInfinity() {
		return new(big.Int), new(big.Int)
	}
	return P.x, P.y
}

func fromAffine(x, y *big.Int) Point {
	if x.Sign() == 0 && y.Sign() == 0 {
		return Infinity()
	}
	return NewPoint(x, y)
}
