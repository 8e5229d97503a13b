package curves

import (
	"math/big"

	"github.com/smallyu/go-ecdsa/internal/crypto/field"
)

// Curve defines the group operations the signature protocol needs.
type Curve interface {
	// Modulus returns the prime p of the underlying field.
	Modulus() *big.Int

	// IsOnCurve reports whether P satisfies the curve equation.
	IsOnCurve(P Point) bool

	// Add returns P + Q.
	Add(P, Q Point) Point

	// Double returns 2P.
	Double(P Point) Point

	// Neg returns -P.
	Neg(P Point) Point

	// ScalarMult returns k * P. k may be negative or zero.
	ScalarMult(k *big.Int, P Point) Point
}

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Weierstrass is the short-Weierstrass curve y² = x³ + a·x + b over Z_p.
//
// Arithmetic is affine and variable time: the sequence of operations in
// ScalarMult depends on the bits of the scalar.
type Weierstrass struct {
	p, a, b *big.Int
}

// NewSecp256k1Shape returns the curve y² = x³ + 7 over Z_p, the secp256k1
// equation with an arbitrary field modulus. p is assumed prime.
func NewSecp256k1Shape(p *big.Int) *Weierstrass {
	return &Weierstrass{
		p: new(big.Int).Set(p),
		a: big.NewInt(0),
		b: big.NewInt(7),
	}
}

func (c *Weierstrass) Modulus() *big.Int {
	return new(big.Int).Set(c.p)
}

// A returns the linear coefficient of the curve equation.
func (c *Weierstrass) A() *big.Int {
	return new(big.Int).Set(c.a)
}

// B returns the constant term of the curve equation.
func (c *Weierstrass) B() *big.Int {
	return new(big.Int).Set(c.b)
}

// IsOnCurve reports whether P lies on the curve. The point at infinity is
// on every curve.
func (c *Weierstrass) IsOnCurve(P Point) bool {
	if P.IsInfinity() {
		return true
	}
	x, y := P.x, P.y
	if x.Sign() < 0 || x.Cmp(c.p) >= 0 || y.Sign() < 0 || y.Cmp(c.p) >= 0 {
		return false
	}

	lhs := field.Mul(y, y, c.p)
	rhs := field.Mul(field.Mul(x, x, c.p), x, c.p)
	rhs = field.Add(rhs, field.Mul(c.a, x, c.p), c.p)
	rhs = field.Add(rhs, c.b, c.p)
	return lhs.Cmp(rhs) == 0
}

// Add returns P + Q.
func (c *Weierstrass) Add(P, Q Point) Point {
	if P.IsInfinity() {
		return Q
	}
	if Q.IsInfinity() {
		return P
	}

	x1, y1 := P.x, P.y
	x2, y2 := Q.x, Q.y

	if x1.Cmp(x2) == 0 {
		if y1.Cmp(field.Neg(y2, c.p)) == 0 {
			return Infinity()
		}
		if y1.Cmp(y2) == 0 {
			return c.Double(P)
		}
	}

	// m = (y2 - y1) / (x2 - x1)
	m := field.Div(field.Sub(y2, y1, c.p), field.Sub(x2, x1, c.p), c.p)

	return c.chord(m, x1, y1, x2)
}

// Double returns 2P.
func (c *Weierstrass) Double(P Point) Point {
	if P.IsInfinity() {
		return Infinity()
	}

	x, y := P.x, P.y
	// Vertical tangent: P is its own inverse.
	if field.Reduce(y, c.p).Sign() == 0 {
		return Infinity()
	}

	// m = (3x² + a) / 2y
	num := field.Add(field.Mul(three, field.Mul(x, x, c.p), c.p), c.a, c.p)
	den := field.Mul(two, y, c.p)
	m := field.Div(num, den, c.p)

	return c.chord(m, x, y, x)
}

// chord completes an addition given the slope m through (x1, y1) and a
// second point with abscissa x2.
func (c *Weierstrass) chord(m, x1, y1, x2 *big.Int) Point {
	// x3 = m² - x1 - x2
	x3 := field.Sub(field.Sub(field.Mul(m, m, c.p), x1, c.p), x2, c.p)
	// y3 = m(x1 - x3) - y1
	y3 := field.Sub(field.Mul(m, field.Sub(x1, x3, c.p), c.p), y1, c.p)

	return Point{x: x3, y: y3, affine: true}
}

// Neg returns -P = (x, -y).
func (c *Weierstrass) Neg(P Point) Point {
	if P.IsInfinity() {
		return Infinity()
	}
	return Point{x: new(big.Int).Set(P.x), y: field.Neg(P.y, c.p), affine: true}
}

// ScalarMult returns k * P by double-and-add over the bits of |k|, least
// significant first. Negative k multiplies -P by |k|.
func (c *Weierstrass) ScalarMult(k *big.Int, P Point) Point {
	if k.Sign() == 0 || P.IsInfinity() {
		return Infinity()
	}

	addend := P
	if k.Sign() < 0 {
		addend = c.Neg(P)
	}
	n := new(big.Int).Abs(k)

	result := Infinity()
	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			result = c.Add(result, addend)
		}
		addend = c.Double(addend)
	}
	return result
}
