// Package field implements arithmetic in the prime field Z_p.
//
// Every function takes the modulus explicitly and returns a freshly
// allocated result normalized into [0, p). Inputs are never modified.
package field

import (
	"math/big"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// Reduce returns a mod p in the range [0, p).
func Reduce(a, p *big.Int) *big.Int {
	// big.Int.Mod is Euclidean, so negative inputs land in [0, p) as well.
	return new(big.Int).Mod(a, p)
}

// Add returns (a + b) mod p.
func Add(a, b, p *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, p)
}

// Sub returns (a - b) mod p, normalized into [0, p).
func Sub(a, b, p *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, p)
}

// Neg returns -a mod p.
func Neg(a, p *big.Int) *big.Int {
	return Sub(zero, a, p)
}

// Mul returns (a * b) mod p.
func Mul(a, b, p *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, p)
}

// Pow returns base^exp mod p using square-and-multiply.
// exp must be non-negative.
func Pow(base, exp, p *big.Int) *big.Int {
	if exp.Sign() < 0 {
		panic("field: negative exponent")
	}

	result := Reduce(one, p)
	b := Reduce(base, p)
	e := new(big.Int).Set(exp)

	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			result = Mul(result, b, p)
		}
		e.Rsh(e, 1)
		b = Mul(b, b, p)
	}
	return result
}

// Inverse returns the x in [1, p-1] with a*x ≡ 1 (mod p).
//
// When no inverse exists (gcd(a, p) != 1, which includes a ≡ 0) it returns
// 0. Zero is never a valid inverse, so callers must treat a zero result as
// failure.
func Inverse(a, p *big.Int) *big.Int {
	r1 := Reduce(a, p)
	if r1.Sign() == 0 {
		return new(big.Int)
	}

	// Iterative extended Euclid on (a mod p, p), tracking only the
	// coefficient of a.
	r0 := new(big.Int).Set(p)
	s0, s1 := big.NewInt(0), big.NewInt(1)
	q, tmp := new(big.Int), new(big.Int)

	for r1.Sign() != 0 {
		q.Quo(r0, r1)

		tmp.Mul(q, r1)
		r0.Sub(r0, tmp)
		r0, r1 = r1, r0

		tmp.Mul(q, s1)
		s0.Sub(s0, tmp)
		s0, s1 = s1, s0
	}

	if r0.Cmp(one) != 0 {
		return new(big.Int)
	}
	return Reduce(s0, p)
}

// Div returns a * b^-1 mod p. If b has no inverse the result is 0.
func Div(a, b, p *big.Int) *big.Int {
	return Mul(a, Inverse(b, p), p)
}
