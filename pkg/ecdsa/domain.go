package ecdsa

import (
	"math/big"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/smallyu/go-ecdsa/internal/crypto/curves"
)

// Point is a curve point: affine coordinates or the point at infinity.
type Point = curves.Point

// NewPoint returns the affine point (x, y).
func NewPoint(x, y *big.Int) Point {
	return curves.NewPoint(x, y)
}

// Infinity returns the point at infinity.
func Infinity() Point {
	return curves.Infinity()
}

// DomainParams fixes the group a Scheme works in: the field modulus P,
// the order N of the base point, and the base point G itself. The curve
// is always y² = x³ + 7 over Z_P.
//
// None of the values are checked for cryptographic soundness. P and N are
// assumed prime and G is assumed to have order N. Verification compares
// the x-coordinate of a point (an element of Z_P) against r (an element of
// Z_N) without reducing it mod N, which matches standard ECDSA only when
// every x-coordinate produced by signing is below N; this always holds
// when N > P and fails with negligible probability for curves such as
// secp256k1 where N is just below P.
type DomainParams struct {
	Name string
	P    *big.Int
	N    *big.Int
	G    Point
}

// NewDomain builds domain parameters from raw integers. The inputs are
// copied.
func NewDomain(p, n, gx, gy *big.Int) DomainParams {
	return DomainParams{
		P: new(big.Int).Set(p),
		N: new(big.Int).Set(n),
		G: curves.NewPoint(gx, gy),
	}
}

// Validate checks that the parameters are structurally usable. It does not
// test primality, that G is on the curve, or the order of G.
func (d DomainParams) Validate() error {
	if d.P == nil || d.N == nil {
		return errors.Wrap(ErrInvalidDomain, "missing modulus or order")
	}
	if d.P.Cmp(big.NewInt(2)) < 0 {
		return errors.Wrapf(ErrInvalidDomain, "field modulus %s < 2", d.P)
	}
	if d.N.Cmp(big.NewInt(2)) < 0 {
		return errors.Wrapf(ErrInvalidDomain, "group order %s < 2", d.N)
	}
	if d.G.IsInfinity() {
		return errors.Wrap(ErrInvalidDomain, "base point is the point at infinity")
	}
	return nil
}

func (d DomainParams) clone() DomainParams {
	return DomainParams{
		Name: d.Name,
		P:    new(big.Int).Set(d.P),
		N:    new(big.Int).Set(d.N),
		G:    d.G,
	}
}

// Secp256k1 returns the secp256k1 domain (SEC 2, section 2.4.1).
func Secp256k1() DomainParams {
	params := secp256k1.S256().Params()
	d := NewDomain(params.P, params.N, params.Gx, params.Gy)
	d.Name = "secp256k1"
	return d
}

// Toy67 is y² = x³ + 7 over Z_67, whose 79 points form a cyclic group of
// prime order. Every x-coordinate is below the group order.
func Toy67() DomainParams {
	d := NewDomain(big.NewInt(67), big.NewInt(79), big.NewInt(2), big.NewInt(22))
	d.Name = "toy67"
	return d
}

// Toy79 is y² = x³ + 7 over Z_79 with prime group order 67 < p, the same
// regime as secp256k1 but small enough for exhaustive tests.
func Toy79() DomainParams {
	d := NewDomain(big.NewInt(79), big.NewInt(67), big.NewInt(1), big.NewInt(18))
	d.Name = "toy79"
	return d
}

var presets = map[string]func() DomainParams{
	"secp256k1": Secp256k1,
	"toy67":     Toy67,
	"toy79":     Toy79,
}

// LookupDomain returns the preset domain with the given name.
func LookupDomain(name string) (DomainParams, error) {
	fn, ok := presets[name]
	if !ok {
		return DomainParams{}, errors.Wrapf(ErrUnknownDomain, "%q", name)
	}
	return fn(), nil
}

// DomainNames lists the preset domain names in sorted order.
func DomainNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
