package curves

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y int64) Point {
	return NewPoint(big.NewInt(x), big.NewInt(y))
}

// allPoints enumerates every affine point of c by brute force.
func allPoints(c *Weierstrass) []Point {
	var pts []Point
	p := c.p.Int64()
	for x := int64(0); x < p; x++ {
		for y := int64(0); y < p; y++ {
			P := pt(x, y)
			if c.IsOnCurve(P) {
				pts = append(pts, P)
			}
		}
	}
	return pts
}

func TestToyCurve23(t *testing.T) {
	c := NewSecp256k1Shape(big.NewInt(23))
	P := pt(1, 10)

	require.True(t, c.IsOnCurve(P))

	doubled := c.Double(P)
	assert.True(t, doubled.Equal(pt(22, 11)), "2P = %s", doubled)
	assert.True(t, c.IsOnCurve(doubled))

	sum := c.Add(pt(22, 11), P)
	assert.True(t, sum.Equal(pt(6, 4)), "2P + P = %s", sum)
	assert.True(t, c.IsOnCurve(sum))

	assert.True(t, c.ScalarMult(big.NewInt(3), P).Equal(sum))
	assert.True(t, c.Add(P, P).Equal(doubled))
}

func TestIsOnCurve(t *testing.T) {
	c := NewSecp256k1Shape(big.NewInt(23))

	assert.True(t, c.IsOnCurve(Infinity()))
	assert.False(t, c.IsOnCurve(pt(1, 11)))
	assert.False(t, c.IsOnCurve(pt(1, 33)), "unreduced coordinates are rejected")
	assert.Len(t, allPoints(c), 23)
}

func TestIdentityCases(t *testing.T) {
	c := NewSecp256k1Shape(big.NewInt(23))
	P := pt(1, 10)

	t.Run("infinity is neutral", func(t *testing.T) {
		assert.True(t, c.Add(Infinity(), P).Equal(P))
		assert.True(t, c.Add(P, Infinity()).Equal(P))
		assert.True(t, c.Add(Infinity(), Infinity()).IsInfinity())
	})

	t.Run("inverse points sum to infinity", func(t *testing.T) {
		assert.True(t, c.Add(P, c.Neg(P)).IsInfinity())
		assert.True(t, c.Add(pt(1, 10), pt(1, 13)).IsInfinity())
	})

	t.Run("doubling", func(t *testing.T) {
		assert.True(t, c.Double(Infinity()).IsInfinity())
		// (9, 0) has order two: vertical tangent.
		assert.True(t, c.Double(pt(9, 0)).IsInfinity())
		assert.True(t, c.Add(pt(9, 0), pt(9, 0)).IsInfinity())
	})

	t.Run("scalar zero and infinity", func(t *testing.T) {
		assert.True(t, c.ScalarMult(big.NewInt(0), P).IsInfinity())
		assert.True(t, c.ScalarMult(big.NewInt(5), Infinity()).IsInfinity())
		assert.True(t, c.ScalarMult(big.NewInt(1), P).Equal(P))
		// (1, 10) generates the whole group of order 24.
		assert.True(t, c.ScalarMult(big.NewInt(24), P).IsInfinity())
		assert.True(t, c.ScalarMult(big.NewInt(25), P).Equal(P))
	})

	t.Run("negative scalar", func(t *testing.T) {
		for k := int64(1); k < 30; k++ {
			neg := c.ScalarMult(big.NewInt(-k), P)
			pos := c.ScalarMult(big.NewInt(k), P)
			require.True(t, neg.Equal(c.Neg(pos)), "k=%d", k)
		}
	})
}

func TestGroupLaws(t *testing.T) {
	for _, p := range []int64{23, 67, 79} {
		c := NewSecp256k1Shape(big.NewInt(p))
		pts := append(allPoints(c), Infinity())

		t.Run("commutative", func(t *testing.T) {
			for _, P := range pts {
				for _, Q := range pts {
					require.True(t, c.Add(P, Q).Equal(c.Add(Q, P)), "p=%d P=%s Q=%s", p, P, Q)
				}
			}
		})

		t.Run("closed", func(t *testing.T) {
			for _, P := range pts {
				for _, Q := range pts {
					require.True(t, c.IsOnCurve(c.Add(P, Q)), "p=%d P=%s Q=%s", p, P, Q)
				}
			}
		})

		t.Run("associative", func(t *testing.T) {
			// A stride keeps the triple loop small on the larger curves.
			for i := 0; i < len(pts); i += 3 {
				for j := 1; j < len(pts); j += 5 {
					for k := 2; k < len(pts); k += 7 {
						P, Q, R := pts[i], pts[j], pts[k]
						lhs := c.Add(c.Add(P, Q), R)
						rhs := c.Add(P, c.Add(Q, R))
						require.True(t, lhs.Equal(rhs), "p=%d P=%s Q=%s R=%s", p, P, Q, R)
					}
				}
			}
		})
	}
}

func TestScalarMultOnCurve(t *testing.T) {
	c := NewSecp256k1Shape(big.NewInt(67))
	G := pt(2, 22)

	acc := Infinity()
	for k := int64(0); k <= 80; k++ {
		got := c.ScalarMult(big.NewInt(k), G)
		require.True(t, c.IsOnCurve(got), "k=%d", k)
		require.True(t, got.Equal(acc), "k=%d: double-and-add %s, repeated addition %s", k, got, acc)
		acc = c.Add(acc, G)
	}

	// G has prime order 79 on this curve.
	assert.True(t, c.ScalarMult(big.NewInt(79), G).IsInfinity())
}

func TestMatchesReferenceSecp256k1(t *testing.T) {
	ref := NewReference()
	c := NewSecp256k1Shape(ref.Modulus())
	G := ref.BasePoint()

	require.True(t, c.IsOnCurve(G))
	assert.True(t, c.Double(G).Equal(ref.Double(G)))

	for i := 0; i < 8; i++ {
		k, err := rand.Int(rand.Reader, ref.Order())
		require.NoError(t, err)

		P := c.ScalarMult(k, G)
		require.True(t, P.Equal(ref.ScalarMult(k, G)), "k=%x", k)
		require.True(t, c.IsOnCurve(P))
		require.True(t, ref.IsOnCurve(P))

		Q := c.Add(P, G)
		assert.True(t, Q.Equal(ref.Add(P, G)))
		assert.True(t, c.Neg(P).Equal(ref.Neg(P)))
	}

	assert.True(t, c.ScalarMult(ref.Order(), G).IsInfinity())
	assert.True(t, ref.ScalarMult(ref.Order(), G).IsInfinity())
}

func TestPointValue(t *testing.T) {
	x, y := big.NewInt(1), big.NewInt(10)
	P := NewPoint(x, y)
	x.SetInt64(99)

	px, py, ok := P.Coords()
	require.True(t, ok)
	assert.Equal(t, big.NewInt(1), px, "NewPoint copies its inputs")
	px.SetInt64(42)

	px2, _, _ := P.Coords()
	assert.Equal(t, big.NewInt(1), px2, "Coords returns copies")
	assert.Equal(t, big.NewInt(10), py)

	_, _, ok = Infinity().Coords()
	assert.False(t, ok)

	var zero Point
	assert.True(t, zero.IsInfinity())
	assert.Equal(t, "(infinity)", zero.String())
	assert.Equal(t, "(1, 10)", P.String())
}
