package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicOps(t *testing.T) {
	p := big.NewInt(23)

	tests := []struct {
		name string
		fn   func(a, b, p *big.Int) *big.Int
		a, b int64
		want int64
	}{
		{"add", Add, 20, 5, 2},
		{"add zero", Add, 0, 0, 0},
		{"sub", Sub, 10, 3, 7},
		{"sub negative", Sub, 3, 10, 16},
		{"sub from zero", Sub, 0, 1, 22},
		{"mul", Mul, 7, 5, 12},
		{"mul negative operand", Mul, -2, 3, 17},
		{"div", Div, 1, 2, 12},
		{"div no inverse", Div, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(big.NewInt(tt.a), big.NewInt(tt.b), p)
			assert.Equal(t, big.NewInt(tt.want), got)
		})
	}
}

func TestInputsNotMutated(t *testing.T) {
	p := big.NewInt(23)
	a, b := big.NewInt(30), big.NewInt(-4)

	Add(a, b, p)
	Sub(a, b, p)
	Mul(a, b, p)
	Pow(a, big.NewInt(5), p)
	Inverse(a, p)

	assert.Equal(t, big.NewInt(30), a)
	assert.Equal(t, big.NewInt(-4), b)
	assert.Equal(t, big.NewInt(23), p)
}

func TestNeg(t *testing.T) {
	p := big.NewInt(23)
	assert.Equal(t, big.NewInt(13), Neg(big.NewInt(10), p))
	assert.Equal(t, big.NewInt(0), Neg(big.NewInt(0), p))
}

func TestPow(t *testing.T) {
	p := big.NewInt(23)

	t.Run("matches math/big", func(t *testing.T) {
		for base := int64(-5); base < 30; base++ {
			for exp := int64(0); exp < 50; exp++ {
				want := new(big.Int).Exp(big.NewInt(base), big.NewInt(exp), p)
				want.Mod(want, p)
				got := Pow(big.NewInt(base), big.NewInt(exp), p)
				require.Equal(t, want, got, "base=%d exp=%d", base, exp)
			}
		}
	})

	t.Run("zero exponent", func(t *testing.T) {
		assert.Equal(t, big.NewInt(1), Pow(big.NewInt(0), big.NewInt(0), p))
	})

	t.Run("fermat", func(t *testing.T) {
		// a^(p-1) ≡ 1 for a not divisible by p
		pm1 := new(big.Int).Sub(p, one)
		for a := int64(1); a < 23; a++ {
			assert.Equal(t, big.NewInt(1), Pow(big.NewInt(a), pm1, p))
		}
	})

	t.Run("negative exponent panics", func(t *testing.T) {
		assert.Panics(t, func() { Pow(big.NewInt(2), big.NewInt(-1), p) })
	})
}

func TestInverse(t *testing.T) {
	t.Run("every element of small primes", func(t *testing.T) {
		for _, prime := range []int64{2, 3, 5, 7, 23, 67, 79, 97} {
			p := big.NewInt(prime)
			for a := int64(1); a < prime; a++ {
				inv := Inverse(big.NewInt(a), p)
				require.True(t, inv.Sign() > 0 && inv.Cmp(p) < 0, "inverse of %d mod %d out of range", a, prime)
				require.Equal(t, big.NewInt(1), Mul(inv, big.NewInt(a), p), "a=%d p=%d", a, prime)
			}
		}
	})

	t.Run("reduces input first", func(t *testing.T) {
		p := big.NewInt(23)
		assert.Equal(t, Inverse(big.NewInt(5), p), Inverse(big.NewInt(28), p))
		assert.Equal(t, Inverse(big.NewInt(18), p), Inverse(big.NewInt(-5), p))
	})

	t.Run("zero has no inverse", func(t *testing.T) {
		assert.Equal(t, 0, Inverse(big.NewInt(0), big.NewInt(23)).Sign())
		assert.Equal(t, 0, Inverse(big.NewInt(46), big.NewInt(23)).Sign())
	})

	t.Run("non-coprime has no inverse", func(t *testing.T) {
		assert.Equal(t, 0, Inverse(big.NewInt(6), big.NewInt(9)).Sign())
		assert.Equal(t, 0, Inverse(big.NewInt(4), big.NewInt(8)).Sign())
	})

	t.Run("composite modulus coprime element", func(t *testing.T) {
		assert.Equal(t, big.NewInt(7), Inverse(big.NewInt(4), big.NewInt(9)))
	})

	t.Run("secp256k1 field", func(t *testing.T) {
		p, _ := new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)
		a, _ := new(big.Int).SetString("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798", 16)
		inv := Inverse(a, p)
		assert.Equal(t, new(big.Int).ModInverse(a, p), inv)
		assert.Equal(t, big.NewInt(1), Mul(a, inv, p))
	})
}

func FuzzInverse(f *testing.F) {
	f.Add(int64(1), int64(23))
	f.Add(int64(0), int64(23))
	f.Add(int64(-7), int64(97))
	f.Add(int64(12), int64(18))

	f.Fuzz(func(t *testing.T, a, m int64) {
		if m < 2 {
			return
		}
		p := big.NewInt(m)
		inv := Inverse(big.NewInt(a), p)

		want := new(big.Int).ModInverse(Reduce(big.NewInt(a), p), p)
		if want == nil || Reduce(big.NewInt(a), p).Sign() == 0 {
			if inv.Sign() != 0 {
				t.Fatalf("expected sentinel 0 for a=%d p=%d, got %s", a, m, inv)
			}
			return
		}
		if inv.Cmp(want) != 0 {
			t.Fatalf("Inverse(%d, %d) = %s, want %s", a, m, inv, want)
		}
	})
}
