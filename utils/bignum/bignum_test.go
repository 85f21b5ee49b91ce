package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBignum(t *testing.T) {

	t.Run("Binomial", func(t *testing.T) {
		require.Equal(t, int64(6), Binomial(4, 2).Int64())
		require.Equal(t, int64(1), Binomial(4, 0).Int64())
		require.Equal(t, int64(0), Binomial(4, 5).Int64())
		require.Equal(t, int64(0), Binomial(4, -1).Int64())
	})

	t.Run("NewInt", func(t *testing.T) {
		require.Equal(t, int64(-7), NewInt(-7).Int64())
		require.Equal(t, int64(7), NewInt(uint64(7)).Int64())
		require.Equal(t, int64(255), NewInt("0xff").Int64())
		require.Equal(t, int64(3), NewInt(big.NewFloat(3.5)).Int64())
		require.Panics(t, func() { NewInt(1.5) })
	})

	t.Run("CeilLog2", func(t *testing.T) {
		require.Equal(t, 0, CeilLog2(1))
		require.Equal(t, 1, CeilLog2(2))
		require.Equal(t, 2, CeilLog2(3))
		require.Equal(t, 12, CeilLog2(3329))
		require.Equal(t, 13, CeilLog2(uint64(8192)))
		require.Panics(t, func() { CeilLog2(0) })
	})

	t.Run("Pow2", func(t *testing.T) {
		require.Equal(t, 4096, Pow2(12))
		require.Panics(t, func() { Pow2(63) })
	})

	t.Run("Log2", func(t *testing.T) {
		prec := PrecFromDigits(50)
		require.Equal(t, uint(167), prec)

		// 2^-1000 is far below the float64 range
		x := new(big.Float).SetPrec(prec).SetMantExp(NewFloat(1, prec), -1000)
		l, _ := Log2(x).Float64()
		require.InDelta(t, -1000, l, 1e-30)

		l, _ = Log2(NewFloat(3, prec)).Float64()
		require.InDelta(t, math.Log2(3), l, 1e-15)

		require.Panics(t, func() { Log2(NewFloat(0, prec)) })
	})

	t.Run("Log", func(t *testing.T) {
		prec := PrecFromDigits(50)
		l, _ := Log(NewFloat(math.E, prec)).Float64()
		require.InDelta(t, 1, l, 1e-15)
		l, _ = Log(NewFloat(1, prec)).Float64()
		require.Equal(t, 0.0, l)
	})

	t.Run("Quo", func(t *testing.T) {
		f, _ := Quo(big.NewInt(1), big.NewInt(3), 128).Float64()
		require.InDelta(t, 1.0/3, f, 1e-16)
	})

	t.Run("Polynomial", func(t *testing.T) {
		// (1 + X + X^2)^2 = 1 + 2X + 3X^2 + 2X^3 + X^4
		p := NewPolynomial(1, 1, 1).Pow(2)
		want := []int64{1, 2, 3, 2, 1}
		require.Equal(t, 4, p.Degree())
		for i := range want {
			require.Equal(t, want[i], p.Coeffs[i].Int64())
		}

		// (1+X)^10 sums to 2^10
		require.Equal(t, int64(1024), NewPolynomial(1, 1).Pow(10).Sum().Int64())
		require.Equal(t, 0, NewPolynomial(1, 1).Pow(0).Degree())
	})
}
