// Package bignum implements arbitrary precision arithmetic helpers
// around math/big for probabilities far below the float64 range.
package bignum

import (
	"fmt"
	"math/big"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// NewInt allocates a new *big.Int.
// Accepted types are: string, uint, uint64, int64, int, *big.Float or *big.Int.
func NewInt(x interface{}) (y *big.Int) {

	y = new(big.Int)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case string:
		y.SetString(x, 0)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case int64:
		y.SetInt64(x)
	case int:
		y.SetInt64(int64(x))
	case *big.Float:
		x.Int(y)
	case *big.Int:
		y.Set(x)
	default:
		panic(fmt.Sprintf("cannot NewInt: accepted types are string, uint, uint64, int, int64, *big.Float, *big.Int, but is %T", x))
	}

	return
}

// Binomial returns the binomial coefficient C(n, k), or 0 if k is outside [0, n].
func Binomial(n, k int) *big.Int {
	if k < 0 || n < 0 || k > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// CeilLog2 returns ceil(log2(x)) for x >= 1.
func CeilLog2[T constraints.Integer](x T) int {
	if x < 1 {
		panic(fmt.Errorf("cannot CeilLog2: x=%d must be at least 1", x))
	}
	return bits.Len64(uint64(x) - 1)
}

// Pow2 returns 2^e as an int, e must be smaller than 63.
func Pow2[T constraints.Integer](e T) int {
	if e < 0 || e > 62 {
		panic(fmt.Errorf("cannot Pow2: exponent %d is outside [0, 62]", e))
	}
	return 1 << uint(e)
}
