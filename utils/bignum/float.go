package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valid types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valid types are int, int64, uint, uint64, float64, *big.Int or *big.Float but is %T", x))
	}

	return
}

// PrecFromDigits returns the number of bits needed to represent
// the given number of decimal digits.
func PrecFromDigits(digits int) uint {
	return uint(math.Ceil(float64(digits) * math.Log2(10)))
}

// Log return ln(x) with x.Prec() bits.
func Log(x *big.Float) (ln *big.Float) {
	return bigfloat.Log(x)
}

// Log2 returns log2(x) with x.Prec() bits.
// x must be strictly positive.
func Log2(x *big.Float) (log2 *big.Float) {
	if x.Sign() <= 0 {
		panic(fmt.Errorf("cannot Log2: x=%s must be strictly positive", x.Text('g', 10)))
	}
	log2 = Log(x)
	return log2.Quo(log2, Log(NewFloat(2, x.Prec())))
}

// Quo returns a/b as a big.Float with prec bits of precision.
func Quo(a, b *big.Int, prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).Quo(NewFloat(a, prec), NewFloat(b, prec))
}
