package fixedpoint

import (
	"github.com/shopspring/decimal"
)

// MaxExponent 为指数允许的最大值。
const MaxExponent = 15

// powers10[i] = 10^i，i 覆盖 0..18，放大尾数时按指数差查表。
var powers10 = [...]int64{
	1,
	10,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
	100_000_000_000,
	1_000_000_000_000,
	10_000_000_000_000,
	100_000_000_000_000,
	1_000_000_000_000_000,
	10_000_000_000_000_000,
	100_000_000_000_000_000,
	1_000_000_000_000_000_000,
}

// floatScales[i] = 10^i，用于浮点数按精度放大。
var floatScales = [MaxExponent + 1]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7,
	1e8, 1e9, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15,
}

// doubleFractions[i] = 10^-i。
var doubleFractions = [MaxExponent + 1]float64{
	1e-0, 1e-1, 1e-2, 1e-3, 1e-4, 1e-5, 1e-6, 1e-7,
	1e-8, 1e-9, 1e-10, 1e-11, 1e-12, 1e-13, 1e-14, 1e-15,
}

// decimalFractions[i] = 10^-i，精确的十进制分数。
var decimalFractions [MaxExponent + 1]decimal.Decimal

func init() {
	for i := range decimalFractions {
		decimalFractions[i] = decimal.New(1, -int32(i))
	}
}
