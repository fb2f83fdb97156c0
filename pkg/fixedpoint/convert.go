package fixedpoint

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Kind 为 Convert 支持查询的目标类型。
type Kind int

const (
	KindBool Kind = iota
	KindChar
	KindByte
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindDateTime
)

var kindNames = map[Kind]string{
	KindBool:     "bool",
	KindChar:     "char",
	KindByte:     "byte",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindDecimal:  "decimal",
	KindString:   "string",
	KindDateTime: "datetime",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// FromDecimal 把十进制数按 precision 位小数截断（向零）后编码。
func FromDecimal(value decimal.Decimal, precision uint8) (Word, error) {
	if precision > MaxExponent {
		return 0, merr.WrapErrOutOfRange("precision", 0, MaxExponent, int(precision))
	}
	scaled := value.Shift(int32(precision)).Truncate(0)
	if scaled.Abs().Cmp(decimal.NewFromInt(mantissaLimit)) >= 0 {
		return 0, merr.WrapErrOutOfRange("mantissa", decimal.NewFromInt(minMantissa), decimal.NewFromInt(maxMagnitude), scaled)
	}
	return New(precision, scaled.IntPart())
}

// FromFloat64 把浮点数按 precision 位小数截断（向零）后编码。
//
// 放大后的值无法放入 int64（含 NaN 与无穷）时返回 ErrOverflow，
// 能放入 int64 但超出尾数宽度时返回 ErrOutOfRange。
func FromFloat64(value float64, precision uint8) (Word, error) {
	if precision > MaxExponent {
		return 0, merr.WrapErrOutOfRange("precision", 0, MaxExponent, int(precision))
	}
	scaled := value * floatScales[precision]
	if math.IsNaN(scaled) || scaled >= float64Int64Up || scaled < -float64Int64Up {
		return 0, merr.WrapErrOverflow("float64 to int64", "scaled value does not fit in 64 bits")
	}
	return New(precision, int64(scaled))
}

// Decimal 返回精确的十进制值。
func (w Word) Decimal() decimal.Decimal {
	return decimal.NewFromInt(w.Mantissa()).Mul(decimalFractions[w.Exponent()])
}

// Float64 返回浮点近似值。
func (w Word) Float64() float64 {
	return float64(w.Mantissa()) * doubleFractions[w.Exponent()]
}

// Convert 把定点数转换为 kind 对应的类型。
//
// 只支持 float32、float64、decimal 与 string，其余类型返回 ErrInvalidConversion。
func (w Word) Convert(kind Kind) (any, error) {
	switch kind {
	case KindFloat32:
		return float32(w.Float64()), nil
	case KindFloat64:
		return w.Float64(), nil
	case KindDecimal:
		return w.Decimal(), nil
	case KindString:
		return w.String(), nil
	default:
		return nil, merr.WrapErrInvalidConversion("fixedpoint", kind)
	}
}
