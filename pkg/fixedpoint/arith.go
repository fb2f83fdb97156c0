package fixedpoint

import (
	"math"

	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// rescale 把 m 放大 10^delta 倍，溢出 int64 时 ok 为 false。
func rescale(m int64, delta uint8) (int64, bool) {
	if delta == 0 || m == 0 {
		return m, true
	}
	p := powers10[delta]
	if m > math.MaxInt64/p || m < math.MinInt64/p {
		return 0, false
	}
	return m * p, true
}

// align 把两个操作数的尾数对齐到较大的指数，只放大不缩小。
// 返回 overflow 时，ovSide 为 -1 表示 a 侧溢出，1 表示 b 侧溢出。
func align(a, b Word) (ma, mb int64, exp uint8, ovSide int) {
	ea, eb := a.Exponent(), b.Exponent()
	ma, mb = a.Mantissa(), b.Mantissa()
	var ok bool
	switch {
	case ea < eb:
		exp = eb
		if ma, ok = rescale(ma, eb-ea); !ok {
			return a.Mantissa(), mb, exp, -1
		}
	case eb < ea:
		exp = ea
		if mb, ok = rescale(mb, ea-eb); !ok {
			return ma, b.Mantissa(), exp, 1
		}
	default:
		exp = ea
	}
	return ma, mb, exp, 0
}

// Compare 比较 a 与 b，返回 -1、0 或 1。
func Compare(a, b Word) int {
	ma, mb, _, ov := align(a, b)
	switch ov {
	case -1:
		// 放大后的 a 绝对值超过 2^63，而 b 小于 2^55。
		if ma < 0 {
			return -1
		}
		return 1
	case 1:
		if mb < 0 {
			return 1
		}
		return -1
	}
	switch {
	case ma < mb:
		return -1
	case ma > mb:
		return 1
	}
	return 0
}

// Equal 判断数值是否相等。
func (w Word) Equal(other Word) bool {
	if w == other {
		return true
	}
	return Compare(w, other) == 0
}

// Less 判断 w 是否小于 other。
func (w Word) Less(other Word) bool {
	return Compare(w, other) < 0
}

// Neg 返回相反数，指数不变。
//
// 符号与幅值分开存储，尾数范围关于零对称，任何合法的 Word 取反后仍然合法。
func (w Word) Neg() (Word, error) {
	return New(w.Exponent(), -w.Mantissa())
}

// Add 返回 a + b。
//
// 指数相同时直接相加；指数不同时结果落在较大的指数上，较小指数一侧的尾数精确放大后相加。
// 结果超出尾数宽度时返回 ErrOutOfRange。
func Add(a, b Word) (Word, error) {
	ma, mb, exp, ov := align(a, b)
	if ov != 0 {
		return 0, merr.WrapErrOutOfRange("mantissa", minMantissa, maxMagnitude, int64(math.MaxInt64), "rescaled operand exceeds 64 bits")
	}
	sum, ok := addInt64(ma, mb)
	if !ok {
		return 0, merr.WrapErrOutOfRange("mantissa", minMantissa, maxMagnitude, int64(math.MaxInt64), "sum exceeds 64 bits")
	}
	return New(exp, sum)
}

// Sub 返回 a - b。
func Sub(a, b Word) (Word, error) {
	ma, mb, exp, ov := align(a, b)
	if ov != 0 {
		return 0, merr.WrapErrOutOfRange("mantissa", minMantissa, maxMagnitude, int64(math.MaxInt64), "rescaled operand exceeds 64 bits")
	}
	// mb 的绝对值不超过 2^63-1，取反不会溢出。
	diff, ok := addInt64(ma, -mb)
	if !ok {
		return 0, merr.WrapErrOutOfRange("mantissa", minMantissa, maxMagnitude, int64(math.MaxInt64), "difference exceeds 64 bits")
	}
	return New(exp, diff)
}

// MulInt 返回 w * n，指数不变。
//
// int64 溢出返回 ErrOverflow，超出尾数宽度返回 ErrOutOfRange。
func (w Word) MulInt(n int64) (Word, error) {
	m := w.Mantissa()
	if m == 0 || n == 0 {
		return New(w.Exponent(), 0)
	}
	r := m * n
	if r/n != m {
		return 0, merr.WrapErrOverflow("multiply")
	}
	return New(w.Exponent(), r)
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}
