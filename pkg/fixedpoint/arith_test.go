package fixedpoint

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/blitz/pkg/util/merr"
)

func TestAddSameExponent(t *testing.T) {
	sum, err := Add(Must(2, 150), Must(2, -25))
	require.NoError(t, err)
	assert.Equal(t, Must(2, 125), sum)

	diff, err := Sub(Must(2, 150), Must(2, 175))
	require.NoError(t, err)
	assert.Equal(t, Must(2, -25), diff)
}

func TestAddOverflowIsOutOfRange(t *testing.T) {
	_, err := Add(Must(4, maxMagnitude), Must(4, 1))
	assert.ErrorIs(t, err, merr.ErrOutOfRange)

	_, err = Add(Must(4, minMantissa), Must(4, -1))
	assert.ErrorIs(t, err, merr.ErrOutOfRange)

	_, err = Sub(Must(4, minMantissa), Must(4, 1))
	assert.ErrorIs(t, err, merr.ErrOutOfRange)

	// 恰好在边界上
	w, err := Add(Must(4, maxMagnitude-1), Must(4, 1))
	require.NoError(t, err)
	assert.EqualValues(t, maxMagnitude, w.Mantissa())
}

func TestAddMixedExponent(t *testing.T) {
	cases := []struct {
		a, b Word
	}{
		{Must(2, 150), Must(3, 1)},
		{Must(0, -7), Must(5, 12345)},
		{Must(9, 1), Must(1, -3)},
		{Must(15, 999), Must(14, 999)},
	}
	for _, c := range cases {
		sum, err := Add(c.a, c.b)
		require.NoError(t, err)
		exp := max(c.a.Exponent(), c.b.Exponent())
		assert.EqualValues(t, exp, sum.Exponent())
		assert.True(t, c.a.Decimal().Add(c.b.Decimal()).Equal(sum.Decimal()), "%s + %s = %s", c.a, c.b, sum)

		diff, err := Sub(c.a, c.b)
		require.NoError(t, err)
		assert.EqualValues(t, exp, diff.Exponent())
		assert.True(t, c.a.Decimal().Sub(c.b.Decimal()).Equal(diff.Decimal()))
	}

	// 较小指数一侧放大后超出宽度
	_, err := Add(Must(0, maxMagnitude), Must(15, 1))
	assert.ErrorIs(t, err, merr.ErrOutOfRange)
	_, err = Add(Must(0, 1_000_000), Must(12, 1))
	assert.ErrorIs(t, err, merr.ErrOutOfRange)
}

func TestNeg(t *testing.T) {
	n, err := Must(3, 1500).Neg()
	require.NoError(t, err)
	assert.Equal(t, Must(3, -1500), n)

	n, err = Must(0, minMantissa).Neg()
	require.NoError(t, err)
	assert.EqualValues(t, maxMagnitude, n.Mantissa())

	z, err := Zero.Neg()
	require.NoError(t, err)
	assert.Equal(t, Zero, z)
}

func TestMulInt(t *testing.T) {
	w, err := Must(2, 150).MulInt(-3)
	require.NoError(t, err)
	assert.Equal(t, Must(2, -450), w)

	w, err = Must(2, 150).MulInt(0)
	require.NoError(t, err)
	assert.True(t, w.IsZero())
	assert.EqualValues(t, 2, w.Exponent())

	_, err = Must(0, 1<<40).MulInt(1 << 30)
	assert.ErrorIs(t, err, merr.ErrOverflow)

	_, err = Must(0, -1).MulInt(math.MinInt64)
	assert.ErrorIs(t, err, merr.ErrOverflow)

	_, err = Must(0, 1<<30).MulInt(1 << 30)
	assert.ErrorIs(t, err, merr.ErrOutOfRange)
}

func TestDecimalFractions(t *testing.T) {
	for i := 0; i <= MaxExponent; i++ {
		assert.True(t, decimal.New(1, -int32(i)).Equal(decimalFractions[i]))
		assert.Equal(t, powers10[i], int64(floatScales[i]))
	}
}
