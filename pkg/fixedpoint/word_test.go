package fixedpoint

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/blitz/pkg/util/merr"
)

type WordSuite struct {
	suite.Suite
	rnd *rand.Rand
}

func (s *WordSuite) SetupTest() {
	s.rnd = rand.New(rand.NewPCG(20240601, 7))
}

func (s *WordSuite) randomWord() Word {
	exp := uint8(s.rnd.IntN(MaxExponent + 1))
	m := s.rnd.Int64N(mantissaLimit)
	if s.rnd.IntN(2) == 1 {
		m = -m
	}
	return Must(exp, m)
}

func (s *WordSuite) TestLayout() {
	w := Must(2, -150)
	s.Equal(uint64(2)<<56|uint64(1)<<55|150, w.Bits())
	s.EqualValues(2, w.Exponent())
	s.EqualValues(-150, w.Mantissa())

	s.Equal(Zero, Must(0, 0))
	s.EqualValues(0, Zero.Exponent())
	s.True(Zero.IsZero())

	maxW := Must(MaxExponent, maxMagnitude)
	s.Equal(uint64(0x0F7FFFFFFFFFFFFF), maxW.Bits())
	s.EqualValues(maxMagnitude, maxW.Mantissa())
	s.EqualValues(minMantissa, Must(MaxExponent, minMantissa).Mantissa())
}

func (s *WordSuite) TestRoundTrip() {
	for i := 0; i < 2000; i++ {
		w := s.randomWord()
		expected := decimal.New(w.Mantissa(), -int32(w.Exponent()))
		s.True(expected.Equal(w.Decimal()), "word %#v", w)

		back, err := New(w.Exponent(), w.Mantissa())
		s.Require().NoError(err)
		s.Equal(w, back)
	}
}

func (s *WordSuite) TestRangeEnforcement() {
	_, err := New(16, 0)
	s.ErrorIs(err, merr.ErrOutOfRange)

	_, err = New(0, mantissaLimit)
	s.ErrorIs(err, merr.ErrOutOfRange)
	_, err = New(0, -mantissaLimit)
	s.ErrorIs(err, merr.ErrOutOfRange)
	_, err = New(0, math.MinInt64)
	s.ErrorIs(err, merr.ErrOutOfRange)
	_, err = New(0, math.MaxInt64)
	s.ErrorIs(err, merr.ErrOutOfRange)

	_, err = New(0, mantissaLimit-1)
	s.NoError(err)
	_, err = New(0, -(mantissaLimit - 1))
	s.NoError(err)
}

func (s *WordSuite) TestEqualAcrossExponents() {
	v1 := Must(2, 150)
	v2 := Must(3, 1500)
	s.NotEqual(v1.Bits(), v2.Bits())
	s.True(v1.Equal(v2))
	s.True(v2.Equal(v1))
	s.Equal(0, Compare(v1, v2))

	s.False(Must(2, 150).Equal(Must(3, 1501)))
	s.True(Must(0, 0).Equal(Must(15, 0)))
}

func (s *WordSuite) TestCompareAgreesWithDecimal() {
	for i := 0; i < 5000; i++ {
		a, b := s.randomWord(), s.randomWord()
		if i%5 == 0 {
			// 相同数值不同指数的组合
			b = Must(a.Exponent(), s.rnd.Int64N(1000)-500)
		}
		s.Equal(a.Decimal().Cmp(b.Decimal()), Compare(a, b), "a=%#v b=%#v", a, b)
		s.Equal(b.Decimal().Cmp(a.Decimal()), Compare(b, a), "a=%#v b=%#v", a, b)
	}

	// 放大溢出时由放大一侧的符号决定
	huge := Must(0, maxMagnitude)
	tiny := Must(15, 1)
	s.Equal(1, Compare(huge, tiny))
	s.Equal(-1, Compare(tiny, huge))
	s.Equal(-1, Compare(Must(0, minMantissa), tiny))
	s.True(tiny.Less(huge))
}

func (s *WordSuite) TestFromBits() {
	w, err := FromBits(Must(4, 12345).Bits())
	s.NoError(err)
	s.EqualValues(12345, w.Mantissa())

	_, err = FromBits(uint64(1) << 60)
	s.ErrorIs(err, merr.ErrParameterInvalid)

	// 负零按零处理
	negZero, err := FromBits(uint64(1) << 55)
	s.NoError(err)
	s.EqualValues(0, negZero.Mantissa())
	s.True(negZero.Equal(Zero))
}

func (s *WordSuite) TestPutReadWord() {
	w := Must(3, -987654321)
	buf := make([]byte, Size)
	s.NoError(PutWord(buf, w))
	s.Equal([]byte{0xb1, 0x68, 0xde, 0x3a, 0x00, 0x00, 0x80, 0x03}, buf)

	back, err := ReadWord(buf)
	s.NoError(err)
	s.Equal(w, back)

	s.ErrorIs(PutWord(make([]byte, 7), w), merr.ErrDestinationTooSmall)
	_, err = ReadWord(buf[:7])
	s.ErrorIs(err, merr.ErrDecodeFailed)
}

func (s *WordSuite) TestString() {
	s.Equal("1.50", Must(2, 150).String())
	s.Equal("-0.005", Must(3, -5).String())
	s.Equal("42", Must(0, 42).String())
	s.Equal("0", Zero.String())
}

func TestWord(t *testing.T) {
	suite.Run(t, new(WordSuite))
}

func TestCheckByteOrder(t *testing.T) {
	assert.NoError(t, CheckByteOrder())
}

func TestFromDecimal(t *testing.T) {
	w, err := FromDecimal(decimal.RequireFromString("12.3456"), 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, w.Exponent())
	assert.EqualValues(t, 1234, w.Mantissa())

	w, err = FromDecimal(decimal.RequireFromString("-12.3456"), 3)
	require.NoError(t, err)
	assert.EqualValues(t, -12345, w.Mantissa())

	_, err = FromDecimal(decimal.NewFromInt(1), 16)
	assert.ErrorIs(t, err, merr.ErrOutOfRange)

	_, err = FromDecimal(decimal.New(1, 10), 15)
	assert.ErrorIs(t, err, merr.ErrOutOfRange)
}

func TestFromFloat64(t *testing.T) {
	w, err := FromFloat64(1.25, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 125, w.Mantissa())
	assert.InDelta(t, 1.25, w.Float64(), 1e-12)

	w, err = FromFloat64(-3.999, 0)
	require.NoError(t, err)
	assert.EqualValues(t, -3, w.Mantissa())

	_, err = FromFloat64(math.NaN(), 2)
	assert.ErrorIs(t, err, merr.ErrOverflow)
	_, err = FromFloat64(math.Inf(1), 2)
	assert.ErrorIs(t, err, merr.ErrOverflow)
	_, err = FromFloat64(1e10, 15)
	assert.ErrorIs(t, err, merr.ErrOverflow)

	// 能放入 int64 但超出尾数宽度
	_, err = FromFloat64(1e17, 0)
	assert.ErrorIs(t, err, merr.ErrOutOfRange)
	_, err = FromFloat64(1, 16)
	assert.ErrorIs(t, err, merr.ErrOutOfRange)
}

func TestConvert(t *testing.T) {
	w := Must(2, 150)

	v, err := w.Convert(KindFloat64)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v.(float64), 1e-12)

	v, err = w.Convert(KindFloat32)
	require.NoError(t, err)
	assert.InDelta(t, float32(1.5), v.(float32), 1e-6)

	v, err = w.Convert(KindDecimal)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.5").Equal(v.(decimal.Decimal)))

	v, err = w.Convert(KindString)
	require.NoError(t, err)
	assert.Equal(t, "1.50", v)

	for _, kind := range []Kind{KindBool, KindChar, KindByte, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64, KindDateTime} {
		v, err := w.Convert(kind)
		assert.Nil(t, v)
		assert.ErrorIs(t, err, merr.ErrInvalidConversion, kind.String())
		assert.True(t, errors.Is(err, merr.ErrInvalidConversion))
	}
}

func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = New(uint8(i&MaxExponent), int64(i)-int64(b.N/2))
	}
}

func BenchmarkCompare(b *testing.B) {
	x, y := Must(2, 150), Must(7, 1500001)
	for i := 0; i < b.N; i++ {
		_ = Compare(x, y)
	}
}
