package fixedpoint

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/blitz/pkg/log"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

const (
	// Size 为一个字编码后的字节数。
	Size = 8

	magnitudeBits  = 55
	signShift      = 55
	exponentShift  = 56
	magnitudeMask  = uint64(1)<<magnitudeBits - 1
	exponentMask   = uint64(0xF) << exponentShift
	reservedMask   = uint64(0xF) << 60
	maxMagnitude   = int64(magnitudeMask)
	minMantissa    = -maxMagnitude
	mantissaLimit  = int64(1) << magnitudeBits
	float64Int64Up = 9223372036854775808.0 // 2^63
)

// Word 为一个编码后的定点数，值类型且不可变。
type Word uint64

// Zero 为指数 0 的零值。
var Zero Word

func init() {
	if err := CheckByteOrder(); err != nil {
		log.Fatal("fixed point word layout requires a little-endian host", zap.Error(err))
	}
}

// CheckByteOrder 检查宿主机字节序是否为小端。
func CheckByteOrder() error {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] != 1 {
		return merr.WrapErrByteOrder("big-endian")
	}
	return nil
}

// New 以给定指数和尾数构造一个定点数。
//
// 指数超过 15 或尾数绝对值不小于 2^55 时返回 ErrOutOfRange。
func New(exponent uint8, mantissa int64) (Word, error) {
	if exponent > MaxExponent {
		return 0, merr.WrapErrOutOfRange("exponent", 0, MaxExponent, int(exponent))
	}
	signMask := mantissa >> 63
	sign := uint64(signMask & 1)
	abs := uint64((mantissa ^ signMask) + int64(sign))
	if abs > magnitudeMask {
		return 0, merr.WrapErrOutOfRange("mantissa", minMantissa, maxMagnitude, mantissa)
	}
	return Word(uint64(exponent)<<exponentShift | sign<<signShift | abs), nil
}

// Must 与 New 相同，出错时 panic，仅用于常量初始化和测试。
func Must(exponent uint8, mantissa int64) Word {
	w, err := New(exponent, mantissa)
	if err != nil {
		panic(err)
	}
	return w
}

// FromBits 把原始 64 位整数解释为定点数，保留位非零时返回错误。
func FromBits(bits uint64) (Word, error) {
	if bits&reservedMask != 0 {
		return 0, merr.WrapErrParameterInvalidMsg("reserved bits set in fixed point word %#016x", bits)
	}
	return Word(bits), nil
}

// Bits 返回原始位模式。
func (w Word) Bits() uint64 {
	return uint64(w)
}

// Exponent 返回指数。
func (w Word) Exponent() uint8 {
	return uint8((uint64(w) & exponentMask) >> exponentShift)
}

// Mantissa 返回带符号尾数。
func (w Word) Mantissa() int64 {
	abs := int64(uint64(w) & magnitudeMask)
	sign := int64((uint64(w) >> signShift) & 1)
	return (abs - sign) ^ -sign
}

// IsZero 判断数值是否为零，与指数无关。
func (w Word) IsZero() bool {
	return uint64(w)&magnitudeMask == 0
}

// Sign 返回 -1、0 或 1。
func (w Word) Sign() int {
	m := w.Mantissa()
	switch {
	case m < 0:
		return -1
	case m > 0:
		return 1
	}
	return 0
}

// PutWord 以小端序把 w 写入 dst 的前 8 个字节。
func PutWord(dst []byte, w Word) error {
	if len(dst) < Size {
		return merr.WrapErrDestinationTooSmall(Size, len(dst))
	}
	binary.LittleEndian.PutUint64(dst, uint64(w))
	return nil
}

// ReadWord 从 src 的前 8 个字节读取一个定点数。
func ReadWord(src []byte) (Word, error) {
	if len(src) < Size {
		return 0, merr.WrapErrDecodeFailed("fixedpoint", errors.Newf("need %d bytes, got %d", Size, len(src)))
	}
	return FromBits(binary.LittleEndian.Uint64(src))
}

// String 以固定小数位数输出，小数位数等于指数。
func (w Word) String() string {
	return w.Decimal().StringFixed(int32(w.Exponent()))
}

// GoString 便于调试时查看内部字段。
func (w Word) GoString() string {
	return fmt.Sprintf("fixedpoint.Word{exponent: %d, mantissa: %d}", w.Exponent(), w.Mantissa())
}
