package typemeta

import (
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/fixedpoint"
)

func integer[T constraints.Integer](size uint32) *Descriptor {
	var put func(dst []byte, v T)
	var get func(src []byte) (T, error)
	switch size {
	case 1:
		put = func(dst []byte, v T) { dst[0] = byte(v) }
		get = func(src []byte) (T, error) { return T(src[0]), nil }
	case 2:
		put = func(dst []byte, v T) { binary.LittleEndian.PutUint16(dst, uint16(v)) }
		get = func(src []byte) (T, error) { return T(binary.LittleEndian.Uint16(src)), nil }
	case 4:
		put = func(dst []byte, v T) { binary.LittleEndian.PutUint32(dst, uint32(v)) }
		get = func(src []byte) (T, error) { return T(binary.LittleEndian.Uint32(src)), nil }
	default:
		put = func(dst []byte, v T) { binary.LittleEndian.PutUint64(dst, uint64(v)) }
		get = func(src []byte) (T, error) { return T(binary.LittleEndian.Uint64(src)), nil }
	}
	return Fixed(size, put, get)
}

func float[T constraints.Float](size uint32) *Descriptor {
	if size == 4 {
		return Fixed(4, func(dst []byte, v T) {
			binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
		}, func(src []byte) (T, error) {
			return T(math.Float32frombits(binary.LittleEndian.Uint32(src))), nil
		})
	}
	return Fixed(8, func(dst []byte, v T) {
		binary.LittleEndian.PutUint64(dst, math.Float64bits(float64(v)))
	}, func(src []byte) (T, error) {
		return T(math.Float64frombits(binary.LittleEndian.Uint64(src))), nil
	})
}

// builtins 返回内置类型的描述。int 与 uint 固定按 8 字节写出。
func builtins() []*Descriptor {
	return []*Descriptor{
		integer[int8](1),
		integer[uint8](1),
		integer[int16](2),
		integer[uint16](2),
		integer[int32](4),
		integer[uint32](4),
		integer[int64](8),
		integer[uint64](8),
		integer[int](8),
		integer[uint](8),
		float[float32](4),
		float[float64](8),
		Fixed(1, func(dst []byte, v bool) {
			dst[0] = 0
			if v {
				dst[0] = 1
			}
		}, func(src []byte) (bool, error) {
			return src[0] != 0, nil
		}),
		Fixed(fixedpoint.Size, func(dst []byte, v fixedpoint.Word) {
			_ = fixedpoint.PutWord(dst, v)
		}, fixedpoint.ReadWord),
		Staged(func(v string, dst *bytebuffer.Staged) error {
			_, err := dst.WriteString(v)
			return err
		}, func(src []byte) (string, error) {
			return string(src), nil
		}),
		Staged(func(v []byte, dst *bytebuffer.Staged) error {
			_, err := dst.Write(v)
			return err
		}, func(src []byte) ([]byte, error) {
			return append([]byte(nil), src...), nil
		}),
	}
}
