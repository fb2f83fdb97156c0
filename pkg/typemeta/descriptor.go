package typemeta

import (
	"reflect"

	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Layout 描述一个类型的二进制布局。
type Layout uint8

const (
	// LayoutFixed 表示类型有固定大小，可以直接写入目标缓冲区。
	LayoutFixed Layout = iota + 1
	// LayoutStaged 表示大小要在写出载荷后才能确定，需要先暂存。
	LayoutStaged
)

func (l Layout) String() string {
	switch l {
	case LayoutFixed:
		return "fixed"
	case LayoutStaged:
		return "staged"
	}
	return "unknown"
}

// Descriptor 为单个类型的能力描述，注册后只读。
type Descriptor struct {
	Type   reflect.Type
	Layout Layout
	// Size 仅对 LayoutFixed 有意义。
	Size uint32

	write   func(v any, dst []byte)
	read    func(src []byte) (any, error)
	stage   func(v any, dst *bytebuffer.Staged) error
	unstage func(src []byte) (any, error)
}

// FixedSize 返回固定大小，类型不是定长布局时 ok 为 false。
func (d *Descriptor) FixedSize() (size uint32, ok bool) {
	if d == nil || d.Layout != LayoutFixed {
		return 0, false
	}
	return d.Size, true
}

// WriteFixed 把 v 写入 dst 的前 Size 个字节，返回写入的字节数。
//
// dst 长度由调用方保证，v 的动态类型必须与 Type 一致。
func (d *Descriptor) WriteFixed(v any, dst []byte) uint32 {
	d.write(v, dst[:d.Size])
	return d.Size
}

// ReadFixed 从 src 的前 Size 个字节读取一个值。
func (d *Descriptor) ReadFixed(src []byte) (any, error) {
	if uint64(len(src)) < uint64(d.Size) {
		return nil, merr.WrapErrDestinationTooSmall(uint64(d.Size), len(src), "read fixed")
	}
	return d.read(src[:d.Size])
}

// Stage 把 v 的载荷追加写入 dst。
func (d *Descriptor) Stage(v any, dst *bytebuffer.Staged) error {
	if d.Layout != LayoutStaged {
		return merr.WrapErrUnsupportedType(d.Type, "descriptor is not staged")
	}
	return d.stage(v, dst)
}

// Unstage 从完整载荷 src 还原一个值。
func (d *Descriptor) Unstage(src []byte) (any, error) {
	if d.Layout != LayoutStaged {
		return nil, merr.WrapErrUnsupportedType(d.Type, "descriptor is not staged")
	}
	return d.unstage(src)
}

// Fixed 构造一个定长类型的描述。
func Fixed[T any](size uint32, put func(dst []byte, v T), get func(src []byte) (T, error)) *Descriptor {
	return &Descriptor{
		Type:   Of[T](),
		Layout: LayoutFixed,
		Size:   size,
		write: func(v any, dst []byte) {
			put(dst, v.(T))
		},
		read: func(src []byte) (any, error) {
			return get(src)
		},
	}
}

// Staged 构造一个需要暂存载荷的类型描述。
func Staged[T any](stage func(v T, dst *bytebuffer.Staged) error, unstage func(src []byte) (T, error)) *Descriptor {
	return &Descriptor{
		Type:   Of[T](),
		Layout: LayoutStaged,
		stage: func(v any, dst *bytebuffer.Staged) error {
			return stage(v.(T), dst)
		},
		unstage: func(src []byte) (any, error) {
			return unstage(src)
		},
	}
}

// Of 返回 T 的静态类型，对接口类型同样有效。
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
