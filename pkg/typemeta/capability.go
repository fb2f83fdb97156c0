package typemeta

import (
	"encoding"
	"reflect"

	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Blittable 由内存布局即为存储布局的定长类型实现。
//
// BinarySize 必须与值无关，对零值调用的结果即为该类型的固定大小。
// 同时 *T 需要实现 BlittableReader。
type Blittable interface {
	BinarySize() uint32
	PutBinary(dst []byte)
}

// BlittableReader 由 *T 实现，从定长字节中还原值。
type BlittableReader interface {
	ReadBinary(src []byte) error
}

// Stager 由需要自行写出变长载荷的类型实现，*T 需要同时实现 Unstager。
type Stager interface {
	StageBinary(dst *bytebuffer.Staged) error
}

// Unstager 由 *T 实现，从完整载荷中还原值。
type Unstager interface {
	UnstageBinary(src []byte) error
}

var (
	blittableType       = Of[Blittable]()
	blittableReaderType = Of[BlittableReader]()
	stagerType          = Of[Stager]()
	unstagerType        = Of[Unstager]()
	appenderType        = Of[encoding.BinaryAppender]()
	marshalerType       = Of[encoding.BinaryMarshaler]()
	unmarshalerType     = Of[encoding.BinaryUnmarshaler]()
)

// derive 根据类型实现的接口推导描述，无法推导时返回 nil。
func derive(t reflect.Type) *Descriptor {
	if t == nil || t.Kind() == reflect.Interface {
		return nil
	}
	ptr := reflect.PointerTo(t)

	switch size := blittableSize(t, ptr); {
	case size > 0:
		return &Descriptor{
			Type:   t,
			Layout: LayoutFixed,
			Size:   size,
			write: func(v any, dst []byte) {
				v.(Blittable).PutBinary(dst)
			},
			read: func(src []byte) (any, error) {
				p := reflect.New(t)
				if err := p.Interface().(BlittableReader).ReadBinary(src); err != nil {
					return nil, merr.WrapErrDecodeFailed("blittable", err)
				}
				return p.Elem().Interface(), nil
			},
		}

	case t.Implements(stagerType) && ptr.Implements(unstagerType):
		return stagedFrom(t, func(v any, dst *bytebuffer.Staged) error {
			return v.(Stager).StageBinary(dst)
		}, func(p any, src []byte) error {
			return p.(Unstager).UnstageBinary(src)
		})

	case t.Implements(appenderType) && ptr.Implements(unmarshalerType):
		return stagedFrom(t, func(v any, dst *bytebuffer.Staged) error {
			return dst.Append(v.(encoding.BinaryAppender).AppendBinary)
		}, func(p any, src []byte) error {
			return p.(encoding.BinaryUnmarshaler).UnmarshalBinary(src)
		})

	case t.Implements(marshalerType) && ptr.Implements(unmarshalerType):
		return stagedFrom(t, func(v any, dst *bytebuffer.Staged) error {
			b, err := v.(encoding.BinaryMarshaler).MarshalBinary()
			if err != nil {
				return err
			}
			_, err = dst.Write(b)
			return err
		}, func(p any, src []byte) error {
			return p.(encoding.BinaryUnmarshaler).UnmarshalBinary(src)
		})
	}
	return nil
}

// blittableSize 返回定长类型零值报告的大小，未实现 Blittable 时返回 0。
// 大小为 0 的 Blittable 不走定长路径。
func blittableSize(t, ptr reflect.Type) uint32 {
	if !t.Implements(blittableType) || !ptr.Implements(blittableReaderType) {
		return 0
	}
	return reflect.Zero(t).Interface().(Blittable).BinarySize()
}

func stagedFrom(t reflect.Type, stage func(v any, dst *bytebuffer.Staged) error, unstage func(p any, src []byte) error) *Descriptor {
	return &Descriptor{
		Type:   t,
		Layout: LayoutStaged,
		stage: func(v any, dst *bytebuffer.Staged) error {
			if err := stage(v, dst); err != nil {
				return merr.WrapErrEncodeFailed("staged", err)
			}
			return nil
		},
		unstage: func(src []byte) (any, error) {
			p := reflect.New(t)
			if err := unstage(p.Interface(), src); err != nil {
				return nil, merr.WrapErrDecodeFailed("staged", err)
			}
			return p.Elem().Interface(), nil
		},
	}
}
