package fallback

import (
	"io"
	"reflect"

	"google.golang.org/protobuf/proto"

	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

var messageType = reflect.TypeOf((*proto.Message)(nil)).Elem()

// Proto 使用 Protobuf 进行二进制编码。
//
// 注意：待编码的对象必须实现 proto.Message，输出使用确定性序列化。
type Proto struct {
	pool *bytebuffer.Pool
	opts proto.MarshalOptions
}

// 编译期断言：确保 Proto 实现了 Encoder 接口。
var _ Encoder = (*Proto)(nil)

func NewProto(pool *bytebuffer.Pool) *Proto {
	return &Proto{
		pool: poolOrDefault(pool),
		opts: proto.MarshalOptions{Deterministic: true},
	}
}

func (*Proto) Marker() framer.Marker {
	return framer.MarkerProto
}

func (p *Proto) SizeOf(v any) (uint32, *bytebuffer.Staged, error) {
	return sizeOf(p, v)
}

func (p *Proto) Serialize(v any) (*bytebuffer.Staged, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, merr.WrapErrUnsupportedType(reflect.TypeOf(v), "proto encoder requires proto.Message")
	}
	staged := p.pool.Get()
	if err := staged.Append(func(b []byte) ([]byte, error) {
		return p.opts.MarshalAppend(b, msg)
	}); err != nil {
		staged.Release()
		return nil, merr.WrapErrEncodeFailed(FormatProto, err)
	}
	return staged, nil
}

func (*Proto) Deserialize(r io.Reader, v any) error {
	msg, ok := protoTarget(v)
	if !ok {
		return merr.WrapErrUnsupportedType(reflect.TypeOf(v), "proto decoder requires proto.Message")
	}
	raw, err := readAll(r)
	if err != nil {
		return merr.WrapErrDecodeFailed(FormatProto, err)
	}
	defer bytebuffer.Put(raw)

	return merr.WrapErrDecodeFailed(FormatProto, proto.Unmarshal(raw.B, msg))
}

// protoTarget 支持 proto.Message 本身，或指向一个（可能为 nil 的）proto.Message 指针的指针。
func protoTarget(v any) (proto.Message, bool) {
	if msg, ok := v.(proto.Message); ok {
		return msg, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Pointer || !elem.Type().Implements(messageType) {
		return nil, false
	}
	if elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	return elem.Interface().(proto.Message), true
}
