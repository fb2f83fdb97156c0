package fallback

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Msgpack 为默认回退编码器，map 按键排序以保证输出稳定。
type Msgpack struct {
	pool *bytebuffer.Pool
}

// 编译期断言：确保 Msgpack 实现了 Encoder 接口。
var _ Encoder = (*Msgpack)(nil)

func NewMsgpack(pool *bytebuffer.Pool) *Msgpack {
	return &Msgpack{pool: poolOrDefault(pool)}
}

func (*Msgpack) Marker() framer.Marker {
	return framer.MarkerMsgpack
}

func (m *Msgpack) SizeOf(v any) (uint32, *bytebuffer.Staged, error) {
	return sizeOf(m, v)
}

func (m *Msgpack) Serialize(v any) (*bytebuffer.Staged, error) {
	staged := m.pool.Get()

	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	enc.Reset(staged)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(v); err != nil {
		staged.Release()
		return nil, merr.WrapErrEncodeFailed(FormatMsgpack, err)
	}
	return staged, nil
}

func (*Msgpack) Deserialize(r io.Reader, v any) error {
	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)
	dec.Reset(r)

	return merr.WrapErrDecodeFailed(FormatMsgpack, dec.Decode(v))
}
