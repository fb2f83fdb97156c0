package fallback

import (
	"bytes"
	"io"

	"github.com/lk2023060901/blitz/internal/compressor"
	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Compressed 在内层编码器的输出之上做一次整体压缩，并在格式标记上置压缩位。
type Compressed struct {
	inner      Encoder
	compressor compressor.Compressor
	pool       *bytebuffer.Pool
}

// 编译期断言：确保 Compressed 实现了 Encoder 接口。
var _ Encoder = (*Compressed)(nil)

// NewCompressed 包装 inner，c 为 nil 时退化为不压缩。
func NewCompressed(inner Encoder, c compressor.Compressor, pool *bytebuffer.Pool) *Compressed {
	if c == nil {
		c = compressor.NopCompressor{}
	}
	return &Compressed{
		inner:      inner,
		compressor: c,
		pool:       poolOrDefault(pool),
	}
}

// Inner 返回内层编码器。
func (c *Compressed) Inner() Encoder {
	return c.inner
}

func (c *Compressed) Marker() framer.Marker {
	return c.inner.Marker() | framer.FlagCompressed
}

func (c *Compressed) SizeOf(v any) (uint32, *bytebuffer.Staged, error) {
	return sizeOf(c, v)
}

func (c *Compressed) Serialize(v any) (*bytebuffer.Staged, error) {
	plain, err := c.inner.Serialize(v)
	if err != nil {
		return nil, err
	}
	defer plain.Release()

	packed := c.pool.Get()
	if err := packed.Append(func(b []byte) ([]byte, error) {
		return c.compressor.Compress(b, plain.Bytes())
	}); err != nil {
		packed.Release()
		return nil, merr.WrapErrEncodeFailed("zstd", err)
	}
	return packed, nil
}

func (c *Compressed) Deserialize(r io.Reader, v any) error {
	raw, err := readAll(r)
	if err != nil {
		return merr.WrapErrDecodeFailed("zstd", err)
	}
	defer bytebuffer.Put(raw)

	plain := c.pool.Get()
	defer plain.Release()
	if err := plain.Append(func(b []byte) ([]byte, error) {
		return c.compressor.Decompress(b, raw.B)
	}); err != nil {
		return merr.WrapErrDecodeFailed("zstd", err)
	}
	return c.inner.Deserialize(bytes.NewReader(plain.Bytes()), v)
}

// Compressor 返回使用的压缩器。
func (c *Compressed) Compressor() compressor.Compressor {
	return c.compressor
}
