package compressor

import (
	"runtime"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor 基于 github.com/klauspost/compress/zstd 的压缩实现。
//
// 持有独立的 encoder/decoder 实例，EncodeAll/DecodeAll 可被并发调用。
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// 编译期断言：确保 ZstdCompressor 实现了 Compressor 接口。
var _ Compressor = (*ZstdCompressor)(nil)

// DefaultMaxDecodedSize 为单次解压输出的默认上限，与默认最大帧长度一致。
const DefaultMaxDecodedSize uint64 = 16 * 1024 * 1024 // 16MB

type zstdOption struct {
	maxDecodedSize uint64
}

// ZstdOption 为 ZstdCompressor 的可选配置。
type ZstdOption func(opt *zstdOption)

// WithMaxDecodedSize 设置单次解压输出的上限，超出时 Decompress 返回 zstd.ErrDecoderSizeExceeded。
// n 为 0 时使用 DefaultMaxDecodedSize。
func WithMaxDecodedSize(n uint64) ZstdOption {
	return func(opt *zstdOption) {
		if n > 0 {
			opt.maxDecodedSize = n
		}
	}
}

// NewZstdCompressor 创建一个 ZstdCompressor，默认并发度为 GOMAXPROCS。
func NewZstdCompressor(opts ...ZstdOption) (*ZstdCompressor, error) {
	return NewZstdCompressorWithConcurrency(0, opts...)
}

// NewZstdCompressorWithConcurrency 创建一个 ZstdCompressor，并允许显式指定 zstd 的并发数。
//
// concurrency <= 0 时使用 runtime.GOMAXPROCS(0)。
func NewZstdCompressorWithConcurrency(concurrency int, opts ...ZstdOption) (*ZstdCompressor, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	opt := &zstdOption{maxDecodedSize: DefaultMaxDecodedSize}
	for _, o := range opts {
		o(opt)
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithZeroFrames(true),
		zstd.WithEncoderConcurrency(concurrency),
	)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(concurrency),
		zstd.WithDecoderMaxMemory(opt.maxDecodedSize),
	)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCompressor{
		enc: enc,
		dec: dec,
	}, nil
}

// Compress 实现 Compressor 接口。
func (c *ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	if c == nil || c.enc == nil {
		return nil, zstd.ErrEncoderClosed
	}
	return c.enc.EncodeAll(src, dst), nil
}

// Decompress 实现 Compressor 接口。
func (c *ZstdCompressor) Decompress(dst, src []byte) ([]byte, error) {
	if c == nil || c.dec == nil {
		return nil, zstd.ErrDecoderClosed
	}
	return c.dec.DecodeAll(src, dst)
}

// Close 释放内部 encoder/decoder 持有的资源，再次使用将返回 ErrEncoderClosed/ErrDecoderClosed。
func (c *ZstdCompressor) Close() {
	if c == nil {
		return
	}
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}
