package serializer

import (
	"github.com/lk2023060901/blitz/internal/compressor"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/fallback"
	"github.com/lk2023060901/blitz/pkg/typemeta"
)

type options struct {
	// registry 为类型能力描述来源。
	registry *typemeta.Registry
	// pool 为暂存载荷使用的缓冲池。
	pool *bytebuffer.Pool
	// fallback 为未知类型使用的回退编码器，为 nil 时使用 msgpack。
	fallback fallback.Encoder
	// compressor 用于解码带压缩位的帧，为 nil 时不接受压缩帧。
	compressor compressor.Compressor
	// maxFrameSize 为允许的最大帧长度（含帧头），0 表示 u32 上限。
	maxFrameSize uint32
	// verifyStaged 为 true 时，Write 会对调用方传入的 Probe 重新计算大小并比对。
	verifyStaged bool
}

// Option 用于配置 Serializer 的选项函数。
type Option func(opt *options)

func defaultOptions() *options {
	return &options{
		verifyStaged: verifyStagedDefault,
	}
}

func WithRegistry(r *typemeta.Registry) Option {
	return func(opt *options) {
		opt.registry = r
	}
}

func WithPool(p *bytebuffer.Pool) Option {
	return func(opt *options) {
		opt.pool = p
	}
}

func WithFallback(enc fallback.Encoder) Option {
	return func(opt *options) {
		opt.fallback = enc
	}
}

func WithCompressor(c compressor.Compressor) Option {
	return func(opt *options) {
		opt.compressor = c
	}
}

func WithMaxFrameSize(n uint32) Option {
	return func(opt *options) {
		opt.maxFrameSize = n
	}
}

func WithVerifyStaged(v bool) Option {
	return func(opt *options) {
		opt.verifyStaged = v
	}
}
