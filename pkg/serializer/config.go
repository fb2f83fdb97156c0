package serializer

import (
	"github.com/lk2023060901/blitz/internal/compressor"
	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/fallback"
	"github.com/lk2023060901/blitz/pkg/typemeta"
)

// Config 为 Serializer 的可序列化配置（yaml/json）。
type Config struct {
	// Fallback 为回退格式：msgpack、json 或 proto，默认为 msgpack。
	Fallback string `mapstructure:"fallback" json:"fallback"`
	// Compression 为 true 时回退载荷使用 zstd 压缩。
	Compression bool `mapstructure:"compression" json:"compression"`
	// MaxFrameSize 为允许的最大帧长度，单位字节，0 时使用 framer.DefaultMaxFrameSize。
	// 开启压缩时同时作为解压输出的上限。
	MaxFrameSize uint32 `mapstructure:"max-frame-size" json:"max-frame-size"`
	// VerifyStaged 为 true 时对传入的 Probe 做一致性校验。
	VerifyStaged bool `mapstructure:"verify-staged" json:"verify-staged"`
	// PoolName 为暂存缓冲池名称，用作指标标签。
	PoolName string `mapstructure:"pool-name" json:"pool-name"`
}

// NewFromConfig 根据配置创建 Serializer。
func NewFromConfig(cfg Config, opts ...Option) (*Serializer, error) {
	pool := bytebuffer.Default
	if cfg.PoolName != "" {
		pool = bytebuffer.NewPool(cfg.PoolName)
	}
	enc, err := fallback.New(cfg.Fallback, pool)
	if err != nil {
		return nil, err
	}

	var zstd *compressor.ZstdCompressor
	if cfg.Compression {
		limit := cfg.MaxFrameSize
		if limit == 0 {
			limit = framer.DefaultMaxFrameSize
		}
		if zstd, err = compressor.NewZstdCompressor(compressor.WithMaxDecodedSize(uint64(limit))); err != nil {
			return nil, err
		}
		enc = fallback.NewCompressed(enc, zstd, pool)
	}

	base := []Option{
		WithRegistry(typemeta.NewRegistry()),
		WithPool(pool),
		WithFallback(enc),
		WithMaxFrameSize(cfg.MaxFrameSize),
		WithVerifyStaged(cfg.VerifyStaged || verifyStagedDefault),
	}
	if zstd != nil {
		base = append(base, WithCompressor(zstd))
	}
	s := New(append(base, opts...)...)
	s.closer = zstd
	return s, nil
}
