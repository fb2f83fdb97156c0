// Package fallback 提供自描述的变长编码，用于没有定长布局的类型。
//
// 编码器只负责产出与消费载荷字节，帧头由调用方负责。
package fallback

import (
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

const (
	FormatMsgpack = "msgpack"
	FormatJSON    = "json"
	FormatProto   = "proto"
)

// Encoder 抽象了回退编码器的能力。
type Encoder interface {
	// Marker 返回写入帧头的格式标记。
	Marker() framer.Marker

	// SizeOf 编码 v 并返回帧总长度（含 8 字节帧头）与暂存载荷。
	// 成功时暂存载荷归调用方所有，调用方必须释放。
	SizeOf(v any) (uint32, *bytebuffer.Staged, error)

	// Serialize 编码 v 并返回暂存载荷，调用方必须释放。
	Serialize(v any) (*bytebuffer.Staged, error)

	// Deserialize 从 r 中读取完整载荷并解码到 v，v 通常为指针。
	Deserialize(r io.Reader, v any) error
}

// New 按格式名创建编码器，pool 为 nil 时使用 bytebuffer.Default。
func New(format string, pool *bytebuffer.Pool) (Encoder, error) {
	switch format {
	case "", FormatMsgpack:
		return NewMsgpack(pool), nil
	case FormatJSON:
		return NewJSON(pool), nil
	case FormatProto:
		return NewProto(pool), nil
	}
	return nil, merr.WrapErrParameterInvalidMsg("unknown fallback format %q", format)
}

// sizeOf 为各实现共用的 SizeOf。
func sizeOf(e Encoder, v any) (uint32, *bytebuffer.Staged, error) {
	staged, err := e.Serialize(v)
	if err != nil {
		return 0, nil, err
	}
	size, err := framer.NewFramer(0).Size(staged.Len())
	if err != nil {
		staged.Release()
		return 0, nil, err
	}
	return size, staged, nil
}

func poolOrDefault(pool *bytebuffer.Pool) *bytebuffer.Pool {
	if pool == nil {
		return bytebuffer.Default
	}
	return pool
}

// readAll 把 r 中剩余内容读入一个原始缓冲区，调用方用完后调用 bytebuffer.Put。
func readAll(r io.Reader) (*bytebufferpool.ByteBuffer, error) {
	b := bytebuffer.Get()
	if br, ok := r.(interface{ Len() int }); ok {
		if n := br.Len(); cap(b.B) < n {
			b.B = make([]byte, 0, n)
		}
	}
	if _, err := b.ReadFrom(r); err != nil {
		bytebuffer.Put(b)
		return nil, err
	}
	return b, nil
}
