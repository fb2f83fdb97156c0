package framer

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// HeaderSize 为帧头长度。
//
// 帧格式：
//   - 字节 0..4：帧总长度（u32 小端），包含帧头自身的 8 字节。
//   - 字节 4   ：格式标记。
//   - 字节 5..8：保留，必须为 0。
//   - 之后为载荷。
const HeaderSize = 8

// Marker 为帧头中的格式标记。
type Marker uint8

const (
	// MarkerMsgpack 为默认的自描述回退格式。
	MarkerMsgpack Marker = 0
	// MarkerStaged 表示载荷由类型自身写出。
	MarkerStaged Marker = 1
	MarkerJSON   Marker = 2
	MarkerProto  Marker = 3

	// FlagCompressed 置位时表示载荷经过 zstd 压缩。
	FlagCompressed Marker = 0x80
)

const formatMask Marker = 0x7F

// Format 返回去掉压缩位之后的格式。
func (m Marker) Format() Marker {
	return m & formatMask
}

// Compressed 判断压缩位是否置位。
func (m Marker) Compressed() bool {
	return m&FlagCompressed != 0
}

// Known 判断格式是否可识别。
func (m Marker) Known() bool {
	return m.Format() <= MarkerProto
}

func (m Marker) String() string {
	var name string
	switch m.Format() {
	case MarkerMsgpack:
		name = "msgpack"
	case MarkerStaged:
		name = "staged"
	case MarkerJSON:
		name = "json"
	case MarkerProto:
		name = "proto"
	default:
		name = "unknown"
	}
	if m.Compressed() {
		return name + "+zstd"
	}
	return name
}

// Header 为解析后的帧头。
type Header struct {
	// Size 为帧总长度，包含帧头。
	Size   uint32
	Marker Marker
}

// PayloadLen 返回载荷长度。
func (h Header) PayloadLen() int {
	return int(h.Size) - HeaderSize
}

// PutHeader 把帧头写入 dst 的前 8 个字节，dst 长度由调用方保证。
func PutHeader(dst []byte, h Header) {
	_ = dst[HeaderSize-1]
	binary.LittleEndian.PutUint32(dst[0:4], h.Size)
	dst[4] = byte(h.Marker)
	dst[5], dst[6], dst[7] = 0, 0, 0
}

// ParseHeader 从 src 的前 8 个字节解析帧头。
func ParseHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, merr.WrapErrFrameMalformed("short header")
	}
	if src[5] != 0 || src[6] != 0 || src[7] != 0 {
		return Header{}, merr.WrapErrFrameMalformed("reserved bytes not zero")
	}
	h := Header{
		Size:   binary.LittleEndian.Uint32(src[0:4]),
		Marker: Marker(src[4]),
	}
	if h.Size < HeaderSize {
		return Header{}, merr.WrapErrFrameMalformed("size smaller than header")
	}
	if !h.Marker.Known() {
		return Header{}, merr.WrapErrFrameUnknownMarker(h.Marker)
	}
	return h, nil
}

// Framer 负责帧长度计算与从流中读取整帧。
type Framer struct {
	// MaxFrameSize 为允许的最大帧长度（含帧头），单位字节。
	// 为 0 时使用默认值 DefaultMaxFrameSize。
	MaxFrameSize uint32
}

// DefaultMaxFrameSize 为默认的最大帧长度。
// 需要更大的帧时显式指定 MaxFrameSize，上限为 math.MaxUint32。
const DefaultMaxFrameSize uint32 = 16 * 1024 * 1024 // 16MB

// NewFramer 创建一个 Framer，maxFrameSize 为 0 时使用默认值。
func NewFramer(maxFrameSize uint32) *Framer {
	if maxFrameSize == 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	return &Framer{
		MaxFrameSize: maxFrameSize,
	}
}

// Size 根据载荷长度计算帧总长度，超出 u32 或最大帧长度时返回 ErrOverflow。
func (f *Framer) Size(payloadLen int) (uint32, error) {
	total := uint64(payloadLen) + HeaderSize
	if total > uint64(f.effectiveMaxSize()) {
		return 0, merr.WrapErrOverflow("frame size", fmt.Sprintf("frame size %d exceeds max %d", total, f.effectiveMaxSize()))
	}
	return uint32(total), nil
}

// ReadFrame 从 r 中读取一帧，载荷写入 dst（原有内容会被覆盖）。
func (f *Framer) ReadFrame(r io.Reader, dst *bytebuffer.Staged) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Header{}, merr.WrapErrDecodeFailed("frame header", err)
	}
	h, err := ParseHeader(raw[:])
	if err != nil {
		return Header{}, err
	}
	if h.Size > f.effectiveMaxSize() {
		return Header{}, merr.WrapErrFrameMalformed("frame exceeds max size")
	}

	// 按实际读到的字节增长，帧头声明的长度不直接用于分配。
	dst.Reset()
	if n, err := io.CopyN(dst, r, int64(h.PayloadLen())); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Header{}, merr.WrapErrDecodeFailed("frame body", fmt.Errorf("read %d of %d bytes: %w", n, h.PayloadLen(), err))
	}
	return h, nil
}

func (f *Framer) effectiveMaxSize() uint32 {
	if f == nil || f.MaxFrameSize == 0 {
		return DefaultMaxFrameSize
	}
	return f.MaxFrameSize
}
