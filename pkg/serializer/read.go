package serializer

import (
	"bytes"
	"io"

	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/pkg/metrics"
	"github.com/lk2023060901/blitz/pkg/typemeta"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Read 从 src[offset:] 读取一个 T，返回值与消耗的字节数。
//
// 定长类型按固定大小读取；其余类型先解析帧头，再按格式标记解码载荷。
func Read[T any](s *Serializer, src []byte, offset uint32) (T, uint32, error) {
	var zero T
	if uint64(offset) > uint64(len(src)) {
		return zero, 0, merr.WrapErrDestinationTooSmall(uint64(offset), len(src), "read offset")
	}
	src = src[offset:]

	desc := typemeta.LookupOf[T](s.registry)
	if size, ok := desc.FixedSize(); ok {
		v, err := desc.ReadFixed(src)
		if err != nil {
			return zero, 0, err
		}
		return v.(T), size, nil
	}

	h, err := framer.ParseHeader(src)
	if err != nil {
		return zero, 0, err
	}
	if uint64(h.Size) > uint64(len(src)) {
		return zero, 0, merr.WrapErrFrameMalformed("truncated frame")
	}
	v, err := decodePayload[T](s, desc, h.Marker, src[framer.HeaderSize:h.Size])
	if err != nil {
		return zero, 0, err
	}
	return v, h.Size, nil
}

// ReadFrom 从流中读取一个 T。定长类型读取固定字节数，其余类型读取一整帧。
func ReadFrom[T any](s *Serializer, r io.Reader) (T, error) {
	var zero T
	staged := s.pool.Get()
	defer staged.Release()

	desc := typemeta.LookupOf[T](s.registry)
	if size, ok := desc.FixedSize(); ok {
		if _, err := io.ReadFull(r, staged.Grow(int(size))); err != nil {
			return zero, merr.WrapErrDecodeFailed("fixed", err)
		}
		v, err := desc.ReadFixed(staged.Bytes())
		if err != nil {
			return zero, err
		}
		return v.(T), nil
	}

	h, err := s.framer.ReadFrame(r, staged)
	if err != nil {
		return zero, err
	}
	return decodePayload[T](s, desc, h.Marker, staged.Bytes())
}

func decodePayload[T any](s *Serializer, desc *typemeta.Descriptor, marker framer.Marker, payload []byte) (T, error) {
	var out T
	metrics.SerializerReads.WithLabelValues(marker.String()).Inc()

	if marker == framer.MarkerStaged {
		if desc == nil || desc.Layout != typemeta.LayoutStaged {
			return out, merr.WrapErrUnsupportedType(typemeta.Of[T](), "staged frame for a type without staged layout")
		}
		v, err := desc.Unstage(payload)
		if err != nil {
			return out, err
		}
		return v.(T), nil
	}

	dec, ok := s.decoders[marker]
	if !ok {
		return out, merr.WrapErrFrameUnknownMarker(marker)
	}
	if err := dec.Deserialize(bytes.NewReader(payload), &out); err != nil {
		return out, err
	}
	return out, nil
}
