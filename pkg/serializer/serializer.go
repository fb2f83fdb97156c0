package serializer

import (
	"io"
	"reflect"

	"github.com/lk2023060901/blitz/internal/compressor"
	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/fallback"
	"github.com/lk2023060901/blitz/pkg/metrics"
	"github.com/lk2023060901/blitz/pkg/typemeta"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

var (
	writesFixed        = metrics.SerializerWrites.WithLabelValues(metrics.PathFixedLabel)
	writesStaged       = metrics.SerializerWrites.WithLabelValues(metrics.PathStagedLabel)
	writesFallback     = metrics.SerializerWrites.WithLabelValues(metrics.PathFallbackLabel)
	writeBytesFixed    = metrics.SerializerWriteBytes.WithLabelValues(metrics.PathFixedLabel)
	writeBytesStaged   = metrics.SerializerWriteBytes.WithLabelValues(metrics.PathStagedLabel)
	writeBytesFallback = metrics.SerializerWriteBytes.WithLabelValues(metrics.PathFallbackLabel)
)

// Serializer 为序列化入口，创建后只读，可被多个 goroutine 并发使用。
type Serializer struct {
	registry *typemeta.Registry
	pool     *bytebuffer.Pool
	fallback fallback.Encoder
	decoders map[framer.Marker]fallback.Encoder
	framer   *framer.Framer
	verify   bool

	closer *compressor.ZstdCompressor
}

// New 创建一个 Serializer。未指定的依赖使用默认值：
// 内置类型的 Registry、bytebuffer.Default 与 msgpack 回退编码器。
func New(opts ...Option) *Serializer {
	opt := defaultOptions()
	for _, o := range opts {
		o(opt)
	}
	if opt.registry == nil {
		opt.registry = typemeta.NewRegistry()
	}
	if opt.pool == nil {
		opt.pool = bytebuffer.Default
	}
	if opt.fallback == nil {
		opt.fallback = fallback.NewMsgpack(opt.pool)
	}

	s := &Serializer{
		registry: opt.registry,
		pool:     opt.pool,
		fallback: opt.fallback,
		decoders: make(map[framer.Marker]fallback.Encoder),
		framer:   framer.NewFramer(opt.maxFrameSize),
		verify:   opt.verifyStaged,
	}

	c := opt.compressor
	if compressed, ok := opt.fallback.(*fallback.Compressed); ok && c == nil {
		c = compressed.Compressor()
	}
	for _, dec := range []fallback.Encoder{
		fallback.NewMsgpack(opt.pool),
		fallback.NewJSON(opt.pool),
		fallback.NewProto(opt.pool),
	} {
		s.decoders[dec.Marker()] = dec
		if c != nil {
			compressed := fallback.NewCompressed(dec, c, opt.pool)
			s.decoders[compressed.Marker()] = compressed
		}
	}
	s.decoders[opt.fallback.Marker()] = opt.fallback
	return s
}

// Registry 返回使用的类型描述注册表。
func (s *Serializer) Registry() *typemeta.Registry {
	return s.registry
}

// Pool 返回使用的暂存缓冲池。
func (s *Serializer) Pool() *bytebuffer.Pool {
	return s.pool
}

// Fallback 返回回退编码器。
func (s *Serializer) Fallback() fallback.Encoder {
	return s.fallback
}

// VerifyStaged 判断是否开启了 Probe 一致性校验。
func (s *Serializer) VerifyStaged() bool {
	return s.verify
}

// Close 释放由 NewFromConfig 创建的压缩器。
func (s *Serializer) Close() {
	s.closer.Close()
}

// typeOf 返回 T 的静态类型；T 为接口时返回 v 的动态类型，且 dynamic 为 true。
//
// 接口类型的调用方在读取时拿不到具体类型，这类值一律走回退路径，
// 由自描述的载荷携带类型信息。
func typeOf[T any](v T) (t reflect.Type, dynamic bool) {
	t = typemeta.Of[T]()
	if t.Kind() == reflect.Interface {
		return reflect.TypeOf(v), true
	}
	return t, false
}

// SizeOf 返回 T 的固定大小，T 为变长类型或接口时 ok 为 false。
func SizeOf[T any](s *Serializer) (size uint32, ok bool) {
	return typemeta.FixedSize[T](s.registry)
}

// ProbeSize 计算 v 写入所需的总字节数。
//
// 对暂存与回退路径，v 会被编码到暂存载荷中，并随 Probe 返回给调用方。
func ProbeSize[T any](s *Serializer, v T) (*Probe, error) {
	t, dynamic := typeOf(v)
	return s.probe(t, dynamic, v)
}

func (s *Serializer) probe(t reflect.Type, dynamic bool, v any) (*Probe, error) {
	var desc *typemeta.Descriptor
	if !dynamic {
		desc = s.registry.Lookup(t)
	}
	if size, ok := desc.FixedSize(); ok {
		return &Probe{size: size, path: PathFixed, typ: t, desc: desc}, nil
	}

	p := &Probe{typ: t, dynamic: dynamic, desc: desc}
	if desc != nil {
		staged := s.pool.Get()
		if err := desc.Stage(v, staged); err != nil {
			staged.Release()
			return nil, err
		}
		p.path, p.marker, p.staged = PathStaged, framer.MarkerStaged, staged
	} else {
		staged, err := s.fallback.Serialize(v)
		if err != nil {
			return nil, err
		}
		p.path, p.marker, p.staged = PathFallback, s.fallback.Marker(), staged
	}

	size, err := s.framer.Size(p.staged.Len())
	if err != nil {
		p.Release()
		return nil, err
	}
	p.size = size
	return p, nil
}

// Write 把 v 写入 dst[offset:]，返回写入的字节数。
//
// probe 为 nil 时内部自行计算；非 nil 时必须来自对同一个值的 ProbeSize，
// 无论成功与否都会被释放，调用方之后不得再使用它。
// dst 空间不足时返回 ErrDestinationTooSmall，且不写入任何字节。
func Write[T any](s *Serializer, v T, dst []byte, offset uint32, probe *Probe) (n uint32, err error) {
	defer func() {
		probe.Release()
	}()

	t, dynamic := typeOf(v)
	if probe == nil {
		if !dynamic {
			desc := s.registry.Lookup(t)
			if size, ok := desc.FixedSize(); ok {
				return s.writeFixed(desc, v, dst, offset, size)
			}
		}
		if probe, err = s.probe(t, dynamic, v); err != nil {
			return 0, err
		}
	} else if err = s.checkProbe(probe, t, dynamic, v); err != nil {
		return 0, err
	}

	if probe.path == PathFixed {
		return s.writeFixed(probe.desc, v, dst, offset, probe.size)
	}
	return s.writeFramed(probe, dst, offset)
}

// checkProbe 校验调用方传入的 Probe 是否可用于 v。
func (s *Serializer) checkProbe(probe *Probe, t reflect.Type, dynamic bool, v any) error {
	if probe.Consumed() || (probe.path != PathFixed && probe.staged.Released()) {
		return merr.WrapErrStagedReleased()
	}
	if probe.typ != t {
		return merr.WrapErrProbeMismatch(probe.typ, t, "probe was computed for another type")
	}
	if probe.dynamic != dynamic {
		return merr.WrapErrProbeMismatch(probe.dynamic, dynamic, "interface dispatch differs between probe and write")
	}
	if !s.verify || probe.path == PathFixed {
		return nil
	}

	fresh, err := s.probe(t, dynamic, v)
	if err != nil {
		return err
	}
	defer fresh.Release()
	if fresh.size != probe.size || fresh.marker != probe.marker {
		metrics.SerializerProbeMismatch.Inc()
		return merr.WrapErrProbeMismatch(probe.size, fresh.size, "staged payload drifted from value")
	}
	return nil
}

func (s *Serializer) writeFixed(desc *typemeta.Descriptor, v any, dst []byte, offset, size uint32) (uint32, error) {
	end := uint64(offset) + uint64(size)
	if end > uint64(len(dst)) {
		return 0, merr.WrapErrDestinationTooSmall(end, len(dst))
	}
	n := desc.WriteFixed(v, dst[offset:end])
	writesFixed.Inc()
	writeBytesFixed.Observe(float64(n))
	return n, nil
}

func (s *Serializer) writeFramed(probe *Probe, dst []byte, offset uint32) (uint32, error) {
	end := uint64(offset) + uint64(probe.size)
	if end > uint64(len(dst)) {
		return 0, merr.WrapErrDestinationTooSmall(end, len(dst))
	}
	out := dst[offset:end]
	framer.PutHeader(out, framer.Header{Size: probe.size, Marker: probe.marker})
	copy(out[framer.HeaderSize:], probe.staged.Bytes())

	if probe.path == PathStaged {
		writesStaged.Inc()
		writeBytesStaged.Observe(float64(probe.size))
	} else {
		writesFallback.Inc()
		writeBytesFallback.Observe(float64(probe.size))
	}
	return probe.size, nil
}

// WriteRaw 为调用方已经编码好的载荷加上帧头写入 dst[offset:]，payload 不会被修改或归还到池。
func (s *Serializer) WriteRaw(marker framer.Marker, payload []byte, dst []byte, offset uint32) (uint32, error) {
	if !marker.Known() {
		return 0, merr.WrapErrFrameUnknownMarker(marker)
	}
	staged := bytebuffer.Wrap(payload)
	defer staged.Release()

	size, err := s.framer.Size(staged.Len())
	if err != nil {
		return 0, err
	}
	return s.writeFramed(&Probe{size: size, path: PathFallback, marker: marker, staged: staged}, dst, offset)
}

// SerializeToStream 直接写入流，尚未实现。
func (s *Serializer) SerializeToStream(w io.Writer, v any) error {
	return merr.WrapErrNotImplemented("SerializeToStream")
}

// SerializeToBytes 写入新分配的字节切片，尚未实现。
func (s *Serializer) SerializeToBytes(v any) ([]byte, error) {
	return nil, merr.WrapErrNotImplemented("SerializeToBytes")
}
