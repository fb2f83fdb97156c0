package framer

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize)
	for i := range buf {
		buf[i] = 0xEE
	}
	PutHeader(buf, Header{Size: 0x0102_0304, Marker: MarkerJSON | FlagCompressed})
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0x82, 0, 0, 0}, buf)

	h, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0102_0304, h.Size)
	assert.Equal(t, MarkerJSON, h.Marker.Format())
	assert.True(t, h.Marker.Compressed())
	assert.Equal(t, "json+zstd", h.Marker.String())
	assert.Equal(t, 0x0102_0304-HeaderSize, h.PayloadLen())
}

func TestParseHeaderErrors(t *testing.T) {
	_, err := ParseHeader([]byte{8, 0, 0})
	assert.ErrorIs(t, err, merr.ErrFrameMalformed)

	_, err = ParseHeader([]byte{8, 0, 0, 0, 0, 1, 0, 0})
	assert.ErrorIs(t, err, merr.ErrFrameMalformed)

	_, err = ParseHeader([]byte{7, 0, 0, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, merr.ErrFrameMalformed)

	_, err = ParseHeader([]byte{8, 0, 0, 0, 9, 0, 0, 0})
	assert.ErrorIs(t, err, merr.ErrFrameUnknownMarker)

	h, err := ParseHeader([]byte{8, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, h.PayloadLen())
	assert.Equal(t, "msgpack", h.Marker.String())
}

func TestFramerSize(t *testing.T) {
	def := NewFramer(0)
	size, err := def.Size(10)
	require.NoError(t, err)
	assert.EqualValues(t, 18, size)
	_, err = def.Size(int(DefaultMaxFrameSize))
	assert.ErrorIs(t, err, merr.ErrOverflow)

	f := NewFramer(math.MaxUint32)

	_, err = f.Size(math.MaxUint32 - 7)
	assert.ErrorIs(t, err, merr.ErrOverflow)
	size, err = f.Size(math.MaxUint32 - 8)
	require.NoError(t, err)
	assert.EqualValues(t, uint32(math.MaxUint32), size)

	small := NewFramer(64)
	_, err = small.Size(57)
	assert.ErrorIs(t, err, merr.ErrOverflow)
	size, err = small.Size(56)
	require.NoError(t, err)
	assert.EqualValues(t, 64, size)
}

func TestReadFrame(t *testing.T) {
	payload := []byte("payload-bytes")
	frame := make([]byte, HeaderSize+len(payload))
	PutHeader(frame, Header{Size: uint32(len(frame)), Marker: MarkerStaged})
	copy(frame[HeaderSize:], payload)

	// 两帧连续写入同一个流
	stream := bytes.NewReader(append(append([]byte{}, frame...), frame...))
	pool := bytebuffer.NewPool("framer-test")
	dst := pool.Get()
	defer dst.Release()

	f := NewFramer(0)
	for i := 0; i < 2; i++ {
		h, err := f.ReadFrame(stream, dst)
		require.NoError(t, err)
		assert.Equal(t, MarkerStaged, h.Marker)
		assert.Equal(t, payload, dst.Bytes())
	}

	_, err := f.ReadFrame(stream, dst)
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)

	// 截断的载荷
	_, err = f.ReadFrame(bytes.NewReader(frame[:len(frame)-1]), dst)
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)

	_, err = NewFramer(16).ReadFrame(bytes.NewReader(frame), dst)
	assert.ErrorIs(t, err, merr.ErrFrameMalformed)
}

func TestReadFrameOversizedHeader(t *testing.T) {
	// 只有帧头，声明约 3.75GB 的载荷
	hdr := make([]byte, HeaderSize)
	PutHeader(hdr, Header{Size: 0xF000_0000, Marker: MarkerMsgpack})

	pool := bytebuffer.NewPool("framer-oversized")
	dst := pool.Get()
	defer dst.Release()

	_, err := NewFramer(0).ReadFrame(bytes.NewReader(hdr), dst)
	assert.ErrorIs(t, err, merr.ErrFrameMalformed)

	// 放开上限后，缓冲只随实际读到的字节增长
	body := bytes.Repeat([]byte{0xAB}, 100)
	_, err = NewFramer(math.MaxUint32).ReadFrame(bytes.NewReader(append(hdr, body...)), dst)
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
	assert.Equal(t, len(body), dst.Len())
	assert.Less(t, cap(dst.Bytes()), 1<<20)
}
