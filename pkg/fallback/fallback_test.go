package fallback

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lk2023060901/blitz/internal/compressor"
	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

type order struct {
	Symbol string            `msgpack:"symbol" json:"symbol"`
	Qty    int               `msgpack:"qty" json:"qty"`
	Attrs  map[string]string `msgpack:"attrs" json:"attrs"`
}

func sampleOrder() order {
	return order{
		Symbol: "BTC-USD",
		Qty:    42,
		Attrs:  map[string]string{"side": "buy", "venue": "x", "tif": "gtc"},
	}
}

type EncoderSuite struct {
	suite.Suite
	pool *bytebuffer.Pool
}

func (s *EncoderSuite) SetupTest() {
	s.pool = bytebuffer.NewPool("fallback-test")
}

func (s *EncoderSuite) TearDownTest() {
	s.EqualValues(0, s.pool.Outstanding(), "staged buffers leaked")
}

func (s *EncoderSuite) roundTrip(enc Encoder) {
	in := sampleOrder()
	size, staged, err := enc.SizeOf(in)
	s.Require().NoError(err)
	defer staged.Release()
	s.EqualValues(framer.HeaderSize+staged.Len(), size)

	// 同一个值重复计算大小结果一致
	size2, staged2, err := enc.SizeOf(in)
	s.Require().NoError(err)
	staged2.Release()
	s.Equal(size, size2)

	var out order
	s.Require().NoError(enc.Deserialize(bytes.NewReader(staged.Bytes()), &out))
	s.Equal(in, out)
}

func (s *EncoderSuite) TestMsgpack() {
	enc := NewMsgpack(s.pool)
	s.Equal(framer.MarkerMsgpack, enc.Marker())
	s.roundTrip(enc)

	// map 键排序后输出完全一致
	a, err := enc.Serialize(sampleOrder())
	s.Require().NoError(err)
	defer a.Release()
	b, err := enc.Serialize(sampleOrder())
	s.Require().NoError(err)
	defer b.Release()
	s.Equal(a.Bytes(), b.Bytes())

	_, err = enc.Serialize(make(chan int))
	s.ErrorIs(err, merr.ErrEncodeFailed)

	var out order
	err = enc.Deserialize(bytes.NewReader([]byte{0xc1}), &out)
	s.ErrorIs(err, merr.ErrDecodeFailed)
}

func (s *EncoderSuite) TestJSON() {
	enc := NewJSON(s.pool)
	s.Equal(framer.MarkerJSON, enc.Marker())
	s.roundTrip(enc)

	staged, err := enc.Serialize(map[string]int{"b": 2, "a": 1})
	s.Require().NoError(err)
	defer staged.Release()
	s.True(strings.HasPrefix(string(staged.Bytes()), "{"))

	var out order
	s.ErrorIs(enc.Deserialize(strings.NewReader("{not json"), &out), merr.ErrDecodeFailed)
}

func (s *EncoderSuite) TestProto() {
	enc := NewProto(s.pool)
	s.Equal(framer.MarkerProto, enc.Marker())

	in := wrapperspb.String("fixed point")
	size, staged, err := enc.SizeOf(in)
	s.Require().NoError(err)
	defer staged.Release()
	s.EqualValues(framer.HeaderSize+proto.Size(in), size)

	// 解码到 nil 指针时自动分配
	var out *wrapperspb.StringValue
	s.Require().NoError(enc.Deserialize(bytes.NewReader(staged.Bytes()), &out))
	s.Equal("fixed point", out.GetValue())

	direct := &wrapperspb.StringValue{}
	s.Require().NoError(enc.Deserialize(bytes.NewReader(staged.Bytes()), direct))
	s.True(proto.Equal(in, direct))

	_, err = enc.Serialize(sampleOrder())
	s.ErrorIs(err, merr.ErrUnsupportedType)
	var bad order
	s.ErrorIs(enc.Deserialize(bytes.NewReader(nil), &bad), merr.ErrUnsupportedType)
}

func (s *EncoderSuite) TestCompressed() {
	zstd, err := compressor.NewZstdCompressor()
	s.Require().NoError(err)
	defer zstd.Close()

	enc := NewCompressed(NewMsgpack(s.pool), zstd, s.pool)
	s.Equal(framer.MarkerMsgpack|framer.FlagCompressed, enc.Marker())
	s.True(enc.Marker().Compressed())
	s.Equal(framer.MarkerMsgpack, enc.Inner().Marker())
	s.roundTrip(enc)

	big := order{Symbol: strings.Repeat("ETH", 1000)}
	plain, err := enc.Inner().Serialize(big)
	s.Require().NoError(err)
	defer plain.Release()
	packed, err := enc.Serialize(big)
	s.Require().NoError(err)
	defer packed.Release()
	s.Less(packed.Len(), plain.Len())

	var out order
	s.ErrorIs(enc.Deserialize(bytes.NewReader([]byte("garbage")), &out), merr.ErrDecodeFailed)

	// 解压后超过 1KB 上限
	limited, err := compressor.NewZstdCompressor(compressor.WithMaxDecodedSize(1024))
	s.Require().NoError(err)
	defer limited.Close()
	bounded := NewCompressed(NewMsgpack(s.pool), limited, s.pool)
	s.ErrorIs(bounded.Deserialize(bytes.NewReader(packed.Bytes()), &out), merr.ErrDecodeFailed)
}

func (s *EncoderSuite) TestCompressedNop() {
	enc := NewCompressed(NewJSON(s.pool), nil, s.pool)
	s.roundTrip(enc)
}

func TestEncoders(t *testing.T) {
	suite.Run(t, new(EncoderSuite))
}

func TestNew(t *testing.T) {
	for format, marker := range map[string]framer.Marker{
		"":            framer.MarkerMsgpack,
		FormatMsgpack: framer.MarkerMsgpack,
		FormatJSON:    framer.MarkerJSON,
		FormatProto:   framer.MarkerProto,
	} {
		enc, err := New(format, nil)
		require.NoError(t, err)
		assert.Equal(t, marker, enc.Marker())
	}

	_, err := New("bson", nil)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}
