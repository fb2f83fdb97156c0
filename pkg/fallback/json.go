package fallback

import (
	"io"

	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/json"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// JSON 使用 internal/json 编解码，写出走流式接口，读取走 sonic。
type JSON struct {
	pool *bytebuffer.Pool
}

// 编译期断言：确保 JSON 实现了 Encoder 接口。
var _ Encoder = (*JSON)(nil)

func NewJSON(pool *bytebuffer.Pool) *JSON {
	return &JSON{pool: poolOrDefault(pool)}
}

func (*JSON) Marker() framer.Marker {
	return framer.MarkerJSON
}

func (j *JSON) SizeOf(v any) (uint32, *bytebuffer.Staged, error) {
	return sizeOf(j, v)
}

func (j *JSON) Serialize(v any) (*bytebuffer.Staged, error) {
	staged := j.pool.Get()
	if err := json.WriteTo(staged, v); err != nil {
		staged.Release()
		return nil, merr.WrapErrEncodeFailed(FormatJSON, err)
	}
	return staged, nil
}

func (*JSON) Deserialize(r io.Reader, v any) error {
	raw, err := readAll(r)
	if err != nil {
		return merr.WrapErrDecodeFailed(FormatJSON, err)
	}
	defer bytebuffer.Put(raw)

	return merr.WrapErrDecodeFailed(FormatJSON, json.Unmarshal(raw.B, v))
}
