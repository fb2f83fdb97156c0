// Package json 统一项目内的 JSON 编解码入口。
//
// 整块编解码走 bytedance/sonic，流式写出走 json-iterator 的 Stream 复用池。
package json

import (
	gojson "encoding/json"
	"io"

	"github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"
)

var (
	api    = sonic.ConfigStd
	stream = jsoniter.ConfigCompatibleWithStandardLibrary

	Marshal       = api.Marshal
	Unmarshal     = api.Unmarshal
	MarshalIndent = api.MarshalIndent
	Valid         = api.Valid
)

type (
	RawMessage = gojson.RawMessage
	Number     = gojson.Number
)

// WriteTo 把 v 的 JSON 编码直接写入 w，不追加换行。
func WriteTo(w io.Writer, v any) error {
	s := stream.BorrowStream(w)
	defer stream.ReturnStream(s)
	s.WriteVal(v)
	if s.Error != nil {
		return s.Error
	}
	return s.Flush()
}

// NewDecoder 基于 json-iterator 创建流式解码器。
func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return stream.NewDecoder(r)
}
