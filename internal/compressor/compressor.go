package compressor

// Compressor 抽象了“单次压缩/解压”能力。
//
// 面向内存中的单块载荷，不做全局单例，调用方按需创建具体实现的实例。
type Compressor interface {
	// Compress 将 src 压缩后追加到 dst 末尾并返回结果。
	Compress(dst, src []byte) (packet []byte, err error)

	// Decompress 将 Compress 的输出 src 解压后追加到 dst 末尾并返回结果。
	Decompress(dst, src []byte) (plain []byte, err error)
}

// NopCompressor 不做任何压缩，原样追加。
type NopCompressor struct{}

func (NopCompressor) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (NopCompressor) Decompress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// 编译期断言：确保 NopCompressor 实现了 Compressor 接口。
var _ Compressor = NopCompressor{}
