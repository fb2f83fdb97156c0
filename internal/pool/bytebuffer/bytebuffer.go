// Package bytebuffer 提供可复用的暂存缓冲区。
//
// 底层基于 valyala/bytebufferpool，按池统计借出与归还数量。
// Staged 句柄带有所有权标记与只释放一次的保护。
package bytebuffer

import (
	"github.com/valyala/bytebufferpool"
)

var rawPool bytebufferpool.Pool

// Get 从共享池中取出一个原始 ByteBuffer，用完后必须调用 Put 归还。
func Get() *bytebufferpool.ByteBuffer {
	return rawPool.Get()
}

// Put 把原始 ByteBuffer 归还到共享池，归还后调用方不得再使用它。
func Put(b *bytebufferpool.ByteBuffer) {
	if b == nil {
		return
	}
	rawPool.Put(b)
}
