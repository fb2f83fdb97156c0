package bytebuffer

import (
	"github.com/valyala/bytebufferpool"
	"go.uber.org/atomic"
)

// Ownership 描述暂存缓冲区底层内存的归属。
type Ownership uint8

const (
	// Owned 表示内存从池中借出，释放时归还到池。
	Owned Ownership = iota
	// Borrowed 表示内存由调用方提供，释放时只做标记，不归还到任何池。
	Borrowed
)

func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// Staged 为一次编码产生的暂存载荷。
//
// 同一个 Staged 不允许在多个 goroutine 间共享。Release 只会生效一次，
// 之后 Bytes 返回 nil，Released 返回 true。
type Staged struct {
	buf       *bytebufferpool.ByteBuffer
	pool      *Pool
	ownership Ownership
	released  atomic.Bool
}

// Wrap 用调用方提供的切片构造一个 Borrowed 暂存载荷。
func Wrap(b []byte) *Staged {
	return &Staged{
		buf:       &bytebufferpool.ByteBuffer{B: b},
		ownership: Borrowed,
	}
}

// Ownership 返回所有权标记。
func (s *Staged) Ownership() Ownership {
	return s.ownership
}

// Bytes 返回载荷内容，释放后返回 nil。
func (s *Staged) Bytes() []byte {
	if s == nil || s.released.Load() {
		return nil
	}
	return s.buf.B
}

// Len 返回载荷长度。
func (s *Staged) Len() int {
	return len(s.Bytes())
}

// Released 判断是否已经释放。
func (s *Staged) Released() bool {
	return s == nil || s.released.Load()
}

// Write 实现 io.Writer，向载荷末尾追加数据。
func (s *Staged) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// WriteString 向载荷末尾追加字符串。
func (s *Staged) WriteString(str string) (int, error) {
	return s.buf.WriteString(str)
}

// Append 以 append 风格的编码函数扩展载荷，fn 接收当前内容并返回追加后的切片。
func (s *Staged) Append(fn func([]byte) ([]byte, error)) error {
	b, err := fn(s.buf.B)
	if err != nil {
		return err
	}
	s.buf.B = b
	return nil
}

// Grow 把载荷长度设为 n，并保证底层容量足够，新增部分内容未定义。
func (s *Staged) Grow(n int) []byte {
	if cap(s.buf.B) < n {
		s.buf.B = make([]byte, n)
	} else {
		s.buf.B = s.buf.B[:n]
	}
	return s.buf.B
}

// Reset 清空载荷内容，保留底层容量。
func (s *Staged) Reset() {
	s.buf.Reset()
}

// Release 释放载荷，只有第一次调用返回 true。
func (s *Staged) Release() bool {
	if s == nil || !s.released.CompareAndSwap(false, true) {
		return false
	}
	buf := s.buf
	s.buf = nil
	if s.ownership == Owned && s.pool != nil {
		s.pool.put(buf)
	}
	return true
}
