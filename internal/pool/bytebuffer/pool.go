package bytebuffer

import (
	"github.com/valyala/bytebufferpool"
	"go.uber.org/atomic"

	"github.com/lk2023060901/blitz/pkg/metrics"
)

// Pool 为具名的暂存缓冲池，可被多个 goroutine 并发使用。
type Pool struct {
	name        string
	pool        bytebufferpool.Pool
	outstanding atomic.Int64
}

// Default 为未显式指定池时使用的共享池。
var Default = NewPool("default")

// NewPool 创建一个具名暂存缓冲池，名称用作指标标签。
func NewPool(name string) *Pool {
	return &Pool{name: name}
}

// Name 返回池名称。
func (p *Pool) Name() string {
	return p.name
}

// Get 借出一个空的 Owned 暂存载荷。
func (p *Pool) Get() *Staged {
	s := &Staged{
		buf:       p.pool.Get(),
		pool:      p,
		ownership: Owned,
	}
	p.outstanding.Inc()
	metrics.StagedAcquired.WithLabelValues(p.name).Inc()
	metrics.StagedOutstanding.WithLabelValues(p.name).Inc()
	return s
}

// Outstanding 返回已借出且尚未归还的数量。
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}

func (p *Pool) put(b *bytebufferpool.ByteBuffer) {
	p.pool.Put(b)
	p.outstanding.Dec()
	metrics.StagedReleased.WithLabelValues(p.name).Inc()
	metrics.StagedOutstanding.WithLabelValues(p.name).Dec()
}
