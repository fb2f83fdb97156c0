package serializer

import (
	"reflect"

	"go.uber.org/atomic"

	"github.com/lk2023060901/blitz/internal/framer"
	"github.com/lk2023060901/blitz/internal/pool/bytebuffer"
	"github.com/lk2023060901/blitz/pkg/metrics"
	"github.com/lk2023060901/blitz/pkg/typemeta"
)

// Path 为一次序列化选择的路径。
type Path uint8

const (
	PathFixed Path = iota + 1
	PathStaged
	PathFallback
)

func (p Path) String() string {
	switch p {
	case PathFixed:
		return metrics.PathFixedLabel
	case PathStaged:
		return metrics.PathStagedLabel
	case PathFallback:
		return metrics.PathFallbackLabel
	}
	return "unknown"
}

// Probe 为 ProbeSize 的结果。
//
// 定长路径只有大小；暂存与回退路径持有已编码的载荷，
// 必须交给一次 Write 消费，或者调用 Release 释放。
type Probe struct {
	size     uint32
	path     Path
	marker   framer.Marker
	typ      reflect.Type
	dynamic  bool
	desc     *typemeta.Descriptor
	staged   *bytebuffer.Staged
	consumed atomic.Bool
}

// Size 返回写入所需的总字节数，暂存与回退路径包含帧头。
func (p *Probe) Size() uint32 {
	return p.size
}

// Path 返回选择的路径。
func (p *Probe) Path() Path {
	return p.path
}

// Marker 返回帧头中的格式标记，定长路径无意义。
func (p *Probe) Marker() framer.Marker {
	return p.marker
}

// Payload 返回暂存载荷，定长路径或已释放时为 nil。
func (p *Probe) Payload() []byte {
	return p.staged.Bytes()
}

// Consumed 判断 Probe 是否已经被 Write 消费或被释放。
func (p *Probe) Consumed() bool {
	return p == nil || p.consumed.Load()
}

// Release 释放 Probe 持有的暂存载荷，只有第一次调用返回 true。
func (p *Probe) Release() bool {
	if p == nil || !p.consumed.CompareAndSwap(false, true) {
		return false
	}
	p.staged.Release()
	return true
}
