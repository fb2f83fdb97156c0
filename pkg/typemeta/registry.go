package typemeta

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/lk2023060901/blitz/pkg/log"
	"github.com/lk2023060901/blitz/pkg/util/merr"
)

// Registry 维护类型到能力描述的映射，可被多个 goroutine 并发使用。
//
// 未显式注册的类型在第一次查询时按其实现的接口推导一次，
// 推导结果（包括“未知”）会被缓存，之后的查询不再反射。
type Registry struct {
	descs *xsync.MapOf[reflect.Type, *Descriptor]
}

// NewRegistry 创建一个已注册内置类型的 Registry。
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, d := range builtins() {
		r.descs.Store(d.Type, d)
	}
	return r
}

// NewEmptyRegistry 创建一个不含任何内置类型的 Registry。
func NewEmptyRegistry() *Registry {
	return &Registry{
		descs: xsync.NewMapOf[reflect.Type, *Descriptor](),
	}
}

// Register 注册或覆盖一个类型的描述。
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Type == nil {
		return merr.WrapErrParameterInvalidMsg("descriptor without type")
	}
	switch d.Layout {
	case LayoutFixed:
		if d.Size == 0 || d.write == nil || d.read == nil {
			return merr.WrapErrParameterInvalidMsg("fixed descriptor for %s needs a positive size and reader/writer", d.Type)
		}
	case LayoutStaged:
		if d.stage == nil || d.unstage == nil {
			return merr.WrapErrParameterInvalidMsg("staged descriptor for %s needs stage/unstage", d.Type)
		}
	default:
		return merr.WrapErrParameterInvalidMsg("descriptor for %s has unknown layout %d", d.Type, d.Layout)
	}
	r.descs.Store(d.Type, d)
	log.Debug("type descriptor registered",
		log.FieldComponent("typemeta"),
		zap.Stringer("type", d.Type),
		zap.Stringer("layout", d.Layout),
		zap.Uint32("size", d.Size))
	return nil
}

// Lookup 返回 t 的描述，类型未知时返回 nil。
func (r *Registry) Lookup(t reflect.Type) *Descriptor {
	if t == nil {
		return nil
	}
	d, _ := r.descs.LoadOrCompute(t, func() *Descriptor {
		return derive(t)
	})
	return d
}

// Len 返回已缓存的类型数量（含推导为未知的类型）。
func (r *Registry) Len() int {
	return r.descs.Size()
}

// LookupOf 返回 T 的描述。
func LookupOf[T any](r *Registry) *Descriptor {
	return r.Lookup(Of[T]())
}

// FixedSize 返回 T 的固定大小。
func FixedSize[T any](r *Registry) (uint32, bool) {
	return LookupOf[T](r).FixedSize()
}
