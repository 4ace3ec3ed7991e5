package engine

import (
	"sync"

	"github.com/helioseng/helios/model"
)

// contextPool hands out *Context scratch buffers sized for whatever model
// is currently active, rebuilding a pooled Context in place when the
// caller's bound generation no longer matches (spec §5's model-swap
// detector), mirroring the teacher's searchStatePool.
type contextPool struct {
	pool sync.Pool
}

func newContextPool() *contextPool {
	return &contextPool{}
}

// acquire returns a Context bound to m, either a fresh one or a pooled one
// rebound in place if its generation is stale.
func (p *contextPool) acquire(m *model.Model) *Context {
	v := p.pool.Get()
	if v == nil {
		return newContext(m)
	}
	ctx := v.(*Context)
	if ctx.BoundGeneration != m.Generation {
		ctx.rebind(m)
		return ctx
	}
	ctx.reset()
	return ctx
}

// release returns ctx to the pool for reuse by this or another worker. The
// caller must not touch ctx again after release.
func (p *contextPool) release(ctx *Context) {
	p.pool.Put(ctx)
}
