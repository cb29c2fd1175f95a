package osc

import (
	"sync"
)

// Path is a handler that registers itself on creation and removes itself from
// its Registry when closed or when the Registry goes away first.
type Path struct {
	addr string
	fn   func(Payload)

	mu     sync.Mutex
	reg    *Registry
	handle Handle
}

// NewPath registers a Path for addr on r. fn is called for every message whose
// address pattern matches addr.
func NewPath(r *Registry, addr string, fn func(Payload)) (*Path, error) {
	p := &Path{addr: addr, fn: fn}
	h, err := r.Register(p)
	if err != nil {
		return nil, err
	}
	p.reg, p.handle = r, h
	return p, nil
}

func (p *Path) Address() string {
	return p.addr
}

func (p *Path) Notify(payload Payload) {
	if p.fn != nil {
		p.fn(payload)
	}
}

// Invalidate implements Invalidator.
func (p *Path) Invalidate(r *Registry, h Handle) {
	p.detach(r, h)
}

// Registered reports whether p is still attached to a Registry.
func (p *Path) Registered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reg != nil
}

// Close unregisters p. It is safe to call more than once, and from within the
// Path's own callback.
func (p *Path) Close() error {
	p.mu.Lock()
	r, h := p.reg, p.handle
	p.mu.Unlock()

	if r != nil {
		p.detach(r, h)
	}
	return nil
}

func (p *Path) detach(r *Registry, h Handle) {
	p.mu.Lock()
	if p.reg == r && p.handle == h {
		p.reg, p.handle = nil, 0
	}
	p.mu.Unlock()

	r.Unregister(h)
}
