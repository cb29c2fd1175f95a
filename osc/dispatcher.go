package osc

import (
	"sync"
)

// Handler is a registered OSC method. Address is the literal address the
// handler answers to; it must not change while the handler is registered.
type Handler interface {
	Address() string
	Notify(p Payload)
}

// Invalidator is implemented by handlers that want to know when the Registry
// they are registered with is closing. Invalidate is called without any lock
// held, so it may call Unregister.
type Invalidator interface {
	Invalidate(r *Registry, h Handle)
}

type handlerFunc struct {
	addr string
	fn   func(Payload)
}

func (f *handlerFunc) Address() string  { return f.addr }
func (f *handlerFunc) Notify(p Payload) { f.fn(p) }

// Invalidate implements Invalidator. A plain function has nothing to release.
func (f *handlerFunc) Invalidate(*Registry, Handle) {}

// HandlerFunc returns a Handler for addr that calls fn.
func HandlerFunc(addr string, fn func(Payload)) Handler {
	return &handlerFunc{addr: addr, fn: fn}
}

// Handle identifies one registration. The zero Handle is never issued.
type Handle uint64

type entry struct {
	handle  Handle
	handler Handler
}

// Registry holds the handlers messages are dispatched to. Handlers are not
// owned by the Registry: they stay registered until they Unregister
// themselves or the Registry is closed.
//
// Registering the same Handler twice yields two handles and two notifications
// per matching message.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	live    map[Handle]struct{}
	next    Handle
	closed  bool

	onChange func(n int)
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[Handle]struct{})}
}

// OnChange sets fn to be called with the new number of registrations after
// every Register, Unregister and Close. fn runs without any lock held.
func (r *Registry) OnChange(fn func(n int)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// changed reports the registration count n to the OnChange hook. It must be
// called without r.mu held.
func (r *Registry) changed(fn func(int), n int) {
	if fn != nil {
		fn(n)
	}
}

// Register adds h to the registry and returns its handle.
func (r *Registry) Register(h Handler) (Handle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, ErrRegistryClosed
	}
	if r.live == nil {
		r.live = make(map[Handle]struct{})
	}

	r.next++
	handle := r.next
	r.entries = append(r.entries, entry{handle: handle, handler: h})
	r.live[handle] = struct{}{}
	fn, n := r.onChange, len(r.entries)
	r.mu.Unlock()

	r.changed(fn, n)
	return handle, nil
}

// Unregister removes the registration identified by h. It reports whether h
// was registered; unknown handles are a no-op. It is safe to call from within
// Notify or Invalidate.
func (r *Registry) Unregister(h Handle) bool {
	r.mu.Lock()
	if _, ok := r.live[h]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.live, h)

	// Rebuild instead of removing in place; in-flight dispatches hold the
	// previous slice.
	entries := make([]entry, 0, len(r.entries)-1)
	for _, e := range r.entries {
		if e.handle != h {
			entries = append(entries, e)
		}
	}
	r.entries = entries
	fn, n := r.onChange, len(entries)
	r.mu.Unlock()

	r.changed(fn, n)
	return true
}

// Registered reports whether h is currently registered.
func (r *Registry) Registered(h Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.live[h]
	return ok
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Addresses returns the registered addresses in registration order.
func (r *Registry) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addrs := make([]string, len(r.entries))
	for i, e := range r.entries {
		addrs[i] = e.handler.Address()
	}
	return addrs
}

func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries
}

// Dispatch notifies every registered handler whose address fully matches the
// address pattern of msg, in registration order, and returns how many were
// notified. An invalid pattern fails with a *PatternError before anyone is
// notified. Handlers unregistered while the dispatch is running are skipped.
func (r *Registry) Dispatch(msg *Message) (int, error) {
	entries := r.snapshot()
	if len(entries) == 0 {
		return 0, nil
	}

	re, err := compilePattern(msg.Address)
	if err != nil {
		return 0, err
	}

	payload := msg.Payload()
	n := 0
	for _, e := range entries {
		if !re.MatchString(e.handler.Address()) {
			continue
		}
		if !r.Registered(e.handle) {
			continue
		}
		e.handler.Notify(payload)
		n++
	}
	return n, nil
}

// Close invalidates every remaining registration, giving each Invalidator a
// chance to unregister itself, and then releases the registry storage.
// Handlers built with HandlerFunc are Invalidators that do nothing; other
// handlers that do not implement Invalidator are released without notice.
// After Close, Register fails with ErrRegistryClosed. Close is idempotent.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	entries := r.entries
	r.mu.Unlock()

	for _, e := range entries {
		if !r.Registered(e.handle) {
			continue
		}
		if inv, ok := e.handler.(Invalidator); ok {
			inv.Invalidate(r, e.handle)
		}
	}

	r.mu.Lock()
	r.entries = nil
	r.live = make(map[Handle]struct{})
	fn := r.onChange
	r.mu.Unlock()

	r.changed(fn, 0)
}
