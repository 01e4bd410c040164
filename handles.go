//go:build darwin || linux

package gst

import "unsafe"

// Ownership wrappers for engine handles. Each wrapper is the exclusive
// owner of its underlying reference: Close releases it through the
// engine's matching unref exactly once and zeroes the handle, so a second
// Close, or Close on the zero value, is a no-op. Detach transfers the raw
// handle out and leaves the wrapper empty. Wrappers are not safe for
// concurrent use; ownership exclusivity is the only discipline required.

// Element owns a GstElement reference, typically a whole pipeline.
type Element struct {
	ptr uintptr
}

// IsValid reports whether the wrapper holds a handle.
func (e *Element) IsValid() bool {
	return e != nil && e.ptr != 0
}

// Detach releases ownership of the underlying handle to the caller and
// leaves the wrapper empty. The caller becomes responsible for unref.
func (e *Element) Detach() uintptr {
	if e == nil {
		return 0
	}
	p := e.ptr
	e.ptr = 0
	return p
}

// Close unrefs the element. Safe to call on an empty wrapper and safe to
// call more than once.
func (e *Element) Close() error {
	if e != nil && e.ptr != 0 {
		gstObjectUnref(e.ptr)
		e.ptr = 0
	}
	return nil
}

// Bus owns a GstBus reference obtained from a pipeline.
type Bus struct {
	ptr uintptr
}

// IsValid reports whether the wrapper holds a handle.
func (b *Bus) IsValid() bool {
	return b != nil && b.ptr != 0
}

// Detach releases ownership of the underlying handle to the caller.
func (b *Bus) Detach() uintptr {
	if b == nil {
		return 0
	}
	p := b.ptr
	b.ptr = 0
	return p
}

// Close unrefs the bus. Safe on empty wrappers and idempotent.
func (b *Bus) Close() error {
	if b != nil && b.ptr != 0 {
		gstObjectUnref(b.ptr)
		b.ptr = 0
	}
	return nil
}

// Message owns a GstMessage popped from a bus.
type Message struct {
	ptr uintptr
}

// IsValid reports whether the wrapper holds a handle.
func (m *Message) IsValid() bool {
	return m != nil && m.ptr != 0
}

// Detach releases ownership of the underlying handle to the caller.
func (m *Message) Detach() uintptr {
	if m == nil {
		return 0
	}
	p := m.ptr
	m.ptr = 0
	return p
}

// Close unrefs the message. Messages are mini objects, so release goes
// through gst_mini_object_unref.
func (m *Message) Close() error {
	if m != nil && m.ptr != 0 {
		gstMiniObjectUnref(m.ptr)
		m.ptr = 0
	}
	return nil
}

// GError owns a GError produced by the engine.
type GError struct {
	ptr uintptr
}

// IsValid reports whether the wrapper holds a handle.
func (g *GError) IsValid() bool {
	return g != nil && g.ptr != 0
}

// Message returns the engine-supplied error text, or "" for an empty
// wrapper.
func (g *GError) Message() string {
	if !g.IsValid() {
		return ""
	}
	ge := (*gError)(unsafe.Pointer(g.ptr))
	return goStringFromPtr(ge.Message)
}

// Close frees the error. Safe on empty wrappers and idempotent.
func (g *GError) Close() error {
	if g != nil && g.ptr != 0 {
		gErrorFree(g.ptr)
		g.ptr = 0
	}
	return nil
}
