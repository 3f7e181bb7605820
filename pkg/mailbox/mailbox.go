// Package mailbox provides a single-slot handoff cell for passing one value
// between a producer and a consumer.
package mailbox

import "sync"

// Mailbox holds at most one value. Put overwrites any previous value, and
// TakeOnce removes the value so a second take reports absence. Safe for
// concurrent use.
type Mailbox[T any] struct {
	mu    sync.Mutex
	value T
	full  bool
}

func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// Put stores a value, replacing whatever was there.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
	m.full = true
}

// TakeOnce removes and returns the stored value. The second return value is
// false when the mailbox is empty.
func (m *Mailbox[T]) TakeOnce() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.full {
		var zero T
		return zero, false
	}

	v := m.value
	var zero T
	m.value = zero
	m.full = false
	return v, true
}

// Peek returns the stored value without removing it.
func (m *Mailbox[T]) Peek() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.full
}
