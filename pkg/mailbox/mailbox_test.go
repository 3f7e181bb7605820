package mailbox

import (
	"sync"
	"testing"
)

func TestMailbox_PutAndTakeOnce(t *testing.T) {
	m := New[string]()

	m.Put("hello")

	got, ok := m.TakeOnce()
	if !ok {
		t.Fatal("expected value present")
	}
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}

	if _, ok := m.TakeOnce(); ok {
		t.Error("expected second take to report empty")
	}
}

func TestMailbox_EmptyTake(t *testing.T) {
	m := New[int]()
	if _, ok := m.TakeOnce(); ok {
		t.Error("expected empty mailbox")
	}
}

func TestMailbox_PutOverwrites(t *testing.T) {
	m := New[int]()
	m.Put(1)
	m.Put(2)

	got, ok := m.TakeOnce()
	if !ok || got != 2 {
		t.Errorf("expected latest value 2, got %d (present %v)", got, ok)
	}
}

func TestMailbox_Peek(t *testing.T) {
	m := New[string]()
	m.Put("kept")

	if got, ok := m.Peek(); !ok || got != "kept" {
		t.Errorf("unexpected peek result: %q, %v", got, ok)
	}
	// Peek does not consume.
	if _, ok := m.TakeOnce(); !ok {
		t.Error("expected value still present after peek")
	}
}

func TestMailbox_Concurrent(t *testing.T) {
	m := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			m.Put(v)
		}(i)
	}
	wg.Wait()

	if _, ok := m.TakeOnce(); !ok {
		t.Error("expected some value after concurrent puts")
	}
	if _, ok := m.TakeOnce(); ok {
		t.Error("expected mailbox drained")
	}
}
