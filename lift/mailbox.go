package lift

import "sync"

// Mailbox is an unbounded FIFO queue that any number of goroutines may send to
// and receive from. Send never blocks; Receive blocks until a message is queued.
type Mailbox[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []T
}

func NewMailbox[T any]() *Mailbox[T] {
	m := &Mailbox[T]{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Send appends msg and wakes one blocked receiver.
func (m *Mailbox[T]) Send(msg T) {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	m.mu.Unlock()
	m.cond.Signal()
}

func (m *Mailbox[T]) Receive() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.queue) == 0 {
		m.cond.Wait()
	}
	return m.pop()
}

// TryReceive returns immediately; ok is false when the mailbox is empty.
func (m *Mailbox[T]) TryReceive() (msg T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return msg, false
	}
	return m.pop(), true
}

func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// pop requires m.mu.
func (m *Mailbox[T]) pop() T {
	var zero T
	msg := m.queue[0]
	m.queue[0] = zero
	m.queue = m.queue[1:]
	if len(m.queue) == 0 {
		m.queue = nil
	}
	return msg
}
