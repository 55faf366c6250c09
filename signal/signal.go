// Package signal implements single threaded signals and slots.
//
// A Signal keeps its connections in an intrusive list and walks it on every
// Emit. Slots are free to disconnect any connection, connect new ones, move
// connection handles, emit again or close the signal while an emission is in
// flight. Every emission registers a cursor with its signal and every mutation
// repairs all registered cursors, so no slot is skipped or run twice.
//
// Nothing here is safe for concurrent use. A signal and its connections must
// be driven from one goroutine or externally serialized.
package signal

import "github.com/delaneyj/turnsignal/intrusive"

// Slot is a callback connected to a Signal. A non-nil error stops the
// emission that invoked the slot and is returned from Emit.
type Slot[T any] func(T) error

// cursor tracks the position of one in-flight Emit.
type cursor[T any] struct {
	current intrusive.Iterator[*Connection[T]]
	// next is the cursor of the enclosing Emit, if any.
	next *cursor[T]
	// closed is set when the signal was closed under this emission.
	closed bool
}

// Signal dispatches values to its connected slots in list order. New
// connections are linked at the front, so the most recent connection runs
// first. The zero value is ready to use. A Signal must not be copied.
type Signal[T any] struct {
	_ noCopy

	conns intrusive.List[*Connection[T]]
	top   *cursor[T]
}

// New returns an empty signal.
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect registers slot and returns the handle that owns the registration.
// slot must not be nil.
func (s *Signal[T]) Connect(slot Slot[T]) *Connection[T] {
	c := &Connection[T]{}
	s.ConnectInto(c, slot)
	return c
}

// ConnectInto registers slot using caller owned storage, typically a
// Connection embedded in a larger struct. Any registration c held before is
// disconnected first.
func (s *Signal[T]) ConnectInto(c *Connection[T], slot Slot[T]) {
	c.Disconnect()
	c.sig = s
	c.slot = slot
	c.once = false
	s.conns.PushFront(c.link.Init(c))
}

// ConnectFunc registers a slot that cannot fail.
func (s *Signal[T]) ConnectFunc(fn func(T)) *Connection[T] {
	return s.Connect(func(v T) error {
		fn(v)
		return nil
	})
}

// ConnectOnce registers a slot that is disconnected right before its first
// invocation.
func (s *Signal[T]) ConnectOnce(slot Slot[T]) *Connection[T] {
	c := s.Connect(slot)
	c.once = true
	return c
}

// Empty reports whether no slot is connected.
func (s *Signal[T]) Empty() bool {
	return s.conns.Empty()
}

// Len returns the number of connected slots. It walks the connection list.
func (s *Signal[T]) Len() int {
	return s.conns.Len()
}

// Emit invokes every connected slot with v, in list order.
//
// A slot connected while Emit runs is linked behind the cursor and is not
// invoked by this emission. A slot disconnected before the cursor reaches it
// is skipped. The first slot error ends the emission and is returned as is.
// If a slot closes the signal, Emit returns right after that slot and does
// not touch the signal again.
func (s *Signal[T]) Emit(v T) error {
	tok := &cursor[T]{
		current: s.conns.Begin(),
		next:    s.top,
	}
	s.top = tok
	defer func() {
		if !tok.closed {
			s.top = tok.next
		}
	}()

	end := s.conns.End()
	for tok.current != end {
		c := tok.current.Value()
		tok.current = tok.current.Next()

		slot := c.slot
		if c.once {
			c.Disconnect()
		}
		if err := slot(v); err != nil {
			return err
		}
		if tok.closed {
			return nil
		}
	}
	return nil
}

// Close disconnects every slot and stops every emission in flight. In-flight
// emissions notice after their current slot returns. The signal is empty
// afterwards and may be used again.
func (s *Signal[T]) Close() {
	for tok := s.top; tok != nil; tok = tok.next {
		tok.closed = true
	}
	s.top = nil

	for !s.conns.Empty() {
		c := s.conns.Front()
		c.slot = nil
		c.sig = nil
		c.once = false
		s.conns.PopFront()
	}
}

// Depth returns the number of emissions of s currently in flight.
func (s *Signal[T]) Depth() int {
	n := 0
	for tok := s.top; tok != nil; tok = tok.next {
		n++
	}
	return n
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
