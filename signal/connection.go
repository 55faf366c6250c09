package signal

import "github.com/delaneyj/turnsignal/intrusive"

// Connection is the handle owning one slot registration. Dropping the handle
// does not disconnect the slot; call Disconnect. Handles are moved with Take
// and must never be copied. The zero value is a disconnected handle.
type Connection[T any] struct {
	_ noCopy

	link intrusive.Element[*Connection[T]]
	sig  *Signal[T]
	slot Slot[T]
	once bool
}

// Connected reports whether c still owns a live registration.
func (c *Connection[T]) Connected() bool {
	return c.sig != nil && c.link.IsLinked()
}

// Disconnect removes the registration held by c. Cursors of in-flight
// emissions that sit on c are advanced past it first. Calling Disconnect on a
// disconnected handle does nothing.
func (c *Connection[T]) Disconnect() {
	if !c.Connected() {
		return
	}

	s := c.sig
	self := s.conns.AsIterator(&c.link)
	for tok := s.top; tok != nil; tok = tok.next {
		if tok.current == self {
			tok.current = tok.current.Next()
		}
	}

	c.link.Unlink()
	c.slot = nil
	c.sig = nil
	c.once = false
}

// Take moves the registration held by other into c, keeping its position in
// the signal's list. Whatever c held before is disconnected. Emissions whose
// cursor sits on other continue from c, so the moved slot is neither skipped
// nor invoked twice. other is left disconnected.
func (c *Connection[T]) Take(other *Connection[T]) {
	if c == other {
		return
	}
	c.Disconnect()

	c.sig, c.slot, c.once = other.sig, other.slot, other.once
	other.sig, other.slot, other.once = nil, nil, false
	if c.sig == nil || !other.link.IsLinked() {
		c.sig = nil
		return
	}

	s := c.sig
	from := s.conns.AsIterator(&other.link)
	to := s.conns.Insert(from, c.link.Init(c))
	for tok := s.top; tok != nil; tok = tok.next {
		if tok.current == from {
			tok.current = to
		}
	}
	other.link.Unlink()
}
