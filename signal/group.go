package signal

// Disconnecter is anything holding a registration that can be dropped.
// *Connection[T] satisfies it for every T.
type Disconnecter interface {
	Disconnect()
}

// Group collects connections, possibly of different signals, so they can be
// dropped together. It is the usual way to tie connections to the lifetime of
// a component.
type Group struct {
	conns []Disconnecter
}

// Add tracks conns and returns g for chaining.
func (g *Group) Add(conns ...Disconnecter) *Group {
	g.conns = append(g.conns, conns...)
	return g
}

// Len returns the number of tracked connections.
func (g *Group) Len() int {
	return len(g.conns)
}

// Close disconnects every tracked connection, most recent first, and forgets
// them. The group can be reused.
func (g *Group) Close() {
	conns := g.conns
	g.conns = nil
	for i := len(conns) - 1; i >= 0; i-- {
		conns[i].Disconnect()
	}
}

// Connect is Signal.Connect followed by Group.Add.
func Connect[T any](g *Group, s *Signal[T], slot Slot[T]) *Connection[T] {
	c := s.Connect(slot)
	g.Add(c)
	return c
}
