package signal_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/turnsignal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) slot(name string) signal.Slot[int] {
	return func(int) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

func TestEmitRunsMostRecentFirst(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	s.Connect(r.slot("b"))
	s.Connect(r.slot("c"))

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"c", "b", "a"}, r.calls)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.Depth())
}

func TestEmitPassesValue(t *testing.T) {
	var s signal.Signal[string]
	got := []string{}
	s.ConnectFunc(func(v string) {
		got = append(got, v)
	})

	require.NoError(t, s.Emit("hello"))
	require.NoError(t, s.Emit("world"))
	assert.Equal(t, []string{"hello", "world"}, got)
}

func TestEmitWithoutSlots(t *testing.T) {
	var s signal.Signal[int]
	assert.True(t, s.Empty())
	assert.NoError(t, s.Emit(1))
	assert.Equal(t, 0, s.Depth())
}

func TestDisconnect(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	a := s.Connect(r.slot("a"))
	s.Connect(r.slot("b"))

	assert.True(t, a.Connected())
	a.Disconnect()
	assert.False(t, a.Connected())
	a.Disconnect()

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"b"}, r.calls)
	assert.Equal(t, 1, s.Len())
}

func TestZeroConnectionIsDisconnected(t *testing.T) {
	var c signal.Connection[int]
	assert.False(t, c.Connected())
	c.Disconnect()

	var other signal.Connection[int]
	c.Take(&other)
	assert.False(t, c.Connected())
	assert.False(t, other.Connected())
}

func TestSelfDisconnectDuringEmit(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	var b *signal.Connection[int]
	b = s.Connect(func(int) error {
		r.calls = append(r.calls, "b")
		b.Disconnect()
		return nil
	})
	s.Connect(r.slot("c"))

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"c", "b", "a"}, r.calls)
	assert.False(t, b.Connected())

	r.calls = nil
	require.NoError(t, s.Emit(2))
	assert.Equal(t, []string{"c", "a"}, r.calls)
}

func TestDisconnectNotYetVisited(t *testing.T) {
	// a, b, c, d connected in order run as d, c, b, a. d drops b further down.
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	b := s.Connect(r.slot("b"))
	s.Connect(r.slot("c"))
	s.Connect(func(int) error {
		r.calls = append(r.calls, "d")
		b.Disconnect()
		return nil
	})

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"d", "c", "a"}, r.calls)
}

func TestDisconnectNextInLine(t *testing.T) {
	// The cursor already points at b when c runs.
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	b := s.Connect(r.slot("b"))
	s.Connect(func(int) error {
		r.calls = append(r.calls, "c")
		b.Disconnect()
		return nil
	})

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"c", "a"}, r.calls)
	assert.False(t, b.Connected())
}

func TestDisconnectAlreadyVisited(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	var c *signal.Connection[int]
	s.Connect(func(int) error {
		r.calls = append(r.calls, "a")
		c.Disconnect()
		return nil
	})
	s.Connect(r.slot("b"))
	c = s.Connect(r.slot("c"))

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"c", "b", "a"}, r.calls)
	assert.Equal(t, 2, s.Len())
}

func TestDisconnectEveryoneFromFirstSlot(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	conns := []*signal.Connection[int]{}
	for _, name := range []string{"a", "b", "c", "d"} {
		conns = append(conns, s.Connect(r.slot(name)))
	}
	s.Connect(func(int) error {
		r.calls = append(r.calls, "first")
		for _, c := range conns {
			c.Disconnect()
		}
		return nil
	})

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"first"}, r.calls)
	assert.Equal(t, 1, s.Len())
}

func TestConnectDuringEmitRunsNextTime(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	added := false
	s.Connect(func(int) error {
		r.calls = append(r.calls, "b")
		if !added {
			added = true
			s.Connect(r.slot("new"))
		}
		return nil
	})

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"b", "a"}, r.calls)

	r.calls = nil
	require.NoError(t, s.Emit(2))
	assert.Equal(t, []string{"new", "b", "a"}, r.calls)
}

func TestNestedEmitSeesConnectionAddedByOuterPass(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "b")
		if v == 0 {
			s.Connect(r.slot("new"))
			return s.Emit(1)
		}
		return nil
	})

	require.NoError(t, s.Emit(0))
	// outer: b -> (inner: new, b, a) -> a
	assert.Equal(t, []string{"b", "new", "b", "a", "a"}, r.calls)
	assert.Equal(t, 0, s.Depth())
}

func TestReentrantEmit(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	depths := []int{}
	s.Connect(r.slot("a"))
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "b")
		depths = append(depths, s.Depth())
		if v < 2 {
			return s.Emit(v + 1)
		}
		return nil
	})
	s.Connect(r.slot("c"))

	require.NoError(t, s.Emit(0))
	assert.Equal(t, []string{
		"c", "b",
		"c", "b",
		"c", "b", "a",
		"a",
		"a",
	}, r.calls)
	assert.Equal(t, []int{1, 2, 3}, depths)
	assert.Equal(t, 0, s.Depth())
}

func TestNestedDisconnectRepairsOuterCursor(t *testing.T) {
	// The inner pass drops the slot the outer pass would run next.
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	b := s.Connect(r.slot("b"))
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "c")
		if v == 0 {
			return s.Emit(1)
		}
		b.Disconnect()
		return nil
	})

	require.NoError(t, s.Emit(0))
	// outer: c -> (inner: c drops b, a) -> a
	assert.Equal(t, []string{"c", "c", "a", "a"}, r.calls)
}

func TestSlotErrorStopsEmit(t *testing.T) {
	boom := errors.New("boom")
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	s.Connect(func(int) error {
		r.calls = append(r.calls, "b")
		return boom
	})
	s.Connect(r.slot("c"))

	err := s.Emit(1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"c", "b"}, r.calls)
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 3, s.Len())
}

func TestNestedSlotErrorUnwindsCursors(t *testing.T) {
	boom := errors.New("boom")
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "a")
		if v == 1 {
			return boom
		}
		return nil
	})
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "b")
		if v == 0 {
			err := s.Emit(1)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, 1, s.Depth())
		}
		return nil
	})

	require.NoError(t, s.Emit(0))
	// outer: b -> (inner: b, a fails) -> a
	assert.Equal(t, []string{"b", "b", "a", "a"}, r.calls)
	assert.Equal(t, 0, s.Depth())
}

func TestSlotPanicUnwindsCursor(t *testing.T) {
	s := signal.New[int]()
	s.Connect(func(int) error {
		panic("slot panic")
	})

	assert.PanicsWithValue(t, "slot panic", func() {
		_ = s.Emit(1)
	})
	assert.Equal(t, 0, s.Depth())
}

func TestCloseFromSlotStopsEmit(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	a := s.Connect(r.slot("a"))
	s.Connect(func(int) error {
		r.calls = append(r.calls, "b")
		s.Close()
		return nil
	})
	c := s.Connect(r.slot("c"))

	require.NoError(t, s.Emit(1))
	assert.Equal(t, []string{"c", "b"}, r.calls)
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Depth())
	assert.False(t, a.Connected())
	assert.False(t, c.Connected())
}

func TestCloseStopsEnclosingEmits(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "b")
		if v < 2 {
			return s.Emit(v + 1)
		}
		s.Close()
		return nil
	})

	require.NoError(t, s.Emit(0))
	assert.Equal(t, []string{"b", "b", "b"}, r.calls)
	assert.Equal(t, 0, s.Depth())
	assert.True(t, s.Empty())
}

func TestCloseThenErrorFromSameSlot(t *testing.T) {
	boom := errors.New("boom")
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "b")
		if v == 0 {
			err := s.Emit(1)
			assert.ErrorIs(t, err, boom)
			return err
		}
		s.Close()
		return boom
	})

	err := s.Emit(0)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"b", "b"}, r.calls)
	assert.Equal(t, 0, s.Depth())

	// A closed signal is empty and usable.
	s.Connect(r.slot("again"))
	r.calls = nil
	require.NoError(t, s.Emit(2))
	assert.Equal(t, []string{"again"}, r.calls)
	assert.Equal(t, 0, s.Depth())
}

func TestEmitAfterCloseInsideSlot(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	s.Connect(func(v int) error {
		r.calls = append(r.calls, "b")
		if v == 0 {
			s.Close()
			s.Connect(r.slot("fresh"))
			require.NoError(t, s.Emit(1))
			assert.Equal(t, 0, s.Depth())
		}
		return nil
	})

	require.NoError(t, s.Emit(0))
	assert.Equal(t, []string{"b", "fresh"}, r.calls)
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 1, s.Len())
}

func TestConnectOnce(t *testing.T) {
	s := signal.New[int]()
	r := &recorder{}
	s.Connect(r.slot("a"))
	once := s.ConnectOnce(r.slot("once"))

	require.NoError(t, s.Emit(1))
	require.NoError(t, s.Emit(2))
	assert.Equal(t, []string{"once", "a", "a"}, r.calls)
	assert.False(t, once.Connected())
}

func TestConnectOnceRecursive(t *testing.T) {
	s := signal.New[int]()
	calls := 0
	s.ConnectOnce(func(v int) error {
		calls++
		return s.Emit(v + 1)
	})

	require.NoError(t, s.Emit(0))
	assert.Equal(t, 1, calls)
}

func TestConnectIntoReplacesRegistration(t *testing.T) {
	first := signal.New[int]()
	second := signal.New[int]()
	r := &recorder{}

	type widget struct {
		onChange signal.Connection[int]
	}
	w := &widget{}
	first.ConnectInto(&w.onChange, r.slot("first"))
	second.ConnectInto(&w.onChange, r.slot("second"))

	require.NoError(t, first.Emit(1))
	require.NoError(t, second.Emit(1))
	assert.Equal(t, []string{"second"}, r.calls)
	assert.True(t, first.Empty())
}

func BenchmarkEmit(b *testing.B) {
	var s signal.Signal[int]
	for i := 0; i < 100; i++ {
		s.ConnectFunc(func(int) {})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Emit(i)
	}
}

func BenchmarkEmitSelfDisconnect(b *testing.B) {
	var s signal.Signal[int]
	conns := make([]signal.Connection[int], 100)
	for i := range conns {
		c := &conns[i]
		var slot signal.Slot[int]
		slot = func(int) error {
			s.ConnectInto(c, slot)
			return nil
		}
		s.ConnectInto(c, slot)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Emit(i)
	}
}
