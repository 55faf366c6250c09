// Package intrusive implements a circular doubly linked list whose links live
// inside the linked values themselves.
//
// A value becomes linkable by embedding an Element and binding it to its owner
// with Init. The list keeps a sentinel element, so every element always has
// valid neighbours: an unlinked element is a loop of itself. Linking never
// allocates, and insert, erase, splice and whole-list moves are O(1).
//
// The list owns placement, not lifetime. Dropping a list does not free the
// values in it and linking a value that is already in another list corrupts
// both lists.
package intrusive

// Element is the pair of links embedded in a linkable value.
// The zero value is an unlinked element.
type Element[T any] struct {
	next, prev *Element[T]
	owner      T
}

// Init binds e to its owner and returns e. It must be called before e is
// linked so iterators can map back to the owner. Init does not unlink e.
func (e *Element[T]) Init(owner T) *Element[T] {
	e.owner = owner
	e.lazyInit()
	return e
}

func (e *Element[T]) lazyInit() {
	if e.next == nil {
		e.next = e
		e.prev = e
	}
}

// Value returns the owner e was bound to.
func (e *Element[T]) Value() T {
	return e.owner
}

// IsLinked reports whether e is part of a list other than its own loop.
func (e *Element[T]) IsLinked() bool {
	return e.next != nil && (e.next != e || e.prev != e)
}

// Unlink removes e from whatever list it is in. Unlinking an unlinked element
// is a no-op.
func (e *Element[T]) Unlink() {
	e.lazyInit()
	e.next.prev = e.prev
	e.prev.next = e.next
	e.next = e
	e.prev = e
}

// Iterator is a position in a list. The end position is the sentinel.
// Iterators are comparable with ==.
type Iterator[T any] struct {
	e *Element[T]
}

// Next returns the following position.
func (it Iterator[T]) Next() Iterator[T] {
	return Iterator[T]{e: it.e.next}
}

// Prev returns the preceding position.
func (it Iterator[T]) Prev() Iterator[T] {
	return Iterator[T]{e: it.e.prev}
}

// Value returns the owner at this position, or the zero value at the end.
func (it Iterator[T]) Value() T {
	return it.e.owner
}

// Element returns the element at this position.
func (it Iterator[T]) Element() *Element[T] {
	return it.e
}

// List is an intrusive circular list. The zero value is an empty list.
// A List must not be copied after first use.
type List[T any] struct {
	root Element[T]
}

// New returns an initialized empty list.
func New[T any]() *List[T] {
	l := new(List[T])
	l.root.lazyInit()
	return l
}

// Empty reports whether l has no elements.
func (l *List[T]) Empty() bool {
	l.root.lazyInit()
	return l.root.next == &l.root
}

// Len walks the list and counts its elements.
func (l *List[T]) Len() int {
	n := 0
	for it, end := l.Begin(), l.End(); it != end; it = it.Next() {
		n++
	}
	return n
}

// Begin returns the position of the first element, or End if l is empty.
func (l *List[T]) Begin() Iterator[T] {
	l.root.lazyInit()
	return Iterator[T]{e: l.root.next}
}

// End returns the sentinel position.
func (l *List[T]) End() Iterator[T] {
	l.root.lazyInit()
	return Iterator[T]{e: &l.root}
}

// AsIterator returns the position of e without searching for it.
func (l *List[T]) AsIterator(e *Element[T]) Iterator[T] {
	return Iterator[T]{e: e}
}

// Front returns the owner of the first element, or the zero value.
func (l *List[T]) Front() T {
	return l.Begin().Value()
}

// Back returns the owner of the last element, or the zero value.
func (l *List[T]) Back() T {
	return l.End().Prev().Value()
}

// PushFront links e at the front of l.
func (l *List[T]) PushFront(e *Element[T]) {
	l.Insert(l.Begin(), e)
}

// PushBack links e at the back of l.
func (l *List[T]) PushBack(e *Element[T]) {
	l.Insert(l.End(), e)
}

// PopFront unlinks the first element. It is a no-op on an empty list.
func (l *List[T]) PopFront() {
	if !l.Empty() {
		l.root.next.Unlink()
	}
}

// PopBack unlinks the last element. It is a no-op on an empty list.
func (l *List[T]) PopBack() {
	if !l.Empty() {
		l.root.prev.Unlink()
	}
}

// Insert links e immediately before pos and returns the position of e.
func (l *List[T]) Insert(pos Iterator[T], e *Element[T]) Iterator[T] {
	e.lazyInit()
	at := pos.e
	e.prev = at.prev
	e.next = at
	at.prev.next = e
	at.prev = e
	return Iterator[T]{e: e}
}

// Erase unlinks the element at pos and returns the position that followed it.
// Only iterators at pos are invalidated.
func (l *List[T]) Erase(pos Iterator[T]) Iterator[T] {
	next := pos.e.next
	pos.e.Unlink()
	return Iterator[T]{e: next}
}

// Splice moves the range [first, last) before pos. The range may come from
// l or from another list. Only boundary links are touched, so the cost does
// not depend on the length of the range. pos must not lie inside the range.
func (l *List[T]) Splice(pos, first, last Iterator[T]) {
	if first == last || pos == first || pos == last {
		return
	}
	p, f, t := pos.e, first.e, last.e

	p.prev.next = f
	f.prev.next = t
	t.prev.next = p

	before := f.prev
	f.prev = p.prev
	p.prev = t.prev
	t.prev = before
}

// Clear unlinks every element of l.
func (l *List[T]) Clear() {
	for !l.Empty() {
		l.PopBack()
	}
}

// Take moves the contents of other into l. The previous contents of l are
// unlinked first and other is left empty. Apart from clearing l the move
// only relinks the two sentinels.
func (l *List[T]) Take(other *List[T]) {
	if l == other {
		return
	}
	l.Clear()
	if other.Empty() {
		return
	}
	first, last := other.root.next, other.root.prev
	l.root.next = first
	l.root.prev = last
	first.prev = &l.root
	last.next = &l.root
	other.root.next = &other.root
	other.root.prev = &other.root
}
