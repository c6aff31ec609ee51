// Package deque provides a double-ended queue backed by a growable ring buffer.
package deque

import (
	"fmt"
	"slices"
)

const (
	// MinCap is the smallest capacity of a non-nil ring.
	MinCap = 4
	// ShrinkMin is the number of elements a deque must hold before removals
	// release storage. Deques at or below this size never shrink on their own.
	ShrinkMin = 10000
)

// Deque is a double-ended queue backed by a ring buffer whose length is
// always a power of two.
//
// The zero value is an empty deque ready to use. Its storage is allocated on
// the first insertion.
//
// A Deque is not safe for concurrent use. Callers sharing one between
// goroutines must serialize access, e.g. with a [sync.Mutex].
type Deque[E any] struct {
	buf []E
	// head is the index of the first element.
	// tail is the index of the slot receiving the next element at the back.
	// head == tail iff the deque is empty; the ring grows as soon as an
	// insertion would make them collide.
	head, tail int
	// mask is len(buf)-1.
	mask int
}

// New creates an empty deque with capacity [MinCap].
func New[E any]() *Deque[E] {
	return &Deque[E]{buf: make([]E, MinCap), mask: MinCap - 1}
}

// FromSlice creates a deque holding a copy of s in order.
func FromSlice[E any](s []E) *Deque[E] {
	return new(Deque[E]).Load(s)
}

// Load replaces the contents of the deque with a copy of s.
// The ring is reallocated to the smallest capacity that holds s with at least
// one free slot. Load returns d.
func (d *Deque[E]) Load(s []E) *Deque[E] {
	c := MinCap
	for c <= len(s) {
		c <<= 1
	}
	d.buf = make([]E, c)
	copy(d.buf, s)
	d.head, d.tail = 0, len(s)
	d.mask = c - 1
	checkRing(len(d.buf), d.mask)
	return d
}

// Len returns the number of elements in the deque.
func (d *Deque[E]) Len() int {
	return (d.tail - d.head) & d.mask
}

// Empty returns whether the deque has no elements.
func (d *Deque[E]) Empty() bool {
	return d.head == d.tail
}

// Cap returns the length of the ring buffer. It is zero for a deque that has
// never held an element and otherwise a power of two no less than [MinCap].
func (d *Deque[E]) Cap() int {
	return len(d.buf)
}

// PushBack adds x to the back of the deque.
func (d *Deque[E]) PushBack(x E) {
	d.lazyInit()
	d.buf[d.tail] = x
	d.tail = (d.tail + 1) & d.mask
	if d.tail == d.head {
		d.grow()
	}
}

// PushFront adds x to the front of the deque.
func (d *Deque[E]) PushFront(x E) {
	d.lazyInit()
	d.head = (d.head - 1) & d.mask
	d.buf[d.head] = x
	if d.tail == d.head {
		d.grow()
	}
}

// PopBack removes and returns the last element. If the deque is empty, the
// result is the zero value and false.
func (d *Deque[E]) PopBack() (x E, ok bool) {
	if d.head == d.tail {
		return x, false
	}
	d.tail = (d.tail - 1) & d.mask
	x = d.buf[d.tail]
	var zero E
	d.buf[d.tail] = zero
	d.maybeShrink()
	return x, true
}

// PopFront removes and returns the first element. If the deque is empty, the
// result is the zero value and false.
func (d *Deque[E]) PopFront() (x E, ok bool) {
	if d.head == d.tail {
		return x, false
	}
	x = d.buf[d.head]
	var zero E
	d.buf[d.head] = zero
	d.head = (d.head + 1) & d.mask
	d.maybeShrink()
	return x, true
}

// PeekFront returns the first element without removing it.
func (d *Deque[E]) PeekFront() (x E, ok bool) {
	if d.head == d.tail {
		return x, false
	}
	return d.buf[d.head], true
}

// PeekBack returns the last element without removing it.
func (d *Deque[E]) PeekBack() (x E, ok bool) {
	if d.head == d.tail {
		return x, false
	}
	return d.buf[(d.tail-1)&d.mask], true
}

// PeekAt returns the element at position n. Non-negative n counts from the
// front, so 0 is the first element. Negative n counts from the back, so -1 is
// the last element. If n is outside [-d.Len(), d.Len()), the result is the
// zero value and false.
func (d *Deque[E]) PeekAt(n int) (x E, ok bool) {
	i, ok := d.slot(n)
	if !ok {
		return x, false
	}
	return d.buf[i], true
}

// PokeAt overwrites the element at position n with x, using the same
// positions as [Deque.PeekAt]. It returns x and true if n is in range;
// otherwise the deque is unchanged and the result is the zero value and false.
func (d *Deque[E]) PokeAt(n int, x E) (E, bool) {
	i, ok := d.slot(n)
	if !ok {
		var zero E
		return zero, false
	}
	d.buf[i] = x
	return x, true
}

// Slice returns a newly allocated copy of the elements in order.
func (d *Deque[E]) Slice() []E {
	return d.AppendSlice(make([]E, 0, d.Len()))
}

// AppendSlice appends the elements in order to dst and returns the result.
func (d *Deque[E]) AppendSlice(dst []E) []E {
	a, b := d.segments()
	dst = append(dst, a...)
	return append(dst, b...)
}

// Clear removes all elements. The capacity is retained.
func (d *Deque[E]) Clear() {
	a, b := d.segments()
	clear(a)
	clear(b)
	d.head, d.tail = 0, 0
}

// Shrink reallocates the ring to the smallest capacity that holds the
// current elements with at least one free slot. It returns the new capacity.
func (d *Deque[E]) Shrink() int {
	c := MinCap
	for c <= d.Len() {
		c <<= 1
	}
	if c < len(d.buf) {
		d.resize(c)
	}
	return len(d.buf)
}

func (d *Deque[E]) lazyInit() {
	if d.buf == nil {
		d.buf = make([]E, MinCap)
		d.mask = MinCap - 1
	}
}

// slot resolves a relative position to an index into buf.
func (d *Deque[E]) slot(n int) (int, bool) {
	k := d.Len()
	if n < 0 {
		n += k
	}
	if n < 0 || n >= k {
		return 0, false
	}
	return (d.head + n) & d.mask, true
}

// segments returns the live elements as at most two views into buf.
func (d *Deque[E]) segments() (a, b []E) {
	if d.head <= d.tail {
		return d.buf[d.head:d.tail], nil
	}
	return d.buf[d.head:], d.buf[:d.tail]
}

// grow doubles the ring. It must be called only when the ring is full, i.e.
// immediately after an insertion made head and tail collide.
func (d *Deque[E]) grow() {
	n := len(d.buf)
	if d.head == 0 {
		// Elements already run from 0 to n-1 in order.
		d.buf = slices.Grow(d.buf, n)[:2*n]
	} else {
		b := make([]E, 2*n)
		k := copy(b, d.buf[d.head:])
		copy(b[k:], d.buf[:d.head])
		d.buf = b
		d.head = 0
	}
	d.tail = n
	d.mask = d.mask<<1 | 1
	checkRing(len(d.buf), d.mask)
}

func (d *Deque[E]) maybeShrink() {
	n := d.Len()
	if n <= ShrinkMin || n > len(d.buf)>>2 {
		return
	}
	d.resize(len(d.buf) >> 1)
}

// resize moves the elements into a new ring of capacity c starting at slot 0.
// c must exceed d.Len().
func (d *Deque[E]) resize(c int) {
	n := d.Len()
	b := d.AppendSlice(make([]E, 0, c))
	d.buf = b[:c]
	d.head, d.tail = 0, n
	d.mask = c - 1
	checkRing(len(d.buf), d.mask)
}

func checkRing(n, mask int) {
	if n < MinCap || n&(n-1) != 0 || mask != n-1 {
		panic(fmt.Sprintf("deque: invalid ring of length %d with mask %#x", n, mask))
	}
}
