package deque

import "testing"

// invariants checks the ring's structural invariants.
func (d *Deque[E]) invariants(t *testing.T) {
	t.Helper()
	n := len(d.buf)
	if n < MinCap || n&(n-1) != 0 {
		t.Errorf("ring length %d is not a power of two at least %d", n, MinCap)
	}
	if d.mask != n-1 {
		t.Errorf("mask %#x doesn't match ring length %d", d.mask, n)
	}
	if d.head < 0 || d.head >= n || d.tail < 0 || d.tail >= n {
		t.Errorf("head %d or tail %d outside ring of length %d", d.head, d.tail, n)
	}
}

func TestTombstones(t *testing.T) {
	cases := []struct {
		name string
		pop  func(*Deque[*int]) (*int, bool)
	}{
		{"front", (*Deque[*int]).PopFront},
		{"back", (*Deque[*int]).PopBack},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := New[*int]()
			for i := range 7 {
				d.PushBack(&i)
			}
			d.invariants(t)
			for range 7 {
				if p, ok := c.pop(d); p == nil || !ok {
					t.Fatalf("bad pop: %v, %t", p, ok)
				}
				d.invariants(t)
			}
			for i, p := range d.buf {
				if p != nil {
					t.Errorf("slot %d retains %p after removal", i, p)
				}
			}
		})
	}
}

func TestClearTombstones(t *testing.T) {
	d := New[*int]()
	for i := range 5 {
		d.PushFront(&i)
	}
	d.Clear()
	d.invariants(t)
	for i, p := range d.buf {
		if p != nil {
			t.Errorf("slot %d retains %p after clear", i, p)
		}
	}
}

func TestGrowLayout(t *testing.T) {
	cases := []struct {
		name  string
		front int
		back  int
	}{
		{"contiguous", 0, 4},
		{"wrapped", 2, 2},
		{"front", 4, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := New[int]()
			for i := range c.back {
				d.PushBack(i)
			}
			for i := range c.front {
				d.PushFront(-i - 1)
			}
			d.invariants(t)
			if len(d.buf) != 2*MinCap {
				t.Fatalf("full ring didn't grow: length %d", len(d.buf))
			}
			if d.head != 0 || d.tail != MinCap {
				t.Errorf("grown ring not contiguous from 0: head %d, tail %d", d.head, d.tail)
			}
		})
	}
}

func TestCheckRing(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		mask  int
		panic bool
	}{
		{"min", 4, 3, false},
		{"large", 1 << 20, 1<<20 - 1, false},
		{"small", 2, 1, true},
		{"odd", 6, 5, true},
		{"mask", 8, 3, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != c.panic {
					t.Errorf("wrong panic: want %t, got %v", c.panic, r)
				}
			}()
			checkRing(c.n, c.mask)
		})
	}
}
