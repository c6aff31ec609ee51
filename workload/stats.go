package workload

import (
	"errors"
	"math/rand/v2"
)

// ErrUnsupported is returned when a workload needs operations that an
// implementation doesn't provide.
var ErrUnsupported = errors.New("operation not supported by implementation")

// Stats summarizes a workload run.
type Stats struct {
	// Ops is the number of operations attempted.
	Ops int `json:"ops"`
	// Hits is the number of operations that produced or stored a value.
	Hits int `json:"hits"`
	// Grows and Shrinks count capacity changes. They stay zero for queues
	// that don't report capacity.
	Grows   int `json:"grows"`
	Shrinks int `json:"shrinks"`
	PeakCap int `json:"peak_cap"`
	PeakLen int `json:"peak_len"`
}

// Add accumulates another set of stats into s.
func (s *Stats) Add(o Stats) {
	s.Ops += o.Ops
	s.Hits += o.Hits
	s.Grows += o.Grows
	s.Shrinks += o.Shrinks
	s.PeakCap = max(s.PeakCap, o.PeakCap)
	s.PeakLen = max(s.PeakLen, o.PeakLen)
}

// tracker observes capacity changes across operations.
type tracker struct {
	c    capper
	last int
	st   *Stats
}

func track(q Queue, st *Stats) tracker {
	t := tracker{st: st}
	if c, ok := q.(capper); ok {
		t.c = c
		t.last = c.Cap()
		st.PeakCap = max(st.PeakCap, t.last)
	}
	st.PeakLen = max(st.PeakLen, q.Len())
	return t
}

func (t *tracker) after(q Queue, ok bool) {
	t.st.Ops++
	if ok {
		t.st.Hits++
	}
	t.st.PeakLen = max(t.st.PeakLen, q.Len())
	if t.c == nil {
		return
	}
	c := t.c.Cap()
	switch {
	case c > t.last:
		t.st.Grows++
		t.st.PeakCap = max(t.st.PeakCap, c)
	case c < t.last:
		t.st.Shrinks++
	}
	t.last = c
}

// Push pushes n increasing values onto the back of q.
func Push(q Queue, n int, st *Stats) {
	t := track(q, st)
	for i := range n {
		q.PushBack(i)
		t.after(q, true)
	}
}

// Shift pops up to n values from the front of q. Pops on an empty queue
// count as operations but not hits.
func Shift(q Queue, n int, st *Stats) {
	t := track(q, st)
	for range n {
		_, ok := q.PopFront()
		t.after(q, ok)
	}
}

// Steady fills q with preload values, then alternates n pushes and pops so
// that the length stays level.
func Steady(q Queue, preload, n int, st *Stats) {
	for i := range preload {
		q.PushBack(i)
	}
	t := track(q, st)
	for i := range n {
		q.PushBack(i)
		t.after(q, true)
		_, ok := q.PopFront()
		t.after(q, ok)
	}
}

// Random applies n operations drawn from m. Indices for PeekAt and PokeAt are
// uniform over [-q.Len(), q.Len()], so they are occasionally out of range.
// If q does not implement [Deque], the mix must be FIFO.
func Random(q Queue, m *Mix, r *rand.Rand, n int, st *Stats) error {
	d, _ := q.(Deque)
	if d == nil && !m.FIFO() {
		return ErrUnsupported
	}
	t := track(q, st)
	for i := range n {
		op := m.Next(r)
		// Draw an index even when unused so that every implementation
		// consumes the same random stream.
		k := q.Len()
		idx := r.IntN(2*k+1) - k
		var ok bool
		switch {
		case d != nil:
			_, ok = op.Do(d, idx, i)
		case op == PushBack:
			q.PushBack(i)
			ok = true
		default:
			_, ok = q.PopFront()
		}
		t.after(q, ok)
	}
	return nil
}
