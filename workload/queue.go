// Package workload drives queue implementations through benchmark workloads
// and operation scripts.
package workload

import (
	"container/list"
	"errors"
	"fmt"
	"slices"

	"github.com/eapache/queue"

	"github.com/zephyrtronium/qlist/deque"
)

// Queue is the FIFO subset of operations every implementation supports.
type Queue interface {
	PushBack(x int)
	PopFront() (int, bool)
	Len() int
}

// Deque is the full set of double-ended operations.
type Deque interface {
	Queue
	PushFront(x int)
	PopBack() (int, bool)
	PeekFront() (int, bool)
	PeekBack() (int, bool)
	PeekAt(n int) (int, bool)
	PokeAt(n, x int) (int, bool)
}

// capper is implemented by queues that report their capacity.
type capper interface {
	Cap() int
}

// ErrUnknownImpl is returned when a queue implementation name is not known.
var ErrUnknownImpl = errors.New("unknown queue implementation")

var impls = map[string]func() Queue{
	"qlist":   func() Queue { return deque.New[int]() },
	"eapache": func() Queue { return eapacheQueue{queue.New()} },
	"list":    func() Queue { return &listDeque{l: list.New()} },
}

// Impls returns the names of the available implementations in sorted order.
func Impls() []string {
	r := make([]string, 0, len(impls))
	for k := range impls {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

// New creates a new empty queue of the named implementation.
func New(impl string) (Queue, error) {
	f := impls[impl]
	if f == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownImpl, impl)
	}
	return f(), nil
}

// eapacheQueue adapts an eapache ring queue.
type eapacheQueue struct {
	q *queue.Queue
}

func (e eapacheQueue) PushBack(x int) { e.q.Add(x) }

func (e eapacheQueue) PopFront() (int, bool) {
	if e.q.Length() == 0 {
		return 0, false
	}
	return e.q.Remove().(int), true
}

func (e eapacheQueue) Len() int { return e.q.Length() }

// listDeque adapts a doubly linked list. PeekAt and PokeAt are linear.
type listDeque struct {
	l *list.List
}

func (d *listDeque) PushBack(x int)  { d.l.PushBack(x) }
func (d *listDeque) PushFront(x int) { d.l.PushFront(x) }
func (d *listDeque) Len() int        { return d.l.Len() }

func (d *listDeque) PopFront() (int, bool) {
	e := d.l.Front()
	if e == nil {
		return 0, false
	}
	return d.l.Remove(e).(int), true
}

func (d *listDeque) PopBack() (int, bool) {
	e := d.l.Back()
	if e == nil {
		return 0, false
	}
	return d.l.Remove(e).(int), true
}

func (d *listDeque) PeekFront() (int, bool) {
	e := d.l.Front()
	if e == nil {
		return 0, false
	}
	return e.Value.(int), true
}

func (d *listDeque) PeekBack() (int, bool) {
	e := d.l.Back()
	if e == nil {
		return 0, false
	}
	return e.Value.(int), true
}

func (d *listDeque) at(n int) *list.Element {
	k := d.l.Len()
	if n < 0 {
		n += k
	}
	if n < 0 || n >= k {
		return nil
	}
	if n < k/2 {
		e := d.l.Front()
		for range n {
			e = e.Next()
		}
		return e
	}
	e := d.l.Back()
	for range k - 1 - n {
		e = e.Prev()
	}
	return e
}

func (d *listDeque) PeekAt(n int) (int, bool) {
	e := d.at(n)
	if e == nil {
		return 0, false
	}
	return e.Value.(int), true
}

func (d *listDeque) PokeAt(n, x int) (int, bool) {
	e := d.at(n)
	if e == nil {
		return 0, false
	}
	e.Value = x
	return x, true
}
