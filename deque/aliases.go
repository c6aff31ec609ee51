package deque

// Append is an alias for [Deque.PushBack].
func (d *Deque[E]) Append(x E) { d.PushBack(x) }

// Push is an alias for [Deque.PushBack].
func (d *Deque[E]) Push(x E) { d.PushBack(x) }

// Enqueue is an alias for [Deque.PushBack].
func (d *Deque[E]) Enqueue(x E) { d.PushBack(x) }

// Unshift is an alias for [Deque.PushFront].
func (d *Deque[E]) Unshift(x E) { d.PushFront(x) }

// Prepend is an alias for [Deque.PushFront].
func (d *Deque[E]) Prepend(x E) { d.PushFront(x) }

// Pop is an alias for [Deque.PopBack].
func (d *Deque[E]) Pop() (E, bool) { return d.PopBack() }

// Shift is an alias for [Deque.PopFront].
func (d *Deque[E]) Shift() (E, bool) { return d.PopFront() }

// Dequeue is an alias for [Deque.PopFront].
func (d *Deque[E]) Dequeue() (E, bool) { return d.PopFront() }

// Peek is an alias for [Deque.PeekFront].
func (d *Deque[E]) Peek() (E, bool) { return d.PeekFront() }

// Get is an alias for [Deque.PeekAt].
func (d *Deque[E]) Get(n int) (E, bool) { return d.PeekAt(n) }

// Set is an alias for [Deque.PokeAt].
func (d *Deque[E]) Set(n int, x E) (E, bool) { return d.PokeAt(n, x) }

// SetAt is an alias for [Deque.PokeAt].
func (d *Deque[E]) SetAt(n int, x E) (E, bool) { return d.PokeAt(n, x) }
