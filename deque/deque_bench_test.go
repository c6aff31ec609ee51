package deque_test

import (
	"testing"

	"github.com/zephyrtronium/qlist/deque"
)

var sink int

func BenchmarkPush(b *testing.B) {
	b.ReportAllocs()
	var d deque.Deque[int]
	for i := range b.N {
		d.PushBack(i)
	}
	sink = d.Len()
}

func BenchmarkPushShift(b *testing.B) {
	d := deque.New[int]()
	for i := range 1000 {
		d.PushBack(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		d.PushBack(i)
		sink, _ = d.PopFront()
	}
}

func BenchmarkPeekAt(b *testing.B) {
	d := deque.New[int]()
	for i := range 1000 {
		d.PushFront(i)
	}
	b.ResetTimer()
	for i := range b.N {
		sink, _ = d.PeekAt(i%2000 - 1000)
	}
}
