package workload_test

import (
	"testing"

	"github.com/zephyrtronium/qlist/workload"
)

// Sink variables to prevent compiler from eliminating benchmark loops
var sinkInt int
var sinkBool bool

func BenchmarkPushShift(b *testing.B) {
	for _, impl := range workload.Impls() {
		b.Run(impl, func(b *testing.B) {
			q, err := workload.New(impl)
			if err != nil {
				b.Fatal(err)
			}
			for i := range 1000 {
				q.PushBack(i)
			}
			b.ReportAllocs()
			b.ResetTimer()
			var val int
			var ok bool
			for i := range b.N {
				q.PushBack(i)
				val, ok = q.PopFront()
			}
			sinkInt = val
			sinkBool = ok
		})
	}
}

func BenchmarkPushThenShift(b *testing.B) {
	for _, impl := range workload.Impls() {
		b.Run(impl, func(b *testing.B) {
			b.ReportAllocs()
			for range b.N {
				q, err := workload.New(impl)
				if err != nil {
					b.Fatal(err)
				}
				var st workload.Stats
				workload.Push(q, 10000, &st)
				workload.Shift(q, 10000, &st)
				sinkInt = st.Hits
			}
		})
	}
}
