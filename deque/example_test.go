package deque_test

import (
	"fmt"

	"github.com/zephyrtronium/qlist/deque"
)

func Example() {
	var d deque.Deque[string]
	d.PushBack("b")
	d.PushBack("c")
	d.PushFront("a")
	fmt.Println(d.Slice())
	last, _ := d.PeekAt(-1)
	fmt.Println(last)
	var got []string
	for !d.Empty() {
		x, _ := d.PopFront()
		got = append(got, x)
	}
	fmt.Println(got)
	_, ok := d.PopFront()
	fmt.Println(ok)
	// Output:
	// [a b c]
	// c
	// [a b c]
	// false
}

func ExampleDeque_PokeAt() {
	d := deque.FromSlice([]int{1, 2})
	fmt.Println(d.PokeAt(1, 22))
	fmt.Println(d.PokeAt(3, 3))
	fmt.Println(d.Slice())
	// Output:
	// 22 true
	// 0 false
	// [1 22]
}
