package workload

import (
	"errors"
	"fmt"
	"strings"
)

// Op is a deque operation.
type Op uint8

const (
	PushBack Op = iota
	PushFront
	PopBack
	PopFront
	PeekFront
	PeekBack
	PeekAt
	PokeAt

	nops
)

var opNames = [nops]string{
	PushBack:  "push_back",
	PushFront: "push_front",
	PopBack:   "pop_back",
	PopFront:  "pop_front",
	PeekFront: "peek_front",
	PeekBack:  "peek_back",
	PeekAt:    "peek_at",
	PokeAt:    "poke_at",
}

// opAliases maps the conventional alternate names of operations.
var opAliases = map[string]Op{
	"push":    PushBack,
	"append":  PushBack,
	"enqueue": PushBack,
	"unshift": PushFront,
	"prepend": PushFront,
	"pop":     PopBack,
	"shift":   PopFront,
	"dequeue": PopFront,
	"peek":    PeekFront,
	"get":     PeekAt,
	"set":     PokeAt,
	"set_at":  PokeAt,
}

// ErrUnknownOp is returned when parsing an unrecognized operation name.
var ErrUnknownOp = errors.New("unknown operation")

func (op Op) String() string {
	if op >= nops {
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
	return opNames[op]
}

// ParseOp parses an operation name. Names are case-insensitive, and hyphens
// may be used in place of underscores.
func ParseOp(s string) (Op, error) {
	k := strings.ReplaceAll(strings.ToLower(s), "-", "_")
	for op, name := range opNames {
		if k == name {
			return Op(op), nil
		}
	}
	if op, ok := opAliases[k]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOp, s)
}

// Do applies the operation to d. The index n is used only by PeekAt and
// PokeAt, and the value x only by pushes and PokeAt. The result is the value
// produced by the operation, if any, and whether the operation succeeded.
// Pushes always succeed.
func (op Op) Do(d Deque, n, x int) (int, bool) {
	switch op {
	case PushBack:
		d.PushBack(x)
		return x, true
	case PushFront:
		d.PushFront(x)
		return x, true
	case PopBack:
		return d.PopBack()
	case PopFront:
		return d.PopFront()
	case PeekFront:
		return d.PeekFront()
	case PeekBack:
		return d.PeekBack()
	case PeekAt:
		return d.PeekAt(n)
	case PokeAt:
		return d.PokeAt(n, x)
	default:
		panic(fmt.Errorf("workload: invalid op %v", op))
	}
}
