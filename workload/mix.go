package workload

import (
	"errors"
	"math/rand/v2"

	"gitlab.com/zephyrtronium/pick"
)

// ErrEmptyMix is returned when a mix has no operations with positive weight.
var ErrEmptyMix = errors.New("no operations with positive weight")

// Mix is a weighted random distribution of operations.
type Mix struct {
	dist *pick.Dist[Op]
	ops  []Op
}

// NewMix creates a mix from operation names and their relative weights.
// Weights for the same operation under different names are summed.
func NewMix(weights map[string]int) (*Mix, error) {
	var w [nops]int
	for name, v := range weights {
		op, err := ParseOp(name)
		if err != nil {
			return nil, err
		}
		if v > 0 {
			w[op] += v
		}
	}
	// Build cases in op order so that a seeded source picks the same
	// sequence regardless of map iteration order.
	cases := make([]pick.Case[Op], 0, nops)
	ops := make([]Op, 0, nops)
	for op, v := range w {
		if v > 0 {
			cases = append(cases, pick.Case[Op]{E: Op(op), W: v})
			ops = append(ops, Op(op))
		}
	}
	if len(cases) == 0 {
		return nil, ErrEmptyMix
	}
	return &Mix{dist: pick.New(cases), ops: ops}, nil
}

// Next picks an operation.
func (m *Mix) Next(r *rand.Rand) Op {
	return m.dist.Pick(r.Uint32())
}

// FIFO reports whether every operation in the mix is supported by [Queue].
func (m *Mix) FIFO() bool {
	for _, op := range m.ops {
		if op != PushBack && op != PopFront {
			return false
		}
	}
	return true
}
