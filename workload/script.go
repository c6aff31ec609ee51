package workload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zephyrtronium/qlist/deque"
)

// Step is one operation in a script.
type Step struct {
	Op    Op
	Index int
	Value string
}

// ParseStep parses a step of the form op[:arg[:value]].
// Pushes take a value, PeekAt takes an index, and PokeAt takes an index and
// a value. Other operations take no arguments.
func ParseStep(s string) (Step, error) {
	name, rest, has := strings.Cut(s, ":")
	op, err := ParseOp(name)
	if err != nil {
		return Step{}, err
	}
	st := Step{Op: op}
	switch op {
	case PushBack, PushFront:
		if !has {
			return Step{}, fmt.Errorf("%s needs a value", op)
		}
		st.Value = rest
	case PeekAt:
		if !has {
			return Step{}, fmt.Errorf("%s needs an index", op)
		}
		st.Index, err = strconv.Atoi(rest)
		if err != nil {
			return Step{}, fmt.Errorf("couldn't parse index for %s: %w", op, err)
		}
	case PokeAt:
		idx, val, ok := strings.Cut(rest, ":")
		if !has || !ok {
			return Step{}, fmt.Errorf("%s needs an index and a value", op)
		}
		st.Index, err = strconv.Atoi(idx)
		if err != nil {
			return Step{}, fmt.Errorf("couldn't parse index for %s: %w", op, err)
		}
		st.Value = val
	default:
		if has {
			return Step{}, fmt.Errorf("%s takes no argument", op)
		}
	}
	return st, nil
}

// ParseScript parses each argument as a step.
func ParseScript(args []string) ([]Step, error) {
	r := make([]Step, 0, len(args))
	for i, s := range args {
		st, err := ParseStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		r = append(r, st)
	}
	return r, nil
}

// Result is the outcome of applying a step. Value is always encoded, since
// an empty string is a valid element; OK tells whether there was one.
type Result struct {
	Op    string `json:"op"`
	Index *int   `json:"index,omitzero"`
	Value string `json:"value"`
	OK    bool   `json:"ok"`
	Len   int    `json:"len"`
	Cap   int    `json:"cap"`
}

// Apply performs the step on d.
func (s Step) Apply(d *deque.Deque[string]) Result {
	r := Result{Op: s.Op.String()}
	switch s.Op {
	case PushBack:
		d.PushBack(s.Value)
		r.Value, r.OK = s.Value, true
	case PushFront:
		d.PushFront(s.Value)
		r.Value, r.OK = s.Value, true
	case PopBack:
		r.Value, r.OK = d.PopBack()
	case PopFront:
		r.Value, r.OK = d.PopFront()
	case PeekFront:
		r.Value, r.OK = d.PeekFront()
	case PeekBack:
		r.Value, r.OK = d.PeekBack()
	case PeekAt:
		r.Index = &s.Index
		r.Value, r.OK = d.PeekAt(s.Index)
	case PokeAt:
		r.Index = &s.Index
		r.Value, r.OK = d.PokeAt(s.Index, s.Value)
	}
	r.Len, r.Cap = d.Len(), d.Cap()
	return r
}
