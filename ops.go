package main

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/zephyrtronium/qlist/deque"
	"github.com/zephyrtronium/qlist/workload"
)

// runOps applies a script of operations to a deque of strings initialized
// with init, writing one JSON object per step followed by the final contents.
func runOps(w io.Writer, init, script []string) error {
	steps, err := workload.ParseScript(script)
	if err != nil {
		return fmt.Errorf("couldn't parse script: %w", err)
	}
	d := deque.FromSlice(init)
	e := jsontext.NewEncoder(w)
	for _, st := range steps {
		r := st.Apply(d)
		if err := json.MarshalEncode(e, &r); err != nil {
			return fmt.Errorf("couldn't write result: %w", err)
		}
	}
	final := struct {
		Contents []string `json:"contents"`
		Len      int      `json:"len"`
		Cap      int      `json:"cap"`
	}{
		Contents: d.Slice(),
		Len:      d.Len(),
		Cap:      d.Cap(),
	}
	if err := json.MarshalEncode(e, &final); err != nil {
		return fmt.Errorf("couldn't write contents: %w", err)
	}
	return nil
}
