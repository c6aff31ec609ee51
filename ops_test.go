package main

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/qlist/workload"
)

func TestRunOps(t *testing.T) {
	var sb strings.Builder
	script := []string{"push:c", "unshift:z", "shift", "get:-1", "set:0:x", "pop", "peek_at:5"}
	if err := runOps(&sb, []string{"a", "b"}, script); err != nil {
		t.Fatalf("runOps failed: %v", err)
	}
	d := jsontext.NewDecoder(strings.NewReader(sb.String()))
	var got []workload.Result
	for range script {
		var r workload.Result
		if err := json.UnmarshalDecode(d, &r); err != nil {
			t.Fatalf("couldn't decode result %d: %v", len(got), err)
		}
		got = append(got, r)
	}
	zero, last := 0, -1
	five := 5
	want := []workload.Result{
		{Op: "push_back", Value: "c", OK: true, Len: 3, Cap: 4},
		{Op: "push_front", Value: "z", OK: true, Len: 4, Cap: 8},
		{Op: "pop_front", Value: "z", OK: true, Len: 3, Cap: 8},
		{Op: "peek_at", Index: &last, Value: "c", OK: true, Len: 3, Cap: 8},
		{Op: "poke_at", Index: &zero, Value: "x", OK: true, Len: 3, Cap: 8},
		{Op: "pop_back", Value: "c", OK: true, Len: 2, Cap: 8},
		{Op: "peek_at", Index: &five, Len: 2, Cap: 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong results (+got/-want):\n%s", diff)
	}
	var final struct {
		Contents []string `json:"contents"`
		Len      int      `json:"len"`
	}
	if err := json.UnmarshalDecode(d, &final); err != nil {
		t.Fatalf("couldn't decode contents: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "b"}, final.Contents); diff != "" {
		t.Errorf("wrong contents (+got/-want):\n%s", diff)
	}
	if _, err := d.ReadValue(); !errors.Is(err, io.EOF) {
		t.Errorf("extra output after contents: %v", err)
	}
}

func TestRunOpsEmpty(t *testing.T) {
	var sb strings.Builder
	if err := runOps(&sb, nil, []string{"pop", "shift", "peek"}); err != nil {
		t.Fatalf("runOps failed: %v", err)
	}
	if !strings.Contains(sb.String(), `"contents":[]`) {
		t.Errorf("empty deque should have empty contents: %s", sb.String())
	}
	if strings.Contains(sb.String(), `"ok":true`) {
		t.Errorf("operations on empty deque succeeded: %s", sb.String())
	}
}

func TestRunOpsBadScript(t *testing.T) {
	var sb strings.Builder
	if err := runOps(&sb, nil, []string{"push:a", "rotate"}); !errors.Is(err, workload.ErrUnknownOp) {
		t.Errorf("wrong error for unknown op: %v", err)
	}
	if sb.Len() != 0 {
		t.Errorf("output written for bad script: %q", sb.String())
	}
}
