package benchmark_test

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"modernc.org/memory"

	"allocbench/pkg/alloc"
	"allocbench/pkg/benchmark"
)

// failingAllocator fails every Calloc.
type failingAllocator struct{ frees int }

func (failingAllocator) Calloc(int) ([]byte, error) { return nil, errors.New("cannot allocate memory") }
func (f *failingAllocator) Free([]byte) error      { f.frees++; return nil }

func labels(t *testing.T, out string) []string {
	t.Helper()
	var got []string
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		m := lineRE.FindStringSubmatch(line)
		if m == nil {
			t.Fatalf("%q is not a result line", line)
		}
		if ms, err := strconv.ParseInt(m[2], 10, 64); err != nil || ms < 0 {
			t.Errorf("%q: bad millisecond count", line)
		}
		got = append(got, m[1])
	}
	return got
}

func TestRunDefaultStrategies(t *testing.T) {
	h := alloc.NewHeap(new(memory.Allocator))
	defer h.Close()

	var buf bytes.Buffer
	results, err := benchmark.Run(benchmark.NewTimer(&buf), benchmark.DefaultStrategies(h))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Static Array", "Stack Array", "Heap Array"}
	if d := cmp.Diff(want, labels(t, buf.String())); d != "" {
		t.Error(d)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Label != want[i] {
			t.Errorf("result %d is %q, wanted %q", i, r.Label, want[i])
		}
		t.Log(r)
	}
	if h.Live() != 0 {
		t.Errorf("%d heap arrays leaked", h.Live())
	}
}

func TestRunStopsAtFailure(t *testing.T) {
	fa := &failingAllocator{}
	var buf bytes.Buffer
	results, err := benchmark.Run(benchmark.NewTimer(&buf), benchmark.DefaultStrategies(alloc.NewHeap(fa)))
	if !alloc.IsAllocationFailure(err) {
		t.Fatalf("got %v, wanted an allocation failure", err)
	}
	if d := cmp.Diff([]string{"Static Array", "Stack Array"}, labels(t, buf.String())); d != "" {
		t.Error(d)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, wanted 2", len(results))
	}
	if fa.frees != 0 {
		t.Errorf("Free called %d times for failed acquisitions", fa.frees)
	}
}

func TestRunOrderFollowsStrategies(t *testing.T) {
	var order []string
	mk := func(label string) benchmark.Strategy {
		first := true
		return benchmark.Strategy{Label: label, Routine: benchmark.Infallible(func() {
			if first {
				order = append(order, label)
				first = false
			}
		})}
	}
	var buf bytes.Buffer
	if _, err := benchmark.Run(benchmark.NewTimer(&buf), []benchmark.Strategy{mk("b"), mk("a"), mk("c")}); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"b", "a", "c"}, order); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff([]string{"b", "a", "c"}, labels(t, buf.String())); d != "" {
		t.Error(d)
	}
}
