package benchmark

import (
	"allocbench/pkg/alloc"
)

// Labels printed for each strategy.
const (
	LabelStatic = "Static Array"
	LabelStack  = "Stack Array"
	LabelHeap   = "Heap Array"
)

// Strategy pairs a routine with the label its result is printed under.
type Strategy struct {
	Label   string
	Routine Routine
}

// DefaultStrategies returns static, stack and heap, in that order.
// The heap strategy draws from h.
func DefaultStrategies(h *alloc.Heap) []Strategy {
	return []Strategy{
		{Label: LabelStatic, Routine: Infallible(alloc.Static)},
		{Label: LabelStack, Routine: Infallible(alloc.Stack)},
		{Label: LabelHeap, Routine: h.Run},
	}
}

// Run measures each strategy in order with t.
// It stops at the first failure and returns the results gathered so far.
func Run(t *Timer, strategies []Strategy) ([]Result, error) {
	results := make([]Result, 0, len(strategies))
	for _, s := range strategies {
		res, err := t.Measure(s.Label, s.Routine)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
