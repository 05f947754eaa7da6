package framework

import (
	"time"
)

// Summary is the fold of a result forest into counts. Total counts every leaf
// entry in the tree, synthetic hook entries included. Duration is the run's
// wall-clock duration, not a sum of per-leaf durations.
type Summary struct {
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	Cancelled int
	Duration  time.Duration
}

// Summary folds the result forest into aggregate counts.
func (r Results) Summary() Summary {
	s := Summary{Duration: r.Duration}
	for _, root := range r.Roots {
		s.add(root)
	}
	return s
}

func (s *Summary) add(res Result) {
	if res.Kind != KindLeaf {
		for _, c := range res.Children {
			s.add(c)
		}
		return
	}
	s.Total++
	switch res.Outcome.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	case StatusCancelled:
		s.Cancelled++
	}
}
