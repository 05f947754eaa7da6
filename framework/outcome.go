package framework

import (
	"fmt"
	"time"
)

// Status is the final state of one leaf.
type Status int

const (
	// StatusPassed indicates the action and every hook around it completed.
	StatusPassed Status = iota
	// StatusFailed indicates the action or a hook raised; Outcome.Cause says which.
	StatusFailed
	// StatusSkipped indicates a skip marker prevented the action from running.
	StatusSkipped
	// StatusCancelled indicates the run's context was cancelled before the
	// leaf was reached; nothing, hooks included, ran for it.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is a leaf's final status plus the cause or reason, where one
// applies. Cause is non-nil exactly when Status is StatusFailed, and is
// always a typed error value: *ActionFailure when the leaf's own action
// raised, *HookFailure when a hook did.
type Outcome struct {
	Status Status
	Cause  error
	Reason string
}

// Result is one node of the outcome tree produced by a run. It mirrors the
// shape of the input node it was produced from: a leaf result carries an
// outcome and duration, a branch result carries children. Branch results may
// also contain synthetic leaf entries named "beforeAll hook" or "afterAll
// hook" reporting hook failures that are not specific to any one leaf.
type Result struct {
	Kind        Kind
	Description string
	Outcome     Outcome
	Duration    time.Duration
	Metadata    Metadata
	Children    []Result
}

// Results is the complete product of one run: the outcome forest plus the
// wall-clock duration, measured once around the whole run rather than summed
// from per-leaf durations.
type Results struct {
	Roots    []Result
	Duration time.Duration
}

// OK reports whether the run completed with nothing failed and nothing
// cancelled.
func (r Results) OK() bool {
	s := r.Summary()
	return s.Failed == 0 && s.Cancelled == 0
}

// Failure is one failed leaf, identified by its path, flattened out of the
// result tree for reporters.
type Failure struct {
	Path     Path
	Err      error
	Metadata Metadata
}

func (f Failure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.Path, f.Err)
}

// Failures flattens the failed leaves out of the result tree in execution
// order, synthetic hook entries included.
func (r Results) Failures() []Failure {
	var out []Failure
	for _, root := range r.Roots {
		out = collectFailures(out, nil, root)
	}
	return out
}

func collectFailures(acc []Failure, parent Path, res Result) []Failure {
	path := parent.child(res.Description)
	if res.Kind == KindLeaf {
		if res.Outcome.Status == StatusFailed {
			acc = append(acc, Failure{Path: path, Err: res.Outcome.Cause, Metadata: res.Metadata})
		}
		return acc
	}
	for _, c := range res.Children {
		acc = collectFailures(acc, path, c)
	}
	return acc
}
