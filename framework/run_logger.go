package framework

import (
	"time"
)

// RunLogger receives progress events while a run executes, in execution
// order. The engine calls it from its single worker, so implementations need
// no locking. The result tree is the authoritative record; a RunLogger exists
// for live console output and similar reporting.
//
// Synthetic "beforeAll hook"/"afterAll hook" failure entries go through the
// same three calls as a failed leaf. A leaf abandoned by cancellation gets
// only LeafFinished, with a cancelled outcome.
type RunLogger interface {
	LeafStarted(path Path)
	LeafError(path Path, err error)
	LeafFinished(path Path, outcome Outcome, elapsed time.Duration, steps StepLog)
	LeafSkipped(path Path, reason string)
}

type nullRunLogger struct{}

func (n nullRunLogger) LeafStarted(Path)                                   {}
func (n nullRunLogger) LeafError(Path, error)                              {}
func (n nullRunLogger) LeafFinished(Path, Outcome, time.Duration, StepLog) {}
func (n nullRunLogger) LeafSkipped(Path, string)                           {}
