// Package console renders run progress and results for terminal output.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/specwalk/specwalk/framework"
)

var (
	failedLabel  = color.New(color.FgRed, color.Bold)
	skippedLabel = color.New(color.FgYellow)
	passedLabel  = color.New(color.FgGreen, color.Bold)
)

// Reporter prints progress to Out as leaves execute. It implements
// framework.RunLogger.
type Reporter struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (r *Reporter) LeafStarted(path framework.Path) {
	fmt.Fprintf(r.Out, "[%s]\n", path)
}

func (r *Reporter) LeafError(path framework.Path, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(r.Out, "  %s\n", line)
	}
}

func (r *Reporter) LeafFinished(path framework.Path, outcome framework.Outcome, elapsed time.Duration, steps framework.StepLog) {
	switch outcome.Status {
	case framework.StatusFailed:
		failedLabel.Fprintf(r.Out, "  FAILED: %s\n", path)
	case framework.StatusCancelled:
		skippedLabel.Fprintf(r.Out, "  CANCELLED: %s\n", path)
	}
	if len(steps) > 0 &&
		((outcome.Status == framework.StatusFailed && r.DebugOutputOnFailure) ||
			(outcome.Status == framework.StatusPassed && r.DebugOutputOnSuccess)) {
		steps.Dump(r.Out, "    DEBUG ")
	}
}

func (r *Reporter) LeafSkipped(path framework.Path, reason string) {
	if reason == "" {
		skippedLabel.Fprintf(r.Out, "  SKIPPED: %s\n", path)
	} else {
		skippedLabel.Fprintf(r.Out, "  SKIPPED: %s (%s)\n", path, reason)
	}
}
