package framework

import (
	"fmt"
	"io"
	"time"
)

const stepTimestampFormat = "2006-01-02 15:04:05.000"

// Logger is a minimal sink for the engine's own debug output. The standard
// library's *log.Logger satisfies it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// StepMessage is one timestamped entry in a leaf's step log.
type StepMessage struct {
	Time    time.Time
	Message string
}

// StepLog is the ordered record of what the engine did while running one
// leaf: which hooks it invoked and when the action started and finished. It
// is handed to the RunLogger when the leaf finishes, so a reporter can show
// it for failed tests.
type StepLog []StepMessage

// Dump writes each step on its own line, prefixed and timestamped.
func (l StepLog) Dump(dest io.Writer, prefix string) {
	for _, m := range l {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(stepTimestampFormat),
			m.Message,
		)
	}
}

// stepRecorder accumulates a leaf's step log. The engine is strictly
// sequential, a single worker writes between steps, so no locking is needed.
type stepRecorder struct {
	log StepLog
}

func (r *stepRecorder) Printf(message string, args ...interface{}) {
	r.log = append(r.log, StepMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
}

func (r *stepRecorder) Log() StepLog {
	return append(StepLog(nil), r.log...)
}
