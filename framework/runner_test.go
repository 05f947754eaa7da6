package framework

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context) error { return nil }

// callLog records hook and action invocations so tests can assert on
// execution order.
type callLog struct {
	calls []string
}

func (l *callLog) record(name string) Action {
	return func(context.Context) error {
		l.calls = append(l.calls, name)
		return nil
	}
}

func (l *callLog) failWith(name string, err error) Action {
	return func(context.Context) error {
		l.calls = append(l.calls, name)
		return err
	}
}

type leafAt struct {
	path   string
	result Result
}

func flattenLeaves(results Results) []leafAt {
	var out []leafAt
	for _, root := range results.Roots {
		out = collectLeaves(out, nil, root)
	}
	return out
}

func collectLeaves(acc []leafAt, parent Path, res Result) []leafAt {
	path := parent.child(res.Description)
	if res.Kind == KindLeaf {
		return append(acc, leafAt{path: path.String(), result: res})
	}
	for _, c := range res.Children {
		acc = collectLeaves(acc, path, c)
	}
	return acc
}

func leafResultPaths(results Results) []string {
	var out []string
	for _, l := range flattenLeaves(results) {
		out = append(out, l.path)
	}
	return out
}

func mustRun(t *testing.T, forest []Node) Results {
	results, err := Run(context.Background(), forest, Options{})
	require.NoError(t, err)
	return results
}

func TestRunExecutesLeavesInDeclaredOrder(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("suite",
			Leaf("first", log.record("first")),
			Leaf("second", log.record("second")),
			Leaf("third", log.record("third")),
		),
	)
	mustRun(t, forest)
	assert.Equal(t, []string{"first", "second", "third"}, log.calls)
}

func TestBeforeEachHooksRunOuterToInner(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("parent",
			BeforeEach(log.record("P")),
			Branch("child",
				BeforeEach(log.record("A")),
				BeforeEach(log.record("B")),
				Leaf("leaf", log.record("body")),
			),
		),
	)
	mustRun(t, forest)
	assert.Equal(t, []string{"P", "A", "B", "body"}, log.calls)
}

func TestAfterEachHooksRunInnerToOuter(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("parent",
			AfterEach(log.record("Q")),
			Branch("child",
				AfterEach(log.record("C")),
				AfterEach(log.record("D")),
				Leaf("leaf", log.record("body")),
			),
		),
	)
	mustRun(t, forest)
	assert.Equal(t, []string{"body", "C", "D", "Q"}, log.calls)
}

func TestBeforeEachRunsOncePerLeaf(t *testing.T) {
	counter := 0
	inc := func(context.Context) error {
		counter++
		return nil
	}
	forest := Forest(
		Branch("A",
			BeforeEach(inc),
			Leaf("a1", noop),
			Leaf("a2", noop),
		),
	)
	mustRun(t, forest)
	assert.Equal(t, 2, counter)
}

func TestBeforeAllFailureSkipsChildrenButNotSiblings(t *testing.T) {
	log := &callLog{}
	boom := errors.New("database down")
	forest := Forest(
		Branch("broken",
			BeforeAll(log.failWith("bad setup", boom)),
			Leaf("x", log.record("x")),
		),
		Branch("healthy",
			Leaf("y", log.record("y")),
		),
	)
	results := mustRun(t, forest)

	assert.Equal(t, []string{"bad setup", "y"}, log.calls, "leaf x must never run")
	assert.Equal(t, []string{"broken/beforeAll hook", "healthy/y"}, leafResultPaths(results),
		"no result entries may be synthesized for the skipped children")

	leaves := flattenLeaves(results)
	synthetic := leaves[0].result
	assert.Equal(t, StatusFailed, synthetic.Outcome.Status)
	var hf *HookFailure
	require.True(t, errors.As(synthetic.Outcome.Cause, &hf))
	assert.Equal(t, PhaseBeforeAll, hf.Phase)
	assert.True(t, errors.Is(synthetic.Outcome.Cause, boom))
	assert.Equal(t, StatusPassed, leaves[1].result.Outcome.Status)
}

func TestBeforeAllStopsAtFirstFailure(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("suite",
			BeforeAll(log.failWith("first setup", errors.New("nope"))),
			BeforeAll(log.record("second setup")),
			Leaf("x", log.record("x")),
		),
	)
	results := mustRun(t, forest)
	assert.Equal(t, []string{"first setup"}, log.calls)
	assert.Equal(t, []string{"suite/beforeAll hook"}, leafResultPaths(results))
}

func TestAfterAllRunsAfterBeforeAllFailure(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("suite",
			BeforeAll(log.failWith("setup", errors.New("nope"))),
			AfterAll(log.record("teardown")),
			Leaf("x", log.record("x")),
		),
	)
	results := mustRun(t, forest)
	assert.Equal(t, []string{"setup", "teardown"}, log.calls)
	assert.Equal(t, []string{"suite/beforeAll hook"}, leafResultPaths(results))
}

func TestAfterAllRunsDespiteChildFailure(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("suite",
			AfterAll(log.record("teardown")),
			Leaf("bad", log.failWith("bad", errors.New("assertion failed"))),
		),
	)
	mustRun(t, forest)
	assert.Equal(t, []string{"bad", "teardown"}, log.calls)
}

func TestAfterAllFailuresAreReportedIndependently(t *testing.T) {
	log := &callLog{}
	first := errors.New("first teardown failed")
	second := errors.New("second teardown failed")
	forest := Forest(
		Branch("suite",
			AfterAll(log.failWith("teardown 1", first)),
			AfterAll(log.failWith("teardown 2", second)),
			Leaf("ok", log.record("ok")),
		),
	)
	results := mustRun(t, forest)

	assert.Equal(t, []string{"ok", "teardown 1", "teardown 2"}, log.calls,
		"one afterAll failure must not prevent the next from running")
	assert.Equal(t, []string{"suite/ok", "suite/afterAll hook", "suite/afterAll hook"},
		leafResultPaths(results))

	leaves := flattenLeaves(results)
	assert.True(t, errors.Is(leaves[1].result.Outcome.Cause, first))
	assert.True(t, errors.Is(leaves[2].result.Outcome.Cause, second))
}

func TestDeclaredEmptyBranchStillRunsItsHooks(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("empty",
			BeforeAll(log.record("beforeAll")),
			AfterAll(log.record("afterAll")),
		),
	)
	results := mustRun(t, forest)

	assert.Equal(t, []string{"beforeAll", "afterAll"}, log.calls,
		"a branch declared without leaves still runs its own hooks")
	assert.Equal(t, 0, results.Summary().Total)
	assert.True(t, results.OK())
}

func TestAfterEachStillRunsWhenActionFails(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("suite",
			AfterEach(log.record("cleanup")),
			Leaf("bad", log.failWith("bad", errors.New("assertion failed"))),
		),
	)
	mustRun(t, forest)
	assert.Equal(t, []string{"bad", "cleanup"}, log.calls)
}

func TestActionCauseSurvivesAfterEachFailure(t *testing.T) {
	actionErr := errors.New("assertion failed")
	hookErr := errors.New("cleanup failed")
	forest := Forest(
		Branch("suite",
			AfterEach(func(context.Context) error { return hookErr }),
			Leaf("bad", func(context.Context) error { return actionErr }),
		),
	)
	results := mustRun(t, forest)

	leaves := flattenLeaves(results)
	require.Len(t, leaves, 1)
	cause := leaves[0].result.Outcome.Cause
	assert.True(t, errors.Is(cause, actionErr), "the reported cause must be the action's")
	assert.False(t, errors.Is(cause, hookErr), "the afterEach failure must be swallowed")
	var af *ActionFailure
	assert.True(t, errors.As(cause, &af))
}

func TestAfterEachFailureFailsAPassingLeaf(t *testing.T) {
	firstErr := errors.New("first cleanup failed")
	secondErr := errors.New("second cleanup failed")
	forest := Forest(
		Branch("suite",
			AfterEach(func(context.Context) error { return firstErr }),
			AfterEach(func(context.Context) error { return secondErr }),
			Leaf("ok", noop),
		),
	)
	results := mustRun(t, forest)

	leaves := flattenLeaves(results)
	require.Len(t, leaves, 1)
	assert.Equal(t, StatusFailed, leaves[0].result.Outcome.Status)
	cause := leaves[0].result.Outcome.Cause
	var hf *HookFailure
	require.True(t, errors.As(cause, &hf))
	assert.Equal(t, PhaseAfterEach, hf.Phase)
	assert.True(t, errors.Is(cause, firstErr), "the first teardown failure becomes the cause")
	assert.False(t, errors.Is(cause, secondErr), "later teardown failures are swallowed")
}

func TestBeforeEachFailureSkipsActionButRunsTeardown(t *testing.T) {
	log := &callLog{}
	setupErr := errors.New("fixture broken")
	actionRan := false
	forest := Forest(
		Branch("suite",
			BeforeEach(log.failWith("first setup", setupErr)),
			BeforeEach(log.record("second setup")),
			AfterEach(log.failWith("cleanup", errors.New("cleanup also broken"))),
			Leaf("x", func(context.Context) error {
				actionRan = true
				return nil
			}),
		),
	)
	results := mustRun(t, forest)

	assert.False(t, actionRan, "the action must not run when setup failed")
	assert.Equal(t, []string{"first setup", "cleanup"}, log.calls,
		"later setup hooks must not run after the first failure; teardown still runs best-effort")

	leaves := flattenLeaves(results)
	require.Len(t, leaves, 1)
	cause := leaves[0].result.Outcome.Cause
	var hf *HookFailure
	require.True(t, errors.As(cause, &hf))
	assert.Equal(t, PhaseBeforeEach, hf.Phase)
	assert.True(t, errors.Is(cause, setupErr), "the cleanup failure must not mask the setup failure")
}

func TestSkippedLeafNeverInvokesActionOrHooks(t *testing.T) {
	log := &callLog{}
	invoked := false
	forest := Forest(
		Branch("suite",
			BeforeEach(log.record("setup")),
			AfterEach(log.record("cleanup")),
			SkipLeaf("later", func(context.Context) error {
				invoked = true
				return errors.New("would have failed")
			}),
		),
	)
	results := mustRun(t, forest)

	assert.False(t, invoked)
	assert.Empty(t, log.calls, "no hooks run for a skipped leaf")
	leaves := flattenLeaves(results)
	require.Len(t, leaves, 1)
	assert.Equal(t, StatusSkipped, leaves[0].result.Outcome.Status)
	assert.Equal(t, time.Duration(0), leaves[0].result.Duration)
}

func TestSkipReasonsAreReported(t *testing.T) {
	forest := Forest(
		Branch("suite",
			SkipLeafWithReason("flaky", "tracked separately", noop),
			PendingLeaf("not written yet"),
		),
	)
	results := mustRun(t, forest)

	leaves := flattenLeaves(results)
	require.Len(t, leaves, 2)
	assert.Equal(t, "tracked separately", leaves[0].result.Outcome.Reason)
	assert.Equal(t, "pending", leaves[1].result.Outcome.Reason)
}

func TestFocusedLeafRestrictsRun(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("suite",
			Leaf("one", log.record("one")),
			Leaf("two", log.record("two")),
			FocusLeaf("chosen", log.record("chosen")),
			Leaf("three", log.record("three")),
			Leaf("four", log.record("four")),
			Leaf("five", log.record("five")),
		),
	)
	results := mustRun(t, forest)

	assert.Equal(t, []string{"chosen"}, log.calls)
	assert.Equal(t, []string{"suite/chosen"}, leafResultPaths(results))
}

func TestPanicInActionIsCapturedAsFailure(t *testing.T) {
	log := &callLog{}
	forest := Forest(
		Branch("suite",
			Leaf("panics", func(context.Context) error { panic("kaboom") }),
			Leaf("survivor", log.record("survivor")),
		),
	)
	results := mustRun(t, forest)

	assert.Equal(t, []string{"survivor"}, log.calls, "a panic must not take down the run")
	leaves := flattenLeaves(results)
	assert.Equal(t, StatusFailed, leaves[0].result.Outcome.Status)
	assert.Contains(t, leaves[0].result.Outcome.Cause.Error(), "unexpected panic")
	assert.Contains(t, leaves[0].result.Outcome.Cause.Error(), "kaboom")
	assert.Equal(t, StatusPassed, leaves[1].result.Outcome.Status)
}

func TestPanicInHookIsCapturedAsFailure(t *testing.T) {
	forest := Forest(
		Branch("suite",
			BeforeAll(func(context.Context) error { panic("broken fixture") }),
			Leaf("x", noop),
		),
	)
	results := mustRun(t, forest)

	leaves := flattenLeaves(results)
	require.Len(t, leaves, 1)
	assert.Equal(t, "suite/beforeAll hook", leaves[0].path)
	assert.Contains(t, leaves[0].result.Outcome.Cause.Error(), "broken fixture")
}

func TestCancellationAbandonsRemainingLeaves(t *testing.T) {
	log := &callLog{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	forest := Forest(
		Branch("suite",
			AfterEach(log.record("afterEach")),
			AfterAll(log.record("afterAll")),
			Leaf("first", func(context.Context) error {
				cancel()
				return nil
			}),
			Leaf("second", log.record("second")),
		),
	)
	results, err := Run(ctx, forest, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"afterEach", "afterAll"}, log.calls,
		"the in-flight leaf's teardown and the branch's afterAll still run; the abandoned leaf runs nothing")

	leaves := flattenLeaves(results)
	require.Len(t, leaves, 2)
	assert.Equal(t, StatusPassed, leaves[0].result.Outcome.Status,
		"cancelling mid-leaf does not fail the leaf that was already running")
	assert.Equal(t, StatusCancelled, leaves[1].result.Outcome.Status)
	assert.False(t, results.OK())
	assert.Equal(t, 1, results.Summary().Cancelled)
}

func TestPreCancelledContextAbandonsEverything(t *testing.T) {
	log := &callLog{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	forest := Forest(
		Branch("suite",
			BeforeAll(log.record("beforeAll")),
			AfterAll(log.record("afterAll")),
			Leaf("a", log.record("a")),
			Leaf("b", log.record("b")),
		),
	)
	results, err := Run(ctx, forest, Options{})
	require.NoError(t, err)

	assert.Empty(t, log.calls, "an abandoned branch runs no hooks at all")
	assert.Equal(t, []string{"suite/a", "suite/b"}, leafResultPaths(results),
		"the abandoned subtree keeps its shape in the result tree")
	for _, l := range flattenLeaves(results) {
		assert.Equal(t, StatusCancelled, l.result.Outcome.Status)
	}
}

func TestRunRejectsMalformedForest(t *testing.T) {
	forest := Forest(
		Branch("suite",
			Leaf("no action", nil),
		),
	)
	results, err := Run(context.Background(), forest, Options{})
	require.Error(t, err)
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, err.Error(), "suite/no action")
	assert.Empty(t, results.Roots)
}

func TestLeafDurationIsRecorded(t *testing.T) {
	forest := Forest(
		Leaf("slow", func(context.Context) error {
			time.Sleep(2 * time.Millisecond)
			return nil
		}),
	)
	results := mustRun(t, forest)

	leaves := flattenLeaves(results)
	require.Len(t, leaves, 1)
	assert.GreaterOrEqual(t, int64(leaves[0].result.Duration), int64(2*time.Millisecond))
}

func TestRunIsReentrant(t *testing.T) {
	counter := 0
	forest := Forest(
		Branch("suite",
			BeforeEach(func(context.Context) error {
				counter++
				return nil
			}),
			Leaf("a", noop),
			Leaf("b", noop),
		),
	)
	first := mustRun(t, forest)
	second := mustRun(t, forest)

	assert.Equal(t, 4, counter, "hooks must not leak or double up across runs")
	assert.Equal(t, leafResultPaths(first), leafResultPaths(second))
}

// eventLog is a RunLogger stub recording the order of progress events.
type eventLog struct {
	events []string
}

func (e *eventLog) LeafStarted(path Path) {
	e.events = append(e.events, "started "+path.String())
}

func (e *eventLog) LeafError(path Path, err error) {
	e.events = append(e.events, "error "+path.String())
}

func (e *eventLog) LeafFinished(path Path, outcome Outcome, elapsed time.Duration, steps StepLog) {
	e.events = append(e.events, fmt.Sprintf("finished %s %s", path, outcome.Status))
}

func (e *eventLog) LeafSkipped(path Path, reason string) {
	e.events = append(e.events, "skipped "+path.String())
}

func TestRunLoggerReceivesEventsInOrder(t *testing.T) {
	events := &eventLog{}
	forest := Forest(
		Branch("suite",
			Leaf("ok", noop),
			Leaf("bad", func(context.Context) error { return errors.New("nope") }),
			SkipLeaf("later", noop),
		),
	)
	_, err := Run(context.Background(), forest, Options{RunLogger: events})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"started suite/ok",
		"finished suite/ok passed",
		"started suite/bad",
		"error suite/bad",
		"finished suite/bad failed",
		"skipped suite/later",
	}, events.events)
}

func TestEngineLoggerReceivesDebugOutput(t *testing.T) {
	debug := &stepRecorder{}
	forest := Forest(
		Branch("suite",
			Leaf("ok", noop),
			SkipLeaf("later", noop),
		),
	)
	_, err := Run(context.Background(), forest, Options{Logger: debug})
	require.NoError(t, err)

	var lines []string
	for _, m := range debug.Log() {
		lines = append(lines, m.Message)
	}
	assert.Contains(t, lines, "entering branch [suite]")
	assert.Contains(t, lines, "skipping [suite/later]")

	finished := false
	for _, line := range lines {
		if strings.HasPrefix(line, "[suite/ok] passed in ") {
			finished = true
		}
	}
	assert.True(t, finished, "leaf completion should be logged with status and duration, got %v", lines)
}
