package framework

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Options configures a run. The zero value is valid: no debug output and no
// progress events.
type Options struct {
	// Logger receives the engine's own debug output for the whole run.
	Logger Logger
	// RunLogger receives progress events as leaves start and finish.
	RunLogger RunLogger
}

// Run executes a specification forest and returns the outcome tree. The error
// return is used only for a malformed input forest (see ValidateForest);
// failures during the run never surface here, they are captured as outcome
// values inside the results.
//
// Run first applies FilterFocused, once, globally. It then walks the filtered
// forest with a single worker, in declaration order, threading the
// accumulated beforeEach/afterEach hooks of every enclosing branch through
// the walk. Nothing is shared between runs, so Run is reentrant; a forest can
// be run many times, concurrently or not.
//
// Cancelling the context abandons everything not yet started: the node the
// engine is inside finishes its teardown hooks, and every remaining node
// yields a cancelled outcome with no hook activity at all. Cancelled leaves
// are distinguished from skipped ones by StatusCancelled; they are never
// simply omitted from the tree.
func Run(ctx context.Context, forest []Node, opts Options) (Results, error) {
	if err := ValidateForest(forest); err != nil {
		return Results{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	w := &walker{logger: opts.Logger, runLogger: opts.RunLogger}
	if w.logger == nil {
		w.logger = NullLogger()
	}
	if w.runLogger == nil {
		w.runLogger = nullRunLogger{}
	}

	for _, n := range forest {
		if HasFocused(n) {
			w.logger.Printf("focus markers found: only focused tests will run")
			break
		}
	}
	filtered := FilterFocused(forest)

	start := time.Now()
	roots := make([]Result, 0, len(filtered))
	for _, n := range filtered {
		roots = append(roots, w.walk(ctx, nil, n, nil, nil))
	}
	return Results{Roots: roots, Duration: time.Since(start)}, nil
}

type walker struct {
	logger    Logger
	runLogger RunLogger
}

// walk runs one node. pre and post are the beforeEach/afterEach hooks
// accumulated from every enclosing branch, threaded explicitly so the walk
// has no ambient state and cannot leak hooks across runs.
func (w *walker) walk(ctx context.Context, parent Path, n Node, pre, post []Action) Result {
	path := parent.child(n.description)
	if ctx.Err() != nil {
		return w.abandon(path, n)
	}
	if n.kind == KindLeaf {
		return w.runLeaf(ctx, path, n, pre, post)
	}
	return w.runBranch(ctx, path, n, pre, post)
}

func (w *walker) runBranch(ctx context.Context, path Path, n Node, pre, post []Action) Result {
	w.logger.Printf("entering branch [%s]", path)

	var entries []Result
	beforeAllOK := true
	for i, h := range n.hooks.BeforeAll {
		w.logger.Printf("[%s] beforeAll hook %d/%d", path, i+1, len(n.hooks.BeforeAll))
		if err := protectedCall(ctx, h); err != nil {
			// The branch's children are skipped entirely; no result entries
			// are synthesized for them.
			entries = append(entries, w.hookFailure(path, PhaseBeforeAll, err))
			beforeAllOK = false
			break
		}
	}

	if beforeAllOK {
		childPre := concatActions(pre, n.hooks.BeforeEach)
		childPost := concatActions(n.hooks.AfterEach, post)
		for _, c := range n.children {
			entries = append(entries, w.walk(ctx, path, c, childPre, childPost))
		}
	}

	// Teardown always gets its chance, even after a beforeAll failure or a
	// cancellation that abandoned the remaining children. Each afterAll hook
	// is wrapped independently so one failure cannot prevent the next from
	// running.
	for i, h := range n.hooks.AfterAll {
		w.logger.Printf("[%s] afterAll hook %d/%d", path, i+1, len(n.hooks.AfterAll))
		if err := protectedCall(ctx, h); err != nil {
			entries = append(entries, w.hookFailure(path, PhaseAfterAll, err))
		}
	}

	return Result{
		Kind:        KindBranch,
		Description: n.description,
		Metadata:    n.metadata,
		Children:    entries,
	}
}

func (w *walker) runLeaf(ctx context.Context, path Path, n Node, pre, post []Action) Result {
	if n.skipped {
		w.logger.Printf("skipping [%s]", path)
		w.runLogger.LeafSkipped(path, n.skipReason)
		return Result{
			Kind:        KindLeaf,
			Description: n.description,
			Outcome:     Outcome{Status: StatusSkipped, Reason: n.skipReason},
			Metadata:    n.metadata,
		}
	}

	w.runLogger.LeafStarted(path)
	steps := &stepRecorder{}
	start := time.Now()

	var cause error
	setupOK := true
	for i, h := range pre {
		steps.Printf("beforeEach hook %d/%d", i+1, len(pre))
		if err := protectedCall(ctx, h); err != nil {
			cause = &HookFailure{Phase: PhaseBeforeEach, Err: err}
			setupOK = false
			break
		}
	}

	if setupOK {
		steps.Printf("running action")
		if err := protectedCall(ctx, n.action); err != nil {
			cause = &ActionFailure{Err: err}
		}
	}

	// Teardown is best-effort: every accumulated afterEach hook runs whether
	// or not setup and the action succeeded. A teardown failure fails a
	// passing leaf; after an existing failure it is swallowed so the original
	// cause is preserved.
	for i, h := range post {
		steps.Printf("afterEach hook %d/%d", i+1, len(post))
		if err := protectedCall(ctx, h); err != nil && cause == nil {
			cause = &HookFailure{Phase: PhaseAfterEach, Err: err}
		}
	}

	elapsed := time.Since(start)
	outcome := Outcome{Status: StatusPassed}
	if cause != nil {
		outcome = Outcome{Status: StatusFailed, Cause: cause}
		w.runLogger.LeafError(path, cause)
	}
	w.logger.Printf("[%s] %s in %s", path, outcome.Status, elapsed)
	w.runLogger.LeafFinished(path, outcome, elapsed, steps.Log())

	return Result{
		Kind:        KindLeaf,
		Description: n.description,
		Outcome:     outcome,
		Duration:    elapsed,
		Metadata:    n.metadata,
	}
}

// hookFailure reports a beforeAll/afterAll failure as a synthetic leaf entry
// inside the owning branch, so it is visible in reports without being
// mistaken for a declared test.
func (w *walker) hookFailure(branchPath Path, phase HookPhase, err error) Result {
	cause := &HookFailure{Phase: phase, Err: err}
	description := string(phase) + " hook"
	path := branchPath.child(description)
	outcome := Outcome{Status: StatusFailed, Cause: cause}
	w.runLogger.LeafStarted(path)
	w.runLogger.LeafError(path, cause)
	w.runLogger.LeafFinished(path, outcome, 0, nil)
	return Result{
		Kind:        KindLeaf,
		Description: description,
		Outcome:     outcome,
		Metadata:    Metadata{},
	}
}

// abandon produces the result for a node reached after cancellation. The
// subtree shape is mirrored so reporters see exactly what never ran; no hook
// of an abandoned node is invoked, since none of its setup ever happened.
func (w *walker) abandon(path Path, n Node) Result {
	if n.kind == KindLeaf {
		outcome := Outcome{Status: StatusCancelled}
		w.runLogger.LeafFinished(path, outcome, 0, nil)
		return Result{
			Kind:        KindLeaf,
			Description: n.description,
			Outcome:     outcome,
			Metadata:    n.metadata,
		}
	}
	children := make([]Result, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, w.abandon(path.child(c.description), c))
	}
	return Result{
		Kind:        KindBranch,
		Description: n.description,
		Metadata:    n.metadata,
		Children:    children,
	}
}

// protectedCall invokes one action, converting a panic into an ordinary error
// so a single step can never take down the run.
func protectedCall(ctx context.Context, a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected panic: %+v\n%s", r, string(debug.Stack()))
		}
	}()
	return a(ctx)
}

func concatActions(first, second []Action) []Action {
	if len(second) == 0 {
		return first
	}
	if len(first) == 0 {
		return second
	}
	out := make([]Action, 0, len(first)+len(second))
	out = append(out, first...)
	return append(out, second...)
}
