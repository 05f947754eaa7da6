package conformance

import (
	"context"
	"errors"

	"github.com/stretchr/testify/assert"

	"github.com/specwalk/specwalk/framework"
)

func failureGroup() framework.Node {
	return framework.Branch("failure isolation",

		framework.Leaf("a beforeAll failure skips the branch but not its siblings", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.Forest(
				framework.Branch("broken",
					framework.BeforeAll(fail(&calls, "setup", errors.New("setup failed"))),
					framework.Leaf("never runs", record(&calls, "never runs")),
				),
				framework.Branch("healthy",
					framework.Leaf("still runs", record(&calls, "still runs")),
				),
			)
			results, ok := runInner(ctx, c, forest)
			if !ok {
				return
			}
			assert.Equal(c, []string{"setup", "still runs"}, calls)
			outcomes := leafOutcomes(results)
			assert.Equal(c, framework.StatusFailed, outcomes["broken/beforeAll hook"],
				"the hook failure must appear as its own entry")
			assert.Equal(c, framework.StatusPassed, outcomes["healthy/still runs"])
			assert.NotContains(c, outcomes, "broken/never runs",
				"no entries may be fabricated for skipped children")
		})),

		framework.Leaf("later beforeAll hooks stop after the first failure", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.Forest(
				framework.Branch("suite",
					framework.BeforeAll(fail(&calls, "first", errors.New("nope"))),
					framework.BeforeAll(record(&calls, "second")),
					framework.Leaf("x", pass),
				),
			)
			if _, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, []string{"first"}, calls)
			}
		})),

		framework.Leaf("afterEach runs and is swallowed when the action already failed", check(func(ctx context.Context, c *checklist) {
			actionErr := errors.New("action failed")
			cleanupErr := errors.New("cleanup failed")
			cleanupRan := false
			forest := framework.Forest(
				framework.Branch("suite",
					framework.AfterEach(func(context.Context) error {
						cleanupRan = true
						return cleanupErr
					}),
					framework.Leaf("bad", func(context.Context) error { return actionErr }),
				),
			)
			results, ok := runInner(ctx, c, forest)
			if !ok {
				return
			}
			assert.True(c, cleanupRan, "teardown must run even after a failure")
			failures := results.Failures()
			if assert.Len(c, failures, 1) {
				assert.True(c, errors.Is(failures[0].Err, actionErr))
				assert.False(c, errors.Is(failures[0].Err, cleanupErr),
					"the teardown failure must not replace the original cause")
			}
		})),

		framework.Leaf("an afterEach failure fails an otherwise passing leaf", check(func(ctx context.Context, c *checklist) {
			forest := framework.Forest(
				framework.Branch("suite",
					framework.AfterEach(func(context.Context) error { return errors.New("cleanup failed") }),
					framework.Leaf("ok", pass),
				),
			)
			if results, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, framework.StatusFailed, leafOutcomes(results)["suite/ok"])
			}
		})),

		framework.Leaf("afterAll runs and reports its own entry when it fails", check(func(ctx context.Context, c *checklist) {
			forest := framework.Forest(
				framework.Branch("suite",
					framework.AfterAll(func(context.Context) error { return errors.New("teardown failed") }),
					framework.Leaf("ok", pass),
				),
			)
			if results, ok := runInner(ctx, c, forest); ok {
				outcomes := leafOutcomes(results)
				assert.Equal(c, framework.StatusPassed, outcomes["suite/ok"],
					"a late teardown failure must not rewrite leaf outcomes")
				assert.Equal(c, framework.StatusFailed, outcomes["suite/afterAll hook"])
			}
		})),

		framework.Leaf("a panic becomes a failure instead of a crash", check(func(ctx context.Context, c *checklist) {
			forest := framework.Forest(
				framework.Branch("suite",
					framework.Leaf("panics", func(context.Context) error { panic("boom") }),
					framework.Leaf("survivor", pass),
				),
			)
			results, ok := runInner(ctx, c, forest)
			if !ok {
				return
			}
			outcomes := leafOutcomes(results)
			assert.Equal(c, framework.StatusFailed, outcomes["suite/panics"])
			assert.Equal(c, framework.StatusPassed, outcomes["suite/survivor"])
			failures := results.Failures()
			if assert.Len(c, failures, 1) {
				assert.Contains(c, failures[0].Err.Error(), "boom")
			}
		})),

		framework.Leaf("skipped leaves never invoke hooks or actions", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.Forest(
				framework.Branch("suite",
					framework.BeforeEach(record(&calls, "setup")),
					framework.SkipLeafWithReason("parked", "known flaky", fail(&calls, "action", errors.New("should not run"))),
				),
			)
			results, ok := runInner(ctx, c, forest)
			if !ok {
				return
			}
			assert.Empty(c, calls)
			assert.Equal(c, framework.StatusSkipped, leafOutcomes(results)["suite/parked"])
			assert.True(c, results.OK(), "skips do not fail a run")
		})),
	)
}
