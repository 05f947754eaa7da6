package conformance

import (
	"context"

	"github.com/stretchr/testify/assert"

	"github.com/specwalk/specwalk/framework"
)

func orderingGroup() framework.Node {
	return framework.Branch("hook ordering",

		framework.Leaf("leaves run in declaration order", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.Forest(
				framework.Branch("suite",
					framework.Leaf("first", record(&calls, "first")),
					framework.Leaf("second", record(&calls, "second")),
					framework.Leaf("third", record(&calls, "third")),
				),
			)
			if results, ok := runInner(ctx, c, forest); ok {
				assert.True(c, results.OK())
				assert.Equal(c, []string{"first", "second", "third"}, calls)
			}
		})),

		framework.Leaf("beforeEach runs outer to inner before the action", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.Forest(
				framework.Branch("parent",
					framework.BeforeEach(record(&calls, "outer")),
					framework.Branch("child",
						framework.BeforeEach(record(&calls, "inner 1")),
						framework.BeforeEach(record(&calls, "inner 2")),
						framework.Leaf("leaf", record(&calls, "action")),
					),
				),
			)
			if _, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, []string{"outer", "inner 1", "inner 2", "action"}, calls)
			}
		})),

		framework.Leaf("afterEach runs inner to outer after the action", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.Forest(
				framework.Branch("parent",
					framework.AfterEach(record(&calls, "outer")),
					framework.Branch("child",
						framework.AfterEach(record(&calls, "inner 1")),
						framework.AfterEach(record(&calls, "inner 2")),
						framework.Leaf("leaf", record(&calls, "action")),
					),
				),
			)
			if _, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, []string{"action", "inner 1", "inner 2", "outer"}, calls)
			}
		})),

		framework.Leaf("beforeAll runs once per branch, beforeEach once per leaf", check(func(ctx context.Context, c *checklist) {
			allCount, eachCount := 0, 0
			forest := framework.Forest(
				framework.Branch("suite",
					framework.BeforeAll(func(context.Context) error {
						allCount++
						return nil
					}),
					framework.BeforeEach(func(context.Context) error {
						eachCount++
						return nil
					}),
					framework.Leaf("one", pass),
					framework.Leaf("two", pass),
					framework.Leaf("three", pass),
				),
			)
			if _, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, 1, allCount, "beforeAll must run exactly once")
				assert.Equal(c, 3, eachCount, "beforeEach must run once per leaf")
			}
		})),

		framework.Leaf("afterAll runs after the last leaf of its branch", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.Forest(
				framework.Branch("suite",
					framework.AfterAll(record(&calls, "afterAll")),
					framework.Leaf("one", record(&calls, "one")),
					framework.Branch("nested",
						framework.Leaf("two", record(&calls, "two")),
					),
				),
			)
			if _, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, []string{"one", "two", "afterAll"}, calls)
			}
		})),
	)
}
