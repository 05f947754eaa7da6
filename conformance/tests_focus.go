package conformance

import (
	"context"

	"github.com/stretchr/testify/assert"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/specwalk/specwalk/framework"
)

func filteringGroup() framework.Node {
	return framework.Branch("filtering",

		framework.Leaf("focus markers narrow the run to the focused subtree", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.FilterFocused(framework.Forest(
				framework.Branch("cold",
					framework.Leaf("a", record(&calls, "a")),
				),
				framework.Branch("hot",
					framework.Leaf("b", record(&calls, "b")),
					framework.FocusLeaf("c", record(&calls, "c")),
				),
			))
			if results, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, []string{"c"}, calls)
				assert.Equal(c, 1, results.Summary().Total)
			}
		})),

		framework.Leaf("a focused branch keeps all of its descendants", check(func(ctx context.Context, c *checklist) {
			var calls []string
			forest := framework.FilterFocused(framework.Forest(
				framework.FocusBranch("hot",
					framework.Leaf("a", record(&calls, "a")),
					framework.Leaf("b", record(&calls, "b")),
				),
				framework.Leaf("cold", record(&calls, "cold")),
			))
			if _, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, []string{"a", "b"}, calls)
			}
		})),

		framework.Leaf("without focus markers the filter changes nothing", check(func(ctx context.Context, c *checklist) {
			forest := framework.Forest(
				framework.Branch("suite",
					framework.Leaf("a", pass),
					framework.Leaf("b", pass),
				),
			)
			filtered := framework.FilterFocused(forest)
			if results, ok := runInner(ctx, c, filtered); ok {
				assert.Equal(c, 2, results.Summary().Total)
			}
		})),

		framework.Leaf("surviving ancestors keep their hooks", check(func(ctx context.Context, c *checklist) {
			setups := 0
			forest := framework.FilterFocused(framework.Forest(
				framework.Branch("root",
					framework.BeforeEach(func(context.Context) error {
						setups++
						return nil
					}),
					framework.Leaf("plain", pass),
					framework.FocusLeaf("picked", pass),
				),
			))
			if _, ok := runInner(ctx, c, forest); ok {
				assert.Equal(c, 1, setups, "only the focused leaf runs, with its ancestor's hook")
			}
		})),

		framework.Leaf("regex filters prune by path", check(func(ctx context.Context, c *checklist) {
			var filters framework.MatchFilters
			if !assert.NoError(c, filters.MustMatch.Set("^keep")) {
				return
			}
			forest := filters.Prune(framework.Forest(
				framework.Branch("keep",
					framework.Leaf("a", pass),
				),
				framework.Branch("drop",
					framework.Leaf("b", pass),
				),
			))
			if results, ok := runInner(ctx, c, forest); ok {
				outcomes := leafOutcomes(results)
				assert.Contains(c, outcomes, "keep/a")
				assert.NotContains(c, outcomes, "drop/b")
			}
		})),

		framework.Leaf("node metadata flows through to results", check(func(ctx context.Context, c *checklist) {
			leaf := framework.Leaf("tagged", pass).
				WithMetadata("owner", ldvalue.String("core team")).
				WithMetadata("priority", ldvalue.Int(2))
			results, ok := runInner(ctx, c, framework.Forest(leaf))
			if !ok {
				return
			}
			if !assert.Len(c, results.Roots, 1) {
				return
			}
			md := results.Roots[0].Metadata
			assert.Equal(c, "core team", md.Get("owner").StringValue())
			assert.Equal(c, 2, md.Get("priority").IntValue())
			assert.Contains(c, md.Keys(), framework.MetaSourceFile,
				"builders record where the declaration came from")
		})),
	)
}
