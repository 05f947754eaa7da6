package conformance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specwalk/specwalk/framework"
)

// checklist accumulates assertion failures from one check. It implements
// assert.TestingT, so the testify assert package can be used inside check
// bodies the same way it is used in ordinary Go tests.
type checklist struct {
	failures []string
}

func (c *checklist) Errorf(format string, args ...interface{}) {
	c.failures = append(c.failures, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (c *checklist) err() error {
	if len(c.failures) == 0 {
		return nil
	}
	return errors.New(strings.Join(c.failures, "\n"))
}

// check adapts a checklist-based body to the engine's Action type. The
// action fails if the body recorded any assertion failures.
func check(body func(ctx context.Context, c *checklist)) framework.Action {
	return func(ctx context.Context) error {
		c := &checklist{}
		body(ctx, c)
		return c.err()
	}
}

// runInner executes a nested forest with the engine under test. A rejected
// forest fails the surrounding check.
func runInner(ctx context.Context, c *checklist, forest []framework.Node) (framework.Results, bool) {
	results, err := framework.Run(ctx, forest, framework.Options{})
	if err != nil {
		c.Errorf("forest was rejected: %s", err)
		return framework.Results{}, false
	}
	return results, true
}

// leafOutcomes flattens a result tree into path -> status.
func leafOutcomes(results framework.Results) map[string]framework.Status {
	out := make(map[string]framework.Status)
	for _, root := range results.Roots {
		addOutcomes(out, "", root)
	}
	return out
}

func addOutcomes(dst map[string]framework.Status, prefix string, res framework.Result) {
	path := joinPath(prefix, res.Description)
	if res.Kind == framework.KindLeaf {
		dst[path] = res.Outcome.Status
		return
	}
	for _, child := range res.Children {
		addOutcomes(dst, path, child)
	}
}

func joinPath(prefix, name string) string {
	switch {
	case name == "":
		return prefix
	case prefix == "":
		return name
	default:
		return prefix + "/" + name
	}
}

// record returns an action that appends name to calls when it runs.
func record(calls *[]string, name string) framework.Action {
	return func(context.Context) error {
		*calls = append(*calls, name)
		return nil
	}
}

// fail returns an action that appends name to calls and then fails.
func fail(calls *[]string, name string, err error) framework.Action {
	return func(context.Context) error {
		*calls = append(*calls, name)
		return err
	}
}

func pass(context.Context) error { return nil }
