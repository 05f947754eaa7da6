package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/specwalk/specwalk/framework"
)

// PrintSummary writes the end-of-run report: counts, total duration, and the
// failure list with the source locations recorded by the declarations.
func PrintSummary(w io.Writer, results framework.Results) {
	s := results.Summary()

	counts := fmt.Sprintf("Ran %d tests in %s: %d passed, %d failed, %d skipped",
		s.Total, s.Duration.Round(time.Millisecond), s.Passed, s.Failed, s.Skipped)
	if s.Cancelled > 0 {
		counts += fmt.Sprintf(", %d cancelled", s.Cancelled)
	}
	fmt.Fprintln(w, counts)

	if results.OK() {
		passedLabel.Fprintln(w, "All tests passed")
		return
	}

	if failures := results.Failures(); len(failures) > 0 {
		fmt.Fprintln(w)
		failedLabel.Fprintf(w, "FAILED TESTS (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(w, "  * %s\n", f.Path)
			if loc := sourceLocation(f.Metadata); loc != "" {
				fmt.Fprintf(w, "      declared at %s\n", loc)
			}
		}
	}
	if s.Cancelled > 0 {
		fmt.Fprintln(w)
		skippedLabel.Fprintf(w, "Run was cancelled before completion; %d tests did not run\n", s.Cancelled)
	}
}

func sourceLocation(md framework.Metadata) string {
	file := md.Get(framework.MetaSourceFile)
	if file.IsNull() {
		return ""
	}
	return fmt.Sprintf("%s:%d", file.StringValue(), md.Get(framework.MetaSourceLine).IntValue())
}

// PrintFilterDescription explains up front which filters will narrow this
// run, so a log that shows fewer tests than expected is self-explanatory.
func PrintFilterDescription(w io.Writer, filters framework.MatchFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	fmt.Fprintln(w, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(w)
}

// PrintTree lists the tests in a forest without running anything, indented
// to show the branch structure.
func PrintTree(w io.Writer, forest []framework.Node) {
	for _, n := range forest {
		printNode(w, n, 0)
	}
}

func printNode(w io.Writer, n framework.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Kind() == framework.KindLeaf {
		marker := ""
		if n.Skipped() {
			marker = " (skipped)"
		}
		fmt.Fprintf(w, "%s- %s%s\n", indent, n.Description(), marker)
		return
	}
	childDepth := depth
	if n.Description() != "" {
		fmt.Fprintf(w, "%s%s\n", indent, n.Description())
		childDepth++
	}
	for _, c := range n.Children() {
		printNode(w, c, childDepth)
	}
}
