package framework

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchFilters selects leaves by their "/"-joined description path. A leaf is
// kept if its path matches at least one MustMatch pattern (or MustMatch is
// empty) and no MustNotMatch pattern. Plain substrings work as-is since they
// are valid regexes.
//
// This is the CLI layer's pre-filter: it runs before the engine and simply
// hands Run a smaller forest, so it changes nothing about the engine's
// contract. Unlike focus filtering there is no "kept whole" rule; every leaf
// is judged individually and a branch survives, hooks intact, only while it
// still has surviving descendants.
type MatchFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// Matches reports whether a leaf path satisfies the filter criteria.
func (m MatchFilters) Matches(path Path) bool {
	name := path.String()
	return (!m.MustMatch.IsDefined() || m.MustMatch.AnyMatch(name)) &&
		!m.MustNotMatch.AnyMatch(name)
}

// Prune returns the forest reduced to the leaves that satisfy the filters.
// With no patterns defined the input is returned unchanged.
func (m MatchFilters) Prune(forest []Node) []Node {
	if !m.MustMatch.IsDefined() && !m.MustNotMatch.IsDefined() {
		return forest
	}
	pruned := make([]Node, 0, len(forest))
	for _, n := range forest {
		if kept, ok := m.pruneNode(nil, n); ok {
			pruned = append(pruned, kept)
		}
	}
	return pruned
}

func (m MatchFilters) pruneNode(parent Path, n Node) (Node, bool) {
	path := parent.child(n.description)
	if n.kind != KindBranch {
		if m.Matches(path) {
			return n, true
		}
		return Node{}, false
	}
	var kept []Node
	for _, c := range n.children {
		if kc, ok := m.pruneNode(path, c); ok {
			kept = append(kept, kc)
		}
	}
	if len(kept) == 0 {
		return Node{}, false
	}
	out := n
	out.children = kept
	return out, true
}

// RegexList is a list of regex patterns that can be accumulated one at a time,
// so it can back a repeatable command-line flag.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
