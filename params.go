package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/specwalk/specwalk/framework"
)

type commandParams struct {
	filters  framework.MatchFilters
	list     bool
	timeout  time.Duration
	debug    bool
	debugAll bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.list, "list", false, "print the test tree without running anything")
	fs.DurationVar(&c.timeout, "timeout", 0, "give up after this long, for example 30s or 2m")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

const maxRerunHints = 5

// rerunHints builds copy-pasteable commands that re-run failed tests one at
// a time, up to a limit.
func rerunHints(program string, failures []framework.Failure) []string {
	var hints []string
	for i, f := range failures {
		if i == maxRerunHints {
			hints = append(hints, fmt.Sprintf("(and %d more)", len(failures)-maxRerunHints))
			break
		}
		var b commandBuilder
		b.add(program, "-run", "^"+regexp.QuoteMeta(f.Path.String())+"$")
		hints = append(hints, b.String())
	}
	return hints
}
