package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/specwalk/specwalk/conformance"
	"github.com/specwalk/specwalk/console"
	"github.com/specwalk/specwalk/framework"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return 1
	}

	registry := framework.NewRegistry()
	conformance.Register(registry)
	forest := params.filters.Prune(registry.Forest())

	if params.list {
		console.PrintTree(os.Stdout, forest)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if params.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.timeout)
		defer cancel()
	}

	engineLogger := framework.NullLogger()
	if params.debugAll {
		engineLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	fmt.Println()
	console.PrintFilterDescription(os.Stdout, params.filters)
	fmt.Println("Running test suite")

	reporter := &console.Reporter{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results, err := framework.Run(ctx, forest, framework.Options{
		Logger:    engineLogger,
		RunLogger: reporter,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid test declarations: %s\n", err)
		return 1
	}

	fmt.Println()
	console.PrintSummary(os.Stdout, results)

	if failures := results.Failures(); len(failures) > 0 {
		fmt.Println()
		fmt.Println("To re-run a failed test by itself:")
		for _, hint := range rerunHints(args[0], failures) {
			fmt.Printf("  %s\n", hint)
		}
	}

	if !results.OK() {
		return 1
	}
	return 0
}
