// Package main is the entry point for the hubctl CLI.
//
// hubctl takes a bare Linux host to a verified single-node k3s control
// plane with Rancher on top: it fixes local name resolution, runs the k3s
// installer, waits for node readiness, hands the cluster credentials to
// the invoking user, and verifies cluster health.
//
// Commands: up, health, teardown, version, completion.
//
// For detailed usage information, run:
//
//	hubctl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/virthub/hubctl/cmd/hubctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Interrupts cancel the context; the pipeline aborts between stages
	// rather than mid-mutation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
