package bootstrap

import (
	"fmt"
	"time"

	"github.com/virthub/hubctl/internal/k8s"
	"github.com/virthub/hubctl/internal/poll"
)

// ReadinessStage polls the cluster until at least one node reports Ready.
// The loop is strictly bounded: attempts x interval from the configuration,
// never indefinite. The stage performs no mutation.
type ReadinessStage struct{}

// Name implements Stage.
func (s *ReadinessStage) Name() string { return "readiness" }

// Run implements Stage.
func (s *ReadinessStage) Run(ctx *Context) error {
	admin, err := ctx.NewClusterAdmin(ctx.Config.SourceKubeconfig)
	if err != nil {
		return fmt.Errorf("failed to create cluster client: %w", err)
	}
	ctx.State.Admin = admin

	interval := time.Duration(ctx.Config.Readiness.IntervalSeconds) * time.Second
	attempts := ctx.Config.Readiness.Attempts

	var lastNodes []k8s.NodeStatus
	err = poll.Until(ctx, interval, attempts, func(attempt int) (bool, error) {
		ctx.Observer.Progress(s.Name(), attempt, attempts)

		statuses, queryErr := admin.NodeStatuses(ctx)
		if queryErr != nil {
			// The API server may still be starting; treat as not ready.
			ctx.Observer.Printf("[%s] node query failed: %v", s.Name(), queryErr)
			return false, nil
		}

		lastNodes = statuses
		return k8s.AnyNodeReady(statuses), nil
	})
	if err != nil {
		return &ReadinessTimeoutError{
			Attempts:  attempts,
			Interval:  interval,
			LastNodes: lastNodes,
			Err:       err,
		}
	}

	ctx.State.Nodes = lastNodes
	ctx.Observer.Printf("[%s] %d node(s) observed, at least one Ready", s.Name(), len(lastNodes))
	return nil
}
